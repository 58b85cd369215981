package errors

import (
	"strings"
	"unicode"

	"github.com/lucasb-eyer/go-colorful"
)

// maxIDLength bounds region and statement identifiers.
const maxIDLength = 128

// ValidateID validates a region or statement identifier.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No whitespace or control characters
//   - No quotes (identifiers are embedded in SVG ids and DOT labels)
//   - Maximum length of 128 characters
func ValidateID(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "%s id cannot be empty", kind)
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "%s id too long (max %d characters)", kind, maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "%s id %q contains whitespace or control characters", kind, id)
		}
	}
	if strings.ContainsAny(id, `"'<>&`) {
		return New(ErrCodeInvalidInput, "%s id %q contains reserved characters", kind, id)
	}
	return nil
}

// ValidateGrid validates overall grid dimensions.
func ValidateGrid(width, height int) error {
	if width < 0 || height < 0 {
		return New(ErrCodeInvalidInput, "grid dimensions must be non-negative (got %dx%d)", width, height)
	}
	return nil
}

// ValidateHexColor validates a palette entry of the form #rrggbb.
func ValidateHexColor(s string) error {
	c, err := colorful.Hex(s)
	if err != nil {
		return Wrap(ErrCodeInvalidPalette, err, "color %q must have the form #rrggbb", s)
	}
	// Hex also takes #rgb and ignores trailing input.
	if !strings.EqualFold(c.Hex(), s) {
		return New(ErrCodeInvalidPalette, "color %q must have the form #rrggbb", s)
	}
	return nil
}

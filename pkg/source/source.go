package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/regionmap/pkg/diagram"
	"github.com/matzehuels/regionmap/pkg/errors"
)

// Format identifies an input format.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatDSL  Format = "dsl"
)

// Formats lists the supported formats.
var Formats = []Format{FormatJSON, FormatTOML, FormatDSL}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	if !slices.Contains(Formats, f) {
		return "", errors.New(errors.ErrCodeInvalidFormat, "unknown input format %q (use json, toml or dsl)", s)
	}
	return f, nil
}

// DetectFormat picks a format from a file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".rmap", ".txt", ".dsl":
		return FormatDSL, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "cannot detect input format of %s", path)
}

// Read decodes an input in the given format.
func Read(r io.Reader, format Format) (diagram.Input, error) {
	switch format {
	case FormatJSON:
		return readJSON(r)
	case FormatTOML:
		return readTOML(r)
	case FormatDSL:
		return readDSL(r)
	}
	return diagram.Input{}, errors.New(errors.ErrCodeInvalidFormat, "unknown input format %q", format)
}

// ReadBytes decodes an in-memory input.
func ReadBytes(data []byte, format Format) (diagram.Input, error) {
	return Read(bytes.NewReader(data), format)
}

// ReadFile reads an input file, detecting its format from the extension.
func ReadFile(path string) (diagram.Input, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return diagram.Input{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return diagram.Input{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "input %s", path)
		}
		return diagram.Input{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, format)
}

func readJSON(r io.Reader) (diagram.Input, error) {
	var in diagram.Input
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return diagram.Input{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
	}
	return in, nil
}

func readTOML(r io.Reader) (diagram.Input, error) {
	var in diagram.Input
	md, err := toml.NewDecoder(r).Decode(&in)
	if err != nil {
		return diagram.Input{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return diagram.Input{}, errors.New(errors.ErrCodeInvalidFormat, "unknown toml key %q", undecoded[0].String())
	}
	return in, nil
}

package layout

import (
	"strings"

	"golang.org/x/text/width"
)

// RuneWidth returns the display width of r in character cells. East Asian
// wide and fullwidth runes take two cells.
func RuneWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	}
	return 1
}

// TextWidth returns the display width of s.
func TextWidth(s string) int {
	w := 0
	for _, r := range s {
		w += RuneWidth(r)
	}
	return w
}

// Wrap breaks text into lines no wider than limit display cells. Words are
// kept whole unless a single word exceeds the limit, in which case it is
// split. Explicit newlines start a new line. Empty text yields no lines.
func Wrap(text string, limit int) []string {
	limit = max(limit, 1)
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			if strings.TrimSpace(text) != "" {
				lines = append(lines, "")
			}
			continue
		}

		var cur strings.Builder
		curW := 0
		flush := func() {
			lines = append(lines, cur.String())
			cur.Reset()
			curW = 0
		}
		for _, word := range words {
			ww := TextWidth(word)
			if curW > 0 && curW+1+ww <= limit {
				cur.WriteByte(' ')
				cur.WriteString(word)
				curW += 1 + ww
				continue
			}
			if curW > 0 {
				flush()
			}
			for _, r := range word {
				rw := RuneWidth(r)
				if curW > 0 && curW+rw > limit {
					flush()
				}
				cur.WriteRune(r)
				curW += rw
			}
		}
		flush()
	}
	return lines
}

// CellHeights returns, per row, the largest wrapped line count of the
// statements anchored in that row plus padding lines. texts and rows are
// parallel: statement k has text texts[k] and sits in row rows[k].
func CellHeights(height int, texts []string, rows []int, wrapWidth, padding int) []int {
	heights := make([]int, height)
	for k, text := range texts {
		r := rows[k]
		if r < 0 || r >= height {
			continue
		}
		heights[r] = max(heights[r], len(Wrap(text, wrapWidth)))
	}
	for r := range heights {
		heights[r] += padding
	}
	return heights
}

// Package table lays out rows of multi-line cells as a box-drawn grid,
// shrinking columns proportionally when the terminal is too narrow.
package table

import (
	"strings"

	"github.com/timvw/muxpick/internal/textwidth"
)

// Alignment places a line's text within its column width.
type Alignment int

const (
	Left Alignment = iota
	Center
	Right
)

// Line is one rendered line of a cell.
type Line struct {
	Text  string
	Align Alignment
}

// Value is the content of one cell, top to bottom.
type Value []Line

// Text builds a cell value from a plain string, splitting on newlines.
// Every resulting line is left-aligned.
func Text(s string) Value {
	parts := strings.Split(s, "\n")
	v := make(Value, len(parts))
	for i, p := range parts {
		v[i] = Line{Text: p, Align: Left}
	}
	return v
}

// Aligned builds a single-line cell value with an explicit alignment.
func Aligned(s string, a Alignment) Value {
	return Value{{Text: s, Align: a}}
}

// Lines builds a cell value from prepared lines, kept as given.
func Lines(ls ...Line) Value {
	return Value(ls)
}

const ellipsis = "..."

// normalize caps a value at maxLines lines. The overflow is dropped and a
// single left-aligned "..." line takes the place of the last kept line.
// A maxLines of zero or less means no cap.
func normalize(v Value, maxLines int) Value {
	if maxLines <= 0 || len(v) <= maxLines {
		return v
	}
	out := make(Value, 0, maxLines)
	out = append(out, v[:maxLines-1]...)
	out = append(out, Line{Text: ellipsis, Align: Left})
	return out
}

// align renders text at exactly width visible characters. Text wider than
// the column is truncated with a trailing ellipsis; if even the ellipsis
// does not fit, a prefix of it is used. Shorter text is padded with
// spaces: left alignment pads the right, right alignment the left, and
// center splits the padding with the extra space going right.
func align(text string, a Alignment, width int) string {
	w := textwidth.VisibleWidth(text)
	if w > width {
		if width < len(ellipsis) {
			return ellipsis[:width]
		}
		return cut(text, width-len(ellipsis)) + ellipsis
	}
	pad := width - w
	switch a {
	case Right:
		return strings.Repeat(" ", pad) + text
	case Center:
		left := pad / 2
		return strings.Repeat(" ", left) + text + strings.Repeat(" ", pad-left)
	default:
		return text + strings.Repeat(" ", pad)
	}
}

// cut returns a prefix of text holding exactly n visible characters.
// Escape sequences before the cut point are kept so color state survives
// truncation; the caller must know n is less than the text's full width.
func cut(text string, n int) string {
	var b strings.Builder
	seen := 0
	inEscape := false
	inCSI := false
	for _, r := range text {
		if inEscape {
			b.WriteRune(r)
			if !inCSI && r == '[' {
				inCSI = true
				continue
			}
			if r >= 0x40 && r < 0x7e {
				inEscape = false
				inCSI = false
			}
			continue
		}
		if r == 0x1b {
			inEscape = true
			b.WriteRune(r)
			continue
		}
		if r >= 0x20 {
			if seen == n {
				break
			}
			seen++
		}
		b.WriteRune(r)
	}
	return b.String()
}

package table

import (
	"fmt"
	"math"

	"github.com/timvw/muxpick/internal/textwidth"
)

// Extractor produces the cell value for one row. The boolean reports
// whether this extractor applies to the row; false falls through to the
// next extractor in the column's list.
type Extractor[Row any] func(Row) (Value, bool)

// Field adapts a plain accessor into an extractor that always applies.
func Field[Row any](fn func(Row) string) Extractor[Row] {
	return func(r Row) (Value, bool) {
		return Text(fn(r)), true
	}
}

// Const ignores the row and always yields the given text. Useful as the
// last entry in an extractor list, as a fallback for rows the earlier
// extractors decline.
func Const[Row any](s string) Extractor[Row] {
	v := Text(s)
	return func(Row) (Value, bool) {
		return v, true
	}
}

// Absent never applies.
func Absent[Row any]() Extractor[Row] {
	return func(Row) (Value, bool) {
		return nil, false
	}
}

// Column owns one field of the table: its title, how to pull the field
// out of a row, width bounds, and the cells rendered so far. Cell index 0
// is the title itself.
type Column[Row any] struct {
	title      string
	extractors []Extractor[Row]
	min        int
	max        int
	natural    int
	cells      []Value
}

// NewColumn builds a column with the given title and extractor chain.
// Extractors run in the given order per row; the first that applies wins.
func NewColumn[Row any](title string, extractors ...Extractor[Row]) *Column[Row] {
	c := &Column[Row]{
		title:      title,
		extractors: extractors,
		min:        1,
		max:        math.MaxInt,
	}
	c.addCell(Aligned(title, Center), 0)
	return c
}

// Min sets the width floor the column never shrinks below.
func (c *Column[Row]) Min(w int) *Column[Row] {
	c.min = w
	return c
}

// Max caps the column's width. The cap applies before shrink arithmetic:
// a column wider than its cap contributes only the capped width.
func (c *Column[Row]) Max(w int) *Column[Row] {
	c.max = w
	return c
}

// extractValue runs the extractor chain on a row. Every extractor
// declining is a contract violation by the column's author, not a runtime
// condition, and panics with the column name.
func (c *Column[Row]) extractValue(row Row) Value {
	for _, ex := range c.extractors {
		if v, ok := ex(row); ok {
			return v
		}
	}
	panic(fmt.Sprintf("table: column %q: no extractor produced a value", c.title))
}

func (c *Column[Row]) addRow(row Row, maxLines int) {
	c.addCell(c.extractValue(row), maxLines)
}

func (c *Column[Row]) addCell(v Value, maxLines int) {
	v = normalize(v, maxLines)
	for _, ln := range v {
		if w := textwidth.VisibleWidth(ln.Text); w > c.natural {
			c.natural = w
		}
	}
	c.cells = append(c.cells, v)
}

// width returns the column's render width before any shrink: the widest
// cell line seen so far, clamped into [min, max].
func (c *Column[Row]) width() int {
	w := c.natural
	if w > c.max {
		w = c.max
	}
	if w < c.min {
		w = c.min
	}
	return w
}

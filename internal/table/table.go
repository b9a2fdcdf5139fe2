package table

import (
	"math"
	"strings"

	"github.com/timvw/muxpick/internal/textwidth"
)

// Table collects columns and opaque row objects and renders them as a
// box-drawn grid. Rows and columns may arrive in any order: a column
// added late backfills its cells for every row already present.
type Table[Row any] struct {
	// MinRowHeight pads every row block to at least this many lines.
	MinRowHeight int
	// MaxRowHeight caps cell heights; overflowing cells end in a "..."
	// marker line. Zero or less means uncapped.
	MaxRowHeight int
	// WidthFn reports the target terminal width at render time.
	// Defaults to textwidth.Terminal; tests swap in a fixed value.
	WidthFn func() int

	columns []*Column[Row]
	rows    []Row
}

// New builds an empty table with the given cell height cap.
func New[Row any](maxRowHeight int) *Table[Row] {
	return &Table[Row]{
		MinRowHeight: 1,
		MaxRowHeight: maxRowHeight,
		WidthFn:      textwidth.Terminal,
	}
}

// AddColumn appends a column, filling in its cells for all existing rows.
func (t *Table[Row]) AddColumn(c *Column[Row]) *Table[Row] {
	for _, row := range t.rows {
		c.addRow(row, t.MaxRowHeight)
	}
	t.columns = append(t.columns, c)
	return t
}

// AddRow appends a row object and renders its cell in every column.
func (t *Table[Row]) AddRow(row Row) {
	t.rows = append(t.rows, row)
	for _, c := range t.columns {
		c.addRow(row, t.MaxRowHeight)
	}
}

// Render lays the table out for the width reported by WidthFn and returns
// it as one string with a trailing newline. A table too wide to fit even
// after shrinking renders at its floor-respecting widths and overflows.
func (t *Table[Row]) Render() string {
	if len(t.columns) == 0 {
		return ""
	}
	widths := t.resolveWidths()

	var b strings.Builder
	rule := func(left, mid, right string) {
		b.WriteString(left)
		for i, w := range widths {
			if i > 0 {
				b.WriteString(mid)
			}
			b.WriteString(strings.Repeat("─", w))
		}
		b.WriteString(right)
		b.WriteByte('\n')
	}

	rule("┌", "┬", "┐")
	t.writeRow(&b, 0, widths)
	for r := 1; r <= len(t.rows); r++ {
		rule("├", "┼", "┤")
		t.writeRow(&b, r, widths)
	}
	rule("└", "┴", "┘")
	return b.String()
}

// writeRow emits the line block for one cell row. The block is as tall as
// the row's tallest cell; shorter cells pad with blank lines.
func (t *Table[Row]) writeRow(b *strings.Builder, idx int, widths []int) {
	height := t.MinRowHeight
	for _, c := range t.columns {
		if n := len(c.cells[idx]); n > height {
			height = n
		}
	}
	for ln := 0; ln < height; ln++ {
		b.WriteString("│")
		for i, c := range t.columns {
			cell := c.cells[idx]
			if ln < len(cell) {
				b.WriteString(align(cell[ln].Text, cell[ln].Align, widths[i]))
			} else {
				b.WriteString(align("", Left, widths[i]))
			}
			b.WriteString("│")
		}
		b.WriteByte('\n')
	}
}

// resolveWidths settles the final column widths for one render.
//
// Natural widths are used whenever they fit beside the n+1 border chars.
// Otherwise the deficit is taken from every column in proportion to its
// shrinkable span (width minus floor): each column keeps
// ceil(floor + span*f) where f is the common survival factor. Ceiling
// rounding under-shrinks by a fractional character per column, so the
// remaining deficit is collected one character at a time, each cut taken
// from the above-floor column whose rounding kept the most (smallest
// remainder); a cut column's remainder is set to 1 so further cuts rotate
// through the others first. When the floors alone exceed the terminal the
// table renders too wide rather than failing.
func (t *Table[Row]) resolveWidths() []int {
	n := len(t.columns)
	widths := make([]int, n)
	floors := make([]int, n)
	colspace := 0
	for i, c := range t.columns {
		widths[i] = c.width()
		floors[i] = c.min
		colspace += widths[i]
	}

	target := t.WidthFn()
	if target >= colspace+n+1 {
		return widths
	}

	needed := colspace + n + 1 - target
	shrinkable := 0
	for i := range widths {
		shrinkable += widths[i] - floors[i]
	}
	if shrinkable < needed {
		return widths
	}

	f := 1 - float64(needed)/float64(shrinkable)
	fracs := make([]float64, n)
	for i := range widths {
		exact := float64(floors[i]) + float64(widths[i]-floors[i])*f
		newW := int(math.Ceil(exact))
		fracs[i] = exact - float64(newW)
		needed -= widths[i] - newW
		widths[i] = newW
	}
	for needed > 0 {
		victim := -1
		for i := range widths {
			if widths[i] <= floors[i] {
				continue
			}
			if victim == -1 || fracs[i] < fracs[victim] {
				victim = i
			}
		}
		if victim == -1 {
			break
		}
		widths[victim]--
		fracs[victim] = 1
		needed--
	}
	return widths
}

package table

import (
	"strings"
	"testing"

	"github.com/timvw/muxpick/internal/textwidth"
)

func fixedWidth(w int) func() int {
	return func() int { return w }
}

// colsOf builds a table whose columns render fixed-width filler text, so
// natural widths and floors are exactly the given pairs.
func colsOf(dims ...[2]int) *Table[int] {
	tbl := New[int](0)
	for _, d := range dims {
		natural, floor := d[0], d[1]
		text := strings.Repeat("x", natural)
		tbl.AddColumn(NewColumn[int]("", Const[int](text)).Min(floor))
	}
	tbl.AddRow(0)
	return tbl
}

func TestAddColumn_BackfillsExistingRows(t *testing.T) {
	tbl := New[fakeRow](3)
	tbl.AddColumn(NewColumn[fakeRow]("name", Field(func(r fakeRow) string { return r.name })))
	tbl.AddRow(fakeRow{name: "a"})
	tbl.AddRow(fakeRow{name: "b"})

	late := NewColumn[fakeRow]("note", Field(func(r fakeRow) string { return r.note }))
	tbl.AddColumn(late)

	if got := len(late.cells); got != 3 {
		t.Fatalf("late column holds %d cells, want 3 (header + 2 backfilled rows)", got)
	}
}

func TestResolveWidths_NoShrinkWhenUnlimited(t *testing.T) {
	tbl := colsOf([2]int{20, 4}, [2]int{30, 4}, [2]int{10, 4})
	tbl.WidthFn = fixedWidth(textwidth.Unlimited)

	got := tbl.resolveWidths()
	want := []int{20, 30, 10}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("width[%d] = %d, want natural %d", i, got[i], want[i])
		}
	}
}

func TestResolveWidths_NoShrinkWhenFitting(t *testing.T) {
	tbl := colsOf([2]int{20, 4}, [2]int{30, 4}, [2]int{10, 4})
	tbl.WidthFn = fixedWidth(64) // colspace 60 + 4 border chars

	got := tbl.resolveWidths()
	want := []int{20, 30, 10}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("width[%d] = %d, want natural %d", i, got[i], want[i])
		}
	}
}

func TestResolveWidths_ConservesTerminalWidth(t *testing.T) {
	for _, termWidth := range []int{40, 45, 50, 55, 63} {
		tbl := colsOf([2]int{20, 5}, [2]int{30, 5}, [2]int{10, 5})
		tbl.WidthFn = fixedWidth(termWidth)

		widths := tbl.resolveWidths()
		sum := 0
		for i, w := range widths {
			sum += w
			if w < 5 {
				t.Errorf("terminal %d: width[%d] = %d below floor 5", termWidth, i, w)
			}
		}
		if sum+4 != termWidth {
			t.Errorf("terminal %d: widths %v sum to %d, want %d",
				termWidth, widths, sum+4, termWidth-4)
		}
	}
}

func TestResolveWidths_ExtraCutsRotate(t *testing.T) {
	// Equal columns all round identically, so the single leftover cut
	// lands on the first; unequal remainders pick the biggest rounding
	// winner instead.
	tests := []struct {
		name      string
		dims      [][2]int
		termWidth int
		want      []int
	}{
		{
			name:      "equal columns cut first",
			dims:      [][2]int{{10, 1}, {10, 1}, {10, 1}},
			termWidth: 30,
			want:      []int{8, 9, 9},
		},
		{
			name:      "smallest remainder cut first",
			dims:      [][2]int{{20, 4}, {10, 4}},
			termWidth: 20,
			want:      []int{11, 6},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := colsOf(tt.dims...)
			tbl.WidthFn = fixedWidth(tt.termWidth)
			got := tbl.resolveWidths()
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("widths = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestResolveWidths_FloorsBlockShrink(t *testing.T) {
	tbl := colsOf([2]int{10, 8}, [2]int{10, 8})
	tbl.WidthFn = fixedWidth(15) // needed 8, shrinkable only 4

	got := tbl.resolveWidths()
	want := []int{10, 10}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("width[%d] = %d, want untouched natural %d", i, got[i], want[i])
		}
	}
}

func TestRender_BoxGrid(t *testing.T) {
	tbl := New[[2]string](4)
	tbl.WidthFn = fixedWidth(textwidth.Unlimited)
	tbl.AddColumn(NewColumn[[2]string]("name", Field(func(r [2]string) string { return r[0] })))
	tbl.AddColumn(NewColumn[[2]string]("val", Field(func(r [2]string) string { return r[1] })))
	tbl.AddRow([2]string{"a", "x\ny"})
	tbl.AddRow([2]string{"bb", "z"})

	want := strings.Join([]string{
		"┌────┬───┐",
		"│name│val│",
		"├────┼───┤",
		"│a   │x  │",
		"│    │y  │",
		"├────┼───┤",
		"│bb  │z  │",
		"└────┴───┘",
	}, "\n") + "\n"

	if got := tbl.Render(); got != want {
		t.Errorf("Render() =\n%s\nwant:\n%s", got, want)
	}
}

func TestRender_AllLinesShareTerminalWidth(t *testing.T) {
	tbl := New[[2]string](4)
	tbl.WidthFn = fixedWidth(30)
	tbl.AddColumn(NewColumn[[2]string]("name", Field(func(r [2]string) string { return r[0] })).Min(4))
	tbl.AddColumn(NewColumn[[2]string]("command", Field(func(r [2]string) string { return r[1] })).Min(4))
	tbl.AddRow([2]string{"work", "vim /home/alice/projects/muxpick/main.go"})
	tbl.AddRow([2]string{"scratch", "htop"})

	out := tbl.Render()
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		if w := textwidth.VisibleWidth(line); w != 30 {
			t.Errorf("line %q has width %d, want 30", line, w)
		}
	}
}

func TestRender_TallCellEndsInMarker(t *testing.T) {
	tbl := New[string](3)
	tbl.WidthFn = fixedWidth(textwidth.Unlimited)
	tbl.AddColumn(NewColumn[string]("cmds", Field(func(s string) string { return s })))
	tbl.AddRow("one\ntwo\nthree\nfour\nfive")

	out := tbl.Render()
	if !strings.Contains(out, "...") {
		t.Errorf("output should contain the overflow marker:\n%s", out)
	}
	if strings.Contains(out, "three") {
		t.Errorf("output should not contain lines beyond the cap:\n%s", out)
	}
}

func TestRender_EmptyTableOfColumnsOnly(t *testing.T) {
	tbl := New[int](3)
	tbl.WidthFn = fixedWidth(textwidth.Unlimited)
	tbl.AddColumn(NewColumn[int]("a", Const[int]("")))

	out := tbl.Render()
	want := strings.Join([]string{
		"┌─┐",
		"│a│",
		"└─┘",
	}, "\n") + "\n"
	if out != want {
		t.Errorf("Render() = %q, want %q", out, want)
	}
}

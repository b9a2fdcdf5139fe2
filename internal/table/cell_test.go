package table

import (
	"testing"

	"github.com/timvw/muxpick/internal/textwidth"
)

func TestAlign(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		a     Alignment
		width int
		want  string
	}{
		{"left pads right", "ab", Left, 5, "ab   "},
		{"right pads left", "ab", Right, 5, "   ab"},
		{"center extra space goes right", "ab", Center, 5, " ab  "},
		{"center even split", "ab", Center, 6, "  ab  "},
		{"exact fit unchanged", "hello", Left, 5, "hello"},
		{"truncates with ellipsis", "abcdefgh", Left, 5, "ab..."},
		{"truncation ignores alignment", "abcdefgh", Right, 5, "ab..."},
		{"width equal to marker", "abcdefgh", Left, 3, "..."},
		{"width below marker", "abcdefgh", Left, 2, ".."},
		{"width one", "abcdefgh", Left, 1, "."},
		{"width zero", "abcdefgh", Left, 0, ""},
		{"empty stays empty at zero", "", Left, 0, ""},
		{"empty pads to width", "", Center, 4, "    "},
		{"colored text pads by visible width", "\x1b[31mab\x1b[0m", Left, 5, "\x1b[31mab\x1b[0m   "},
		{"colored text truncates by visible width", "\x1b[31mabcdefgh\x1b[0m", Left, 5, "\x1b[31mab..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := align(tt.text, tt.a, tt.width)
			if got != tt.want {
				t.Errorf("align(%q, %v, %d) = %q, want %q", tt.text, tt.a, tt.width, got, tt.want)
			}
		})
	}
}

func TestAlign_AlwaysExactVisibleWidth(t *testing.T) {
	inputs := []string{"", "x", "hello", "abcdefghij", "\x1b[35mcolored\x1b[0m", "café"}
	for _, s := range inputs {
		for _, a := range []Alignment{Left, Center, Right} {
			for w := 0; w <= 12; w++ {
				got := align(s, a, w)
				if gw := textwidth.VisibleWidth(got); gw != w {
					t.Errorf("align(%q, %v, %d): visible width %d, want %d (got %q)",
						s, a, w, gw, w, got)
				}
			}
		}
	}
}

func TestText_SplitsOnNewlines(t *testing.T) {
	v := Text("one\ntwo\nthree")
	if len(v) != 3 {
		t.Fatalf("got %d lines, want 3", len(v))
	}
	for i, want := range []string{"one", "two", "three"} {
		if v[i].Text != want {
			t.Errorf("line %d: got %q, want %q", i, v[i].Text, want)
		}
		if v[i].Align != Left {
			t.Errorf("line %d: got alignment %v, want Left", i, v[i].Align)
		}
	}
}

func TestText_EmptyStringIsOneEmptyLine(t *testing.T) {
	v := Text("")
	if len(v) != 1 || v[0].Text != "" {
		t.Fatalf("got %v, want one empty line", v)
	}
}

func TestNormalize(t *testing.T) {
	five := Text("1\n2\n3\n4\n5")

	tests := []struct {
		name     string
		v        Value
		maxLines int
		want     []string
	}{
		{"under cap unchanged", five, 6, []string{"1", "2", "3", "4", "5"}},
		{"at cap unchanged", five, 5, []string{"1", "2", "3", "4", "5"}},
		{"over cap keeps prefix plus marker", five, 3, []string{"1", "2", "..."}},
		{"cap one is marker only", five, 1, []string{"..."}},
		{"zero cap means uncapped", five, 0, []string{"1", "2", "3", "4", "5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalize(tt.v, tt.maxLines)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d lines, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i].Text != tt.want[i] {
					t.Errorf("line %d: got %q, want %q", i, got[i].Text, tt.want[i])
				}
			}
		})
	}
}

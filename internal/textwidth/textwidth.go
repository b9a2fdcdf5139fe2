// Package textwidth measures the on-screen width of strings that may
// contain ANSI escape sequences, and queries the terminal for its width.
package textwidth

import (
	"math"
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// Unlimited is returned by Terminal when stdout is not a terminal or the
// size query fails. Any real width compares less than it, so shrink logic
// never triggers.
const Unlimited = math.MaxInt

// VisibleWidth returns the number of character cells a string occupies on
// screen. Code points at or above 0x20 count one cell each. ESC (0x1b)
// opens an escape sequence that is consumed without counting until a byte
// in [0x40, 0x7e) terminates it; "ESC [" opens a CSI sequence whose
// parameter bytes run until the same terminator range. Malformed input is
// tolerated: an unknown final byte still ends the sequence, a dangling ESC
// swallows the rest of the string.
func VisibleWidth(s string) int {
	n := 0
	inEscape := false
	inCSI := false
	for _, r := range s {
		if inEscape {
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
			continue
		}
		if r >= 0x20 {
			n++
		}
	}
	return n
}

// Terminal reports the column count of the terminal attached to stdout,
// or Unlimited when there is none.
func Terminal() int {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return Unlimited
	}
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return Unlimited
	}
	return w
}

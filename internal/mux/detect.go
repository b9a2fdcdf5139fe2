package mux

import (
	"fmt"
	"os/exec"
)

// Detect resolves the multiplexer to drive. An explicit binary override
// wins; otherwise "tmux" is looked up on PATH. Detection does not require
// a running server — queries against a stopped server fail transiently
// and the picker renders an empty list instead.
func Detect(bin string) (Multiplexer, error) {
	if bin == "" {
		bin = "tmux"
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return nil, fmt.Errorf("%w: %q not found in PATH", ErrNotAvailable, bin)
	}
	return NewTmux(path), nil
}

package mux

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Tmux implements the Multiplexer interface for tmux.
type Tmux struct {
	bin string

	// runFn and runTTYFn are swapped by tests to fake subprocess runs.
	runFn    func(ctx context.Context, args ...string) (string, error)
	runTTYFn func(ctx context.Context, args ...string) error
}

// NewTmux creates a tmux multiplexer driving the given binary. An empty
// bin means "tmux" from PATH.
func NewTmux(bin string) *Tmux {
	if bin == "" {
		bin = "tmux"
	}
	return &Tmux{bin: bin}
}

// Name returns "tmux".
func (t *Tmux) Name() string {
	return "tmux"
}

// InTmux reports whether this process already runs inside a tmux client.
func InTmux() bool {
	return os.Getenv("TMUX") != ""
}

// ListSessions returns all running sessions in server order.
func (t *Tmux) ListSessions(ctx context.Context) ([]SessionInfo, error) {
	blocks, err := t.query(ctx, "list-sessions",
		"session_name", "session_created", "session_width", "session_height")
	if err != nil {
		return nil, err
	}
	out := make([]SessionInfo, 0, len(blocks))
	for _, b := range blocks {
		created, err := strconv.ParseInt(b[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("tmux list-sessions: bad session_created %q: %w", b[1], err)
		}
		width, err := strconv.Atoi(b[2])
		if err != nil {
			return nil, fmt.Errorf("tmux list-sessions: bad session_width %q: %w", b[2], err)
		}
		height, err := strconv.Atoi(b[3])
		if err != nil {
			return nil, fmt.Errorf("tmux list-sessions: bad session_height %q: %w", b[3], err)
		}
		out = append(out, SessionInfo{
			Name:    b[0],
			Created: time.Unix(created, 0),
			Width:   width,
			Height:  height,
		})
	}
	return out, nil
}

// ListPanes returns every pane of every session with its leading pid.
func (t *Tmux) ListPanes(ctx context.Context) ([]PaneInfo, error) {
	blocks, err := t.query(ctx, "list-panes -a", "session_name", "pane_pid")
	if err != nil {
		return nil, err
	}
	out := make([]PaneInfo, 0, len(blocks))
	for _, b := range blocks {
		pid, err := strconv.Atoi(b[1])
		if err != nil {
			return nil, fmt.Errorf("tmux list-panes: bad pane_pid %q: %w", b[1], err)
		}
		out = append(out, PaneInfo{Session: b[0], PID: pid})
	}
	return out, nil
}

// ListClients returns every attached client.
func (t *Tmux) ListClients(ctx context.Context) ([]ClientInfo, error) {
	blocks, err := t.query(ctx, "list-clients",
		"session_name", "client_activity", "client_tty", "client_width", "client_height")
	if err != nil {
		return nil, err
	}
	out := make([]ClientInfo, 0, len(blocks))
	for _, b := range blocks {
		activity, err := strconv.ParseInt(b[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("tmux list-clients: bad client_activity %q: %w", b[1], err)
		}
		width, err := strconv.Atoi(b[3])
		if err != nil {
			return nil, fmt.Errorf("tmux list-clients: bad client_width %q: %w", b[3], err)
		}
		height, err := strconv.Atoi(b[4])
		if err != nil {
			return nil, fmt.Errorf("tmux list-clients: bad client_height %q: %w", b[4], err)
		}
		out = append(out, ClientInfo{
			Session:  b[0],
			Activity: time.Unix(activity, 0),
			TTY:      b[2],
			Width:    width,
			Height:   height,
		})
	}
	return out, nil
}

// Attach hands the terminal to the named session. Inside an existing
// tmux client it switches that client instead, since attach refuses to
// nest.
func (t *Tmux) Attach(ctx context.Context, name string) error {
	if InTmux() {
		_, err := t.run(ctx, "switch-client", "-t", name)
		return err
	}
	return t.runTTY(ctx, "attach-session", "-t", name)
}

// Create starts a new session with the given name and attaches to it.
// Inside tmux the session is created detached and the client switched
// over.
func (t *Tmux) Create(ctx context.Context, name string) error {
	if InTmux() {
		if _, err := t.run(ctx, "new-session", "-d", "-s", name); err != nil {
			return err
		}
		_, err := t.run(ctx, "switch-client", "-t", name)
		return err
	}
	return t.runTTY(ctx, "new-session", "-s", name)
}

// Has reports whether a session with the given name exists. A non-zero
// exit means "no"; any other failure is a real error.
func (t *Tmux) Has(ctx context.Context, name string) (bool, error) {
	_, err := t.run(ctx, "has-session", "-t", name)
	if err != nil {
		var xe *ExitError
		if errors.As(err, &xe) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// query runs a list subcommand with one "#{field}\n" template per
// requested field and parses stdout into blocks, one block per result.
// tmux terminates each formatted entry with its own newline, so entries
// arrive separated by a blank line.
func (t *Tmux) query(ctx context.Context, subcmd string, fields ...string) ([][]string, error) {
	var format strings.Builder
	for _, f := range fields {
		format.WriteString("#{")
		format.WriteString(f)
		format.WriteString("}\n")
	}
	args := append(strings.Fields(subcmd), "-F", format.String())

	out, err := t.run(ctx, args...)
	if err != nil {
		return nil, err
	}

	var blocks [][]string
	var cur []string
	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			if len(cur) > 0 {
				blocks = append(blocks, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, line)
	}
	if len(cur) > 0 {
		blocks = append(blocks, cur)
	}

	for _, b := range blocks {
		if len(b) != len(fields) {
			return nil, fmt.Errorf("tmux %s: entry has %d fields, want %d",
				strings.Fields(subcmd)[0], len(b), len(fields))
		}
	}
	return blocks, nil
}

// run executes a tmux command, capturing stdout. A non-zero exit comes
// back as an *ExitError carrying the captured stderr.
func (t *Tmux) run(ctx context.Context, args ...string) (string, error) {
	if t.runFn != nil {
		return t.runFn(ctx, args...)
	}
	cmd := exec.CommandContext(ctx, t.bin, args...)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", &ExitError{
				Cmd:    strings.Join(args, " "),
				Stderr: strings.TrimSpace(string(exitErr.Stderr)),
				Err:    err,
			}
		}
		return "", err
	}
	return string(out), nil
}

// runTTY executes a tmux command with this process's terminal attached,
// for actions that take over the screen.
func (t *Tmux) runTTY(ctx context.Context, args ...string) error {
	if t.runTTYFn != nil {
		return t.runTTYFn(ctx, args...)
	}
	cmd := exec.CommandContext(ctx, t.bin, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

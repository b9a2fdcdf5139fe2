// Package mux provides an abstraction over terminal multiplexers.
//
// The package is pure transport: it runs query subcommands against the
// multiplexer binary and parses their output into flat records, and it
// exposes the control actions (attach, create, switch) the picker
// dispatches. All cross-referencing with process state happens upstream.
package mux

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Multiplexer abstracts terminal multiplexer operations.
type Multiplexer interface {
	// Name returns the multiplexer name (e.g., "tmux").
	Name() string

	// ListSessions reports every running session.
	ListSessions(ctx context.Context) ([]SessionInfo, error)

	// ListPanes reports every pane across all sessions.
	ListPanes(ctx context.Context) ([]PaneInfo, error)

	// ListClients reports every attached client.
	ListClients(ctx context.Context) ([]ClientInfo, error)

	// Attach hands the terminal over to the named session.
	Attach(ctx context.Context, name string) error

	// Create starts a new named session and attaches to it.
	Create(ctx context.Context, name string) error

	// Has reports whether a session with the given name exists.
	Has(ctx context.Context, name string) (bool, error)
}

// SessionInfo is one list-sessions result.
type SessionInfo struct {
	Name    string
	Created time.Time
	Width   int
	Height  int
}

// PaneInfo is one list-panes result: the owning session and the pane's
// leading process.
type PaneInfo struct {
	Session string
	PID     int
}

// ClientInfo is one list-clients result.
type ClientInfo struct {
	Session  string
	Activity time.Time
	// TTY is the client's controlling terminal device path.
	TTY    string
	Width  int
	Height int
}

// ErrNotAvailable is returned by Detect when no multiplexer binary can
// be found.
var ErrNotAvailable = errors.New("no terminal multiplexer available")

// ExitError reports a multiplexer invocation that exited non-zero,
// carrying the stderr it produced. Query failures of this kind are
// transient (typically "no server running") and callers recover from
// them; anything else coming out of a query is unexpected.
type ExitError struct {
	// Cmd is the subcommand that failed (e.g., "list-sessions").
	Cmd string
	// Stderr is the captured error stream, verbatim.
	Stderr string
	// Err is the underlying process error.
	Err error
}

func (e *ExitError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%v: %s", e.Err, e.Stderr)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ValidateSessionName rejects names the multiplexer's target syntax
// cannot address.
func ValidateSessionName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("session name is empty")
	}
	if strings.ContainsAny(name, ":.") {
		return fmt.Errorf("session name %q must not contain ':' or '.'", name)
	}
	return nil
}

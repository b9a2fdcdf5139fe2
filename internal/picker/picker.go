// Package picker drives the interactive scan, render, prompt, dispatch
// cycle. Each cycle rebuilds everything from live multiplexer and
// process state; the only state crossing cycles is the completion
// candidate list handed to the next prompt, replaced wholesale.
package picker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/timvw/muxpick/internal/model"
	"github.com/timvw/muxpick/internal/mux"
	mpotel "github.com/timvw/muxpick/internal/otel"
	"github.com/timvw/muxpick/internal/session"
)

// Picker holds the collaborators of the interaction loop. Mux and Agg
// must be set; the function fields default to the real prompt, shell
// spawn and writers and exist so tests can substitute them.
type Picker struct {
	Agg *session.Aggregator
	Mux mux.Multiplexer

	Shell        string
	TimeFormat   string
	MaxRowHeight int
	// WidthFn overrides the render-time terminal width query (nil
	// means ask the terminal).
	WidthFn func() int
	Metrics *mpotel.Metrics
	Verbose bool

	Out io.Writer // defaults to os.Stdout
	Err io.Writer // defaults to os.Stderr
	// Ask reads one prompt answer; ok=false ends the loop gracefully.
	Ask func(candidates []string) (answer string, ok bool, err error)
	// Spawn runs an interactive shell and waits for it.
	Spawn func(shell string) error
}

// Run cycles until the operator leaves. A dispatched action blocks the
// cycle (attach returns on detach, the shell on exit) and the next
// cycle renders a fresh table. Ending via interrupt or EOF is not an
// error: the loop prints the trailing newline and returns nil.
func (p *Picker) Run(ctx context.Context) error {
	for {
		start := time.Now()
		sessions := p.gather(ctx)
		p.Metrics.RecordCycle(ctx)
		p.Metrics.RecordSessions(ctx, len(sessions))
		if p.Verbose {
			fmt.Fprintf(p.errw(), "muxpick: %d sessions in %s\n",
				len(sessions), time.Since(start).Round(time.Millisecond))
		}

		fmt.Fprint(p.out(), RenderTable(sessions, p.MaxRowHeight, p.TimeFormat, p.WidthFn))

		names := make([]string, 0, len(sessions))
		for _, s := range sessions {
			names = append(names, s.Name)
		}
		answer, ok, err := p.ask(names)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(p.out())
			return nil
		}

		if err := p.dispatch(ctx, answer, sessions); err != nil {
			fmt.Fprintf(p.errw(), "warning: %v\n", err)
		}
	}
}

// gather runs one aggregation cycle. Both failure classes degrade to an
// empty listing: the diagnostic is printed and the cycle still reaches
// the prompt.
func (p *Picker) gather(ctx context.Context) []*model.Session {
	sessions, err := p.Agg.Aggregate(ctx)
	if err != nil {
		class := "unexpected"
		if session.IsTransient(err) {
			class = "transient"
		}
		p.Metrics.RecordQueryError(ctx, class)
		fmt.Fprintf(p.errw(), "warning: %v\n", err)
		return nil
	}
	return sessions
}

// dispatch resolves one prompt answer. The action blocks until it
// finishes; any error is reported by the caller before the next cycle.
func (p *Picker) dispatch(ctx context.Context, answer string, sessions []*model.Session) error {
	if answer == "" {
		p.Metrics.RecordAction(ctx, "shell")
		return p.spawn()
	}
	if err := mux.ValidateSessionName(answer); err != nil {
		return err
	}
	for _, s := range sessions {
		if s.Name == answer {
			p.Metrics.RecordAction(ctx, "attach")
			if err := p.Mux.Attach(ctx, answer); err != nil {
				return fmt.Errorf("attach %s: %w", answer, err)
			}
			return nil
		}
	}
	p.Metrics.RecordAction(ctx, "create")
	if err := p.Mux.Create(ctx, answer); err != nil {
		return fmt.Errorf("create %s: %w", answer, err)
	}
	return nil
}

func (p *Picker) spawn() error {
	sh := p.Shell
	if sh == "" {
		sh = "/bin/sh"
	}
	spawn := p.Spawn
	if spawn == nil {
		spawn = spawnShell
	}
	err := spawn(sh)
	// The shell reporting its last command's status is not a picker
	// failure; only a spawn that never ran is.
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil
	}
	return err
}

func spawnShell(sh string) error {
	cmd := exec.Command(sh)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func (p *Picker) ask(candidates []string) (string, bool, error) {
	if p.Ask != nil {
		return p.Ask(candidates)
	}
	return ask(candidates)
}

func (p *Picker) out() io.Writer {
	if p.Out != nil {
		return p.Out
	}
	return os.Stdout
}

func (p *Picker) errw() io.Writer {
	if p.Err != nil {
		return p.Err
	}
	return os.Stderr
}

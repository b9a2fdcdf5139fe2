// Package session joins multiplexer state with the process table.
//
// An Aggregator runs the three listing queries (sessions, panes,
// clients), resolves pane foreground process groups against a /proc
// snapshot, and folds attached clients into per-user terminal
// constraints. Every cycle starts from fresh state; nothing is cached
// between calls.
package session

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/timvw/muxpick/internal/model"
	"github.com/timvw/muxpick/internal/mux"
	"github.com/timvw/muxpick/internal/procfs"
)

var tracer = otel.Tracer("muxpick")

// Aggregator collects the state behind one picker listing.
//
// The zero value is not usable; Mux must be set. Snapshot and TTYOwner
// default to the real /proc scan and device-file owner lookup and exist
// so tests can substitute fakes.
type Aggregator struct {
	Mux mux.Multiplexer

	// Snapshot produces the process table to resolve pane process
	// groups against. Defaults to procfs.Scan.
	Snapshot func() procfs.Snapshot

	// TTYOwner maps a client's terminal device to a username.
	// Defaults to the owner of the device file.
	TTYOwner func(dev string) (string, error)
}

// Aggregate queries the multiplexer and returns one record per running
// session, in the order the multiplexer reported them. Duplicate
// session names keep their first position but the later record wins.
//
// A nil error with an empty slice means no sessions exist. Panes whose
// process has already exited are skipped silently; a failed tty owner
// lookup aborts the whole cycle.
func (a *Aggregator) Aggregate(ctx context.Context) ([]*model.Session, error) {
	ctx, span := tracer.Start(ctx, "session.aggregate")
	defer span.End()

	infos, err := a.Mux.ListSessions(ctx)
	if err != nil {
		span.SetAttributes(attribute.String("error.type", "list_sessions"))
		return nil, err
	}

	byName := make(map[string]*model.Session, len(infos))
	sessions := make([]*model.Session, 0, len(infos))
	for _, si := range infos {
		s := model.NewSession(si.Name, si.Created, si.Width, si.Height)
		if prev, ok := byName[si.Name]; ok {
			for i := range sessions {
				if sessions[i] == prev {
					sessions[i] = s
					break
				}
			}
		} else {
			sessions = append(sessions, s)
		}
		byName[si.Name] = s
	}

	snap := a.snapshot()

	panes, err := a.Mux.ListPanes(ctx)
	if err != nil {
		span.SetAttributes(attribute.String("error.type", "list_panes"))
		return nil, err
	}
	for _, p := range panes {
		s, ok := byName[p.Session]
		if !ok {
			continue
		}
		// The pane process can exit between the listing and the scan;
		// a missing entry just means nothing to show for that pane.
		info, ok := snap[p.PID]
		if !ok || info.Tpgid <= 0 {
			continue
		}
		s.Foreground = append(s.Foreground, snap.Group(info.Tpgid)...)
	}

	clients, err := a.Mux.ListClients(ctx)
	if err != nil {
		span.SetAttributes(attribute.String("error.type", "list_clients"))
		return nil, err
	}
	for _, c := range clients {
		s, ok := byName[c.Session]
		if !ok {
			continue
		}
		username, err := a.ttyOwner(c.TTY)
		if err != nil {
			span.SetAttributes(attribute.String("error.type", "tty_owner"))
			return nil, fmt.Errorf("client on %s: %w", c.TTY, err)
		}
		s.FoldClient(username, c.Width, c.Height, c.Activity)
	}

	span.SetAttributes(
		attribute.Int("sessions.count", len(sessions)),
		attribute.Int("clients.count", len(clients)),
		attribute.Int("processes.scanned", len(snap)),
	)
	return sessions, nil
}

func (a *Aggregator) snapshot() procfs.Snapshot {
	if a.Snapshot != nil {
		return a.Snapshot()
	}
	return procfs.Scan()
}

func (a *Aggregator) ttyOwner(dev string) (string, error) {
	if a.TTYOwner != nil {
		return a.TTYOwner(dev)
	}
	return OwnerOf(dev)
}

// IsTransient reports whether an aggregation failure is the recoverable
// kind: a query subprocess that ran and exited non-zero, typically
// because no multiplexer server is up yet. Everything else (missing
// binary, owner lookup failures) is unexpected.
func IsTransient(err error) bool {
	var xe *mux.ExitError
	return errors.As(err, &xe)
}

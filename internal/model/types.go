// Package model holds the session records muxpick aggregates and renders.
package model

import (
	"fmt"
	"time"

	"github.com/timvw/muxpick/internal/procfs"
)

// User tracks one username's connected clients on a session.
type User struct {
	// Name is the username owning the client terminals.
	Name string `json:"name"`
	// Width and Height are the smallest viewport any of this user's
	// clients imposes on the session.
	Width  int `json:"width"`
	Height int `json:"height"`
	// Activity is the latest input time across this user's clients.
	Activity time.Time `json:"activity"`
}

// Observe folds one more client of the same user into the record:
// dimensions take the minimum, activity the maximum.
func (u *User) Observe(width, height int, activity time.Time) {
	if width < u.Width {
		u.Width = width
	}
	if height < u.Height {
		u.Height = height
	}
	if activity.After(u.Activity) {
		u.Activity = activity
	}
}

// Session is one multiplexer session with everything the picker shows
// about it. Records are built fresh every aggregation cycle and never
// reused.
type Session struct {
	// Name is the session's unique name.
	Name string `json:"name"`
	// Created is when the session was started.
	Created time.Time `json:"created"`
	// Width and Height are the session's current dimensions.
	Width  int `json:"width"`
	Height int `json:"height"`
	// Dims is the "WxH" form of the dimensions.
	Dims string `json:"dims"`
	// Foreground lists the foreground process group members of every
	// pane, in pane order then ascending pid.
	Foreground []procfs.ProcessInfo `json:"foreground,omitempty"`
	// Users maps username to that user's folded client record.
	Users map[string]*User `json:"users,omitempty"`
	// BlameWidth and BlameHeight point at the user whose clients pin the
	// session to its current size. With several equally constraining
	// users, the last one folded is the one recorded.
	BlameWidth  *User `json:"blame_width,omitempty"`
	BlameHeight *User `json:"blame_height,omitempty"`
	// MostRecent is the connected user with the newest activity.
	MostRecent *User `json:"most_recent,omitempty"`
}

// NewSession seeds a record from a list-sessions result.
func NewSession(name string, created time.Time, width, height int) *Session {
	return &Session{
		Name:    name,
		Created: created,
		Width:   width,
		Height:  height,
		Dims:    fmt.Sprintf("%dx%d", width, height),
		Users:   make(map[string]*User),
	}
}

// FoldClient merges one connected client into the session. The named
// user's record picks up the client's viewport and activity, then the
// session-level blame and recency pointers are re-evaluated against the
// updated record.
func (s *Session) FoldClient(username string, width, height int, activity time.Time) {
	u, ok := s.Users[username]
	if !ok {
		u = &User{Name: username, Width: width, Height: height, Activity: activity}
		s.Users[username] = u
	} else {
		u.Observe(width, height, activity)
	}
	if u.Width == s.Width {
		s.BlameWidth = u
	}
	if u.Height == s.Height {
		s.BlameHeight = u
	}
	if s.MostRecent == nil || u.Activity.After(s.MostRecent.Activity) {
		s.MostRecent = u
	}
}

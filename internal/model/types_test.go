package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestObserve_KeepsMinDimensionsMaxActivity(t *testing.T) {
	u := &User{Name: "alice", Width: 80, Height: 24, Activity: time.Unix(10, 0)}
	u.Observe(100, 30, time.Unix(20, 0))

	if u.Width != 80 {
		t.Errorf("Width: got %d, want 80 (the min)", u.Width)
	}
	if u.Height != 24 {
		t.Errorf("Height: got %d, want 24 (the min)", u.Height)
	}
	if !u.Activity.Equal(time.Unix(20, 0)) {
		t.Errorf("Activity: got %v, want the max", u.Activity)
	}

	u.Observe(72, 20, time.Unix(5, 0))
	if u.Width != 72 || u.Height != 20 {
		t.Errorf("smaller client should lower dims: got %dx%d, want 72x20", u.Width, u.Height)
	}
	if !u.Activity.Equal(time.Unix(20, 0)) {
		t.Errorf("older activity should not rewind: got %v", u.Activity)
	}
}

func TestNewSession_Dims(t *testing.T) {
	s := NewSession("work", time.Unix(1000, 0), 80, 24)
	if s.Dims != "80x24" {
		t.Errorf("Dims: got %q, want %q", s.Dims, "80x24")
	}
	if s.Users == nil {
		t.Errorf("Users map should be ready for folding")
	}
}

func TestFoldClient_TwoClientsSameUser(t *testing.T) {
	s := NewSession("work", time.Unix(0, 0), 80, 24)
	s.FoldClient("alice", 80, 24, time.Unix(10, 0))
	s.FoldClient("alice", 100, 30, time.Unix(20, 0))

	if len(s.Users) != 1 {
		t.Fatalf("got %d users, want 1", len(s.Users))
	}
	alice := s.Users["alice"]
	if alice.Width != 80 {
		t.Errorf("Width: got %d, want 80", alice.Width)
	}
	if !alice.Activity.Equal(time.Unix(20, 0)) {
		t.Errorf("Activity: got %v, want the newer client's", alice.Activity)
	}
}

func TestFoldClient_BlameTracksConstrainingUser(t *testing.T) {
	s := NewSession("work", time.Unix(0, 0), 80, 24)

	// Alice pins the width but not the height.
	s.FoldClient("alice", 80, 50, time.Unix(10, 0))
	if s.BlameWidth == nil || s.BlameWidth.Name != "alice" {
		t.Fatalf("BlameWidth = %+v, want alice", s.BlameWidth)
	}
	if s.BlameHeight != nil {
		t.Fatalf("BlameHeight = %+v, want unset", s.BlameHeight)
	}

	// Bob pins the height.
	s.FoldClient("bob", 120, 24, time.Unix(5, 0))
	if s.BlameHeight == nil || s.BlameHeight.Name != "bob" {
		t.Errorf("BlameHeight = %+v, want bob", s.BlameHeight)
	}
	if s.BlameWidth.Name != "alice" {
		t.Errorf("BlameWidth = %+v, should still be alice", s.BlameWidth)
	}
}

func TestFoldClient_LastEquallyConstrainingUserWins(t *testing.T) {
	s := NewSession("work", time.Unix(0, 0), 80, 24)
	s.FoldClient("alice", 80, 24, time.Unix(10, 0))
	s.FoldClient("bob", 80, 24, time.Unix(5, 0))

	if s.BlameWidth.Name != "bob" {
		t.Errorf("BlameWidth = %q, want bob (folded last)", s.BlameWidth.Name)
	}
	if s.BlameHeight.Name != "bob" {
		t.Errorf("BlameHeight = %q, want bob (folded last)", s.BlameHeight.Name)
	}
}

func TestFoldClient_MostRecentFollowsActivity(t *testing.T) {
	s := NewSession("work", time.Unix(0, 0), 80, 24)

	s.FoldClient("alice", 80, 24, time.Unix(10, 0))
	if s.MostRecent == nil || s.MostRecent.Name != "alice" {
		t.Fatalf("first folded user should be most recent, got %+v", s.MostRecent)
	}

	s.FoldClient("bob", 80, 24, time.Unix(5, 0))
	if s.MostRecent.Name != "alice" {
		t.Errorf("older user must not take over, got %q", s.MostRecent.Name)
	}

	s.FoldClient("carol", 80, 24, time.Unix(30, 0))
	if s.MostRecent.Name != "carol" {
		t.Errorf("newest activity should win, got %q", s.MostRecent.Name)
	}
}

func TestSession_JSONShape(t *testing.T) {
	s := NewSession("work", time.Unix(1700000000, 0), 80, 24)
	s.FoldClient("alice", 80, 24, time.Unix(1700000100, 0))

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	for _, want := range []string{`"name":"work"`, `"dims":"80x24"`, `"users"`, `"most_recent"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("JSON output missing %s, got: %s", want, string(data))
		}
	}
}

package picker

import (
	"fmt"
	"sort"

	"github.com/timvw/muxpick/internal/model"
	"github.com/timvw/muxpick/internal/table"
)

// RenderTable lays one cycle's session records out as the picker's
// six-column grid. widthFn overrides the terminal width query when
// non-nil (the --width flag and tests use this).
func RenderTable(sessions []*model.Session, maxRowHeight int, timeFormat string, widthFn func() int) string {
	t := table.New[*model.Session](maxRowHeight)
	if widthFn != nil {
		t.WidthFn = widthFn
	}
	for _, c := range columns(timeFormat) {
		t.AddColumn(c)
	}
	for _, s := range sessions {
		t.AddRow(s)
	}
	return t.Render()
}

func columns(timeFormat string) []*table.Column[*model.Session] {
	return []*table.Column[*model.Session]{
		table.NewColumn("session",
			table.Field(func(s *model.Session) string { return s.Name })).Min(4),
		table.NewColumn("created",
			table.Field(func(s *model.Session) string { return s.Created.Format(timeFormat) })),
		table.NewColumn("size", sizeLines).Min(5),
		table.NewColumn("users", userLines, table.Const[*model.Session]("-")),
		table.NewColumn("activity", activityLine(timeFormat), table.Const[*model.Session]("-")),
		table.NewColumn("programs", programLines, table.Const[*model.Session]("-")).Max(48),
	}
}

// sizeLines shows the session's dimensions plus who is pinning each axis.
func sizeLines(s *model.Session) (table.Value, bool) {
	v := table.Value{{Text: s.Dims, Align: table.Left}}
	if s.BlameWidth != nil {
		v = append(v, table.Line{Text: "w: " + s.BlameWidth.Name, Align: table.Left})
	}
	if s.BlameHeight != nil {
		v = append(v, table.Line{Text: "h: " + s.BlameHeight.Name, Align: table.Left})
	}
	return v, true
}

// userLines lists connected users with their smallest client viewport,
// one per line, sorted by name. Declines when nobody is attached.
func userLines(s *model.Session) (table.Value, bool) {
	if len(s.Users) == 0 {
		return nil, false
	}
	names := make([]string, 0, len(s.Users))
	for name := range s.Users {
		names = append(names, name)
	}
	sort.Strings(names)
	v := make(table.Value, 0, len(names))
	for _, name := range names {
		u := s.Users[name]
		v = append(v, table.Line{
			Text:  fmt.Sprintf("%s (%dx%d)", name, u.Width, u.Height),
			Align: table.Left,
		})
	}
	return v, true
}

// activityLine shows the most recently active user and when. Declines
// for sessions without clients.
func activityLine(timeFormat string) table.Extractor[*model.Session] {
	return func(s *model.Session) (table.Value, bool) {
		if s.MostRecent == nil {
			return nil, false
		}
		text := s.MostRecent.Activity.Format(timeFormat) + " " + s.MostRecent.Name
		return table.Aligned(text, table.Left), true
	}
}

// programLines lists the foreground command of every pane, one per line.
// Processes with an unreadable argv (kernel threads, races) fall back to
// the bracketed executable name. Declines when no pane process survived
// the snapshot join.
func programLines(s *model.Session) (table.Value, bool) {
	if len(s.Foreground) == 0 {
		return nil, false
	}
	v := make(table.Value, 0, len(s.Foreground))
	for _, p := range s.Foreground {
		text := p.Cmdline
		if text == "" {
			text = "[" + p.Comm + "]"
		}
		v = append(v, table.Line{Text: text, Align: table.Left})
	}
	return v, true
}

package ui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"mmdcheck/internal/driver"
)

func TestProgressModelTracksFiles(t *testing.T) {
	events := make(chan driver.Event)
	m := NewProgressModel("checking diagrams", []string{"a.mmd", "b.mmd", "c.mmd", "d.mmd"}, events).(*checkModel)

	m.Update(eventMsg(driver.Event{File: "a.mmd", Stage: driver.StageValidate, Status: driver.StatusWorking}))
	if m.rows[0].state != stateChecking {
		t.Fatalf("state = %v, want checking", m.rows[0].state)
	}
	m.Update(eventMsg(driver.Event{File: "a.mmd", Stage: driver.StageValidate, Status: driver.StatusDone, Elapsed: 3 * time.Millisecond}))
	m.Update(eventMsg(driver.Event{File: "b.mmd", Stage: driver.StageValidate, Status: driver.StatusError}))
	m.Update(eventMsg(driver.Event{File: "c.mmd", Stage: driver.StageValidate, Status: driver.StatusCached}))
	m.Update(eventMsg(driver.Event{File: "d.mmd", Stage: driver.StageRead, Status: driver.StatusError}))
	m.Update(eventMsg(driver.Event{File: "unknown.mmd", Status: driver.StatusDone}))
	// a finished file does not go back to running
	m.Update(eventMsg(driver.Event{File: "a.mmd", Stage: driver.StageRead, Status: driver.StatusWorking}))

	if m.finished != 4 {
		t.Errorf("finished = %d, want 4", m.finished)
	}
	if m.rows[0].state != stateValid || m.rows[3].state != stateUnreadable {
		t.Errorf("states = %v %v", m.rows[0].state, m.rows[3].state)
	}
	if got := m.tally(); got != (tally{valid: 1, invalid: 2, cached: 1}) {
		t.Errorf("tally = %+v", got)
	}

	m.Update(doneMsg{})
	view := m.View()
	for _, want := range []string{"✓ checking diagrams  4/4", "a.mmd", "3ms", "unreadable", "1 valid, 2 invalid, 1 cached"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}
}

func TestVisibleRowsDropsOldSuccesses(t *testing.T) {
	files := make([]string, maxRows+5)
	for i := range files {
		files[i] = fmt.Sprintf("f%02d.mmd", i)
	}
	m := NewProgressModel("check", files, nil).(*checkModel)
	for i := 0; i < 6; i++ {
		m.apply(driver.Event{File: files[i], Stage: driver.StageValidate, Status: driver.StatusDone})
	}
	m.apply(driver.Event{File: files[6], Stage: driver.StageValidate, Status: driver.StatusError})

	rows := m.visibleRows()
	if len(rows) != maxRows {
		t.Fatalf("visible = %d, want %d", len(rows), maxRows)
	}
	if rows[0].path != "f05.mmd" {
		t.Errorf("first visible = %s, want f05.mmd", rows[0].path)
	}
	if rows[1].state != stateInvalid {
		t.Errorf("invalid file scrolled away: %+v", rows[1])
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.mmd", 20, "short.mmd"},
		{"docs/very/long/path.mmd", 10, "docs..."},
		{"abcdef", 2, "ab"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

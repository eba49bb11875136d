package tui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/practrack/internal/scheduler"
	"github.com/verte-zerg/practrack/internal/store"
	"github.com/verte-zerg/practrack/internal/tracker"
)

type zeroJitter struct{}

func (zeroJitter) Float64() float64 { return 0 }

func openTracker(t *testing.T) *tracker.Tracker {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "practrack.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	tr, err := tracker.Open(context.Background(), st, tracker.Options{
		Jitter:   zeroJitter{},
		Location: time.UTC,
		Now:      func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("open tracker: %v", err)
	}
	return tr
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModelPicksWhenNoneGiven(t *testing.T) {
	tr := openTracker(t)
	m := NewModel(tr, nil, scheduler.Result{})
	if !m.current.Found || m.current.ID != "piano" {
		t.Fatalf("expected piano, got %+v", m.current)
	}
	if got := tr.Document().Memory.LastPickID; got != "piano" {
		t.Fatalf("expected pick to be remembered, got %q", got)
	}
	if view := m.View(); !strings.Contains(view, "Piano") {
		t.Fatalf("view missing item name: %s", view)
	}
}

func TestAlternateKeyAvoidsPrevious(t *testing.T) {
	tr := openTracker(t)
	// Equal weights so the repeat penalties decide the order.
	if err := tr.SetWeight(context.Background(), "piano", 3); err != nil {
		t.Fatalf("set weight: %v", err)
	}
	m := NewModel(tr, nil, scheduler.Result{})
	first := m.current.ID

	m.Update(runes("a"))
	if m.current.ID == first {
		t.Fatalf("alternate pick repeated %s", first)
	}
}

func TestLogWithoutElapsedTimeIsRejected(t *testing.T) {
	tr := openTracker(t)
	m := NewModel(tr, nil, scheduler.Result{})

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !strings.Contains(m.status, "at least a minute") {
		t.Fatalf("unexpected status: %q", m.status)
	}
	if n := len(tr.Document().Sessions); n != 0 {
		t.Fatalf("expected no sessions, got %d", n)
	}
}

func TestQuitKey(t *testing.T) {
	m := NewModel(openTracker(t), nil, scheduler.Result{})
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestFailShowsError(t *testing.T) {
	m := NewModel(openTracker(t), nil, scheduler.Result{})

	verr := &tracker.ValidationError{Field: "minutesTotal", Reason: "must be greater than 0"}
	m.fail("failed to log session", verr)
	if m.errMsg != verr.Error() {
		t.Fatalf("expected bare validation message, got %q", m.errMsg)
	}

	m.fail("failed to log session", errors.New("disk full"))
	if m.errMsg != "failed to log session: disk full" {
		t.Fatalf("unexpected error message %q", m.errMsg)
	}
	if view := m.View(); !strings.Contains(view, "disk full") {
		t.Fatalf("view missing error: %s", view)
	}
}

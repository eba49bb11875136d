package statsui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/practrack/internal/model"
	"github.com/verte-zerg/practrack/internal/store"
	"github.com/verte-zerg/practrack/internal/tracker"
)

var testNow = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

func openTracker(t *testing.T) *tracker.Tracker {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "practrack.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	tr, err := tracker.Open(context.Background(), st, tracker.Options{
		Location: time.UTC,
		Now:      func() time.Time { return testNow },
	})
	if err != nil {
		t.Fatalf("open tracker: %v", err)
	}
	for _, in := range []tracker.SessionInput{
		{InstrumentID: "piano", MinutesTotal: 30, Who: "Sam", Tech: model.Component{Minutes: 10, Notes: "scales"}},
		{InstrumentID: "violin", MinutesTotal: 45, At: testNow.AddDate(0, 0, -12)},
	} {
		if _, err := tr.AddSession(context.Background(), in); err != nil {
			t.Fatalf("add session: %v", err)
		}
	}
	return tr
}

func TestBuildHistoryTableData(t *testing.T) {
	sessions := []model.Session{{
		Date:         "2024-06-15",
		InstrumentID: "piano",
		Who:          "Sam",
		MinutesTotal: 75,
		Mood:         5,
		Difficulty:   model.DifficultyHard,
		Tech:         model.Component{Notes: "arpeggios"},
		Tags:         []string{"exam"},
	}}
	cols, rows := buildHistoryTableData(sessions, map[string]string{"piano": "Piano"})
	if len(cols) != 7 || len(rows) != 1 {
		t.Fatalf("unexpected table shape: %d cols, %d rows", len(cols), len(rows))
	}
	row := rows[0]
	if row[1] != "Piano" || row[3] != "1h 15m" || row[5] != "hard" {
		t.Fatalf("unexpected row: %v", row)
	}
	if row[6] != "tech: arpeggios; #exam" {
		t.Fatalf("unexpected notes: %q", row[6])
	}
}

func TestWindowSteps(t *testing.T) {
	if got := nextWindow(30); got != 90 {
		t.Fatalf("expected 90, got %d", got)
	}
	if got := nextWindow(365); got != 365 {
		t.Fatalf("expected 365, got %d", got)
	}
	if got := prevWindow(30); got != 14 {
		t.Fatalf("expected 14, got %d", got)
	}
	if got := prevWindow(7); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
}

func TestParseFilter(t *testing.T) {
	tr := openTracker(t)
	f, err := parseFilter([]string{"7", "piano", "Sam", "scales"}, tr)
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	if f.Days != 7 || f.ItemID != "piano" || f.Who != "Sam" || f.Query != "scales" {
		t.Fatalf("unexpected filter: %+v", f)
	}
	if _, err := parseFilter([]string{"-1", "", "", ""}, tr); err == nil {
		t.Fatalf("expected error for negative days")
	}
	if _, err := parseFilter([]string{"", "kazoo", "", ""}, tr); err == nil {
		t.Fatalf("expected error for unknown item")
	}
}

func TestModelFiltersHistory(t *testing.T) {
	tr := openTracker(t)
	m := NewModel(tr, 30, tracker.HistoryFilter{})
	if len(m.sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(m.sessions))
	}
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	if !m.filterMode {
		t.Fatalf("expected filter mode")
	}
	m.filterInputs[0].SetValue("7")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.filterMode || m.filter.Days != 7 {
		t.Fatalf("filter not applied: %+v", m.filter)
	}
	if len(m.sessions) != 1 || m.sessions[0].InstrumentID != "piano" {
		t.Fatalf("unexpected sessions: %+v", m.sessions)
	}
	if m.filter.Limit != historyLimit {
		t.Fatalf("expected limit to be kept, got %d", m.filter.Limit)
	}

	view := m.View()
	if !strings.Contains(view, "Overview") || !strings.Contains(view, "days=7") {
		t.Fatalf("unexpected view: %s", view)
	}
}

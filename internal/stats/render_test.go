package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/practrack/internal/model"
	"github.com/verte-zerg/practrack/internal/scheduler"
)

func TestRenderSessions(t *testing.T) {
	var buf bytes.Buffer
	sessions := []model.Session{{
		ID:           "s1",
		Date:         "2024-06-15",
		InstrumentID: "piano",
		Who:          "Sam",
		MinutesTotal: 50,
		Mood:         4,
		Difficulty:   model.DifficultyOK,
		Tech:         model.Component{Minutes: 20},
		Tags:         []string{"exam", "hanon"},
	}}
	if err := RenderSessions(&buf, sessions, map[string]string{"piano": "Piano"}); err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %q", buf.String())
	}
	for _, want := range []string{"s1", "Piano", "50 min", "20 min", "ok", "exam,hanon"} {
		if !strings.Contains(lines[1], want) {
			t.Fatalf("row missing %q: %s", want, lines[1])
		}
	}

	buf.Reset()
	if err := RenderSessions(&buf, nil, nil); err != nil {
		t.Fatalf("render empty: %v", err)
	}
	if buf.String() != "No sessions.\n" {
		t.Fatalf("unexpected empty output: %q", buf.String())
	}
}

func TestRenderRankingMarksNeverPracticed(t *testing.T) {
	var buf bytes.Buffer
	candidates := []scheduler.Candidate{
		{ID: "violin", Days: 999, Weight: 3, Multiplier: 1.18, Base: 5019, Score: 5922.4},
		{ID: "piano", Days: 2, MinutesMonth: 90, Weight: 4, Multiplier: 1.34, Base: 25, Score: 33.5},
	}
	if err := RenderRanking(&buf, candidates, map[string]string{"piano": "Piano"}, 999); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "never") || !strings.Contains(out, "Piano") || !strings.Contains(out, "1h 30m") {
		t.Fatalf("unexpected ranking:\n%s", out)
	}
	if !strings.Contains(out, "5922.4") || !strings.Contains(out, "1.34x") {
		t.Fatalf("missing score columns:\n%s", out)
	}
}

package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/practrack/internal/catalog"
	"github.com/verte-zerg/practrack/internal/model"
	"github.com/verte-zerg/practrack/internal/scheduler"
)

func TestBuildAndRenderReport(t *testing.T) {
	cat := catalog.Default()
	doc := model.Document{
		Settings: model.Settings{
			Weights:       map[string]float64{"piano": 4},
			StreakGoalMin: 20,
		},
		Instruments: map[string]model.ItemState{
			"piano": {Available: true},
			"cello": {Available: true, Archived: true},
		},
		Sessions: []model.Session{
			session("1", "piano", daysAgo(0, 8), 25),
			session("2", "piano", daysAgo(1, 8), 15),
		},
	}
	Recompute(&doc, cat, testNow, testLoc)
	report := BuildReport(doc, cat, scheduler.DefaultParams(), testNow, testLoc, 30)

	if report.Minutes != 40 || report.Sessions != 2 || report.Streak != 2 {
		t.Fatalf("unexpected totals: %+v", report)
	}
	if !report.GoalMet() {
		t.Fatalf("expected today's goal met with %d minutes", report.TodayMinutes)
	}
	if len(report.Items) != cat.Len() {
		t.Fatalf("expected one row per item, got %d", len(report.Items))
	}
	if report.Items[0].Multiplier != 1.3 {
		t.Fatalf("expected piano multiplier 1.3, got %v", report.Items[0].Multiplier)
	}

	var buf bytes.Buffer
	if err := RenderReport(&buf, report, 10); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Summary", "40 min in 2 sessions", "Streak: 2 day(s)", "(met)", "Daily (last 10 days)", "archived", "never"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

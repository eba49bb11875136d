package stats

import (
	"fmt"
	"io"
	"time"

	"github.com/verte-zerg/practrack/internal/catalog"
	"github.com/verte-zerg/practrack/internal/model"
	"github.com/verte-zerg/practrack/internal/scheduler"
)

// ItemRow summarizes one catalog item.
type ItemRow struct {
	ID            string
	Name          string
	Type          catalog.Type
	Available     bool
	Archived      bool
	Condition     string
	Weight        float64
	Multiplier    float64
	MinutesWeek   int
	MinutesMonth  int
	LastStudiedAt *time.Time
	Days          int
}

// Report contains precomputed data for the dashboard.
type Report struct {
	Days         int
	Minutes      int
	Sessions     int
	WeekMinutes  int
	Components   ComponentTotals
	Streak       int
	TodayMinutes int
	GoalMin      int
	Daily        []float64
	Items        []ItemRow
}

// GoalMet reports whether today's practice reached the daily goal.
func (r Report) GoalMet() bool {
	return r.GoalMin > 0 && r.TodayMinutes >= r.GoalMin
}

// BuildReport prepares dashboard data from a document whose cache is fresh.
func BuildReport(doc model.Document, cat catalog.Catalog, params scheduler.Params, now time.Time, loc *time.Location, days int) Report {
	if days < 1 {
		days = MonthDays
	}
	r := Report{
		Days:         days,
		Minutes:      TotalMinutes(doc.Sessions, now, days, loc),
		Sessions:     TotalSessions(doc.Sessions, now, days, loc),
		WeekMinutes:  TotalMinutes(doc.Sessions, now, WeekDays, loc),
		Components:   ComponentMinutes(doc.Sessions, now, days, loc),
		Streak:       Streak(doc.Sessions, now, loc),
		TodayMinutes: TotalMinutes(doc.Sessions, now, 1, loc),
		GoalMin:      doc.Settings.StreakGoalMin,
		Daily:        DailyMinutes(doc.Sessions, now, days, loc),
	}
	for _, it := range cat.Items() {
		st := doc.Instruments[it.ID]
		w, ok := doc.Settings.Weights[it.ID]
		if !ok {
			w = model.WeightDefault
		}
		w = model.ClampWeight(w)
		r.Items = append(r.Items, ItemRow{
			ID:            it.ID,
			Name:          it.Name,
			Type:          it.Type,
			Available:     st.Available,
			Archived:      st.Archived,
			Condition:     st.Condition,
			Weight:        w,
			Multiplier:    params.DisplayMultiplier(w),
			MinutesWeek:   st.MinutesWeek,
			MinutesMonth:  st.MinutesMonth,
			LastStudiedAt: st.LastStudiedAt,
			Days:          scheduler.DaysSince(st.LastStudiedAt, now, params.NeverDays),
		})
	}
	return r
}

// RenderReport prints the dashboard. width bounds the sparkline; 0 means no limit.
func RenderReport(w io.Writer, r Report, width int) error {
	if err := RenderSummary(w, r); err != nil {
		return err
	}
	daily := r.Daily
	if width > 0 && len(daily) > width {
		daily = daily[len(daily)-width:]
	}
	if len(daily) > 0 {
		if _, err := fmt.Fprintf(w, "Daily (last %d days)\n%s\n\n", len(daily), Sparkline(daily)); err != nil {
			return err
		}
	}
	return RenderItemTable(w, r.Items)
}

// RenderSummary prints the headline totals.
func RenderSummary(w io.Writer, r Report) error {
	goal := "no goal"
	if r.GoalMin > 0 {
		goal = fmt.Sprintf("%s / %s", FormatMinutes(r.TodayMinutes), FormatMinutes(r.GoalMin))
		if r.GoalMet() {
			goal += " (met)"
		}
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Last %d days: %s in %d sessions", r.Days, FormatMinutes(r.Minutes), r.Sessions),
		fmt.Sprintf("Last 7 days: %s", FormatMinutes(r.WeekMinutes)),
		fmt.Sprintf("Technique %s · Theory %s · Repertoire %s",
			FormatMinutes(r.Components.Tech), FormatMinutes(r.Components.Theory), FormatMinutes(r.Components.Rep)),
		fmt.Sprintf("Streak: %d day(s)", r.Streak),
		fmt.Sprintf("Today: %s", goal),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderItemTable prints one row per catalog item.
func RenderItemTable(w io.Writer, rows []ItemRow) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No items.")
		return err
	}
	headers := []string{"Item", "Type", "Status", "Priority", "7d", "30d", "Last"}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		status := "ready"
		switch {
		case r.Archived:
			status = "archived"
		case !r.Available:
			status = "away"
		}
		last := "never"
		if r.LastStudiedAt != nil {
			last = fmt.Sprintf("%dd ago", r.Days)
		}
		tableRows = append(tableRows, []string{
			r.ID,
			string(r.Type),
			status,
			fmt.Sprintf("%.1fx", r.Multiplier),
			FormatMinutes(r.MinutesWeek),
			FormatMinutes(r.MinutesMonth),
			last,
		})
	}
	return RenderTable(w, headers, tableRows, map[int]bool{3: true, 4: true, 5: true, 6: true})
}

package stats

import (
	"time"

	"github.com/verte-zerg/practrack/internal/catalog"
	"github.com/verte-zerg/practrack/internal/model"
)

// Rolling window lengths used for the per-item cache.
const (
	WeekDays  = 7
	MonthDays = 30
)

// WindowStart returns local midnight of the first day of a trailing window of
// the given number of calendar days that ends today.
func WindowStart(now time.Time, days int, loc *time.Location) time.Time {
	if days < 1 {
		days = 1
	}
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day()-(days-1), 0, 0, 0, 0, loc)
}

// Recompute rebuilds the derived cache (MinutesWeek, MinutesMonth, LastStudiedAt)
// of every catalog item from the ledger in one pass.
func Recompute(doc *model.Document, cat catalog.Catalog, now time.Time, loc *time.Location) {
	week := WindowStart(now, WeekDays, loc)
	month := WindowStart(now, MonthDays, loc)

	type acc struct {
		week  int
		month int
		last  *time.Time
	}
	per := make(map[string]*acc, cat.Len())
	for _, id := range cat.IDs() {
		per[id] = &acc{}
	}
	for i := range doc.Sessions {
		s := doc.Sessions[i]
		a, ok := per[s.InstrumentID]
		if !ok {
			continue
		}
		if !s.At.Before(week) {
			a.week += s.MinutesTotal
		}
		if !s.At.Before(month) {
			a.month += s.MinutesTotal
		}
		if a.last == nil || a.last.Before(s.At) {
			at := s.At
			a.last = &at
		}
	}

	if doc.Instruments == nil {
		doc.Instruments = make(map[string]model.ItemState, cat.Len())
	}
	for _, id := range cat.IDs() {
		st, ok := doc.Instruments[id]
		if !ok {
			st = model.ItemState{Available: true}
		}
		a := per[id]
		st.MinutesWeek = a.week
		st.MinutesMonth = a.month
		if a.last != nil {
			st.LastStudiedAt = a.last
		}
		doc.Instruments[id] = st
	}
}

// ItemMinutes sums minutes for one item over a trailing window.
func ItemMinutes(sessions []model.Session, id string, now time.Time, days int, loc *time.Location) int {
	from := WindowStart(now, days, loc)
	sum := 0
	for _, s := range sessions {
		if s.InstrumentID == id && !s.At.Before(from) {
			sum += s.MinutesTotal
		}
	}
	return sum
}

// TotalMinutes sums minutes of every session in a trailing window.
func TotalMinutes(sessions []model.Session, now time.Time, days int, loc *time.Location) int {
	from := WindowStart(now, days, loc)
	sum := 0
	for _, s := range sessions {
		if !s.At.Before(from) {
			sum += s.MinutesTotal
		}
	}
	return sum
}

// TotalSessions counts sessions in a trailing window.
func TotalSessions(sessions []model.Session, now time.Time, days int, loc *time.Location) int {
	from := WindowStart(now, days, loc)
	count := 0
	for _, s := range sessions {
		if !s.At.Before(from) {
			count++
		}
	}
	return count
}

// ComponentTotals splits practiced minutes by component.
type ComponentTotals struct {
	Tech   int
	Theory int
	Rep    int
}

// Sum returns the total across components.
func (c ComponentTotals) Sum() int {
	return c.Tech + c.Theory + c.Rep
}

// ComponentMinutes sums component minutes of sessions in a trailing window.
func ComponentMinutes(sessions []model.Session, now time.Time, days int, loc *time.Location) ComponentTotals {
	from := WindowStart(now, days, loc)
	var out ComponentTotals
	for _, s := range sessions {
		if s.At.Before(from) {
			continue
		}
		out.Tech += s.Tech.Minutes
		out.Theory += s.Theory.Minutes
		out.Rep += s.Rep.Minutes
	}
	return out
}

// Streak counts consecutive local calendar days, ending today, that have at
// least one session. It stops at the first day without one.
func Streak(sessions []model.Session, now time.Time, loc *time.Location) int {
	dates := make(map[string]struct{}, len(sessions))
	for _, s := range sessions {
		dates[s.Date] = struct{}{}
	}
	local := now.In(loc)
	day := time.Date(local.Year(), local.Month(), local.Day(), 12, 0, 0, 0, loc)
	streak := 0
	for {
		if _, ok := dates[day.Format(model.DateLayout)]; !ok {
			return streak
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
}

// DailyMinutes returns per-day minute totals for a trailing window, oldest first.
func DailyMinutes(sessions []model.Session, now time.Time, days int, loc *time.Location) []float64 {
	if days < 1 {
		days = 1
	}
	start := WindowStart(now, days, loc)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		index[start.AddDate(0, 0, i).Format(model.DateLayout)] = i
	}
	out := make([]float64, days)
	for _, s := range sessions {
		if i, ok := index[s.At.In(loc).Format(model.DateLayout)]; ok {
			out[i] += float64(s.MinutesTotal)
		}
	}
	return out
}

package stats

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/verte-zerg/practrack/internal/model"
	"github.com/verte-zerg/practrack/internal/scheduler"
)

// RenderSessions prints ledger entries, one per line.
func RenderSessions(w io.Writer, sessions []model.Session, names map[string]string) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions.")
		return err
	}
	headers := []string{"ID", "Date", "Item", "Who", "Total", "Tech", "Theory", "Rep", "Mood", "Level", "Tags"}
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		name := names[s.InstrumentID]
		if name == "" {
			name = s.InstrumentID
		}
		rows = append(rows, []string{
			s.ID,
			s.Date,
			name,
			s.Who,
			FormatMinutes(s.MinutesTotal),
			minutesCell(s.Tech.Minutes),
			minutesCell(s.Theory.Minutes),
			minutesCell(s.Rep.Minutes),
			strconv.Itoa(s.Mood),
			string(s.Difficulty),
			strings.Join(s.Tags, ","),
		})
	}
	return RenderTable(w, headers, rows, map[int]bool{4: true, 5: true, 6: true, 7: true, 8: true})
}

// RenderRanking prints candidates with their score breakdown.
func RenderRanking(w io.Writer, candidates []scheduler.Candidate, names map[string]string, never int) error {
	if len(candidates) == 0 {
		_, err := fmt.Fprintln(w, "No eligible items.")
		return err
	}
	headers := []string{"#", "Item", "Days", "30d", "Weight", "Mult", "Base", "Score"}
	rows := make([][]string, 0, len(candidates))
	for i, c := range candidates {
		name := names[c.ID]
		if name == "" {
			name = c.ID
		}
		days := strconv.Itoa(c.Days)
		if c.Days >= never {
			days = "never"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			name,
			days,
			FormatMinutes(c.MinutesMonth),
			fmt.Sprintf("%.1f", c.Weight),
			fmt.Sprintf("%.2fx", c.Multiplier),
			fmt.Sprintf("%.1f", c.Base),
			fmt.Sprintf("%.1f", c.Score),
		})
	}
	return RenderTable(w, headers, rows, map[int]bool{0: true, 2: true, 3: true, 4: true, 5: true, 6: true, 7: true})
}

func minutesCell(minutes int) string {
	if minutes == 0 {
		return "-"
	}
	return FormatMinutes(minutes)
}

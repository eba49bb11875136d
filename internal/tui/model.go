// Package tui provides the Bubble Tea practice screen.
package tui

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/stopwatch"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/practrack/internal/logger"
	"github.com/verte-zerg/practrack/internal/scheduler"
	"github.com/verte-zerg/practrack/internal/stats"
	"github.com/verte-zerg/practrack/internal/tracker"
)

// Model implements the Bubble Tea practice UI: it shows the recommended item,
// times the session and logs it.
type Model struct {
	tracker *tracker.Tracker
	log     *logger.Logger
	keys    keyMap
	help    help.Model
	watch   stopwatch.Model

	width  int
	height int

	current scheduler.Result
	report  stats.Report
	status  string
	errMsg  string
}

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	itemStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	timerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7FB77E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	cardStyle   = lipgloss.NewStyle().
			Padding(1, 3).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
)

// NewModel constructs the practice UI. When first is Found it is shown as the
// current recommendation; otherwise the model picks one on start.
func NewModel(tr *tracker.Tracker, log *logger.Logger, first scheduler.Result) *Model {
	if log == nil {
		log = logger.Nop()
	}
	m := &Model{
		tracker: tr,
		log:     log,
		keys:    defaultKeyMap(),
		help:    help.New(),
		watch:   stopwatch.NewWithInterval(time.Second),
		current: first,
	}
	if !m.current.Found {
		m.pick(scheduler.Options{})
	}
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Next):
			return m, m.repick(scheduler.Options{})
		case key.Matches(msg, m.keys.Alternate):
			return m, m.repick(scheduler.Options{AvoidLast: true})
		case key.Matches(msg, m.keys.Timer):
			if !m.current.Found {
				return m, nil
			}
			return m, m.watch.Toggle()
		case key.Matches(msg, m.keys.Discard):
			m.status = ""
			return m, tea.Batch(m.watch.Stop(), m.watch.Reset())
		case key.Matches(msg, m.keys.Log):
			return m, m.logElapsed()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.watch, cmd = m.watch.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	content := m.renderCard()
	footer := m.renderFooter()
	helpView := m.help.View(m.keys)
	if m.width == 0 || m.height == 0 {
		return strings.Join([]string{content, footer, helpView}, "\n")
	}
	bottom := lipgloss.JoinVertical(lipgloss.Center, footer, helpView)
	bottomHeight := lipgloss.Height(bottom)
	if m.height <= bottomHeight+1 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-bottomHeight, lipgloss.Center, lipgloss.Center, content)
	bottomLine := lipgloss.Place(m.width, bottomHeight, lipgloss.Center, lipgloss.Bottom, bottom)
	return body + "\n" + bottomLine
}

func (m *Model) renderCard() string {
	lines := []string{titleStyle.Render("Practice next")}
	if m.current.Found {
		lines = append(lines, itemStyle.Render(m.itemName(m.current.ID)))
		if detail := m.itemDetail(m.current.ID); detail != "" {
			lines = append(lines, mutedStyle.Render(detail))
		}
		lines = append(lines, "", timerStyle.Render(m.watch.View()))
	} else {
		lines = append(lines, mutedStyle.Render("Nothing available. Mark an item as available to get a recommendation."))
	}
	if m.status != "" {
		lines = append(lines, "", statusStyle.Render(m.status))
	}
	if m.errMsg != "" {
		lines = append(lines, "", errorStyle.Render(m.errMsg))
	}
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}

func (m *Model) renderFooter() string {
	r := m.report
	today := stats.FormatMinutes(r.TodayMinutes)
	if r.GoalMin > 0 {
		today += " / " + stats.FormatMinutes(r.GoalMin)
	}
	segments := []string{
		"Today " + today,
		"Week " + stats.FormatMinutes(r.WeekMinutes),
		fmt.Sprintf("Streak %dd", r.Streak),
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) itemName(id string) string {
	if it, ok := m.tracker.Catalog().Lookup(id); ok {
		return it.Name
	}
	return id
}

func (m *Model) itemDetail(id string) string {
	for _, row := range m.report.Items {
		if row.ID != id {
			continue
		}
		last := "never practiced"
		if row.LastStudiedAt != nil {
			last = fmt.Sprintf("last %dd ago", row.Days)
		}
		parts := []string{last, stats.FormatMinutes(row.MinutesMonth) + " this month"}
		if row.Condition != "" {
			parts = append(parts, row.Condition)
		}
		return strings.Join(parts, " · ")
	}
	return ""
}

func (m *Model) repick(opts scheduler.Options) tea.Cmd {
	if m.watch.Running() {
		m.status = "Stop the timer before picking another item."
		return nil
	}
	m.status = ""
	m.pick(opts)
	m.refreshReport()
	return m.watch.Reset()
}

func (m *Model) pick(opts scheduler.Options) {
	res, err := m.tracker.PickNext(context.Background(), opts)
	if err != nil {
		m.fail("failed to pick next item", err)
		return
	}
	m.errMsg = ""
	m.current = res
}

// logElapsed records the timed minutes for the current item.
func (m *Model) logElapsed() tea.Cmd {
	if !m.current.Found {
		return nil
	}
	minutes := elapsedMinutes(m.watch.Elapsed())
	if minutes < 1 {
		m.status = "Practice at least a minute before logging."
		return nil
	}
	s, err := m.tracker.AddSession(context.Background(), tracker.SessionInput{
		InstrumentID: m.current.ID,
		MinutesTotal: minutes,
	})
	if err != nil {
		m.fail("failed to log session", err)
		return nil
	}
	m.errMsg = ""
	m.refreshReport()
	m.status = fmt.Sprintf("Logged %s of %s.", stats.FormatMinutes(s.MinutesTotal), m.itemName(s.InstrumentID))
	if m.tracker.Document().Settings.ShowConfetti && m.report.GoalMet() {
		m.status += " Daily goal reached!"
	}
	return tea.Batch(m.watch.Stop(), m.watch.Reset())
}

func (m *Model) refreshReport() {
	m.report = m.tracker.Report(stats.WeekDays)
}

func (m *Model) fail(msg string, err error) {
	m.log.Debug(msg, "error", err)
	if errors.Is(err, tracker.ErrValidation) {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = msg + ": " + err.Error()
}

func elapsedMinutes(d time.Duration) int {
	return int(math.Round(d.Minutes()))
}

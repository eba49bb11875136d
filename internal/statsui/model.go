// Package statsui provides the Bubble Tea dashboard and history browser.
package statsui

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/practrack/internal/model"
	"github.com/verte-zerg/practrack/internal/stats"
	"github.com/verte-zerg/practrack/internal/tracker"
)

const (
	tabOverview = iota
	tabHistory
)

const historyLimit = 200

var windowSteps = []int{7, 14, 30, 90, 365}

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea dashboard UI.
type Model struct {
	tracker *tracker.Tracker
	filter  tracker.HistoryFilter
	days    int

	report   stats.Report
	sessions []model.Session

	tabs         []string
	activeTab    int
	overview     viewport.Model
	historyTable table.Model

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

// NewModel constructs a dashboard over the tracker's document. days is the
// report window; filter preselects history entries.
func NewModel(tr *tracker.Tracker, days int, filter tracker.HistoryFilter) *Model {
	if days < 1 {
		days = stats.MonthDays
	}
	if filter.Limit <= 0 {
		filter.Limit = historyLimit
	}
	m := &Model{
		tracker: tr,
		filter:  filter,
		days:    days,
		tabs:    []string{"Overview", "History"},
	}
	m.overview = viewport.New(0, 0)
	m.historyTable = buildHistoryTable(nil, nil, 0, 1)
	m.initInputs()
	m.refresh()
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
		m.updateLayout()
		m.renderOverview()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.days = nextWindow(m.days)
			m.refresh()
			return m, nil
		case "-":
			m.days = prevWindow(m.days)
			m.refresh()
			return m, nil
		case "/":
			return m.startFilter()
		case "g", "home":
			if m.activeTab == tabHistory {
				m.historyTable.GotoTop()
			} else {
				m.overview.GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabHistory {
				m.historyTable.GotoBottom()
			} else {
				m.overview.GotoBottom()
			}
			return m, nil
		}
		var cmd tea.Cmd
		if m.activeTab == tabHistory {
			m.historyTable, cmd = m.historyTable.Update(msg)
			return m, cmd
		}
		m.overview, cmd = m.overview.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Days: "),
		newFilterInput("Item: "),
		newFilterInput("Who: "),
		newFilterInput("Search: "),
	}
	m.setInputsFromFilter()
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromFilter() {
	if m.filter.Days > 0 {
		m.filterInputs[0].SetValue(strconv.Itoa(m.filter.Days))
	} else {
		m.filterInputs[0].SetValue("")
	}
	m.filterInputs[1].SetValue(m.filter.ItemID)
	m.filterInputs[2].SetValue(m.filter.Who)
	m.filterInputs[3].SetValue(m.filter.Query)
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	m.historyTable.SetWidth(m.width)
	m.historyTable.SetHeight(maxInt(1, bodyHeight-1))
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = maxInt(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabHistory {
		m.historyTable.Focus()
	} else {
		m.historyTable.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	summary := padLines(m.renderFilterSummary(), m.width)
	return tabs + "\n" + summary
}

func (m *Model) renderFilterSummary() string {
	days := "all"
	if m.filter.Days > 0 {
		days = strconv.Itoa(m.filter.Days)
	}
	item := orAny(m.filter.ItemID)
	who := orAny(m.filter.Who)
	query := orAny(m.filter.Query)
	summary := fmt.Sprintf("Window: %dd  History: days=%s item=%s who=%s search=%s", m.days, days, item, who, query)
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	return headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Filter: /  Quit: q")
}

func (m *Model) renderFilterForm() string {
	lines := []string{"History filter (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return fitLines(m.renderFilterForm(), m.width, height)
	}
	if m.activeTab == tabHistory {
		if len(m.sessions) == 0 {
			return fitLines("No sessions found.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.historyTable.View()), m.width, height)
	}
	return fitLines(m.overview.View(), m.width, height)
}

// refresh reloads the report and the filtered history.
func (m *Model) refresh() {
	m.report = m.tracker.Report(m.days)
	m.sessions = m.tracker.History(m.filter)
	cols, rows := buildHistoryTableData(m.sessions, m.itemNames())
	m.historyTable.SetColumns(cols)
	m.historyTable.SetRows(rows)
	m.historyTable.GotoTop()
	m.renderOverview()
}

func (m *Model) renderOverview() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	cards := renderSummaryCards(m.report, width)
	var buf bytes.Buffer
	if err := stats.RenderReport(&buf, m.report, width); err != nil {
		m.overview.SetContent(fmt.Sprintf("Failed to render report: %v", err))
		return
	}
	m.overview.SetContent(strings.TrimRight(cards+"\n\n"+buf.String(), "\n"))
}

func (m *Model) itemNames() map[string]string {
	names := map[string]string{}
	for _, it := range m.tracker.Catalog().Items() {
		names[it.ID] = it.Name
	}
	return names
}

func renderSummaryCards(r stats.Report, width int) string {
	today := stats.FormatMinutes(r.TodayMinutes)
	if r.GoalMin > 0 {
		today += " / " + stats.FormatMinutes(r.GoalMin)
	}
	cards := []string{
		metricCard(fmt.Sprintf("Last %dd", r.Days), stats.FormatMinutes(r.Minutes)),
		metricCard("Sessions", strconv.Itoa(r.Sessions)),
		metricCard("Last 7d", stats.FormatMinutes(r.WeekMinutes)),
		metricCard("Today", today),
		metricCard("Streak", fmt.Sprintf("%d day(s)", r.Streak)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func buildHistoryTable(sessions []model.Session, names map[string]string, width, height int) table.Model {
	cols, rows := buildHistoryTableData(sessions, names)
	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithHeight(maxInt(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(historyTableStyles())
	return t
}

func buildHistoryTableData(sessions []model.Session, names map[string]string) ([]table.Column, []table.Row) {
	columns := []table.Column{
		{Title: "Date", Width: 10},
		{Title: "Item", Width: 20},
		{Title: "Who", Width: 8},
		{Title: "Total", Width: 8},
		{Title: "Mood", Width: 4},
		{Title: "Level", Width: 5},
		{Title: "Notes", Width: 30},
	}
	rows := make([]table.Row, 0, len(sessions))
	for _, s := range sessions {
		name := names[s.InstrumentID]
		if name == "" {
			name = s.InstrumentID
		}
		rows = append(rows, table.Row{
			s.Date,
			name,
			s.Who,
			stats.FormatMinutes(s.MinutesTotal),
			strconv.Itoa(s.Mood),
			string(s.Difficulty),
			sessionNotes(s),
		})
	}
	return columns, rows
}

func sessionNotes(s model.Session) string {
	var parts []string
	for _, c := range []struct {
		label string
		comp  model.Component
	}{{"tech", s.Tech}, {"theory", s.Theory}, {"rep", s.Rep}} {
		if c.comp.Notes != "" {
			parts = append(parts, c.label+": "+c.comp.Notes)
		}
	}
	if len(s.Tags) > 0 {
		parts = append(parts, "#"+strings.Join(s.Tags, " #"))
	}
	return strings.Join(parts, "; ")
}

func historyTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromFilter()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		filter, err := parseFilter(m.inputValues(), m.tracker)
		if err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		filter.Limit = m.filter.Limit
		m.filter = filter
		m.filterMode = false
		m.filterError = ""
		m.refresh()
		m.updateLayout()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.filterIndex = idx
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) inputValues() []string {
	values := make([]string, len(m.filterInputs))
	for i, input := range m.filterInputs {
		values[i] = strings.TrimSpace(input.Value())
	}
	return values
}

// parseFilter reads the form fields in order: days, item, who, search.
func parseFilter(values []string, tr *tracker.Tracker) (tracker.HistoryFilter, error) {
	var f tracker.HistoryFilter
	if values[0] != "" {
		days, err := strconv.Atoi(values[0])
		if err != nil || days < 0 {
			return f, fmt.Errorf("invalid days (use 0 or positive integer)")
		}
		f.Days = days
	}
	if values[1] != "" {
		if !tr.Catalog().Has(values[1]) {
			return f, fmt.Errorf("unknown item %q", values[1])
		}
		f.ItemID = values[1]
	}
	f.Who = values[2]
	f.Query = values[3]
	return f, nil
}

func nextWindow(days int) int {
	for _, step := range windowSteps {
		if step > days {
			return step
		}
	}
	return windowSteps[len(windowSteps)-1]
}

func prevWindow(days int) int {
	for i := len(windowSteps) - 1; i >= 0; i-- {
		if windowSteps[i] < days {
			return windowSteps[i]
		}
	}
	return windowSteps[0]
}

func orAny(s string) string {
	if s == "" {
		return "any"
	}
	return s
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

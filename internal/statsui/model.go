// Package statsui provides the Bubble Tea progress interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/wordpace/internal/goal"
	"github.com/verte-zerg/wordpace/internal/model"
	"github.com/verte-zerg/wordpace/internal/period"
	"github.com/verte-zerg/wordpace/internal/stats"
	"github.com/verte-zerg/wordpace/internal/tracker"
)

const (
	tabToday = iota
	tabWeek
	tabMonth
	tabDocuments
)

const (
	plotHeight = 6
	barWidth   = 30
)

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

// Model implements the Bubble Tea progress UI.
type Model struct {
	ctrl *tracker.Controller
	now  func() time.Time

	tabs      []string
	activeTab int
	viewports []viewport.Model
	dayTable  table.Model
	current   period.Period

	errMsg string
	status string

	width  int
	height int
}

// NewModel constructs a progress UI model over an opened controller.
func NewModel(ctrl *tracker.Controller, now func() time.Time) *Model {
	if now == nil {
		now = time.Now
	}
	m := &Model{
		ctrl: ctrl,
		now:  now,
		tabs: []string{"Today", "Week", "Month", "Documents"},
	}
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.dayTable = table.New(table.WithStyles(dayTableStyles()))
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
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "[":
			m.shiftPeriod(-1)
			return m, nil
		case "]":
			m.shiftPeriod(1)
			return m, nil
		case "t":
			m.selectPeriod(model.CurrentAnchor)
			return m, nil
		case "r":
			m.setErr(m.ctrl.Sync(context.Background()))
			m.status = "Rescanned " + m.now().Format("15:04:05")
			m.refresh()
			return m, nil
		case "s":
			m.toggleSession()
			return m, nil
		case "y":
			m.copySummary()
			return m, nil
		default:
			if m.isPeriodTab() {
				var cmd tea.Cmd
				m.dayTable, cmd = m.dayTable.Update(msg)
				return m, cmd
			}
			var cmd tea.Cmd
			m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
			return m, cmd
		}
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
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) isPeriodTab() bool {
	return m.activeTab == tabWeek || m.activeTab == tabMonth
}

func (m *Model) periodKind() model.PeriodKind {
	if m.activeTab == tabMonth {
		return model.PeriodMonth
	}
	return model.PeriodWeek
}

func (m *Model) setErr(err error) {
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	if m.isPeriodTab() {
		m.dayTable.Focus()
	} else {
		m.dayTable.Blur()
	}
	m.refresh()
}

func (m *Model) shiftPeriod(delta int) {
	if !m.isPeriodTab() {
		return
	}
	kind := m.periodKind()
	next := period.Shift(kind, m.current.First, delta)
	anchor := model.DateKey(next)
	if period.Anchor(kind, m.now()).Equal(next) {
		anchor = model.CurrentAnchor
	}
	m.selectPeriod(anchor)
}

func (m *Model) selectPeriod(anchor string) {
	if !m.isPeriodTab() {
		return
	}
	err := m.ctrl.Dispatch(context.Background(), tracker.PeriodRequested{Kind: m.periodKind(), Anchor: anchor})
	m.setErr(err)
	m.refresh()
}

func (m *Model) toggleSession() {
	ctx := context.Background()
	if m.ctrl.Today().SessionActive {
		m.setErr(m.ctrl.StopSession(ctx))
		m.status = "Session stopped"
	} else {
		m.setErr(m.ctrl.StartSession(ctx, 0))
		m.status = "Session started"
	}
	m.refresh()
}

// copyToClipboard is swapped in tests.
var copyToClipboard = clipboard.WriteAll

func (m *Model) copySummary() {
	text := summaryLine(m.ctrl.Today())
	if err := copyToClipboard(text); err != nil {
		m.setErr(fmt.Errorf("failed to copy to clipboard: %w", err))
		return
	}
	m.errMsg = ""
	m.status = "Copied"
}

// summaryLine is a plain-text line of today's progress.
func summaryLine(p tracker.Progress) string {
	line := fmt.Sprintf("%s: %s / %s words (%d%%) %s",
		p.Date.Format("2006-01-02"), stats.FormatNumber(p.Written), stats.FormatNumber(p.Goal),
		p.Percent, goal.Symbol(p.Tier))
	if p.Streak > 1 {
		line += fmt.Sprintf(", %d-day streak", p.Streak)
	}
	return line
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := max(lipgloss.Height(activeNavStyle.Render("X")), 1)
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(m.height-headerHeight-footerHeight, 1)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	// Rows share the body with the headline and the chart.
	m.dayTable.SetWidth(m.width)
	m.dayTable.SetHeight(max(bodyHeight-plotHeight-4, 3))
}

func (m *Model) refresh() {
	m.viewports[tabToday].SetContent(m.renderToday())
	m.viewports[tabDocuments].SetContent(m.renderDocuments())
	if !m.isPeriodTab() {
		return
	}
	p, err := m.ctrl.Period(m.periodKind())
	if err != nil {
		m.setErr(err)
		return
	}
	m.current = p
	columns, rows := dayTableData(p)
	m.dayTable.SetRows(nil)
	m.dayTable.SetColumns(columns)
	m.dayTable.SetRows(rows)
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
	s := m.ctrl.Settings()
	summary := fmt.Sprintf("Goals: daily=%s  weekly=%s  monthly=%s  property=%s",
		stats.FormatNumber(int(s.DailyGoal)), stats.FormatNumber(int(s.WeeklyGoal)),
		stats.FormatNumber(int(s.MonthlyGoal)), s.GoalProperty)
	if m.status != "" {
		summary += "  " + m.status
	}
	return tabs + "\n" + headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderFooter() string {
	help := "Nav: left/right  Rescan: r  Session: s  Copy: y  Quit: q"
	if m.isPeriodTab() {
		help = "Nav: left/right  Period: [ ]  Current: t  Rows: up/down  Rescan: r  Quit: q"
	}
	help = headerStyle.Render(truncateLine(help, m.width))
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(truncateLine(m.errMsg, m.width))
	}
	return help
}

func (m *Model) renderBody() string {
	if !m.isPeriodTab() {
		return m.viewports[m.activeTab].View()
	}
	p := m.current
	title := fmt.Sprintf("%s  %s .. %s", p.Label(), p.First.Format("2006-01-02"), p.Last.Format("2006-01-02"))
	headline := fmt.Sprintf("Total %s / %s  %s %d%% %s",
		stats.FormatNumber(p.Total), stats.FormatNumber(p.Goal),
		progressBar(p.Percent, p.Level, barWidth), p.Percent, goal.Symbol(p.Tier))
	var chart bytes.Buffer
	if err := stats.PlotChart(&chart, "", stats.CumulativeSeries(p), stats.PlotWidthFor(m.width, 6), plotHeight, true); err != nil {
		chart.Reset()
		chart.WriteString(fmt.Sprintf("Failed to render chart: %v", err))
	}
	return strings.Join([]string{
		title,
		tableMutedStyle.Render(m.dayTable.View()),
		headline,
		strings.TrimRight(chart.String(), "\n"),
	}, "\n")
}

func (m *Model) renderToday() string {
	p := m.ctrl.Today()
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		metricCard("Written today", stats.FormatNumber(p.Written)),
		metricCard("Daily goal", stats.FormatNumber(p.Goal)),
		metricCard("Total words", stats.FormatNumber(p.Global)),
		metricCard("Streak", fmt.Sprintf("%d day(s)", p.Streak)),
	)
	lines := []string{
		cards,
		"",
		fmt.Sprintf("Today  %s %d%% %s", progressBar(p.Percent, p.Level, barWidth), p.Percent, goal.Symbol(p.Tier)),
	}
	if p.SessionActive {
		lines = append(lines, fmt.Sprintf("Session %s %d%%  %s / %s",
			progressBar(p.SessionPercent, p.SessionLevel, barWidth), p.SessionPercent,
			stats.FormatNumber(p.SessionWritten), stats.FormatNumber(p.SessionGoal)))
	} else {
		lines = append(lines, headerStyle.Render("No writing session. Press s to start one."))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderDocuments() string {
	res, ok := m.ctrl.LastScan()
	if !ok {
		return "No scan yet. Press r to rescan the vault."
	}
	var buf bytes.Buffer
	if err := stats.RenderDocuments(&buf, res, true); err != nil {
		return fmt.Sprintf("Failed to render documents: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func progressBar(pct int, level model.Level, width int) string {
	bar := progress.New(
		progress.WithSolidFill(string(stats.LevelColor(level))),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	return bar.ViewAs(float64(min(max(pct, 0), 100)) / 100)
}

func dayTableData(p period.Period) ([]table.Column, []table.Row) {
	columns := []table.Column{
		{Title: "Day", Width: 9},
		{Title: "Written", Width: 8},
		{Title: "Cumulative", Width: 10},
		{Title: "Remaining", Width: 9},
		{Title: "Skip", Width: 6},
		{Title: "", Width: 2},
	}
	rows := make([]table.Row, 0, len(p.Rows))
	for _, r := range p.Rows {
		if r.Future {
			rows = append(rows, table.Row{r.Date.Format("Mon 01-02"), "", "", "", "", ""})
			continue
		}
		skip := ""
		if r.Skip != 0 {
			skip = stats.FormatNumber(r.Skip)
		}
		rows = append(rows, table.Row{
			r.Date.Format("Mon 01-02"),
			stats.FormatNumber(r.Written),
			stats.FormatNumber(r.Cumulative),
			stats.FormatNumber(r.Remaining),
			skip,
			goal.Symbol(r.Tier),
		})
	}
	return columns, rows
}

func dayTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		PaddingLeft(0)
	styles.Cell = styles.Cell.PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
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
	if lineWidth := lipgloss.Width(line); lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

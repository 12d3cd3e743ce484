package stats

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/wordpace/internal/goal"
	"github.com/verte-zerg/wordpace/internal/model"
	"github.com/verte-zerg/wordpace/internal/period"
	"github.com/verte-zerg/wordpace/internal/scan"
	"github.com/verte-zerg/wordpace/internal/tracker"
)

const defaultBarWidth = 24

var levelColors = map[model.Level]lipgloss.Color{
	model.LevelLow:  lipgloss.Color("#FF4D4F"),
	model.LevelFair: lipgloss.Color("#FA8C16"),
	model.LevelGood: lipgloss.Color("#FADB14"),
	model.LevelNear: lipgloss.Color("#A0D911"),
	model.LevelDone: lipgloss.Color("#52C41A"),
}

// LevelColor returns the display colour of a progress level.
func LevelColor(level model.Level) lipgloss.Color {
	return levelColors[level]
}

// FormatNumber formats n with comma separators.
func FormatNumber(n int) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return sign + s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return sign + b.String()
}

// ProgressBar renders a fixed-width bar for pct, coloured by level when
// useColor is set.
func ProgressBar(pct int, level model.Level, width int, useColor bool) string {
	if width <= 0 {
		width = defaultBarWidth
	}
	filled := min(max(pct, 0), 100) * width / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	if useColor {
		bar = lipgloss.NewStyle().Foreground(LevelColor(level)).Render(bar)
	}
	return bar
}

// RenderToday writes today's progress and, when active, the session.
func RenderToday(w io.Writer, p tracker.Progress, useColor bool) error {
	if _, err := fmt.Fprintf(w, "Today %s\n", p.Date.Format("Mon 2006-01-02")); err != nil {
		return err
	}
	line := fmt.Sprintf("Written %s / %s  %s %d%% %s",
		FormatNumber(p.Written), FormatNumber(p.Goal),
		ProgressBar(p.Percent, p.Level, defaultBarWidth, useColor), p.Percent, goal.Symbol(p.Tier))
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Total words %s  Streak %d day(s)\n", FormatNumber(p.Global), p.Streak); err != nil {
		return err
	}
	if p.SessionActive {
		session := fmt.Sprintf("Session %s / %s  %s %d%%",
			FormatNumber(p.SessionWritten), FormatNumber(p.SessionGoal),
			ProgressBar(p.SessionPercent, p.SessionLevel, defaultBarWidth, useColor), p.SessionPercent)
		if _, err := fmt.Fprintln(w, session); err != nil {
			return err
		}
	}
	return nil
}

// PeriodLines formats the per-day table of a period.
func PeriodLines(p period.Period) []string {
	headers := []string{"Day", "Start", "End", "Written", "Cumulative", "Remaining", "Skip", ""}
	rows := make([][]string, 0, len(p.Rows))
	for _, r := range p.Rows {
		if r.Future {
			rows = append(rows, []string{r.Date.Format("Mon 01-02"), "", "", "", "", "", "", ""})
			continue
		}
		skip := ""
		if r.Skip != 0 {
			skip = FormatNumber(r.Skip)
		}
		rows = append(rows, []string{
			r.Date.Format("Mon 01-02"),
			FormatNumber(r.Start),
			FormatNumber(r.End),
			FormatNumber(r.Written),
			FormatNumber(r.Cumulative),
			FormatNumber(r.Remaining),
			skip,
			goal.Symbol(r.Tier),
		})
	}
	return formatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true, 6: true})
}

// PeriodSummary is the headline of a period: total against the goal.
func PeriodSummary(p period.Period, useColor bool) string {
	out := fmt.Sprintf("Total %s / %s  %s %d%% %s",
		FormatNumber(p.Total), FormatNumber(p.Goal),
		ProgressBar(p.Percent, p.Level, defaultBarWidth, useColor), p.Percent, goal.Symbol(p.Tier))
	if p.Skipped != 0 {
		out += fmt.Sprintf("  (raw %s, skipped %s)", FormatNumber(p.RawTotal), FormatNumber(p.Skipped))
	}
	return out
}

// RenderPeriod writes the period title, table and headline.
func RenderPeriod(w io.Writer, p period.Period, useColor bool) error {
	title := fmt.Sprintf("%s  %s .. %s", p.Label(), p.First.Format("2006-01-02"), p.Last.Format("2006-01-02"))
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	for _, line := range PeriodLines(p) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, PeriodSummary(p, useColor)); err != nil {
		return err
	}
	return nil
}

// RenderDocuments writes per-document counts against their goals.
func RenderDocuments(w io.Writer, res scan.Result, useColor bool) error {
	rows := make([][]string, 0, len(res.Documents))
	for _, d := range res.Documents {
		if d.Err != nil {
			rows = append(rows, []string{d.Path, "error", "", d.Err.Error()})
			continue
		}
		bar := ""
		if d.Goal > 0 {
			pct, level := goal.Progress(d.Words, d.Goal)
			bar = fmt.Sprintf("%s %d%%", ProgressBar(pct, level, 12, useColor), pct)
		}
		rows = append(rows, []string{d.Path, FormatNumber(d.Words), goalCell(d.Goal), bar})
	}
	for _, line := range formatTable([]string{"Document", "Words", "Goal", "Progress"}, rows, map[int]bool{1: true, 2: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	summary := fmt.Sprintf("Total %s words in %d document(s)", FormatNumber(res.Total), len(res.Documents))
	if res.Failed > 0 {
		summary += fmt.Sprintf(", %d unreadable", res.Failed)
	}
	_, err := fmt.Fprintln(w, summary)
	return err
}

func goalCell(n int) string {
	if n <= 0 {
		return "-"
	}
	return FormatNumber(n)
}

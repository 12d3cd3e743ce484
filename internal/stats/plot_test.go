package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/wordpace/internal/ledger"
	"github.com/verte-zerg/wordpace/internal/model"
	"github.com/verte-zerg/wordpace/internal/period"
)

func TestPlotChart(t *testing.T) {
	var buf bytes.Buffer
	err := PlotChart(&buf, "Week", []Series{
		{Name: "written", Values: []float64{0, 200, 450}},
		{Name: "pace", Values: []float64{100, 200, 300, 400, 500, 600, 700}},
	}, 14, 4, false)
	if err != nil {
		t.Fatalf("PlotChart failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 1+4+1 {
		t.Fatalf("expected 6 lines, got %d:\n%s", len(lines), buf.String())
	}
	if lines[0] != "Week" {
		t.Fatalf("expected title, got %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "700 │ ") || !strings.HasPrefix(lines[4], "  0 │ ") {
		t.Fatalf("expected axis labels, got %q / %q", lines[1], lines[4])
	}
	if w := runewidth.StringWidth(lines[2]); w != 3+3+14 {
		t.Fatalf("expected row width 20, got %d", w)
	}
	if !strings.Contains(lines[5], "written") || !strings.Contains(lines[5], "pace") {
		t.Fatalf("expected legend, got %q", lines[5])
	}
}

func TestPlotChartEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := PlotChart(&buf, "Empty", nil, 20, 4, false); err != nil {
		t.Fatalf("PlotChart failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestPlotWidthFor(t *testing.T) {
	if got := PlotWidthFor(80, 5); got != 80-5-3 {
		t.Fatalf("expected width 72, got %d", got)
	}
	if got := PlotWidthFor(0, 5); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
}

func TestCumulativeSeriesStopsAtToday(t *testing.T) {
	l := ledger.FromEntries([]model.DailyStat{
		{Date: "2024-03-04", StartWordCount: 0, EndWordCount: 300},
		{Date: "2024-03-05", StartWordCount: 300, EndWordCount: 700},
	})
	now, _ := model.ParseDateKey("2024-03-05")
	p := period.Build(l, 0, model.PeriodWeek, now, model.Goals{Weekly: 1400}, now)
	series := CumulativeSeries(p)
	if len(series) != 2 {
		t.Fatalf("expected written and pace series, got %d", len(series))
	}
	if got := series[0].Values; len(got) != 2 || got[1] != 700 {
		t.Fatalf("unexpected written series: %v", got)
	}
	if got := series[1].Values; len(got) != 7 || got[6] != 1400 || got[0] != 200 {
		t.Fatalf("unexpected pace series: %v", got)
	}
}

package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/verte-zerg/wordpace/internal/period"
)

// Series is a named line on a chart.
type Series struct {
	Name   string
	Values []float64
}

const (
	defaultPlotHeight   = 8
	minPlotWidth        = 10
	axisSeparator       = " │ "
	terminalWidthBackup = 80
)

var seriesColors = []lipgloss.Color{
	lipgloss.Color("#36CFC9"),
	lipgloss.Color("#8C8C8C"),
	lipgloss.Color("#C89A3A"),
}

// CumulativeSeries returns the running written total of a period up to
// today and the even pace needed to reach the period goal.
func CumulativeSeries(p period.Period) []Series {
	written := make([]float64, 0, len(p.Rows))
	for _, r := range p.Rows {
		if r.Future {
			break
		}
		written = append(written, float64(r.Cumulative))
	}
	out := []Series{{Name: "written", Values: written}}
	if p.Goal > 0 && len(p.Rows) > 0 {
		pace := make([]float64, len(p.Rows))
		for i := range pace {
			pace[i] = float64(p.Goal) * float64(i+1) / float64(len(p.Rows))
		}
		out = append(out, Series{Name: "pace", Values: pace})
	}
	return out
}

// PlotChart draws the series as braille lines on one shared scale. Each
// value is placed by its index over the longest series, so a shorter series
// stops part way across.
func PlotChart(w io.Writer, title string, series []Series, width, height int, useColor bool) error {
	slots := 0
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		slots = max(slots, len(s.Values))
		for _, v := range s.Values {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if slots == 0 {
		return nil
	}
	lo = math.Min(lo, 0)
	if hi-lo < 1 {
		hi = lo + 1
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	top, bottom := FormatNumber(int(math.Round(hi))), FormatNumber(int(math.Round(lo)))
	labelWidth := max(runewidth.StringWidth(top), runewidth.StringWidth(bottom))
	if width <= 0 {
		width = PlotWidthFor(terminalWidth(), labelWidth)
	}
	width = max(width, minPlotWidth)

	dotsX, dotsY := width*2, height*4
	grids := make([][][]uint8, len(series))
	for si, s := range series {
		grids[si] = newGrid(width, height)
		prevX, prevY := -1, -1
		for i, v := range s.Values {
			x := 0
			if slots > 1 {
				x = i * (dotsX - 1) / (slots - 1)
			}
			y := int(math.Round((hi - v) / (hi - lo) * float64(dotsY-1)))
			if prevX < 0 {
				setDot(grids[si], x, y)
			} else {
				bresenham(prevX, prevY, x, y, func(px, py int) { setDot(grids[si], px, py) })
			}
			prevX, prevY = x, y
		}
	}

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for row := 0; row < height; row++ {
		label := ""
		switch row {
		case 0:
			label = top
		case height - 1:
			label = bottom
		}
		var b strings.Builder
		b.WriteString(runewidth.FillLeft(label, labelWidth))
		b.WriteString(axisSeparator)
		for col := 0; col < width; col++ {
			var mask uint8
			owner := -1
			for si := range grids {
				if m := grids[si][row][col]; m != 0 {
					mask |= m
					if owner < 0 {
						owner = si
					}
				}
			}
			cell := string(rune(0x2800 + int(mask)))
			if useColor && owner >= 0 {
				cell = lipgloss.NewStyle().Foreground(seriesColors[owner%len(seriesColors)]).Render(cell)
			}
			b.WriteString(cell)
		}
		if _, err := fmt.Fprintln(w, b.String()); err != nil {
			return err
		}
	}
	names := make([]string, 0, len(series))
	for si, s := range series {
		name := "⠉ " + s.Name
		if useColor {
			name = lipgloss.NewStyle().Foreground(seriesColors[si%len(seriesColors)]).Render(name)
		}
		names = append(names, name)
	}
	_, err := fmt.Fprintln(w, strings.Repeat(" ", labelWidth+runewidth.StringWidth(axisSeparator))+strings.Join(names, "  "))
	return err
}

// PlotWidthFor returns the plot width that fits next to axis labels of
// labelWidth within totalWidth.
func PlotWidthFor(totalWidth, labelWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	return max(totalWidth-labelWidth-runewidth.StringWidth(axisSeparator), minPlotWidth)
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// UseColor reports whether w is a terminal that accepts colour.
func UseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func newGrid(width, height int) [][]uint8 {
	grid := make([][]uint8, height)
	for i := range grid {
		grid[i] = make([]uint8, width)
	}
	return grid
}

// brailleBits maps a dot position inside a 2x4 cell to its bit.
var brailleBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

func setDot(grid [][]uint8, x, y int) {
	if x < 0 || y < 0 || y/4 >= len(grid) || x/2 >= len(grid[y/4]) {
		return
	}
	grid[y/4][x/2] |= brailleBits[y%4][x%2]
}

func bresenham(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// internal/report/charts.go
package report

import (
	"bytes"
	"fmt"
	"html"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/mwiater/evaldash/internal/view"
)

var (
	passColor = drawing.ColorFromHex("255C32")
	failColor = drawing.ColorFromHex("893A42")
	barColor  = drawing.ColorFromHex("3B82F6")
	midColor  = drawing.ColorFromHex("F5D547")
)

const (
	chartHeight   = 420
	minChartWidth = 640
	barWidth      = 48
	barSlotWidth  = 80
)

// ChartSet holds rendered SVG documents; a nil entry means there was nothing to
// plot.
type ChartSet struct {
	Alignment []byte
	Journals  []byte
	PassRates []byte
}

// RenderCharts draws every chart of the dashboard.
func RenderCharts(c view.Charts) (ChartSet, error) {
	var set ChartSet
	var err error
	if set.Alignment, err = AlignmentPie(c.Alignment); err != nil {
		return ChartSet{}, fmt.Errorf("alignment chart: %w", err)
	}
	if set.Journals, err = JournalBars(c.Journals); err != nil {
		return ChartSet{}, fmt.Errorf("journal chart: %w", err)
	}
	if set.PassRates, err = PassRateBars(c.PassRates); err != nil {
		return ChartSet{}, fmt.Errorf("pass rate chart: %w", err)
	}
	return set, nil
}

// AlignmentPie draws the aligned / not aligned distribution.
func AlignmentPie(counts []view.Count) ([]byte, error) {
	if len(counts) == 0 {
		return nil, nil
	}
	values := make([]chart.Value, 0, len(counts))
	for _, c := range counts {
		color := failColor
		if c.Label == "Aligned" {
			color = passColor
		}
		values = append(values, chart.Value{
			Label: svgText(fmt.Sprintf("%s (%d)", c.Label, c.Count)),
			Value: float64(c.Count),
			Style: chart.Style{FillColor: color, FontColor: drawing.ColorWhite},
		})
	}
	pie := chart.PieChart{
		Title:  svgText("Alignment Distribution"),
		Width:  chartHeight,
		Height: chartHeight,
		Values: values,
	}
	return renderSVG(pie)
}

// JournalBars draws manuscripts per journal.
func JournalBars(counts []view.Count) ([]byte, error) {
	if len(counts) == 0 {
		return nil, nil
	}
	bars := make([]chart.Value, 0, len(counts))
	top := 0
	for _, c := range counts {
		if c.Count > top {
			top = c.Count
		}
		bars = append(bars, chart.Value{
			Label: svgText(c.Label),
			Value: float64(c.Count),
			Style: chart.Style{FillColor: barColor, StrokeColor: barColor},
		})
	}
	return renderSVG(barChart("Manuscripts per Journal", bars, float64(top)))
}

// PassRateBars draws the pass rate of every status column, colored from red
// through yellow to green.
func PassRateBars(rates []view.Rate) ([]byte, error) {
	if len(rates) == 0 {
		return nil, nil
	}
	bars := make([]chart.Value, 0, len(rates))
	for _, r := range rates {
		color := rateColor(r.Percent)
		bars = append(bars, chart.Value{
			Label: svgText(fmt.Sprintf("%s %.1f%%", r.Evaluation, r.Percent)),
			Value: r.Percent,
			Style: chart.Style{FillColor: color, StrokeColor: color},
		})
	}
	return renderSVG(barChart("Evaluation Pass Rates", bars, 100))
}

// svgText escapes s for go-chart, which writes text into the SVG verbatim.
func svgText(s string) string {
	return html.EscapeString(s)
}

func barChart(title string, bars []chart.Value, top float64) chart.BarChart {
	if top < 1 {
		top = 1
	}
	width := len(bars) * barSlotWidth
	if width < minChartWidth {
		width = minChartWidth
	}
	return chart.BarChart{
		Title:      svgText(title),
		Width:      width,
		Height:     chartHeight,
		BarWidth:   barWidth,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16}},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: top},
		},
		Bars: bars,
	}
}

type svgRenderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

func renderSVG(c svgRenderable) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Render(chart.SVG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// rateColor interpolates red (0%) to yellow (50%) to green (100%).
func rateColor(pct float64) drawing.Color {
	switch {
	case pct <= 0:
		return failColor
	case pct >= 100:
		return passColor
	case pct < 50:
		return blend(failColor, midColor, pct/50)
	default:
		return blend(midColor, passColor, (pct-50)/50)
	}
}

func blend(a, b drawing.Color, t float64) drawing.Color {
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t)
	}
	return drawing.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

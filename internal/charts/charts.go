package charts

import (
	"errors"
	"io"
	"math"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoData is returned when there is nothing to plot
var ErrNoData = errors.New("charts: no data to plot")

// ContentType is the MIME type of rendered charts
const ContentType = "image/svg+xml"

var (
	lineColor = drawing.ColorFromHex("1F77B4")
	barColor  = drawing.ColorFromHex("4C78A8")
)

// Slice is one wedge of a pie chart
type Slice struct {
	Label string
	Value float64
	Color string
}

// Color parses a #RRGGBB string
func Color(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

// valueRange starts at zero (or the minimum when negative) and leaves headroom
// above the largest value, so a flat series never yields a zero-height range.
func valueRange(values []float64) *chart.ContinuousRange {
	lo, hi := 0.0, 0.0
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}
	return &chart.ContinuousRange{Min: lo, Max: hi * 1.1}
}

func categoryTicks(labels []string) []chart.Tick {
	ticks := make([]chart.Tick, len(labels))
	for i, label := range labels {
		ticks[i] = chart.Tick{Value: float64(i), Label: label}
	}
	return ticks
}

// Line plots values against categorical labels as SVG
func Line(w io.Writer, title string, labels []string, values []float64) error {
	if len(values) == 0 || len(labels) != len(values) {
		return ErrNoData
	}
	xs := make([]float64, len(values))
	for i := range xs {
		xs[i] = float64(i)
	}
	xMax := math.Max(1, float64(len(values)-1))

	graph := chart.Chart{
		Title:  title,
		Width:  720,
		Height: 300,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 30, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Ticks: categoryTicks(labels),
			Range: &chart.ContinuousRange{Min: 0, Max: xMax},
		},
		YAxis: chart.YAxis{
			Name:  "Value",
			Range: valueRange(values),
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Value",
				XValues: xs,
				YValues: values,
				Style: chart.Style{
					StrokeColor: lineColor,
					StrokeWidth: 2,
					DotColor:    lineColor,
					DotWidth:    4,
				},
			},
		},
	}
	return graph.Render(chart.SVG, w)
}

// Bar draws one bar per label as SVG
func Bar(w io.Writer, title string, labels []string, values []float64) error {
	if len(values) == 0 || len(labels) != len(values) {
		return ErrNoData
	}
	bars := make([]chart.Value, len(values))
	for i, v := range values {
		bars[i] = chart.Value{
			Label: labels[i],
			Value: v,
			Style: chart.Style{FillColor: barColor, StrokeColor: barColor},
		}
	}

	const barWidth, barSpacing = 50, 40
	graph := chart.BarChart{
		Title:      title,
		Width:      160 + len(bars)*(barWidth+barSpacing),
		Height:     250,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: chart.Style{
			Padding: chart.Box{Top: 50},
		},
		YAxis: chart.YAxis{
			Range: valueRange(values),
		},
		Bars: bars,
	}
	return graph.Render(chart.SVG, w)
}

// slicePalette colours series by slice index. go-chart draws a lone pie
// slice as a circle styled from the palette, not from the value's Style.
type slicePalette struct {
	chart.ColorPalette
	colors []drawing.Color
}

func (p slicePalette) GetSeriesColor(index int) drawing.Color {
	if index >= 0 && index < len(p.colors) {
		return p.colors[index]
	}
	return p.ColorPalette.GetSeriesColor(index)
}

// Pie draws the slices as SVG; slices must have positive values
func Pie(w io.Writer, slices []Slice) error {
	values := make([]chart.Value, 0, len(slices))
	palette := slicePalette{ColorPalette: chart.AlternateColorPalette}
	for _, s := range slices {
		if s.Value <= 0 {
			continue
		}
		color := Color(s.Color)
		palette.colors = append(palette.colors, color)
		values = append(values, chart.Value{
			Label: s.Label,
			Value: s.Value,
			Style: chart.Style{FillColor: color, StrokeColor: drawing.ColorWhite, FontSize: 10},
		})
	}
	if len(values) == 0 {
		return ErrNoData
	}

	graph := chart.PieChart{
		Width:        400,
		Height:       400,
		ColorPalette: palette,
		Values:       values,
	}
	return graph.Render(chart.SVG, w)
}

// Package charts renders the report figures as SVG with go-chart.
package charts

import (
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"msmeinsights/domain/report"
	"msmeinsights/internal/errors"
)

// Chart titles
const (
	TrafficTitle  = "Normal vs Anomalous"
	AccuracyTitle = "True Label vs Predicted (Regression Fit)"
)

// Axis bounds of the accuracy scatter. The labels are 0/1, so a small margin
// keeps the dots off the frame.
const (
	axisMin = -0.1
	axisMax = 1.1
)

var (
	normalColor  = drawing.ColorFromHex("1f77b4")
	anomalyColor = drawing.ColorFromHex("d62728")
	pointColor   = drawing.ColorFromHex("1f77b4").WithAlpha(140)
	trendColor   = drawing.ColorFromHex("d62728")

	// Endpoints of the Blues scale
	bluesLow  = drawing.Color{R: 247, G: 251, B: 255, A: 255}
	bluesHigh = drawing.Color{R: 8, G: 48, B: 107, A: 255}
)

// Size in pixels of each rendered chart
type Size struct {
	Width  int
	Height int
}

// DefaultSize fits a half-width dashboard column
var DefaultSize = Size{Width: 520, Height: 380}

// TrafficPie renders the normal/anomalous split. Negative counts are drawn as
// zero-width slices; the summary itself is left untouched.
func TrafficPie(w io.Writer, s report.TrafficSummary, size Size) error {
	normals := clamp(s.Normals)
	anomalies := clamp(s.Anomalies)
	if normals+anomalies == 0 {
		return errors.InvalidInput("traffic summary has no requests to chart")
	}

	pie := chart.PieChart{
		Title:  TrafficTitle,
		Width:  size.Width,
		Height: size.Height,
		Values: []chart.Value{
			{Value: float64(normals), Label: "Normal", Style: chart.Style{FillColor: normalColor}},
			{Value: float64(anomalies), Label: "Anomalous", Style: chart.Style{FillColor: anomalyColor}},
		},
	}
	if err := pie.Render(chart.SVG, w); err != nil {
		return errors.Wrap(err, "failed to render traffic chart")
	}
	return nil
}

// AccuracyScatter renders the sampled label pairs with the fitted trend line
func AccuracyScatter(w io.Writer, acc report.Accuracy, size Size) error {
	series := make([]chart.Series, 0, 2)

	if len(acc.Sample) > 0 {
		xs := make([]float64, len(acc.Sample))
		ys := make([]float64, len(acc.Sample))
		for i, p := range acc.Sample {
			xs[i], ys[i] = p.X, p.Y
		}
		series = append(series, chart.ContinuousSeries{
			Name:    "Samples",
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    4,
				DotColor:    pointColor,
			},
		})
	}

	series = append(series, chart.ContinuousSeries{
		Name:    "Trend",
		XValues: []float64{axisMin, axisMax},
		YValues: []float64{acc.Trend.At(axisMin), acc.Trend.At(axisMax)},
		Style: chart.Style{
			StrokeWidth: 2,
			StrokeColor: trendColor,
		},
	})

	graph := chart.Chart{
		Title:  AccuracyTitle,
		Width:  size.Width,
		Height: size.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.XAxis{
			Name:  "True Label",
			Range: &chart.ContinuousRange{Min: axisMin, Max: axisMax},
			Ticks: labelTicks(),
		},
		YAxis: chart.YAxis{
			Name:  "Predicted",
			Range: &chart.ContinuousRange{Min: axisMin, Max: axisMax},
			Ticks: labelTicks(),
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.SVG, w); err != nil {
		return errors.Wrap(err, "failed to render accuracy chart")
	}
	return nil
}

// HeatColor maps a confusion-matrix cell onto the Blues scale, 0 being the
// lightest and peak the darkest
func HeatColor(count, peak int) drawing.Color {
	if peak <= 0 || count <= 0 {
		return bluesLow
	}
	f := float64(count) / float64(peak)
	if f > 1 {
		f = 1
	}
	return drawing.Color{
		R: lerp(bluesLow.R, bluesHigh.R, f),
		G: lerp(bluesLow.G, bluesHigh.G, f),
		B: lerp(bluesLow.B, bluesHigh.B, f),
		A: 255,
	}
}

// HeatTextColor keeps cell labels readable on dark cells
func HeatTextColor(count, peak int) drawing.Color {
	if peak > 0 && float64(count)/float64(peak) > 0.5 {
		return drawing.ColorWhite
	}
	return drawing.ColorBlack
}

func labelTicks() []chart.Tick {
	return []chart.Tick{
		{Value: axisMin, Label: ""},
		{Value: 0, Label: "0"},
		{Value: 0.5, Label: "0.5"},
		{Value: 1, Label: "1"},
		{Value: axisMax, Label: ""},
	}
}

func lerp(a, b uint8, f float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*f + 0.5)
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

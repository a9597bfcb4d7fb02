package analysis

import (
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"msmeinsights/domain/report"
	"msmeinsights/domain/table"
)

// MsgAccuracySkipped is shown in place of the accuracy section
const MsgAccuracySkipped = "Prediction dataset not loaded or missing `true_label` / `predicted` columns."

// DefaultScatterSample caps the number of plotted points
const DefaultScatterSample = 2000

// sampler picks k distinct indices out of n
type sampler func(n, k int) []int

// AccuracyAnalyzer computes model accuracy, the regression scatter and the
// confusion matrix from a predictions table
type AccuracyAnalyzer struct {
	sampleSize int
	sample     sampler
}

// NewAccuracyAnalyzer creates an analyzer plotting at most sampleSize points
func NewAccuracyAnalyzer(sampleSize int) *AccuracyAnalyzer {
	if sampleSize <= 0 {
		sampleSize = DefaultScatterSample
	}
	return &AccuracyAnalyzer{sampleSize: sampleSize, sample: uniformSample}
}

// Analyze returns Skipped unless pred has rows and both label columns
func (a *AccuracyAnalyzer) Analyze(pred *table.Table) report.Section[report.Accuracy] {
	if pred.IsEmpty() || !pred.HasColumns(report.ColumnTrueLabel, report.ColumnPredicted) {
		return report.Skipped[report.Accuracy](MsgAccuracySkipped)
	}

	truth := pred.Column(report.ColumnTrueLabel)
	predicted := pred.Column(report.ColumnPredicted)

	result := report.Accuracy{
		Accuracy:  accuracyPercent(truth, predicted),
		Rows:      pred.Len(),
		Confusion: confusionMatrix(truth, predicted),
	}

	points := numericPairs(truth, predicted)
	result.Sample = a.samplePoints(points)
	result.Trend = fitTrend(result.Sample)

	return report.Ready(result)
}

// accuracyPercent is the exact-match rate over every row
func accuracyPercent(truth, predicted []string) float64 {
	matches := make(stats.Float64Data, len(truth))
	for i := range truth {
		if labelsMatch(truth[i], predicted[i]) {
			matches[i] = 1
		}
	}
	mean, err := stats.Mean(matches)
	if err != nil {
		return 0
	}
	return mean * 100
}

// confusionMatrix counts rows by actual (row) and predicted (column) label.
// Rows whose labels are not 0 or 1 are left out.
func confusionMatrix(truth, predicted []string) report.ConfusionMatrix {
	var m report.ConfusionMatrix
	for i := range truth {
		actual, guess := binaryLabel(truth[i]), binaryLabel(predicted[i])
		if actual < 0 || guess < 0 {
			continue
		}
		m.Counts[actual][guess]++
	}
	return m
}

func numericPairs(truth, predicted []string) []report.Point {
	points := make([]report.Point, 0, len(truth))
	for i := range truth {
		x, xok := parseLabel(truth[i])
		y, yok := parseLabel(predicted[i])
		if xok && yok {
			points = append(points, report.Point{X: x, Y: y})
		}
	}
	return points
}

// samplePoints keeps all points up to the cap, otherwise a uniform sample
// without replacement in original row order
func (a *AccuracyAnalyzer) samplePoints(points []report.Point) []report.Point {
	if len(points) <= a.sampleSize {
		return points
	}
	picked := a.sample(len(points), a.sampleSize)
	sort.Ints(picked)
	out := make([]report.Point, 0, len(picked))
	for _, idx := range picked {
		out = append(out, points[idx])
	}
	return out
}

func uniformSample(n, k int) []int {
	indices := make(stats.Float64Data, n)
	for i := range indices {
		indices[i] = float64(i)
	}
	drawn, err := stats.Sample(indices, k, false)
	if err != nil {
		return nil
	}
	out := make([]int, len(drawn))
	for i, v := range drawn {
		out[i] = int(v)
	}
	return out
}

// fitTrend runs ordinary least squares on the plotted points. With fewer than
// two distinct x values the slope is undefined and the line is flat at mean(y).
func fitTrend(points []report.Point) report.Trend {
	if len(points) == 0 {
		return report.Trend{Flat: true}
	}
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i] = p.X, p.Y
	}

	if len(points) < 2 || stat.Variance(xs, nil) == 0 {
		return report.Trend{Intercept: stat.Mean(ys, nil), Flat: true}
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	return report.Trend{Slope: beta, Intercept: alpha}
}

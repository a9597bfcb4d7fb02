package report

import (
	"time"

	"msmeinsights/internal/errors"
)

// Column names probed on the input tables
const (
	ColumnPredicted       = "predicted"
	ColumnClassification  = "classification"
	ColumnTrueLabel       = "true_label"
	ColumnReasons         = "reasons"
	ColumnHost            = "host"
	ColumnTimestamp       = "timestamp"
	ColumnSummary         = "summary"
	ColumnImpact          = "impact"
	ColumnSuggestedAction = "suggested_action"
	ColumnMethod          = "Method"
	ColumnURL             = "URL"
	ColumnUserAgent       = "User-Agent"
)

// Page text
const (
	Title   = "MSME Cybersecurity Insights"
	Caption = "Business-friendly security insights based on anomaly detection + GenAI explanations"
)

// Sources names the three input paths of a render pass
type Sources struct {
	Full        string `json:"full"`
	Explanation string `json:"explanations"`
	Prediction  string `json:"predictions"`
}

// CountSource names which column rule produced the anomaly count
type CountSource string

const (
	CountFromPredicted      CountSource = "predicted"
	CountFromClassification CountSource = "classification"
	CountFromExplanations   CountSource = "explanations"
)

// TrafficSummary is the headline traffic mix
type TrafficSummary struct {
	Total     int         `json:"total"`
	Anomalies int         `json:"anomalies"`
	Normals   int         `json:"normals"`
	Rate      float64     `json:"rate"`
	Source    CountSource `json:"source"`
}

// Point is one (true_label, predicted) pair on the scatter plot
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Trend is the least-squares line y = Intercept + Slope*x.
// Flat is set when x had no variance and the line is pinned at mean(y).
type Trend struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	Flat      bool    `json:"flat,omitempty"`
}

// At evaluates the trend line
func (t Trend) At(x float64) float64 {
	return t.Intercept + t.Slope*x
}

// Label indices of the confusion matrix
const (
	LabelNormal = 0
	LabelAttack = 1
)

// ConfusionLabels are the axis names, Normal before Attack
var ConfusionLabels = [2]string{"Normal", "Attack"}

// ConfusionMatrix counts rows by actual label (row) and predicted label (column)
type ConfusionMatrix struct {
	Counts [2][2]int `json:"counts"`
}

// Max returns the largest cell count
func (m ConfusionMatrix) Max() int {
	peak := 0
	for _, row := range m.Counts {
		for _, c := range row {
			if c > peak {
				peak = c
			}
		}
	}
	return peak
}

// Accuracy holds the model accuracy section
type Accuracy struct {
	Accuracy  float64         `json:"accuracy"`
	Rows      int             `json:"rows"`
	Sample    []Point         `json:"sample"`
	Trend     Trend           `json:"trend"`
	Confusion ConfusionMatrix `json:"confusion"`
}

// PeakLayout formats the start of the peak hour
const PeakLayout = "2006-01-02 15:00"

// Insights holds the top-frequency summaries of explained anomalies.
// Each field is nil when its column is absent.
type Insights struct {
	TopThreats []string   `json:"top_threats,omitempty"`
	TopSources []string   `json:"top_sources,omitempty"`
	PeakWindow *time.Time `json:"peak_window,omitempty"`
}

// Alert is one human-readable alert card
type Alert struct {
	Headline        string `json:"headline"`
	Reason          string `json:"reason"`
	Impact          string `json:"impact"`
	SuggestedAction string `json:"suggested_action"`
	Method          string `json:"method"`
	URL             string `json:"url"`
	UserAgent       string `json:"user_agent"`
}

// Report is the result of one render pass
type Report struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`
	Sources     Sources   `json:"sources"`
	Status      Status    `json:"status"`
	Notices     []Notice  `json:"notices"`

	Traffic  Section[TrafficSummary] `json:"traffic"`
	Accuracy Section[Accuracy]       `json:"accuracy"`
	Insights Section[Insights]       `json:"insights"`
	Alerts   Section[[]Alert]        `json:"alerts"`

	RecommendedActions string `json:"recommended_actions,omitempty"`
}

// Fatal reports whether the pass halted
func (r *Report) Fatal() bool {
	return r.Status == StatusFatal
}

// Err returns a DATASET_UNAVAILABLE error when the pass halted
func (r *Report) Err() error {
	if !r.Fatal() {
		return nil
	}
	return errors.DatasetUnavailable(r.Sources.Full)
}

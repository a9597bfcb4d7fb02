package excel

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"msmeinsights/domain/report"
	"msmeinsights/internal/errors"
)

func sampleReport() *report.Report {
	peak := time.Date(2024, 3, 1, 14, 0, 0, 0, time.UTC)
	return &report.Report{
		ID:          "r-1",
		GeneratedAt: time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC),
		Sources:     report.Sources{Full: "full.csv", Explanation: "expl.csv", Prediction: "pred.csv"},
		Status:      report.StatusReady,
		Traffic:     report.Ready(report.TrafficSummary{Total: 1200, Anomalies: 300, Normals: 900, Rate: 25}),
		Accuracy: report.Ready(report.Accuracy{
			Accuracy:  75,
			Rows:      4,
			Confusion: report.ConfusionMatrix{Counts: [2][2]int{{2, 0}, {1, 1}}},
		}),
		Insights: report.Ready(report.Insights{
			TopThreats: []string{"SQL injection", "XSS"},
			TopSources: []string{"10.0.0.1"},
			PeakWindow: &peak,
		}),
		Alerts: report.Ready([]report.Alert{{
			Headline: "Probe", Reason: "scan", Impact: "-", SuggestedAction: "block",
			Method: "GET", URL: "/admin", UserAgent: "curl",
		}}),
	}
}

func TestExporterWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewExporter().Write(&buf, sampleReport()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSummary, SheetConfusion, SheetInsights, SheetAlerts}, f.GetSheetList())

	total, err := f.GetCellValue(SheetSummary, "B8")
	require.NoError(t, err)
	assert.Equal(t, "1200", total)

	cells, err := f.GetRows(SheetConfusion)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Actual \\ Predicted", "Normal", "Attack"},
		{"Normal", "2", "0"},
		{"Attack", "1", "1"},
	}, cells)

	insights, err := f.GetRows(SheetInsights)
	require.NoError(t, err)
	require.Len(t, insights, 5)
	assert.Equal(t, []string{"Peak attack window", "1", "2024-03-01 14:00"}, insights[4])

	alerts, err := f.GetRows(SheetAlerts)
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, "Probe", alerts[1][0])
	assert.Equal(t, "curl", alerts[1][6])
}

func TestExporterSkippedSections(t *testing.T) {
	rep := sampleReport()
	rep.Accuracy = report.Skipped[report.Accuracy]("no predictions")
	rep.Alerts = report.Skipped[[]report.Alert]("no alerts")

	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, NewExporter().WriteFile(path, rep))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	msg, err := f.GetCellValue(SheetConfusion, "A1")
	require.NoError(t, err)
	assert.Equal(t, "no predictions", msg)

	msg, err = f.GetCellValue(SheetAlerts, "A1")
	require.NoError(t, err)
	assert.Equal(t, "no alerts", msg)
}

func TestExporterFatalReport(t *testing.T) {
	rep := &report.Report{Status: report.StatusFatal, Sources: report.Sources{Full: "missing.csv"}}

	var buf bytes.Buffer
	err := NewExporter().Write(&buf, rep)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeDatasetUnavailable))
	assert.Zero(t, buf.Len())
}

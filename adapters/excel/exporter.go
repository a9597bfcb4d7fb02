package excel

import (
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2/drawing"
	"github.com/xuri/excelize/v2"

	"msmeinsights/adapters/charts"
	"msmeinsights/domain/report"
	"msmeinsights/internal/errors"
)

// Workbook sheet names, in tab order
const (
	SheetSummary   = "Summary"
	SheetConfusion = "Confusion Matrix"
	SheetInsights  = "Insights"
	SheetAlerts    = "Alerts"
)

// Exporter writes a built report as an xlsx workbook
type Exporter struct{}

// NewExporter creates a workbook exporter
func NewExporter() *Exporter {
	return &Exporter{}
}

// WriteFile saves the workbook at path
func (e *Exporter) WriteFile(path string, rep *report.Report) error {
	f, err := e.build(rep)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return errors.Wrapf(err, "failed to save workbook %s", path)
	}
	return nil
}

// Write streams the workbook to w
func (e *Exporter) Write(w io.Writer, rep *report.Report) error {
	f, err := e.build(rep)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return errors.Wrap(err, "failed to write workbook")
	}
	return nil
}

func (e *Exporter) build(rep *report.Report) (*excelize.File, error) {
	if err := rep.Err(); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "failed to name summary sheet")
	}

	steps := []func(*excelize.File, *report.Report) error{
		writeSummary,
		writeConfusion,
		writeInsights,
		writeAlerts,
	}
	for _, step := range steps {
		if err := step(f, rep); err != nil {
			f.Close()
			return nil, errors.Wrap(err, "failed to build workbook")
		}
	}
	return f, nil
}

func writeSummary(f *excelize.File, rep *report.Report) error {
	rows := [][]interface{}{
		{"Report", report.Title},
		{"Report ID", rep.ID},
		{"Generated", rep.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Full dataset", rep.Sources.Full},
		{"Explanations", rep.Sources.Explanation},
		{"Predictions", rep.Sources.Prediction},
		{},
	}

	if rep.Traffic.IsReady() {
		t := rep.Traffic.Data
		rows = append(rows,
			[]interface{}{"Total Requests", t.Total},
			[]interface{}{"Detected Anomalies", t.Anomalies},
			[]interface{}{"Anomaly Rate (%)", round2(t.Rate)},
		)
	}
	if rep.Accuracy.IsReady() {
		rows = append(rows, []interface{}{"Model Accuracy (%)", round2(rep.Accuracy.Data.Accuracy)})
	} else {
		rows = append(rows, []interface{}{"Model Accuracy", rep.Accuracy.Reason})
	}

	if len(rep.Notices) > 0 {
		rows = append(rows, []interface{}{})
		for _, n := range rep.Notices {
			rows = append(rows, []interface{}{string(n.Level), n.Message})
		}
	}

	if err := setRows(f, SheetSummary, rows); err != nil {
		return err
	}
	return f.SetColWidth(SheetSummary, "A", "B", 28)
}

func writeConfusion(f *excelize.File, rep *report.Report) error {
	if _, err := f.NewSheet(SheetConfusion); err != nil {
		return err
	}
	if !rep.Accuracy.IsReady() {
		return setRows(f, SheetConfusion, [][]interface{}{{rep.Accuracy.Reason}})
	}

	m := rep.Accuracy.Data.Confusion
	labels := report.ConfusionLabels
	rows := [][]interface{}{
		{"Actual \\ Predicted", labels[report.LabelNormal], labels[report.LabelAttack]},
		{labels[report.LabelNormal], m.Counts[0][0], m.Counts[0][1]},
		{labels[report.LabelAttack], m.Counts[1][0], m.Counts[1][1]},
	}
	if err := setRows(f, SheetConfusion, rows); err != nil {
		return err
	}

	peak := m.Max()
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			style, err := f.NewStyle(&excelize.Style{
				Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{hexColor(charts.HeatColor(m.Counts[r][c], peak))}},
				Font: &excelize.Font{Color: hexColor(charts.HeatTextColor(m.Counts[r][c], peak))},
			})
			if err != nil {
				return err
			}
			cell, err := excelize.CoordinatesToCellName(c+2, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(SheetConfusion, cell, cell, style); err != nil {
				return err
			}
		}
	}
	return f.SetColWidth(SheetConfusion, "A", "C", 20)
}

func writeInsights(f *excelize.File, rep *report.Report) error {
	if _, err := f.NewSheet(SheetInsights); err != nil {
		return err
	}
	if !rep.Insights.IsReady() {
		return setRows(f, SheetInsights, [][]interface{}{{rep.Insights.Reason}})
	}

	ins := rep.Insights.Data
	rows := [][]interface{}{{"Insight", "Rank", "Value"}}
	for i, v := range ins.TopThreats {
		rows = append(rows, []interface{}{"Top threat", i + 1, v})
	}
	for i, v := range ins.TopSources {
		rows = append(rows, []interface{}{"Top source", i + 1, v})
	}
	if ins.PeakWindow != nil {
		rows = append(rows, []interface{}{"Peak attack window", 1, ins.PeakWindow.Format(report.PeakLayout)})
	}
	if err := setRows(f, SheetInsights, rows); err != nil {
		return err
	}
	return f.SetColWidth(SheetInsights, "A", "C", 24)
}

func writeAlerts(f *excelize.File, rep *report.Report) error {
	if _, err := f.NewSheet(SheetAlerts); err != nil {
		return err
	}
	if !rep.Alerts.IsReady() {
		return setRows(f, SheetAlerts, [][]interface{}{{rep.Alerts.Reason}})
	}

	rows := [][]interface{}{{"Alert", "Reason", "Impact", "Suggested action", "Method", "URL", "User-Agent"}}
	for _, a := range *rep.Alerts.Data {
		rows = append(rows, []interface{}{a.Headline, a.Reason, a.Impact, a.SuggestedAction, a.Method, a.URL, a.UserAgent})
	}
	if err := setRows(f, SheetAlerts, rows); err != nil {
		return err
	}
	return f.SetColWidth(SheetAlerts, "A", "G", 24)
}

func setRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return err
		}
	}
	return nil
}

func hexColor(c drawing.Color) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

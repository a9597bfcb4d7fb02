package ui

import (
	"html/template"
	"net/url"

	"msmeinsights/adapters/charts"
	"msmeinsights/domain/report"
)

// heatCell is one confusion-matrix cell with its Blues colouring
type heatCell struct {
	Count      int
	Background template.CSS
	Foreground template.CSS
}

type heatRow struct {
	Label string
	Cells []heatCell
}

// pageView is the template model of the report page
type pageView struct {
	Title       string
	Caption     string
	ReportID    string
	GeneratedAt string
	Sources     report.Sources
	Fatal       bool
	Notices     []report.Notice

	Traffic         *report.TrafficSummary
	TrafficChartURL template.URL

	Accuracy         *report.Accuracy
	AccuracyReason   string
	AccuracyChartURL template.URL
	ConfusionLabels  [2]string
	Heatmap          []heatRow

	Insights       []report.Bullet
	InsightsReason string

	Actions string

	Alerts       []report.Alert
	AlertsReason string

	ExportURL template.URL
}

func newPageView(rep *report.Report, query url.Values) pageView {
	v := pageView{
		Title:       report.Title,
		Caption:     report.Caption,
		ReportID:    rep.ID,
		GeneratedAt: rep.GeneratedAt.Format("2006-01-02 15:04:05"),
		Sources:     rep.Sources,
		Fatal:       rep.Fatal(),
		Notices:     rep.Notices,
	}
	if v.Fatal {
		return v
	}

	suffix := ""
	if encoded := query.Encode(); encoded != "" {
		suffix = "?" + encoded
	}

	v.ExportURL = template.URL("/api/export.xlsx" + suffix)

	if rep.Traffic.IsReady() {
		v.Traffic = rep.Traffic.Data
		v.TrafficChartURL = template.URL("/charts/traffic.svg" + suffix)
	}

	if rep.Accuracy.IsReady() {
		v.Accuracy = rep.Accuracy.Data
		v.AccuracyChartURL = template.URL("/charts/accuracy.svg" + suffix)
		v.ConfusionLabels = report.ConfusionLabels
		v.Heatmap = heatmap(rep.Accuracy.Data.Confusion)
	} else {
		v.AccuracyReason = rep.Accuracy.Reason
	}

	if rep.Insights.IsReady() {
		v.Insights = rep.Insights.Data.Bullets()
	} else {
		v.InsightsReason = rep.Insights.Reason
	}

	v.Actions = rep.RecommendedActions

	if rep.Alerts.IsReady() {
		v.Alerts = *rep.Alerts.Data
	} else {
		v.AlertsReason = rep.Alerts.Reason
	}
	return v
}

func heatmap(m report.ConfusionMatrix) []heatRow {
	peak := m.Max()
	rows := make([]heatRow, 0, 2)
	for actual, label := range report.ConfusionLabels {
		row := heatRow{Label: label}
		for guess := range report.ConfusionLabels {
			count := m.Counts[actual][guess]
			row.Cells = append(row.Cells, heatCell{
				Count:      count,
				Background: template.CSS(charts.HeatColor(count, peak).String()),
				Foreground: template.CSS(charts.HeatTextColor(count, peak).String()),
			})
		}
		rows = append(rows, row)
	}
	return rows
}

// sourceOverrides keeps only the path parameters the page understands
func sourceOverrides(q url.Values) url.Values {
	out := url.Values{}
	for _, key := range []string{"full", "expl", "pred"} {
		if v := q.Get(key); v != "" {
			out.Set(key, v)
		}
	}
	return out
}

package ui

import (
	"html/template"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"msmeinsights/adapters/charts"
	"msmeinsights/domain/report"
)

func TestHeatmap(t *testing.T) {
	rows := heatmap(report.ConfusionMatrix{Counts: [2][2]int{{8, 0}, {2, 4}}})
	require.Len(t, rows, 2)

	assert.Equal(t, "Normal", rows[0].Label)
	assert.Equal(t, "Attack", rows[1].Label)
	assert.Equal(t, 8, rows[0].Cells[0].Count)
	assert.Equal(t, 4, rows[1].Cells[1].Count)
	assert.Equal(t, template.CSS(charts.HeatColor(8, 8).String()), rows[0].Cells[0].Background)
	assert.Equal(t, template.CSS(charts.HeatColor(0, 8).String()), rows[0].Cells[1].Background)
	assert.NotEqual(t, rows[0].Cells[0].Background, rows[0].Cells[1].Background)
	assert.Equal(t, template.CSS(charts.HeatTextColor(8, 8).String()), rows[0].Cells[0].Foreground)
}

func TestNewPageViewFatal(t *testing.T) {
	rep := &report.Report{
		Status:  report.StatusFatal,
		Notices: []report.Notice{{Level: report.NoticeError, Message: "Could not load full dataset."}},
		Traffic: report.Fatal[report.TrafficSummary]("Could not load full dataset."),
	}

	v := newPageView(rep, url.Values{})
	assert.True(t, v.Fatal)
	assert.Len(t, v.Notices, 1)
	assert.Nil(t, v.Traffic)
	assert.Empty(t, v.TrafficChartURL)
}

func TestSourceOverrides(t *testing.T) {
	q := url.Values{"full": {"a.csv"}, "pred": {""}, "other": {"x"}}
	assert.Equal(t, url.Values{"full": {"a.csv"}}, sourceOverrides(q))
}

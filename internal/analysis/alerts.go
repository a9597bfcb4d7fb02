package analysis

import (
	"strings"

	"msmeinsights/domain/report"
	"msmeinsights/domain/table"
)

// MsgAlertsSkipped is shown when there is nothing to alert on
const MsgAlertsSkipped = "No anomaly explanations to show."

// DefaultAlertLimit is the number of sample alert cards
const DefaultAlertLimit = 5

// Placeholders for absent fields
const (
	DefaultHeadline = "Suspicious request"
	Placeholder     = "-"
)

// RenderAlerts formats the first rows of the explanations table in file order.
// Every field falls back to its placeholder on its own.
func RenderAlerts(expl *table.Table, limit int) report.Section[[]report.Alert] {
	if expl.IsEmpty() {
		return report.Skipped[[]report.Alert](MsgAlertsSkipped)
	}
	if limit <= 0 {
		limit = DefaultAlertLimit
	}

	rows := expl.Head(limit)
	alerts := make([]report.Alert, 0, len(rows))
	for _, i := range rows {
		alerts = append(alerts, report.Alert{
			Headline:        field(expl, i, report.ColumnSummary, DefaultHeadline),
			Reason:          field(expl, i, report.ColumnReasons, Placeholder),
			Impact:          field(expl, i, report.ColumnImpact, Placeholder),
			SuggestedAction: field(expl, i, report.ColumnSuggestedAction, Placeholder),
			Method:          field(expl, i, report.ColumnMethod, Placeholder),
			URL:             field(expl, i, report.ColumnURL, Placeholder),
			UserAgent:       field(expl, i, report.ColumnUserAgent, Placeholder),
		})
	}
	return report.Ready(alerts)
}

func field(t *table.Table, row int, column, fallback string) string {
	v, ok := t.Value(row, column)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

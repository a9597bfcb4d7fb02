package analysis

import (
	"msmeinsights/domain/report"
	"msmeinsights/domain/table"
)

// countRule is one tier of the anomaly-count policy
type countRule struct {
	source  report.CountSource
	applies func(full, expl *table.Table) bool
	count   func(full, expl *table.Table) int
}

// anomalyRules are evaluated top-down; the first applicable rule wins.
// The last tier counts rows of the explanations table as a proxy.
var anomalyRules = []countRule{
	{
		source:  report.CountFromPredicted,
		applies: func(full, _ *table.Table) bool { return full.HasColumn(report.ColumnPredicted) },
		count:   func(full, _ *table.Table) int { return countAttacks(full, report.ColumnPredicted) },
	},
	{
		source:  report.CountFromClassification,
		applies: func(full, _ *table.Table) bool { return full.HasColumn(report.ColumnClassification) },
		count:   func(full, _ *table.Table) int { return countAttacks(full, report.ColumnClassification) },
	},
	{
		source:  report.CountFromExplanations,
		applies: func(_, _ *table.Table) bool { return true },
		count:   func(_, expl *table.Table) int { return expl.Len() },
	},
}

// Summarize computes the total, anomaly and normal counts and the anomaly rate
func Summarize(full, expl *table.Table) report.TrafficSummary {
	summary := report.TrafficSummary{Total: full.Len()}

	for _, rule := range anomalyRules {
		if rule.applies(full, expl) {
			summary.Anomalies = rule.count(full, expl)
			summary.Source = rule.source
			break
		}
	}

	summary.Normals = summary.Total - summary.Anomalies
	summary.Rate = AnomalyRate(summary.Anomalies, summary.Total)
	return summary
}

// AnomalyRate returns anomalies as a percentage of total, or 0 for an empty total
func AnomalyRate(anomalies, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(anomalies) / float64(total) * 100
}

func countAttacks(t *table.Table, column string) int {
	n := 0
	for _, v := range t.Column(column) {
		if isAttack(v) {
			n++
		}
	}
	return n
}

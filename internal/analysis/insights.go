package analysis

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"msmeinsights/domain/report"
	"msmeinsights/domain/table"
)

// MsgInsightsSkipped is shown when there are no explained anomalies
const MsgInsightsSkipped = "No GenAI explanations available yet."

// DefaultTopN is how many values the frequency summaries keep
const DefaultTopN = 3

// timestampFormats are tried in order; the first that parses wins
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"02/Jan/2006:15:04:05 -0700",
	"02-Jan-2006",
	time.RFC1123Z,
	time.RFC1123,
}

// ExtractInsights summarizes the explanations table. Each sub-insight is
// computed only when its column exists.
func ExtractInsights(expl *table.Table, topN int) report.Section[report.Insights] {
	if expl.IsEmpty() {
		return report.Skipped[report.Insights](MsgInsightsSkipped)
	}
	if topN <= 0 {
		topN = DefaultTopN
	}

	var insights report.Insights
	if expl.HasColumn(report.ColumnReasons) {
		insights.TopThreats = TopValues(expl.Column(report.ColumnReasons), topN)
	}
	if expl.HasColumn(report.ColumnHost) {
		insights.TopSources = TopValues(expl.Column(report.ColumnHost), topN)
	}
	if expl.HasColumn(report.ColumnTimestamp) {
		insights.PeakWindow = PeakHour(expl.Column(report.ColumnTimestamp))
	}
	return report.Ready(insights)
}

// TopValues returns up to n distinct non-blank values by descending count.
// Equal counts keep first-seen order. The result is never nil.
func TopValues(values []string, n int) []string {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > n {
		order = order[:n]
	}
	return order
}

// PeakHour buckets parseable timestamps into hours and returns the start of
// the busiest hour; ties go to the earliest hour. Nil when nothing parses.
func PeakHour(values []string) *time.Time {
	type bucket struct {
		start time.Time
		count int
	}
	buckets := make(map[int64]*bucket)

	for _, raw := range values {
		t, ok := ParseTimestamp(raw)
		if !ok {
			continue
		}
		start := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
		key := start.Unix()
		if b, exists := buckets[key]; exists {
			b.count++
			continue
		}
		buckets[key] = &bucket{start: start, count: 1}
	}

	var peak *bucket
	for _, b := range buckets {
		if peak == nil || b.count > peak.count || (b.count == peak.count && b.start.Before(peak.start)) {
			peak = b
		}
	}
	if peak == nil {
		return nil
	}
	return &peak.start
}

// ParseTimestamp tries the known layouts and unix seconds
func ParseTimestamp(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range timestampFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	if unixVal, err := strconv.ParseInt(s, 10, 64); err == nil {
		if unixVal > 0 && unixVal < 4102444800 {
			return time.Unix(unixVal, 0).UTC(), true
		}
	}

	return time.Time{}, false
}

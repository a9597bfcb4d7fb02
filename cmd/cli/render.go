package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"msmeinsights/domain/report"
)

var noticeTags = map[report.NoticeLevel]string{
	report.NoticeError:   "ERROR",
	report.NoticeWarning: "WARNING",
	report.NoticeInfo:    "INFO",
	report.NoticeSuccess: "OK",
}

// renderText prints the report for a terminal. Sections follow page order.
func renderText(w io.Writer, rep *report.Report) error {
	b := bufio.NewWriter(w)

	fmt.Fprintln(b, report.Title)
	fmt.Fprintln(b, report.Caption)
	fmt.Fprintln(b)
	for _, n := range rep.Notices {
		fmt.Fprintf(b, "[%s] %s\n", noticeTags[n.Level], n.Message)
	}
	if rep.Fatal() {
		return b.Flush()
	}

	if t := rep.Traffic.Data; t != nil {
		fmt.Fprintln(b)
		fmt.Fprintf(b, "Total Requests:      %s\n", humanize.Comma(int64(t.Total)))
		fmt.Fprintf(b, "Detected Anomalies:  %s\n", humanize.Comma(int64(t.Anomalies)))
		fmt.Fprintf(b, "Anomaly Rate:        %.2f%%\n", t.Rate)
	}

	textHeading(b, "Model Accuracy & Regression Plot")
	if a := rep.Accuracy.Data; a != nil {
		fmt.Fprintf(b, "Model Accuracy: %.2f%%\n", a.Accuracy)
		fmt.Fprintf(b, "Trend: predicted = %.4f + %.4f * true_label\n", a.Trend.Intercept, a.Trend.Slope)
		fmt.Fprintln(b, "Confusion Matrix (rows actual, columns predicted):")
		fmt.Fprintf(b, "  %-8s %8s %8s\n", "", report.ConfusionLabels[0], report.ConfusionLabels[1])
		for i, label := range report.ConfusionLabels {
			fmt.Fprintf(b, "  %-8s %8d %8d\n", label, a.Confusion.Counts[i][0], a.Confusion.Counts[i][1])
		}
	} else {
		fmt.Fprintf(b, "[WARNING] %s\n", rep.Accuracy.Reason)
	}

	textHeading(b, "Key Insights (From Explained Anomalies)")
	if ins := rep.Insights.Data; ins != nil {
		for _, bullet := range ins.Bullets() {
			fmt.Fprintf(b, "* %s: %s\n", bullet.Label, bullet.Value)
		}
	} else {
		fmt.Fprintf(b, "[INFO] %s\n", rep.Insights.Reason)
	}

	textHeading(b, "Recommended Actions")
	fmt.Fprint(b, strings.ReplaceAll(rep.RecommendedActions, "**", ""))

	textHeading(b, "Sample Alerts (Top 5)")
	if alerts := rep.Alerts.Data; alerts != nil {
		for _, a := range *alerts {
			fmt.Fprintf(b, "! %s\n", a.Headline)
			fmt.Fprintf(b, "  Reason: %s\n", a.Reason)
			fmt.Fprintf(b, "  Impact: %s\n", a.Impact)
			fmt.Fprintf(b, "  Suggested Action: %s\n", a.SuggestedAction)
			fmt.Fprintf(b, "  Method: %s | URL: %s | User-Agent: %s\n", a.Method, a.URL, a.UserAgent)
		}
	} else {
		fmt.Fprintf(b, "[OK] %s\n", rep.Alerts.Reason)
	}

	return b.Flush()
}

func textHeading(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n%s\n", title, strings.Repeat("-", len(title)))
}

// renderMarkdown prints the report as a markdown document
func renderMarkdown(w io.Writer, rep *report.Report) error {
	b := bufio.NewWriter(w)

	fmt.Fprintf(b, "# %s\n\n_%s_\n\n", report.Title, report.Caption)
	for _, n := range rep.Notices {
		fmt.Fprintf(b, "> **%s:** %s\n\n", noticeTags[n.Level], n.Message)
	}
	if rep.Fatal() {
		return b.Flush()
	}

	if t := rep.Traffic.Data; t != nil {
		fmt.Fprintln(b, "| Total Requests | Detected Anomalies | Anomaly Rate |")
		fmt.Fprintln(b, "|---:|---:|---:|")
		fmt.Fprintf(b, "| %s | %s | %.2f%% |\n\n", humanize.Comma(int64(t.Total)), humanize.Comma(int64(t.Anomalies)), t.Rate)
	}

	fmt.Fprint(b, "## Model Accuracy & Regression Plot\n\n")
	if a := rep.Accuracy.Data; a != nil {
		fmt.Fprintf(b, "**Model Accuracy:** %.2f%%\n\n", a.Accuracy)
		fmt.Fprintf(b, "| | Pred %s | Pred %s |\n|---|---:|---:|\n", report.ConfusionLabels[0], report.ConfusionLabels[1])
		for i, label := range report.ConfusionLabels {
			fmt.Fprintf(b, "| Actual %s | %d | %d |\n", label, a.Confusion.Counts[i][0], a.Confusion.Counts[i][1])
		}
		fmt.Fprintln(b)
	} else {
		fmt.Fprintf(b, "> %s\n\n", rep.Accuracy.Reason)
	}

	fmt.Fprint(b, "## Key Insights (From Explained Anomalies)\n\n")
	if ins := rep.Insights.Data; ins != nil {
		for _, bullet := range ins.Bullets() {
			fmt.Fprintf(b, "- %s: **%s**\n", bullet.Label, bullet.Value)
		}
		fmt.Fprintln(b)
	} else {
		fmt.Fprintf(b, "> %s\n\n", rep.Insights.Reason)
	}

	fmt.Fprintf(b, "## Recommended Actions\n\n%s\n", rep.RecommendedActions)

	fmt.Fprint(b, "## Sample Alerts (Top 5)\n\n")
	if alerts := rep.Alerts.Data; alerts != nil {
		for _, a := range *alerts {
			fmt.Fprintf(b, "### %s\n\n", a.Headline)
			fmt.Fprintf(b, "**Reason:** %s  \n**Impact:** %s  \n**Suggested Action:** %s\n\n", a.Reason, a.Impact, a.SuggestedAction)
			fmt.Fprintf(b, "_Method: %s | URL: %s | User-Agent: %s_\n\n", a.Method, a.URL, a.UserAgent)
		}
	} else {
		fmt.Fprintf(b, "> %s\n", rep.Alerts.Reason)
	}

	return b.Flush()
}

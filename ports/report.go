package ports

import (
	"context"

	"msmeinsights/domain/report"
)

// ReportBuilderPort runs one render pass over the given input paths
type ReportBuilderPort interface {
	Build(ctx context.Context, src report.Sources) *report.Report
}

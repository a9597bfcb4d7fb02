package analysis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"msmeinsights/domain/report"
	"msmeinsights/domain/table"
	"msmeinsights/internal/config"
	"msmeinsights/internal/metrics"
	"msmeinsights/ports"
)

// Builder runs one render pass: load, validate, summarize, analyze, extract
// insights, render alerts.
type Builder struct {
	tables   ports.TableReaderPort
	cfg      config.ReportConfig
	accuracy *AccuracyAnalyzer
	logger   *zap.Logger
	now      func() time.Time
}

// NewBuilder creates a report builder over the given table reader
func NewBuilder(tables ports.TableReaderPort, cfg config.ReportConfig, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{
		tables:   tables,
		cfg:      cfg,
		accuracy: NewAccuracyAnalyzer(cfg.ScatterSampleSize),
		logger:   logger,
		now:      time.Now,
	}
}

// Build produces a report for the three sources. It never returns an error;
// a missing full traffic table yields a report whose Status is fatal.
func (b *Builder) Build(ctx context.Context, src report.Sources) *report.Report {
	full := b.tables.Load(ctx, src.Full)
	expl := b.tables.Load(ctx, src.Explanation)
	pred := b.tables.Load(ctx, src.Prediction)
	return b.assemble(src, full, expl, pred)
}

func (b *Builder) assemble(src report.Sources, full, expl, pred *table.Table) *report.Report {
	rep := &report.Report{
		ID:          uuid.New().String(),
		GeneratedAt: b.now(),
		Sources:     src,
	}

	v := Validate(full, expl, pred)
	rep.Notices = append(rep.Notices, v.Notices...)

	if !v.Functional {
		rep.Status = report.StatusFatal
		rep.Traffic = report.Fatal[report.TrafficSummary](MsgFullMissing)
		rep.Accuracy = report.Fatal[report.Accuracy](MsgFullMissing)
		rep.Insights = report.Fatal[report.Insights](MsgFullMissing)
		rep.Alerts = report.Fatal[[]report.Alert](MsgFullMissing)
		metrics.ReportsTotal.WithLabelValues(string(report.StatusFatal)).Inc()
		b.logger.Error("full traffic dataset unavailable", zap.String("report_id", rep.ID), zap.String("path", src.Full))
		return rep
	}

	traffic := Summarize(full, expl)
	if traffic.Normals < 0 {
		b.logger.Warn("anomaly count exceeds total requests",
			zap.Int("total", traffic.Total),
			zap.Int("anomalies", traffic.Anomalies),
			zap.String("source", string(traffic.Source)),
		)
	}
	rep.Traffic = report.Ready(traffic)

	rep.Accuracy = b.accuracy.Analyze(pred)

	rep.Insights = ExtractInsights(expl, b.cfg.TopN)
	rep.Alerts = RenderAlerts(expl, b.cfg.AlertLimit)
	rep.RecommendedActions = report.RecommendedActions
	rep.Status = report.StatusReady

	metrics.ReportsTotal.WithLabelValues(string(report.StatusReady)).Inc()
	b.logger.Debug("report built",
		zap.String("report_id", rep.ID),
		zap.Int("total", traffic.Total),
		zap.Int("anomalies", traffic.Anomalies),
		zap.String("accuracy", string(rep.Accuracy.Status)),
		zap.String("insights", string(rep.Insights.Status)),
		zap.String("alerts", string(rep.Alerts.Status)),
	)
	return rep
}

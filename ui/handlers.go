package ui

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"msmeinsights/adapters/charts"
	"msmeinsights/domain/report"
	"msmeinsights/internal/errors"
)

const svgContentType = "image/svg+xml"

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// sources resolves the three input paths. The full, expl and pred query
// parameters override the configured defaults but must name files in the
// data directory.
func (s *Server) sources(c *gin.Context) (report.Sources, error) {
	src := report.Sources{
		Full:        s.cfg.Data.FullCSV,
		Explanation: s.cfg.Data.ExplCSV,
		Prediction:  s.cfg.Data.PredCSV,
	}
	overrides := []struct {
		param string
		dst   *string
	}{
		{"full", &src.Full},
		{"expl", &src.Explanation},
		{"pred", &src.Prediction},
	}
	for _, o := range overrides {
		v := strings.TrimSpace(c.Query(o.param))
		if v == "" {
			continue
		}
		resolved, err := s.cfg.Data.ResolveOverride(v)
		if err != nil {
			return src, err
		}
		*o.dst = resolved
	}
	return src, nil
}

// build runs a render pass for the request. On a rejected override it has
// already answered with 400 and returns nil.
func (s *Server) build(c *gin.Context) *report.Report {
	src, err := s.sources(c)
	if err != nil {
		s.logger.Warn("rejected input override", zap.String("query", c.Request.URL.RawQuery), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
			"code":  errors.GetCode(err),
		})
		return nil
	}
	return s.builder.Build(c.Request.Context(), src)
}

func statusFor(rep *report.Report) int {
	if rep.Fatal() {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}

// handleIndex serves the HTML report
func (s *Server) handleIndex(c *gin.Context) {
	rep := s.build(c)
	if rep == nil {
		return
	}
	view := newPageView(rep, sourceOverrides(c.Request.URL.Query()))
	s.renderTemplate(c, statusFor(rep), "report.html", view)
}

// handleReport serves the report as JSON
func (s *Server) handleReport(c *gin.Context) {
	rep := s.build(c)
	if rep == nil {
		return
	}
	if err := rep.Err(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":  err.Error(),
			"code":   errors.GetCode(err),
			"report": rep,
		})
		return
	}
	c.JSON(http.StatusOK, rep)
}

// handleTrafficChart renders the normal-vs-anomalous pie
func (s *Server) handleTrafficChart(c *gin.Context) {
	rep := s.build(c)
	if rep == nil {
		return
	}
	if !rep.Traffic.IsReady() {
		c.String(http.StatusServiceUnavailable, rep.Traffic.Reason)
		return
	}

	var buf bytes.Buffer
	if err := charts.TrafficPie(&buf, *rep.Traffic.Data, charts.DefaultSize); err != nil {
		s.chartError(c, "traffic", err)
		return
	}
	c.Data(http.StatusOK, svgContentType, buf.Bytes())
}

// handleAccuracyChart renders the label scatter with its trend line
func (s *Server) handleAccuracyChart(c *gin.Context) {
	rep := s.build(c)
	if rep == nil {
		return
	}
	switch {
	case rep.Fatal():
		c.String(http.StatusServiceUnavailable, rep.Accuracy.Reason)
		return
	case !rep.Accuracy.IsReady():
		c.String(http.StatusNotFound, rep.Accuracy.Reason)
		return
	}

	var buf bytes.Buffer
	if err := charts.AccuracyScatter(&buf, *rep.Accuracy.Data, charts.DefaultSize); err != nil {
		s.chartError(c, "accuracy", err)
		return
	}
	c.Data(http.StatusOK, svgContentType, buf.Bytes())
}

func (s *Server) chartError(c *gin.Context, chart string, err error) {
	s.logger.Error("chart rendering failed", zap.String("chart", chart), zap.Error(err))
	_ = c.Error(err)
	c.String(http.StatusInternalServerError, "chart rendering failed")
}

// handleExport streams the report as an xlsx workbook
func (s *Server) handleExport(c *gin.Context) {
	rep := s.build(c)
	if rep == nil {
		return
	}
	if err := rep.Err(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error(), "code": errors.GetCode(err)})
		return
	}

	var buf bytes.Buffer
	if err := s.exporter.Write(&buf, rep); err != nil {
		s.logger.Error("workbook export failed", zap.String("report_id", rep.ID), zap.Error(err))
		appErr := errors.InternalError("workbook export failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": appErr.Error(), "code": appErr.Code})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="msme_insights.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// handleReload drops cached tables. With a path parameter only that table is
// dropped. Form posts from the page are redirected back to it.
func (s *Server) handleReload(c *gin.Context) {
	path := strings.TrimSpace(c.Query("path"))
	if path == "" {
		path = strings.TrimSpace(c.PostForm("path"))
	}

	if path != "" {
		s.tables.Reload(path)
	} else {
		s.tables.ReloadAll()
	}
	s.logger.Info("table cache invalidated", zap.String("path", path))

	if c.PostForm("redirect") != "" {
		target := "/"
		if encoded := sourceOverrides(c.Request.PostForm).Encode(); encoded != "" {
			target += "?" + encoded
		}
		c.Redirect(http.StatusSeeOther, target)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reloaded", "path": path})
}

// handleHealth reports liveness
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

package ui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFiles embed.FS

// parseTemplates loads the embedded page templates with the view helpers
func parseTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"comma": func(n int) string { return humanize.Comma(int64(n)) },
		"pct":   func(v float64) string { return fmt.Sprintf("%.2f%%", v) },
		"markdown": func(md string) template.HTML {
			return template.HTML(markdown.ToHTML([]byte(md), nil, nil))
		},
	}
	return template.New("").Funcs(funcMap).ParseFS(templateFiles, "templates/*.html")
}

// renderTemplate executes a template into a buffer before writing the response
func (s *Server) renderTemplate(c *gin.Context, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("template rendering failed", zap.String("template", name), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Template rendering failed"})
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if _, err := buf.WriteTo(c.Writer); err != nil {
		s.logger.Warn("failed to write template response", zap.Error(err))
	}
}

// Package samplegen writes deterministic synthetic inputs for the dashboard:
// a labelled traffic log, explanations for its attack rows and model
// predictions over the same rows.
package samplegen

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"msmeinsights/internal/errors"
)

// Dataset is one generated table, already formatted as strings
type Dataset struct {
	Headers []string
	Rows    [][]string
}

// Bundle holds the three generated tables
type Bundle struct {
	Full         *Dataset
	Explanations *Dataset
	Predictions  *Dataset
}

type Config struct {
	Rows       int
	Seed       int64
	StartTime  time.Time
	AttackRate float64

	// MissRate is the fraction of rows whose predicted label is flipped
	MissRate float64
}

func DefaultConfig() Config {
	return Config{
		Rows:       1000,
		Seed:       42,
		StartTime:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		AttackRate: 0.3,
		MissRate:   0.08,
	}
}

type attackKind struct {
	summary string
	reason  string
	impact  string
	action  string
	path    string
}

var attackKinds = []attackKind{
	{"SQL injection attempt", "SQL keywords in query string", "Customer records could be read or altered", "Enable WAF SQL rules and parameterize queries", "/tienda1/publico/anadir.jsp?id=2%27%20OR%20%271%27%3D%271"},
	{"Path traversal probe", "Dot-dot segments in path", "Server files could be disclosed", "Normalize paths and block traversal patterns", "/tienda1/../../etc/passwd"},
	{"Cross-site scripting", "Script tag in parameter", "Visitors' sessions could be hijacked", "Encode output and set a content security policy", "/tienda1/publico/buscar.jsp?q=%3Cscript%3Ealert(1)%3C/script%3E"},
	{"Legacy endpoint access", "Request to unmaintained CGI path", "Old code paths may be exploitable", "Remove or restrict /cgi-bin endpoints", "/cgi-bin/admin.cgi"},
	{"Unusual HTTP method", "Method outside GET, POST, HEAD", "Unexpected server behaviour", "Restrict allowed HTTP methods", "/tienda1/index.jsp"},
}

var normalPaths = []string{
	"/tienda1/index.jsp",
	"/tienda1/publico/productos.jsp",
	"/tienda1/publico/caracteristicas.jsp",
	"/tienda1/publico/entrar.jsp",
	"/tienda1/imagenes/logo.gif",
}

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64)",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 13_4)",
	"curl/8.4.0",
	"sqlmap/1.7.2",
	"python-requests/2.31",
}

// Generate builds the three tables from one seeded random stream
func Generate(cfg Config) (*Bundle, error) {
	if cfg.Rows <= 0 {
		return nil, errors.InvalidInput("rows must be > 0")
	}
	if cfg.AttackRate < 0 || cfg.AttackRate > 1 {
		return nil, errors.InvalidInput("attack rate must be within [0, 1]")
	}
	if cfg.MissRate < 0 || cfg.MissRate > 1 {
		return nil, errors.InvalidInput("miss rate must be within [0, 1]")
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	full := &Dataset{Headers: []string{"timestamp", "host", "Method", "URL", "User-Agent", "classification"}}
	expl := &Dataset{Headers: []string{"timestamp", "host", "Method", "URL", "User-Agent", "summary", "reasons", "impact", "suggested_action"}}
	pred := &Dataset{Headers: []string{"true_label", "predicted"}}

	// A handful of noisy sources produce most of the attacks
	attackers := make([]string, 4)
	for i := range attackers {
		attackers[i] = fmt.Sprintf("203.0.113.%d", 10+rng.Intn(200))
	}

	ts := cfg.StartTime
	for i := 0; i < cfg.Rows; i++ {
		ts = ts.Add(time.Duration(5+rng.Intn(55)) * time.Second)
		stamp := ts.Format("2006-01-02 15:04:05")
		agent := userAgents[rng.Intn(2)]
		host := fmt.Sprintf("192.168.%d.%d", rng.Intn(4), 2+rng.Intn(250))

		label := 0
		if rng.Float64() < cfg.AttackRate {
			label = 1
		}

		method, url := "GET", normalPaths[rng.Intn(len(normalPaths))]
		if label == 1 {
			kind := attackKinds[rng.Intn(len(attackKinds))]
			url = kind.path
			if kind.summary == "Unusual HTTP method" {
				method = []string{"PUT", "DELETE", "TRACE"}[rng.Intn(3)]
			}
			if rng.Float64() < 0.7 {
				host = attackers[rng.Intn(len(attackers))]
			}
			agent = userAgents[2+rng.Intn(len(userAgents)-2)]
			expl.Rows = append(expl.Rows, []string{stamp, host, method, url, agent, kind.summary, kind.reason, kind.impact, kind.action})
		} else if rng.Float64() < 0.2 {
			method = "POST"
		}

		full.Rows = append(full.Rows, []string{stamp, host, method, url, agent, strconv.Itoa(label)})

		predicted := label
		if rng.Float64() < cfg.MissRate {
			predicted = 1 - label
		}
		pred.Rows = append(pred.Rows, []string{strconv.Itoa(label), strconv.Itoa(predicted)})
	}

	return &Bundle{Full: full, Explanations: expl, Predictions: pred}, nil
}

// Default file names, matching the dashboard defaults
const (
	FullName         = "csic_database"
	ExplanationsName = "csic2010_with_explanations"
	PredictionsName  = "csis2010_predictions"
)

// WriteBundle writes the three tables into dir using the given format (csv or xlsx)
func WriteBundle(dir, format string, b *Bundle) ([]string, error) {
	write := WriteCSV
	ext := ".csv"
	switch strings.ToLower(format) {
	case "", "csv":
	case "xlsx":
		write, ext = WriteXLSX, ".xlsx"
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("unsupported format %q", format))
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create %s", dir)
	}

	var paths []string
	for _, item := range []struct {
		name string
		ds   *Dataset
	}{
		{FullName, b.Full},
		{ExplanationsName, b.Explanations},
		{PredictionsName, b.Predictions},
	} {
		path := filepath.Join(dir, item.name+ext)
		if err := write(path, item.ds); err != nil {
			return nil, errors.Wrapf(err, "failed to write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func WriteCSV(path string, ds *Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(ds.Headers); err != nil {
		return err
	}
	if err := w.WriteAll(ds.Rows); err != nil {
		return err
	}
	return w.Error()
}

func WriteXLSX(path string, ds *Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for r, row := range append([][]string{ds.Headers}, ds.Rows...) {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for i, v := range row {
			values[i] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}

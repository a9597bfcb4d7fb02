package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"msmeinsights/internal/samplegen"
)

func main() {
	out := flag.String("out", ".", "output directory")
	rows := flag.Int("rows", 1000, "number of traffic rows")
	format := flag.String("format", "csv", "output format: csv or xlsx")
	seed := flag.Int64("seed", 42, "RNG seed (deterministic)")
	start := flag.String("start", "2025-01-01", "start date (YYYY-MM-DD)")
	attackRate := flag.Float64("attack-rate", 0.3, "fraction of attack rows")
	missRate := flag.Float64("miss-rate", 0.08, "fraction of mislabelled predictions")
	flag.Parse()

	startTime, err := time.ParseInLocation("2006-01-02", *start, time.UTC)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid -start (expected YYYY-MM-DD):", err)
		os.Exit(2)
	}

	cfg := samplegen.DefaultConfig()
	cfg.Rows = *rows
	cfg.Seed = *seed
	cfg.StartTime = startTime
	cfg.AttackRate = *attackRate
	cfg.MissRate = *missRate

	bundle, err := samplegen.Generate(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error generating dataset:", err)
		os.Exit(2)
	}

	paths, err := samplegen.WriteBundle(*out, *format, bundle)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error writing dataset:", err)
		os.Exit(1)
	}

	for _, p := range paths {
		fmt.Println("wrote", p)
	}
	fmt.Printf("Rows: %d | Explained anomalies: %d\n", len(bundle.Full.Rows), len(bundle.Explanations.Rows))
}

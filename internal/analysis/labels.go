package analysis

import (
	"math"
	"strconv"
	"strings"
)

// parseLabel reads a 0/1 style label cell. Numeric text ("1", "1.0", " 0 ")
// and boolean text ("true", "False") are accepted; blanks and NaN are not.
func parseLabel(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	switch strings.ToLower(s) {
	case "true":
		return 1, true
	case "false":
		return 0, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// isAttack reports whether the cell holds the label 1
func isAttack(raw string) bool {
	v, ok := parseLabel(raw)
	return ok && v == 1
}

// binaryLabel maps a cell to a confusion-matrix index, or -1 when the value is
// neither 0 nor 1
func binaryLabel(raw string) int {
	v, ok := parseLabel(raw)
	switch {
	case !ok:
		return -1
	case v == 0:
		return 0
	case v == 1:
		return 1
	default:
		return -1
	}
}

// labelsMatch compares two label cells numerically when both parse, and as
// trimmed text otherwise. Blank cells never match.
func labelsMatch(a, b string) bool {
	av, aok := parseLabel(a)
	bv, bok := parseLabel(b)
	if aok && bok {
		return av == bv
	}
	if aok != bok {
		return false
	}
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	return a != "" && a == b
}

package report

import "strings"

// Bullet is one line of the key-insights list
type Bullet struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Bullet labels, in display order
const (
	BulletThreats = "Most common threats detected"
	BulletSources = "Top suspicious sources"
	BulletPeak    = "Peak suspicious activity at"
)

// Bullets renders the computed insights in fixed order: threats, sources,
// peak window. Absent or empty insights produce no bullet.
func (i Insights) Bullets() []Bullet {
	var out []Bullet
	if len(i.TopThreats) > 0 {
		out = append(out, Bullet{Label: BulletThreats, Value: strings.Join(i.TopThreats, ", ")})
	}
	if len(i.TopSources) > 0 {
		out = append(out, Bullet{Label: BulletSources, Value: strings.Join(i.TopSources, ", ")})
	}
	if i.PeakWindow != nil {
		out = append(out, Bullet{Label: BulletPeak, Value: i.PeakWindow.Format(PeakLayout)})
	}
	return out
}

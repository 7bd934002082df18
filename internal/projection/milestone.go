package projection

import (
	"math"
	"sort"

	"github.com/spigell/comp-forecast/internal/numeric"
	"github.com/spigell/comp-forecast/internal/records"
)

// Milestone bounds.
const (
	MinMilestoneYear = 1
	MaxMilestoneYear = 10
	MaxMilestones    = 20
)

// Milestone is a one-time change applied after the annual growth of its year.
// Nil bumps mean "no bump", which differs from an explicit 0%.
type Milestone struct {
	Year            int      `json:"year"`
	Title           *string  `json:"title,omitempty"`
	SalaryBumpPct   *float64 `json:"salaryBumpPct,omitempty"`
	BonusBumpPct    *float64 `json:"bonusBumpPct,omitempty"`
	EquityBumpPct   *float64 `json:"equityBumpPct,omitempty"`
	BenefitsBumpPct *float64 `json:"benefitsBumpPct,omitempty"`
	Note            *string  `json:"note,omitempty"`
}

// NormalizeMilestones converts an arbitrary list into milestones sorted by year.
// Items without a finite year are dropped; anything that is not a list yields an empty result.
func NormalizeMilestones(raw any) []Milestone {
	var out []Milestone

	switch typed := raw.(type) {
	case []Milestone:
		out = append(out, typed...)
	default:
		for _, item := range records.Objects(raw) {
			year, ok := numeric.Float(item["year"])
			if !ok {
				continue
			}
			out = append(out, Milestone{
				Year:            int(math.Round(numeric.Clamp(year, MinMilestoneYear, MaxMilestoneYear))),
				Title:           optionalString(item, "title"),
				SalaryBumpPct:   numeric.Ptr(item["salaryBumpPct"]),
				BonusBumpPct:    numeric.Ptr(item["bonusBumpPct"]),
				EquityBumpPct:   numeric.Ptr(item["equityBumpPct"]),
				BenefitsBumpPct: numeric.Ptr(item["benefitsBumpPct"]),
				Note:            optionalString(item, "note"),
			})
		}
	}

	return normalizeList(out)
}

func normalizeList(ms []Milestone) []Milestone {
	out := make([]Milestone, 0, len(ms))
	for _, m := range ms {
		m.Year = int(numeric.Clamp(float64(m.Year), MinMilestoneYear, MaxMilestoneYear))
		m.SalaryBumpPct = clampBump(m.SalaryBumpPct)
		m.BonusBumpPct = clampBump(m.BonusBumpPct)
		m.EquityBumpPct = clampBump(m.EquityBumpPct)
		m.BenefitsBumpPct = clampBump(m.BenefitsBumpPct)
		out = append(out, m)
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Year < out[b].Year
	})

	return out
}

// MergeMilestones appends extra after base, normalizes the result and keeps at most MaxMilestones.
func MergeMilestones(base, extra []Milestone) []Milestone {
	combined := make([]Milestone, 0, len(base)+len(extra))
	combined = append(combined, base...)
	combined = append(combined, extra...)
	if len(combined) > MaxMilestones {
		combined = combined[:MaxMilestones]
	}
	return normalizeList(combined)
}

func clampBump(v *float64) *float64 {
	if v == nil {
		return nil
	}
	clamped := numeric.Clamp(*v, MinPct, MaxBumpPct)
	return &clamped
}

func optionalString(item map[string]any, key string) *string {
	v, ok := item[key]
	if !ok || v == nil {
		return nil
	}
	s := records.String(v)
	if s == "" {
		return nil
	}
	return &s
}

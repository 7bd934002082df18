package projection

import (
	"math"

	"github.com/spigell/comp-forecast/internal/numeric"
)

// DefaultBenefitsValue replaces a missing or non-positive benefits figure.
const DefaultBenefitsValue = 5000.0

// Horizons simulated for every scenario.
const (
	FiveYears = 5
	TenYears  = 10
)

// Components is one compensation breakdown.
type Components struct {
	Salary   float64 `json:"salary"`
	Bonus    float64 `json:"bonus"`
	Equity   float64 `json:"equity"`
	Benefits float64 `json:"benefits"`
}

// ComponentsFrom coerces loose values into components. Unusable or negative values become 0,
// benefits fall back to DefaultBenefitsValue.
func ComponentsFrom(salary, bonus, equity, benefits any) Components {
	return Components{
		Salary:   math.Max(numeric.FloatOr(salary, 0), 0),
		Bonus:    math.Max(numeric.FloatOr(bonus, 0), 0),
		Equity:   math.Max(numeric.FloatOr(equity, 0), 0),
		Benefits: numeric.FloatOr(benefits, 0),
	}.withDefaults()
}

func (c Components) withDefaults() Components {
	if c.Benefits <= 0 || math.IsNaN(c.Benefits) {
		c.Benefits = DefaultBenefitsValue
	}
	return c
}

func (c Components) total() float64 {
	return c.Salary + c.Bonus + c.Equity + c.Benefits
}

// Growth is the annual growth, in percent, of each component.
type Growth struct {
	SalaryPct   float64
	BonusPct    float64
	EquityPct   float64
	BenefitsPct float64
}

// YearSnapshot is the rounded state at the end of a simulated year.
type YearSnapshot struct {
	Year      int    `json:"year"`
	Salary    int64  `json:"salary"`
	Bonus     int64  `json:"bonus"`
	Equity    int64  `json:"equity"`
	Benefits  int64  `json:"benefits"`
	TotalComp int64  `json:"totalComp"`
	Title     string `json:"title"`
}

// Timeline holds horizon+1 snapshots, year 0 being the starting point.
type Timeline []YearSnapshot

// Last returns the final snapshot.
func (t Timeline) Last() YearSnapshot {
	if len(t) == 0 {
		return YearSnapshot{}
	}
	return t[len(t)-1]
}

// Simulate evolves start for horizon years. Each year applies growth first and then the milestones
// scheduled for that year in list order. Values are carried at full precision and rounded only
// when recorded.
func Simulate(start Components, growth Growth, milestones []Milestone, horizon int, title string) Timeline {
	if horizon < 0 {
		horizon = 0
	}

	current := start.withDefaults()
	timeline := make(Timeline, 0, horizon+1)
	timeline = append(timeline, snapshot(0, current, title))

	for year := 1; year <= horizon; year++ {
		current.Salary = grow(current.Salary, growth.SalaryPct)
		current.Bonus = grow(current.Bonus, growth.BonusPct)
		current.Equity = grow(current.Equity, growth.EquityPct)
		current.Benefits = grow(current.Benefits, growth.BenefitsPct)

		for _, m := range milestones {
			if m.Year != year {
				continue
			}
			current.Salary = bump(current.Salary, m.SalaryBumpPct)
			current.Bonus = bump(current.Bonus, m.BonusBumpPct)
			current.Equity = bump(current.Equity, m.EquityBumpPct)
			current.Benefits = bump(current.Benefits, m.BenefitsBumpPct)
			if m.Title != nil {
				title = *m.Title
			}
		}

		timeline = append(timeline, snapshot(year, current, title))
	}

	return timeline
}

func snapshot(year int, c Components, title string) YearSnapshot {
	return YearSnapshot{
		Year:      year,
		Salary:    numeric.Round(c.Salary),
		Bonus:     numeric.Round(c.Bonus),
		Equity:    numeric.Round(c.Equity),
		Benefits:  numeric.Round(c.Benefits),
		TotalComp: numeric.Round(c.total()),
		Title:     title,
	}
}

func grow(v, pct float64) float64 {
	return v * (1 + pct/100)
}

func bump(v float64, pct *float64) float64 {
	if pct == nil {
		return v
	}
	return grow(v, *pct)
}

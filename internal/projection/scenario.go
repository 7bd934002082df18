package projection

import (
	"github.com/spigell/comp-forecast/internal/numeric"
)

// Percentage bounds.
const (
	MinPct       = 0.0
	MaxRaisePct  = 20.0
	MaxGrowthPct = 25.0
	MaxBumpPct   = 30.0
)

// Scenario holds the growth rates, in percent per year, used by every timeline of a projection.
type Scenario struct {
	ConservativePct   float64
	ExpectedPct       float64
	OptimisticPct     float64
	BonusGrowthPct    float64
	EquityGrowthPct   float64
	BenefitsGrowthPct float64
}

// DefaultScenario is used for every field nobody supplied.
var DefaultScenario = Scenario{
	ConservativePct: 2,
	ExpectedPct:     3,
	OptimisticPct:   5,
}

// RawScenario carries loosely typed percentages as they arrive from a request or an AI suggestion.
// A nil field means "not supplied".
type RawScenario struct {
	ConservativePct   any
	ExpectedPct       any
	OptimisticPct     any
	BonusGrowthPct    any
	EquityGrowthPct   any
	BenefitsGrowthPct any
}

// NormalizeScenario resolves every field to clamp(value ?? fallback, lo, hi). It never fails:
// unusable values fall through to the fallback.
func NormalizeScenario(raw RawScenario, fallback Scenario) Scenario {
	return Scenario{
		ConservativePct:   ResolvePct(raw.ConservativePct, fallback.ConservativePct, MaxRaisePct),
		ExpectedPct:       ResolvePct(raw.ExpectedPct, fallback.ExpectedPct, MaxRaisePct),
		OptimisticPct:     ResolvePct(raw.OptimisticPct, fallback.OptimisticPct, MaxRaisePct),
		BonusGrowthPct:    ResolvePct(raw.BonusGrowthPct, fallback.BonusGrowthPct, MaxGrowthPct),
		EquityGrowthPct:   ResolvePct(raw.EquityGrowthPct, fallback.EquityGrowthPct, MaxGrowthPct),
		BenefitsGrowthPct: ResolvePct(raw.BenefitsGrowthPct, fallback.BenefitsGrowthPct, MaxGrowthPct),
	}
}

// ResolvePct coerces value and clamps it into [0, hi], using fallback when value is unusable.
func ResolvePct(value any, fallback, hi float64) float64 {
	if v, ok := numeric.Float(value); ok {
		return numeric.Clamp(v, MinPct, hi)
	}
	return numeric.Clamp(fallback, MinPct, hi)
}

// ScenarioFromInputs extracts the user supplied percentages from request inputs.
func ScenarioFromInputs(in Inputs) RawScenario {
	return RawScenario{
		ConservativePct:   lookup(in.RaiseScenarios, "conservative", "conservativePct"),
		ExpectedPct:       lookup(in.RaiseScenarios, "expected", "expectedPct"),
		OptimisticPct:     lookup(in.RaiseScenarios, "optimistic", "optimisticPct"),
		BonusGrowthPct:    in.BonusGrowthPct,
		EquityGrowthPct:   in.EquityGrowthPct,
		BenefitsGrowthPct: in.BenefitsGrowthPct,
	}
}

// lookup reads the first present key of an object. Anything but an object means "not supplied".
func lookup(v any, keys ...string) any {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	for _, key := range keys {
		if v, ok := m[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

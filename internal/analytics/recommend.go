package analytics

// Recommendation thresholds.
const (
	SalaryFloor           = 60000.0
	LowSuccessRate        = 30
	StrongNegotiation     = 75
	ModerateNegotiation   = 13
	ProgressionGrowthPct  = 10.0
	minProgressionEntries = 2
)

// Recommendation messages, in rule order.
const (
	RecTargetHigherPaying  = "Your average salary is below $60,000. Target higher-paying roles or expand your search to better-compensated markets."
	RecPracticeNegotiation = "Fewer than 30% of your negotiations improved the offer. Practice negotiation and prepare market data before each conversation."
	RecStrongNegotiation   = "You consistently land near the top of offered ranges. Keep using the same negotiation approach."
	RecModerateNegotiation = "Your negotiated salaries land in the middle of offered ranges. Anchor higher and back requests with benchmarks to move toward the top."
	RecEnhanceApproach     = "Your negotiated salaries land near the bottom of offered ranges. Enhance your approach by researching benchmarks and asking for the top of the range."
	RecStrongProgression   = "Your salary has grown meaningfully across your history. Keep building on that progression."
	RecDefault             = "Your compensation looks healthy. Keep tracking offers and outcomes to spot new opportunities."
)

// Recommend applies the rules in order. With at least one job it never returns an empty list.
func Recommend(summary Summary, stats NegotiationStats, progression []ProgressionEntry, jobCount int) []string {
	out := []string{}
	if jobCount == 0 {
		return out
	}

	if summary.AvgSalary > 0 && summary.AvgSalary < SalaryFloor {
		out = append(out, RecTargetHigherPaying)
	}

	if stats.Attempts > 0 && stats.SuccessRate < LowSuccessRate {
		out = append(out, RecPracticeNegotiation)
	}

	if stats.StrengthSamples > 0 {
		switch {
		case stats.NegotiationStrength >= StrongNegotiation:
			out = append(out, RecStrongNegotiation)
		case stats.NegotiationStrength >= ModerateNegotiation:
			out = append(out, RecModerateNegotiation)
		default:
			out = append(out, RecEnhanceApproach)
		}
	}

	if growth, ok := progressionGrowth(progression); ok && growth >= ProgressionGrowthPct {
		out = append(out, RecStrongProgression)
	}

	if len(out) == 0 {
		out = append(out, RecDefault)
	}
	return out
}

// progressionGrowth is the percentage change from the earliest to the latest entry.
func progressionGrowth(progression []ProgressionEntry) (float64, bool) {
	if len(progression) < minProgressionEntries {
		return 0, false
	}
	first, last := progression[0].Salary, progression[len(progression)-1].Salary
	if first <= 0 {
		return 0, false
	}
	return (last - first) / first * 100, true
}

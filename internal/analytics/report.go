package analytics

import (
	"github.com/spigell/comp-forecast/internal/records"
)

// Report is the salary analytics response.
type Report struct {
	Summary           Summary                `json:"summary"`
	Progression       []ProgressionEntry     `json:"progression"`
	NegotiationStats  NegotiationStats       `json:"negotiationStats"`
	MarketPositioning []MarketPosition       `json:"marketPositioning"`
	Recommendations   []string               `json:"recommendations"`
	CompSummary       CompSummary            `json:"compSummary"`
	CompProgression   []CompProgressionEntry `json:"compProgression"`
}

// Build computes the full report. Zero jobs produce a zero report with empty lists.
func Build(jobs []records.JobRecord, benchmarks Benchmarks) Report {
	agg := Aggregate(jobs)
	stats := AnalyzeNegotiations(jobs)

	return Report{
		Summary:           agg.Summary,
		Progression:       agg.Progression,
		NegotiationStats:  stats,
		MarketPositioning: Position(jobs, benchmarks),
		Recommendations:   Recommend(agg.Summary, stats, agg.Progression, len(jobs)),
		CompSummary:       agg.CompSummary,
		CompProgression:   agg.CompProgression,
	}
}

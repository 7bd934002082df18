package analytics

import (
	"strings"

	"github.com/spigell/comp-forecast/internal/numeric"
	"github.com/spigell/comp-forecast/internal/records"
)

// NegotiationStats summarizes how negotiations went across every salary history entry.
type NegotiationStats struct {
	Attempts            int   `json:"attempts"`
	Successes           int   `json:"successes"`
	SuccessRate         int64 `json:"successRate"`
	NegotiationStrength int64 `json:"negotiationStrength"`
	StrengthSamples     int   `json:"strengthSamples"`
}

// AnalyzeNegotiations counts attempts (anything but "Not attempted") and successes ("Improved").
// Strength is the average position of improved salaries inside their offered range, 0-100.
func AnalyzeNegotiations(jobs []records.JobRecord) NegotiationStats {
	var stats NegotiationStats
	var ratioSum float64

	for idx := range jobs {
		job := &jobs[idx]
		for _, entry := range job.SalaryHistory {
			outcome := strings.TrimSpace(entry.NegotiationOutcome)
			if outcome == records.OutcomeNotAttempted {
				continue
			}
			stats.Attempts++
			if outcome != records.OutcomeImproved {
				continue
			}
			stats.Successes++

			if ratio, ok := rangePosition(job, entry.FinalSalary); ok {
				ratioSum += ratio
				stats.StrengthSamples++
			}
		}
	}

	if stats.Attempts > 0 {
		stats.SuccessRate = numeric.Round(float64(stats.Successes) / float64(stats.Attempts) * 100)
	}
	if stats.StrengthSamples > 0 {
		stats.NegotiationStrength = numeric.Round(ratioSum / float64(stats.StrengthSamples) * 100)
	}

	return stats
}

// rangePosition places salary inside the job's offered range, clamped to [0, 1].
func rangePosition(job *records.JobRecord, salary *float64) (float64, bool) {
	if salary == nil || job.SalaryMin == nil || job.SalaryMax == nil {
		return 0, false
	}
	width := *job.SalaryMax - *job.SalaryMin
	if width <= 0 {
		return 0, false
	}
	return numeric.Clamp((*salary-*job.SalaryMin)/width, 0, 1), true
}

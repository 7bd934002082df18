// Package records models the job documents handed to the engine by the persistence layer.
package records

import (
	"sort"
	"time"
)

// Negotiation outcomes recorded on salary history entries.
const (
	OutcomeImproved     = "Improved"
	OutcomeNotAttempted = "Not attempted"
	OutcomeNoChange     = "No change"
	OutcomeWorse        = "Worse"
)

// JobRecord is a normalized job document. Optional numbers are nil when absent.
type JobRecord struct {
	ID            string        `json:"id"`
	Company       string        `json:"company"`
	Title         string        `json:"title"`
	Location      string        `json:"location"`
	WorkMode      string        `json:"workMode"`
	SalaryMin     *float64      `json:"salaryMin,omitempty"`
	SalaryMax     *float64      `json:"salaryMax,omitempty"`
	FinalSalary   *float64      `json:"finalSalary,omitempty"`
	SalaryBonus   *float64      `json:"salaryBonus,omitempty"`
	SalaryEquity  *float64      `json:"salaryEquity,omitempty"`
	BenefitsValue *float64      `json:"benefitsValue,omitempty"`
	SalaryHistory []SalaryEntry `json:"salaryHistory"`
	CompHistory   []CompEntry   `json:"compHistory"`
}

// SalaryEntry is one negotiated salary data point.
type SalaryEntry struct {
	Date               string    `json:"date"`
	At                 time.Time `json:"-"`
	FinalSalary        *float64  `json:"finalSalary,omitempty"`
	NegotiationOutcome string    `json:"negotiationOutcome"`
}

// CompEntry is one total compensation data point.
type CompEntry struct {
	Date      string    `json:"date"`
	At        time.Time `json:"-"`
	TotalComp *float64  `json:"totalComp,omitempty"`
}

// LatestFinalSalary returns the final salary of the most recent history entry.
func (j *JobRecord) LatestFinalSalary() (float64, bool) {
	if len(j.SalaryHistory) == 0 {
		return 0, false
	}
	return positive(j.SalaryHistory[len(j.SalaryHistory)-1].FinalSalary)
}

// EstimatedSalary resolves a single salary figure for the job: the latest negotiated salary first,
// then the midpoint of the offered range, then whichever bound is present.
func (j *JobRecord) EstimatedSalary() (float64, bool) {
	if v, ok := j.LatestFinalSalary(); ok {
		return v, true
	}

	lo, hasLo := positive(j.SalaryMin)
	hi, hasHi := positive(j.SalaryMax)
	switch {
	case hasLo && hasHi:
		return (lo + hi) / 2, true
	case hasLo:
		return lo, true
	case hasHi:
		return hi, true
	default:
		return 0, false
	}
}

// ReportedSalary is EstimatedSalary with the job's own final salary consulted before the offered
// range.
func (j *JobRecord) ReportedSalary() (float64, bool) {
	if v, ok := j.LatestFinalSalary(); ok {
		return v, true
	}
	if v, ok := positive(j.FinalSalary); ok {
		return v, true
	}
	return j.EstimatedSalary()
}

func positive(v *float64) (float64, bool) {
	if v == nil || *v <= 0 {
		return 0, false
	}
	return *v, true
}

// sortSalaryHistory orders entries chronologically. Undated entries keep their order and sort first.
func sortSalaryHistory(entries []SalaryEntry) {
	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].At.Before(entries[b].At)
	})
}

func sortCompHistory(entries []CompEntry) {
	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].At.Before(entries[b].At)
	})
}

// Package analytics derives salary statistics, negotiation performance, market positioning and
// recommendations from a user's job records.
package analytics

import (
	"sort"
	"time"

	"github.com/spigell/comp-forecast/internal/numeric"
	"github.com/spigell/comp-forecast/internal/records"
)

// Summary describes the salaries of the jobs that have one.
type Summary struct {
	AvgSalary    float64 `json:"avgSalary"`
	MedianSalary float64 `json:"medianSalary"`
	MinSalary    float64 `json:"minSalary"`
	MaxSalary    float64 `json:"maxSalary"`
	JobsCounted  int     `json:"jobsCounted"`
}

// ProgressionEntry is one negotiated salary placed on the user's timeline.
type ProgressionEntry struct {
	Date               string  `json:"date"`
	Salary             float64 `json:"salary"`
	Company            string  `json:"company"`
	Title              string  `json:"title"`
	NegotiationOutcome string  `json:"negotiationOutcome"`

	at time.Time
}

// CompSummary describes the latest total compensation of the jobs that report one.
type CompSummary struct {
	AvgTotalComp float64 `json:"avgTotalComp"`
	MinTotalComp float64 `json:"minTotalComp"`
	MaxTotalComp float64 `json:"maxTotalComp"`
	JobsCounted  int     `json:"jobsCounted"`
}

// CompProgressionEntry is one total compensation data point on the user's timeline.
type CompProgressionEntry struct {
	Date      string  `json:"date"`
	TotalComp float64 `json:"totalComp"`
	Company   string  `json:"company"`
	Title     string  `json:"title"`

	at time.Time
}

// Aggregation is the output of Aggregate.
type Aggregation struct {
	Summary         Summary
	Progression     []ProgressionEntry
	CompSummary     CompSummary
	CompProgression []CompProgressionEntry
}

// Aggregate computes salary statistics. Jobs without a usable salary are left out rather than
// counted as zero.
func Aggregate(jobs []records.JobRecord) Aggregation {
	var salaries, totals []float64
	progression := []ProgressionEntry{}
	compProgression := []CompProgressionEntry{}

	for idx := range jobs {
		job := &jobs[idx]

		if salary, ok := job.ReportedSalary(); ok {
			salaries = append(salaries, salary)
		}

		for _, entry := range job.SalaryHistory {
			if entry.FinalSalary == nil {
				continue
			}
			progression = append(progression, ProgressionEntry{
				Date:               entry.Date,
				Salary:             *entry.FinalSalary,
				Company:            job.Company,
				Title:              job.Title,
				NegotiationOutcome: entry.NegotiationOutcome,
				at:                 entry.At,
			})
		}

		var latest *float64
		for _, entry := range job.CompHistory {
			if entry.TotalComp == nil {
				continue
			}
			latest = entry.TotalComp
			compProgression = append(compProgression, CompProgressionEntry{
				Date:      entry.Date,
				TotalComp: *entry.TotalComp,
				Company:   job.Company,
				Title:     job.Title,
				at:        entry.At,
			})
		}
		if latest != nil {
			totals = append(totals, *latest)
		}
	}

	sort.SliceStable(progression, func(a, b int) bool {
		return progression[a].at.Before(progression[b].at)
	})
	sort.SliceStable(compProgression, func(a, b int) bool {
		return compProgression[a].at.Before(compProgression[b].at)
	})

	return Aggregation{
		Summary:         summarize(salaries),
		Progression:     progression,
		CompSummary:     summarizeComp(totals),
		CompProgression: compProgression,
	}
}

func summarize(salaries []float64) Summary {
	if len(salaries) == 0 {
		return Summary{}
	}

	sorted := append([]float64(nil), salaries...)
	sort.Float64s(sorted)

	return Summary{
		AvgSalary:    mean(sorted),
		MedianSalary: Median(sorted),
		MinSalary:    sorted[0],
		MaxSalary:    sorted[len(sorted)-1],
		JobsCounted:  len(sorted),
	}
}

func summarizeComp(totals []float64) CompSummary {
	if len(totals) == 0 {
		return CompSummary{}
	}

	sorted := append([]float64(nil), totals...)
	sort.Float64s(sorted)

	return CompSummary{
		AvgTotalComp: float64(numeric.Round(mean(sorted))),
		MinTotalComp: sorted[0],
		MaxTotalComp: sorted[len(sorted)-1],
		JobsCounted:  len(sorted),
	}
}

// Median returns the middle element of an ascending slice. For an even count it returns the
// element at index n/2, not the mean of the two middle values.
func Median(sorted []float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[len(sorted)/2]
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

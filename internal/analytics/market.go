package analytics

import (
	"strings"

	"github.com/spigell/comp-forecast/internal/records"
)

// AnyKey is the catch-all benchmark key.
const AnyKey = "Any|Any"

// nearTopShare is the share of the benchmark top from which a salary counts as near the top.
const nearTopShare = 0.9

// Benchmark is a reference median and top salary for a title and location.
type Benchmark struct {
	Median float64 `json:"median" yaml:"median" mapstructure:"median"`
	Top    float64 `json:"top" yaml:"top" mapstructure:"top"`
}

// Benchmarks are keyed by "{title}|{location}".
type Benchmarks map[string]Benchmark

// DefaultBenchmarks is used when no benchmark table is configured.
var DefaultBenchmarks = Benchmarks{
	"Software Engineer|Remote":        {Median: 120000, Top: 170000},
	"Software Engineer|New York":      {Median: 140000, Top: 200000},
	"Senior Software Engineer|Remote": {Median: 150000, Top: 210000},
	"Data Analyst|Remote":             {Median: 80000, Top: 115000},
	"Product Manager|Remote":          {Median: 130000, Top: 185000},
	AnyKey:                            {Median: 95000, Top: 150000},
}

// Key builds the lookup key of a title and location.
func Key(title, location string) string {
	return title + "|" + location
}

// Lookup returns the benchmark for the pair, then the catch-all of b, then the default catch-all.
// Keys match case-insensitively since config loaders may lowercase them.
func (b Benchmarks) Lookup(title, location string) Benchmark {
	if bm, ok := b.find(Key(title, location)); ok {
		return bm
	}
	if bm, ok := b.find(AnyKey); ok {
		return bm
	}
	return DefaultBenchmarks[AnyKey]
}

func (b Benchmarks) find(key string) (Benchmark, bool) {
	if bm, ok := b[key]; ok {
		return bm, true
	}
	for k, bm := range b {
		if strings.EqualFold(k, key) {
			return bm, true
		}
	}
	return Benchmark{}, false
}

// MarketPosition compares one job's salary against its benchmark.
type MarketPosition struct {
	JobID           string  `json:"jobId"`
	Company         string  `json:"company"`
	Title           string  `json:"title"`
	Location        string  `json:"location"`
	EstimatedSalary float64 `json:"estimatedSalary"`
	BenchmarkMedian float64 `json:"benchmarkMedian"`
	BenchmarkTop    float64 `json:"benchmarkTop"`
	BelowMedian     bool    `json:"belowMedian"`
	NearTop         bool    `json:"nearTop"`
}

// Position benchmarks every job with a usable salary.
func Position(jobs []records.JobRecord, benchmarks Benchmarks) []MarketPosition {
	if len(benchmarks) == 0 {
		benchmarks = DefaultBenchmarks
	}

	out := make([]MarketPosition, 0, len(jobs))
	for idx := range jobs {
		job := &jobs[idx]
		salary, ok := job.ReportedSalary()
		if !ok {
			continue
		}
		bm := benchmarks.Lookup(job.Title, job.Location)
		out = append(out, MarketPosition{
			JobID:           job.ID,
			Company:         job.Company,
			Title:           job.Title,
			Location:        job.Location,
			EstimatedSalary: salary,
			BenchmarkMedian: bm.Median,
			BenchmarkTop:    bm.Top,
			BelowMedian:     salary < bm.Median,
			NearTop:         salary >= nearTopShare*bm.Top,
		})
	}
	return out
}

package records

import (
	"testing"
)

func TestDecodeJobCoercesLooseFields(t *testing.T) {
	doc := map[string]any{
		"_id":       map[string]any{"$oid": "65f0c0ffee"},
		"company":   " Acme ",
		"jobTitle":  "Backend Engineer",
		"location":  "Remote",
		"workMode":  "remote",
		"salaryMin": "80000",
		"salaryMax": 100000.0,
		"salaryHistory": []any{
			map[string]any{"date": "2024-06-01", "finalSalary": "97000", "negotiationOutcome": "Improved"},
			map[string]any{"date": "2024-01-15", "finalSalary": 95000.0, "negotiationOutcome": "No change"},
			"not an object",
		},
		"compHistory": []any{
			map[string]any{"date": "2024-02-01T00:00:00Z", "totalComp": "130000"},
		},
	}

	job, err := DecodeJob(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if job.ID != "65f0c0ffee" {
		t.Fatalf("unexpected id: %q", job.ID)
	}
	if job.Company != "Acme" || job.Title != "Backend Engineer" {
		t.Fatalf("unexpected company/title: %q / %q", job.Company, job.Title)
	}
	if job.SalaryMin == nil || *job.SalaryMin != 80000 {
		t.Fatalf("expected salaryMin 80000, got %v", job.SalaryMin)
	}
	if job.FinalSalary != nil {
		t.Fatalf("expected absent finalSalary to stay nil")
	}
	if len(job.SalaryHistory) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(job.SalaryHistory))
	}
	if job.SalaryHistory[0].Date != "2024-01-15" {
		t.Fatalf("expected history sorted by date, got first %q", job.SalaryHistory[0].Date)
	}
	if latest, ok := job.LatestFinalSalary(); !ok || latest != 97000 {
		t.Fatalf("expected latest final salary 97000, got %v (%v)", latest, ok)
	}
	if len(job.CompHistory) != 1 || *job.CompHistory[0].TotalComp != 130000 {
		t.Fatalf("unexpected comp history: %+v", job.CompHistory)
	}
}

func TestEstimatedSalary(t *testing.T) {
	t.Parallel()

	f := func(v float64) *float64 { return &v }

	tests := []struct {
		name   string
		job    JobRecord
		expect float64
		ok     bool
	}{
		{
			name: "history overrides range",
			job: JobRecord{
				SalaryMin:     f(80000),
				SalaryMax:     f(100000),
				SalaryHistory: []SalaryEntry{{FinalSalary: f(95000)}},
			},
			expect: 95000,
			ok:     true,
		},
		{name: "midpoint", job: JobRecord{SalaryMin: f(80000), SalaryMax: f(100000)}, expect: 90000, ok: true},
		{name: "min only", job: JobRecord{SalaryMin: f(70000)}, expect: 70000, ok: true},
		{name: "max only", job: JobRecord{SalaryMax: f(120000)}, expect: 120000, ok: true},
		{name: "nothing", job: JobRecord{}, ok: false},
		{
			name:   "history without salary falls back",
			job:    JobRecord{SalaryMax: f(50000), SalaryHistory: []SalaryEntry{{NegotiationOutcome: OutcomeNoChange}}},
			expect: 50000,
			ok:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := tt.job.EstimatedSalary()
			if ok != tt.ok || got != tt.expect {
				t.Fatalf("expected (%v, %v), got (%v, %v)", tt.expect, tt.ok, got, ok)
			}
		})
	}
}

func TestDecodeAny(t *testing.T) {
	jobs, err := DecodeAny([]any{
		map[string]any{"id": 42.0, "title": "Analyst"},
		"skip me",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 1 || jobs[0].ID != "42" {
		t.Fatalf("unexpected jobs: %+v", jobs)
	}

	if _, err := DecodeAny("nope"); err == nil {
		t.Fatalf("expected error for non-list input")
	}

	empty, err := DecodeAny(nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty result for nil input, got %v (%v)", empty, err)
	}
}

func TestReportedSalaryPrefersFinalSalaryOverRange(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	job := JobRecord{SalaryMin: f(80000), SalaryMax: f(100000), FinalSalary: f(95000)}
	if got, ok := job.ReportedSalary(); !ok || got != 95000 {
		t.Fatalf("expected 95000, got %v (%v)", got, ok)
	}

	job.SalaryHistory = []SalaryEntry{{FinalSalary: f(99000)}}
	if got, _ := job.ReportedSalary(); got != 99000 {
		t.Fatalf("expected latest history to win, got %v", got)
	}
}

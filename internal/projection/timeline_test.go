package projection

import (
	"testing"
)

func pct(v float64) *float64 { return &v }

func str(s string) *string { return &s }

func TestSimulateRaiseWithMilestone(t *testing.T) {
	start := Components{Salary: 100000}
	milestones := []Milestone{{Year: 2, SalaryBumpPct: pct(10)}}

	timeline := Simulate(start, Growth{SalaryPct: 3}, milestones, FiveYears, "Engineer")

	if len(timeline) != FiveYears+1 {
		t.Fatalf("expected %d snapshots, got %d", FiveYears+1, len(timeline))
	}
	if timeline[1].Salary != 103000 {
		t.Fatalf("expected year 1 salary 103000, got %d", timeline[1].Salary)
	}
	if timeline[2].Salary != 116699 {
		t.Fatalf("expected year 2 salary 116699, got %d", timeline[2].Salary)
	}
}

func TestSimulateYearZeroIsDefaultedStart(t *testing.T) {
	start := Components{Salary: 90000, Bonus: 5000, Equity: 10000, Benefits: 0}

	timeline := Simulate(start, Growth{SalaryPct: 5, BonusPct: 5}, nil, TenYears, "Analyst")
	zero := timeline[0]

	if zero.Year != 0 || zero.Salary != 90000 || zero.Bonus != 5000 || zero.Equity != 10000 {
		t.Fatalf("unexpected year 0: %+v", zero)
	}
	if zero.Benefits != int64(DefaultBenefitsValue) {
		t.Fatalf("expected default benefits %v, got %d", DefaultBenefitsValue, zero.Benefits)
	}
	if zero.TotalComp != 90000+5000+10000+int64(DefaultBenefitsValue) {
		t.Fatalf("unexpected year 0 total: %d", zero.TotalComp)
	}
	if zero.Title != "Analyst" {
		t.Fatalf("unexpected title: %q", zero.Title)
	}
}

func TestSimulateSalaryIsNonDecreasing(t *testing.T) {
	milestones := []Milestone{
		{Year: 3, SalaryBumpPct: pct(0)},
		{Year: 4, SalaryBumpPct: pct(12), BonusBumpPct: pct(30)},
	}
	timeline := Simulate(Components{Salary: 51234, Bonus: 777}, Growth{SalaryPct: 1.7, BonusPct: 2}, milestones, TenYears, "")
	for i := 1; i < len(timeline); i++ {
		if timeline[i].Salary < timeline[i-1].Salary {
			t.Fatalf("salary decreased at year %d: %d < %d", i, timeline[i].Salary, timeline[i-1].Salary)
		}
	}
}

func TestSimulateGrowthBeforeMilestonesInListOrder(t *testing.T) {
	milestones := []Milestone{
		{Year: 1, Title: str("Senior"), BonusBumpPct: pct(10)},
		{Year: 1, Title: str("Lead"), BonusBumpPct: pct(20)},
		{Year: 3, Title: str("Principal")},
	}

	timeline := Simulate(Components{Salary: 100000, Bonus: 10000, Benefits: 1000}, Growth{BonusPct: 10}, milestones, FiveYears, "Engineer")

	// 10000 * 1.10 (growth) * 1.10 * 1.20
	if timeline[1].Bonus != 14520 {
		t.Fatalf("expected bonus 14520 after growth and both bumps, got %d", timeline[1].Bonus)
	}
	titles := []string{timeline[0].Title, timeline[1].Title, timeline[2].Title, timeline[3].Title, timeline[5].Title}
	expected := []string{"Engineer", "Lead", "Lead", "Principal", "Principal"}
	for i := range expected {
		if titles[i] != expected[i] {
			t.Fatalf("unexpected titles %v, want %v", titles, expected)
		}
	}
}

func TestSimulateRoundsOnlyOnOutput(t *testing.T) {
	// Rounding every year would keep the salary at 1.
	timeline := Simulate(Components{Salary: 1}, Growth{SalaryPct: 40}, nil, FiveYears, "")
	if got := timeline[5].Salary; got != 5 {
		t.Fatalf("expected full precision compounding to reach 5, got %d", got)
	}

	// Components individually round down while their sum rounds up.
	timeline = Simulate(Components{Salary: 10.4, Bonus: 10.4, Equity: 10.4, Benefits: 10.4}, Growth{}, nil, 1, "")
	if timeline[1].TotalComp != 42 {
		t.Fatalf("expected total from unrounded values (42), got %d", timeline[1].TotalComp)
	}
}

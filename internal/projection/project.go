// Package projection simulates multi-year compensation trajectories for a set of jobs.
package projection

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/spigell/comp-forecast/internal/records"
)

// Scenario keys.
const (
	KeyConservative = "conservative"
	KeyExpected     = "expected"
	KeyOptimistic   = "optimistic"
)

type scenarioDef struct {
	key   string
	label string
	raise float64
}

var printer = message.NewPrinter(language.English)

// Project simulates every job under the three raise scenarios over five and ten years.
// The output depends only on its arguments.
func Project(jobs []records.JobRecord, plan Plan) *Result {
	sc := plan.Scenario
	defs := []scenarioDef{
		{key: KeyConservative, label: "Conservative", raise: sc.ConservativePct},
		{key: KeyExpected, label: "Expected", raise: sc.ExpectedPct},
		{key: KeyOptimistic, label: "Optimistic", raise: sc.OptimisticPct},
	}

	milestones := plan.Milestones
	if milestones == nil {
		milestones = []Milestone{}
	}

	projections := make([]JobProjection, len(jobs))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for idx := range jobs {
		g.Go(func() error {
			projections[idx] = projectJob(&jobs[idx], defs, sc, milestones, plan.StartingComp)
			return nil
		})
	}
	// projectJob never fails.
	_ = g.Wait()

	summary, recommendation := headline(projections)
	if plan.Recommendation != "" {
		recommendation = plan.Recommendation
	}

	return &Result{
		Assumptions:     plan.Assumptions(),
		Milestones:      milestones,
		Jobs:            projections,
		AnalysisSummary: summary,
		Recommendation:  recommendation,
	}
}

func projectJob(job *records.JobRecord, defs []scenarioDef, sc Scenario, milestones []Milestone, overrides map[string]Components) JobProjection {
	start, ok := overrides[job.ID]
	if ok {
		start = start.withDefaults()
	} else {
		start = startingComp(job)
	}

	scenarios := make([]ScenarioProjection, 0, len(defs))
	for _, def := range defs {
		growth := Growth{
			SalaryPct:   def.raise,
			BonusPct:    sc.BonusGrowthPct,
			EquityPct:   sc.EquityGrowthPct,
			BenefitsPct: sc.BenefitsGrowthPct,
		}
		five := Simulate(start, growth, milestones, FiveYears, job.Title)
		ten := Simulate(start, growth, milestones, TenYears, job.Title)

		scenarios = append(scenarios, ScenarioProjection{
			Key:                     def.key,
			Label:                   def.label,
			AnnualRaisePct:          def.raise,
			BonusGrowthPct:          sc.BonusGrowthPct,
			EquityGrowthPct:         sc.EquityGrowthPct,
			BenefitsGrowthPct:       sc.BenefitsGrowthPct,
			FiveYear:                five,
			TenYear:                 ten,
			FiveYearEndingSalary:    five.Last().Salary,
			FiveYearEndingTotalComp: five.Last().TotalComp,
			TenYearEndingSalary:     ten.Last().Salary,
			TenYearEndingTotalComp:  ten.Last().TotalComp,
		})
	}

	return JobProjection{
		JobID:     job.ID,
		Company:   job.Company,
		JobTitle:  job.Title,
		Location:  job.Location,
		WorkMode:  job.WorkMode,
		Start:     start,
		Scenarios: scenarios,
	}
}

// startingComp reads the job's own figures. A job without a final salary starts from its
// estimated salary (latest negotiated figure or offered range).
func startingComp(job *records.JobRecord) Components {
	var salary any
	if job.FinalSalary != nil {
		salary = *job.FinalSalary
	} else if estimated, ok := job.EstimatedSalary(); ok {
		salary = estimated
	}
	return ComponentsFrom(salary, deref(job.SalaryBonus), deref(job.SalaryEquity), deref(job.BenefitsValue))
}

func deref(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

// headlineScenario picks the expected scenario, or the first one when it is missing.
func headlineScenario(job JobProjection) (ScenarioProjection, bool) {
	for _, s := range job.Scenarios {
		if s.Key == KeyExpected {
			return s, true
		}
	}
	if len(job.Scenarios) > 0 {
		return job.Scenarios[0], true
	}
	return ScenarioProjection{}, false
}

func headline(jobs []JobProjection) (string, string) {
	if len(jobs) == 0 {
		return "No jobs were available to project.",
			"Add at least one job with compensation details to generate a projection."
	}

	best, runnerUp := -1, -1
	var bestScenario, runnerScenario ScenarioProjection
	for idx, job := range jobs {
		s, ok := headlineScenario(job)
		if !ok {
			continue
		}
		switch {
		case best == -1 || s.FiveYearEndingTotalComp > bestScenario.FiveYearEndingTotalComp:
			runnerUp, runnerScenario = best, bestScenario
			best, bestScenario = idx, s
		case runnerUp == -1 || s.FiveYearEndingTotalComp > runnerScenario.FiveYearEndingTotalComp:
			runnerUp, runnerScenario = idx, s
		}
	}

	if best == -1 {
		return "No jobs were available to project.",
			"Add at least one job with compensation details to generate a projection."
	}

	name := describe(jobs[best])
	summary := printer.Sprintf("%s leads the %s scenario with a projected five-year total compensation of $%d.",
		name, lowerLabel(bestScenario), bestScenario.FiveYearEndingTotalComp)

	if runnerUp == -1 {
		return summary, fmt.Sprintf("Use the %s scenario for %s as your baseline and revisit the assumptions after each review cycle.",
			lowerLabel(bestScenario), name)
	}

	delta := bestScenario.FiveYearEndingTotalComp - runnerScenario.FiveYearEndingTotalComp
	recommendation := printer.Sprintf("Prioritize %s: it leads %s by $%d in five-year total compensation.",
		name, describe(jobs[runnerUp]), delta)

	return summary, recommendation
}

func describe(job JobProjection) string {
	title := job.JobTitle
	if title == "" {
		title = "Untitled role"
	}
	if job.Company == "" {
		return title
	}
	return fmt.Sprintf("%s at %s", title, job.Company)
}

func lowerLabel(s ScenarioProjection) string {
	if s.Key != "" {
		return s.Key
	}
	return "expected"
}

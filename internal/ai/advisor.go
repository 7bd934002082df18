// Package ai describes the external service that suggests projection assumptions.
package ai

import (
	"context"
	"errors"

	"github.com/spigell/comp-forecast/internal/projection"
)

// ErrRateLimited is wrapped by advisors when the provider signals quota exhaustion.
var ErrRateLimited = errors.New("ai provider rate limited the request")

// JobContext is the part of a job the advisor gets to see.
type JobContext struct {
	ID       string  `json:"id"`
	Company  string  `json:"company"`
	Title    string  `json:"title"`
	Location string  `json:"location"`
	WorkMode string  `json:"workMode"`
	Salary   float64 `json:"salary,omitempty"`
	Bonus    float64 `json:"bonus,omitempty"`
	Equity   float64 `json:"equity,omitempty"`
}

// Request carries the job context and the user's free-form goals.
type Request struct {
	Jobs        []JobContext `json:"jobs"`
	CareerGoals string       `json:"careerGoals,omitempty"`
	SalaryGoals string       `json:"salaryGoals,omitempty"`
	Notes       string       `json:"notes,omitempty"`
}

// Suggestion is what an advisor proposes. Percentages stay loosely typed until normalization.
type Suggestion struct {
	RaiseScenarios    map[string]any         `json:"raiseScenarios,omitempty"`
	BonusGrowthPct    any                    `json:"bonusGrowthPct,omitempty"`
	EquityGrowthPct   any                    `json:"equityGrowthPct,omitempty"`
	BenefitsGrowthPct any                    `json:"benefitsGrowthPct,omitempty"`
	Milestones        []projection.Milestone `json:"milestones,omitempty"`
	Rationale         string                 `json:"rationale,omitempty"`
	Recommendation    string                 `json:"recommendation,omitempty"`
	Model             string                 `json:"model,omitempty"`
	Raw               string                 `json:"-"`
}

// Scenario returns the suggested percentages in the shape the scenario normalizer expects.
func (s *Suggestion) Scenario() projection.RawScenario {
	if s == nil {
		return projection.RawScenario{}
	}
	return projection.ScenarioFromInputs(projection.Inputs{
		RaiseScenarios:    s.RaiseScenarios,
		BonusGrowthPct:    s.BonusGrowthPct,
		EquityGrowthPct:   s.EquityGrowthPct,
		BenefitsGrowthPct: s.BenefitsGrowthPct,
	})
}

// Advisor suggests assumptions for a projection.
type Advisor interface {
	Suggest(ctx context.Context, req *Request) (*Suggestion, error)
	Model() string
}

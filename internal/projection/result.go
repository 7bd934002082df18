package projection

// Source tags where the assumptions of a projection came from.
type Source string

const (
	SourceAI       Source = "ai"
	SourceFallback Source = "fallback"
)

// RaiseScenarios are the three annual raise percentages.
type RaiseScenarios struct {
	Conservative float64 `json:"conservative"`
	Expected     float64 `json:"expected"`
	Optimistic   float64 `json:"optimistic"`
}

// Assumptions describes the resolved inputs of a projection and their provenance.
type Assumptions struct {
	Source            Source         `json:"source"`
	RaiseScenarios    RaiseScenarios `json:"raiseScenarios"`
	BonusGrowthPct    float64        `json:"bonusGrowthPct"`
	EquityGrowthPct   float64        `json:"equityGrowthPct"`
	BenefitsGrowthPct float64        `json:"benefitsGrowthPct"`
	Rationale         string         `json:"rationale"`
	Model             string         `json:"model"`
}

// ScenarioProjection is one scenario simulated over both horizons for one job.
type ScenarioProjection struct {
	Key                     string   `json:"key"`
	Label                   string   `json:"label"`
	AnnualRaisePct          float64  `json:"annualRaisePct"`
	BonusGrowthPct          float64  `json:"bonusGrowthPct"`
	EquityGrowthPct         float64  `json:"equityGrowthPct"`
	BenefitsGrowthPct       float64  `json:"benefitsGrowthPct"`
	FiveYear                Timeline `json:"fiveYear"`
	TenYear                 Timeline `json:"tenYear"`
	FiveYearEndingSalary    int64    `json:"fiveYearEndingSalary"`
	FiveYearEndingTotalComp int64    `json:"fiveYearEndingTotalComp"`
	TenYearEndingSalary     int64    `json:"tenYearEndingSalary"`
	TenYearEndingTotalComp  int64    `json:"tenYearEndingTotalComp"`
}

// JobProjection groups the scenarios of one job.
type JobProjection struct {
	JobID     string               `json:"jobId"`
	Company   string               `json:"company"`
	JobTitle  string               `json:"jobTitle"`
	Location  string               `json:"location"`
	WorkMode  string               `json:"workMode"`
	Start     Components           `json:"startingComp"`
	Scenarios []ScenarioProjection `json:"scenarios"`
}

// Result is the full projection response.
type Result struct {
	Assumptions     Assumptions     `json:"assumptions"`
	Milestones      []Milestone     `json:"milestones"`
	Jobs            []JobProjection `json:"jobs"`
	AnalysisSummary string          `json:"analysisSummary"`
	Recommendation  string          `json:"recommendation"`
}

// Plan is the fully resolved input of Project.
type Plan struct {
	Scenario       Scenario
	Milestones     []Milestone
	StartingComp   map[string]Components
	Source         Source
	Rationale      string
	Model          string
	Recommendation string
}

// Assumptions renders the plan's scenario with its provenance.
func (p Plan) Assumptions() Assumptions {
	source := p.Source
	if source == "" {
		source = SourceFallback
	}
	return Assumptions{
		Source: source,
		RaiseScenarios: RaiseScenarios{
			Conservative: p.Scenario.ConservativePct,
			Expected:     p.Scenario.ExpectedPct,
			Optimistic:   p.Scenario.OptimisticPct,
		},
		BonusGrowthPct:    p.Scenario.BonusGrowthPct,
		EquityGrowthPct:   p.Scenario.EquityGrowthPct,
		BenefitsGrowthPct: p.Scenario.BenefitsGrowthPct,
		Rationale:         p.Rationale,
		Model:             p.Model,
	}
}

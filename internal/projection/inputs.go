package projection

import (
	"github.com/mitchellh/mapstructure"
)

// Inputs is the loosely typed "inputs" object of a projection request.
type Inputs struct {
	RaiseScenarios      any                       `json:"raiseScenarios,omitempty" yaml:"raiseScenarios,omitempty"`
	BonusGrowthPct      any                       `json:"bonusGrowthPct,omitempty" yaml:"bonusGrowthPct,omitempty"`
	EquityGrowthPct     any                       `json:"equityGrowthPct,omitempty" yaml:"equityGrowthPct,omitempty"`
	BenefitsGrowthPct   any                       `json:"benefitsGrowthPct,omitempty" yaml:"benefitsGrowthPct,omitempty"`
	Milestones          any                       `json:"milestones,omitempty" yaml:"milestones,omitempty"`
	CareerMilestones    any                       `json:"careerMilestones,omitempty" yaml:"careerMilestones,omitempty"`
	StartingCompByJobID any                       `json:"startingCompByJobId,omitempty" yaml:"startingCompByJobId,omitempty"`
	CareerGoals         any                       `json:"careerGoals,omitempty" yaml:"careerGoals,omitempty"`
	SalaryGoals         any                       `json:"salaryGoals,omitempty" yaml:"salaryGoals,omitempty"`
	Notes               any                       `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// RawMilestones returns "milestones", or "careerMilestones" when the former is empty.
func (in Inputs) RawMilestones() any {
	if items, ok := in.Milestones.([]any); ok && len(items) > 0 {
		return in.Milestones
	}
	if in.CareerMilestones != nil {
		return in.CareerMilestones
	}
	return in.Milestones
}

// StartingComp normalizes the per-job starting compensation overrides. Entries that are not objects
// are ignored, as is the whole field when it is not an object.
func (in Inputs) StartingComp() map[string]Components {
	byJob, _ := in.StartingCompByJobID.(map[string]any)
	out := make(map[string]Components, len(byJob))
	for jobID, raw := range byJob {
		comp, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		out[jobID] = ComponentsFrom(comp["salary"], comp["bonus"], comp["equity"], comp["benefits"])
	}
	return out
}

// DecodeInputs converts a loosely typed "inputs" value. Anything that is not an object yields empty
// inputs.
func DecodeInputs(raw any) Inputs {
	var in Inputs
	obj, ok := raw.(map[string]any)
	if !ok {
		return in
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &in,
	})
	if err != nil {
		return Inputs{}
	}
	if err := decoder.Decode(obj); err != nil {
		return Inputs{}
	}
	return in
}

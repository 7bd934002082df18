// Package enrichment resolves projection assumptions, asking an AI advisor first and falling back
// to the deterministic defaults whenever the advisor cannot answer.
package enrichment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/comp-forecast/internal/ai"
	applog "github.com/spigell/comp-forecast/internal/logger"
	"github.com/spigell/comp-forecast/internal/metrics"
	"github.com/spigell/comp-forecast/internal/projection"
	"github.com/spigell/comp-forecast/internal/records"
)

// Fallback reasons reported in logs and metrics.
const (
	ReasonUnconfigured  = "unconfigured"
	ReasonRateLimited   = "rate_limited"
	ReasonCanceled      = "canceled"
	ReasonRequestFailed = "request_failed"
	ReasonEmptyResponse = "empty_response"
	ReasonPanic         = "panic"
)

// Request is a projection request with already decoded jobs.
type Request struct {
	Jobs   []records.JobRecord
	Inputs projection.Inputs
}

// Outcome is the result of Enrich. Plan is always complete and usable; Source says whether the
// advisor contributed to it and Reason says why it did not.
type Outcome struct {
	Source projection.Source
	Reason string
	Plan   projection.Plan
}

// Adapter runs the optional AI step in front of the projection.
type Adapter struct {
	advisor ai.Advisor
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// New creates an adapter. A nil advisor always produces fallback outcomes.
func New(advisor ai.Advisor, m *metrics.Metrics, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{advisor: advisor, metrics: m, logger: logger}
}

// Project enriches the request and runs the projection.
func (a *Adapter) Project(ctx context.Context, req *Request) *projection.Result {
	outcome := a.Enrich(ctx, req)
	return projection.Project(req.Jobs, outcome.Plan)
}

// Enrich makes at most one advisor call. User supplied values always win over suggestions, and
// suggested milestones are appended after the user's own.
func (a *Adapter) Enrich(ctx context.Context, req *Request) Outcome {
	if req == nil {
		req = &Request{}
	}

	userScenario := projection.ScenarioFromInputs(req.Inputs)
	userMilestones := projection.NormalizeMilestones(req.Inputs.RawMilestones())
	startingComp := req.Inputs.StartingComp()

	fallback := Outcome{
		Source: projection.SourceFallback,
		Plan: projection.Plan{
			Scenario:     projection.NormalizeScenario(userScenario, projection.DefaultScenario),
			Milestones:   projection.MergeMilestones(userMilestones, nil),
			StartingComp: startingComp,
			Source:       projection.SourceFallback,
		},
	}

	if a.advisor == nil {
		return a.fallback(fallback, ReasonUnconfigured, nil)
	}

	suggestion, err := a.suggest(ctx, advisorRequest(req, startingComp))
	if err != nil {
		return a.fallback(fallback, reasonFor(ctx, err), err)
	}
	if suggestion == nil {
		return a.fallback(fallback, ReasonEmptyResponse, nil)
	}

	suggested := projection.NormalizeScenario(suggestion.Scenario(), projection.DefaultScenario)
	model := strings.TrimSpace(suggestion.Model)
	if model == "" {
		model = a.advisor.Model()
	}

	outcome := Outcome{
		Source: projection.SourceAI,
		Plan: projection.Plan{
			Scenario:       projection.NormalizeScenario(userScenario, suggested),
			Milestones:     projection.MergeMilestones(userMilestones, suggestion.Milestones),
			StartingComp:   startingComp,
			Source:         projection.SourceAI,
			Rationale:      strings.TrimSpace(suggestion.Rationale),
			Model:          model,
			Recommendation: strings.TrimSpace(suggestion.Recommendation),
		},
	}

	a.metrics.ObserveEnrichment(string(projection.SourceAI), "")
	fields := applog.EnrichmentFields(string(projection.SourceAI), "")
	fields = append(fields, applog.CommonFields("", model)...)
	a.logger.Info("using ai assumptions", append(fields,
		zap.Int("suggested_milestones", len(suggestion.Milestones)),
		zap.Int("milestones", len(outcome.Plan.Milestones)),
	)...)

	return outcome
}

func (a *Adapter) suggest(ctx context.Context, req *ai.Request) (suggestion *ai.Suggestion, err error) {
	defer func() {
		if r := recover(); r != nil {
			suggestion = nil
			err = fmt.Errorf("%s: %v", ReasonPanic, r)
		}
	}()
	return a.advisor.Suggest(ctx, req)
}

func (a *Adapter) fallback(outcome Outcome, reason string, err error) Outcome {
	outcome.Reason = reason
	a.metrics.ObserveEnrichment(string(projection.SourceFallback), reason)

	fields := applog.EnrichmentFields(string(projection.SourceFallback), reason)
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	if reason == ReasonUnconfigured {
		a.logger.Debug("ai advisor is not configured; using fallback assumptions", fields...)
	} else {
		a.logger.Warn("ai enrichment failed; using fallback assumptions", fields...)
	}

	return outcome
}

func reasonFor(ctx context.Context, err error) string {
	switch {
	case errors.Is(err, ai.ErrRateLimited):
		return ReasonRateLimited
	case ctx.Err() != nil, errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ReasonCanceled
	case strings.HasPrefix(err.Error(), ReasonPanic):
		return ReasonPanic
	default:
		return ReasonRequestFailed
	}
}

func advisorRequest(req *Request, startingComp map[string]projection.Components) *ai.Request {
	jobs := make([]ai.JobContext, 0, len(req.Jobs))
	for _, job := range req.Jobs {
		jc := ai.JobContext{
			ID:       job.ID,
			Company:  job.Company,
			Title:    job.Title,
			Location: job.Location,
			WorkMode: job.WorkMode,
		}
		if comp, ok := startingComp[job.ID]; ok {
			jc.Salary, jc.Bonus, jc.Equity = comp.Salary, comp.Bonus, comp.Equity
		} else {
			if job.FinalSalary != nil {
				jc.Salary = *job.FinalSalary
			} else if estimated, ok := job.EstimatedSalary(); ok {
				jc.Salary = estimated
			}
			if job.SalaryBonus != nil {
				jc.Bonus = *job.SalaryBonus
			}
			if job.SalaryEquity != nil {
				jc.Equity = *job.SalaryEquity
			}
		}
		jobs = append(jobs, jc)
	}

	return &ai.Request{
		Jobs:        jobs,
		CareerGoals: text(req.Inputs.CareerGoals),
		SalaryGoals: text(req.Inputs.SalaryGoals),
		Notes:       text(req.Inputs.Notes),
	}
}

// text flattens a free-form goal field; lists are joined with "; ".
func text(v any) string {
	items, ok := v.([]any)
	if !ok {
		return records.String(v)
	}
	parts := make([]string, 0, len(items))
	for _, item := range items {
		if s := records.String(item); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "; ")
}

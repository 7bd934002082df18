package gemini

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/comp-forecast/internal/ai"
	applog "github.com/spigell/comp-forecast/internal/logger"
	"github.com/spigell/comp-forecast/internal/projection"
	"github.com/spigell/comp-forecast/internal/utils"
)

const (
	defaultMaxLogLength = 200
	maxGoalRunes        = 500
	systemInstruction   = "You are a compensation planning assistant. Reply with JSON only."
)

var errUnexpectedShape = errors.New("gemini response does not contain projection assumptions")

//go:embed prompt.md
var promptTemplate string

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, prompt string) (string, error)
	Model() string
}

// Advisor asks Gemini for projection assumptions.
type Advisor struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

// NewAdvisor wraps a generator. A non-positive maxLogLength uses the default preview length.
func NewAdvisor(generator contentGenerator, maxLogLength int, logger *zap.Logger) *Advisor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	model := ""
	if generator != nil {
		model = generator.Model()
	}

	return &Advisor{
		generator: generator,
		logger:    applog.WithCommonFields(logger, "gemini", model),
		maxLogLen: maxLogLength,
	}
}

// Model returns the model name of the underlying generator.
func (a *Advisor) Model() string {
	if a == nil || a.generator == nil {
		return ""
	}
	return a.generator.Model()
}

// Suggest sends one request and parses the reply. Any failure is returned to the caller untouched.
func (a *Advisor) Suggest(ctx context.Context, req *ai.Request) (*ai.Suggestion, error) {
	if req == nil {
		return nil, fmt.Errorf("advisor request is required")
	}
	if a.generator == nil {
		return nil, fmt.Errorf("gemini generator is not configured")
	}

	jobsJSON, err := json.MarshalIndent(req.Jobs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal jobs payload: %w", err)
	}

	prompt := buildPrompt(string(jobsJSON), req)

	a.logger.Debug("gemini generate content request",
		zap.Int("jobs", len(req.Jobs)),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, systemInstruction, prompt)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, a.maxLogLen)),
	)

	suggestion, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	suggestion.Model = a.Model()
	suggestion.Raw = raw
	return suggestion, nil
}

func buildPrompt(jobsJSON string, req *ai.Request) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Jobs:\n{{JOBS_JSON}}\n\nCareer goals: {{CAREER_GOALS}}\nSalary goals: {{SALARY_GOALS}}\nNotes: {{NOTES}}\n\nJSON Response:"
	}

	replacer := strings.NewReplacer(
		"{{JOBS_JSON}}", jobsJSON,
		"{{CAREER_GOALS}}", sanitizeGoal(req.CareerGoals),
		"{{SALARY_GOALS}}", sanitizeGoal(req.SalaryGoals),
		"{{NOTES}}", sanitizeGoal(req.Notes),
	)
	return replacer.Replace(template)
}

// sanitizeGoal flattens free text to one bounded line and neutralizes section markers.
func sanitizeGoal(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return "none"
	}
	s = strings.NewReplacer("[", "(", "]", ")", "{{", "(", "}}", ")").Replace(s)
	runes := []rune(s)
	if len(runes) > maxGoalRunes {
		s = string(runes[:maxGoalRunes])
	}
	return s
}

func parseResponse(raw string) (*ai.Suggestion, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	suggestion := &ai.Suggestion{
		BonusGrowthPct:    data["bonusGrowthPct"],
		EquityGrowthPct:   data["equityGrowthPct"],
		BenefitsGrowthPct: data["benefitsGrowthPct"],
		Rationale:         coerceString(data["rationale"]),
		Recommendation:    coerceString(data["recommendation"]),
	}

	if raises, ok := data["raiseScenarios"]; ok && raises != nil {
		m, ok := raises.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: raiseScenarios is %T", errUnexpectedShape, raises)
		}
		suggestion.RaiseScenarios = m
	}

	if milestones, ok := data["milestones"]; ok && milestones != nil {
		if _, ok := milestones.([]any); !ok {
			return nil, fmt.Errorf("%w: milestones is %T", errUnexpectedShape, milestones)
		}
		suggestion.Milestones = projection.NormalizeMilestones(milestones)
	}

	if suggestion.RaiseScenarios == nil && suggestion.BonusGrowthPct == nil && suggestion.EquityGrowthPct == nil &&
		suggestion.BenefitsGrowthPct == nil && len(suggestion.Milestones) == 0 {
		return nil, errUnexpectedShape
	}

	return suggestion, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}

package records

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/spigell/comp-forecast/internal/numeric"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006-01",
	"01/02/2006",
}

type rawJob struct {
	ID            any `mapstructure:"id"`
	MongoID       any `mapstructure:"_id"`
	Company       any `mapstructure:"company"`
	Title         any `mapstructure:"title"`
	JobTitle      any `mapstructure:"jobTitle"`
	Location      any `mapstructure:"location"`
	WorkMode      any `mapstructure:"workMode"`
	SalaryMin     any `mapstructure:"salaryMin"`
	SalaryMax     any `mapstructure:"salaryMax"`
	FinalSalary   any `mapstructure:"finalSalary"`
	SalaryBonus   any `mapstructure:"salaryBonus"`
	SalaryEquity  any `mapstructure:"salaryEquity"`
	BenefitsValue any `mapstructure:"benefitsValue"`
	SalaryHistory any `mapstructure:"salaryHistory"`
	CompHistory   any `mapstructure:"compHistory"`
}

type rawSalaryEntry struct {
	Date               any `mapstructure:"date"`
	FinalSalary        any `mapstructure:"finalSalary"`
	NegotiationOutcome any `mapstructure:"negotiationOutcome"`
}

type rawCompEntry struct {
	Date      any `mapstructure:"date"`
	TotalComp any `mapstructure:"totalComp"`
}

// Decode converts loosely typed job documents into normalized records.
func Decode(docs []map[string]any) ([]JobRecord, error) {
	jobs := make([]JobRecord, 0, len(docs))
	for idx, doc := range docs {
		job, err := DecodeJob(doc)
		if err != nil {
			return nil, fmt.Errorf("decode job %d: %w", idx, err)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// DecodeAny accepts the output of a generic JSON/YAML decode ([]any of objects).
// Items that are not objects are skipped.
func DecodeAny(raw any) ([]JobRecord, error) {
	items, ok := raw.([]any)
	if !ok {
		if raw == nil {
			return []JobRecord{}, nil
		}
		return nil, fmt.Errorf("jobs must be a list, got %T", raw)
	}
	return Decode(Objects(items))
}

// DecodeJob converts one loosely typed job document.
func DecodeJob(doc map[string]any) (JobRecord, error) {
	var raw rawJob
	if err := mapstructure.Decode(doc, &raw); err != nil {
		return JobRecord{}, err
	}

	job := JobRecord{
		ID:            firstString(raw.ID, raw.MongoID),
		Company:       String(raw.Company),
		Title:         firstString(raw.Title, raw.JobTitle),
		Location:      String(raw.Location),
		WorkMode:      String(raw.WorkMode),
		SalaryMin:     numeric.Ptr(raw.SalaryMin),
		SalaryMax:     numeric.Ptr(raw.SalaryMax),
		FinalSalary:   numeric.Ptr(raw.FinalSalary),
		SalaryBonus:   numeric.Ptr(raw.SalaryBonus),
		SalaryEquity:  numeric.Ptr(raw.SalaryEquity),
		BenefitsValue: numeric.Ptr(raw.BenefitsValue),
		SalaryHistory: []SalaryEntry{},
		CompHistory:   []CompEntry{},
	}

	for _, item := range Objects(raw.SalaryHistory) {
		var entry rawSalaryEntry
		if err := mapstructure.Decode(item, &entry); err != nil {
			return JobRecord{}, fmt.Errorf("salary history: %w", err)
		}
		date, at := parseDate(entry.Date)
		job.SalaryHistory = append(job.SalaryHistory, SalaryEntry{
			Date:               date,
			At:                 at,
			FinalSalary:        numeric.Ptr(entry.FinalSalary),
			NegotiationOutcome: String(entry.NegotiationOutcome),
		})
	}

	for _, item := range Objects(raw.CompHistory) {
		var entry rawCompEntry
		if err := mapstructure.Decode(item, &entry); err != nil {
			return JobRecord{}, fmt.Errorf("comp history: %w", err)
		}
		date, at := parseDate(entry.Date)
		job.CompHistory = append(job.CompHistory, CompEntry{
			Date:      date,
			At:        at,
			TotalComp: numeric.Ptr(entry.TotalComp),
		})
	}

	sortSalaryHistory(job.SalaryHistory)
	sortCompHistory(job.CompHistory)

	return job, nil
}

// Objects keeps the object-shaped items of a loosely typed list.
func Objects(v any) []map[string]any {
	var items []any
	switch val := v.(type) {
	case []any:
		items = val
	case []map[string]any:
		return val
	default:
		return nil
	}

	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		switch obj := item.(type) {
		case map[string]any:
			out = append(out, obj)
		case map[any]any:
			converted := make(map[string]any, len(obj))
			for k, v := range obj {
				converted[fmt.Sprint(k)] = v
			}
			out = append(out, converted)
		}
	}
	return out
}

// String coerces scalars to trimmed strings. Objects carrying a "$oid" key yield that id.
func String(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case map[string]any:
		return String(val["$oid"])
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}

func firstString(values ...any) string {
	for _, v := range values {
		if s := String(v); s != "" {
			return s
		}
	}
	return ""
}

func parseDate(v any) (string, time.Time) {
	switch val := v.(type) {
	case time.Time:
		return val.UTC().Format(time.RFC3339), val.UTC()
	case string:
		s := strings.TrimSpace(val)
		for _, layout := range dateLayouts {
			if at, err := time.Parse(layout, s); err == nil {
				return s, at.UTC()
			}
		}
		return s, time.Time{}
	default:
		if ms, ok := numeric.Float(v); ok {
			at := time.UnixMilli(int64(ms)).UTC()
			return at.Format(time.RFC3339), at
		}
		return "", time.Time{}
	}
}

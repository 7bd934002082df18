package projection

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestNormalizeMilestones(t *testing.T) {
	raw := []any{
		map[string]any{"year": 7.4, "title": "Staff Engineer", "salaryBumpPct": 45.0},
		map[string]any{"year": "2", "salaryBumpPct": 10.0, "note": 12.0},
		map[string]any{"year": "soon", "title": "dropped"},
		map[string]any{"year": -3.0, "bonusBumpPct": 0.0},
		map[string]any{"year": 2.0, "title": "Senior Engineer"},
		"not a milestone",
	}

	got := NormalizeMilestones(raw)
	if len(got) != 4 {
		t.Fatalf("expected 4 milestones, got %d: %+v", len(got), got)
	}

	years := []int{got[0].Year, got[1].Year, got[2].Year, got[3].Year}
	if !reflect.DeepEqual(years, []int{1, 2, 2, 7}) {
		t.Fatalf("unexpected year order: %v", years)
	}

	if got[1].SalaryBumpPct == nil || *got[1].SalaryBumpPct != 10 || got[1].Note == nil || *got[1].Note != "12" {
		t.Fatalf("unexpected year 2 milestone: %+v", got[1])
	}
	if got[2].Title == nil || *got[2].Title != "Senior Engineer" {
		t.Fatalf("expected stable order for ties, got %+v", got[2])
	}
	if got[2].SalaryBumpPct != nil {
		t.Fatalf("absent bump must stay nil")
	}
	if got[0].BonusBumpPct == nil || *got[0].BonusBumpPct != 0 {
		t.Fatalf("explicit zero bump must be kept, got %+v", got[0])
	}
	if *got[3].SalaryBumpPct != MaxBumpPct {
		t.Fatalf("expected bump clamped to %v, got %v", MaxBumpPct, *got[3].SalaryBumpPct)
	}
	if got[3].Year != 7 {
		t.Fatalf("expected year rounded to 7, got %d", got[3].Year)
	}
}

func TestNormalizeMilestonesIsIdempotent(t *testing.T) {
	raw := []any{
		map[string]any{"year": 12.0, "equityBumpPct": 5.0},
		map[string]any{"year": 3.0, "title": "Lead"},
		map[string]any{"year": 3.0, "benefitsBumpPct": 100.0},
	}

	once := NormalizeMilestones(raw)
	twice := NormalizeMilestones(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("typed normalization is not idempotent:\n%+v\n%+v", once, twice)
	}

	encoded, err := json.Marshal(once)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded []any
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if again := NormalizeMilestones(decoded); !reflect.DeepEqual(once, again) {
		t.Fatalf("normalizing decoded milestones changed them:\n%+v\n%+v", once, again)
	}
}

func TestNormalizeMilestonesMalformedInput(t *testing.T) {
	for _, raw := range []any{nil, "milestones", 42.0, map[string]any{"year": 2.0}} {
		if got := NormalizeMilestones(raw); len(got) != 0 {
			t.Fatalf("expected empty result for %v, got %+v", raw, got)
		}
	}
}

func TestMergeMilestonesAppendsAndTruncates(t *testing.T) {
	title := func(s string) *string { return &s }

	user := make([]Milestone, 0, 15)
	for i := 0; i < 15; i++ {
		user = append(user, Milestone{Year: 5, Title: title("user")})
	}
	suggested := make([]Milestone, 0, 10)
	for i := 0; i < 10; i++ {
		suggested = append(suggested, Milestone{Year: 1, Title: title("ai")})
	}

	merged := MergeMilestones(user, suggested)
	if len(merged) != MaxMilestones {
		t.Fatalf("expected %d milestones, got %d", MaxMilestones, len(merged))
	}

	var users, ais int
	for _, m := range merged {
		switch *m.Title {
		case "user":
			users++
		case "ai":
			ais++
		}
	}
	if users != 15 || ais != 5 {
		t.Fatalf("expected all user milestones kept and AI ones truncated, got users=%d ai=%d", users, ais)
	}

	tied := MergeMilestones([]Milestone{{Year: 2, Title: title("user")}}, []Milestone{{Year: 2, Title: title("ai")}})
	if *tied[0].Title != "user" || *tied[1].Title != "ai" {
		t.Fatalf("expected user milestone before AI milestone in the same year, got %+v", tied)
	}
}

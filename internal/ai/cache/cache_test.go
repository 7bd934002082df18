package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spigell/comp-forecast/internal/ai"
)

type countingAdvisor struct {
	calls int
	err   error
}

func (c *countingAdvisor) Suggest(_ context.Context, _ *ai.Request) (*ai.Suggestion, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return &ai.Suggestion{
		RaiseScenarios: map[string]any{"expected": 4.0},
		Rationale:      "cached rationale",
		Model:          "stub",
	}, nil
}

func (c *countingAdvisor) Model() string { return "stub" }

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestAdvisorCachesSuggestions(t *testing.T) {
	mr, client := newRedis(t)
	next := &countingAdvisor{}
	advisor := New(next, client, time.Hour, zap.NewNop())

	req := &ai.Request{Jobs: []ai.JobContext{{ID: "j1", Title: "Engineer"}}}

	first, err := advisor.Suggest(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := advisor.Suggest(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if next.calls != 1 {
		t.Fatalf("expected wrapped advisor to be called once, got %d", next.calls)
	}
	if second.Rationale != first.Rationale || second.RaiseScenarios["expected"] != 4.0 {
		t.Fatalf("unexpected cached suggestion: %+v", second)
	}

	keys := mr.Keys()
	if len(keys) != 1 {
		t.Fatalf("expected one cached key, got %v", keys)
	}
	if ttl := mr.TTL(keys[0]); ttl != time.Hour {
		t.Fatalf("expected ttl of one hour, got %v", ttl)
	}

	other := &ai.Request{Jobs: []ai.JobContext{{ID: "j2", Title: "Engineer"}}}
	if _, err := advisor.Suggest(context.Background(), other); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.calls != 2 {
		t.Fatalf("expected a miss for a different request, got %d calls", next.calls)
	}
}

func TestAdvisorDoesNotCacheErrors(t *testing.T) {
	mr, client := newRedis(t)
	next := &countingAdvisor{err: errors.New("boom")}
	advisor := New(next, client, 0, zap.NewNop())

	if _, err := advisor.Suggest(context.Background(), &ai.Request{}); err == nil {
		t.Fatal("expected error from wrapped advisor")
	}
	if len(mr.Keys()) != 0 {
		t.Fatalf("expected no cached keys, got %v", mr.Keys())
	}
}

func TestAdvisorIgnoresRedisFailures(t *testing.T) {
	mr, client := newRedis(t)
	next := &countingAdvisor{}
	advisor := New(next, client, time.Minute, zap.NewNop())

	mr.Close()

	suggestion, err := advisor.Suggest(context.Background(), &ai.Request{})
	if err != nil {
		t.Fatalf("expected redis failure to be ignored, got %v", err)
	}
	if suggestion == nil || next.calls != 1 {
		t.Fatalf("expected wrapped advisor to serve the request")
	}
}

func TestNewClientRequiresAddress(t *testing.T) {
	if _, err := NewClient(context.Background(), Config{}); !errors.Is(err, ErrEmptyAddress) {
		t.Fatalf("expected ErrEmptyAddress, got %v", err)
	}

	mr := miniredis.RunT(t)
	client, err := NewClient(context.Background(), Config{Address: mr.Addr()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	client.Close()
}

package gemini

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/comp-forecast/internal/ai"
)

type fakeModels struct {
	resp   *genai.GenerateContentResponse
	err    error
	calls  int
	model  string
	config *genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, _ []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.model = model
	f.config = config
	return f.resp, f.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

func TestGeneratorGenerateContent(t *testing.T) {
	models := &fakeModels{resp: textResponse(`{"raiseScenarios":`, `{"expected": 3}}`)}
	g := &Generator{models: models, model: "gemini-test", logger: zap.NewNop()}

	output, err := g.GenerateContent(context.Background(), "system", "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output != "{\"raiseScenarios\":\n{\"expected\": 3}}" {
		t.Fatalf("unexpected output: %q", output)
	}
	if models.model != "gemini-test" {
		t.Fatalf("unexpected model: %q", models.model)
	}
	if models.config == nil || models.config.SystemInstruction == nil || models.config.SystemInstruction.Parts[0].Text != "system" {
		t.Fatalf("expected system instruction to be set")
	}
	if models.config.ResponseMIMEType != "application/json" {
		t.Fatalf("expected json response mime type, got %q", models.config.ResponseMIMEType)
	}
}

func TestGeneratorDoesNotRetryOnRateLimit(t *testing.T) {
	models := &fakeModels{err: genai.APIError{
		Code:    http.StatusTooManyRequests,
		Status:  "RESOURCE_EXHAUSTED",
		Message: "quota exhausted, retry after 60 seconds",
	}}
	g := &Generator{models: models, model: "gemini-test", logger: zap.NewNop()}

	_, err := g.GenerateContent(context.Background(), "sys", "msg")
	if !errors.Is(err, ai.ErrRateLimited) {
		t.Fatalf("expected rate limit error, got %v", err)
	}
	if models.calls != 1 {
		t.Fatalf("expected single call, got %d", models.calls)
	}
}

func TestGeneratorErrors(t *testing.T) {
	g := &Generator{models: &fakeModels{resp: textResponse("  ")}, model: "m", logger: zap.NewNop()}
	if _, err := g.GenerateContent(context.Background(), "", "prompt"); err == nil {
		t.Fatal("expected error for empty response")
	}
	if _, err := g.GenerateContent(context.Background(), "", "   "); err == nil {
		t.Fatal("expected error for empty prompt")
	}

	var nilGen *Generator
	if _, err := nilGen.GenerateContent(context.Background(), "", "prompt"); err == nil {
		t.Fatal("expected error for nil generator")
	}
	if _, err := NewGenerator(context.Background(), " ", "", nil); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

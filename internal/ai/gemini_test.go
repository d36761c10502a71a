package ai

import (
	"context"
	"testing"

	"google.golang.org/genai"
)

func TestNewGeminiRequiresKey(t *testing.T) {
	if _, err := NewGemini(context.Background(), "", ""); err == nil {
		t.Fatalf("expected error when api key missing")
	}
}

func TestGeminiModelResolution(t *testing.T) {
	ctx := context.Background()

	c, err := NewGemini(ctx, "test-key", "")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c.Model() != geminiDefaultModel {
		t.Fatalf("expected default model, got %s", c.Model())
	}

	t.Setenv("NPCVOICE_TEXT_MODEL", "env-model")
	c, err = NewGemini(ctx, "test-key", "")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c.Model() != "env-model" {
		t.Fatalf("env model not applied: %s", c.Model())
	}

	c, err = NewGemini(ctx, "test-key", "explicit-model")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c.Model() != "explicit-model" {
		t.Fatalf("explicit model should win over env: %s", c.Model())
	}
}

func TestFirstCandidateText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: "Greetings, traveler."}}}},
		},
	}
	text, err := firstCandidateText(resp)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if text != "Greetings, traveler." {
		t.Fatalf("text mismatch: %q", text)
	}
}

func TestFirstCandidateTextFailures(t *testing.T) {
	cases := []struct {
		name string
		resp *genai.GenerateContentResponse
	}{
		{"nil response", nil},
		{"no candidates", &genai.GenerateContentResponse{}},
		{"no content", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}},
		{"no parts", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: &genai.Content{}}}}},
		{"empty text", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []*genai.Part{{}}}}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := firstCandidateText(tc.resp); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"google.golang.org/genai"
)

const (
	geminiModelEnv     = "NPCVOICE_TEXT_MODEL"
	geminiDefaultModel = "gemini-2.5-flash"
)

// GeminiClient wraps the Gemini API for dialogue text generation.
type GeminiClient struct {
	model string
	sdk   *genai.Client
}

// NewGemini constructs a Gemini text client. The apiKey is required.
// The effective model is resolved once, in priority order:
// explicit model argument, then NPCVOICE_TEXT_MODEL, then the default.
func NewGemini(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is required")
	}
	sdk, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("init gemini client: %w", err)
	}
	return &GeminiClient{model: resolveModel(model, geminiModelEnv, geminiDefaultModel), sdk: sdk}, nil
}

// Model returns the resolved model name.
func (c *GeminiClient) Model() string { return c.model }

// GenerateText sends the prompt as a single user message and returns the
// first candidate's first text part. Empty or filtered responses are
// errors; the raw response is logged for diagnosis.
func (c *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := c.sdk.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		slog.Error("text generation call failed", "model", c.model, "err", err)
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	text, err := firstCandidateText(resp)
	if err != nil {
		slog.Error("text generation returned no usable text", "model", c.model, "response", fmt.Sprintf("%+v", resp))
		return "", err
	}
	return text, nil
}

// firstCandidateText extracts candidates[0].content.parts[0].text.
// A response without it (e.g. content-filtered) is a failure.
func firstCandidateText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("response has no candidates")
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return "", errors.New("first candidate has no content parts")
	}
	if content.Parts[0].Text == "" {
		return "", errors.New("first content part has no text")
	}
	return content.Parts[0].Text, nil
}

// resolveModel applies the construction-time precedence:
// explicit argument > environment variable > fixed default.
func resolveModel(explicit, envVar, fallback string) string {
	if strings.TrimSpace(explicit) != "" {
		return explicit
	}
	if v, ok := os.LookupEnv(envVar); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

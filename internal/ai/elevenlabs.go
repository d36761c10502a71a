package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	elevenLabsDefaultBaseURL = "https://api.elevenlabs.io"
	elevenLabsModelEnv       = "NPCVOICE_TTS_MODEL"
	elevenLabsDefaultModel   = "eleven_multilingual_v2"

	// Voice is fixed in the current design; not configurable.
	elevenLabsVoiceID = "21m00Tcm4TlvDq8ikWAM"

	elevenLabsStability       = 0.5
	elevenLabsSimilarityBoost = 0.5
)

// ElevenLabsOption configures the ElevenLabs client.
type ElevenLabsOption func(*ElevenLabsClient)

// WithElevenLabsBaseURL sets the ElevenLabs API base URL.
func WithElevenLabsBaseURL(baseURL string) ElevenLabsOption {
	return func(c *ElevenLabsClient) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithElevenLabsHTTPClient sets the HTTP client used for requests.
func WithElevenLabsHTTPClient(client *http.Client) ElevenLabsOption {
	return func(c *ElevenLabsClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// ElevenLabsClient provides a thin wrapper for the ElevenLabs
// text-to-speech endpoint.
type ElevenLabsClient struct {
	apiKey     string
	modelID    string
	voiceID    string
	baseURL    string
	httpClient *http.Client
}

// NewElevenLabs constructs a new ElevenLabs client. The apiKey is required.
// The effective model id is resolved once, in priority order:
// explicit modelID argument, then NPCVOICE_TTS_MODEL, then the default.
func NewElevenLabs(apiKey, modelID string, opts ...ElevenLabsOption) (*ElevenLabsClient, error) {
	if apiKey == "" {
		return nil, errors.New("ELEVENLABS_API_KEY is required")
	}
	client := &ElevenLabsClient{
		apiKey:  apiKey,
		modelID: resolveModel(modelID, elevenLabsModelEnv, elevenLabsDefaultModel),
		voiceID: elevenLabsVoiceID,
		baseURL: elevenLabsDefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// ModelID returns the resolved model id.
func (c *ElevenLabsClient) ModelID() string { return c.modelID }

type elevenLabsVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type elevenLabsTTSRequest struct {
	Text          string                  `json:"text"`
	ModelID       string                  `json:"model_id"`
	VoiceSettings elevenLabsVoiceSettings `json:"voice_settings"`
}

// ElevenLabsAPIError captures error details from non-2xx responses.
type ElevenLabsAPIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *ElevenLabsAPIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("elevenlabs api error: %s", e.Status)
	}
	return fmt.Sprintf("elevenlabs api error: %s: %s", e.Status, e.Body)
}

// GenerateSpeech issues one POST to the text-to-speech endpoint and returns
// the raw audio bytes unmodified. No format validation is performed.
func (c *ElevenLabsClient) GenerateSpeech(ctx context.Context, text string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s", strings.TrimRight(c.baseURL, "/"), c.voiceID)

	body := elevenLabsTTSRequest{
		Text:    text,
		ModelID: c.modelID,
		VoiceSettings: elevenLabsVoiceSettings{
			Stability:       elevenLabsStability,
			SimilarityBoost: elevenLabsSimilarityBoost,
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("encode elevenlabs request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("build elevenlabs request: %w", err)
	}
	httpReq.Header.Set("xi-api-key", c.apiKey)
	httpReq.Header.Set("accept", "audio/mpeg")
	httpReq.Header.Set("content-type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		slog.Error("speech synthesis call failed", "model", c.modelID, "err", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		errBody, _ := io.ReadAll(resp.Body)
		apiErr := &ElevenLabsAPIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(errBody)),
		}
		slog.Error("speech synthesis rejected", "model", c.modelID, "status", resp.Status, "body", apiErr.Body)
		return nil, apiErr
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Error("reading speech response failed", "model", c.modelID, "err", err)
		return nil, fmt.Errorf("read elevenlabs response: %w", err)
	}
	return audio, nil
}

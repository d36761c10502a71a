package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
)

const (
	openAIDefaultTextModel = "gpt-4o-mini"
	openAIDefaultTTSModel  = "gpt-4o-mini-tts"
	openAIDefaultVoice     = "alloy"
)

// OpenAIClient wraps the official OpenAI SDK as an alternate provider for
// both text generation and speech synthesis.
type OpenAIClient struct {
	textModel string
	ttsModel  string
	voice     string
	sdk       openai.Client
}

// NewOpenAI constructs an OpenAI client. The apiKey is required.
// Text and TTS models resolve with the same precedence as the default
// providers: explicit argument, then env var, then fixed default.
func NewOpenAI(apiKey, textModel, ttsModel string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY is required")
	}
	sdk := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIClient{
		textModel: resolveModel(textModel, geminiModelEnv, openAIDefaultTextModel),
		ttsModel:  resolveModel(ttsModel, elevenLabsModelEnv, openAIDefaultTTSModel),
		voice:     openAIDefaultVoice,
		sdk:       sdk,
	}, nil
}

// TextModel returns the resolved text model name.
func (c *OpenAIClient) TextModel() string { return c.textModel }

// TTSModel returns the resolved TTS model name.
func (c *OpenAIClient) TTSModel() string { return c.ttsModel }

// GenerateText calls the Responses API with the prompt as the sole user
// input and returns the output text.
func (c *OpenAIClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	req := responses.ResponseNewParams{
		Model: c.textModel,
		Input: responses.ResponseNewParamsInputUnion{OfString: openai.String(prompt)},
	}
	res, err := c.sdk.Responses.New(ctx, req)
	if err != nil {
		slog.Error("text generation call failed", "model", c.textModel, "err", err)
		return "", fmt.Errorf("openai responses: %w", err)
	}
	text := res.OutputText()
	if text == "" {
		slog.Error("text generation returned no usable text", "model", c.textModel, "response", fmt.Sprintf("%+v", res))
		return "", errors.New("response has no output text")
	}
	return text, nil
}

// GenerateSpeech synthesizes MP3 audio via the Audio Speech API and returns
// the raw bytes.
func (c *OpenAIClient) GenerateSpeech(ctx context.Context, text string) ([]byte, error) {
	req := openai.AudioSpeechNewParams{
		Model:          openai.SpeechModel(c.ttsModel),
		Voice:          openai.AudioSpeechNewParamsVoice(c.voice),
		Input:          text,
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
	}
	resp, err := c.sdk.Audio.Speech.New(ctx, req)
	if err != nil {
		slog.Error("speech synthesis call failed", "model", c.ttsModel, "err", err)
		return nil, fmt.Errorf("openai speech: %w", err)
	}
	defer resp.Body.Close()
	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Error("reading speech response failed", "model", c.ttsModel, "err", err)
		return nil, fmt.Errorf("read openai speech response: %w", err)
	}
	return audio, nil
}

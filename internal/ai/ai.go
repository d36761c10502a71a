package ai

import "context"

// TextClient generates a line of dialogue from a prompt.
type TextClient interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// SpeechClient synthesizes speech audio from text.
type SpeechClient interface {
	GenerateSpeech(ctx context.Context, text string) ([]byte, error)
}

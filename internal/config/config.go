package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Providers selectable for each client.
const (
	TextProviderGemini = "gemini"
	TextProviderOpenAI = "openai"

	SpeechProviderElevenLabs = "elevenlabs"
	SpeechProviderOpenAI     = "openai"
)

// Config holds resolved configuration values after merging file, env, and flags.
type Config struct {
	TextProvider   string `json:"textProvider,omitempty"`
	SpeechProvider string `json:"speechProvider,omitempty"`
	TextModel      string `json:"textModel,omitempty"`
	TTSModel       string `json:"ttsModel,omitempty"`
	Scene          string `json:"scene,omitempty"`
	OutDir         string `json:"outDir,omitempty"`
	S3Bucket       string `json:"s3Bucket,omitempty"`
	S3Prefix       string `json:"s3Prefix,omitempty"`
	Region         string `json:"region,omitempty"`
	Debug          bool   `json:"debug,omitempty"`
	Overwrite      bool   `json:"overwrite,omitempty"`

	// Not persisted to file; sourced from env only.
	GeminiAPIKey     string `json:"-"`
	OpenAIAPIKey     string `json:"-"`
	ElevenLabsAPIKey string `json:"-"`
}

// Keys carries the provider API keys sourced from the environment.
type Keys struct {
	Gemini     string
	OpenAI     string
	ElevenLabs string
}

// Overrides represents optional overrides from env or flags.
// Only non-nil pointers are applied during merge.
type Overrides struct {
	TextProvider   *string
	SpeechProvider *string
	TextModel      *string
	TTSModel       *string
	Scene          *string
	OutDir         *string
	S3Bucket       *string
	S3Prefix       *string
	Region         *string
	Debug          *bool
	Overwrite      *bool
}

func Default() Config {
	return Config{
		TextProvider:   TextProviderGemini,
		SpeechProvider: SpeechProviderElevenLabs,
		Scene:          "scene.json",
		S3Prefix:       "npcvoice",
	}
}

// LoadFile reads a JSON config. If file not found, returns defaults and no error.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config file: %w", err)
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

// FromEnv reads env vars and returns overrides and the provider API keys.
// The per-client model vars (NPCVOICE_TEXT_MODEL, NPCVOICE_TTS_MODEL) are
// deliberately not read here; the clients resolve them at construction.
func FromEnv() (Overrides, Keys) {
	var ov Overrides

	if v, ok := os.LookupEnv("NPCVOICE_TEXT_PROVIDER"); ok {
		ov.TextProvider = &v
	}
	if v, ok := os.LookupEnv("NPCVOICE_SPEECH_PROVIDER"); ok {
		ov.SpeechProvider = &v
	}
	if v, ok := os.LookupEnv("NPCVOICE_SCENE"); ok {
		ov.Scene = &v
	}
	if v, ok := os.LookupEnv("NPCVOICE_OUT_DIR"); ok {
		ov.OutDir = &v
	}
	if v, ok := os.LookupEnv("AWS_S3_BUCKET"); ok {
		ov.S3Bucket = &v
	}
	if v, ok := os.LookupEnv("AWS_S3_PREFIX"); ok {
		ov.S3Prefix = &v
	}
	if v, ok := os.LookupEnv("AWS_REGION"); ok {
		ov.Region = &v
	}
	if v, ok := os.LookupEnv("NPCVOICE_DEBUG"); ok {
		if b, err := parseBool(v); err == nil {
			ov.Debug = &b
		}
	}
	if v, ok := os.LookupEnv("NPCVOICE_OVERWRITE"); ok {
		if b, err := parseBool(v); err == nil {
			ov.Overwrite = &b
		}
	}

	keys := Keys{
		Gemini:     os.Getenv("GEMINI_API_KEY"),
		OpenAI:     os.Getenv("OPENAI_API_KEY"),
		ElevenLabs: os.Getenv("ELEVENLABS_API_KEY"),
	}
	return ov, keys
}

func parseBool(s string) (bool, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return false, fmt.Errorf("empty bool")
	}
	if s == "1" || s == "t" || s == "true" || s == "y" || s == "yes" || s == "on" {
		return true, nil
	}
	if s == "0" || s == "f" || s == "false" || s == "n" || s == "no" || s == "off" {
		return false, nil
	}
	return strconv.ParseBool(s)
}

// Merge applies overrides in order: file -> env -> flags.
func Merge(fileCfg Config, env Overrides, flags Overrides, keys Keys) Config {
	cfg := fileCfg

	apply := func(ov Overrides) {
		if ov.TextProvider != nil {
			cfg.TextProvider = *ov.TextProvider
		}
		if ov.SpeechProvider != nil {
			cfg.SpeechProvider = *ov.SpeechProvider
		}
		if ov.TextModel != nil {
			cfg.TextModel = *ov.TextModel
		}
		if ov.TTSModel != nil {
			cfg.TTSModel = *ov.TTSModel
		}
		if ov.Scene != nil {
			cfg.Scene = *ov.Scene
		}
		if ov.OutDir != nil {
			cfg.OutDir = *ov.OutDir
		}
		if ov.S3Bucket != nil {
			cfg.S3Bucket = *ov.S3Bucket
		}
		if ov.S3Prefix != nil {
			cfg.S3Prefix = *ov.S3Prefix
		}
		if ov.Region != nil {
			cfg.Region = *ov.Region
		}
		if ov.Debug != nil {
			cfg.Debug = *ov.Debug
		}
		if ov.Overwrite != nil {
			cfg.Overwrite = *ov.Overwrite
		}
	}

	apply(env)
	apply(flags)

	cfg.GeminiAPIKey = keys.Gemini
	cfg.OpenAIAPIKey = keys.OpenAI
	cfg.ElevenLabsAPIKey = keys.ElevenLabs
	return cfg
}

// Validation helpers
func ValidateForSpeak(cfg Config) error {
	switch cfg.TextProvider {
	case TextProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return errors.New("GEMINI_API_KEY is required for dialogue generation")
		}
	case TextProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return errors.New("OPENAI_API_KEY is required for dialogue generation")
		}
	default:
		return fmt.Errorf("unsupported text provider: %s", cfg.TextProvider)
	}
	switch cfg.SpeechProvider {
	case SpeechProviderElevenLabs:
		if cfg.ElevenLabsAPIKey == "" {
			return errors.New("ELEVENLABS_API_KEY is required for speech synthesis")
		}
	case SpeechProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return errors.New("OPENAI_API_KEY is required for speech synthesis")
		}
	default:
		return fmt.Errorf("unsupported speech provider: %s", cfg.SpeechProvider)
	}
	if cfg.Scene == "" {
		return errors.New("scene file is required")
	}
	return nil
}

func ValidateForPublish(cfg Config) error {
	if cfg.S3Bucket == "" {
		return errors.New("S3 bucket is required for publish")
	}
	if cfg.Region == "" {
		return errors.New("AWS region is required for publish")
	}
	return nil
}

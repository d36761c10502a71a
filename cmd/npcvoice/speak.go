package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"npcvoice/internal/ai"
	cfgpkg "npcvoice/internal/config"
	"npcvoice/internal/dialogue"
	"npcvoice/internal/paths"
	"npcvoice/internal/storage"
)

const (
	mp3ContentType  = "audio/mpeg"
	textContentType = "text/plain; charset=utf-8"
)

var newTextClient = func(ctx context.Context, cfg cfgpkg.Config) (ai.TextClient, error) {
	switch cfg.TextProvider {
	case cfgpkg.TextProviderGemini:
		return ai.NewGemini(ctx, cfg.GeminiAPIKey, cfg.TextModel)
	case cfgpkg.TextProviderOpenAI:
		return ai.NewOpenAI(cfg.OpenAIAPIKey, cfg.TextModel, cfg.TTSModel)
	default:
		return nil, fmt.Errorf("unsupported text provider: %s", cfg.TextProvider)
	}
}

var newSpeechClient = func(cfg cfgpkg.Config) (ai.SpeechClient, error) {
	switch cfg.SpeechProvider {
	case cfgpkg.SpeechProviderElevenLabs:
		return ai.NewElevenLabs(cfg.ElevenLabsAPIKey, cfg.TTSModel)
	case cfgpkg.SpeechProviderOpenAI:
		return ai.NewOpenAI(cfg.OpenAIAPIKey, cfg.TextModel, cfg.TTSModel)
	default:
		return nil, fmt.Errorf("unsupported speech provider: %s", cfg.SpeechProvider)
	}
}

type uploader interface {
	UploadBytes(ctx context.Context, key string, data []byte, contentType string) error
	CopyToLatest(ctx context.Context, entityID, srcKey, filename, contentType string) error
	KeyForLine(entityID string, t time.Time, filename string) string
}

var newUploader = func(ctx context.Context, bucket, prefix, region string) (uploader, error) {
	return storage.New(ctx, bucket, prefix, region)
}

// npcvoice speak
func cmdSpeak(args []string) error {
	var cf commonFlags
	var entity string
	var scene, outDir, textProvider, speechProvider, textModel, ttsModel stringFlag
	var overwrite, publish boolFlag
	var bucket, prefix, region stringFlag

	fs := flag.NewFlagSet("speak", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	addCommonFlags(fs, &cf)
	fs.StringVar(&entity, "entity", "", "Entity id to speak (required)")
	fs.Var(&scene, "scene", "Path to scene file")
	fs.Var(&outDir, "out", "Output directory")
	fs.Var(&textProvider, "text-provider", "Text provider: gemini, openai")
	fs.Var(&speechProvider, "speech-provider", "Speech provider: elevenlabs, openai")
	fs.Var(&textModel, "text-model", "Text model override")
	fs.Var(&ttsModel, "tts-model", "TTS model id override")
	fs.Var(&overwrite, "overwrite", "Allow overwriting existing outputs")
	fs.Var(&publish, "publish", "Upload the generated line to S3")
	fs.Var(&bucket, "bucket", "S3 bucket name (required with --publish)")
	fs.Var(&prefix, "prefix", "S3 key prefix")
	fs.Var(&region, "region", "AWS region (defaults from env)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	setupLogger(cf.logLevel)
	if entity == "" {
		return errors.New("--entity is required")
	}

	fileCfg, err := cfgpkg.LoadFile(cf.config)
	if err != nil {
		return err
	}
	envOv, keys := cfgpkg.FromEnv()
	var flagOv cfgpkg.Overrides
	if scene.set {
		flagOv.Scene = &scene.v
	}
	if outDir.set {
		flagOv.OutDir = &outDir.v
	}
	if textProvider.set {
		flagOv.TextProvider = &textProvider.v
	}
	if speechProvider.set {
		flagOv.SpeechProvider = &speechProvider.v
	}
	if textModel.set {
		flagOv.TextModel = &textModel.v
	}
	if ttsModel.set {
		flagOv.TTSModel = &ttsModel.v
	}
	if overwrite.set {
		flagOv.Overwrite = &overwrite.v
	}
	if bucket.set {
		flagOv.S3Bucket = &bucket.v
	}
	if prefix.set {
		flagOv.S3Prefix = &prefix.v
	}
	if region.set {
		flagOv.Region = &region.v
	}
	cfg := cfgpkg.Merge(fileCfg, envOv, flagOv, keys)

	if err := cfgpkg.ValidateForSpeak(cfg); err != nil {
		return err
	}
	if publish.v {
		if err := cfgpkg.ValidateForPublish(cfg); err != nil {
			return err
		}
	}

	ctx := context.Background()
	textClient, err := newTextClient(ctx, cfg)
	if err != nil {
		return err
	}
	speechClient, err := newSpeechClient(cfg)
	if err != nil {
		return err
	}

	sceneData, err := LoadScene(cfg.Scene)
	if err != nil {
		return err
	}
	builder := paths.New(cfg.OutDir)
	if err := paths.CheckOverwrite([]string{builder.LineAudio(entity), builder.LineText(entity)}, cfg.Overwrite); err != nil {
		return err
	}
	adapter := newSceneAdapter(sceneData, builder, os.Stdout)

	orch := dialogue.New(textClient, speechClient, adapter)
	slog.Info("speak start", "entityID", entity, "textProvider", cfg.TextProvider, "speechProvider", cfg.SpeechProvider)
	orch.GenerateNPCDialogue(ctx, entity)

	if adapter.lastText != "" {
		if err := builder.EnsureOutDir(entity); err != nil {
			return err
		}
		if err := os.WriteFile(builder.LineText(entity), []byte(adapter.lastText+"\n"), 0o644); err != nil {
			return err
		}
	}

	if publish.v {
		if err := publishLine(ctx, cfg, entity, adapter); err != nil {
			return err
		}
	}

	slog.Info("speak completed", "entityID", entity, "audioBytes", len(adapter.lastAudio))
	return nil
}

func publishLine(ctx context.Context, cfg cfgpkg.Config, entityID string, adapter *sceneAdapter) error {
	if len(adapter.lastAudio) == 0 {
		slog.Warn("nothing to publish, no audio generated", "entityID", entityID)
		return nil
	}
	up, err := newUploader(ctx, cfg.S3Bucket, cfg.S3Prefix, cfg.Region)
	if err != nil {
		return err
	}
	now := time.Now()

	audioKey := up.KeyForLine(entityID, now, "line.mp3")
	if err := up.UploadBytes(ctx, audioKey, adapter.lastAudio, mp3ContentType); err != nil {
		return err
	}
	if err := up.CopyToLatest(ctx, entityID, audioKey, "line.mp3", mp3ContentType); err != nil {
		return err
	}

	textKey := up.KeyForLine(entityID, now, "line.txt")
	if err := up.UploadBytes(ctx, textKey, []byte(adapter.lastText+"\n"), textContentType); err != nil {
		return err
	}
	if err := up.CopyToLatest(ctx, entityID, textKey, "line.txt", textContentType); err != nil {
		return err
	}

	slog.Info("publish completed", "entityID", entityID, "bucket", cfg.S3Bucket, "audioKey", audioKey)
	return nil
}

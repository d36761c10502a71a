package dialogue

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"npcvoice/internal/ai"
)

// FallbackText is displayed whenever no dialogue line could be produced.
const FallbackText = "..."

// Orchestrator drives the end-to-end flow for one dialogue request:
// gather context, prompt, generate, display, synthesize, play. It owns the
// two provider clients and a host-supplied Adapter, all immutable after
// construction and safe to share across requests.
type Orchestrator struct {
	text    ai.TextClient
	speech  ai.SpeechClient
	adapter Adapter
}

// New constructs an Orchestrator over the given clients and adapter.
func New(text ai.TextClient, speech ai.SpeechClient, adapter Adapter) *Orchestrator {
	return &Orchestrator{text: text, speech: speech, adapter: adapter}
}

// GenerateNPCDialogue produces and delivers one line of dialogue for the
// given entity. It never returns a failure to the caller: every outcome is
// observed through Adapter side effects. On any failure before text is
// displayed, the fallback text is shown instead; a speech or playback
// failure after display is logged and the displayed text stands alone.
func (o *Orchestrator) GenerateNPCDialogue(ctx context.Context, entityID string) {
	log := slog.With("entityID", entityID, "requestID", uuid.NewString())

	entity, err := o.adapter.EntityState(ctx, entityID)
	if err != nil {
		o.fallback(log, entityID, "entity state fetch failed", err)
		return
	}
	player, err := o.adapter.PlayerState(ctx)
	if err != nil {
		o.fallback(log, entityID, "player state fetch failed", err)
		return
	}
	world, err := o.adapter.GameState(ctx)
	if err != nil {
		o.fallback(log, entityID, "game state fetch failed", err)
		return
	}

	prompt := BuildPrompt(entity, player, world)
	text, err := o.text.GenerateText(ctx, prompt)
	if err != nil {
		o.fallback(log, entityID, "dialogue generation failed", err)
		return
	}

	// Display before audio is ready to minimize perceived latency.
	o.adapter.ShowDialogue(text, ShowOptions{EntityID: entityID})
	log.Info("dialogue displayed", "chars", len(text))

	audio, err := o.speech.GenerateSpeech(ctx, text)
	if err != nil {
		// The displayed text stands alone; the host is not notified.
		log.Warn("speech synthesis failed, showing text only", "err", err)
		return
	}

	if err := o.adapter.PlayAudio(ctx, audio, entityID); err != nil {
		log.Warn("audio playback failed", "err", err)
		return
	}
	log.Info("dialogue delivered", "audioBytes", len(audio))
}

func (o *Orchestrator) fallback(log *slog.Logger, entityID, msg string, err error) {
	log.Error(msg, "err", err)
	o.adapter.ShowDialogue(FallbackText, ShowOptions{EntityID: entityID})
}

package dialogue

import (
	"context"
	"time"
)

// EntityState describes the speaking game entity.
type EntityState struct {
	Name        string         `json:"name"`
	Personality string         `json:"personality,omitempty"`
	Extra       map[string]any `json:"extra,omitempty"`
}

// PlayerState describes the player the entity is speaking to.
type PlayerState struct {
	Name  string         `json:"name"`
	Level int            `json:"level"`
	Extra map[string]any `json:"extra,omitempty"`
}

// WorldState describes the surrounding game world.
type WorldState struct {
	Location  string         `json:"location"`
	TimeOfDay string         `json:"timeOfDay"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// ShowOptions scope a dialogue display to an entity, with an optional
// display duration. Zero duration leaves timing to the host.
type ShowOptions struct {
	EntityID string
	Duration time.Duration
}

// Adapter is the capability set the host game supplies. The Orchestrator
// consumes it for UI, audio playback, and state queries; it never calls
// anything else on the host.
type Adapter interface {
	PlayAudio(ctx context.Context, audio []byte, entityID string) error
	StopAudio(entityID string)
	ShowDialogue(text string, opts ShowOptions)
	HideDialogue(entityID string)
	GameState(ctx context.Context) (WorldState, error)
	PlayerState(ctx context.Context) (PlayerState, error)
	EntityState(ctx context.Context, entityID string) (EntityState, error)
}

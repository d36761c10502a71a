package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"npcvoice/internal/dialogue"
	"npcvoice/internal/paths"
)

// Scene is the JSON description of game state the manual runner plays
// against in place of a live host game.
type Scene struct {
	Entities map[string]dialogue.EntityState `json:"entities"`
	Player   dialogue.PlayerState            `json:"player"`
	World    dialogue.WorldState             `json:"world"`
}

// LoadScene reads and parses a scene file.
func LoadScene(path string) (Scene, error) {
	var scene Scene
	b, err := os.ReadFile(path)
	if err != nil {
		return scene, fmt.Errorf("read scene file: %w", err)
	}
	if err := json.Unmarshal(b, &scene); err != nil {
		return scene, fmt.Errorf("parse scene file: %w", err)
	}
	return scene, nil
}

// sceneAdapter implements dialogue.Adapter for the manual runner: dialogue
// goes to stdout, audio goes to the entity's output directory.
type sceneAdapter struct {
	scene  Scene
	out    *paths.Builder
	stdout io.Writer

	lastText  string
	lastAudio []byte
	audioPath string
}

func newSceneAdapter(scene Scene, out *paths.Builder, stdout io.Writer) *sceneAdapter {
	return &sceneAdapter{scene: scene, out: out, stdout: stdout}
}

func (a *sceneAdapter) PlayAudio(ctx context.Context, audio []byte, entityID string) error {
	if err := a.out.EnsureOutDir(entityID); err != nil {
		return err
	}
	path := a.out.LineAudio(entityID)
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return err
	}
	a.lastAudio = audio
	a.audioPath = path
	slog.Info("audio written", "entityID", entityID, "path", path, "bytes", len(audio))
	return nil
}

func (a *sceneAdapter) StopAudio(entityID string) {}

func (a *sceneAdapter) ShowDialogue(text string, opts dialogue.ShowOptions) {
	a.lastText = text
	fmt.Fprintf(a.stdout, "[%s] %s\n", opts.EntityID, text)
}

func (a *sceneAdapter) HideDialogue(entityID string) {}

func (a *sceneAdapter) GameState(ctx context.Context) (dialogue.WorldState, error) {
	return a.scene.World, nil
}

func (a *sceneAdapter) PlayerState(ctx context.Context) (dialogue.PlayerState, error) {
	return a.scene.Player, nil
}

func (a *sceneAdapter) EntityState(ctx context.Context, entityID string) (dialogue.EntityState, error) {
	entity, ok := a.scene.Entities[entityID]
	if !ok {
		return dialogue.EntityState{}, fmt.Errorf("scene has no entity %q", entityID)
	}
	return entity, nil
}

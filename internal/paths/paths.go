package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	defaultBaseDir      = "out"
	defaultAudioFile    = "line.mp3"
	defaultLineFile     = "line.txt"
	defaultMetaFilename = "meta.json"
)

// Builder constructs output paths rooted at Base (default "out").
type Builder struct {
	Base string
}

func New(base string) *Builder {
	if base == "" {
		base = defaultBaseDir
	}
	return &Builder{Base: base}
}

// OutDir returns the entity-based output directory: Base/<entityID>
func (b *Builder) OutDir(entityID string) string {
	return filepath.Join(b.Base, entityID)
}

func (b *Builder) LineAudio(entityID string) string {
	return filepath.Join(b.OutDir(entityID), defaultAudioFile)
}
func (b *Builder) LineText(entityID string) string {
	return filepath.Join(b.OutDir(entityID), defaultLineFile)
}
func (b *Builder) LineMeta(entityID string) string {
	return filepath.Join(b.OutDir(entityID), defaultMetaFilename)
}

// EnsureOutDir creates the entity directory if it does not exist.
func (b *Builder) EnsureOutDir(entityID string) error {
	return os.MkdirAll(b.OutDir(entityID), 0o755)
}

// CheckOverwrite enforces overwrite behavior. If any path exists and overwrite is false, returns error.
func CheckOverwrite(paths []string, overwrite bool) error {
	if overwrite {
		return nil
	}
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return fmt.Errorf("refusing to overwrite existing file: %s (use --overwrite)", p)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("checking file: %s: %w", p, err)
		}
	}
	return nil
}

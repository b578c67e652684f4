package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"ringtimer/internal/core/model"

	"gopkg.in/yaml.v3"
)

const presetsFileName = "presets.yaml"

type yamlPresets struct {
	Presets []model.SavedTimer `yaml:"presets"`
}

// PresetFile stores presets in a YAML file. Every call reads and rewrites the whole file.
type PresetFile struct {
	mu   sync.Mutex
	path string
}

// NewPresetFile returns a preset file at path. The file is created on first write.
func NewPresetFile(path string) *PresetFile {
	return &PresetFile{path: path}
}

// Path returns the file location.
func (file *PresetFile) Path() string {
	return file.path
}

// Add appends saved to the file.
func (file *PresetFile) Add(saved model.SavedTimer) error {
	file.mu.Lock()
	defer file.mu.Unlock()

	entries, err := file.readLocked()
	if err != nil {
		return err
	}
	for _, existing := range entries {
		if existing.ID == saved.ID {
			return fmt.Errorf("add preset %d: duplicate id", saved.ID)
		}
	}
	return file.writeLocked(append(entries, saved))
}

// Remove deletes the preset with id. Unknown ids are ignored.
func (file *PresetFile) Remove(id int64) error {
	file.mu.Lock()
	defer file.mu.Unlock()

	entries, err := file.readLocked()
	if err != nil {
		return err
	}
	kept := entries[:0]
	for _, saved := range entries {
		if saved.ID != id {
			kept = append(kept, saved)
		}
	}
	if len(kept) == len(entries) {
		return nil
	}
	return file.writeLocked(kept)
}

// List returns presets in file order.
func (file *PresetFile) List() ([]model.SavedTimer, error) {
	file.mu.Lock()
	defer file.mu.Unlock()
	return file.readLocked()
}

func (file *PresetFile) readLocked() ([]model.SavedTimer, error) {
	rawData, err := os.ReadFile(file.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read presets file: %w", err)
	}

	var fileData yamlPresets
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return nil, fmt.Errorf("parse presets yaml: %w", err)
	}
	return fileData.Presets, nil
}

func (file *PresetFile) writeLocked(entries []model.SavedTimer) error {
	if err := os.MkdirAll(filepath.Dir(file.path), 0o755); err != nil {
		return fmt.Errorf("create presets directory: %w", err)
	}
	serialized, err := yaml.Marshal(yamlPresets{Presets: entries})
	if err != nil {
		return fmt.Errorf("marshal presets yaml: %w", err)
	}
	tmpPath := file.path + ".tmp"
	if err := os.WriteFile(tmpPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write presets file: %w", err)
	}
	if err := os.Rename(tmpPath, file.path); err != nil {
		return fmt.Errorf("replace presets file: %w", err)
	}
	return nil
}

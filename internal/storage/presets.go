package storage

import (
	"fmt"
	"path/filepath"

	"ringtimer/internal/core/model"
	"ringtimer/internal/ui/preferences"
)

// PresetSink is a preset backend that owns additions, deletions and listing.
type PresetSink interface {
	Add(saved model.SavedTimer) error
	Remove(id int64) error
	List() ([]model.SavedTimer, error)
	Close() error
}

// OpenPresetSink opens the backend named in settings under dir.
// The memory backend returns nil: presets then live only in the session.
func OpenPresetSink(backend, dir string) (PresetSink, error) {
	switch backend {
	case preferences.BackendMemory:
		return nil, nil
	case preferences.BackendYAML, "":
		return presetFileSink{NewPresetFile(filepath.Join(dir, presetsFileName))}, nil
	case preferences.BackendSQLite:
		store, err := NewSQLitePresets(filepath.Join(dir, presetsDBFileName))
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("open preset sink: unknown backend %q", backend)
	}
}

type presetFileSink struct {
	*PresetFile
}

func (presetFileSink) Close() error {
	return nil
}

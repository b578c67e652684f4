package storage

import (
	"os"
	"path/filepath"
	"testing"

	"ringtimer/internal/core/model"
	"ringtimer/internal/platform"
	"ringtimer/internal/ui/preferences"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAppName = "ringtimer-test"

func sampleTimer(id int64, title string) model.SavedTimer {
	return model.SavedTimer{
		ID:            id,
		Title:         title,
		Minutes:       5,
		Seconds:       30,
		AudioFileName: model.DefaultAudioName,
		ElapsedTime:   10,
	}
}

func TestLoadSettingsMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv(platform.ConfigDirEnv, t.TempDir())

	settings, err := LoadSettings(testAppName)
	require.NoError(t, err)
	assert.Equal(t, preferences.DefaultSettings(), settings)
}

func TestSettingsRoundTrip(t *testing.T) {
	t.Setenv(platform.ConfigDirEnv, t.TempDir())

	saved := preferences.DefaultSettings()
	saved.Title = "Tea"
	saved.Duration = 180
	saved.Elapsed = 20
	saved.Audio = model.AudioRef{File: "/sounds/gong.wav", Name: "gong"}
	saved.Muted = true
	saved.PresetBackend = preferences.BackendSQLite
	saved.LogLevel = "debug"

	require.NoError(t, SaveSettings(testAppName, saved))

	loaded, err := LoadSettings(testAppName)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}

func writeSettingsFile(t *testing.T, raw string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(platform.ConfigDirEnv, dir)

	path := filepath.Join(dir, testAppName, settingsFileName)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))
}

func TestLoadSettingsRejectsDurationAboveCeiling(t *testing.T) {
	writeSettingsFile(t, "duration_seconds: 4000\n")

	settings, err := LoadSettings(testAppName)
	require.ErrorIs(t, err, model.ErrConfiguration)
	var configErr *model.ConfigurationError
	require.ErrorAs(t, err, &configErr)
	assert.Equal(t, "duration", configErr.Field)
	assert.Equal(t, 4000, configErr.Value)
	assert.Equal(t, preferences.DefaultSettings(), settings)
}

func TestLoadSettingsRejectsElapsedBeyondDuration(t *testing.T) {
	writeSettingsFile(t, "duration_seconds: 600\nelapsed_seconds: 900\n")

	_, err := LoadSettings(testAppName)
	var configErr *model.ConfigurationError
	require.ErrorAs(t, err, &configErr)
	assert.Equal(t, "elapsed", configErr.Field)
	assert.Equal(t, 900, configErr.Value)
}

func TestLoadSettingsRejectsNegativeElapsed(t *testing.T) {
	writeSettingsFile(t, "elapsed_seconds: -5\n")

	_, err := LoadSettings(testAppName)
	assert.ErrorIs(t, err, model.ErrConfiguration)
}

func TestLoadSettingsIgnoresUnknownBackend(t *testing.T) {
	writeSettingsFile(t, "duration_seconds: 900\nelapsed_seconds: 60\npreset_backend: postgres\n")

	settings, err := LoadSettings(testAppName)
	require.NoError(t, err)
	assert.Equal(t, 900, settings.Duration)
	assert.Equal(t, 60, settings.Elapsed)
	assert.Equal(t, preferences.BackendYAML, settings.PresetBackend)
}

func TestLoadSettingsZeroDurationIsKept(t *testing.T) {
	writeSettingsFile(t, "duration_seconds: 0\n")

	settings, err := LoadSettings(testAppName)
	require.NoError(t, err)
	assert.Equal(t, 0, settings.Duration)
}

func TestLoadSettingsRejectsMalformedYaml(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(platform.ConfigDirEnv, dir)

	path := filepath.Join(dir, testAppName, settingsFileName)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("title: [unclosed\n"), 0o644))

	_, err := LoadSettings(testAppName)
	assert.Error(t, err)
}

func TestPresetFileAddListRemove(t *testing.T) {
	file := NewPresetFile(filepath.Join(t.TempDir(), "nested", presetsFileName))

	entries, err := file.List()
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, file.Add(sampleTimer(1, "Work")))
	require.NoError(t, file.Add(sampleTimer(2, "Break")))
	assert.Error(t, file.Add(sampleTimer(1, "Again")))

	entries, err = file.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Work", entries[0].Title)
	assert.Equal(t, "Break", entries[1].Title)

	require.NoError(t, file.Remove(1))
	require.NoError(t, file.Remove(42))

	entries, err = file.List()
	require.NoError(t, err)
	assert.Equal(t, []model.SavedTimer{sampleTimer(2, "Break")}, entries)
}

func TestSQLitePresetsKeepInsertionOrder(t *testing.T) {
	store, err := NewSQLitePresets(filepath.Join(t.TempDir(), presetsDBFileName))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.Add(sampleTimer(30, "Later")))
	require.NoError(t, store.Add(sampleTimer(10, "Earlier id")))
	assert.Error(t, store.Add(sampleTimer(30, "Duplicate")))

	entries, err := store.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(30), entries[0].ID)
	assert.Equal(t, int64(10), entries[1].ID)
	assert.Equal(t, sampleTimer(10, "Earlier id"), entries[1])

	require.NoError(t, store.Remove(30))
	require.NoError(t, store.Remove(99))

	entries, err = store.List()
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSQLitePresetsRequireDSN(t *testing.T) {
	_, err := NewSQLitePresets("")
	assert.Error(t, err)
}

func TestOpenPresetSink(t *testing.T) {
	dir := t.TempDir()

	sink, err := OpenPresetSink(preferences.BackendMemory, dir)
	require.NoError(t, err)
	assert.Nil(t, sink)

	sink, err = OpenPresetSink(preferences.BackendYAML, dir)
	require.NoError(t, err)
	require.NoError(t, sink.Add(sampleTimer(1, "Yaml")))
	require.NoError(t, sink.Close())
	assert.FileExists(t, filepath.Join(dir, presetsFileName))

	sink, err = OpenPresetSink(preferences.BackendSQLite, dir)
	require.NoError(t, err)
	require.NoError(t, sink.Add(sampleTimer(1, "Sql")))
	require.NoError(t, sink.Close())
	assert.FileExists(t, filepath.Join(dir, presetsDBFileName))

	_, err = OpenPresetSink("postgres", dir)
	assert.Error(t, err)
}

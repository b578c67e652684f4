package presets

import (
	"errors"
	"testing"
	"time"

	"ringtimer/internal/core/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(millis int64) func() time.Time {
	return func() time.Time {
		return time.UnixMilli(millis)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	store := NewLocal(nil)
	state := model.TimerState{Title: "Focus", TotalDuration: 905, Elapsed: 260, Remaining: 645}

	saved, err := store.Save(state, model.AudioRef{File: "/tmp/bell.wav", Name: "bell"})
	require.NoError(t, err)
	assert.Equal(t, 15, saved.Minutes)
	assert.Equal(t, 5, saved.Seconds)

	loaded, err := store.Load(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
	assert.Equal(t, model.TimerConfig{Title: "Focus", TotalDuration: 905, InitialElapsed: 260}, loaded.Config())
	assert.Equal(t, model.AudioRef{File: "/tmp/bell.wav", Name: "bell"}, loaded.Audio())
}

func TestSaveDefaultsAudioName(t *testing.T) {
	store := NewLocal(nil)
	saved, err := store.Save(model.TimerState{Title: "Morning", TotalDuration: 300}, model.AudioRef{})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultAudioName, saved.AudioFileName)
	assert.Empty(t, saved.AudioFile)
}

func TestSaveAssignsUniqueIncreasingIDs(t *testing.T) {
	store := NewLocal([]model.SavedTimer{{ID: 5000, Title: "Seed", Minutes: 1}})
	store.SetClock(fixedClock(1000))

	first, err := store.Save(model.TimerState{Title: "a", TotalDuration: 1}, model.AudioRef{})
	require.NoError(t, err)
	second, err := store.Save(model.TimerState{Title: "b", TotalDuration: 1}, model.AudioRef{})
	require.NoError(t, err)

	assert.Equal(t, int64(5001), first.ID)
	assert.Equal(t, int64(5002), second.ID)

	store.SetClock(fixedClock(9000))
	third, err := store.Save(model.TimerState{Title: "c", TotalDuration: 1}, model.AudioRef{})
	require.NoError(t, err)
	assert.Equal(t, int64(9000), third.ID)
}

func TestListPreservesInsertionOrder(t *testing.T) {
	store := NewLocal([]model.SavedTimer{
		{ID: 3, Title: "Read", Minutes: 15, ElapsedTime: 260},
	})
	for _, title := range []string{"one", "two", "three"} {
		_, err := store.Save(model.TimerState{Title: title, TotalDuration: 60}, model.AudioRef{})
		require.NoError(t, err)
	}

	entries, err := store.List()
	require.NoError(t, err)
	var titles []string
	for _, saved := range entries {
		titles = append(titles, saved.Title)
	}
	assert.Equal(t, []string{"Read", "one", "two", "three"}, titles)
}

func TestDeleteTwiceIsNoop(t *testing.T) {
	store := NewLocal([]model.SavedTimer{
		{ID: 1, Title: "Morning", Minutes: 5},
		{ID: 2, Title: "Exercise", Minutes: 10},
	})

	require.NoError(t, store.Delete(1))
	entries, _ := store.List()
	assert.Len(t, entries, 1)

	require.NoError(t, store.Delete(1))
	require.NoError(t, store.Delete(42))
	entries, _ = store.List()
	assert.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].ID)
}

func TestLoadUnknownID(t *testing.T) {
	store := NewLocal(nil)
	_, err := store.Load(7)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadDoesNotMutate(t *testing.T) {
	store := NewLocal([]model.SavedTimer{{ID: 1, Title: "Morning", Minutes: 5}})
	_, err := store.Load(1)
	require.NoError(t, err)
	entries, _ := store.List()
	assert.Len(t, entries, 1)
}

func TestNewLocalDropsDuplicateIDs(t *testing.T) {
	store := NewLocal([]model.SavedTimer{
		{ID: 1, Title: "first"},
		{ID: 1, Title: "second"},
	})
	entries, _ := store.List()
	require.Len(t, entries, 1)
	assert.Equal(t, "first", entries[0].Title)
}

func TestForwardingSendsToSinkOnly(t *testing.T) {
	var received []model.SavedTimer
	store := NewForwarding(SinkFunc(func(saved model.SavedTimer) error {
		received = append(received, saved)
		return nil
	}), nil)

	saved, err := store.Save(model.TimerState{Title: "Morning", TotalDuration: 300}, model.AudioRef{})
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, saved, received[0])

	entries, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestForwardingSinkErrorIsReturned(t *testing.T) {
	store := NewForwarding(SinkFunc(func(model.SavedTimer) error {
		return errors.New("disk full")
	}), nil)
	_, err := store.Save(model.TimerState{Title: "x", TotalDuration: 1}, model.AudioRef{})
	assert.ErrorContains(t, err, "disk full")
}

type memorySink struct {
	entries []model.SavedTimer
}

func (sink *memorySink) Add(saved model.SavedTimer) error {
	sink.entries = append(sink.entries, saved)
	return nil
}

func (sink *memorySink) Remove(id int64) error {
	for index, saved := range sink.entries {
		if saved.ID == id {
			sink.entries = append(sink.entries[:index], sink.entries[index+1:]...)
			break
		}
	}
	return nil
}

func (sink *memorySink) List() ([]model.SavedTimer, error) {
	return append([]model.SavedTimer(nil), sink.entries...), nil
}

func TestForwardingUsesListerAndRemover(t *testing.T) {
	sink := &memorySink{}
	store := NewForwarding(sink, []model.SavedTimer{{ID: 99, Title: "ignored"}})

	saved, err := store.Save(model.TimerState{Title: "Tea", TotalDuration: 180, Elapsed: 20}, model.AudioRef{})
	require.NoError(t, err)

	loaded, err := store.Load(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, 180, loaded.Duration())
	assert.Equal(t, 20, loaded.ElapsedTime)

	require.NoError(t, store.Delete(saved.ID))
	assert.Empty(t, sink.entries)
}

func TestForwardingFallsBackToSeedList(t *testing.T) {
	store := NewForwarding(SinkFunc(func(model.SavedTimer) error { return nil }), []model.SavedTimer{
		{ID: 3, Title: "Read", Minutes: 15, ElapsedTime: 260},
	})

	loaded, err := store.Load(3)
	require.NoError(t, err)
	assert.Equal(t, "Read", loaded.Title)

	require.NoError(t, store.Delete(3))
	_, err = store.Load(3)
	assert.ErrorIs(t, err, ErrNotFound)
}

// Package audio provides the alert sound played when a countdown ends.
package audio

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
)

// ErrNoOutput indicates the player has nowhere to send samples.
var ErrNoOutput = errors.New("no audio output")

const resampleQuality = 4

// Output plays streamers. It mirrors the beep speaker package so tests can substitute it.
type Output interface {
	SampleRate() beep.SampleRate
	Play(streamer beep.Streamer)
	Lock()
	Unlock()
}

// Player plays one decoded sound from the start each time Play is called.
type Player struct {
	mu     sync.Mutex
	output Output
	buffer *beep.Buffer
	volume float64
	cursor beep.StreamSeeker
	active atomic.Pointer[beep.Ctrl]
}

// NewPlayer creates a player for buffer. volume is in powers of two, 0 keeps the source level.
func NewPlayer(output Output, buffer *beep.Buffer, volume float64) *Player {
	return &Player{
		output: output,
		buffer: buffer,
		volume: volume,
	}
}

// Play starts the sound from the beginning, cutting off a previous playback.
func (player *Player) Play() error {
	if player.output == nil {
		return ErrNoOutput
	}
	if player.buffer == nil || player.buffer.Len() == 0 {
		return fmt.Errorf("play alert: empty sound")
	}
	player.Stop()

	player.mu.Lock()
	defer player.mu.Unlock()

	cursor := player.buffer.Streamer(0, player.buffer.Len())
	player.cursor = cursor

	var stream beep.Streamer = cursor
	if from, to := player.buffer.Format().SampleRate, player.output.SampleRate(); from != to {
		stream = beep.Resample(resampleQuality, from, to, stream)
	}
	ctrl := &beep.Ctrl{}
	ctrl.Streamer = beep.Seq(
		&effects.Volume{Streamer: stream, Base: 2, Volume: player.volume},
		beep.Callback(func() {
			player.active.CompareAndSwap(ctrl, nil)
		}),
	)
	player.active.Store(ctrl)
	player.output.Play(ctrl)
	return nil
}

// Stop silences the current playback, if any.
func (player *Player) Stop() {
	ctrl := player.active.Swap(nil)
	if ctrl == nil || player.output == nil {
		return
	}
	player.output.Lock()
	ctrl.Paused = true
	ctrl.Streamer = nil
	player.output.Unlock()
}

// Rewind moves the sound back to its first sample.
func (player *Player) Rewind() error {
	player.mu.Lock()
	defer player.mu.Unlock()
	if player.cursor == nil {
		return nil
	}
	if player.output != nil {
		player.output.Lock()
		defer player.output.Unlock()
	}
	if err := player.cursor.Seek(0); err != nil {
		return fmt.Errorf("rewind alert: %w", err)
	}
	return nil
}

// Playing reports whether the sound is still being played.
func (player *Player) Playing() bool {
	return player.active.Load() != nil
}

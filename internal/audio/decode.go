package audio

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ringtimer/internal/core/model"
	"ringtimer/internal/core/timekeeper"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/wav"
)

// ErrUnsupportedFormat indicates a sound file type that cannot be decoded.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

const (
	// DefaultSampleRate is used for the built-in tone and the speaker.
	DefaultSampleRate = beep.SampleRate(44100)

	displayNameLimit = 7
	toneFrequency    = 880.0
	toneAmplitude    = 0.4
	toneOn           = 200 * time.Millisecond
	toneOff          = 150 * time.Millisecond
	toneLength       = 2 * time.Second
)

// Loader turns audio references into players on a shared output.
type Loader struct {
	output Output
	volume float64
}

// NewLoader creates a Loader writing to output.
func NewLoader(output Output, volume float64) *Loader {
	return &Loader{output: output, volume: volume}
}

// Load decodes ref into a new Player.
func (loader *Loader) Load(ref model.AudioRef) (*Player, error) {
	buffer, err := Decode(ref)
	if err != nil {
		return nil, err
	}
	slog.Debug("alert sound loaded", "file", ref.File, "samples", buffer.Len())
	return NewPlayer(loader.output, buffer, loader.volume), nil
}

// LoadAlert decodes ref into an engine alert.
func (loader *Loader) LoadAlert(ref model.AudioRef) (timekeeper.Alert, error) {
	player, err := loader.Load(ref)
	if err != nil {
		return nil, err
	}
	return player, nil
}

// Decode reads the sound ref points at, or the built-in tone for the default reference.
func Decode(ref model.AudioRef) (*beep.Buffer, error) {
	if ref.IsDefault() {
		return DefaultTone(), nil
	}

	file, err := os.Open(ref.File)
	if err != nil {
		return nil, fmt.Errorf("open sound file: %w", err)
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(filepath.Ext(ref.File)) {
	case ".wav":
		streamer, format, err = wav.Decode(file)
	case ".mp3":
		streamer, format, err = mp3.Decode(file)
	default:
		file.Close()
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(ref.File), ErrUnsupportedFormat)
	}
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(ref.File), err)
	}
	defer streamer.Close()

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)
	return buffer, nil
}

// DefaultTone synthesizes the built-in alert: short 880 Hz beeps for two seconds.
func DefaultTone() *beep.Buffer {
	format := beep.Format{SampleRate: DefaultSampleRate, NumChannels: 2, Precision: 2}
	buffer := beep.NewBuffer(format)

	rate := float64(format.SampleRate)
	on := format.SampleRate.N(toneOn)
	period := format.SampleRate.N(toneOn + toneOff)
	position := 0
	tone := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			value := 0.0
			if position%period < on {
				value = toneAmplitude * math.Sin(2*math.Pi*toneFrequency*float64(position)/rate)
			}
			samples[i][0] = value
			samples[i][1] = value
			position++
		}
		return len(samples), true
	})
	buffer.Append(beep.Take(format.SampleRate.N(toneLength), tone))
	return buffer
}

// DisplayName shortens a sound file path to a label: the base name without
// extension, cut to seven characters plus an ellipsis.
func DisplayName(path string) string {
	if path == "" {
		return model.DefaultAudioName
	}
	base := filepath.Base(path)
	name := []rune(strings.TrimSuffix(base, filepath.Ext(base)))
	if len(name) > displayNameLimit {
		return string(name[:displayNameLimit]) + "..."
	}
	return string(name)
}

// Ref builds the reference for a chosen sound file.
func Ref(path string) model.AudioRef {
	return model.AudioRef{File: path, Name: DisplayName(path)}
}

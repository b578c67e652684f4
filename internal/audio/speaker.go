package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

var (
	speakerOnce sync.Once
	speakerErr  error
)

type speakerOutput struct {
	rate beep.SampleRate
}

// NewSpeaker initializes the system speaker once and returns it as an Output.
func NewSpeaker(rate beep.SampleRate) (Output, error) {
	speakerOnce.Do(func() {
		if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
			speakerErr = fmt.Errorf("init speaker: %w", err)
		}
	})
	if speakerErr != nil {
		return nil, speakerErr
	}
	return speakerOutput{rate: rate}, nil
}

func (output speakerOutput) SampleRate() beep.SampleRate {
	return output.rate
}

func (output speakerOutput) Play(streamer beep.Streamer) {
	speaker.Play(streamer)
}

func (output speakerOutput) Lock() {
	speaker.Lock()
}

func (output speakerOutput) Unlock() {
	speaker.Unlock()
}

package animation

import (
	"context"
	"sync"
	"time"
)

// Config contains tween timing values.
type Config struct {
	Duration      time.Duration
	FrameInterval time.Duration
	Curve         Curve
}

// Engine tweens a single value, such as the ring fraction, towards a target.
type Engine struct {
	mu      sync.Mutex
	config  Config
	update  func(float64)
	cancel  context.CancelFunc
	current float64
	target  float64
}

// New creates a new animation engine that reports every frame to update.
func New(config Config, update func(float64)) *Engine {
	if config.FrameInterval <= 0 {
		config.FrameInterval = DefaultConfig().FrameInterval
	}
	if config.Curve == nil {
		config.Curve = Linear
	}
	return &Engine{
		config: config,
		update: update,
	}
}

// AnimateTo starts a transition from the current value to target, replacing any active one.
func (engine *Engine) AnimateTo(ctx context.Context, target float64) {
	engine.mu.Lock()
	if engine.cancel != nil {
		engine.cancel()
		engine.cancel = nil
	}
	from := engine.current
	engine.target = target
	if engine.config.Duration <= 0 || from == target {
		engine.current = target
		engine.mu.Unlock()
		engine.update(target)
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	engine.cancel = cancel
	engine.mu.Unlock()

	go engine.run(runCtx, from, target)
}

// Jump sets the value immediately, cancelling any active transition.
func (engine *Engine) Jump(value float64) {
	engine.mu.Lock()
	if engine.cancel != nil {
		engine.cancel()
		engine.cancel = nil
	}
	engine.current = value
	engine.target = value
	engine.mu.Unlock()

	engine.update(value)
}

// Current returns the last value reported to update.
func (engine *Engine) Current() float64 {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.current
}

// Target returns the value the engine is moving towards.
func (engine *Engine) Target() float64 {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.target
}

// Stop terminates any active animation, leaving the value where it is.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.cancel != nil {
		engine.cancel()
		engine.cancel = nil
	}
}

func (engine *Engine) run(ctx context.Context, from, target float64) {
	started := time.Now()
	for {
		if !sleepWithContext(ctx, engine.config.FrameInterval) {
			return
		}

		progress := float64(time.Since(started)) / float64(engine.config.Duration)
		value := target
		if progress < 1 {
			value = from + (target-from)*engine.config.Curve(progress)
		}

		engine.mu.Lock()
		if ctx.Err() != nil {
			engine.mu.Unlock()
			return
		}
		engine.current = value
		engine.mu.Unlock()

		engine.update(value)
		if progress >= 1 {
			return
		}
	}
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

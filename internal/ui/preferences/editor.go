package preferences

import (
	"errors"
	"fmt"
	"log/slog"

	"ringtimer/internal/audio"
	"ringtimer/internal/core/model"
)

// Target receives committed drafts.
type Target interface {
	ApplySettings(duration, initialElapsed int, title string) error
	ApplyAudio(ref model.AudioRef) error
}

// Draft holds edited values that have not been committed.
type Draft struct {
	Title   string
	Minutes int
	Seconds int
	Elapsed int
	Audio   model.AudioRef
}

// Duration returns the drafted length in seconds.
func (draft Draft) Duration() int {
	return draft.Minutes*60 + draft.Seconds
}

// Editor stages timer settings and commits them atomically.
// Numeric input is clamped when it is entered, never at commit.
type Editor struct {
	target  Target
	draft    Draft
	original model.AudioRef
	open     bool
	lastErr  error
}

// NewEditor creates a closed editor that commits into target.
func NewEditor(target Target) *Editor {
	return &Editor{target: target}
}

// Open starts editing from the current timer state.
func (editor *Editor) Open(state model.TimerState, ref model.AudioRef) {
	config := state.Config()
	editor.draft = Draft{
		Title:   config.Title,
		Minutes: config.Minutes(),
		Seconds: config.Seconds(),
		Elapsed: state.InitialElapsed,
		Audio:   ref,
	}
	editor.original = ref
	editor.open = true
	editor.lastErr = nil
}

// IsOpen reports whether a draft is being edited.
func (editor *Editor) IsOpen() bool {
	return editor.open
}

// Draft returns the current draft.
func (editor *Editor) Draft() Draft {
	return editor.draft
}

// Err returns the error of the last failed commit.
func (editor *Editor) Err() error {
	return editor.lastErr
}

// SetTitle replaces the drafted title.
func (editor *Editor) SetTitle(title string) {
	editor.draft.Title = title
}

// SetMinutes sets the drafted minutes, clamped to [0,59].
func (editor *Editor) SetMinutes(minutes int) int {
	editor.draft.Minutes = clamp(minutes, 0, model.MaxMinutes)
	return editor.draft.Minutes
}

// SetSeconds sets the drafted seconds, clamped to [0,59].
func (editor *Editor) SetSeconds(seconds int) int {
	editor.draft.Seconds = clamp(seconds, 0, model.MaxSeconds)
	return editor.draft.Seconds
}

// SetElapsed sets the drafted elapsed time, clamped to the drafted duration at the time of entry.
func (editor *Editor) SetElapsed(elapsed int) int {
	editor.draft.Elapsed = clamp(elapsed, 0, editor.draft.Duration())
	return editor.draft.Elapsed
}

// ChooseAudio drafts a new alert sound file.
func (editor *Editor) ChooseAudio(path string) model.AudioRef {
	editor.draft.Audio = audio.Ref(path)
	return editor.draft.Audio
}

// Cancel closes the editor and discards the draft.
func (editor *Editor) Cancel() {
	editor.open = false
	editor.draft = Draft{}
	editor.original = model.AudioRef{}
	editor.lastErr = nil
}

// Commit applies the draft. On failure the editor stays open and the error is kept for display.
func (editor *Editor) Commit() error {
	if !editor.open {
		return fmt.Errorf("commit settings: editor is closed")
	}
	draft := editor.draft
	if draft.Elapsed > draft.Duration() {
		return editor.fail(&model.ValidationError{Duration: draft.Duration(), Elapsed: draft.Elapsed})
	}
	if err := editor.target.ApplyAudio(draft.Audio); err != nil {
		return editor.fail(err)
	}
	if err := editor.target.ApplySettings(draft.Duration(), draft.Elapsed, draft.Title); err != nil {
		// The sound was already swapped; put the previous one back so a failed commit changes nothing.
		if rollbackErr := editor.target.ApplyAudio(editor.original); rollbackErr != nil {
			slog.Error("alert sound not restored", "file", editor.original.File, "error", rollbackErr)
		}
		return editor.fail(err)
	}

	slog.Debug("settings committed", "title", draft.Title, "duration", draft.Duration(), "elapsed", draft.Elapsed)
	editor.Cancel()
	return nil
}

// Message returns a user-facing description of the last commit failure.
func (editor *Editor) Message() string {
	if editor.lastErr == nil {
		return ""
	}
	var validationErr *model.ValidationError
	if errors.As(editor.lastErr, &validationErr) {
		return "Elapsed time cannot exceed end time"
	}
	return editor.lastErr.Error()
}

func (editor *Editor) fail(err error) error {
	editor.lastErr = err
	slog.Warn("settings not applied", "error", err)
	return err
}

func clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}

package preferences

import (
	"errors"
	"strconv"

	"ringtimer/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

// Window handles the timer settings UI.
type Window struct {
	window     fyne.Window
	editor     *Editor
	onSaved    func()
	title      *widget.Entry
	minutes    *widget.Entry
	seconds    *widget.Entry
	elapsed    *widget.Entry
	audioLabel *widget.Label
	errorLabel *widget.Label
}

// New creates a settings window around editor. onSaved runs after a successful commit.
func New(app fyne.App, editor *Editor, onSaved func()) *Window {
	window := app.NewWindow("Set Timer")

	prefs := &Window{
		window:     window,
		editor:     editor,
		onSaved:    onSaved,
		title:      widget.NewEntry(),
		minutes:    widget.NewEntry(),
		seconds:    widget.NewEntry(),
		elapsed:    widget.NewEntry(),
		audioLabel: widget.NewLabel(model.DefaultAudioName),
		errorLabel: widget.NewLabel(""),
	}
	prefs.errorLabel.Importance = widget.DangerImportance
	prefs.errorLabel.Hide()

	prefs.title.OnChanged = editor.SetTitle
	prefs.minutes.OnChanged = prefs.numericHandler(prefs.minutes, editor.SetMinutes)
	prefs.seconds.OnChanged = prefs.numericHandler(prefs.seconds, editor.SetSeconds)
	prefs.elapsed.OnChanged = prefs.numericHandler(prefs.elapsed, editor.SetElapsed)

	chooseButton := widget.NewButton("Choose sound...", prefs.chooseAudio)
	form := widget.NewForm(
		widget.NewFormItem("Title", prefs.title),
		widget.NewFormItem("Minutes", prefs.minutes),
		widget.NewFormItem("Seconds", prefs.seconds),
		widget.NewFormItem("Elapsed Time", prefs.elapsed),
		widget.NewFormItem("Alert", container.NewHBox(prefs.audioLabel, chooseButton)),
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	saveButton.Importance = widget.HighImportance
	cancelButton := widget.NewButton("Cancel", prefs.Hide)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, container.NewVBox(prefs.errorLabel, buttons), nil, nil, form))
	window.SetCloseIntercept(prefs.Hide)
	window.Resize(fyne.NewSize(360, 300))
	return prefs
}

// Show opens the editor on state and displays the window.
func (prefs *Window) Show(state model.TimerState, ref model.AudioRef) {
	prefs.editor.Open(state, ref)
	prefs.refresh()
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// Hide closes the window and discards the draft.
func (prefs *Window) Hide() {
	prefs.editor.Cancel()
	prefs.window.Hide()
}

func (prefs *Window) refresh() {
	draft := prefs.editor.Draft()
	prefs.title.SetText(draft.Title)
	prefs.minutes.SetText(strconv.Itoa(draft.Minutes))
	prefs.seconds.SetText(strconv.Itoa(draft.Seconds))
	prefs.elapsed.SetText(strconv.Itoa(draft.Elapsed))
	prefs.audioLabel.SetText(draft.Audio.Name)
	prefs.errorLabel.Hide()
}

func (prefs *Window) numericHandler(entry *widget.Entry, set func(int) int) func(string) {
	return func(text string) {
		if text == "" {
			return
		}
		value, err := strconv.Atoi(text)
		if err != nil {
			return
		}
		if clamped := set(value); clamped != value {
			entry.SetText(strconv.Itoa(clamped))
		}
	}
}

func (prefs *Window) chooseAudio() {
	open := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, prefs.window)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()
		ref := prefs.editor.ChooseAudio(reader.URI().Path())
		prefs.audioLabel.SetText(ref.Name)
	}, prefs.window)
	open.SetFilter(storage.NewExtensionFileFilter([]string{".wav", ".mp3"}))
	open.Show()
}

func (prefs *Window) handleSave() {
	if err := prefs.editor.Commit(); err != nil {
		prefs.errorLabel.SetText(prefs.editor.Message())
		prefs.errorLabel.Show()
		var validationErr *model.ValidationError
		if errors.As(err, &validationErr) {
			dialog.ShowInformation("Invalid settings", prefs.editor.Message(), prefs.window)
		}
		return
	}
	prefs.window.Hide()
	if prefs.onSaved != nil {
		prefs.onSaved()
	}
}

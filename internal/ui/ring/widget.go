package ring

import (
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

const (
	segmentCount = 120
	strokeWidth  = 10
	ringSize     = 2*Radius + strokeWidth
)

var (
	trackColor    = color.NRGBA{R: 0x54, G: 0x55, B: 0x76, A: 0xff}
	progressColor = color.NRGBA{R: 0x67, G: 0xcb, B: 0x88, A: 0xff}
	textColor     = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	subtextColor  = color.NRGBA{R: 0xb8, G: 0xb9, B: 0xcc, A: 0xff}
)

// Widget draws the progress ring with the title, elapsed clock and remaining line inside.
// Setters must be called on the fyne main goroutine.
type Widget struct {
	widget.BaseWidget

	fraction  float64
	title     string
	clock     string
	remaining string
}

// NewWidget creates an empty ring.
func NewWidget() *Widget {
	ring := &Widget{clock: FormatClock(0), remaining: RemainingLabel(0)}
	ring.ExtendBaseWidget(ring)
	return ring
}

// Fraction returns the drawn progress.
func (ring *Widget) Fraction() float64 {
	return ring.fraction
}

// SetFraction redraws the ring at fraction, clamped to [0, 1].
func (ring *Widget) SetFraction(fraction float64) {
	ring.fraction = math.Max(0, math.Min(1, fraction))
	ring.Refresh()
}

// SetText updates the labels inside the ring.
func (ring *Widget) SetText(title string, elapsed, remaining int) {
	ring.title = title
	ring.clock = FormatClock(elapsed)
	ring.remaining = RemainingLabel(remaining)
	ring.Refresh()
}

// CreateRenderer implements fyne.Widget.
func (ring *Widget) CreateRenderer() fyne.WidgetRenderer {
	renderer := &ringRenderer{ring: ring}
	for index := range renderer.segments {
		line := canvas.NewLine(trackColor)
		line.StrokeWidth = strokeWidth
		renderer.segments[index] = line
	}

	renderer.title = canvas.NewText("", textColor)
	renderer.title.Alignment = fyne.TextAlignCenter
	renderer.title.TextStyle = fyne.TextStyle{Bold: true}
	renderer.title.TextSize = 18

	renderer.clock = canvas.NewText("", textColor)
	renderer.clock.Alignment = fyne.TextAlignCenter
	renderer.clock.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	renderer.clock.TextSize = 32

	renderer.remaining = canvas.NewText("", subtextColor)
	renderer.remaining.Alignment = fyne.TextAlignCenter
	renderer.remaining.TextSize = 14

	renderer.Refresh()
	return renderer
}

type ringRenderer struct {
	ring      *Widget
	segments  [segmentCount]*canvas.Line
	title     *canvas.Text
	clock     *canvas.Text
	remaining *canvas.Text
}

func (renderer *ringRenderer) Layout(size fyne.Size) {
	side := float64(fyne.Min(size.Width, size.Height))
	scale := side / ringSize
	radius := Radius * scale
	centerX := float64(size.Width) / 2
	centerY := float64(size.Height) / 2

	step := 2 * math.Pi / segmentCount
	for index, line := range renderer.segments {
		// Segments start at twelve o'clock and run clockwise.
		from := float64(index)*step - math.Pi/2
		to := from + step
		line.Position1 = fyne.NewPos(float32(centerX+radius*math.Cos(from)), float32(centerY+radius*math.Sin(from)))
		line.Position2 = fyne.NewPos(float32(centerX+radius*math.Cos(to)), float32(centerY+radius*math.Sin(to)))
		line.StrokeWidth = float32(strokeWidth * scale)
	}

	width := float32(radius * 1.6)
	left := float32(centerX) - width/2
	renderer.layoutText(renderer.title, left, float32(centerY-radius*0.45), width)
	renderer.layoutText(renderer.clock, left, float32(centerY-radius*0.15), width)
	renderer.layoutText(renderer.remaining, left, float32(centerY+radius*0.3), width)
}

func (renderer *ringRenderer) layoutText(text *canvas.Text, left, top, width float32) {
	height := text.MinSize().Height
	text.Move(fyne.NewPos(left, top))
	text.Resize(fyne.NewSize(width, height))
}

func (renderer *ringRenderer) MinSize() fyne.Size {
	return fyne.NewSize(ringSize, ringSize)
}

func (renderer *ringRenderer) Refresh() {
	filled := filledSegments(renderer.ring.fraction)
	for index, line := range renderer.segments {
		if index < filled {
			line.StrokeColor = progressColor
		} else {
			line.StrokeColor = trackColor
		}
		line.Refresh()
	}

	renderer.title.Text = renderer.ring.title
	renderer.clock.Text = renderer.ring.clock
	renderer.remaining.Text = renderer.ring.remaining
	renderer.title.Refresh()
	renderer.clock.Refresh()
	renderer.remaining.Refresh()
}

func (renderer *ringRenderer) Objects() []fyne.CanvasObject {
	objects := make([]fyne.CanvasObject, 0, segmentCount+3)
	for _, line := range renderer.segments {
		objects = append(objects, line)
	}
	return append(objects, renderer.title, renderer.clock, renderer.remaining)
}

func (renderer *ringRenderer) Destroy() {}

// filledSegments maps a fraction onto the discrete segment count.
func filledSegments(fraction float64) int {
	filled := int(math.Round(fraction * segmentCount))
	if filled < 0 {
		return 0
	}
	if filled > segmentCount {
		return segmentCount
	}
	return filled
}

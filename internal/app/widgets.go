package app

import (
	"image/color"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// uiFace is the bitmap face used for all panel and widget text.
var uiFace font.Face = basicfont.Face7x13

var (
	panelFill   = color.RGBA{R: 16, G: 20, B: 26, A: 235}
	panelBorder = color.RGBA{R: 90, G: 110, B: 140, A: 255}
	focusBorder = color.RGBA{R: 240, G: 200, B: 60, A: 255}
	textColour  = color.RGBA{R: 225, G: 228, B: 235, A: 255}
	mutedColour = color.RGBA{R: 140, G: 148, B: 160, A: 255}
	errColour   = color.RGBA{R: 250, G: 110, B: 100, A: 255}
)

func ptIn(px, py, x, y, w, h int) bool {
	return px >= x && px < x+w && py >= y && py < y+h
}

// textBox is a single-line input field. The caret blinks while focused;
// masked boxes render bullets instead of their value.
type textBox struct {
	Label   string
	Value   string
	Mask    bool
	X, Y    int
	W, H    int
	focused bool

	caretOn   bool
	lastBlink time.Time
}

func newTextBox(label string, mask bool) *textBox {
	return &textBox{Label: label, Mask: mask, W: 280, H: 32, lastBlink: time.Now()}
}

func (t *textBox) contains(px, py int) bool {
	return ptIn(px, py, t.X, t.Y, t.W, t.H)
}

// update consumes typed runes and backspace while the box has focus.
func (t *textBox) update() {
	if time.Since(t.lastBlink) > 500*time.Millisecond {
		t.caretOn = !t.caretOn
		t.lastBlink = time.Now()
	}
	if !t.focused {
		return
	}
	for _, r := range ebiten.AppendInputChars(nil) {
		if r >= 32 && r != 127 {
			t.Value += string(r)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) && t.Value != "" {
		rs := []rune(t.Value)
		t.Value = string(rs[:len(rs)-1])
	}
}

func (t *textBox) display() string {
	if t.Mask {
		return strings.Repeat("*", len([]rune(t.Value)))
	}
	return t.Value
}

func (t *textBox) draw(dst *ebiten.Image) {
	border := panelBorder
	if t.focused {
		border = focusBorder
	}
	vector.FillRect(dst, float32(t.X), float32(t.Y), float32(t.W), float32(t.H), panelFill, false)
	vector.StrokeRect(dst, float32(t.X), float32(t.Y), float32(t.W), float32(t.H), 1, border, false)

	text.Draw(dst, t.Label, uiFace, t.X, t.Y-6, mutedColour)

	val := t.display()
	baseline := t.Y + t.H/2 + 4
	text.Draw(dst, val, uiFace, t.X+8, baseline, textColour)
	if t.focused && t.caretOn {
		w := text.BoundString(uiFace, val).Dx()
		text.Draw(dst, "|", uiFace, t.X+8+w+1, baseline, textColour)
	}
}

// button is a labelled click target. Disabled buttons draw dim and never hit.
type button struct {
	Label    string
	X, Y     int
	W, H     int
	Disabled bool
}

func (b *button) hit(px, py int) bool {
	return !b.Disabled && ptIn(px, py, b.X, b.Y, b.W, b.H)
}

func (b *button) draw(dst *ebiten.Image) {
	fill := color.RGBA{R: 40, G: 56, B: 78, A: 255}
	label := textColour
	if b.Disabled {
		fill = color.RGBA{R: 28, G: 32, B: 38, A: 255}
		label = mutedColour
	}
	vector.FillRect(dst, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), fill, false)
	vector.StrokeRect(dst, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), 1, panelBorder, false)

	tw := text.BoundString(uiFace, b.Label).Dx()
	text.Draw(dst, b.Label, uiFace, b.X+(b.W-tw)/2, b.Y+b.H/2+4, label)
}

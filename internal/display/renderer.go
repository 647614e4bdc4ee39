package display

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	on  = color.Gray{Y: 255}
	off = color.Gray{Y: 0}
)

// Renderer draws text and hold bars into a grayscale buffer that is packed
// to 1 bit per pixel for the device
type Renderer struct {
	width  int
	height int
	img    *image.Gray
	face   font.Face
}

// NewRenderer creates a new display renderer
func NewRenderer(width, height int) *Renderer {
	return &Renderer{
		width:  width,
		height: height,
		img:    image.NewGray(image.Rect(0, 0, width, height)),
		face:   basicfont.Face7x13,
	}
}

// Clear turns every pixel off
func (r *Renderer) Clear() {
	draw.Draw(r.img, r.img.Bounds(), image.Black, image.Point{}, draw.Src)
}

// LineHeight returns the height of one line of text
func (r *Renderer) LineHeight() int {
	return r.face.Metrics().Height.Ceil()
}

// DrawText draws text with its baseline at y
func (r *Renderer) DrawText(x, y int, text string) {
	d := &font.Drawer{
		Dst:  r.img,
		Src:  image.White,
		Face: r.face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

// DrawTextWrapped draws text word-wrapped to maxWidth and returns the height
// used
func (r *Renderer) DrawTextWrapped(x, y, maxWidth int, text string) int {
	lineHeight := r.LineHeight()
	currentY := y
	line := ""

	for _, word := range strings.Fields(text) {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if font.MeasureString(r.face, candidate).Ceil() > maxWidth && line != "" {
			r.DrawText(x, currentY, line)
			currentY += lineHeight
			line = word
			continue
		}
		line = candidate
	}

	if line != "" {
		r.DrawText(x, currentY, line)
		currentY += lineHeight
	}

	return currentY - y
}

// DrawRect draws a one pixel rectangle outline
func (r *Renderer) DrawRect(x, y, width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	for i := x; i < x+width; i++ {
		r.img.SetGray(i, y, on)
		r.img.SetGray(i, y+height-1, on)
	}
	for i := y; i < y+height; i++ {
		r.img.SetGray(x, i, on)
		r.img.SetGray(x+width-1, i, on)
	}
}

// FillRect draws a filled rectangle
func (r *Renderer) FillRect(x, y, width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	draw.Draw(r.img, image.Rect(x, y, x+width, y+height), image.White, image.Point{}, draw.Src)
}

// DrawProgressBar draws an outlined bar filled to percent. Values outside
// 0..100 are clamped for drawing only.
func (r *Renderer) DrawProgressBar(x, y, width, height int, percent float64) {
	r.DrawRect(x, y, width, height)

	inner := width - 4
	if inner <= 0 || height <= 4 {
		return
	}
	p := math.Max(0, math.Min(100, percent))
	r.FillRect(x+2, y+2, int(math.Round(float64(inner)*p/100)), height-4)
}

// SetPixel sets a single pixel
func (r *Renderer) SetPixel(x, y int, lit bool) {
	if lit {
		r.img.SetGray(x, y, on)
	} else {
		r.img.SetGray(x, y, off)
	}
}

// Pack returns the buffer as 1-bit data: row-major, 8 pixels per byte,
// MSB first
func (r *Renderer) Pack() []byte {
	bytesPerRow := (r.width + 7) / 8
	data := make([]byte, bytesPerRow*r.height)

	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			if r.img.GrayAt(x, y).Y > 127 {
				data[y*bytesPerRow+x/8] |= 1 << (7 - x%8)
			}
		}
	}

	return data
}

// Width returns the renderer width
func (r *Renderer) Width() int {
	return r.width
}

// Height returns the renderer height
func (r *Renderer) Height() int {
	return r.height
}

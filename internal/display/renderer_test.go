package display

import (
	"testing"
)

func anyLit(data []byte) bool {
	for _, b := range data {
		if b != 0 {
			return true
		}
	}
	return false
}

func TestNewRenderer(t *testing.T) {
	r := NewRenderer(128, 64)

	if r.Width() != 128 || r.Height() != 64 {
		t.Errorf("size = %dx%d, want 128x64", r.Width(), r.Height())
	}
	if got := len(r.Pack()); got != 16*64 {
		t.Errorf("len(Pack()) = %d, want %d", got, 16*64)
	}
	if r.LineHeight() != 13 {
		t.Errorf("LineHeight() = %d, want 13", r.LineHeight())
	}
}

func TestRendererClear(t *testing.T) {
	r := NewRenderer(8, 8)
	r.SetPixel(0, 0, true)
	r.SetPixel(7, 7, true)
	r.Clear()

	if anyLit(r.Pack()) {
		t.Errorf("pixels lit after Clear(): %v", r.Pack())
	}
}

func TestRendererPack(t *testing.T) {
	r := NewRenderer(16, 2)
	r.SetPixel(0, 0, true)
	r.SetPixel(7, 0, true)
	r.SetPixel(8, 0, true)
	r.SetPixel(15, 0, true)
	r.SetPixel(3, 1, true)
	r.SetPixel(3, 1, false)

	data := r.Pack()
	// MSB first: pixel 0 is bit 7, pixel 7 is bit 0
	want := []byte{0x81, 0x81, 0x00, 0x00}
	for i := range want {
		if data[i] != want[i] {
			t.Errorf("byte %d = 0x%02X, want 0x%02X", i, data[i], want[i])
		}
	}
}

func TestRendererShapes(t *testing.T) {
	tests := []struct {
		name string
		draw func(r *Renderer)
		want []byte // one byte per row of an 8x4 buffer
	}{
		{
			name: "fill rect",
			draw: func(r *Renderer) { r.FillRect(2, 1, 4, 2) },
			want: []byte{0x00, 0x3C, 0x3C, 0x00},
		},
		{
			name: "outline rect",
			draw: func(r *Renderer) { r.DrawRect(2, 0, 4, 3) },
			want: []byte{0x3C, 0x24, 0x3C, 0x00},
		},
		{
			name: "zero size rect",
			draw: func(r *Renderer) { r.DrawRect(2, 0, 0, 3); r.FillRect(1, 1, 3, 0) },
			want: []byte{0x00, 0x00, 0x00, 0x00},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRenderer(8, 4)
			tt.draw(r)
			data := r.Pack()
			for i := range tt.want {
				if data[i] != tt.want[i] {
					t.Errorf("row %d = 0x%02X, want 0x%02X", i, data[i], tt.want[i])
				}
			}
		})
	}
}

func TestRendererDrawProgressBar(t *testing.T) {
	tests := []struct {
		name      string
		percent   float64
		wantInner [2]byte // row 2 of a 16x6 bar
	}{
		{"empty", 0, [2]byte{0x80, 0x01}},
		{"half", 50, [2]byte{0xBF, 0x01}},
		{"full", 100, [2]byte{0xBF, 0xFD}},
		{"overshoot clamped", 150, [2]byte{0xBF, 0xFD}},
		{"negative clamped", -5, [2]byte{0x80, 0x01}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRenderer(16, 6)
			r.DrawProgressBar(0, 0, 16, 6, tt.percent)
			data := r.Pack()

			if data[0] != 0xFF || data[1] != 0xFF {
				t.Errorf("top edge = 0x%02X 0x%02X, want 0xFF 0xFF", data[0], data[1])
			}
			row2 := [2]byte{data[4], data[5]}
			if row2 != tt.wantInner {
				t.Errorf("row 2 = 0x%02X 0x%02X, want 0x%02X 0x%02X",
					row2[0], row2[1], tt.wantInner[0], tt.wantInner[1])
			}
		})
	}
}

func TestRendererDrawText(t *testing.T) {
	r := NewRenderer(64, 16)
	r.DrawText(0, 13, "Hello")

	if !anyLit(r.Pack()) {
		t.Error("DrawText() didn't set any pixels")
	}
}

func TestRendererDrawTextWrapped(t *testing.T) {
	tests := []struct {
		text      string
		maxWidth  int
		wantLines int
	}{
		{"Hello", 64, 1},
		{"Hello World Test", 64, 3},
		{"Hello World Test", 128, 1},
		{"  spaced   out  ", 128, 1},
		{"", 64, 0},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			r := NewRenderer(128, 64)
			height := r.DrawTextWrapped(0, 13, tt.maxWidth, tt.text)
			if want := tt.wantLines * r.LineHeight(); height != want {
				t.Errorf("DrawTextWrapped() height = %d, want %d", height, want)
			}
		})
	}
}

package display

import (
	"bytes"

	"github.com/pleimann/holdpad/internal/hid"
)

// reportSize is the HID output report size the device accepts
const reportSize = 64

// FrameEncoder splits packed frames into display reports. It remembers the
// last frame sent so a moving hold bar only resends the rows it touched.
type FrameEncoder struct {
	width  int
	height int
	last   []byte
}

// NewFrameEncoder creates a new frame encoder
func NewFrameEncoder(width, height int) *FrameEncoder {
	return &FrameEncoder{
		width:  width,
		height: height,
	}
}

// MaxPayloadSize returns the pixel bytes that fit in one report
func (e *FrameEncoder) MaxPayloadSize() int {
	return reportSize - hid.DisplayHeaderSize
}

func (e *FrameEncoder) bytesPerRow() int {
	return (e.width + 7) / 8
}

func (e *FrameEncoder) rowsPerChunk() int {
	rows := e.MaxPayloadSize() / e.bytesPerRow()
	if rows == 0 {
		return 1
	}
	return rows
}

// Chunks splits a whole frame into partial frames of full-width row bands
func (e *FrameEncoder) Chunks(data []byte) []*hid.DisplayFrame {
	var frames []*hid.DisplayFrame
	for y := 0; y < e.height; y += e.rowsPerChunk() {
		frames = append(frames, e.band(data, y))
	}
	return frames
}

// Changed returns the bands that differ from the previous call's frame,
// or every band on the first call or after Reset
func (e *FrameEncoder) Changed(data []byte) []*hid.DisplayFrame {
	if e.last == nil || len(e.last) != len(data) {
		e.last = append([]byte(nil), data...)
		return e.Chunks(data)
	}

	var frames []*hid.DisplayFrame
	for y := 0; y < e.height; y += e.rowsPerChunk() {
		start, end := e.span(y, len(data))
		if bytes.Equal(e.last[start:end], data[start:end]) {
			continue
		}
		frames = append(frames, e.band(data, y))
		copy(e.last[start:end], data[start:end])
	}
	return frames
}

// Reset forgets the last frame so the next Changed resends everything
func (e *FrameEncoder) Reset() {
	e.last = nil
}

// Clear returns a display clear command and resets change tracking
func (e *FrameEncoder) Clear() *hid.DisplayFrame {
	e.Reset()
	return hid.NewClearCommand()
}

func (e *FrameEncoder) span(y, n int) (start, end int) {
	rows := e.rowsPerChunk()
	if y+rows > e.height {
		rows = e.height - y
	}
	start = y * e.bytesPerRow()
	end = (y + rows) * e.bytesPerRow()
	if end > n {
		end = n
	}
	return start, end
}

func (e *FrameEncoder) band(data []byte, y int) *hid.DisplayFrame {
	start, end := e.span(y, len(data))
	rows := (end - start) / e.bytesPerRow()
	return hid.NewPartialFrame(0, uint16(y), uint16(e.width), uint16(rows), data[start:end])
}

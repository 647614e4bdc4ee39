package hid

import (
	"encoding/binary"
	"fmt"
	"math/bits"
)

// Report IDs
const (
	ReportIDButtons byte = 0x01
	ReportIDDisplay byte = 0x02
)

// Display commands
const (
	DisplayCmdFullFrame byte = 0x01
	DisplayCmdPartial   byte = 0x02
	DisplayCmdClear     byte = 0x03
)

// MaxButtons is the width of the button mask
const MaxButtons = 16

// ReportKind says whether a button report was sent for a press or a release
type ReportKind byte

const (
	Press   ReportKind = 0x01
	Release ReportKind = 0x02
)

func (k ReportKind) String() string {
	switch k {
	case Press:
		return "press"
	case Release:
		return "release"
	default:
		return fmt.Sprintf("unknown(%d)", byte(k))
	}
}

// ButtonReport is the state of every button after a change. Mask is the
// authoritative state; Kind only says which edge triggered the report.
type ButtonReport struct {
	Kind      ReportKind
	Mask      uint16
	Timestamp uint32 // ms since device boot
}

// ParseButtonReport parses a raw HID input report.
//
//	Byte 0:   report ID (0x01)
//	Byte 1:   kind (0x01 press, 0x02 release)
//	Byte 2-3: button mask, little-endian
//	Byte 4-7: timestamp, little-endian u32
func ParseButtonReport(data []byte) (ButtonReport, error) {
	if len(data) < 8 {
		return ButtonReport{}, fmt.Errorf("button report too short: %d bytes", len(data))
	}
	if data[0] != ReportIDButtons {
		return ButtonReport{}, fmt.Errorf("unexpected report ID: 0x%02X", data[0])
	}

	kind := ReportKind(data[1])
	if kind != Press && kind != Release {
		return ButtonReport{}, fmt.Errorf("unknown report kind: 0x%02X", data[1])
	}

	return ButtonReport{
		Kind:      kind,
		Mask:      binary.LittleEndian.Uint16(data[2:4]),
		Timestamp: binary.LittleEndian.Uint32(data[4:8]),
	}, nil
}

// Held returns the indices of buttons down in the report, ascending
func (r ButtonReport) Held() []int {
	return maskIndices(r.Mask)
}

// Transitions compares two masks and returns the buttons that went down
// and the buttons that came up, each ascending
func Transitions(prev, next uint16) (pressed, released []int) {
	return maskIndices(next &^ prev), maskIndices(prev &^ next)
}

func maskIndices(mask uint16) []int {
	if mask == 0 {
		return nil
	}
	out := make([]int, 0, bits.OnesCount16(mask))
	for i := 0; i < MaxButtons; i++ {
		if mask&(1<<i) != 0 {
			out = append(out, i)
		}
	}
	return out
}

// DisplayFrame is a display command for the device screen
type DisplayFrame struct {
	Command byte
	X       uint16
	Y       uint16
	Width   uint16
	Height  uint16
	Data    []byte // 1-bit packed pixels, row-major, MSB first
}

// DisplayHeaderSize is the encoded size of a frame without pixel data
const DisplayHeaderSize = 10

// Encode serializes the frame as an output report.
//
//	Byte 0:   report ID (0x02)
//	Byte 1:   command
//	Byte 2-5: x, y offsets
//	Byte 6-9: width, height
//	Byte 10+: pixel data
func (f *DisplayFrame) Encode() []byte {
	buf := make([]byte, DisplayHeaderSize+len(f.Data))

	buf[0] = ReportIDDisplay
	buf[1] = f.Command
	binary.LittleEndian.PutUint16(buf[2:4], f.X)
	binary.LittleEndian.PutUint16(buf[4:6], f.Y)
	binary.LittleEndian.PutUint16(buf[6:8], f.Width)
	binary.LittleEndian.PutUint16(buf[8:10], f.Height)
	copy(buf[DisplayHeaderSize:], f.Data)

	return buf
}

// NewFullFrame creates a full frame display update
func NewFullFrame(width, height uint16, data []byte) *DisplayFrame {
	return &DisplayFrame{
		Command: DisplayCmdFullFrame,
		Width:   width,
		Height:  height,
		Data:    data,
	}
}

// NewPartialFrame creates a display update for one rectangle
func NewPartialFrame(x, y, width, height uint16, data []byte) *DisplayFrame {
	return &DisplayFrame{
		Command: DisplayCmdPartial,
		X:       x,
		Y:       y,
		Width:   width,
		Height:  height,
		Data:    data,
	}
}

// NewClearCommand creates a display clear command
func NewClearCommand() *DisplayFrame {
	return &DisplayFrame{Command: DisplayCmdClear}
}

package hid

import (
	"encoding/binary"
	"reflect"
	"testing"
)

func buttonReport(kind byte, mask uint16, ts uint32) []byte {
	buf := make([]byte, 8)
	buf[0] = ReportIDButtons
	buf[1] = kind
	binary.LittleEndian.PutUint16(buf[2:4], mask)
	binary.LittleEndian.PutUint32(buf[4:8], ts)
	return buf
}

func TestParseButtonReport(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		want    ButtonReport
		wantErr bool
	}{
		{
			name: "press single button",
			data: buttonReport(0x01, 0x0001, 12345),
			want: ButtonReport{Kind: Press, Mask: 0x0001, Timestamp: 12345},
		},
		{
			name: "release leaves two held",
			data: buttonReport(0x02, 0x0005, 99999),
			want: ButtonReport{Kind: Release, Mask: 0x0005, Timestamp: 99999},
		},
		{
			name: "trailing padding ignored",
			data: append(buttonReport(0x01, 0x8000, 1), make([]byte, 56)...),
			want: ButtonReport{Kind: Press, Mask: 0x8000, Timestamp: 1},
		},
		{
			name:    "data too short",
			data:    []byte{0x01, 0x01, 0x00},
			wantErr: true,
		},
		{
			name: "wrong report ID",
			data: func() []byte {
				buf := buttonReport(0x01, 0, 0)
				buf[0] = 0xFF
				return buf
			}(),
			wantErr: true,
		},
		{
			name:    "unknown kind",
			data:    buttonReport(0x07, 0x0001, 0),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseButtonReport(tt.data)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseButtonReport() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseButtonReport() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestButtonReportHeld(t *testing.T) {
	tests := []struct {
		mask uint16
		want []int
	}{
		{0x0000, nil},
		{0x0001, []int{0}},
		{0x0005, []int{0, 2}},
		{0x8001, []int{0, 15}},
		{0xFFFF, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}},
	}

	for _, tt := range tests {
		got := ButtonReport{Mask: tt.mask}.Held()
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Held(0x%04X) = %v, want %v", tt.mask, got, tt.want)
		}
	}
}

func TestTransitions(t *testing.T) {
	tests := []struct {
		name         string
		prev, next   uint16
		wantPressed  []int
		wantReleased []int
	}{
		{"no change", 0x0003, 0x0003, nil, nil},
		{"first press", 0x0000, 0x0004, []int{2}, nil},
		{"release", 0x0004, 0x0000, nil, []int{2}},
		{"press and release together", 0x0001, 0x0002, []int{1}, []int{0}},
		{"several at once", 0x0000, 0x0011, []int{0, 4}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pressed, released := Transitions(tt.prev, tt.next)
			if !reflect.DeepEqual(pressed, tt.wantPressed) {
				t.Errorf("pressed = %v, want %v", pressed, tt.wantPressed)
			}
			if !reflect.DeepEqual(released, tt.wantReleased) {
				t.Errorf("released = %v, want %v", released, tt.wantReleased)
			}
		})
	}
}

func TestDisplayFrameEncode(t *testing.T) {
	tests := []struct {
		name  string
		frame *DisplayFrame
		check func([]byte) bool
	}{
		{
			name:  "full frame",
			frame: NewFullFrame(128, 64, []byte{0xAA, 0xBB, 0xCC}),
			check: func(data []byte) bool {
				return data[0] == ReportIDDisplay &&
					data[1] == DisplayCmdFullFrame &&
					binary.LittleEndian.Uint16(data[2:4]) == 0 &&
					binary.LittleEndian.Uint16(data[4:6]) == 0 &&
					binary.LittleEndian.Uint16(data[6:8]) == 128 &&
					binary.LittleEndian.Uint16(data[8:10]) == 64 &&
					data[10] == 0xAA && data[11] == 0xBB && data[12] == 0xCC
			},
		},
		{
			name:  "partial frame",
			frame: NewPartialFrame(10, 20, 32, 16, []byte{0x11, 0x22}),
			check: func(data []byte) bool {
				return data[1] == DisplayCmdPartial &&
					binary.LittleEndian.Uint16(data[2:4]) == 10 &&
					binary.LittleEndian.Uint16(data[4:6]) == 20 &&
					binary.LittleEndian.Uint16(data[6:8]) == 32 &&
					binary.LittleEndian.Uint16(data[8:10]) == 16 &&
					data[10] == 0x11 && data[11] == 0x22
			},
		},
		{
			name:  "clear command",
			frame: NewClearCommand(),
			check: func(data []byte) bool {
				return data[0] == ReportIDDisplay &&
					data[1] == DisplayCmdClear &&
					len(data) == DisplayHeaderSize
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if data := tt.frame.Encode(); !tt.check(data) {
				t.Errorf("Encode() = %v, check failed", data)
			}
		})
	}
}

func TestReportKindString(t *testing.T) {
	tests := []struct {
		k    ReportKind
		want string
	}{
		{Press, "press"},
		{Release, "release"},
		{ReportKind(99), "unknown(99)"},
	}

	for _, tt := range tests {
		if got := tt.k.String(); got != tt.want {
			t.Errorf("ReportKind.String() = %q, want %q", got, tt.want)
		}
	}
}

package action

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// KeyPress is a parsed key with modifiers
type KeyPress struct {
	Ctrl  bool
	Alt   bool
	Shift bool
	Meta  bool
	Key   string // canonical base key, e.g. "c", "enter", "f1"
}

func (kp KeyPress) String() string {
	var parts []string
	if kp.Ctrl {
		parts = append(parts, "ctrl")
	}
	if kp.Alt {
		parts = append(parts, "alt")
	}
	if kp.Shift {
		parts = append(parts, "shift")
	}
	if kp.Meta {
		parts = append(parts, "meta")
	}
	return strings.Join(append(parts, kp.Key), "+")
}

// Sequence is an ordered list of keys sent for one completed hold
type Sequence []KeyPress

func (s Sequence) String() string {
	names := make([]string, len(s))
	for i, kp := range s {
		names[i] = kp.String()
	}
	return strings.Join(names, " ")
}

var modifierAliases = map[string]string{
	"ctrl": "ctrl", "control": "ctrl",
	"alt": "alt", "option": "alt",
	"shift": "shift",
	"meta": "meta", "cmd": "meta", "command": "meta", "win": "meta", "super": "meta",
}

var keyAliases = map[string]string{
	"return": "enter",
	"escape": "esc",
	"del":    "delete",
	"ins":    "insert",
	"pgup":   "pageup",
	"pgdn":   "pagedown",
}

// Terminal byte sequences for named keys
var namedKeys = map[string][]byte{
	"enter":     {'\r'},
	"tab":       {'\t'},
	"esc":       {0x1b},
	"space":     {' '},
	"backspace": {0x7f},
	"delete":    []byte("\x1b[3~"),
	"insert":    []byte("\x1b[2~"),
	"home":      []byte("\x1b[H"),
	"end":       []byte("\x1b[F"),
	"pageup":    []byte("\x1b[5~"),
	"pagedown":  []byte("\x1b[6~"),
	"up":        []byte("\x1b[A"),
	"down":      []byte("\x1b[B"),
	"right":     []byte("\x1b[C"),
	"left":      []byte("\x1b[D"),
	"f1":        []byte("\x1bOP"),
	"f2":        []byte("\x1bOQ"),
	"f3":        []byte("\x1bOR"),
	"f4":        []byte("\x1bOS"),
	"f5":        []byte("\x1b[15~"),
	"f6":        []byte("\x1b[17~"),
	"f7":        []byte("\x1b[18~"),
	"f8":        []byte("\x1b[19~"),
	"f9":        []byte("\x1b[20~"),
	"f10":       []byte("\x1b[21~"),
	"f11":       []byte("\x1b[23~"),
	"f12":       []byte("\x1b[24~"),
}

// Control bytes for ctrl+punctuation
var ctrlPunct = map[byte]byte{
	'[':  0x1b,
	'\\': 0x1c,
	']':  0x1d,
	'^':  0x1e,
	'_':  0x1f,
	'?':  0x7f,
}

// ParseKey parses a key string like "ctrl+shift+c" into a KeyPress
func ParseKey(s string) (KeyPress, error) {
	var kp KeyPress

	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "+")
	key := strings.TrimSpace(parts[len(parts)-1])
	for _, part := range parts[:len(parts)-1] {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		switch modifierAliases[part] {
		case "ctrl":
			kp.Ctrl = true
		case "alt":
			kp.Alt = true
		case "shift":
			kp.Shift = true
		case "meta":
			kp.Meta = true
		default:
			return KeyPress{}, fmt.Errorf("unknown modifier: %s", part)
		}
	}

	if key == "" {
		return KeyPress{}, fmt.Errorf("no key specified")
	}
	if alias, ok := keyAliases[key]; ok {
		key = alias
	}
	if !isValidKey(key) {
		return KeyPress{}, fmt.Errorf("invalid key: %s", key)
	}

	kp.Key = key
	return kp, nil
}

// ParseSequence parses every key of a configured sequence
func ParseSequence(keys []string) (Sequence, error) {
	seq := make(Sequence, 0, len(keys))
	for _, k := range keys {
		kp, err := ParseKey(k)
		if err != nil {
			return nil, fmt.Errorf("invalid key %q: %w", k, err)
		}
		seq = append(seq, kp)
	}
	return seq, nil
}

func isValidKey(key string) bool {
	if utf8.RuneCountInString(key) == 1 {
		return true
	}
	_, ok := namedKeys[key]
	return ok
}

// ToBytes converts a KeyPress to the bytes to write to a PTY
func (kp KeyPress) ToBytes() []byte {
	if kp.Ctrl && !kp.Alt && !kp.Meta && len(kp.Key) == 1 {
		c := kp.Key[0]
		switch {
		case c >= 'a' && c <= 'z':
			return []byte{c - 'a' + 1}
		case c >= 'A' && c <= 'Z':
			return []byte{c - 'A' + 1}
		}
		if b, ok := ctrlPunct[c]; ok {
			return []byte{b}
		}
	}

	if seq, ok := namedKeys[kp.Key]; ok {
		return append([]byte(nil), seq...)
	}

	if len(kp.Key) != 1 {
		// Multi-byte runes are sent as typed
		if utf8.RuneCountInString(kp.Key) == 1 {
			return []byte(kp.Key)
		}
		return nil
	}

	c := kp.Key[0]
	if kp.Shift && c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	if kp.Alt {
		return []byte{0x1b, c}
	}
	return []byte{c}
}

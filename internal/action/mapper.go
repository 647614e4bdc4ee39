package action

import (
	"fmt"

	"github.com/pleimann/holdpad/internal/config"
)

// Mapper maps button names to the key sequence sent when a hold completes
type Mapper struct {
	buttons map[string]Sequence
}

// NewMapper parses every button's keys from configuration
func NewMapper(cfg *config.Config) (*Mapper, error) {
	m := &Mapper{buttons: make(map[string]Sequence, len(cfg.Buttons))}
	for _, btn := range cfg.Buttons {
		seq, err := ParseSequence(btn.Keys)
		if err != nil {
			return nil, fmt.Errorf("button %s: %w", btn.Name, err)
		}
		m.buttons[btn.Name] = seq
	}
	return m, nil
}

// Map returns the key sequence for a button, or nil if not mapped
func (m *Mapper) Map(button string) Sequence {
	return m.buttons[button]
}

// Reload replaces the mappings. On error the old mappings are kept.
func (m *Mapper) Reload(cfg *config.Config) error {
	next, err := NewMapper(cfg)
	if err != nil {
		return err
	}
	m.buttons = next.buttons
	return nil
}

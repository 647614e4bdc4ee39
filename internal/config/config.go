package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pleimann/holdpad/internal/hid"
	"github.com/pleimann/holdpad/internal/timing"
)

// SourceHoldPrefix marks a display region that shows the hold progress of a
// named button, e.g. "hold:delete"
const SourceHoldPrefix = "hold:"

type Config struct {
	Device  DeviceConfig  `yaml:"device"`
	Hold    HoldConfig    `yaml:"hold"`
	TUI     TUIConfig     `yaml:"tui"`
	Buttons []Button      `yaml:"buttons"`
	Display DisplayConfig `yaml:"display"`
}

type DeviceConfig struct {
	VendorID       uint16 `yaml:"vendor_id"`
	ProductID      uint16 `yaml:"product_id"`
	PollIntervalMs int    `yaml:"poll_interval_ms"`
}

// HoldConfig holds the defaults applied to every button
type HoldConfig struct {
	DurationMs int    `yaml:"duration_ms"`
	Strategy   string `yaml:"strategy"`
	FrameRate  int    `yaml:"frame_rate"`
}

type TUIConfig struct {
	Command    string   `yaml:"command"`
	Args       []string `yaml:"args"`
	WorkingDir string   `yaml:"working_dir,omitempty"`
	KeyDelayMs int      `yaml:"key_delay_ms,omitempty"`
}

// Button binds a physical button to a hold widget. Keys are sent to the TUI
// when a hold completes.
type Button struct {
	Index      int      `yaml:"index"`
	Name       string   `yaml:"name,omitempty"`
	DurationMs int      `yaml:"duration_ms,omitempty"`
	Strategy   string   `yaml:"strategy,omitempty"`
	Label      string   `yaml:"label,omitempty"`
	Keys       []string `yaml:"keys"`
}

type DisplayConfig struct {
	Width            int             `yaml:"width"`
	Height           int             `yaml:"height"`
	UpdateIntervalMs int             `yaml:"update_interval_ms"`
	Regions          []DisplayRegion `yaml:"regions,omitempty"`
}

type DisplayRegion struct {
	Name    string `yaml:"name"`
	X       int    `yaml:"x"`
	Y       int    `yaml:"y"`
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	Source  string `yaml:"source"`
	Content string `yaml:"content,omitempty"`
}

// HoldButton returns the button name of a "hold:<name>" region source
func (r DisplayRegion) HoldButton() (string, bool) {
	if !strings.HasPrefix(r.Source, SourceHoldPrefix) {
		return "", false
	}
	return strings.TrimPrefix(r.Source, SourceHoldPrefix), true
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Names are checked for uniqueness and region references after
	// unnamed buttons get theirs
	cfg.defaultButtonNames()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Device.VendorID == 0 {
		return fmt.Errorf("device.vendor_id is required")
	}
	if c.Device.ProductID == 0 {
		return fmt.Errorf("device.product_id is required")
	}
	if c.TUI.Command == "" {
		return fmt.Errorf("tui.command is required")
	}
	if c.Hold.DurationMs < 0 {
		return fmt.Errorf("hold.duration_ms must be positive")
	}
	if c.Hold.Strategy != "" {
		if _, err := timing.ParseStrategy(c.Hold.Strategy); err != nil {
			return fmt.Errorf("hold.strategy: %w", err)
		}
	}

	seen := make(map[int]bool)
	names := make(map[string]bool)
	for _, btn := range c.Buttons {
		if btn.Index < 0 || btn.Index >= hid.MaxButtons {
			return fmt.Errorf("button index out of range 0-%d: %d", hid.MaxButtons-1, btn.Index)
		}
		if seen[btn.Index] {
			return fmt.Errorf("duplicate button index: %d", btn.Index)
		}
		seen[btn.Index] = true

		if names[btn.Name] {
			return fmt.Errorf("duplicate button name: %s", btn.Name)
		}
		names[btn.Name] = true
		if btn.DurationMs < 0 {
			return fmt.Errorf("button %d: duration_ms must be positive", btn.Index)
		}
		if btn.Strategy != "" {
			if _, err := timing.ParseStrategy(btn.Strategy); err != nil {
				return fmt.Errorf("button %d: %w", btn.Index, err)
			}
		}
		if len(btn.Keys) == 0 {
			return fmt.Errorf("button %d has no keys", btn.Index)
		}
	}

	for _, region := range c.Display.Regions {
		name, ok := region.HoldButton()
		if !ok {
			continue
		}
		if !names[name] {
			return fmt.Errorf("region %s: unknown button %q", region.Name, name)
		}
	}

	return nil
}

func (c *Config) defaultButtonNames() {
	for i := range c.Buttons {
		if c.Buttons[i].Name == "" {
			c.Buttons[i].Name = fmt.Sprintf("btn_%d", c.Buttons[i].Index)
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Device.PollIntervalMs == 0 {
		c.Device.PollIntervalMs = 10
	}
	if c.Hold.DurationMs == 0 {
		c.Hold.DurationMs = 1000
	}
	if c.Hold.Strategy == "" {
		c.Hold.Strategy = timing.StrategyFrame.String()
	}
	if c.Hold.FrameRate == 0 {
		c.Hold.FrameRate = 60
	}
	if c.TUI.KeyDelayMs == 0 {
		c.TUI.KeyDelayMs = 10
	}
	if c.Display.Width == 0 {
		c.Display.Width = 128
	}
	if c.Display.Height == 0 {
		c.Display.Height = 64
	}
	if c.Display.UpdateIntervalMs == 0 {
		c.Display.UpdateIntervalMs = 100
	}
}

// ButtonDuration returns the hold duration for b, falling back to the
// global default
func (c *Config) ButtonDuration(b Button) time.Duration {
	ms := b.DurationMs
	if ms == 0 {
		ms = c.Hold.DurationMs
	}
	return time.Duration(ms) * time.Millisecond
}

// ButtonStrategy returns the timing strategy for b, falling back to the
// global default
func (c *Config) ButtonStrategy(b Button) timing.Strategy {
	name := b.Strategy
	if name == "" {
		name = c.Hold.Strategy
	}
	s, err := timing.ParseStrategy(name)
	if err != nil {
		// Validated in Load
		return timing.StrategyDeadline
	}
	return s
}

// KeyDelay returns the pause between keys of one sequence
func (c *Config) KeyDelay() time.Duration {
	return time.Duration(c.TUI.KeyDelayMs) * time.Millisecond
}

// UpdateDeviceIDs updates the vendor_id and product_id in a config file
// while preserving the rest of the file structure and comments
func UpdateDeviceIDs(path string, vendorID, productID uint16) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	content := string(data)

	// vendor_id: 0x1234 or vendor_id: 1234
	vendorRegex := regexp.MustCompile(`(?m)^(\s*vendor_id:\s*)(?:0x[0-9A-Fa-f]+|\d+)`)
	content = vendorRegex.ReplaceAllString(content, fmt.Sprintf("${1}0x%04X", vendorID))

	productRegex := regexp.MustCompile(`(?m)^(\s*product_id:\s*)(?:0x[0-9A-Fa-f]+|\d+)`)
	content = productRegex.ReplaceAllString(content, fmt.Sprintf("${1}0x%04X", productID))

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// CreateDefaultConfig creates a new config file with default values and the specified device
func CreateDefaultConfig(path string, vendorID, productID uint16) error {
	content := fmt.Sprintf(`# holdpad configuration

device:
  vendor_id: 0x%04X
  product_id: 0x%04X
  poll_interval_ms: 10

# Defaults for every button
hold:
  duration_ms: 1000
  strategy: frame   # deadline, frame or hybrid
  frame_rate: 60

tui:
  command: "your-tui-app"
  args: []
  key_delay_ms: 10

# A button fires its keys once it has been held for its duration
buttons:
  - index: 0
    name: confirm
    keys: ["enter"]
  - index: 1
    name: quit
    duration_ms: 2000
    keys: ["ctrl+c"]

display:
  width: 128
  height: 64
  update_interval_ms: 100
  regions:
    - name: confirm_bar
      x: 0
      y: 0
      width: 128
      height: 16
      source: hold:confirm
    - name: quit_bar
      x: 0
      y: 20
      width: 128
      height: 16
      source: hold:quit
`, vendorID, productID)

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	return nil
}

// Exists checks if a config file exists
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

package display

import (
	"context"
	"log"
	"regexp"
	"sync"
	"time"

	"github.com/pleimann/holdpad/internal/config"
	"github.com/pleimann/holdpad/internal/hid"
)

// FrameSink sends frames to the device
type FrameSink interface {
	SendFrame(frame *hid.DisplayFrame) error
}

// StatusSource provides recent TUI output to scan for status lines
type StatusSource interface {
	RecentOutput() string
}

// Status lines look like "STATUS: text"
var statusPattern = regexp.MustCompile(`(?m)^STATUS:\s*(.+?)\s*$`)

// Manager draws configured regions on the device display: static text, the
// TUI status line and per-button hold bars
type Manager struct {
	sink   FrameSink
	status StatusSource

	mu       sync.Mutex
	config   config.DisplayConfig
	renderer *Renderer
	encoder  *FrameEncoder
	regions  []*regionState
	dirty    bool
}

type regionState struct {
	config  config.DisplayRegion
	button  string
	content string
	percent float64
}

// NewManager creates a display manager. status may be nil.
func NewManager(cfg config.DisplayConfig, sink FrameSink, status StatusSource) *Manager {
	m := &Manager{
		sink:   sink,
		status: status,
	}
	m.configure(cfg)
	return m
}

func (m *Manager) configure(cfg config.DisplayConfig) {
	m.config = cfg
	m.renderer = NewRenderer(cfg.Width, cfg.Height)
	m.encoder = NewFrameEncoder(cfg.Width, cfg.Height)
	m.regions = m.regions[:0]
	for _, rc := range cfg.Regions {
		rs := &regionState{config: rc, content: rc.Content}
		rs.button, _ = rc.HoldButton()
		m.regions = append(m.regions, rs)
	}
	m.dirty = true
}

// Reconfigure replaces the region layout, e.g. after a config reload.
// Hold progress is not carried over.
func (m *Manager) Reconfigure(cfg config.DisplayConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configure(cfg)
}

// Run redraws on every update interval until ctx is done, then clears the
// screen
func (m *Manager) Run(ctx context.Context) {
	m.mu.Lock()
	interval := time.Duration(m.config.UpdateIntervalMs) * time.Millisecond
	m.mu.Unlock()
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.clear()
			return
		case <-ticker.C:
			m.Update()
		}
	}
}

// SetRegionContent sets the text of a named region
func (m *Manager) SetRegionContent(name, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.regions {
		if r.config.Name == name && r.content != content {
			r.content = content
			m.dirty = true
		}
	}
}

// SetHoldProgress sets the bar of every region bound to button
func (m *Manager) SetHoldProgress(button string, percent float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.regions {
		if r.button == button && r.percent != percent {
			r.percent = percent
			m.dirty = true
		}
	}
}

// HoldProgress returns the last progress set for button
func (m *Manager) HoldProgress(button string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.regions {
		if r.button == button {
			return r.percent
		}
	}
	return 0
}

// Update redraws if anything changed and sends the changed bands. It
// returns the number of frames sent.
func (m *Manager) Update() int {
	m.mu.Lock()
	if m.status != nil {
		m.parseStatus(m.status.RecentOutput())
	}
	if !m.dirty {
		m.mu.Unlock()
		return 0
	}

	m.renderer.Clear()
	for _, r := range m.regions {
		m.renderRegion(r)
	}
	m.dirty = false
	frames := m.encoder.Changed(m.renderer.Pack())
	m.mu.Unlock()

	sent := 0
	for _, f := range frames {
		if err := m.sink.SendFrame(f); err != nil {
			log.Printf("Display update failed: %v", err)
			m.mu.Lock()
			m.encoder.Reset()
			m.dirty = true
			m.mu.Unlock()
			break
		}
		sent++
	}
	return sent
}

func (m *Manager) clear() {
	m.mu.Lock()
	frame := m.encoder.Clear()
	m.mu.Unlock()

	if err := m.sink.SendFrame(frame); err != nil {
		log.Printf("Display clear failed: %v", err)
	}
}

func (m *Manager) parseStatus(output string) {
	matches := statusPattern.FindAllStringSubmatch(output, -1)
	if len(matches) == 0 {
		return
	}
	status := matches[len(matches)-1][1]
	for _, r := range m.regions {
		if r.config.Source == "tui_status" && r.content != status {
			r.content = status
			m.dirty = true
		}
	}
}

func (m *Manager) renderRegion(r *regionState) {
	cfg := r.config

	switch {
	case r.button != "":
		barY, barH := cfg.Y, cfg.Height
		if r.content != "" && cfg.Height >= m.renderer.LineHeight()+6 {
			m.renderer.DrawText(cfg.X+2, cfg.Y+m.renderer.LineHeight()-2, r.content)
			barY += m.renderer.LineHeight()
			barH -= m.renderer.LineHeight()
		}
		m.renderer.DrawProgressBar(cfg.X, barY, cfg.Width, barH, r.percent)

	case cfg.Source == "static" || cfg.Source == "tui_status":
		// Baseline of the first line sits one line below the top
		m.renderer.DrawTextWrapped(cfg.X+2, cfg.Y+m.renderer.LineHeight()-1, cfg.Width-4, r.content)
	}
}

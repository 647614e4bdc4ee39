package pty

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"sync"

	"github.com/creack/pty"

	"github.com/pleimann/holdpad/internal/action"
)

// ErrNotStarted is returned by writes before Start or after Stop
var ErrNotStarted = errors.New("PTY not started")

// Manager runs the target TUI in a PTY. Completed holds are typed into it
// and its recent output feeds the device status line.
type Manager struct {
	command    string
	args       []string
	workingDir string

	mu     sync.Mutex
	ptmx   *os.File
	cmd    *exec.Cmd
	exited chan struct{}

	outputMu sync.RWMutex
	output   *RingBuffer
}

// RingBuffer keeps the last size bytes written to it
type RingBuffer struct {
	data  []byte
	size  int
	write int
	full  bool
}

// NewRingBuffer creates a new ring buffer with the given size
func NewRingBuffer(size int) *RingBuffer {
	return &RingBuffer{
		data: make([]byte, size),
		size: size,
	}
}

// Write appends p, overwriting the oldest bytes once full
func (rb *RingBuffer) Write(p []byte) {
	for _, b := range p {
		rb.data[rb.write] = b
		rb.write = (rb.write + 1) % rb.size
		if rb.write == 0 {
			rb.full = true
		}
	}
}

// String returns the buffer contents from oldest to newest
func (rb *RingBuffer) String() string {
	if !rb.full {
		return string(rb.data[:rb.write])
	}
	out := make([]byte, 0, rb.size)
	out = append(out, rb.data[rb.write:]...)
	out = append(out, rb.data[:rb.write]...)
	return string(out)
}

// NewManager creates a new PTY manager
func NewManager(command string, args []string, workingDir string) (*Manager, error) {
	if command == "" {
		return nil, fmt.Errorf("command is required")
	}

	return &Manager{
		command:    command,
		args:       args,
		workingDir: workingDir,
		output:     NewRingBuffer(4096),
	}, nil
}

// Start starts the TUI process in a PTY
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ptmx != nil {
		return fmt.Errorf("PTY already started")
	}

	cmd := exec.CommandContext(ctx, m.command, m.args...)
	if m.workingDir != "" {
		cmd.Dir = m.workingDir
	}
	cmd.Env = os.Environ()

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return fmt.Errorf("failed to start PTY: %w", err)
	}

	m.ptmx = ptmx
	m.cmd = cmd
	m.exited = make(chan struct{})

	go m.readOutput(ptmx)
	go func(exited chan struct{}) {
		if err := cmd.Wait(); err != nil && ctx.Err() == nil {
			log.Printf("TUI %s exited: %v", m.command, err)
		}
		close(exited)
	}(m.exited)

	return nil
}

// Exited is closed when the TUI process ends. Nil before Start.
func (m *Manager) Exited() <-chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exited
}

// Stop stops the TUI process and closes the PTY
func (m *Manager) Stop() {
	m.mu.Lock()
	cmd, exited := m.cmd, m.exited
	if m.ptmx != nil {
		m.ptmx.Close()
		m.ptmx = nil
	}
	m.mu.Unlock()

	if cmd != nil && cmd.Process != nil {
		cmd.Process.Signal(os.Interrupt)
		<-exited
	}
}

func (m *Manager) readOutput(r io.Reader) {
	buf := make([]byte, 1024)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			m.outputMu.Lock()
			m.output.Write(buf[:n])
			m.outputMu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

// WriteKey writes a key press to the PTY
func (m *Manager) WriteKey(key action.KeyPress) error {
	data := key.ToBytes()
	if data == nil {
		return fmt.Errorf("could not convert key %s to bytes", key)
	}
	return m.write(data)
}

// WriteString writes a string to the PTY
func (m *Manager) WriteString(s string) error {
	return m.write([]byte(s))
}

func (m *Manager) write(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ptmx == nil {
		return ErrNotStarted
	}
	_, err := m.ptmx.Write(data)
	return err
}

// RecentOutput returns the last few KB of TUI output
func (m *Manager) RecentOutput() string {
	m.outputMu.RLock()
	defer m.outputMu.RUnlock()
	return m.output.String()
}

// Resize resizes the PTY window
func (m *Manager) Resize(rows, cols uint16) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ptmx == nil {
		return ErrNotStarted
	}

	return pty.Setsize(m.ptmx, &pty.Winsize{
		Rows: rows,
		Cols: cols,
	})
}

// IsRunning reports whether the TUI process is running
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	exited := m.exited
	m.mu.Unlock()

	if exited == nil {
		return false
	}
	select {
	case <-exited:
		return false
	default:
		return true
	}
}

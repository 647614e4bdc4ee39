package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/pleimann/holdpad/internal/action"
	"github.com/pleimann/holdpad/internal/config"
	"github.com/pleimann/holdpad/internal/display"
	"github.com/pleimann/holdpad/internal/gesture"
	"github.com/pleimann/holdpad/internal/hid"
	"github.com/pleimann/holdpad/internal/loop"
	"github.com/pleimann/holdpad/internal/pad"
	"github.com/pleimann/holdpad/internal/pty"
	"github.com/pleimann/holdpad/internal/timing"
)

// App connects the macropad to the TUI. Button reports, timers, frames and
// config reloads all run on a single event loop; key writes and display
// updates run on their own goroutines.
type App struct {
	config  *config.Config
	verbose bool

	loop    *loop.Loop
	frames  *timing.TickerFrames
	board   *pad.Board
	watcher *config.Watcher

	hidDevice      *hid.Device
	actionMapper   *action.Mapper
	actionExecutor *action.Executor
	ptyManager     *pty.Manager
	keyWriter      *pty.Writer
	displayManager *display.Manager
}

func newApp(configPath string, verbose bool) (*App, error) {
	watcher, err := config.NewWatcher(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg := watcher.Get()

	if verbose {
		log.Printf("Loaded configuration from %s", configPath)
		log.Printf("Device: VendorID=0x%04X, ProductID=0x%04X",
			cfg.Device.VendorID, cfg.Device.ProductID)
		log.Printf("TUI command: %s %v", cfg.TUI.Command, cfg.TUI.Args)
	}

	app := &App{
		config:  cfg,
		verbose: verbose,
		watcher: watcher,
		loop:    loop.New(),
	}

	app.actionMapper, err = action.NewMapper(cfg)
	if err != nil {
		watcher.Stop()
		return nil, err
	}

	app.ptyManager, err = pty.NewManager(cfg.TUI.Command, cfg.TUI.Args, cfg.TUI.WorkingDir)
	if err != nil {
		watcher.Stop()
		return nil, fmt.Errorf("failed to create PTY manager: %w", err)
	}
	app.keyWriter = pty.NewWriter(app.ptyManager, cfg.KeyDelay())
	app.actionExecutor = action.NewExecutor(app.keyWriter, 0)

	app.hidDevice, err = hid.Open(cfg.Device.VendorID, cfg.Device.ProductID)
	if err != nil {
		watcher.Stop()
		return nil, fmt.Errorf("failed to open HID device: %w", err)
	}
	app.displayManager = display.NewManager(cfg.Display, app.hidDevice, app.ptyManager)

	app.frames = timing.NewTickerFrames(app.loop, cfg.Hold.FrameRate)
	app.board = pad.NewBoard(timing.Env{
		Clock:  timing.NewLoopClock(timing.SystemClock, app.loop),
		Frames: app.frames,
	}, app)
	if err := app.board.Bind(cfg); err != nil {
		app.hidDevice.Close()
		watcher.Stop()
		return nil, fmt.Errorf("failed to bind buttons: %w", err)
	}
	app.applyLabels(cfg)

	return app, nil
}

// Run blocks until ctx is done or the TUI exits
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := a.ptyManager.Start(ctx); err != nil {
		return fmt.Errorf("failed to start PTY: %w", err)
	}
	a.resizeToTerminal()

	a.watcher.OnReload(func(cfg *config.Config) {
		a.loop.Post(func() { a.reload(cfg) })
	})
	a.watcher.Start()

	// The display clears itself on exit, so it must finish before the
	// device is closed
	var displayDone sync.WaitGroup
	displayDone.Add(1)
	go func() {
		defer displayDone.Done()
		a.displayManager.Run(ctx)
	}()

	go a.frames.Run(ctx)
	go a.actionExecutor.Run(ctx)
	go a.readDevice(ctx, pollInterval(a.config))

	go func() {
		select {
		case <-a.ptyManager.Exited():
			if a.verbose {
				log.Println("TUI exited")
			}
			cancel()
		case <-ctx.Done():
		}
	}()

	if a.verbose {
		log.Printf("Bound buttons: %v", a.board.Buttons())
	}

	// The loop only stops when ctx is done
	_ = a.loop.Run(ctx)
	cancel()
	displayDone.Wait()
	a.shutdown()
	return nil
}

// readDevice forwards button reports to the loop. When the device goes
// away every hold is cancelled and the device is polled until it returns.
func (a *App) readDevice(ctx context.Context, poll time.Duration) {
	for {
		err := a.hidDevice.ReadReports(ctx, func(r hid.ButtonReport) {
			a.loop.Post(func() { a.board.HandleReport(r) })
		})
		if ctx.Err() != nil {
			return
		}

		log.Printf("HID read error: %v, waiting for device", err)
		a.loop.Post(a.board.Blur)

		if err := a.hidDevice.WaitForDevice(ctx, poll); err != nil {
			return
		}
		log.Println("HID device reconnected")
	}
}

// pollInterval is how often a missing device is looked for
func pollInterval(cfg *config.Config) time.Duration {
	ms := cfg.Device.PollIntervalMs
	if ms < 100 {
		ms = 100
	}
	return time.Duration(ms) * time.Millisecond
}

// reload applies a changed config. Runs on the loop.
func (a *App) reload(cfg *config.Config) {
	if err := a.actionMapper.Reload(cfg); err != nil {
		log.Printf("Config reload rejected: %v", err)
		return
	}
	if err := a.board.Bind(cfg); err != nil {
		log.Printf("Config reload rejected: %v", err)
		// Restore the keys matching the bindings that were kept
		if err := a.actionMapper.Reload(a.config); err != nil {
			log.Printf("Failed to restore key mappings: %v", err)
		}
		return
	}

	a.displayManager.Reconfigure(cfg.Display)
	a.applyLabels(cfg)
	a.keyWriter.SetKeyDelay(cfg.KeyDelay())
	if cfg.Hold.FrameRate != a.config.Hold.FrameRate {
		log.Printf("frame_rate change takes effect after restart")
	}
	a.config = cfg

	if a.verbose {
		log.Printf("Bound buttons: %v", a.board.Buttons())
	}
}

// applyLabels shows each button label above its hold bar unless the region
// sets its own content
func (a *App) applyLabels(cfg *config.Config) {
	labels := make(map[string]string, len(cfg.Buttons))
	for _, btn := range cfg.Buttons {
		labels[btn.Name] = btn.Label
	}
	for _, r := range cfg.Display.Regions {
		button, ok := r.HoldButton()
		if !ok || r.Content != "" || labels[button] == "" {
			continue
		}
		a.displayManager.SetRegionContent(r.Name, labels[button])
	}
}

func (a *App) resizeToTerminal() {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return
	}
	cols, rows, err := term.GetSize(fd)
	if err != nil {
		return
	}
	if err := a.ptyManager.Resize(uint16(rows), uint16(cols)); err != nil {
		log.Printf("Failed to resize PTY: %v", err)
	}
}

// HoldStarted implements pad.Sink
func (a *App) HoldStarted(button string, m gesture.Modality) {
	if a.verbose {
		log.Printf("Hold started: %s (%s)", button, m)
	}
}

// HoldProgress implements pad.Sink
func (a *App) HoldProgress(button string, percent float64) {
	a.displayManager.SetHoldProgress(button, percent)
}

// HoldCompleted implements pad.Sink
func (a *App) HoldCompleted(button string) {
	a.displayManager.SetHoldProgress(button, 0)

	keys := a.actionMapper.Map(button)
	if a.verbose {
		log.Printf("Hold completed: %s -> %s", button, keys)
	}
	if len(keys) == 0 {
		return
	}
	if !a.actionExecutor.Submit(action.Job{Button: button, Keys: keys}) {
		log.Printf("Dropped keys for %s: executor queue full", button)
	}
}

// HoldCancelled implements pad.Sink
func (a *App) HoldCancelled(button string) {
	a.displayManager.SetHoldProgress(button, 0)
	if a.verbose {
		log.Printf("Hold cancelled: %s", button)
	}
}

func (a *App) shutdown() {
	if a.verbose {
		log.Println("Shutting down...")
	}
	a.watcher.Stop()
	a.board.Close()
	a.ptyManager.Stop()
	a.hidDevice.Close()
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/pleimann/holdpad/internal/config"
	"github.com/pleimann/holdpad/internal/hid"
	"github.com/pleimann/holdpad/internal/timing"
	"github.com/pleimann/holdpad/internal/ui"
)

const Version = "0.2.0"

func main() {
	// Check for subcommands first
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "list-devices":
			runListDevices()
			return
		case "set-device", "select-device":
			runSetDevice(os.Args[2:])
			return
		case "demo":
			runDemo(os.Args[2:])
			return
		case "help", "-h", "--help":
			printUsage()
			os.Exit(0)
		}
	}

	// Main command flags
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	verbose := flag.Bool("verbose", false, "enable verbose logging")
	version := flag.Bool("version", false, "print version and exit")

	flag.Usage = printUsage
	flag.Parse()

	if *version {
		ui.PrintVersion(Version)
		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	app, err := newApp(*configPath, *verbose)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	go func() {
		<-sigChan
		if *verbose {
			log.Println("Received shutdown signal")
		}
		cancel()
	}()

	if err := app.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("Application error: %v", err)
	}

	if *verbose {
		log.Println("Shutdown complete")
	}
}

func printUsage() {
	ui.PrintUsage(Version)
}

// runListDevices handles the list-devices subcommand
func runListDevices() {
	devices, err := hid.ListDevices()
	if err != nil {
		ui.PrintFatalError("Failed to list devices", err.Error())
		os.Exit(1)
	}
	ui.PrintDeviceList(toUIDevices(devices))
}

// runSetDevice handles the set-device subcommand
func runSetDevice(args []string) {
	fs := flag.NewFlagSet("set-device", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to configuration file")
	fs.Usage = func() {
		ui.PrintSetDeviceUsage()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	remaining := fs.Args()

	var vendorID, productID uint16

	switch len(remaining) {
	case 0:
		device, err := selectDevice()
		if err != nil {
			ui.PrintFatalError("Device selection failed", err.Error())
			os.Exit(1)
		}
		if device == nil {
			fmt.Println(ui.Muted("No device selected"))
			os.Exit(0)
		}
		vendorID = device.VendorID
		productID = device.ProductID
	case 1:
		ui.PrintFatalError("Invalid arguments", "Both vendor_id and product_id must be provided, or neither")
		os.Exit(1)
	default:
		vid, err := parseID(remaining[0])
		if err != nil {
			ui.PrintFatalError("Invalid vendor_id", fmt.Sprintf("%q: %v", remaining[0], err))
			os.Exit(1)
		}
		pid, err := parseID(remaining[1])
		if err != nil {
			ui.PrintFatalError("Invalid product_id", fmt.Sprintf("%q: %v", remaining[1], err))
			os.Exit(1)
		}
		vendorID = vid
		productID = pid
	}

	// Update or create config file
	created := !config.Exists(*configPath)
	if created {
		if err := config.CreateDefaultConfig(*configPath, vendorID, productID); err != nil {
			ui.PrintFatalError("Failed to create config", err.Error())
			os.Exit(1)
		}
	} else if err := config.UpdateDeviceIDs(*configPath, vendorID, productID); err != nil {
		ui.PrintFatalError("Failed to update config", err.Error())
		os.Exit(1)
	}
	ui.PrintDeviceSaved(*configPath, vendorID, productID, created)
}

// runDemo handles the demo subcommand
func runDemo(args []string) {
	fs := flag.NewFlagSet("demo", flag.ExitOnError)
	duration := fs.Duration("duration", time.Second, "hold duration")
	strategyName := fs.String("strategy", "", "timing strategy: deadline, frame or hybrid")
	fps := fs.Int("fps", 60, "frames per second for progress")
	fs.Usage = func() {
		ui.PrintDemoUsage()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *duration <= 0 {
		ui.PrintFatalError("Invalid duration", fmt.Sprintf("%s: must be positive", *duration))
		os.Exit(1)
	}

	var strategy timing.Strategy
	if *strategyName == "" {
		s, ok, err := ui.SelectStrategy(timing.StrategyHybrid)
		if err != nil {
			ui.PrintFatalError("Strategy selection failed", err.Error())
			os.Exit(1)
		}
		if !ok {
			fmt.Println(ui.Muted("No strategy selected"))
			os.Exit(0)
		}
		strategy = s
	} else {
		s, err := timing.ParseStrategy(*strategyName)
		if err != nil {
			ui.PrintFatalError("Invalid strategy", err.Error())
			os.Exit(1)
		}
		strategy = s
	}

	err := ui.RunDemo(ui.DemoOptions{
		Duration:  *duration,
		Strategy:  strategy,
		FrameRate: *fps,
	})
	if err != nil {
		msg := err.Error()
		if errors.Is(err, ui.ErrNotTerminal) {
			msg = "run the demo from an interactive terminal"
		}
		ui.PrintFatalError("Demo failed", msg)
		os.Exit(1)
	}
}

// parseID parses a vendor or product ID from string (supports hex with 0x prefix or decimal)
func parseID(s string) (uint16, error) {
	s = strings.TrimSpace(s)

	var val uint64
	var err error

	if strings.HasPrefix(strings.ToLower(s), "0x") {
		val, err = strconv.ParseUint(s[2:], 16, 16)
	} else {
		val, err = strconv.ParseUint(s, 10, 16)
	}

	if err != nil {
		return 0, err
	}

	return uint16(val), nil
}

// selectDevice displays an interactive device selection menu using huh
func selectDevice() (*ui.DeviceInfo, error) {
	devices, err := hid.ListDevices()
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	if len(devices) == 0 {
		return nil, fmt.Errorf("no HID devices found")
	}

	unique := hid.Unique(devices)
	if len(unique) == 0 {
		return nil, fmt.Errorf("no identifiable HID devices found")
	}

	return ui.SelectDevice(toUIDevices(unique))
}

func toUIDevices(devices []hid.DeviceInfo) []ui.DeviceInfo {
	out := make([]ui.DeviceInfo, len(devices))
	for i, d := range devices {
		out[i] = ui.DeviceInfo{
			VendorID:     d.VendorID,
			ProductID:    d.ProductID,
			Manufacturer: d.Manufacturer,
			Product:      d.Product,
		}
	}
	return out
}

package hid

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/karalabe/hid"

	"github.com/pleimann/holdpad/internal/utils"
)

// ErrClosed is returned by operations on a closed device
var ErrClosed = errors.New("device closed")

// Device is a connection to the macropad. Button reports are read on one
// goroutine while display frames are written from another.
type Device struct {
	vendorID  uint16
	productID uint16
	device    *hid.Device
	mu        sync.Mutex
	closed    bool
}

const permissionHint = "\n" +
	"  This may be a permissions issue. On macOS, try:\n" +
	"  1. System Settings > Privacy & Security > Input Monitoring\n" +
	"  2. Add Terminal (or your terminal app) to the list"

// Open connects to the first openable interface of the given device
func Open(vendorID, productID uint16) (*Device, error) {
	devices := hid.Enumerate(vendorID, productID)
	if len(devices) == 0 {
		if len(hid.Enumerate(0, 0)) == 0 {
			return nil, fmt.Errorf("no HID devices found on system - check USB connection")
		}
		name := utils.ExecutableName()
		return nil, fmt.Errorf("no device found with VendorID=0x%04X, ProductID=0x%04X\n"+
			"  Run '%s list-devices' to see available devices\n"+
			"  Run '%s set-device' to configure the correct device",
			vendorID, productID, name, name)
	}

	dev, err := openFirst(devices)
	if err != nil {
		return nil, fmt.Errorf("failed to open any of %d interface(s) for device 0x%04X:0x%04X: %w"+permissionHint,
			len(devices), vendorID, productID, err)
	}

	return &Device{
		vendorID:  vendorID,
		productID: productID,
		device:    dev,
	}, nil
}

// Some devices expose several interfaces and not all of them can be opened
func openFirst(devices []hid.DeviceInfo) (*hid.Device, error) {
	var lastErr error
	for _, info := range devices {
		dev, err := info.Open()
		if err == nil {
			return dev, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// Close closes the HID device connection
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true

	if d.device != nil {
		return d.device.Close()
	}
	return nil
}

// ReadReports reads button reports and passes each to fn until ctx is done
// or the device fails. Malformed reports are skipped.
func (d *Device) ReadReports(ctx context.Context, fn func(ButtonReport)) error {
	buf := make([]byte, 64)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		d.mu.Lock()
		if d.closed || d.device == nil {
			d.mu.Unlock()
			return ErrClosed
		}
		dev := d.device
		d.mu.Unlock()

		n, err := dev.Read(buf)
		if err != nil {
			return fmt.Errorf("read error: %w", err)
		}
		if n == 0 {
			continue
		}

		report, err := ParseButtonReport(buf[:n])
		if err != nil {
			log.Printf("Skipping HID report: %v", err)
			continue
		}
		fn(report)
	}
}

// Write sends data to the HID device
func (d *Device) Write(data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed || d.device == nil {
		return ErrClosed
	}

	_, err := d.device.Write(data)
	return err
}

// SendFrame sends a display frame to the device
func (d *Device) SendFrame(frame *DisplayFrame) error {
	return d.Write(frame.Encode())
}

// Reconnect closes the current handle and opens the device again
func (d *Device) Reconnect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.device != nil {
		d.device.Close()
		d.device = nil
	}
	d.closed = false

	devices := hid.Enumerate(d.vendorID, d.productID)
	if len(devices) == 0 {
		return fmt.Errorf("device 0x%04X:0x%04X not found", d.vendorID, d.productID)
	}

	dev, err := openFirst(devices)
	if err != nil {
		return fmt.Errorf("failed to open device: %w", err)
	}
	d.device = dev
	return nil
}

// WaitForDevice retries Reconnect every pollInterval until it succeeds or
// ctx is done
func (d *Device) WaitForDevice(ctx context.Context, pollInterval time.Duration) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := d.Reconnect(); err == nil {
				return nil
			}
		}
	}
}

package hid

import (
	"fmt"

	"github.com/karalabe/hid"
)

// DeviceInfo describes a discovered HID device
type DeviceInfo struct {
	VendorID     uint16
	ProductID    uint16
	Path         string
	Manufacturer string
	Product      string
	SerialNumber string
	UsagePage    uint16
	Usage        uint16
}

// ID returns the vendor and product IDs as "0xVVVV:0xPPPP"
func (d DeviceInfo) ID() string {
	return fmt.Sprintf("0x%04X:0x%04X", d.VendorID, d.ProductID)
}

func infoFrom(d hid.DeviceInfo) DeviceInfo {
	return DeviceInfo{
		VendorID:     d.VendorID,
		ProductID:    d.ProductID,
		Path:         d.Path,
		Manufacturer: d.Manufacturer,
		Product:      d.Product,
		SerialNumber: d.Serial,
		UsagePage:    d.UsagePage,
		Usage:        d.Usage,
	}
}

// ListDevices returns every HID interface on the system
func ListDevices() ([]DeviceInfo, error) {
	if !hid.Supported() {
		return nil, fmt.Errorf("HID is not supported on this platform")
	}

	devices := hid.Enumerate(0, 0)
	result := make([]DeviceInfo, len(devices))
	for i, d := range devices {
		result[i] = infoFrom(d)
	}
	return result, nil
}

// Unique drops repeated interfaces of one device and entries without IDs,
// keeping the first of each vendor/product pair
func Unique(devices []DeviceInfo) []DeviceInfo {
	seen := make(map[uint32]bool)
	var out []DeviceInfo
	for _, d := range devices {
		if d.VendorID == 0 && d.ProductID == 0 {
			continue
		}
		key := uint32(d.VendorID)<<16 | uint32(d.ProductID)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, d)
	}
	return out
}

// FindDevice returns the first interface matching the IDs, or nil
func FindDevice(vendorID, productID uint16) *DeviceInfo {
	devices := hid.Enumerate(vendorID, productID)
	if len(devices) == 0 {
		return nil
	}
	info := infoFrom(devices[0])
	return &info
}

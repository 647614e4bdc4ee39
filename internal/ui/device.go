package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// DeviceInfo contains information about a HID device for display
type DeviceInfo struct {
	VendorID     uint16
	ProductID    uint16
	Manufacturer string
	Product      string
}

func (d DeviceInfo) id() string {
	return fmt.Sprintf("0x%04X:0x%04X", d.VendorID, d.ProductID)
}

// SelectDevice asks the user to pick a device. It returns nil if the user
// cancelled.
func SelectDevice(devices []DeviceInfo) (*DeviceInfo, error) {
	if len(devices) == 0 {
		return nil, fmt.Errorf("no devices to select from")
	}

	options := make([]huh.Option[int], len(devices))
	for i, d := range devices {
		label := fmt.Sprintf("%s  %s", DeviceIDStyle.Render(d.id()), formatDeviceName(d))
		options[i] = huh.NewOption(label, i)
	}

	var selected int
	ok, err := runForm(
		huh.NewSelect[int]().
			Title("Select HID Device").
			Description("Choose the macropad whose buttons drive the hold widgets (esc to cancel)").
			Options(options...).
			Value(&selected),
	)
	if err != nil || !ok {
		return nil, err
	}

	return &devices[selected], nil
}

func formatDeviceName(d DeviceInfo) string {
	name := d.Product
	if name == "" {
		name = "Unknown Device"
	}
	if d.Manufacturer != "" {
		name = d.Manufacturer + " " + name
	}
	return name
}

// PrintDeviceList displays a styled list of HID devices
func PrintDeviceList(devices []DeviceInfo) {
	if len(devices) == 0 {
		fmt.Println(Warning("No HID devices found"))
		return
	}

	fmt.Println()
	fmt.Println(Title("HID Devices"))
	fmt.Println(Muted(fmt.Sprintf("Found %d device(s)", len(devices))))
	fmt.Println()

	for _, d := range devices {
		name := d.Product
		if name == "" {
			name = "Unknown Device"
		}
		details := []string{DeviceNameStyle.Render(name)}
		if d.Manufacturer != "" {
			details = append(details, DeviceManufacturerStyle.Render("by "+d.Manufacturer))
		}
		fmt.Printf("%s  %s\n", DeviceIDStyle.Render("  "+d.id()), strings.Join(details, " "))
	}
	fmt.Println()
}

// PrintDeviceSaved shows where the device was written. created is true when
// a new config file was generated.
func PrintDeviceSaved(configPath string, vendorID, productID uint16, created bool) {
	msg := "Device configuration updated"
	if created {
		msg = "Device configuration created"
	}
	fmt.Println()
	fmt.Println(Success(msg))
	fmt.Println()
	fmt.Printf("  %s %s\n", Muted("Config:"), configPath)
	fmt.Printf("  %s %s\n", Muted("Device:"), DeviceIDStyle.Render(DeviceInfo{VendorID: vendorID, ProductID: productID}.id()))
	if created {
		fmt.Printf("  %s %s\n", Muted("Next:"), "edit tui.command and the buttons list")
	}
	fmt.Println()
}

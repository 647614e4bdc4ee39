package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pleimann/holdpad/internal/utils"
)

type example struct {
	cmd  string
	desc string
}

// PrintUsage displays the styled help/usage text
func PrintUsage(version string) {
	name := utils.ExecutableName()

	banner := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		Render(name)

	versionTag := lipgloss.NewStyle().
		Foreground(ColorMuted).
		Render("v" + version)

	fmt.Printf("%s %s\n", banner, versionTag)
	fmt.Println(Muted("Click-and-hold macropad buttons for TUI applications"))
	fmt.Println()

	printSection("Usage", []string{
		name + " [flags]              Run the middleware",
		name + " demo [flags]         Try a hold widget in the terminal",
		name + " list-devices         List available HID devices",
		name + " set-device [args]    Configure the HID device",
		name + " help                 Show this help message",
	})

	printSection("Flags", []string{
		"-config string    Path to configuration file (default \"config.yaml\")",
		"-verbose          Log every hold start, cancel and completion",
		"-version          Print version and exit",
	})

	printCommandSection(name)

	printExamples([]example{
		{name, "Run with default config.yaml"},
		{name + " -config my.yaml", "Run with custom config file"},
		{name + " demo -strategy hybrid", "Hold a widget driven by the hybrid engine"},
		{name + " list-devices", "List connected HID devices"},
		{name + " set-device", "Interactive device selection"},
		{name + " set-device 0x1234 0x5678", "Set device by vendor/product ID"},
	})
}

func printSection(title string, items []string) {
	fmt.Println(Bold(title))
	for _, item := range items {
		fmt.Printf("  %s\n", item)
	}
	fmt.Println()
}

func printCommandSection(name string) {
	fmt.Println(Bold("Commands"))

	cmdStyle := lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true)

	fmt.Printf("  %s\n", cmdStyle.Render("demo"))
	fmt.Printf("      Hold space or the mouse on a widget and watch its progress\n")
	fmt.Printf("      Run %s for more information\n", Code(name+" demo --help"))
	fmt.Println()

	fmt.Printf("  %s\n", cmdStyle.Render("list-devices"))
	fmt.Printf("      List available HID devices\n")
	fmt.Println()

	fmt.Printf("  %s\n", cmdStyle.Render("set-device"))
	fmt.Printf("      Set the HID device in the config file\n")
	fmt.Printf("      Run %s for more information\n", Code(name+" set-device --help"))
	fmt.Println()
}

func printExamples(examples []example) {
	fmt.Println(Bold("Examples"))

	cmdStyle := lipgloss.NewStyle().
		Foreground(ColorSecondary)

	maxLen := 0
	for _, ex := range examples {
		if len(ex.cmd) > maxLen {
			maxLen = len(ex.cmd)
		}
	}

	for _, ex := range examples {
		padding := strings.Repeat(" ", maxLen-len(ex.cmd)+2)
		fmt.Printf("  %s%s%s\n", cmdStyle.Render(ex.cmd), padding, Muted(ex.desc))
	}
	fmt.Println()
}

// PrintSetDeviceUsage displays the styled help text for set-device subcommand
func PrintSetDeviceUsage() {
	name := utils.ExecutableName()

	fmt.Println(Bold("Usage:"), name+" set-device [options] [vendor_id product_id]")
	fmt.Println()
	fmt.Println("Set the HID device in the configuration file.")
	fmt.Println()
	fmt.Println(Muted("If vendor_id and product_id are provided, updates the config directly."))
	fmt.Println(Muted("Otherwise, displays a list of connected devices to choose from."))
	fmt.Println()

	fmt.Println(Bold("Arguments"))
	fmt.Printf("  %s    Device vendor ID (hex with 0x prefix or decimal)\n", SubtitleStyle.Render("vendor_id"))
	fmt.Printf("  %s   Device product ID (hex with 0x prefix or decimal)\n", SubtitleStyle.Render("product_id"))
	fmt.Println()

	fmt.Println(Bold("Options"))
	fmt.Printf("  %s    Path to configuration file (default \"config.yaml\")\n", SubtitleStyle.Render("-config string"))
	fmt.Println()

	printExamples([]example{
		{name + " set-device", "Interactive selection"},
		{name + " set-device 0x1234 0x5678", "Set IDs directly"},
		{name + " set-device -config my.yaml", "Use different config"},
	})
}

// PrintDemoUsage displays the styled help text for the demo subcommand
func PrintDemoUsage() {
	name := utils.ExecutableName()

	fmt.Println(Bold("Usage:"), name+" demo [options]")
	fmt.Println()
	fmt.Println("Attach a click-and-hold widget to a terminal button.")
	fmt.Println()
	fmt.Println(Muted("Hold space, or press and hold the left mouse button on the widget."))
	fmt.Println(Muted("Without -strategy you are asked to pick one."))
	fmt.Println()

	fmt.Println(Bold("Options"))
	fmt.Printf("  %s  Hold duration (default 1s)\n", SubtitleStyle.Render("-duration duration"))
	fmt.Printf("  %s    deadline, frame or hybrid\n", SubtitleStyle.Render("-strategy string"))
	fmt.Printf("  %s          Frames per second for progress (default 60)\n", SubtitleStyle.Render("-fps int"))
	fmt.Println()

	printExamples([]example{
		{name + " demo", "Pick a strategy interactively"},
		{name + " demo -strategy frame -duration 2s", "Two second hold with a progress bar"},
	})
}

// PrintVersion displays the styled version information
func PrintVersion(version string) {
	banner := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		Render(utils.ExecutableName())

	versionTag := lipgloss.NewStyle().
		Foreground(ColorSuccess).
		Render("v" + version)

	fmt.Printf("%s %s\n", banner, versionTag)
}

// PrintFatalError displays a styled fatal error message with context
func PrintFatalError(context, message string) {
	fmt.Println()
	fmt.Println(Error(context))
	fmt.Printf("  %s\n", Muted(message))
	fmt.Println()
}

package version

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/lotuschain/gnome-ext-builder/internal/tui"
)

// IsFirstRun reports whether neither a config file nor the first-run marker exists.
func IsFirstRun(configFileName string) bool {
	home, err := os.UserHomeDir()
	if err != nil {
		return false
	}
	if _, err := os.Stat(configFileName); err == nil {
		return false
	}
	if _, err := os.Stat(filepath.Join(home, configFileName)); err == nil {
		return false
	}
	if _, err := os.Stat(markerPath(".initialized")); err == nil {
		return false
	}
	return true
}

// MarkInitialized creates the first-run marker.
func MarkInitialized() {
	touch(markerPath(".initialized"))
}

// PrintFirstRunNotice prints a welcome message and records that it was shown.
func PrintFirstRunNotice(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s Welcome to gnome-ext-builder!\n", tui.TitleStyle.Render("*"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Quick start:")
	fmt.Fprintf(w, "    1. Export your key: %s\n", tui.ModelStyle.Render("export API_KEY=..."))
	fmt.Fprintf(w, "    2. Pick a provider and model: %s\n", tui.ModelStyle.Render("gnome-ext-builder setup"))
	fmt.Fprintf(w, "    3. Describe your extension: %s\n", tui.ModelStyle.Render(`gnome-ext-builder generate "a clock in the top panel"`))
	fmt.Fprintf(w, "    4. Or open the form: %s\n", tui.ModelStyle.Render("gnome-ext-builder serve"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", tui.HelpStyle.Render("Run 'gnome-ext-builder --help' for all options"))
	fmt.Fprintln(w)

	MarkInitialized()
}

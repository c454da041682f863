package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/lotuschain/gnome-ext-builder/internal/core"
)

// InstallInstructions returns the markdown install guide for an extension.
func InstallInstructions(uuid string) string {
	if uuid == "" {
		uuid = core.UUIDPlaceholder
	}

	var b strings.Builder
	b.WriteString("## How to Install Your Extension\n\n")
	b.WriteString("1. Identify the `uuid` from your generated `metadata.json` file")
	if uuid != core.UUIDPlaceholder {
		fmt.Fprintf(&b, " (`%s`)", uuid)
	}
	b.WriteString(".\n")
	fmt.Fprintf(&b, "2. Create a directory for your extension:\n\n   ```\n   mkdir -p ~/.local/share/gnome-shell/extensions/%s\n   ```\n\n", uuid)
	b.WriteString("3. Save the generated `extension.js` and `metadata.json` files into this directory.\n")
	b.WriteString("4. Restart GNOME Shell: press **Alt** + **F2**, type `r`, and press **Enter** (or log out and back in).\n")
	fmt.Fprintf(&b, "5. Enable your extension with the Extensions app or the command line:\n\n   ```\n   gnome-extensions enable %s\n   ```\n\n", uuid)
	b.WriteString("> The directory name under `~/.local/share/gnome-shell/extensions/` must exactly match the `uuid` in your `metadata.json`.\n\n")
	b.WriteString("_Generated code is a starting point. Always review and test thoroughly._\n")
	return b.String()
}

// RenderMarkdown renders markdown for the terminal, falling back to the
// source text if the renderer cannot be built.
func RenderMarkdown(md string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}

// RenderArtifact frames one generated file under its name.
func RenderArtifact(title, code string) string {
	return FileStyle.Render(title) + "\n" + CodeBoxStyle.Render(strings.TrimRight(code, "\n")) + "\n"
}

// RenderError frames a user-facing error message.
func RenderError(message string) string {
	return ErrorBoxStyle.Render(ErrorStyle.Render("Error:") + " " + message)
}

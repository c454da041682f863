package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lotuschain/gnome-ext-builder/internal/core"
)

// File names GNOME Shell expects inside an extension directory.
const (
	ExtensionFile = "extension.js"
	MetadataFile  = "metadata.json"
)

// WriteResult describes what an adapter produced.
type WriteResult struct {
	// Dir is the directory the files were written to, empty for stream output.
	Dir string

	// Files lists the paths written (or that would be written in dry-run).
	Files []string

	// UUID is the extension uuid taken from metadata.json, when decodable.
	UUID string
}

// Adapter is the interface all output adapters must implement.
type Adapter interface {
	// Name returns the adapter identifier for logging.
	Name() string

	// IsAvailable checks if the adapter can be used (e.g., target directory resolvable).
	IsAvailable() (bool, error)

	// Write emits the artifact pair to the target.
	Write(pair *core.ArtifactPair, config Config) (*WriteResult, error)
}

// Config configures output adapter behavior.
type Config struct {
	// Dir is the target directory for the dir adapter.
	Dir string

	// ExtensionsDir is the root the install adapter writes <uuid>/ under.
	ExtensionsDir string

	// DryRun previews without writing files.
	DryRun bool

	// Overwrite allows replacing existing files.
	Overwrite bool
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Dir:           ".",
		ExtensionsDir: DefaultExtensionsDir(),
	}
}

// DefaultExtensionsDir is ~/.local/share/gnome-shell/extensions.
func DefaultExtensionsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".local", "share", "gnome-shell", "extensions")
	}
	return filepath.Join(home, ".local", "share", "gnome-shell", "extensions")
}

// New returns the adapter registered under name.
func New(name string) (Adapter, error) {
	switch name {
	case "json":
		return NewJSONAdapter(os.Stdout), nil
	case "dir":
		return NewDirAdapter(), nil
	case "install":
		return NewInstallAdapter(), nil
	default:
		return nil, fmt.Errorf("unknown output adapter: %s", name)
	}
}

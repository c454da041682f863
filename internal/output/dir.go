package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lotuschain/gnome-ext-builder/internal/core"
)

// ErrNoUUID is returned by the install adapter when metadata.json does not
// name a usable uuid.
var ErrNoUUID = errors.New("metadata.json has no usable uuid")

// DirAdapter writes extension.js and metadata.json into a directory.
type DirAdapter struct{}

// NewDirAdapter creates a directory adapter.
func NewDirAdapter() *DirAdapter {
	return &DirAdapter{}
}

func (a *DirAdapter) Name() string {
	return "dir"
}

func (a *DirAdapter) IsAvailable() (bool, error) {
	return true, nil
}

func (a *DirAdapter) Write(pair *core.ArtifactPair, config Config) (*WriteResult, error) {
	dir := config.Dir
	if dir == "" {
		dir = "."
	}
	result, err := writeFiles(dir, pair, config)
	if err != nil {
		return nil, err
	}
	if meta, err := core.ParseMetadata(pair.MetadataJSON); err == nil {
		result.UUID = meta.UUID
	}
	return result, nil
}

// InstallAdapter writes the pair into <extensions dir>/<uuid>, the layout
// GNOME Shell loads user extensions from.
type InstallAdapter struct{}

// NewInstallAdapter creates an install adapter.
func NewInstallAdapter() *InstallAdapter {
	return &InstallAdapter{}
}

func (a *InstallAdapter) Name() string {
	return "install"
}

func (a *InstallAdapter) IsAvailable() (bool, error) {
	return true, nil
}

func (a *InstallAdapter) Write(pair *core.ArtifactPair, config Config) (*WriteResult, error) {
	meta, err := core.ParseMetadata(pair.MetadataJSON)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoUUID, err)
	}
	if !validUUID(meta.UUID) {
		return nil, fmt.Errorf("%w: %q", ErrNoUUID, meta.UUID)
	}

	root := config.ExtensionsDir
	if root == "" {
		root = DefaultExtensionsDir()
	}
	result, err := writeFiles(filepath.Join(root, meta.UUID), pair, config)
	if err != nil {
		return nil, err
	}
	result.UUID = meta.UUID
	return result, nil
}

// validUUID rejects values that would escape the extensions directory.
func validUUID(uuid string) bool {
	if uuid == "" || uuid == "." || uuid == ".." {
		return false
	}
	return !strings.ContainsAny(uuid, `/\`)
}

func writeFiles(dir string, pair *core.ArtifactPair, config Config) (*WriteResult, error) {
	files := map[string]string{
		filepath.Join(dir, ExtensionFile): pair.ExtensionJS,
		filepath.Join(dir, MetadataFile):  pair.MetadataJSON,
	}
	result := &WriteResult{
		Dir:   dir,
		Files: []string{filepath.Join(dir, ExtensionFile), filepath.Join(dir, MetadataFile)},
	}

	if !config.Overwrite {
		for _, path := range result.Files {
			if _, err := os.Stat(path); err == nil {
				return nil, fmt.Errorf("refusing to overwrite %s (use --overwrite)", path)
			}
		}
	}

	if config.DryRun {
		return result, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	for _, path := range result.Files {
		if err := os.WriteFile(path, []byte(files[path]), 0644); err != nil {
			return nil, fmt.Errorf("failed to write file: %w", err)
		}
	}
	return result, nil
}

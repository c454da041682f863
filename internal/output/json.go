package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/lotuschain/gnome-ext-builder/internal/core"
)

// JSONAdapter outputs the artifact pair as a JSON document.
type JSONAdapter struct {
	w io.Writer
}

// NewJSONAdapter creates a JSON adapter writing to w.
func NewJSONAdapter(w io.Writer) *JSONAdapter {
	return &JSONAdapter{w: w}
}

func (a *JSONAdapter) Name() string {
	return "json"
}

func (a *JSONAdapter) IsAvailable() (bool, error) {
	return true, nil // Always available
}

func (a *JSONAdapter) Write(pair *core.ArtifactPair, config Config) (*WriteResult, error) {
	data, err := json.MarshalIndent(pair, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if _, err := fmt.Fprintln(a.w, string(data)); err != nil {
		return nil, fmt.Errorf("failed to write JSON: %w", err)
	}

	result := &WriteResult{}
	if meta, err := core.ParseMetadata(pair.MetadataJSON); err == nil {
		result.UUID = meta.UUID
	}
	return result, nil
}

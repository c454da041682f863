package core

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ArtifactPair is the two generated files returned by one request.
type ArtifactPair struct {
	ExtensionJS  string `json:"extension_js"`  // Contents of extension.js
	MetadataJSON string `json:"metadata_json"` // Contents of metadata.json, itself JSON text
}

// Validate checks that both artifacts are present.
// The contents are not inspected beyond non-emptiness.
func (p *ArtifactPair) Validate() error {
	if p.ExtensionJS == "" {
		return &ValidationError{Field: "extension_js", Message: "required"}
	}
	if p.MetadataJSON == "" {
		return &ValidationError{Field: "metadata_json", Message: "required"}
	}
	return nil
}

// ValidationError represents a validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ExtensionMetadata is the subset of metadata.json the presentation layer uses.
type ExtensionMetadata struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	UUID          string   `json:"uuid"`
	ShellVersions []string `json:"shell-version"`
}

// ParseMetadata decodes metadata_json on a best-effort basis.
// A failure here never invalidates the pair; callers fall back to placeholders.
func ParseMetadata(raw string) (*ExtensionMetadata, error) {
	var meta ExtensionMetadata
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &meta); err != nil {
		return nil, fmt.Errorf("failed to decode metadata.json: %w", err)
	}
	return &meta, nil
}

// Provider describes the completion service behind a Completer, for messages.
type Provider struct {
	Label         string // Human-readable service name, e.g. "Gemini"
	CredentialEnv string // Environment variable the credential is read from
}

// UUIDPlaceholder stands in for the uuid when metadata.json could not be decoded.
const UUIDPlaceholder = "YOUR-EXTENSION-UUID"

// InstallUUID returns the uuid declared in metadata_json, or UUIDPlaceholder.
func InstallUUID(metadataJSON string) string {
	meta, err := ParseMetadata(metadataJSON)
	if err != nil || strings.TrimSpace(meta.UUID) == "" {
		return UUIDPlaceholder
	}
	return strings.TrimSpace(meta.UUID)
}

// EmptyDescriptionMessage is shown when a description is empty or whitespace.
// Callers check this before invoking the generator.
const EmptyDescriptionMessage = "Please enter a description for your GNOME extension."

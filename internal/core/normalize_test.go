package core

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	payload := `{"extension_js":"A","metadata_json":"B"}`

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", payload, payload},
		{"surrounding whitespace", "  \n" + payload + "\n\t", payload},
		{"json fence", "```json\n" + payload + "\n```", payload},
		{"bare fence", "```\n" + payload + "\n```", payload},
		{"fence without newlines", "```json" + payload + "```", payload},
		{"multiline interior", "```json\n{\n  \"a\": 1\n}\n```", "{\n  \"a\": 1\n}"},
		{"unterminated fence left alone", "```json\n" + payload, "```json\n" + payload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFences(tt.input))
		})
	}
}

func TestStripFencesIdempotent(t *testing.T) {
	fenced := "```json\n{\"extension_js\":\"A\",\"metadata_json\":\"B\"}\n```"
	once := StripFences(fenced)
	assert.Equal(t, once, StripFences(once))
}

func TestNormalizeResponse(t *testing.T) {
	want := &ArtifactPair{ExtensionJS: "A", MetadataJSON: "B"}

	tests := []struct {
		name string
		raw  string
	}{
		{"raw object", `{"extension_js":"A","metadata_json":"B"}`},
		{"fenced object", "```json\n{\"extension_js\":\"A\",\"metadata_json\":\"B\"}\n```"},
		{"extra keys ignored", `{"extension_js":"A","metadata_json":"B","notes":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeResponse(tt.raw)
			require.NoError(t, err)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("NormalizeResponse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalizeResponseMalformed(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantMessage string
	}{
		{"missing metadata_json", `{"extension_js":"A"}`, "missing metadata_json"},
		{"missing extension_js", `{"metadata_json":"B"}`, "missing extension_js"},
		{"empty field", `{"extension_js":"","metadata_json":"B"}`, "missing extension_js"},
		{"not json", "not json at all", "try rephrasing"},
		{"json null", "null", "missing extension_js"},
		{"wrong field type", `{"extension_js":"A","metadata_json":{"uuid":"x"}}`, "invalid JSON format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pair, err := NormalizeResponse(tt.raw)
			require.Error(t, err)
			assert.Nil(t, pair)

			var ce *ClassifiedError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, ReasonMalformedResponse, ce.Reason)
			assert.Contains(t, ce.Message, tt.wantMessage)
			assert.Equal(t, tt.raw, ce.Raw, "raw text must be preserved for diagnostics")
		})
	}
}

func TestNormalizeResponseParseErrorNamesCorrectiveAction(t *testing.T) {
	_, err := NormalizeResponse("not json at all")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "Please try rephrasing your request"))
	assert.Contains(t, err.Error(), "Error: invalid character")
}

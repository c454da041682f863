package core

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// fenceRegex matches a response wrapped in a markdown code block,
// optionally tagged json. The interior may span lines.
var fenceRegex = regexp.MustCompile("(?s)^```(?:json)?\\s*\\n?(.*?)\\n?\\s*```$")

// StripFences removes a wrapping markdown fence if present.
// Unfenced text is returned trimmed and otherwise untouched.
func StripFences(text string) string {
	text = strings.TrimSpace(text)
	if m := fenceRegex.FindStringSubmatch(text); m != nil && m[1] != "" {
		return strings.TrimSpace(m[1])
	}
	return text
}

// NormalizeResponse turns raw completion text into an ArtifactPair.
// Every failure is a ClassifiedError with ReasonMalformedResponse carrying
// the raw text for diagnostics.
func NormalizeResponse(raw string) (*ArtifactPair, error) {
	jsonStr := StripFences(raw)

	var pair ArtifactPair
	if err := json.Unmarshal([]byte(jsonStr), &pair); err != nil {
		return nil, &ClassifiedError{
			Reason:  ReasonMalformedResponse,
			Message: fmt.Sprintf("AI returned an invalid JSON format. Please try rephrasing your request or check the AI's raw output if available. Error: %s", err.Error()),
			Err:     err,
			Raw:     raw,
		}
	}

	if err := pair.Validate(); err != nil {
		field := err.Error()
		if ve, ok := err.(*ValidationError); ok {
			field = ve.Field
		}
		return nil, &ClassifiedError{
			Reason:  ReasonMalformedResponse,
			Message: fmt.Sprintf("AI response is not in the expected format (missing %s). Please try rephrasing your request.", field),
			Err:     err,
			Raw:     raw,
		}
	}

	return &pair, nil
}

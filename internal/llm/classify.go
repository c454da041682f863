package llm

import (
	"errors"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	genai "google.golang.org/genai"

	"github.com/lotuschain/gnome-ext-builder/internal/core"
)

// classifyGeminiError reads the structured status from a genai.APIError.
// Anything that is not an API error is left to the substring fallback.
func classifyGeminiError(err error) (core.Reason, bool) {
	apiErr, ok := asGeminiAPIError(err)
	if !ok {
		return "", false
	}

	switch {
	case apiErr.Code == http.StatusUnauthorized, apiErr.Code == http.StatusForbidden:
		return core.ReasonInvalidCredential, true
	case hasErrorInfoReason(apiErr.Details, "API_KEY_INVALID"):
		return core.ReasonInvalidCredential, true
	case apiErr.Code == http.StatusTooManyRequests, apiErr.Status == "RESOURCE_EXHAUSTED":
		return core.ReasonQuotaExceeded, true
	}
	return "", false
}

func asGeminiAPIError(err error) (genai.APIError, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	var ptr *genai.APIError
	if errors.As(err, &ptr) && ptr != nil {
		return *ptr, true
	}
	return genai.APIError{}, false
}

// hasErrorInfoReason looks for a google.rpc.ErrorInfo detail with the given reason.
func hasErrorInfoReason(details []map[string]any, reason string) bool {
	for _, d := range details {
		if r, ok := d["reason"].(string); ok && r == reason {
			return true
		}
	}
	return false
}

// classifyAnthropicError maps Anthropic HTTP status codes.
func classifyAnthropicError(err error) (core.Reason, bool) {
	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return "", false
	}

	switch apiErr.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return core.ReasonInvalidCredential, true
	case http.StatusTooManyRequests:
		return core.ReasonQuotaExceeded, true
	}
	return "", false
}

package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testProvider = Provider{Label: "Gemini", CredentialEnv: "API_KEY"}

func TestClassifySubstrings(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		want        Reason
		wantMessage string
	}{
		{
			name:        "invalid key",
			err:         errors.New("Error 400, Message: API key not valid. Please pass a valid API key., Status: INVALID_ARGUMENT"),
			want:        ReasonInvalidCredential,
			wantMessage: "The configured Gemini API key is not valid. Please check your API_KEY environment variable.",
		},
		{
			name:        "quota",
			err:         errors.New("Error 429, Message: You exceeded your current quota"),
			want:        ReasonQuotaExceeded,
			wantMessage: "You have exceeded your Gemini API quota. Please check your usage and limits.",
		},
		{
			name:        "wrapped invalid key",
			err:         fmt.Errorf("gemini API error: %w", errors.New("API key not valid")),
			want:        ReasonInvalidCredential,
			wantMessage: "not valid",
		},
		{
			name:        "network",
			err:         errors.New("dial tcp: lookup generativelanguage.googleapis.com: no such host"),
			want:        ReasonNetworkOrUnknown,
			wantMessage: "Failed to generate code via AI. dial tcp: lookup generativelanguage.googleapis.com: no such host",
		},
		{
			name:        "reworded service error downgrades",
			err:         errors.New("credential rejected"),
			want:        ReasonNetworkOrUnknown,
			wantMessage: "Failed to generate code via AI.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ce := Classify(tt.err, testProvider, SubstringClassifier)
			require.NotNil(t, ce)
			assert.Equal(t, tt.want, ce.Reason)
			assert.Contains(t, ce.Message, tt.wantMessage)
			assert.ErrorIs(t, ce, tt.err)
		})
	}
}

func TestClassifyNil(t *testing.T) {
	assert.Nil(t, Classify(nil, testProvider, SubstringClassifier))
}

func TestClassifyKeepsNormalizerFailure(t *testing.T) {
	_, err := NormalizeResponse(`{"extension_js":"A"}`)
	require.Error(t, err)

	ce := Classify(err, testProvider, SubstringClassifier)
	assert.Equal(t, ReasonMalformedResponse, ce.Reason)
	assert.Equal(t, err.Error(), ce.Message)
}

func TestClassifyOrder(t *testing.T) {
	typed := ClassifierFunc(func(err error) (Reason, bool) {
		return ReasonNetworkOrUnknown, true
	})
	quotaWording := errors.New("server mentions quota in passing")

	// A typed classifier with an opinion stops the substring fallback.
	ce := Classify(quotaWording, testProvider, typed, SubstringClassifier)
	assert.Equal(t, ReasonNetworkOrUnknown, ce.Reason)

	undecided := ClassifierFunc(func(err error) (Reason, bool) { return "", false })
	ce = Classify(quotaWording, testProvider, undecided, SubstringClassifier)
	assert.Equal(t, ReasonQuotaExceeded, ce.Reason)
}

func TestMissingCredential(t *testing.T) {
	ce := MissingCredential(testProvider)
	assert.Equal(t, ReasonMissingCredential, ce.Reason)
	assert.Equal(t, "Gemini API key is not configured. Please set the API_KEY environment variable.", ce.Error())
	assert.Nil(t, ce.Unwrap())
}

func TestReasonOf(t *testing.T) {
	assert.Equal(t, ReasonQuotaExceeded, ReasonOf(fmt.Errorf("outer: %w", &ClassifiedError{Reason: ReasonQuotaExceeded})))
	assert.Equal(t, ReasonNetworkOrUnknown, ReasonOf(errors.New("plain")))
}

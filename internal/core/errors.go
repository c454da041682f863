package core

import (
	"errors"
	"fmt"
	"strings"
)

// Reason tags why a generation failed.
type Reason string

const (
	ReasonMissingCredential Reason = "missing-credential"
	ReasonInvalidCredential Reason = "invalid-credential"
	ReasonQuotaExceeded     Reason = "quota-exceeded"
	ReasonMalformedResponse Reason = "malformed-response"
	ReasonNetworkOrUnknown  Reason = "network-or-unknown"
)

// ClassifiedError is the only error type Generator.Generate returns.
// Message is safe to show to the end user; Err and Raw are for logs.
type ClassifiedError struct {
	Reason  Reason
	Message string
	Err     error  // Underlying cause, if any
	Raw     string // Raw completion text for malformed responses
}

func (e *ClassifiedError) Error() string {
	return e.Message
}

func (e *ClassifiedError) Unwrap() error {
	return e.Err
}

// ReasonOf returns the reason attached to err, or ReasonNetworkOrUnknown
// when err carries no classification.
func ReasonOf(err error) Reason {
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Reason
	}
	return ReasonNetworkOrUnknown
}

// Classifier maps a completion failure to a reason.
// ok is false when the classifier has no opinion about err.
type Classifier interface {
	Classify(err error) (reason Reason, ok bool)
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(err error) (Reason, bool)

func (f ClassifierFunc) Classify(err error) (Reason, bool) {
	return f(err)
}

// Substrings the completion services are known to put in their error text.
const (
	invalidCredentialIndicator = "API key not valid"
	quotaIndicator             = "quota"
)

// SubstringClassifier matches the service's error wording.
// It is the last resort behind any typed classifier: a change in the
// service's phrasing drops these cases to ReasonNetworkOrUnknown.
var SubstringClassifier Classifier = ClassifierFunc(func(err error) (Reason, bool) {
	msg := err.Error()
	if strings.Contains(msg, invalidCredentialIndicator) {
		return ReasonInvalidCredential, true
	}
	if strings.Contains(msg, quotaIndicator) {
		return ReasonQuotaExceeded, true
	}
	return "", false
})

// MissingCredential builds the error returned before any network call when
// no credential was configured.
func MissingCredential(p Provider) *ClassifiedError {
	return &ClassifiedError{
		Reason:  ReasonMissingCredential,
		Message: fmt.Sprintf("%s API key is not configured. Please set the %s environment variable.", p.Label, p.CredentialEnv),
	}
}

// Classify turns any failure from the completion or normalization path into
// a ClassifiedError. Classifiers are consulted in order and the first one
// with an opinion ends the search. Failures already classified by the
// normalizer keep their message unless a classifier recognises a credential
// or quota problem.
func Classify(err error, p Provider, classifiers ...Classifier) *ClassifiedError {
	if err == nil {
		return nil
	}

	var prior *ClassifiedError
	errors.As(err, &prior)

	for _, c := range classifiers {
		reason, ok := c.Classify(err)
		if !ok {
			continue
		}
		if reason == ReasonInvalidCredential || reason == ReasonQuotaExceeded {
			return newClassified(reason, err, p)
		}
		break
	}

	if prior != nil {
		return prior
	}
	return newClassified(ReasonNetworkOrUnknown, err, p)
}

func newClassified(reason Reason, err error, p Provider) *ClassifiedError {
	ce := &ClassifiedError{Reason: reason, Err: err}
	switch reason {
	case ReasonInvalidCredential:
		ce.Message = fmt.Sprintf("The configured %s API key is not valid. Please check your %s environment variable.", p.Label, p.CredentialEnv)
	case ReasonQuotaExceeded:
		ce.Message = fmt.Sprintf("You have exceeded your %s API quota. Please check your usage and limits.", p.Label)
	default:
		ce.Reason = ReasonNetworkOrUnknown
		ce.Message = fmt.Sprintf("Failed to generate code via AI. %s", err.Error())
	}
	return ce
}

package providers

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/openai/openai-go"
)

// ErrEmptyPrompt is returned by Complete for blank prompts.
var ErrEmptyPrompt = errors.New("prompt must not be empty")

// UnsupportedProviderError reports a provider identifier outside the supported set.
// It is a configuration error: no adapter is built.
type UnsupportedProviderError struct {
	Provider string
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("unsupported provider: %q (supported: %s)", e.Provider, strings.Join(SupportedProviders(), ", "))
}

// TransportError wraps any failure reaching the backend: missing or invalid
// credentials, network errors, rate limits that outlived the retry budget.
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s backend: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

var (
	// "Error 503", "status: 429", "code=500"
	labelledStatus = regexp.MustCompile(`(?i)\b(error|status|code|http)[\s:=]*(429|500|502|503|504)\b`)
	// "429 Too Many Requests", "POST \"...\": 503 Service Unavailable"
	statusLine = regexp.MustCompile(`(?i)(^|[\s:"])(429|500|502|503|504) (too many requests|internal server error|internal error|bad gateway|service unavailable|gateway timeout)`)
)

var transientPhrases = []string{
	"overloaded",
	"resource exhausted",
	"resource_exhausted",
	"rate limit",
	"too many requests",
	"service unavailable",
	"temporarily unavailable",
}

func transientStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// IsTransient reports whether err looks like a temporary backend condition worth retrying.
// OpenAI-protocol errors are judged by status code; other backends by their message.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode != 0 {
		return transientStatus(apiErr.StatusCode)
	}

	msg := strings.ToLower(err.Error())
	for _, phrase := range transientPhrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return labelledStatus.MatchString(msg) || statusLine.MatchString(msg)
}

package adapter

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// AdapterError wraps provider failures with status metadata. Message is the
// upstream-supplied message when one was available.
type AdapterError struct {
	Provider string
	Status   int
	Message  string
	Err      error
}

func (e *AdapterError) Error() string {
	if e == nil {
		return "adapter error"
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s adapter error (status=%d)", e.Provider, e.Status)
}

func (e *AdapterError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// upstreamMessagePaths are tried in order against an error body.
var upstreamMessagePaths = []string{"error.message", "message", "error"}

// UpstreamMessage extracts a human-readable message from a provider error
// body, or returns fallback when none is present.
func UpstreamMessage(body []byte, fallback string) string {
	if !gjson.ValidBytes(body) {
		return fallback
	}
	for _, path := range upstreamMessagePaths {
		res := gjson.GetBytes(body, path)
		if res.Type != gjson.String {
			continue
		}
		if msg := strings.TrimSpace(res.String()); msg != "" {
			return msg
		}
	}
	return fallback
}

func newStatusError(provider string, status int, body []byte, generic string) *AdapterError {
	return &AdapterError{
		Provider: provider,
		Status:   status,
		Message:  UpstreamMessage(body, generic),
	}
}

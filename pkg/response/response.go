// Package response turns provider-native payloads into the canonical envelope.
package response

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/zen-systems/catvet/pkg/adapter"
	"github.com/zen-systems/catvet/pkg/report"
	"github.com/zen-systems/catvet/pkg/sanitize"
)

// ErrNoContent is returned when the provider response carries no text.
var ErrNoContent = errors.New("no response content")

// ParseError reports model text that could not be read as a HealthReport.
type ParseError struct {
	Kind adapter.Kind
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s response as health report: %v", e.Kind, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// variant describes where a provider puts its text and how forgiving to be
// about what it finds there.
type variant struct {
	// path is a gjson path to the text inside the native body.
	path string
	// extract slices the outermost {...} span out of surrounding prose.
	extract bool
	// fallback substitutes report.Fallback when parsing fails.
	fallback bool
}

var variants = map[adapter.Kind]variant{
	adapter.KindClaude:      {path: `content.#(type=="text").text`},
	adapter.KindGemini:      {path: "candidates.0.content.parts.0.text"},
	adapter.KindHuggingFace: {path: "0.generated_text", extract: true, fallback: true},
	adapter.KindOpenRouter:  {path: "choices.0.message.content"},
}

// Result is the outcome of adapting one provider response.
type Result struct {
	Envelope     *report.Envelope
	Report       *report.HealthReport
	FallbackUsed bool
	// ParseErr is the swallowed parse failure when FallbackUsed is set.
	ParseErr error
}

// Adapt normalizes a provider response into the canonical envelope.
func Adapt(resp *adapter.Response) (*Result, error) {
	if resp == nil {
		return nil, ErrNoContent
	}
	return AdaptRaw(resp.Kind, resp.Raw)
}

// AdaptRaw normalizes raw, a native response body of the given kind.
func AdaptRaw(kind adapter.Kind, raw []byte) (*Result, error) {
	v, ok := variants[kind]
	if !ok {
		return nil, fmt.Errorf("unsupported provider kind %q", kind)
	}

	text, err := v.text(raw)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	r, err := report.Parse([]byte(sanitize.Normalize(text, v.extract)))
	if err != nil {
		if !v.fallback {
			return nil, &ParseError{Kind: kind, Text: text, Err: err}
		}
		r = report.Fallback()
		res.FallbackUsed = true
		res.ParseErr = &ParseError{Kind: kind, Text: text, Err: err}
	}

	env, err := report.NewEnvelope(r)
	if err != nil {
		return nil, err
	}
	res.Envelope = env
	res.Report = r
	return res, nil
}

func (v variant) text(raw []byte) (string, error) {
	res := gjson.GetBytes(raw, v.path)
	if !res.Exists() || res.Type != gjson.String {
		return "", ErrNoContent
	}
	text := res.String()
	if strings.TrimSpace(text) == "" {
		return "", ErrNoContent
	}
	return text, nil
}

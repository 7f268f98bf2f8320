package adapter

import (
	"context"
	"encoding/json"
	"sync"
)

// MockAdapter returns deterministic provider-native payloads for local runs and tests.
type MockAdapter struct {
	kind Kind
	raw  []byte
	err  error

	mu    sync.Mutex
	calls []string
}

// mockReport is a valid assessment used by NewMockAdapter.
const mockReport = `{"coat":{"status":"良好","description":"毛並みにつやがあり、手入れが行き届いています"},` +
	`"body":{"status":"普通","description":"標準的な体型です"},` +
	`"overall":{"status":"良好","description":"健康そうに見えます"},` +
	`"recommendations":"定期的なブラッシングと適度な運動を続けてください"}`

// NewMockAdapter creates a mock adapter that answers in the Claude shape with a valid report.
func NewMockAdapter() *MockAdapter {
	return NewMockAdapterWithText(KindClaude, mockReport)
}

// NewMockAdapterWithText creates a mock adapter that places text wherever
// the given kind's native response carries it.
func NewMockAdapterWithText(kind Kind, text string) *MockAdapter {
	return &MockAdapter{kind: kind, raw: NativeBody(kind, text)}
}

// NewMockAdapterWithResponse creates a mock adapter that returns raw verbatim.
func NewMockAdapterWithResponse(kind Kind, raw []byte) *MockAdapter {
	return &MockAdapter{kind: kind, raw: raw}
}

// NewFailingMockAdapter creates a mock adapter whose every call fails with err.
func NewFailingMockAdapter(kind Kind, err error) *MockAdapter {
	return &MockAdapter{kind: kind, err: err}
}

// Name returns the adapter identifier.
func (a *MockAdapter) Name() string {
	return "mock"
}

// Kind returns the emulated response shape.
func (a *MockAdapter) Kind() Kind {
	return a.kind
}

// Models returns the list of supported mock models.
func (a *MockAdapter) Models() []string {
	return []string{"mock-1"}
}

// Analyze records the image and returns the canned payload.
func (a *MockAdapter) Analyze(_ context.Context, image string) (*Response, error) {
	a.mu.Lock()
	a.calls = append(a.calls, image)
	a.mu.Unlock()

	if a.err != nil {
		return nil, a.err
	}
	return newResponse(a.kind, a.Name(), "mock-1", a.raw), nil
}

// Calls returns the images passed to Analyze so far.
func (a *MockAdapter) Calls() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.calls))
	copy(out, a.calls)
	return out
}

// NativeBody wraps text in the minimal native response body of kind.
func NativeBody(kind Kind, text string) []byte {
	var v any
	switch kind {
	case KindClaude:
		v = map[string]any{
			"type":    "message",
			"role":    "assistant",
			"content": []map[string]any{{"type": "text", "text": text}},
		}
	case KindGemini:
		v = map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"role":  "model",
					"parts": []map[string]any{{"text": text}},
				},
			}},
		}
	case KindHuggingFace:
		v = []map[string]any{{"generated_text": text}}
	case KindOpenRouter:
		v = map[string]any{
			"object": "chat.completion",
			"choices": []map[string]any{{
				"index":   0,
				"message": map[string]any{"role": "assistant", "content": text},
			}},
		}
	default:
		return nil
	}
	raw, _ := json.Marshal(v)
	return raw
}

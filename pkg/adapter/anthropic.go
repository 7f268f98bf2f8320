package adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/zen-systems/catvet/pkg/prompt"
)

const (
	anthropicDefaultModel = "claude-sonnet-4-20250514"
	anthropicMaxTokens    = 1000
	anthropicGenericError = "Claude APIエラー"
)

// AnthropicAdapter implements the Adapter interface for Claude models.
type AnthropicAdapter struct {
	client anthropic.Client
	model  string
}

// NewAnthropicAdapter creates a new Anthropic adapter.
func NewAnthropicAdapter(apiKey string, opts ...Option) (*AnthropicAdapter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	o := buildOptions(anthropicDefaultModel, opts)
	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if o.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(o.baseURL))
	}
	if o.httpClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(o.httpClient))
	}

	client := anthropic.NewClient(reqOpts...)
	return &AnthropicAdapter{client: client, model: o.model}, nil
}

// Name returns the adapter identifier.
func (a *AnthropicAdapter) Name() string {
	return "anthropic"
}

// Kind returns the Claude response shape.
func (a *AnthropicAdapter) Kind() Kind {
	return KindClaude
}

// Models returns the Claude model in use.
func (a *AnthropicAdapter) Models() []string {
	return []string{a.model}
}

// Analyze sends the image and prompt to Claude as a single user message.
func (a *AnthropicAdapter) Analyze(ctx context.Context, image string) (*Response, error) {
	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64("image/jpeg", image),
				anthropic.NewTextBlock(prompt.Analysis()),
			),
		},
	})
	if err != nil {
		return nil, a.wrapError(err)
	}

	return newResponse(a.Kind(), a.Name(), a.model, []byte(msg.RawJSON())), nil
}

func (a *AnthropicAdapter) wrapError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		e := newStatusError(a.Name(), apiErr.StatusCode, []byte(apiErr.RawJSON()), anthropicGenericError)
		e.Err = err
		return e
	}
	return &AdapterError{Provider: a.Name(), Err: fmt.Errorf("anthropic API error: %w", err)}
}

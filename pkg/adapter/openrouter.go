package adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/zen-systems/catvet/pkg/prompt"
)

const (
	openRouterBaseURL      = "https://openrouter.ai/api/v1"
	openRouterDefaultModel = "meta-llama/llama-3.2-11b-vision-instruct:free"
	openRouterMaxTokens    = 1000
	openRouterGenericError = "OpenRouter APIエラー"
	openRouterReferer      = "https://github.com/zen-systems/catvet"
	openRouterTitle        = "catvet"
)

// OpenRouterAdapter implements the Adapter interface for vision models served
// through OpenRouter's OpenAI-compatible chat completions API.
type OpenRouterAdapter struct {
	client openai.Client
	model  string
}

// NewOpenRouterAdapter creates a new OpenRouter adapter.
func NewOpenRouterAdapter(apiKey string, opts ...Option) (*OpenRouterAdapter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}

	o := buildOptions(openRouterDefaultModel, opts)
	baseURL := o.baseURL
	if baseURL == "" {
		baseURL = openRouterBaseURL
	}
	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
		option.WithHeader("HTTP-Referer", openRouterReferer),
		option.WithHeader("X-Title", openRouterTitle),
	}
	if o.httpClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(o.httpClient))
	}

	client := openai.NewClient(reqOpts...)
	return &OpenRouterAdapter{client: client, model: o.model}, nil
}

// Name returns the adapter identifier.
func (a *OpenRouterAdapter) Name() string {
	return "openrouter"
}

// Kind returns the chat-completion response shape.
func (a *OpenRouterAdapter) Kind() Kind {
	return KindOpenRouter
}

// Models returns the vision model in use.
func (a *OpenRouterAdapter) Models() []string {
	return []string{a.model}
}

// Analyze sends the prompt and a data-URL image part as one user message.
func (a *OpenRouterAdapter) Analyze(ctx context.Context, image string) (*Response, error) {
	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(a.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(prompt.Analysis()),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL: "data:image/jpeg;base64," + image,
				}),
			}),
		},
		MaxTokens: openai.Int(openRouterMaxTokens),
	})
	if err != nil {
		return nil, a.wrapError(err)
	}

	return newResponse(a.Kind(), a.Name(), a.model, []byte(resp.RawJSON())), nil
}

func (a *OpenRouterAdapter) wrapError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		e := newStatusError(a.Name(), apiErr.StatusCode, []byte(apiErr.RawJSON()), openRouterGenericError)
		e.Err = err
		return e
	}
	return &AdapterError{Provider: a.Name(), Err: fmt.Errorf("openrouter API error: %w", err)}
}

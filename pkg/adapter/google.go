package adapter

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zen-systems/catvet/pkg/prompt"
	"google.golang.org/genai"
)

const (
	googleDefaultModel = "gemini-1.5-flash"
	googleGenericError = "Gemini APIエラー"
)

// GoogleAdapter implements the Adapter interface for Gemini models.
type GoogleAdapter struct {
	client *genai.Client
	model  string
}

// NewGoogleAdapter creates a new Google Gemini adapter.
func NewGoogleAdapter(apiKey string, opts ...Option) (*GoogleAdapter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("google API key is required")
	}

	o := buildOptions(googleDefaultModel, opts)
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  o.httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: o.baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create google client: %w", err)
	}

	return &GoogleAdapter{
		client: client,
		model:  o.model,
	}, nil
}

// Name returns the adapter identifier.
func (a *GoogleAdapter) Name() string {
	return "google"
}

// Kind returns the Gemini response shape.
func (a *GoogleAdapter) Kind() Kind {
	return KindGemini
}

// Models returns the Gemini model in use.
func (a *GoogleAdapter) Models() []string {
	return []string{a.model}
}

// Analyze sends the inline image and prompt to Gemini.
func (a *GoogleAdapter) Analyze(ctx context.Context, image string) (*Response, error) {
	data, err := base64.StdEncoding.DecodeString(image)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(prompt.Analysis()),
			genai.NewPartFromBytes(data, "image/jpeg"),
		}, genai.RoleUser),
	}

	resp, err := a.client.Models.GenerateContent(ctx, a.model, contents, nil)
	if err != nil {
		return nil, a.wrapError(err)
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to encode gemini response: %w", err)
	}
	return newResponse(a.Kind(), a.Name(), a.model, raw), nil
}

func (a *GoogleAdapter) wrapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return a.statusError(apiErr, err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return a.statusError(*apiErrPtr, err)
	}
	return &AdapterError{Provider: a.Name(), Err: fmt.Errorf("google API error: %w", err)}
}

func (a *GoogleAdapter) statusError(apiErr genai.APIError, err error) *AdapterError {
	msg := apiErr.Message
	if msg == "" {
		msg = googleGenericError
	}
	return &AdapterError{Provider: a.Name(), Status: apiErr.Code, Message: msg, Err: err}
}

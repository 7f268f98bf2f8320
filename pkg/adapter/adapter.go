package adapter

import (
	"context"
	"net/http"
)

// Adapter defines the interface for inference provider adapters.
type Adapter interface {
	// Analyze sends the base64 image and the analysis prompt to the provider
	// and returns the provider-native response body.
	Analyze(ctx context.Context, image string) (*Response, error)

	// Name returns the adapter's identifier.
	Name() string

	// Kind returns the response shape the adapter produces.
	Kind() Kind

	// Models returns the list of models the adapter calls.
	Models() []string
}

// Option configures an adapter at construction time.
type Option func(*options)

type options struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// WithBaseURL points the adapter at a different API endpoint.
func WithBaseURL(url string) Option {
	return func(o *options) { o.baseURL = url }
}

// WithModel overrides the adapter's default model.
func WithModel(model string) Option {
	return func(o *options) {
		if model != "" {
			o.model = model
		}
	}
}

// WithHTTPClient sets the HTTP client used for outbound calls.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

func buildOptions(defaultModel string, opts []Option) options {
	o := options{model: defaultModel}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zen-systems/catvet/pkg/adapter"
	"github.com/zen-systems/catvet/pkg/response"
)

// DefaultMaxBodyBytes bounds the size of an analyze request body.
const DefaultMaxBodyBytes = 10 << 20

type analyzeRequest struct {
	Image string `json:"image"`
}

type errorBody struct {
	Error string `json:"error"`
}

// AnalyzeHandler serves the analyze endpoint for a single provider.
type AnalyzeHandler struct {
	adapter      adapter.Adapter
	logger       *zap.Logger
	timeout      time.Duration
	maxBodyBytes int64
}

// HandlerOption configures an AnalyzeHandler.
type HandlerOption func(*AnalyzeHandler)

// WithTimeout bounds the outbound provider calls of one request. Zero means no bound.
func WithTimeout(d time.Duration) HandlerOption {
	return func(h *AnalyzeHandler) { h.timeout = d }
}

// WithMaxBodyBytes overrides DefaultMaxBodyBytes.
func WithMaxBodyBytes(n int64) HandlerOption {
	return func(h *AnalyzeHandler) {
		if n > 0 {
			h.maxBodyBytes = n
		}
	}
}

// NewAnalyzeHandler creates a handler that delegates to a.
func NewAnalyzeHandler(a adapter.Adapter, logger *zap.Logger, opts ...HandlerOption) *AnalyzeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &AnalyzeHandler{
		adapter:      a,
		logger:       logger.With(zap.String("adapter", a.Name()), zap.String("kind", string(a.Kind()))),
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *AnalyzeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w.Header())
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		h.writeError(w, r, &MethodError{Method: r.Method})
		return
	}

	image, err := h.readImage(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	// A client disconnect must not abort the outbound call.
	ctx := context.WithoutCancel(r.Context())
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	resp, err := h.adapter.Analyze(ctx, image)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if caption := resp.Metadata[adapter.MetadataCaption]; caption != "" {
		h.logger.Debug("caption generated",
			zap.String("caption", caption),
			zap.String("request_id", RequestIDFromContext(r.Context())),
		)
	}

	result, err := response.Adapt(resp)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if result.FallbackUsed {
		h.logger.Warn("model output unparseable, using fallback report",
			zap.Error(result.ParseErr),
			zap.String("model", resp.Model),
			zap.String("request_id", RequestIDFromContext(r.Context())),
		)
	}

	writeJSON(w, http.StatusOK, result.Envelope)
}

func (h *AnalyzeHandler) readImage(w http.ResponseWriter, r *http.Request) (string, error) {
	var req analyzeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return "", &ValidationError{Message: msgInvalidBody}
	}
	if strings.TrimSpace(req.Image) == "" {
		return "", &ValidationError{Message: msgImageRequired}
	}
	return req.Image, nil
}

func (h *AnalyzeHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("analyze failed",
			zap.Error(err),
			zap.String("request_id", RequestIDFromContext(r.Context())),
		)
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/zen-systems/catvet/pkg/prompt"
)

const (
	huggingFaceBaseURL         = "https://api-inference.huggingface.co"
	huggingFaceCaptionModel    = "Salesforce/blip-image-captioning-large"
	huggingFaceGenerationModel = "mistralai/Mistral-7B-Instruct-v0.2"
	huggingFaceMaxNewTokens    = 1000
	huggingFaceCaptionError    = "画像キャプションの生成に失敗しました"
	huggingFaceGenericError    = "Hugging Face APIエラー"

	// MetadataCaption is the Response.Metadata key holding the stage-one caption.
	MetadataCaption = "caption"
)

// HuggingFaceAdapter implements the Adapter interface as a two-stage chain:
// an image-captioning model describes the photo, then a text-generation
// model turns that description into the assessment.
type HuggingFaceAdapter struct {
	apiKey          string
	baseURL         string
	captionModel    string
	generationModel string
	httpClient      *http.Client
}

// huggingFaceRequest is the inference API request body.
type huggingFaceRequest struct {
	Inputs     string                `json:"inputs"`
	Parameters *huggingFaceParameters `json:"parameters,omitempty"`
}

type huggingFaceParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens,omitempty"`
	Temperature    float64 `json:"temperature,omitempty"`
	ReturnFullText bool    `json:"return_full_text"`
}

// NewHuggingFaceAdapter creates a new Hugging Face adapter. WithModel
// overrides the generation model; the captioning model is fixed.
func NewHuggingFaceAdapter(apiKey string, opts ...Option) (*HuggingFaceAdapter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("huggingface API key is required")
	}

	o := buildOptions(huggingFaceGenerationModel, opts)
	baseURL := o.baseURL
	if baseURL == "" {
		baseURL = huggingFaceBaseURL
	}
	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &HuggingFaceAdapter{
		apiKey:          apiKey,
		baseURL:         strings.TrimRight(baseURL, "/"),
		captionModel:    huggingFaceCaptionModel,
		generationModel: o.model,
		httpClient:      httpClient,
	}, nil
}

// Name returns the adapter identifier.
func (a *HuggingFaceAdapter) Name() string {
	return "huggingface"
}

// Kind returns the generated-text response shape.
func (a *HuggingFaceAdapter) Kind() Kind {
	return KindHuggingFace
}

// Models returns the captioning and generation models, in call order.
func (a *HuggingFaceAdapter) Models() []string {
	return []string{a.captionModel, a.generationModel}
}

// Analyze captions the image and then prompts the generation model with the
// caption. A captioning failure aborts before generation is attempted.
func (a *HuggingFaceAdapter) Analyze(ctx context.Context, image string) (*Response, error) {
	caption, err := a.caption(ctx, image)
	if err != nil {
		return nil, err
	}

	body, err := a.post(ctx, a.generationModel, huggingFaceRequest{
		Inputs: prompt.Generation(caption),
		Parameters: &huggingFaceParameters{
			MaxNewTokens:   huggingFaceMaxNewTokens,
			Temperature:    0.3,
			ReturnFullText: false,
		},
	}, huggingFaceGenericError)
	if err != nil {
		return nil, err
	}

	resp := newResponse(a.Kind(), a.Name(), a.generationModel, body)
	resp.Metadata[MetadataCaption] = caption
	return resp, nil
}

func (a *HuggingFaceAdapter) caption(ctx context.Context, image string) (string, error) {
	body, err := a.post(ctx, a.captionModel, huggingFaceRequest{Inputs: image}, huggingFaceCaptionError)
	if err != nil {
		return "", err
	}

	caption := strings.TrimSpace(gjson.GetBytes(body, "0.generated_text").String())
	if caption == "" {
		return "", &AdapterError{Provider: a.Name(), Status: http.StatusOK, Message: huggingFaceCaptionError}
	}
	return caption, nil
}

func (a *HuggingFaceAdapter) post(ctx context.Context, model string, payload huggingFaceRequest, generic string) ([]byte, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/models/"+model, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, &AdapterError{Provider: a.Name(), Err: fmt.Errorf("huggingface API request failed: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newStatusError(a.Name(), resp.StatusCode, body, generic)
	}
	return body, nil
}

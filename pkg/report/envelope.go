package report

import (
	"encoding/json"
	"fmt"
)

// ContentTypeText is the only block type emitted in an Envelope.
const ContentTypeText = "text"

// ContentBlock is one entry of the envelope content list.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Envelope is the provider-independent response body. Its single text block
// holds the serialized HealthReport.
type Envelope struct {
	Content []ContentBlock `json:"content"`
}

// NewEnvelope serializes r into a fresh envelope.
func NewEnvelope(r *HealthReport) (*Envelope, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	text, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return &Envelope{
		Content: []ContentBlock{{Type: ContentTypeText, Text: string(text)}},
	}, nil
}

// Report decodes the embedded report back out of the envelope.
func (e *Envelope) Report() (*HealthReport, error) {
	if e == nil || len(e.Content) == 0 {
		return nil, fmt.Errorf("%w: empty envelope", ErrInvalidReport)
	}
	return Parse([]byte(e.Content[0].Text))
}

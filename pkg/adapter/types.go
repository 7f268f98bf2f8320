package adapter

// Kind identifies the native response shape of a provider.
type Kind string

const (
	KindClaude      Kind = "claude"
	KindGemini      Kind = "gemini"
	KindHuggingFace Kind = "huggingface"
	KindOpenRouter  Kind = "openrouter"
)

// Kinds lists every supported provider kind.
func Kinds() []Kind {
	return []Kind{KindClaude, KindGemini, KindHuggingFace, KindOpenRouter}
}

// Valid reports whether k is a known provider kind.
func (k Kind) Valid() bool {
	for _, known := range Kinds() {
		if k == known {
			return true
		}
	}
	return false
}

// Response is the provider-native result of a single analysis call.
type Response struct {
	Kind     Kind
	Adapter  string
	Model    string
	Raw      []byte
	Metadata map[string]string
}

func newResponse(kind Kind, adapter, model string, raw []byte) *Response {
	return &Response{
		Kind:     kind,
		Adapter:  adapter,
		Model:    model,
		Raw:      raw,
		Metadata: make(map[string]string),
	}
}

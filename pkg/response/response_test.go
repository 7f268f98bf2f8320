package response

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/zen-systems/catvet/pkg/adapter"
	"github.com/zen-systems/catvet/pkg/report"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const reportJSON = `{"overall":{"status":"良好","description":"元気"},"recommendations":"特になし",` +
	`"body":{"status":"普通","description":"標準"},"coat":{"status":"要注意","description":"毛玉あり"}}`

func TestAdaptEveryKind(t *testing.T) {
	for _, kind := range adapter.Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			res, err := AdaptRaw(kind, adapter.NativeBody(kind, reportJSON))
			require.NoError(t, err)
			assert.False(t, res.FallbackUsed)

			require.Len(t, res.Envelope.Content, 1)
			assert.Equal(t, "text", res.Envelope.Content[0].Type)

			got, err := res.Envelope.Report()
			require.NoError(t, err)
			assert.Equal(t, report.StatusCaution, got.Coat.Status)
			assert.Equal(t, report.StatusNormal, got.Body.Status)
			assert.Equal(t, report.StatusGood, got.Overall.Status)
			assert.Equal(t, "特になし", got.Recommendations)
		})
	}
}

func TestAdaptStripsFences(t *testing.T) {
	for _, kind := range adapter.Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			fenced := "```json\n" + reportJSON + "\n```"
			res, err := AdaptRaw(kind, adapter.NativeBody(kind, fenced))
			require.NoError(t, err)
			assert.False(t, res.FallbackUsed)
		})
	}
}

func TestAdaptClaudePicksTextBlock(t *testing.T) {
	raw := []byte(`{"content":[{"type":"thinking","thinking":"hmm"},{"type":"text","text":` +
		`"{\"coat\":{\"status\":\"良好\",\"description\":\"a\"},\"body\":{\"status\":\"良好\",\"description\":\"b\"},` +
		`\"overall\":{\"status\":\"良好\",\"description\":\"c\"},\"recommendations\":\"d\"}"}]}`)
	resp, err := adapter.NewMockAdapterWithResponse(adapter.KindClaude, raw).Analyze(context.Background(), "aW1n")
	require.NoError(t, err)

	res, err := Adapt(resp)
	require.NoError(t, err)
	assert.Equal(t, "d", res.Report.Recommendations)
	assert.False(t, res.FallbackUsed)
}

func TestAdaptMissingContentFails(t *testing.T) {
	cases := map[adapter.Kind][]byte{
		adapter.KindClaude:      []byte(`{"content":[]}`),
		adapter.KindGemini:      []byte(`{"candidates":[]}`),
		adapter.KindHuggingFace: []byte(`[]`),
		adapter.KindOpenRouter:  []byte(`{"choices":[{"message":{"content":null}}]}`),
	}
	for kind, raw := range cases {
		t.Run(string(kind), func(t *testing.T) {
			_, err := AdaptRaw(kind, raw)
			assert.ErrorIs(t, err, ErrNoContent)
		})
	}
}

func TestAdaptWhitespaceTextFails(t *testing.T) {
	for _, kind := range adapter.Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			_, err := AdaptRaw(kind, adapter.NativeBody(kind, " \n\t "))
			assert.ErrorIs(t, err, ErrNoContent)
		})
	}
}

func TestAdaptDirectProvidersPropagateParseErrors(t *testing.T) {
	for _, kind := range []adapter.Kind{adapter.KindClaude, adapter.KindGemini, adapter.KindOpenRouter} {
		t.Run(string(kind), func(t *testing.T) {
			_, err := AdaptRaw(kind, adapter.NativeBody(kind, "この画像は猫です"))
			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, kind, parseErr.Kind)
		})
	}
}

func TestAdaptDirectProvidersRejectInvalidStatus(t *testing.T) {
	bad := `{"coat":{"status":"excellent","description":"a"},"body":{"status":"良好","description":"b"},` +
		`"overall":{"status":"良好","description":"c"},"recommendations":"d"}`
	_, err := AdaptRaw(adapter.KindGemini, adapter.NativeBody(adapter.KindGemini, bad))
	assert.ErrorIs(t, err, report.ErrInvalidReport)
}

func TestAdaptHuggingFaceExtractsFromProse(t *testing.T) {
	text := "Here is the assessment you asked for:\n" + reportJSON + "\nLet me know if you need more."
	res, err := AdaptRaw(adapter.KindHuggingFace, adapter.NativeBody(adapter.KindHuggingFace, text))
	require.NoError(t, err)
	assert.False(t, res.FallbackUsed)
	assert.Equal(t, report.StatusCaution, res.Report.Coat.Status)
}

func TestAdaptHuggingFaceFallsBack(t *testing.T) {
	cases := map[string]string{
		"no braces":      "The cat looks healthy and happy.",
		"broken json":    `{"coat": {"status": "良好", "description": }`,
		"invalid status": `{"coat":{"status":"fine","description":"a"}}`,
	}
	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			res, err := AdaptRaw(adapter.KindHuggingFace, adapter.NativeBody(adapter.KindHuggingFace, text))
			require.NoError(t, err)
			assert.True(t, res.FallbackUsed)
			assert.Error(t, res.ParseErr)
			assert.Equal(t, report.Fallback(), res.Report)

			got, err := res.Envelope.Report()
			require.NoError(t, err)
			assert.Equal(t, report.Fallback(), got)
		})
	}
}

func TestAdaptUnknownKind(t *testing.T) {
	_, err := AdaptRaw(adapter.Kind("bedrock"), []byte(`{}`))
	assert.Error(t, err)
}

func TestAdaptNilResponse(t *testing.T) {
	_, err := Adapt(nil)
	assert.ErrorIs(t, err, ErrNoContent)
}

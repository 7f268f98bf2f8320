package prompt

import (
	"strings"
	"testing"
)

func TestAnalysisRequestsSchema(t *testing.T) {
	p := Analysis()
	for _, want := range []string{`"coat"`, `"body"`, `"overall"`, `"recommendations"`, "良好/普通/要注意"} {
		if !strings.Contains(p, want) {
			t.Fatalf("analysis prompt missing %q", want)
		}
	}
}

func TestGenerationEmbedsCaption(t *testing.T) {
	p := Generation("  a fluffy orange cat sitting on a sofa \n")
	if !strings.Contains(p, `"a fluffy orange cat sitting on a sofa"`) {
		t.Fatalf("expected trimmed caption in prompt, got %q", p)
	}
	if !strings.HasPrefix(p, "<s>[INST]") || !strings.HasSuffix(p, "[/INST]") {
		t.Fatalf("expected instruction wrapper, got %q", p)
	}
	if !strings.Contains(p, `"recommendations"`) {
		t.Fatalf("generation prompt missing schema")
	}
}

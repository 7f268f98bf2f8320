// Package sanitize cleans model output text before it is decoded as JSON.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	leadingFence  = regexp.MustCompile("(?i)^\\s*```(?:json)?[ \\t]*\\r?\\n?")
	trailingFence = regexp.MustCompile("\\r?\\n?[ \\t]*```\\s*$")
)

// StripFences removes a leading Markdown code fence (optionally tagged json,
// case-insensitive) and a trailing fence, then trims surrounding whitespace.
// Text without fences only loses its surrounding whitespace.
func StripFences(s string) string {
	s = leadingFence.ReplaceAllString(s, "")
	s = trailingFence.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// ExtractObject returns the span from the first '{' to the last '}' when s
// does not already start with '{'. Without such a pair s is returned as is.
func ExtractObject(s string) string {
	if strings.HasPrefix(s, "{") {
		return s
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end < start {
		return s
	}
	return s[start : end+1]
}

// Normalize strips fences and, when extract is set, slices out the JSON object.
func Normalize(s string, extract bool) string {
	s = StripFences(s)
	if extract {
		s = ExtractObject(s)
	}
	return s
}

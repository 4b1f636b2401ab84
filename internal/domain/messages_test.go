package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	m "k6lint.dev/pkg/k6lint/internal/model"
)

func TestMessage(t *testing.T) {
	tests := []struct {
		name    string
		finding m.Finding
		want    string
	}{
		{
			name:    "static",
			finding: m.Finding{Kind: m.LoopInInit},
			want:    "Avoid loops in k6 init context. Move heavy processing to SharedArray callback.",
		},
		{
			name:    "missing check in default",
			finding: m.Finding{Kind: m.MissingCheck},
			want: "Test default function performs HTTP requests without any check(). " +
				"Add checks to validate responses and avoid false positives.",
		},
		{
			name:    "missing check in scenario function",
			finding: m.Finding{Kind: m.MissingCheck, Data: m.FindingData{FunctionName: "browse"}},
			want: "Function 'browse' performs HTTP requests without any check(). " +
				"Add checks to validate responses and avoid false positives.",
		},
		{
			name:    "missing tag",
			finding: m.Finding{Kind: m.MissingTag, Data: m.FindingData{Endpoint: "https://test.k6.io"}},
			want:    `HTTP request to "https://test.k6.io" has no unique tag (name) in its tags parameter.`,
		},
		{
			name:    "duplicate tag",
			finding: m.Finding{Kind: m.DuplicateTag, Data: m.FindingData{TagName: "home", Endpoint: "/a"}},
			want:    `Tag "home" is used by multiple endpoints. Use a unique tag per endpoint.`,
		},
		{
			name:    "unknown kind",
			finding: m.Finding{Kind: "Custom"},
			want:    "Custom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Message(tt.finding))
		})
	}
}

func TestMessage_EveryKindRendered(t *testing.T) {
	for _, kind := range m.AllFindingKinds {
		assert.NotEqual(t, string(kind), Message(m.Finding{Kind: kind}), kind)
	}
}

func TestSummarize(t *testing.T) {
	counts := Summarize([]m.Finding{
		{Kind: m.MissingTag},
		{Kind: m.LoopInInit},
		{Kind: m.MissingTag},
	})

	assert.Equal(t, map[m.FindingKind]int{m.MissingTag: 2, m.LoopInInit: 1}, counts)
	assert.Empty(t, Summarize(nil))
}

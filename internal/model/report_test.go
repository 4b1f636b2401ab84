package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewReport_Summary(t *testing.T) {
	report := NewReport([]FileReport{
		{Path: "a.js", Findings: []Finding{{Kind: MissingTag}, {Kind: MissingTag}, {Kind: MissingCheck}}},
		{Path: "b.js", Error: "parse failure"},
		{Path: "c.js"},
	})

	assert.Equal(t, ReportVersion, report.Version)
	assert.Equal(t, 3, report.Summary.Files)
	assert.Equal(t, 1, report.Summary.FilesWithErrors)
	assert.Equal(t, 3, report.Summary.Findings)
	assert.Equal(t, 2, report.Summary.ByKind[MissingTag])
	assert.Equal(t, 1, report.Summary.ByKind[MissingCheck])
}

func TestLanguageOf(t *testing.T) {
	tests := []struct {
		path Path
		want Language
		ok   bool
	}{
		{"script.js", LanguageJavaScript, true},
		{"lib/helpers.MJS", LanguageJavaScript, true},
		{"test.ts", LanguageTypeScript, true},
		{"view.tsx", LanguageTSX, true},
		{"main.go", "", false},
		{"README", "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.path), func(t *testing.T) {
			got, ok := LanguageOf(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultRuleSettings(t *testing.T) {
	s := DefaultRuleSettings()

	assert.Equal(t, []string{"check"}, s.ValidationFunctions)
	assert.Equal(t, []string{"http"}, s.NetworkNamespaces)
	assert.Equal(t, []string{"fetch"}, s.NetworkFunctions)
	assert.Equal(t, []string{"SharedArray"}, s.SharedDataFactories)
	assert.Len(t, AllFindingKinds, 11)
}

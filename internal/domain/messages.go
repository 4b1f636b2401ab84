package domain

import (
	"fmt"

	m "k6lint.dev/pkg/k6lint/internal/model"
)

var staticMessages = map[m.FindingKind]string{
	m.FileOperationInInit: "Avoid file operations in k6 init context. Consider using SharedArray for shared data.",
	m.JSONParseInInit:     "Avoid JSON parsing in k6 init context. Consider parsing inside SharedArray callback or in the setup function.",
	m.NetworkCallInInit:   "Avoid network/HTTP operations in k6 init context. This should be done in the test function.",
	m.DynamicImportInInit: "Avoid dynamic imports in k6 init context. Use static imports instead.",
	m.ModuleLoadInInit:    "Avoid heavy module loading operations in k6 init context.",
	m.LoopInInit:          "Avoid loops in k6 init context. Move heavy processing to SharedArray callback.",
	m.ComplexMathInInit:   "Avoid complex mathematical operations in k6 init context.",
	m.MissingThresholds:   "Exported 'options' has no 'thresholds' section. Define thresholds so k6 can fail when SLOs are not met.",
}

// Message renders the human-readable text of f from its kind and data.
func Message(f m.Finding) string {
	if msg, ok := staticMessages[f.Kind]; ok {
		return msg
	}

	switch f.Kind {
	case m.MissingCheck:
		if f.Data.FunctionName == "" {
			return "Test default function performs HTTP requests without any check(). " +
				"Add checks to validate responses and avoid false positives."
		}

		return fmt.Sprintf("Function '%s' performs HTTP requests without any check(). "+
			"Add checks to validate responses and avoid false positives.", f.Data.FunctionName)
	case m.MissingTag:
		return fmt.Sprintf("HTTP request to %q has no unique tag (name) in its tags parameter.", f.Data.Endpoint)
	case m.DuplicateTag:
		return fmt.Sprintf("Tag %q is used by multiple endpoints. Use a unique tag per endpoint.", f.Data.TagName)
	default:
		return string(f.Kind)
	}
}

// Summarize counts findings per kind.
func Summarize(findings []m.Finding) map[m.FindingKind]int {
	counts := make(map[m.FindingKind]int)
	for _, f := range findings {
		counts[f.Kind]++
	}

	return counts
}

// Package detectors implements the anti-pattern detectors the analyzer runs
// over an indexed script. Each detector is a pure function of the file index
// and owns the ordering of its own findings.
package detectors

import (
	"k6lint.dev/pkg/k6lint/internal/domain/extract"
	"k6lint.dev/pkg/k6lint/internal/jsast"
	m "k6lint.dev/pkg/k6lint/internal/model"
)

// Detector inspects one indexed file. Findings are returned without a
// message; the analyzer renders messages from kind and data.
type Detector interface {
	Name() string
	Description() string
	Kinds() []m.FindingKind
	Detect(ix *extract.FileIndex) []m.Finding
}

// All returns every detector in execution order.
func All() []Detector {
	return []Detector{
		InitHygiene{},
		CheckCoverage{},
		TagUniqueness{},
		ThresholdPresence{},
	}
}

func newFinding(t *jsast.Tree, kind m.FindingKind, at jsast.NodeID, data m.FindingData) m.Finding {
	pos := t.Pos(at)

	return m.Finding{
		Kind:     kind,
		Location: m.Location{Line: pos.Line, Column: pos.Column},
		Data:     data,
	}
}

package detectors

import (
	"k6lint.dev/pkg/k6lint/internal/domain/extract"
	"k6lint.dev/pkg/k6lint/internal/jsast"
	m "k6lint.dev/pkg/k6lint/internal/model"
)

// ThresholdPresence reports exported options that define no pass/fail
// thresholds.
type ThresholdPresence struct{}

// Name implements Detector.
func (ThresholdPresence) Name() string { return "threshold-presence" }

// Description implements Detector.
func (ThresholdPresence) Description() string {
	return "Exported options without a non-empty thresholds section"
}

// Kinds implements Detector.
func (ThresholdPresence) Kinds() []m.FindingKind {
	return []m.FindingKind{m.MissingThresholds}
}

// Detect implements Detector. A file without exported options is not
// reported.
func (ThresholdPresence) Detect(ix *extract.FileIndex) []m.Finding {
	if !ix.HasConfig {
		return nil
	}

	t := ix.Tree

	if hasThresholds(t, ix.Config.Value) {
		return nil
	}

	return []m.Finding{newFinding(t, m.MissingThresholds, ix.Config.Anchor, m.FindingData{})}
}

func hasThresholds(t *jsast.Tree, options jsast.NodeID) bool {
	if !t.Is(options, jsast.KindObject) {
		return false
	}

	field := t.Property(options, "thresholds")
	if field == jsast.NoNode {
		nested := extract.ResolveValue(t, t.Property(options, "options"))
		if !t.Is(nested, jsast.KindObject) {
			return false
		}

		field = t.Property(nested, "thresholds")
		if field == jsast.NoNode {
			return false
		}
	}

	thresholds := extract.ResolveValue(t, field)
	if !t.Is(thresholds, jsast.KindObject) {
		// computed elsewhere; assume it is meaningful
		return true
	}

	for _, member := range t.Children(thresholds) {
		value := t.Unwrap(t.PropertyValue(member))
		if !t.Is(value, jsast.KindArray) || len(t.Children(value)) > 0 {
			return true
		}
	}

	return false
}

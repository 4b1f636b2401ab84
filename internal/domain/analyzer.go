// Package domain contains the analysis pipeline and the scan workflow.
package domain

import (
	"context"
	"fmt"
	"log/slog"

	"k6lint.dev/pkg/k6lint/internal/domain/detectors"
	"k6lint.dev/pkg/k6lint/internal/domain/extract"
	"k6lint.dev/pkg/k6lint/internal/jsast"
	m "k6lint.dev/pkg/k6lint/internal/model"
)

// Analyzer runs the detectors over one parsed script.
type Analyzer interface {
	Analyze(ctx context.Context, tree *jsast.Tree) []m.Finding
	Rules() []m.RuleInfo
	Settings() m.RuleSettings
}

type analyzer struct {
	settings  m.RuleSettings
	detectors []detectors.Detector
	disabled  map[string]bool
}

// NewAnalyzer creates an Analyzer running every detector except the ones
// named in disabled.
func NewAnalyzer(settings m.RuleSettings, disabled ...string) Analyzer {
	return newAnalyzer(settings, detectors.All(), disabled...)
}

func newAnalyzer(settings m.RuleSettings, ds []detectors.Detector, disabled ...string) *analyzer {
	off := make(map[string]bool, len(disabled))
	for _, name := range disabled {
		off[name] = true
	}

	return &analyzer{
		settings:  settings,
		detectors: ds,
		disabled:  off,
	}
}

// Analyze indexes tree once and concatenates the findings of the enabled
// detectors in their fixed order, with messages rendered.
func (a *analyzer) Analyze(ctx context.Context, tree *jsast.Tree) []m.Finding {
	findings := make([]m.Finding, 0)

	ix, err := a.index(tree)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to index script", "path", tree.Path, "error", err)
		return findings
	}

	for _, d := range a.detectors {
		if a.disabled[d.Name()] {
			continue
		}

		for _, f := range a.run(ctx, d, ix) {
			f.Message = Message(f)
			findings = append(findings, f)
		}
	}

	return findings
}

func (a *analyzer) index(tree *jsast.Tree) (ix *extract.FileIndex, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected tree shape: %v", r)
		}
	}()

	return extract.BuildIndex(tree, a.settings), nil
}

// run isolates a detector: a panic costs that detector's findings only.
func (a *analyzer) run(ctx context.Context, d detectors.Detector, ix *extract.FileIndex) (findings []m.Finding) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "Detector failed", "detector", d.Name(), "path", ix.Tree.Path, "panic", r)

			findings = nil
		}
	}()

	return d.Detect(ix)
}

func (a *analyzer) Rules() []m.RuleInfo {
	rules := make([]m.RuleInfo, 0, len(a.detectors))

	for _, d := range a.detectors {
		rules = append(rules, m.RuleInfo{
			Name:        d.Name(),
			Description: d.Description(),
			Kinds:       d.Kinds(),
			Enabled:     !a.disabled[d.Name()],
		})
	}

	return rules
}

func (a *analyzer) Settings() m.RuleSettings {
	return a.settings
}

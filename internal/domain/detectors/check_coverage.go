package detectors

import (
	"k6lint.dev/pkg/k6lint/internal/domain/extract"
	"k6lint.dev/pkg/k6lint/internal/jsast"
	m "k6lint.dev/pkg/k6lint/internal/model"
)

// CheckCoverage reports target functions that send requests but never
// validate a response.
type CheckCoverage struct{}

// Name implements Detector.
func (CheckCoverage) Name() string { return "check-coverage" }

// Description implements Detector.
func (CheckCoverage) Description() string {
	return "Iteration functions that perform requests without any check()"
}

// Kinds implements Detector.
func (CheckCoverage) Kinds() []m.FindingKind {
	return []m.FindingKind{m.MissingCheck}
}

type callState struct {
	sawNetworkCall    bool
	sawValidationCall bool
}

// coverageVisitor tracks the stack of functions enclosing the current node
// and marks every one of them when a classified call is seen.
type coverageVisitor struct {
	aliases extract.Aliases
	stack   []jsast.NodeID
	state   map[jsast.NodeID]*callState
}

func (v *coverageVisitor) Enter(t *jsast.Tree, id jsast.NodeID) bool {
	if t.Kind(id).IsFunction() {
		v.stack = append(v.stack, id)
		return true
	}

	if !t.Is(id, jsast.KindCallExpression) || len(v.stack) == 0 {
		return true
	}

	network := v.aliases.IsNetworkCall(t, id)
	validation := v.aliases.IsValidationCall(t, id)

	if !network && !validation {
		return true
	}

	for _, fn := range v.stack {
		st := v.state[fn]
		if st == nil {
			st = &callState{}
			v.state[fn] = st
		}

		st.sawNetworkCall = st.sawNetworkCall || network
		st.sawValidationCall = st.sawValidationCall || validation
	}

	return true
}

func (v *coverageVisitor) Exit(t *jsast.Tree, id jsast.NodeID) {
	if t.Kind(id).IsFunction() && len(v.stack) > 0 {
		v.stack = v.stack[:len(v.stack)-1]
	}
}

// Detect implements Detector.
func (CheckCoverage) Detect(ix *extract.FileIndex) []m.Finding {
	if len(ix.Targets) == 0 {
		return nil
	}

	t := ix.Tree
	v := &coverageVisitor{aliases: ix.Aliases, state: make(map[jsast.NodeID]*callState)}
	jsast.Walk(t, t.Root(), v)

	var findings []m.Finding

	for _, target := range ix.Targets {
		st := v.state[target.Node]
		if st == nil || !st.sawNetworkCall || st.sawValidationCall {
			continue
		}

		var data m.FindingData
		if !target.IsDefault {
			data.FunctionName = target.Name
		}

		findings = append(findings, newFinding(t, m.MissingCheck, target.Anchor, data))
	}

	return findings
}

package detectors

import (
	"strings"

	"k6lint.dev/pkg/k6lint/internal/domain/extract"
	"k6lint.dev/pkg/k6lint/internal/jsast"
	m "k6lint.dev/pkg/k6lint/internal/model"
)

// InitHygiene reports expensive work in the init region: file reads,
// parsing, requests, module loading, loops and exponentiation.
type InitHygiene struct{}

// Name implements Detector.
func (InitHygiene) Name() string { return "init-hygiene" }

// Description implements Detector.
func (InitHygiene) Description() string {
	return "Heavy operations in code that runs once per process, outside shared-data factories"
}

// Kinds implements Detector.
func (InitHygiene) Kinds() []m.FindingKind {
	return []m.FindingKind{
		m.FileOperationInInit,
		m.JSONParseInInit,
		m.NetworkCallInInit,
		m.DynamicImportInInit,
		m.ModuleLoadInInit,
		m.LoopInInit,
		m.ComplexMathInInit,
	}
}

// Detect implements Detector. Function bodies and shared-data factory
// expressions are not descended into.
func (InitHygiene) Detect(ix *extract.FileIndex) []m.Finding {
	t := ix.Tree

	var findings []m.Finding

	for _, stmt := range ix.InitRegion {
		jsast.Inspect(t, stmt, func(id jsast.NodeID) bool {
			kind := t.Kind(id)

			if kind.IsFunction() || ix.Aliases.IsSharedDataFactory(t, id) {
				return false
			}

			if found, ok := classifyInit(ix, id); ok {
				findings = append(findings, newFinding(t, found, id, m.FindingData{}))
			}

			return true
		})
	}

	return findings
}

// classifyInit returns the category of id, at most one per node.
func classifyInit(ix *extract.FileIndex, id jsast.NodeID) (m.FindingKind, bool) {
	t := ix.Tree

	switch kind := t.Kind(id); {
	case kind == jsast.KindCallExpression:
		return classifyInitCall(ix, id)
	case kind.IsLoop():
		return m.LoopInInit, true
	case kind == jsast.KindBinaryExpression && t.Node(id).Operator == "**":
		return m.ComplexMathInInit, true
	case kind == jsast.KindAugmentedAssignmentExpression && t.Node(id).Operator == "**=":
		return m.ComplexMathInInit, true
	default:
		return "", false
	}
}

func classifyInitCall(ix *extract.FileIndex, call jsast.NodeID) (m.FindingKind, bool) {
	t := ix.Tree
	callee := t.Unwrap(t.Callee(call))

	name, isName := t.Name(callee)
	object, property, isMember := t.MemberParts(callee)

	switch {
	case isName && name == "open":
		return m.FileOperationInInit, true
	case isMember && object == "fs" && strings.HasPrefix(property, "readFile"):
		return m.FileOperationInInit, true
	case isMember && object == "JSON" && property == "parse":
		return m.JSONParseInInit, true
	case ix.Aliases.IsNetworkCall(t, call):
		return m.NetworkCallInInit, true
	case t.Is(callee, jsast.KindImport):
		return m.DynamicImportInInit, true
	case isName && name == "require":
		return m.ModuleLoadInInit, true
	default:
		return "", false
	}
}

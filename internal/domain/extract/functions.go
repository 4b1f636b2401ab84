package extract

import (
	"fmt"

	"k6lint.dev/pkg/k6lint/internal/jsast"
)

// DefaultFunctionName is the name the default-exported function is known by.
const DefaultFunctionName = "default"

// FunctionRecord identifies one candidate target function by node identity.
type FunctionRecord struct {
	Name string `yaml:"name"`
	// Node is the function node itself.
	Node jsast.NodeID `yaml:"-"`
	// Anchor is where findings about the function are reported: the export
	// statement for the default function, the binding name otherwise.
	Anchor    jsast.NodeID   `yaml:"-"`
	IsDefault bool           `yaml:"default,omitempty"`
	Position  jsast.Position `yaml:"position"`
}

// FunctionIndex maps names to function records. Top-level bindings take
// precedence over nested ones; otherwise the first in source order wins.
type FunctionIndex struct {
	byName map[string]FunctionRecord
	order  []string
}

// Lookup returns the function bound to name.
func (ix *FunctionIndex) Lookup(name string) (FunctionRecord, bool) {
	if ix == nil {
		return FunctionRecord{}, false
	}

	rec, ok := ix.byName[name]

	return rec, ok
}

// Names returns the indexed names in insertion order.
func (ix *FunctionIndex) Names() []string {
	if ix == nil {
		return nil
	}

	return ix.order
}

func (ix *FunctionIndex) add(rec FunctionRecord) {
	if _, exists := ix.byName[rec.Name]; exists {
		return
	}

	ix.byName[rec.Name] = rec
	ix.order = append(ix.order, rec.Name)
}

// IndexFunctions indexes every named function declaration and every function
// expression or arrow function bound to a variable.
func IndexFunctions(t *jsast.Tree) *FunctionIndex {
	ix := &FunctionIndex{byName: make(map[string]FunctionRecord)}

	var nested []FunctionRecord

	jsast.Inspect(t, t.Root(), func(id jsast.NodeID) bool {
		rec, ok := namedFunction(t, id)
		if !ok {
			return true
		}

		if isTopLevel(t, rec.Node) {
			ix.add(rec)
		} else {
			nested = append(nested, rec)
		}

		return true
	})

	for _, rec := range nested {
		ix.add(rec)
	}

	return ix
}

// namedFunction recognizes `function name() {}` and `const name = () => {}`.
func namedFunction(t *jsast.Tree, id jsast.NodeID) (FunctionRecord, bool) {
	switch t.Kind(id) {
	case jsast.KindFunctionDeclaration:
		name := t.Field(id, "name")
		if name == jsast.NoNode {
			return FunctionRecord{}, false
		}

		return FunctionRecord{Name: t.Text(name), Node: id, Anchor: name, Position: t.Pos(name)}, true
	case jsast.KindVariableDeclarator:
		name := t.Field(id, "name")
		fn := t.Unwrap(t.Field(id, "value"))

		if !t.Is(name, jsast.KindIdentifier) || !t.Kind(fn).IsFunction() {
			return FunctionRecord{}, false
		}

		return FunctionRecord{Name: t.Text(name), Node: fn, Anchor: name, Position: t.Pos(name)}, true
	default:
		return FunctionRecord{}, false
	}
}

// isTopLevel reports whether no function encloses id.
func isTopLevel(t *jsast.Tree, id jsast.NodeID) bool {
	top := true

	t.Ancestors(id, func(p jsast.NodeID) bool {
		if t.Kind(p).IsFunction() {
			top = false
		}

		return top
	})

	return top
}

// EnclosingFunction returns the nearest function containing id, or NoNode.
func EnclosingFunction(t *jsast.Tree, id jsast.NodeID) jsast.NodeID {
	found := jsast.NoNode

	t.Ancestors(id, func(p jsast.NodeID) bool {
		if t.Kind(p).IsFunction() {
			found = p
			return false
		}

		return true
	})

	return found
}

// findDefaultFunction resolves `export default function ...`, an exported
// arrow or function expression, or `export default name` naming an indexed
// function.
func findDefaultFunction(t *jsast.Tree, functions *FunctionIndex) (FunctionRecord, bool) {
	for _, stmt := range t.Children(t.Root()) {
		if !t.Is(stmt, jsast.KindExportStatement) || !t.HasToken(stmt, "default") {
			continue
		}

		target := t.Field(stmt, "declaration")
		if target == jsast.NoNode {
			target = t.Field(stmt, "value")
		}

		target = t.Unwrap(target)

		if t.Kind(target).IsFunction() {
			return FunctionRecord{
				Name:      DefaultFunctionName,
				Node:      target,
				Anchor:    stmt,
				IsDefault: true,
				Position:  t.Pos(stmt),
			}, true
		}

		if name, ok := identName(t, target); ok {
			if rec, ok := functions.Lookup(name); ok {
				rec.Name = DefaultFunctionName
				rec.Anchor = stmt
				rec.IsDefault = true
				rec.Position = t.Pos(stmt)

				return rec, true
			}
		}

		return FunctionRecord{}, false
	}

	return FunctionRecord{}, false
}

// ExtractDefaultFunction returns the default-exported function, failing with
// ErrNotFound when the file has none.
func ExtractDefaultFunction(t *jsast.Tree) (*FunctionRecord, error) {
	rec, ok := findDefaultFunction(t, IndexFunctions(t))
	if !ok {
		return nil, fmt.Errorf("default function: %w", ErrNotFound)
	}

	return &rec, nil
}

// ResolveTargetFunctions returns the functions a test run iterates, deduplicated
// by node identity. Scenarios are visited in source order; the default
// function joins the set when any scenario has no exec, or alone when there
// are no scenarios.
func ResolveTargetFunctions(opts *Options, functions *FunctionIndex, def *FunctionRecord) []FunctionRecord {
	var targets []FunctionRecord

	seen := make(map[jsast.NodeID]bool)
	add := func(rec FunctionRecord) {
		if seen[rec.Node] {
			return
		}

		seen[rec.Node] = true
		targets = append(targets, rec)
	}

	if opts == nil || len(opts.Scenarios) == 0 {
		if def != nil {
			add(*def)
		}

		return targets
	}

	needsDefault := false

	for _, scenario := range opts.Scenarios {
		if !scenario.HasExec {
			needsDefault = true
			continue
		}

		if scenario.Exec == DefaultFunctionName && def != nil {
			add(*def)
			continue
		}

		if rec, ok := functions.Lookup(scenario.Exec); ok {
			add(rec)
		}
	}

	if needsDefault && def != nil {
		add(*def)
	}

	return targets
}

// Lifecycle holds the setup and teardown exports.
type Lifecycle struct {
	Setup    *FunctionRecord `yaml:"setup,omitempty"`
	Teardown *FunctionRecord `yaml:"teardown,omitempty"`
}

// ExtractLifecycleFunctions locates the exported setup and teardown functions.
func ExtractLifecycleFunctions(t *jsast.Tree) Lifecycle {
	var lc Lifecycle

	for _, stmt := range t.Children(t.Root()) {
		if !t.Is(stmt, jsast.KindExportStatement) || t.HasToken(stmt, "default") {
			continue
		}

		decl := t.Field(stmt, "declaration")

		var candidates []jsast.NodeID

		switch t.Kind(decl) {
		case jsast.KindFunctionDeclaration:
			candidates = []jsast.NodeID{decl}
		case jsast.KindLexicalDeclaration, jsast.KindVariableDeclaration:
			candidates = t.Children(decl)
		default:
		}

		for _, c := range candidates {
			rec, ok := namedFunction(t, c)
			if !ok {
				continue
			}

			switch rec.Name {
			case "setup":
				if lc.Setup == nil {
					lc.Setup = &rec
				}
			case "teardown":
				if lc.Teardown == nil {
					lc.Teardown = &rec
				}
			}
		}
	}

	return lc
}

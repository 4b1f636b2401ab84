package extract

import (
	"fmt"

	"k6lint.dev/pkg/k6lint/internal/jsast"
)

const optionsName = "options"

// Strategy records how the configuration entity was located.
type Strategy string

// Location strategies, tried per top-level statement in source order.
const (
	StrategyDeclaration   Strategy = "declaration"
	StrategyReExport      Strategy = "re-export"
	StrategyModuleExports Strategy = "module.exports"
	StrategyExportsMember Strategy = "exports.options"
)

// ConfigEntity is the located exported configuration value.
type ConfigEntity struct {
	// Value is the configuration expression after one-hop identifier
	// resolution. NoNode when the declaration has no initializer.
	Value jsast.NodeID
	// Anchor is the node findings about the entity are reported on.
	Anchor   jsast.NodeID
	Strategy Strategy
}

// IsObject reports whether the entity resolved to an object literal.
func (c ConfigEntity) IsObject(t *jsast.Tree) bool {
	return t.Is(c.Value, jsast.KindObject)
}

// Scenario is one entry of options.scenarios.
type Scenario struct {
	Name    string `yaml:"name"`
	Exec    string `yaml:"exec,omitempty"`
	HasExec bool   `yaml:"-"`
}

// Threshold is one entry of options.thresholds.
type Threshold struct {
	Metric string   `yaml:"metric"`
	Checks []string `yaml:"checks"`
}

// Options is the descriptor of the exported configuration object.
type Options struct {
	Node jsast.NodeID `yaml:"-"`
	// HasScenarios is true when a scenarios object literal is present, even
	// an empty one.
	HasScenarios bool        `yaml:"-"`
	Scenarios    []Scenario  `yaml:"scenarios,omitempty"`
	Thresholds   []Threshold `yaml:"thresholds,omitempty"`
}

// LocateConfig finds the exported options entity. The first top-level
// statement that matches any strategy wins.
func LocateConfig(t *jsast.Tree) (ConfigEntity, bool) {
	for _, stmt := range t.Children(t.Root()) {
		switch t.Kind(stmt) {
		case jsast.KindExportStatement:
			if entity, ok := locateExported(t, stmt); ok {
				return entity, true
			}
		case jsast.KindExpressionStatement:
			if entity, ok := locateAssigned(t, stmt); ok {
				return entity, true
			}
		default:
		}
	}

	return ConfigEntity{}, false
}

func locateExported(t *jsast.Tree, stmt jsast.NodeID) (ConfigEntity, bool) {
	if decl := t.Field(stmt, "declaration"); decl != jsast.NoNode {
		declarator := findDeclarator(t, decl, optionsName)
		if declarator == jsast.NoNode {
			return ConfigEntity{}, false
		}

		return ConfigEntity{
			Value:    ResolveValue(t, t.Field(declarator, "value")),
			Anchor:   declarator,
			Strategy: StrategyDeclaration,
		}, true
	}

	for _, clause := range t.Children(stmt) {
		if t.Kind(clause) != jsast.KindExportClause {
			continue
		}

		// export { x as options } from './config' cannot be resolved locally.
		if t.Field(stmt, "source") != jsast.NoNode {
			return ConfigEntity{}, false
		}

		for _, spec := range t.Children(clause) {
			local, exported := specifierNames(t, spec)
			if exported != optionsName {
				continue
			}

			declarator := topLevelDeclarator(t, local)
			if declarator == jsast.NoNode {
				continue
			}

			return ConfigEntity{
				Value:    ResolveValue(t, t.Field(declarator, "value")),
				Anchor:   declarator,
				Strategy: StrategyReExport,
			}, true
		}
	}

	return ConfigEntity{}, false
}

func specifierNames(t *jsast.Tree, spec jsast.NodeID) (string, string) {
	local := t.Text(t.Field(spec, "name"))
	exported := local

	if alias := t.Field(spec, "alias"); alias != jsast.NoNode {
		exported = t.Text(alias)
	}

	return local, exported
}

func locateAssigned(t *jsast.Tree, stmt jsast.NodeID) (ConfigEntity, bool) {
	assign := t.Unwrap(t.Child(stmt, 0))
	if t.Kind(assign) != jsast.KindAssignmentExpression {
		return ConfigEntity{}, false
	}

	target, ok := t.MemberPath(t.Field(assign, "left"))
	if !ok {
		return ConfigEntity{}, false
	}

	right := t.Field(assign, "right")

	switch target {
	case "module.exports.options", "exports.options":
		return ConfigEntity{
			Value:    ResolveValue(t, right),
			Anchor:   right,
			Strategy: StrategyExportsMember,
		}, true
	case "module.exports":
		value := ResolveValue(t, right)
		if !t.Is(value, jsast.KindObject) {
			return ConfigEntity{}, false
		}

		if nested := t.Property(value, optionsName); nested != jsast.NoNode {
			value = ResolveValue(t, nested)
		}

		return ConfigEntity{
			Value:    value,
			Anchor:   right,
			Strategy: StrategyModuleExports,
		}, true
	default:
		return ConfigEntity{}, false
	}
}

// findDeclarator returns the declarator binding name inside a lexical or
// variable declaration.
func findDeclarator(t *jsast.Tree, decl jsast.NodeID, name string) jsast.NodeID {
	switch t.Kind(decl) {
	case jsast.KindLexicalDeclaration, jsast.KindVariableDeclaration:
	default:
		return jsast.NoNode
	}

	for _, d := range t.Children(decl) {
		if t.Kind(d) != jsast.KindVariableDeclarator {
			continue
		}

		if id := t.Field(d, "name"); t.Is(id, jsast.KindIdentifier) && t.Text(id) == name {
			return d
		}
	}

	return jsast.NoNode
}

// topLevelDeclarator finds the first top-level declarator of name, exported
// or not.
func topLevelDeclarator(t *jsast.Tree, name string) jsast.NodeID {
	for _, stmt := range t.Children(t.Root()) {
		decl := stmt
		if t.Kind(stmt) == jsast.KindExportStatement {
			decl = t.Field(stmt, "declaration")
		}

		if d := findDeclarator(t, decl, name); d != jsast.NoNode {
			return d
		}
	}

	return jsast.NoNode
}

// ResolveValue unwraps an expression and follows a bare identifier one hop
// to the initializer of its top-level declaration.
func ResolveValue(t *jsast.Tree, value jsast.NodeID) jsast.NodeID {
	value = t.Unwrap(value)

	if name, ok := identName(t, value); ok {
		if d := topLevelDeclarator(t, name); d != jsast.NoNode {
			if init := t.Unwrap(t.Field(d, "value")); init != jsast.NoNode {
				return init
			}
		}
	}

	return value
}

// identName returns the name of an identifier or shorthand property.
func identName(t *jsast.Tree, id jsast.NodeID) (string, bool) {
	switch t.Kind(id) {
	case jsast.KindIdentifier, jsast.KindShorthandProperty:
		return t.Text(id), true
	default:
		return "", false
	}
}

// ExtractOptions returns the descriptor of the exported options object. It
// fails with ErrNotFound when the file exports no options or they are not an
// object literal.
func ExtractOptions(t *jsast.Tree) (*Options, error) {
	entity, ok := LocateConfig(t)
	if !ok {
		return nil, fmt.Errorf("exported options: %w", ErrNotFound)
	}

	return optionsFromEntity(t, entity)
}

func optionsFromEntity(t *jsast.Tree, entity ConfigEntity) (*Options, error) {
	if !entity.IsObject(t) {
		return nil, fmt.Errorf("exported options is not an object literal: %w", ErrNotFound)
	}

	opts := &Options{Node: entity.Value}

	if scenarios := ResolveValue(t, t.Property(entity.Value, "scenarios")); t.Is(scenarios, jsast.KindObject) {
		opts.HasScenarios = true
		opts.Scenarios = readScenarios(t, scenarios)
	}

	if thresholds := ResolveValue(t, t.Property(entity.Value, "thresholds")); t.Is(thresholds, jsast.KindObject) {
		opts.Thresholds = readThresholds(t, thresholds)
	}

	return opts, nil
}

func readScenarios(t *jsast.Tree, obj jsast.NodeID) []Scenario {
	var scenarios []Scenario

	for _, member := range t.Children(obj) {
		name, ok := t.PropertyKey(member)
		if !ok {
			continue
		}

		scenario := Scenario{Name: name}

		body := ResolveValue(t, t.PropertyValue(member))
		if exec, ok := t.StringValue(t.Property(body, "exec")); ok {
			scenario.Exec = exec
			scenario.HasExec = true
		}

		scenarios = append(scenarios, scenario)
	}

	return scenarios
}

func readThresholds(t *jsast.Tree, obj jsast.NodeID) []Threshold {
	var thresholds []Threshold

	for _, member := range t.Children(obj) {
		metric, ok := t.PropertyKey(member)
		if !ok {
			continue
		}

		th := Threshold{Metric: metric, Checks: []string{}}

		value := t.Unwrap(t.PropertyValue(member))
		if s, ok := t.StringValue(value); ok {
			th.Checks = append(th.Checks, s)
		}

		if t.Is(value, jsast.KindArray) {
			for _, el := range t.Children(value) {
				if s, ok := t.StringValue(el); ok {
					th.Checks = append(th.Checks, s)
				} else if s, ok := t.StringValue(t.Property(el, "threshold")); ok {
					th.Checks = append(th.Checks, s)
				}
			}
		}

		thresholds = append(thresholds, th)
	}

	return thresholds
}

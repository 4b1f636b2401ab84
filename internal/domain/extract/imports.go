package extract

import (
	"k6lint.dev/pkg/k6lint/internal/jsast"
	m "k6lint.dev/pkg/k6lint/internal/model"
)

const validationExport = "check"

// networkExports are the request-performing exports of the network module.
var networkExports = map[string]bool{
	"get":          true,
	"post":         true,
	"put":          true,
	"patch":        true,
	"del":          true,
	"head":         true,
	"options":      true,
	"request":      true,
	"asyncRequest": true,
	"batch":        true,
}

// Aliases are the local names call classification is based on.
type Aliases struct {
	// ValidationFunctions maps local callee names to validation calls.
	ValidationFunctions map[string]bool
	// ValidationNamespaces hold locals bound to the whole validation module.
	ValidationNamespaces map[string]bool
	// NetworkNamespaces hold locals whose member calls are requests.
	NetworkNamespaces map[string]bool
	// NetworkFunctions maps local callee names to the request method they
	// perform ("fetch" maps to itself).
	NetworkFunctions map[string]string
	// NetworkHelpers are namespace members that do not send a request.
	NetworkHelpers map[string]bool
	// SharedDataFactories are constructors evaluated once per process.
	SharedDataFactories map[string]bool
}

func newAliases(s m.RuleSettings) Aliases {
	a := Aliases{
		ValidationFunctions:  set(s.ValidationFunctions),
		ValidationNamespaces: map[string]bool{},
		NetworkNamespaces:    set(s.NetworkNamespaces),
		NetworkFunctions:     map[string]string{},
		NetworkHelpers:       set(s.NetworkHelpers),
		SharedDataFactories:  set(s.SharedDataFactories),
	}

	for _, fn := range s.NetworkFunctions {
		a.NetworkFunctions[fn] = fn
	}

	return a
}

func set(values []string) map[string]bool {
	out := make(map[string]bool, len(values))
	for _, v := range values {
		out[v] = true
	}

	return out
}

// ScanImports builds the alias sets from import declarations and top-level
// require() bindings of the validation and network modules.
func ScanImports(t *jsast.Tree, s m.RuleSettings) Aliases {
	a := newAliases(s)

	for _, stmt := range t.Children(t.Root()) {
		switch t.Kind(stmt) {
		case jsast.KindImportStatement:
			source, ok := t.StringValue(t.Field(stmt, "source"))
			if !ok {
				continue
			}

			for _, clause := range t.Children(stmt) {
				if t.Is(clause, jsast.KindImportClause) {
					a.addImportClause(t, clause, source, s)
				}
			}
		case jsast.KindLexicalDeclaration, jsast.KindVariableDeclaration:
			for _, d := range t.Children(stmt) {
				a.addRequire(t, d, s)
			}
		default:
		}
	}

	return a
}

func (a *Aliases) addImportClause(t *jsast.Tree, clause jsast.NodeID, source string, s m.RuleSettings) {
	for _, part := range t.Children(clause) {
		switch t.Kind(part) {
		case jsast.KindIdentifier:
			a.addNamespace(t.Text(part), source, s)
		case jsast.KindNamespaceImport:
			if local := t.Child(part, 0); local != jsast.NoNode {
				a.addNamespace(t.Text(local), source, s)
			}
		case jsast.KindNamedImports:
			for _, spec := range t.Children(part) {
				imported := t.Text(t.Field(spec, "name"))
				local := imported

				if alias := t.Field(spec, "alias"); alias != jsast.NoNode {
					local = t.Text(alias)
				}

				a.addNamed(imported, local, source, s)
			}
		default:
		}
	}
}

func (a *Aliases) addNamespace(local, source string, s m.RuleSettings) {
	switch source {
	case s.ValidationModule:
		a.ValidationNamespaces[local] = true
	case s.NetworkModule:
		a.NetworkNamespaces[local] = true
	}
}

func (a *Aliases) addNamed(imported, local, source string, s m.RuleSettings) {
	switch source {
	case s.ValidationModule:
		if imported == validationExport {
			a.ValidationFunctions[local] = true
		}
	case s.NetworkModule:
		if networkExports[imported] {
			a.NetworkFunctions[local] = imported
		}
	}
}

// addRequire handles `const http = require('k6/http')`.
func (a *Aliases) addRequire(t *jsast.Tree, declarator jsast.NodeID, s m.RuleSettings) {
	name := t.Field(declarator, "name")
	call := t.Unwrap(t.Field(declarator, "value"))

	if !t.Is(name, jsast.KindIdentifier) || !t.Is(call, jsast.KindCallExpression) {
		return
	}

	if callee, ok := t.Name(t.Callee(call)); !ok || callee != "require" {
		return
	}

	if source, ok := t.StringValue(t.Argument(call, 0)); ok {
		a.addNamespace(t.Text(name), source, s)
	}
}

// NetworkMethod classifies call as a network call and returns the request
// method it performs: the namespace member name (get, batch, ...) or the
// imported name of a directly called function.
func (a Aliases) NetworkMethod(t *jsast.Tree, call jsast.NodeID) (string, bool) {
	if !t.Is(call, jsast.KindCallExpression) {
		return "", false
	}

	callee := t.Unwrap(t.Callee(call))

	if name, ok := t.Name(callee); ok {
		method, found := a.NetworkFunctions[name]
		return method, found
	}

	object, property, ok := t.MemberParts(callee)
	if !ok || !a.NetworkNamespaces[object] || a.NetworkHelpers[property] {
		return "", false
	}

	return property, true
}

// IsNetworkCall reports whether call performs a request.
func (a Aliases) IsNetworkCall(t *jsast.Tree, call jsast.NodeID) bool {
	_, ok := a.NetworkMethod(t, call)
	return ok
}

// IsValidationCall reports whether call validates a response.
func (a Aliases) IsValidationCall(t *jsast.Tree, call jsast.NodeID) bool {
	if !t.Is(call, jsast.KindCallExpression) {
		return false
	}

	callee := t.Unwrap(t.Callee(call))

	if name, ok := t.Name(callee); ok {
		return a.ValidationFunctions[name]
	}

	object, property, ok := t.MemberParts(callee)

	return ok && property == validationExport && a.ValidationNamespaces[object]
}

// IsSharedDataFactory reports whether id is `new <factory>(...)`.
func (a Aliases) IsSharedDataFactory(t *jsast.Tree, id jsast.NodeID) bool {
	if !t.Is(id, jsast.KindNewExpression) {
		return false
	}

	callee := t.Unwrap(t.Callee(id))
	if name, ok := t.Name(callee); ok {
		return a.SharedDataFactories[name]
	}

	if _, property, ok := t.MemberParts(callee); ok {
		return a.SharedDataFactories[property]
	}

	return false
}

package jsast

import (
	"strings"
)

// StringValue returns the value of a string literal or of a template literal
// without substitutions.
func (t *Tree) StringValue(id NodeID) (string, bool) {
	id = t.Unwrap(id)

	switch t.Kind(id) {
	case KindString:
	case KindTemplateString:
		for _, c := range t.Children(id) {
			if t.Kind(c) == KindTemplateSubstitution {
				return "", false
			}
		}
	default:
		return "", false
	}

	raw := t.Text(id)
	if len(raw) < 2 {
		return "", false
	}

	return unescape(raw[1 : len(raw)-1]), true
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder

	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}

		i++

		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\n':
		default:
			b.WriteByte(s[i])
		}
	}

	return b.String()
}

// Name returns the identifier text of id when it is a plain name.
func (t *Tree) Name(id NodeID) (string, bool) {
	switch t.Kind(id) {
	case KindIdentifier, KindPropertyIdentifier, KindShorthandProperty:
		return t.Text(id), true
	default:
		return "", false
	}
}

// PropertyKey returns the static key of an object member (pair or shorthand
// property).
func (t *Tree) PropertyKey(member NodeID) (string, bool) {
	switch t.Kind(member) {
	case KindShorthandProperty:
		return t.Text(member), true
	case KindPair:
		key := t.Field(member, "key")
		if name, ok := t.Name(key); ok {
			return name, true
		}

		if t.Kind(key) == KindNumber {
			return t.Text(key), true
		}

		return t.StringValue(key)
	default:
		return "", false
	}
}

// PropertyValue returns the value node of an object member. For a shorthand
// property the member itself is returned.
func (t *Tree) PropertyValue(member NodeID) NodeID {
	switch t.Kind(member) {
	case KindShorthandProperty:
		return member
	case KindPair:
		return t.Field(member, "value")
	default:
		return NoNode
	}
}

// Property looks up the last member of object literal obj whose static key
// is key and returns its value node.
func (t *Tree) Property(obj NodeID, key string) NodeID {
	obj = t.Unwrap(obj)
	if t.Kind(obj) != KindObject {
		return NoNode
	}

	found := NoNode

	for _, member := range t.Children(obj) {
		if k, ok := t.PropertyKey(member); ok && k == key {
			found = t.PropertyValue(member)
		}
	}

	return found
}

// Arguments returns the argument expressions of a call or new expression.
func (t *Tree) Arguments(call NodeID) []NodeID {
	switch t.Kind(call) {
	case KindCallExpression, KindNewExpression:
	default:
		return nil
	}

	args := t.Field(call, "arguments")
	if t.Kind(args) != KindArguments {
		return nil
	}

	return t.Children(args)
}

// Argument returns the i-th argument of call, or NoNode.
func (t *Tree) Argument(call NodeID, i int) NodeID {
	args := t.Arguments(call)
	if i < 0 || i >= len(args) {
		return NoNode
	}

	return args[i]
}

// Callee returns the function expression of a call, or the constructor of a
// new expression.
func (t *Tree) Callee(call NodeID) NodeID {
	switch t.Kind(call) {
	case KindCallExpression:
		return t.Field(call, "function")
	case KindNewExpression:
		return t.Field(call, "constructor")
	default:
		return NoNode
	}
}

// MemberPath renders a chain of identifiers and dotted member accesses such
// as module.exports.options. Anything else yields false.
func (t *Tree) MemberPath(id NodeID) (string, bool) {
	id = t.Unwrap(id)

	switch t.Kind(id) {
	case KindIdentifier, KindThis:
		return t.Text(id), true
	case KindMemberExpression:
		object, ok := t.MemberPath(t.Field(id, "object"))
		if !ok {
			return "", false
		}

		property, ok := t.Name(t.Field(id, "property"))
		if !ok {
			return "", false
		}

		return object + "." + property, true
	default:
		return "", false
	}
}

// MemberParts splits a member expression into the name of its object and its
// property when both are plain names.
func (t *Tree) MemberParts(id NodeID) (string, string, bool) {
	id = t.Unwrap(id)
	if t.Kind(id) != KindMemberExpression {
		return "", "", false
	}

	object, ok := t.Name(t.Unwrap(t.Field(id, "object")))
	if !ok {
		return "", "", false
	}

	property, ok := t.Name(t.Field(id, "property"))
	if !ok {
		return "", "", false
	}

	return object, property, true
}

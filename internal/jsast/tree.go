package jsast

import (
	"errors"
	"fmt"
)

// NodeID addresses a node inside its Tree.
type NodeID int32

// NoNode is the NodeID of an absent node.
const NoNode NodeID = -1

// ErrUnknownNode is returned when a builder is asked to attach to a node that
// does not exist.
var ErrUnknownNode = errors.New("unknown node")

// Position is a 1-based line/column pair.
type Position struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Node is one arena element. Children lists only named grammar nodes; the
// anonymous tokens that matter (keywords such as "default" and operators) are
// kept in Tokens and Operator.
type Node struct {
	Kind      Kind
	Type      string
	Start     Position
	End       Position
	StartByte uint32
	EndByte   uint32
	Operator  string
	Tokens    []string
	Children  []NodeID
	Fields    []string
}

// Tree is an immutable arena of nodes with a separately held parent table.
// The root is always NodeID 0.
type Tree struct {
	Path    string
	src     []byte
	nodes   []Node
	parents []NodeID
}

// Builder assembles a Tree top-down. Parents must be added before children.
type Builder struct {
	tree *Tree
}

// NewBuilder starts a tree over src.
func NewBuilder(path string, src []byte) *Builder {
	return &Builder{tree: &Tree{Path: path, src: src}}
}

// Add appends node n under parent (NoNode for the root) and records the
// grammar field name the child is bound to, if any.
func (b *Builder) Add(parent NodeID, field string, n Node) (NodeID, error) {
	id := NodeID(len(b.tree.nodes))

	if parent != NoNode {
		if int(parent) >= len(b.tree.nodes) || parent < 0 {
			return NoNode, fmt.Errorf("attach to %d: %w", parent, ErrUnknownNode)
		}

		p := &b.tree.nodes[parent]
		p.Children = append(p.Children, id)
		p.Fields = append(p.Fields, field)
	}

	n.Children = nil
	n.Fields = nil
	b.tree.nodes = append(b.tree.nodes, n)
	b.tree.parents = append(b.tree.parents, parent)

	return id, nil
}

// AddToken records an anonymous token (keyword or operator) on id. A token
// bound to the operator field also becomes the node's Operator.
func (b *Builder) AddToken(id NodeID, field, token string) {
	if id < 0 || int(id) >= len(b.tree.nodes) {
		return
	}

	n := &b.tree.nodes[id]
	n.Tokens = append(n.Tokens, token)

	if field == "operator" {
		n.Operator = token
	}
}

// Build returns the finished tree. The builder must not be used afterwards.
func (b *Builder) Build() *Tree {
	t := b.tree
	b.tree = nil

	return t
}

// Root returns the root node id.
func (t *Tree) Root() NodeID {
	if len(t.nodes) == 0 {
		return NoNode
	}

	return 0
}

// Len returns the number of nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Source returns the text the tree was built from.
func (t *Tree) Source() []byte {
	return t.src
}

// Node returns the node for id. It panics on an invalid id, like a slice
// index would.
func (t *Tree) Node(id NodeID) *Node {
	return &t.nodes[id]
}

// Kind returns the kind of id, or KindOther for NoNode.
func (t *Tree) Kind(id NodeID) Kind {
	if id == NoNode {
		return KindOther
	}

	return t.nodes[id].Kind
}

// Is reports whether id exists and has kind k.
func (t *Tree) Is(id NodeID, k Kind) bool {
	return id != NoNode && t.nodes[id].Kind == k
}

// Parent returns the parent of id, or NoNode for the root.
func (t *Tree) Parent(id NodeID) NodeID {
	if id == NoNode {
		return NoNode
	}

	return t.parents[id]
}

// Children returns the named children of id.
func (t *Tree) Children(id NodeID) []NodeID {
	if id == NoNode {
		return nil
	}

	return t.nodes[id].Children
}

// Child returns the i-th named child of id.
func (t *Tree) Child(id NodeID, i int) NodeID {
	children := t.Children(id)
	if i < 0 || i >= len(children) {
		return NoNode
	}

	return children[i]
}

// Field returns the first child of id bound to the grammar field name.
func (t *Tree) Field(id NodeID, name string) NodeID {
	if id == NoNode {
		return NoNode
	}

	n := &t.nodes[id]
	for i, f := range n.Fields {
		if f == name {
			return n.Children[i]
		}
	}

	return NoNode
}

// FieldOf returns the field name id is bound to within its parent.
func (t *Tree) FieldOf(id NodeID) string {
	parent := t.Parent(id)
	if parent == NoNode {
		return ""
	}

	n := &t.nodes[parent]
	for i, c := range n.Children {
		if c == id {
			return n.Fields[i]
		}
	}

	return ""
}

// HasToken reports whether id carries the anonymous token tok.
func (t *Tree) HasToken(id NodeID, tok string) bool {
	if id == NoNode {
		return false
	}

	for _, token := range t.nodes[id].Tokens {
		if token == tok {
			return true
		}
	}

	return false
}

// Text returns the source text covered by id.
func (t *Tree) Text(id NodeID) string {
	if id == NoNode {
		return ""
	}

	n := &t.nodes[id]
	if int(n.EndByte) > len(t.src) || n.StartByte > n.EndByte {
		return ""
	}

	return string(t.src[n.StartByte:n.EndByte])
}

// Pos returns the start position of id.
func (t *Tree) Pos(id NodeID) Position {
	if id == NoNode {
		return Position{}
	}

	return t.nodes[id].Start
}

// Ancestors calls fn for every ancestor of id, nearest first, until fn
// returns false.
func (t *Tree) Ancestors(id NodeID, fn func(NodeID) bool) {
	for p := t.Parent(id); p != NoNode; p = t.Parent(p) {
		if !fn(p) {
			return
		}
	}
}

// Unwrap strips parentheses, await and type assertions around an expression.
func (t *Tree) Unwrap(id NodeID) NodeID {
	for id != NoNode && t.Kind(id).IsTransparent() {
		id = t.Child(id, 0)
	}

	return id
}

// Consumer returns the nearest ancestor of id that is not a transparent
// wrapper, along with the direct child of that ancestor on the path to id.
func (t *Tree) Consumer(id NodeID) (NodeID, NodeID) {
	child := id
	for p := t.Parent(id); p != NoNode; p = t.Parent(p) {
		if !t.Kind(p).IsTransparent() {
			return p, child
		}

		child = p
	}

	return NoNode, child
}

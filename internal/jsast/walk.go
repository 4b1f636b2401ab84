package jsast

// Visitor receives enter/exit events from Walk. Returning false from Enter
// skips the node's children; Exit is still called for it.
type Visitor interface {
	Enter(t *Tree, id NodeID) bool
	Exit(t *Tree, id NodeID)
}

// Walk performs a depth-first traversal of the subtree rooted at id, visiting
// children in source order.
func Walk(t *Tree, id NodeID, v Visitor) {
	if id == NoNode {
		return
	}

	type frame struct {
		id   NodeID
		next int
	}

	if !v.Enter(t, id) {
		v.Exit(t, id)
		return
	}

	stack := []frame{{id: id}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]

		children := t.Children(top.id)
		if top.next >= len(children) {
			v.Exit(t, top.id)
			stack = stack[:len(stack)-1]

			continue
		}

		child := children[top.next]
		top.next++

		if v.Enter(t, child) {
			stack = append(stack, frame{id: child})
		} else {
			v.Exit(t, child)
		}
	}
}

type inspector func(NodeID) bool

func (f inspector) Enter(_ *Tree, id NodeID) bool { return f(id) }
func (f inspector) Exit(*Tree, NodeID)            {}

// Inspect visits the subtree rooted at id in pre-order. Returning false from
// fn skips the node's children.
func Inspect(t *Tree, id NodeID, fn func(NodeID) bool) {
	Walk(t, id, inspector(fn))
}

package tui

// NodeExpansion is one tree node's expansion state machine.
//
// A drag anywhere in the tree forces the node collapsed so drop zones stay
// small and unambiguous. When the drag ends the node expands again only if it
// is the active node; other nodes stay collapsed. Under the starred lens both
// automatic transitions are suppressed: the lens also suppresses active-node
// tracking, and letting the drag collapse fire there would flicker against
// that.
type NodeExpansion struct {
	Expanded    bool
	Active      bool
	StarredLens bool
}

// NewNodeExpansion returns the initial state: expanded iff active.
func NewNodeExpansion(active bool) NodeExpansion {
	return NodeExpansion{Expanded: active, Active: active}
}

// Toggle flips the state. Explicit user action always wins.
func (e *NodeExpansion) Toggle() {
	if e == nil {
		return
	}
	e.Expanded = !e.Expanded
}

// DragChanged applies the global drag signal transition.
func (e *NodeExpansion) DragChanged(active bool) {
	if e == nil || e.StarredLens {
		return
	}
	if active {
		e.Expanded = false
		return
	}
	e.Expanded = e.Active
}

// Showing reports whether the node's children are visible.
func (e NodeExpansion) Showing() bool {
	return e.Expanded
}

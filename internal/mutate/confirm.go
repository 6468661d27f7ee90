package mutate

import "canopy/internal/drag"

// ConfirmGate holds at most one move awaiting the user's confirmation. A new
// request while one is pending is refused; the caller keeps its gesture state
// until the user answers.
type ConfirmGate struct {
	pending bool
	intent  MoveIntent
	payload drag.Payload
}

// Request parks a boundary-crossing move. Returns false when another request
// is already pending.
func (g *ConfirmGate) Request(intent MoveIntent, payload drag.Payload) bool {
	if g == nil || g.pending {
		return false
	}
	g.pending = true
	g.intent = intent
	g.payload = payload
	return true
}

func (g *ConfirmGate) Pending() bool {
	return g != nil && g.pending
}

// Peek returns the pending move without consuming it, for rendering the
// confirmation prompt.
func (g *ConfirmGate) Peek() (MoveIntent, drag.Payload, bool) {
	if !g.Pending() {
		return MoveIntent{}, drag.Payload{}, false
	}
	return g.intent, g.payload, true
}

// Confirm consumes the pending move for execution.
func (g *ConfirmGate) Confirm() (MoveIntent, drag.Payload, bool) {
	if !g.Pending() {
		return MoveIntent{}, drag.Payload{}, false
	}
	intent, payload := g.intent, g.payload
	g.clear()
	return intent, payload, true
}

// Cancel discards the pending move. The store was never touched, so there is
// nothing to roll back.
func (g *ConfirmGate) Cancel() {
	if g == nil {
		return
	}
	g.clear()
}

func (g *ConfirmGate) clear() {
	g.pending = false
	g.intent = MoveIntent{}
	g.payload = drag.Payload{}
}

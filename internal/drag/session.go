package drag

import "strings"

// Session is the global signal that a drag is in flight. Exactly one gesture
// can be active at a time; starting a new one replaces any stale leftovers.
//
// Hovering is shallow: zones form a stack as the pointer enters nested rows,
// and only the top of the stack (the innermost zone) counts as hovered. The
// drop claim is first-wins: the innermost zone that handles the drop claims
// it, and every enclosing zone sees the gesture as already claimed.
type Session struct {
	active  bool
	payload Payload
	hover   []Zone
	claimed bool
}

// Begin starts a gesture for the given payload, discarding any prior state.
func (s *Session) Begin(p Payload) {
	s.active = true
	s.payload = p
	s.hover = nil
	s.claimed = false
}

func (s *Session) Active() bool {
	return s != nil && s.active
}

// Payload returns the immutable snapshot captured at gesture start.
func (s *Session) Payload() Payload {
	if s == nil {
		return Payload{}
	}
	return s.payload
}

// IsSource reports whether the given document is the one being dragged.
func (s *Session) IsSource(documentID string) bool {
	if !s.Active() {
		return false
	}
	return s.payload.DocumentID == strings.TrimSpace(documentID)
}

// HoverEnter pushes a zone onto the hover stack. Re-entering a zone already
// on the stack hoists it to the top instead of duplicating it.
func (s *Session) HoverEnter(z Zone) {
	if !s.Active() {
		return
	}
	s.hoverRemove(z.ID)
	s.hover = append(s.hover, z)
}

// HoverLeave removes a zone from the stack wherever it sits. Out-of-order
// leave events (parent before child) must not orphan deeper zones.
func (s *Session) HoverLeave(zoneID string) {
	if !s.Active() {
		return
	}
	s.hoverRemove(zoneID)
}

func (s *Session) hoverRemove(zoneID string) {
	zoneID = strings.TrimSpace(zoneID)
	out := s.hover[:0]
	for _, z := range s.hover {
		if z.ID == zoneID {
			continue
		}
		out = append(out, z)
	}
	s.hover = out
}

// HoveredZone returns the innermost hovered zone, if any. Outer zones are
// suppressed so only one drop indicator shows at a time.
func (s *Session) HoveredZone() (Zone, bool) {
	if !s.Active() || len(s.hover) == 0 {
		return Zone{}, false
	}
	return s.hover[len(s.hover)-1], true
}

// Claim marks the drop as handled. The first caller wins; later callers get
// false and must treat the drop as already consumed.
func (s *Session) Claim() bool {
	if !s.Active() || s.claimed {
		return false
	}
	s.claimed = true
	return true
}

func (s *Session) Claimed() bool {
	return s != nil && s.claimed
}

// End clears the gesture. Safe to call redundantly.
func (s *Session) End() {
	if s == nil {
		return
	}
	s.active = false
	s.payload = Payload{}
	s.hover = nil
	s.claimed = false
}

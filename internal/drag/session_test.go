package drag

import (
	"testing"

	"canopy/internal/model"
	"canopy/internal/store"
)

func TestSession_ClaimIsFirstWins(t *testing.T) {
	var s Session
	s.Begin(Payload{DocumentID: "doc-1"})

	if !s.Claim() {
		t.Fatalf("innermost zone should win the claim")
	}
	if s.Claim() {
		t.Fatalf("outer zones must see the drop as already claimed")
	}
	if !s.Claimed() {
		t.Fatalf("session should report claimed")
	}

	s.End()
	if s.Active() || s.Claimed() {
		t.Fatalf("End should clear all gesture state")
	}
}

func TestSession_HoverIsShallow(t *testing.T) {
	var s Session
	s.Begin(Payload{DocumentID: "doc-1"})

	outer := Zone{ID: "zone-outer"}
	inner := Zone{ID: "zone-inner"}

	s.HoverEnter(outer)
	s.HoverEnter(inner)

	z, ok := s.HoveredZone()
	if !ok || z.ID != "zone-inner" {
		t.Fatalf("innermost zone should be hovered; got %+v ok=%v", z, ok)
	}

	// Out-of-order leave: outer leaves first, inner stays hovered.
	s.HoverLeave("zone-outer")
	z, ok = s.HoveredZone()
	if !ok || z.ID != "zone-inner" {
		t.Fatalf("inner zone should survive outer leave; got %+v ok=%v", z, ok)
	}

	s.HoverLeave("zone-inner")
	if _, ok := s.HoveredZone(); ok {
		t.Fatalf("no zone should be hovered after both leave")
	}
}

func TestSession_BeginResetsStaleState(t *testing.T) {
	var s Session
	s.Begin(Payload{DocumentID: "doc-1"})
	s.HoverEnter(Zone{ID: "zone-1"})
	s.Claim()

	s.Begin(Payload{DocumentID: "doc-2"})
	if s.Claimed() {
		t.Fatalf("new gesture must not inherit the old claim")
	}
	if _, ok := s.HoveredZone(); ok {
		t.Fatalf("new gesture must not inherit old hover state")
	}
	if !s.IsSource("doc-2") || s.IsSource("doc-1") {
		t.Fatalf("source should follow the new payload")
	}
}

func TestCapturePayload_IndexAmongKeyOrderedSiblings(t *testing.T) {
	db := &store.DB{
		Collections: []model.Collection{{ID: "col-1"}},
		Documents: []model.Document{
			{ID: "a", CollectionID: "col-1", OrderKey: "a0"},
			{ID: "b", CollectionID: "col-1", OrderKey: "a2"},
			{ID: "c", CollectionID: "col-1", OrderKey: "a4"},
		},
	}

	p, err := CapturePayload(db, "b")
	if err != nil {
		t.Fatalf("CapturePayload: %v", err)
	}
	if p.Index != 1 {
		t.Fatalf("expected index 1 for b; got %d", p.Index)
	}
	if p.OrderKey != "a2" || p.CollectionID != "col-1" || p.ParentID != nil {
		t.Fatalf("payload coordinates wrong: %+v", p)
	}
}

func TestAccepts_RejectsOwnSubtree(t *testing.T) {
	rw := model.AccessReadWrite
	parent := "a"
	child := "b"
	db := &store.DB{
		CurrentUserID: "user-1",
		Collections:   []model.Collection{{ID: "col-1", DefaultAccess: &rw}},
		Documents: []model.Document{
			{ID: "a", CollectionID: "col-1", OrderKey: "a0"},
			{ID: "b", CollectionID: "col-1", ParentID: &parent, OrderKey: "a0"},
			{ID: "c", CollectionID: "col-1", ParentID: &child, OrderKey: "a0"},
		},
	}

	p, err := CapturePayload(db, "a")
	if err != nil {
		t.Fatalf("CapturePayload: %v", err)
	}

	onSelf := Zone{ID: "z1", Kind: ZoneFirstChild, CollectionID: "col-1", ParentID: &parent}
	if Accepts(db, "user-1", p, onSelf) {
		t.Fatalf("dropping a document into itself must be rejected")
	}
	inGrandchild := Zone{ID: "z2", Kind: ZoneBody, CollectionID: "col-1", ParentID: &child}
	if Accepts(db, "user-1", p, inGrandchild) {
		t.Fatalf("dropping into a descendant must be rejected")
	}
	atRoot := Zone{ID: "z3", Kind: ZoneSibling, CollectionID: "col-1"}
	if !Accepts(db, "user-1", p, atRoot) {
		t.Fatalf("root sibling zone should accept")
	}
}

func TestAccepts_PermissionGated(t *testing.T) {
	ro := model.AccessRead
	rw := model.AccessReadWrite
	db := &store.DB{
		Collections: []model.Collection{
			{ID: "col-open", DefaultAccess: &rw},
			{ID: "col-readonly", DefaultAccess: &ro},
		},
		Documents: []model.Document{
			{ID: "a", CollectionID: "col-open", OrderKey: "a0"},
		},
	}

	p, err := CapturePayload(db, "a")
	if err != nil {
		t.Fatalf("CapturePayload: %v", err)
	}

	intoReadOnly := Zone{ID: "z1", Kind: ZoneSibling, CollectionID: "col-readonly"}
	if Accepts(db, "user-1", p, intoReadOnly) {
		t.Fatalf("zone in a read-only collection must not accept")
	}
	withinOpen := Zone{ID: "z2", Kind: ZoneSibling, CollectionID: "col-open"}
	if !Accepts(db, "user-1", p, withinOpen) {
		t.Fatalf("zone in a writable collection should accept")
	}
}

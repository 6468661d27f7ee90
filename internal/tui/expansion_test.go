package tui

import (
	"testing"

	"canopy/internal/model"
	"canopy/internal/store"
)

func TestNodeExpansion_InitialState(t *testing.T) {
	e := NewNodeExpansion(true)
	if !e.Showing() {
		t.Fatalf("active node should start expanded")
	}
	e = NewNodeExpansion(false)
	if e.Showing() {
		t.Fatalf("inactive node should start collapsed")
	}
}

func TestNodeExpansion_DragCollapsesAndFollowsActive(t *testing.T) {
	active := NodeExpansion{Expanded: true, Active: true}
	other := NodeExpansion{Expanded: true, Active: false}

	active.DragChanged(true)
	other.DragChanged(true)
	if active.Showing() || other.Showing() {
		t.Fatalf("drag should hide children on every node")
	}

	active.DragChanged(false)
	other.DragChanged(false)
	if !active.Showing() {
		t.Fatalf("active node should expand again after the drag")
	}
	if other.Showing() {
		t.Fatalf("non-active node should stay collapsed after the drag")
	}
}

func TestNodeExpansion_StarredLensSuppressesDragTransitions(t *testing.T) {
	e := NodeExpansion{Expanded: true, StarredLens: true}
	e.DragChanged(true)
	if !e.Showing() {
		t.Fatalf("starred lens should keep children visible during drag")
	}

	e = NodeExpansion{Expanded: false, Active: true, StarredLens: true}
	e.DragChanged(false)
	if e.Showing() {
		t.Fatalf("starred lens should suppress the drag-end expand as well")
	}
}

func TestNodeExpansion_ToggleWinsOverDragEnd(t *testing.T) {
	e := NodeExpansion{Expanded: false, Active: false}
	e.DragChanged(false)
	if e.Showing() {
		t.Fatalf("drag end should leave a non-active node collapsed")
	}
	e.Toggle()
	if !e.Showing() {
		t.Fatalf("explicit toggle should expand the node")
	}
}

func TestFlattenTree_DragHidesNestedRows(t *testing.T) {
	parentA := "a"
	db := &store.DB{
		Collections: []model.Collection{{ID: "col-1", Name: "Notes"}},
		Documents: []model.Document{
			{ID: "a", CollectionID: "col-1", Title: "A", OrderKey: "a0"},
			{ID: "a1", CollectionID: "col-1", ParentID: &parentA, Title: "A1", OrderKey: "a0"},
			{ID: "b", CollectionID: "col-1", Title: "B", OrderKey: "a2"},
		},
	}
	c, _ := db.FindCollection("col-1")
	expanded := map[string]bool{"a": true}

	rows := flattenTree(db, c, expanded, false, false, nil)
	if len(rows) != 3 {
		t.Fatalf("expected 3 visible rows before drag, got %d", len(rows))
	}

	rows = flattenTree(db, c, expanded, true, false, nil)
	if len(rows) != 2 {
		t.Fatalf("drag should collapse a's children, got %d rows", len(rows))
	}
	for _, r := range rows {
		if r.doc.ID == "a1" {
			t.Fatalf("nested row should be hidden during drag")
		}
	}

	rows = flattenTree(db, c, expanded, false, false, nil)
	if len(rows) != 3 {
		t.Fatalf("rows should be restored after drag, got %d", len(rows))
	}
}

func TestFlattenTree_DraftSplicesIntoScope(t *testing.T) {
	db := &store.DB{
		Collections: []model.Collection{{ID: "col-1", Name: "Notes"}},
		Documents: []model.Document{
			{ID: "a", CollectionID: "col-1", Title: "A", OrderKey: "a0"},
			{ID: "b", CollectionID: "col-1", Title: "B", OrderKey: "a2"},
			{ID: "c", CollectionID: "col-1", Title: "C", OrderKey: "a4"},
		},
	}
	db.ActiveDocumentID = "c"
	c, _ := db.FindCollection("col-1")

	doc, _ := db.FindDocument("c")
	rows := flattenTree(db, c, map[string]bool{}, true, false,
		&MoveDraft{Document: *doc, Index: 0})
	if len(rows) != 3 || rows[0].doc.ID != "c" {
		t.Fatalf("draft should show c first, got %+v", rowIDs(rows))
	}
}

func TestFlattenTree_ProvisionalRowRendersFlat(t *testing.T) {
	parentB := "b"
	db := &store.DB{
		Collections: []model.Collection{{ID: "col-1", Name: "Notes"}},
		Documents: []model.Document{
			{ID: "a", CollectionID: "col-1", Title: "A", OrderKey: "a0"},
			{ID: "b", CollectionID: "col-1", Title: "B", OrderKey: "a2"},
			{ID: "b1", CollectionID: "col-1", ParentID: &parentB, Title: "B1", OrderKey: "a0"},
		},
	}
	db.ActiveDocumentID = "b"
	c, _ := db.FindCollection("col-1")
	expanded := map[string]bool{"b": true}

	// While b is being placed its subtree stays hidden, even though it is
	// marked expanded.
	doc, _ := db.FindDocument("b")
	rows := flattenTree(db, c, expanded, false, false,
		&MoveDraft{Document: *doc, Index: 0})
	if len(rows) != 2 || rows[0].doc.ID != "b" {
		t.Fatalf("expected provisional b first with no subtree, got %v", rowIDs(rows))
	}
	for _, r := range rows {
		if r.doc.ID == "b1" {
			t.Fatalf("provisional row must not show its children")
		}
	}
}

func rowIDs(rows []treeRow) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.doc.ID)
	}
	return out
}

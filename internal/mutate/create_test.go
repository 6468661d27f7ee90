package mutate

import (
	"strings"
	"testing"
	"time"

	"canopy/internal/model"
	"canopy/internal/store"
)

func createTestDB() *store.DB {
	return &store.DB{
		CurrentUserID: "user-1",
		Collections: []model.Collection{
			{ID: "col-1", Name: "Notes"},
			{ID: "col-2", Name: "Archive"},
		},
		Documents: []model.Document{
			{ID: "doc-a", CollectionID: "col-1", Title: "A", OrderKey: "a0"},
			{ID: "doc-b", CollectionID: "col-1", Title: "B", OrderKey: "a2"},
		},
	}
}

func TestCreateDocument_AppendsAtRoot(t *testing.T) {
	db := createTestDB()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	doc, err := CreateDocument(db, "col-1", nil, "  C  ", "body", now)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !strings.HasPrefix(doc.ID, "doc-") {
		t.Fatalf("expected a doc- id, got %q", doc.ID)
	}
	if doc.Title != "C" {
		t.Fatalf("title should be trimmed, got %q", doc.Title)
	}
	if doc.CreatedBy != "user-1" || !doc.CreatedAt.Equal(now) {
		t.Fatalf("authorship not recorded: %+v", doc)
	}
	if doc.OrderKey <= "a2" {
		t.Fatalf("new document should sort after existing siblings, got key %q", doc.OrderKey)
	}
	if _, ok := db.FindDocument(doc.ID); !ok {
		t.Fatalf("created document not findable")
	}
}

func TestCreateDocument_NestsUnderParent(t *testing.T) {
	db := createTestDB()
	now := time.Now().UTC()
	parent := "doc-a"

	doc, err := CreateDocument(db, "col-1", &parent, "Child", "", now)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if doc.ParentID == nil || *doc.ParentID != "doc-a" {
		t.Fatalf("expected parent doc-a, got %v", doc.ParentID)
	}
	kids := db.ChildrenOf("doc-a")
	if len(kids) != 1 || kids[0].ID != doc.ID {
		t.Fatalf("child not indexed under parent: %v", kids)
	}

	// A second child appends after the first.
	doc2, err := CreateDocument(db, "col-1", &parent, "Child 2", "", now)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !(doc2.OrderKey > doc.OrderKey) {
		t.Fatalf("second child should sort after the first: %q vs %q", doc2.OrderKey, doc.OrderKey)
	}
}

func TestCreateDocument_Validation(t *testing.T) {
	db := createTestDB()
	now := time.Now().UTC()

	if _, err := CreateDocument(db, "col-missing", nil, "X", "", now); err == nil {
		t.Fatalf("unknown collection should fail")
	}
	if _, err := CreateDocument(db, "col-1", nil, "   ", "", now); err == nil {
		t.Fatalf("blank title should fail")
	}
	missing := "doc-missing"
	if _, err := CreateDocument(db, "col-1", &missing, "X", "", now); err == nil {
		t.Fatalf("unknown parent should fail")
	}
	other := "doc-a"
	if _, err := CreateDocument(db, "col-2", &other, "X", "", now); err == nil {
		t.Fatalf("parent from another collection should fail")
	}
	if len(db.Documents) != 2 {
		t.Fatalf("failed creates must not leave documents behind, got %d", len(db.Documents))
	}
}

func TestCreateDocument_FreshIDs(t *testing.T) {
	db := createTestDB()
	now := time.Now().UTC()

	seen := map[string]bool{"doc-a": true, "doc-b": true}
	for i := 0; i < 8; i++ {
		doc, err := CreateDocument(db, "col-1", nil, "Note", "", now)
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if seen[doc.ID] {
			t.Fatalf("duplicate id %q", doc.ID)
		}
		seen[doc.ID] = true
	}
}

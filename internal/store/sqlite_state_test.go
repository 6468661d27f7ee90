package store

import (
	"context"
	"os"
	"testing"
	"time"

	"canopy/internal/model"
)

func TestSQLiteState_SaveLoadRoundtrip(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	ctx := context.Background()

	access := model.AccessReadWrite
	parent := "doc-parent"
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	in := &DB{
		Version:          1,
		CurrentUserID:    "user-1",
		ActiveDocumentID: "doc-child",
		NextIDs:          map[string]int{"doc": 3},
		Collections: []model.Collection{
			{ID: "col-open", Name: "Open", OrderKey: "a0", DefaultAccess: &access, CreatedAt: now, UpdatedAt: now},
			{ID: "col-private", Name: "Private", OrderKey: "a1", CreatedAt: now, UpdatedAt: now},
		},
		Documents: []model.Document{
			{ID: "doc-parent", CollectionID: "col-open", Title: "Parent", OrderKey: "a0", CreatedAt: now, UpdatedAt: now},
			{ID: "doc-child", CollectionID: "col-open", ParentID: &parent, Title: "Child", OrderKey: "a0", Starred: true, CreatedAt: now, UpdatedAt: now},
		},
		Memberships: []model.Membership{
			{CollectionID: "col-private", UserID: "user-1", Access: model.AccessReadWrite, CreatedAt: now},
		},
	}

	if err := s.SaveSQLite(ctx, in); err != nil {
		t.Fatalf("SaveSQLite: %v", err)
	}
	out, err := s.LoadSQLite(ctx)
	if err != nil {
		t.Fatalf("LoadSQLite: %v", err)
	}

	if out.CurrentUserID != "user-1" || out.ActiveDocumentID != "doc-child" {
		t.Fatalf("meta roundtrip: got user=%q active=%q", out.CurrentUserID, out.ActiveDocumentID)
	}
	if out.NextIDs["doc"] != 3 {
		t.Fatalf("next ids roundtrip: got %v", out.NextIDs)
	}
	if len(out.Collections) != 2 || len(out.Documents) != 2 || len(out.Memberships) != 1 {
		t.Fatalf("row counts: %d collections, %d documents, %d memberships",
			len(out.Collections), len(out.Documents), len(out.Memberships))
	}

	open, ok := out.FindCollection("col-open")
	if !ok || open.DefaultAccess == nil || *open.DefaultAccess != model.AccessReadWrite {
		t.Fatalf("col-open default access lost: %+v", open)
	}
	private, ok := out.FindCollection("col-private")
	if !ok || private.DefaultAccess != nil {
		t.Fatalf("col-private should have nil default access: %+v", private)
	}

	child, ok := out.FindDocument("doc-child")
	if !ok {
		t.Fatalf("doc-child missing after load")
	}
	if child.ParentID == nil || *child.ParentID != "doc-parent" {
		t.Fatalf("child parent lost: %+v", child.ParentID)
	}
	if !child.Starred {
		t.Fatalf("child starred flag lost")
	}
}

func TestSQLiteState_FreshDirLoadsEmpty(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	db, err := s.LoadSQLite(context.Background())
	if err != nil {
		t.Fatalf("LoadSQLite on fresh dir: %v", err)
	}
	if db == nil {
		t.Fatalf("expected non-nil db")
	}
	if len(db.Collections) != 0 || len(db.Documents) != 0 {
		t.Fatalf("fresh db should be empty: %+v", db)
	}
	if db.NextIDs == nil {
		t.Fatalf("fresh db should have non-nil NextIDs")
	}
}

func TestUIState_CorruptFileYieldsFresh(t *testing.T) {
	s := Store{Dir: t.TempDir()}

	st := s.LoadUIState()
	st.StarredLens = true
	st.Expanded["doc-1"] = true
	if err := s.SaveUIState(st); err != nil {
		t.Fatalf("SaveUIState: %v", err)
	}
	got := s.LoadUIState()
	if !got.StarredLens || !got.Expanded["doc-1"] {
		t.Fatalf("ui state roundtrip lost data: %+v", got)
	}

	// Overwrite with garbage; load must hand back a usable fresh state.
	if err := os.WriteFile(s.uiStatePath(), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write garbage: %v", err)
	}
	got = s.LoadUIState()
	if got.StarredLens || len(got.Expanded) != 0 {
		t.Fatalf("corrupt ui state should reset: %+v", got)
	}
}

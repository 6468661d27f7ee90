package mcptools

import (
	"context"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"canopy/internal/model"
	"canopy/internal/store"
)

func writeTestWorkspace(t *testing.T) Workspace {
	t.Helper()
	ro := model.AccessRead
	rw := model.AccessReadWrite
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	db := &store.DB{
		Version:       1,
		CurrentUserID: "user-1",
		Collections: []model.Collection{
			{ID: "col-ro", Name: "ReadOnly", OrderKey: "a0", DefaultAccess: &ro, CreatedAt: now},
			{ID: "col-open", Name: "Open", OrderKey: "a1", DefaultAccess: &rw, CreatedAt: now},
		},
		Documents: []model.Document{
			{ID: "doc-1", CollectionID: "col-ro", Title: "One", OrderKey: "a0", CreatedAt: now},
			{ID: "doc-2", CollectionID: "col-open", Title: "Two", OrderKey: "a0", CreatedAt: now},
			{ID: "doc-3", CollectionID: "col-open", Title: "Three", OrderKey: "a2", CreatedAt: now},
		},
	}
	s := store.Store{Dir: t.TempDir()}
	if err := s.SaveSQLite(context.Background(), db); err != nil {
		t.Fatalf("SaveSQLite: %v", err)
	}
	return Workspace{Store: s}
}

func callMove(t *testing.T, ws Workspace, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Name = "move_document"
	req.Params.Arguments = args
	res, err := moveDocumentHandler(ws)(context.Background(), req)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	return res
}

func callCreate(t *testing.T, ws Workspace, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Name = "create_document"
	req.Params.Arguments = args
	res, err := createDocumentHandler(ws)(context.Background(), req)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	return res
}

func TestCreateDocument_AppendsToCollection(t *testing.T) {
	ws := writeTestWorkspace(t)

	res := callCreate(t, ws, map[string]any{
		"collection_id": "col-open",
		"title":         "Four",
		"text":          "body",
	})
	if res.IsError {
		t.Fatalf("unexpected tool error: %+v", res)
	}

	db, err := ws.Store.LoadSQLite(context.Background())
	if err != nil {
		t.Fatalf("LoadSQLite: %v", err)
	}
	roots := db.RootDocuments("col-open")
	if len(roots) != 3 {
		t.Fatalf("expected 3 documents in col-open, got %d", len(roots))
	}
	var created *model.Document
	for i := range roots {
		if roots[i].Title == "Four" {
			created = &roots[i]
		}
	}
	if created == nil {
		t.Fatalf("created document not found among roots: %+v", roots)
	}
	if created.Text != "body" || created.CreatedBy != "user-1" {
		t.Fatalf("created document incomplete: %+v", created)
	}
	d3, _ := db.FindDocument("doc-3")
	if !(created.OrderKey > d3.OrderKey) {
		t.Fatalf("new document should sort last: %q vs %q", created.OrderKey, d3.OrderKey)
	}
}

func TestCreateDocument_DeniedInReadOnlyCollection(t *testing.T) {
	ws := writeTestWorkspace(t)

	res := callCreate(t, ws, map[string]any{
		"collection_id": "col-ro",
		"title":         "Nope",
	})
	if !res.IsError {
		t.Fatalf("expected a permission error, got %+v", res)
	}

	db, err := ws.Store.LoadSQLite(context.Background())
	if err != nil {
		t.Fatalf("LoadSQLite: %v", err)
	}
	if got := len(db.RootDocuments("col-ro")); got != 1 {
		t.Fatalf("denied create must not change the store, got %d documents", got)
	}
}

func TestMoveDocument_DeniedWithoutMoveRights(t *testing.T) {
	ws := writeTestWorkspace(t)

	// doc-1 lives in a read-only collection, so user-1 has no Move rights
	// there no matter what the target grants.
	res := callMove(t, ws, map[string]any{
		"document_id":                   "doc-1",
		"collection_id":                 "col-open",
		"acknowledge_permission_change": true,
	})
	if !res.IsError {
		t.Fatalf("expected a permission error, got %+v", res)
	}

	db, err := ws.Store.LoadSQLite(context.Background())
	if err != nil {
		t.Fatalf("LoadSQLite: %v", err)
	}
	doc, _ := db.FindDocument("doc-1")
	if doc.CollectionID != "col-ro" {
		t.Fatalf("denied move must not change the store, got %q", doc.CollectionID)
	}
}

func TestMoveDocument_MovesWithRights(t *testing.T) {
	ws := writeTestWorkspace(t)

	res := callMove(t, ws, map[string]any{
		"document_id": "doc-3",
		"index":       float64(0),
	})
	if res.IsError {
		t.Fatalf("unexpected tool error: %+v", res)
	}

	db, err := ws.Store.LoadSQLite(context.Background())
	if err != nil {
		t.Fatalf("LoadSQLite: %v", err)
	}
	d2, _ := db.FindDocument("doc-2")
	d3, _ := db.FindDocument("doc-3")
	if !(d3.OrderKey < d2.OrderKey) {
		t.Fatalf("doc-3 should sort before doc-2: %q vs %q", d3.OrderKey, d2.OrderKey)
	}
}

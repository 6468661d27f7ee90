package mcptools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"canopy/internal/drag"
	"canopy/internal/mutate"
	"canopy/internal/perm"
)

// RegisterWriteTools adds the mutating tree tools to the MCP server.
func RegisterWriteTools(s *server.MCPServer, ws Workspace) {
	s.AddTool(createDocumentTool(), createDocumentHandler(ws))
	s.AddTool(moveDocumentTool(), moveDocumentHandler(ws))
}

func createDocumentTool() mcp.Tool {
	return mcp.NewTool("create_document",
		mcp.WithDescription("Create a document in a collection, appended after the last sibling."),
		mcp.WithString("collection_id",
			mcp.Description("Collection to create the document in"),
			mcp.Required(),
		),
		mcp.WithString("title",
			mcp.Description("Document title"),
			mcp.Required(),
		),
		mcp.WithString("parent_id",
			mcp.Description("Parent document. Omit for the collection root."),
		),
		mcp.WithString("text",
			mcp.Description("Initial markdown body"),
		),
	)
}

func createDocumentHandler(ws Workspace) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		db, err := ws.Store.LoadSQLite(ctx)
		if err != nil {
			return toolError(err)
		}

		collectionID := strings.TrimSpace(req.GetString("collection_id", ""))
		c, ok := db.FindCollection(collectionID)
		if !ok {
			return toolError(fmt.Errorf("collection not found: %s", collectionID))
		}
		if !perm.ForCollection(db, db.CurrentUserID, c).CreateDocument {
			return toolError(fmt.Errorf("not allowed to create documents in %q", c.Name))
		}

		var parent *string
		if pid := strings.TrimSpace(req.GetString("parent_id", "")); pid != "" {
			parent = &pid
		}

		doc, err := mutate.CreateDocument(db, c.ID, parent,
			req.GetString("title", ""), req.GetString("text", ""), time.Now().UTC())
		if err != nil {
			return toolError(err)
		}
		if err := ws.Store.SaveSQLite(ctx, db); err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("Created %s in %s.", doc.ID, c.Name)), nil
	}
}

func moveDocumentTool() mcp.Tool {
	return mcp.NewTool("move_document",
		mcp.WithDescription("Move a document to a new collection, parent, or position. Moves that change who can see the document are refused unless acknowledge_permission_change is true."),
		mcp.WithString("document_id",
			mcp.Description("Document to move"),
			mcp.Required(),
		),
		mcp.WithString("collection_id",
			mcp.Description("Target collection. Defaults to the document's current collection."),
		),
		mcp.WithString("parent_id",
			mcp.Description("Target parent document. Omit for the collection root."),
		),
		mcp.WithNumber("index",
			mcp.Description("Position among the target siblings (0-based). Omit to append at the end."),
		),
		mcp.WithBoolean("acknowledge_permission_change",
			mcp.Description("Set to true to confirm a move across a visibility boundary."),
		),
	)
}

func moveDocumentHandler(ws Workspace) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		documentID := strings.TrimSpace(req.GetString("document_id", ""))
		if documentID == "" {
			return toolError(fmt.Errorf("document_id is required"))
		}

		db, err := ws.Store.LoadSQLite(ctx)
		if err != nil {
			return toolError(err)
		}
		doc, ok := db.FindDocument(documentID)
		if !ok {
			return toolError(fmt.Errorf("document not found: %s", documentID))
		}

		collectionID := strings.TrimSpace(req.GetString("collection_id", ""))
		if collectionID == "" {
			collectionID = doc.CollectionID
		}
		target, ok := db.FindCollection(collectionID)
		if !ok {
			return toolError(fmt.Errorf("collection not found: %s", collectionID))
		}
		origin, ok := db.FindCollection(doc.CollectionID)
		if !ok {
			return toolError(fmt.Errorf("origin collection not found: %s", doc.CollectionID))
		}
		if !perm.CanMoveBetween(db, db.CurrentUserID, origin, target) {
			return toolError(fmt.Errorf("not allowed to move %s from %q to %q", doc.ID, origin.Name, target.Name))
		}

		intent := mutate.MoveIntent{
			DocumentID:   doc.ID,
			CollectionID: target.ID,
		}
		if pid := strings.TrimSpace(req.GetString("parent_id", "")); pid != "" {
			if _, ok := db.FindDocument(pid); !ok {
				return toolError(fmt.Errorf("parent document not found: %s", pid))
			}
			intent.ParentID = &pid
		}
		if idx := req.GetInt("index", -1); idx >= 0 {
			intent.Index = &idx
		}

		if perm.BoundaryCrossed(origin, target) && !req.GetBool("acknowledge_permission_change", false) {
			return toolError(fmt.Errorf(
				"moving %s from %q to %q changes who can see it; retry with acknowledge_permission_change=true",
				doc.ID, origin.Name, target.Name))
		}

		payload, err := drag.CapturePayload(db, doc.ID)
		if err != nil {
			return toolError(err)
		}

		exec := &mutate.Executor{
			DB:      db,
			Persist: mutate.PersistFunc(ws.Store.SaveSQLite),
			Now:     func() time.Time { return time.Now().UTC() },
		}
		changed, err := exec.Execute(ctx, intent, payload)
		if err != nil {
			return toolError(err)
		}
		if !changed {
			return mcp.NewToolResultText("No change: the document is already there."), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Moved %s to %s.", doc.ID, target.Name)), nil
	}
}

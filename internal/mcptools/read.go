// Package mcptools exposes the document tree over MCP so agents can inspect
// and rearrange it. Write tools go through the same resolver as the TUI, so
// permission boundaries need an explicit acknowledgement instead of a modal.
package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"canopy/internal/model"
	"canopy/internal/store"
)

// Workspace loads and saves the shared store for each tool call. Reloading
// per call keeps the MCP server consistent with concurrent TUI sessions.
type Workspace struct {
	Store store.Store
}

// RegisterReadTools adds the read-only tree tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, ws Workspace) {
	s.AddTool(listCollectionsTool(), listCollectionsHandler(ws))
	s.AddTool(treeTool(), treeHandler(ws))
}

func listCollectionsTool() mcp.Tool {
	return mcp.NewTool("list_collections",
		mcp.WithDescription("List collections with their id, default access, and document count."),
	)
}

func listCollectionsHandler(ws Workspace) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		db, err := ws.Store.LoadSQLite(ctx)
		if err != nil {
			return toolError(err)
		}

		cols := db.SortedCollections()
		if len(cols) == 0 {
			return mcp.NewToolResultText("No collections."), nil
		}

		counts := map[string]int{}
		for _, d := range db.Documents {
			if !d.Archived {
				counts[d.CollectionID]++
			}
		}

		var sb strings.Builder
		for _, c := range cols {
			access := "private"
			if c.DefaultAccess != nil {
				access = strings.TrimSpace(*c.DefaultAccess)
			}
			fmt.Fprintf(&sb, "%s  %s  (access: %s, documents: %d)\n", c.ID, c.Name, access, counts[c.ID])
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func treeTool() mcp.Tool {
	return mcp.NewTool("tree",
		mcp.WithDescription("Show a collection's document tree in display order."),
		mcp.WithString("collection_id",
			mcp.Description("Collection ID, e.g. col-x7k2m3pq"),
			mcp.Required(),
		),
	)
}

func treeHandler(ws Workspace) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		collectionID := strings.TrimSpace(req.GetString("collection_id", ""))
		if collectionID == "" {
			return toolError(fmt.Errorf("collection_id is required"))
		}

		db, err := ws.Store.LoadSQLite(ctx)
		if err != nil {
			return toolError(err)
		}
		c, ok := db.FindCollection(collectionID)
		if !ok {
			return toolError(fmt.Errorf("collection not found: %s", collectionID))
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "%s  %s\n", c.ID, c.Name)
		writeTree(&sb, db, c, nil, 1)
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func writeTree(sb *strings.Builder, db *store.DB, c *model.Collection, parentID *string, depth int) {
	var docs []model.Document
	if parentID == nil {
		docs = append(docs, db.RootDocuments(c.ID)...)
	} else {
		docs = append(docs, db.ChildrenOf(*parentID)...)
	}
	store.SortDocumentsBySpec(docs, c.Sort)
	for _, d := range docs {
		star := ""
		if d.Starred {
			star = " ★"
		}
		fmt.Fprintf(sb, "%s%s  %s%s\n", strings.Repeat("  ", depth), d.ID, d.Title, star)
		id := d.ID
		writeTree(sb, db, c, &id, depth+1)
	}
}

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

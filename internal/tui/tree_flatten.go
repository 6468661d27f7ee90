package tui

import (
	"strings"

	"canopy/internal/drag"
	"canopy/internal/model"
	"canopy/internal/store"
)

type treeRow struct {
	doc         model.Document
	parentID    *string
	depth       int
	hasChildren bool
	showing     bool
}

// flattenTree walks one collection's visible tree into rows. Expansion intent
// comes from expanded; the drag signal and lens feed the per-node expansion
// rules. The draft, when set, splices its document into the sibling set it
// belongs to without touching the store; the provisional row renders flat,
// with no subtree of its own.
func flattenTree(db *store.DB, c *model.Collection, expanded map[string]bool, dragActive, starredLens bool, draft *MoveDraft) []treeRow {
	if db == nil || c == nil {
		return nil
	}

	var out []treeRow
	var walk func(parentID *string, depth int)
	walk = func(parentID *string, depth int) {
		provisionalScope := draft.appliesTo(db, parentID)
		for _, doc := range OrderedChildren(db, c, parentID, draft) {
			exp := NodeExpansion{
				Expanded:    expanded[doc.ID],
				StarredLens: starredLens,
			}
			if dragActive {
				exp.DragChanged(true)
			}
			provisional := provisionalScope && doc.ID == strings.TrimSpace(draft.Document.ID)
			if provisional {
				exp.Expanded = false
			}
			kids := db.ChildrenOf(doc.ID)
			row := treeRow{
				doc:         doc,
				parentID:    parentID,
				depth:       depth,
				hasChildren: len(kids) > 0,
				showing:     exp.Showing(),
			}
			out = append(out, row)
			if row.hasChildren && row.showing {
				id := doc.ID
				walk(&id, depth+1)
			}
		}
	}
	walk(nil, 0)
	return out
}

// flattenStarred returns the starred lens rows: a flat list across
// collections, no nesting.
func flattenStarred(db *store.DB) []treeRow {
	if db == nil {
		return nil
	}
	var out []treeRow
	for _, doc := range db.StarredDocuments() {
		out = append(out, treeRow{doc: doc})
	}
	return out
}

// buildDropZones lists the drop targets for keyboard drags in visual order:
// a sibling zone before each row, a body zone on each row (append as last
// child), and a trailing root zone at the end.
func buildDropZones(c *model.Collection, rows []treeRow) []drag.Zone {
	if c == nil {
		return nil
	}
	var out []drag.Zone
	for _, r := range rows {
		out = append(out, drag.Zone{
			ID:               "before:" + r.doc.ID,
			Kind:             drag.ZoneSibling,
			CollectionID:     c.ID,
			ParentID:         r.parentID,
			BeforeDocumentID: r.doc.ID,
		})
		id := r.doc.ID
		out = append(out, drag.Zone{
			ID:           "into:" + r.doc.ID,
			Kind:         drag.ZoneBody,
			CollectionID: c.ID,
			ParentID:     &id,
		})
		if r.hasChildren {
			out = append(out, drag.Zone{
				ID:           "first:" + r.doc.ID,
				Kind:         drag.ZoneFirstChild,
				CollectionID: c.ID,
				ParentID:     &id,
			})
		}
	}
	out = append(out, drag.Zone{
		ID:           "end:" + c.ID,
		Kind:         drag.ZoneSibling,
		CollectionID: c.ID,
	})
	return out
}

func sameScope(a, b *string) bool {
	av := ""
	if a != nil {
		av = strings.TrimSpace(*a)
	}
	bv := ""
	if b != nil {
		bv = strings.TrimSpace(*b)
	}
	return av == bv
}

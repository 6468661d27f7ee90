package tui

import (
	"strings"

	"canopy/internal/model"
	"canopy/internal/store"
)

// MoveDraft is a provisional placement used while a change is still in
// flight: a move hovering over a drop zone, a boundary confirmation awaiting
// the user's answer, or a document being composed that has not been saved
// yet. The draft carries the document itself, so it needs no store row, and
// the store is never mutated for it.
type MoveDraft struct {
	Document model.Document
	// ParentID is the sibling scope the draft belongs to (nil = collection
	// roots). The draft only renders in that scope.
	ParentID *string
	// Index is the insertion position among the remaining children. Negative
	// or past-the-end values append. Ignored under automatic sorts.
	Index int
}

// appliesTo reports whether the draft renders in the given scope: it must
// belong to that parent and be the active document, so a stale draft for a
// node the user has moved on from never shadows the stored order.
func (d *MoveDraft) appliesTo(db *store.DB, parentID *string) bool {
	if d == nil || db == nil {
		return false
	}
	id := strings.TrimSpace(d.Document.ID)
	if id == "" {
		return false
	}
	if !sameScope(parentID, d.ParentID) {
		return false
	}
	return id == strings.TrimSpace(db.ActiveDocumentID)
}

// OrderedChildren returns the visible child list for a parent (nil parent
// means collection roots), with the draft spliced in at its position. The
// draft's document is removed from wherever the store has it first, so a
// within-parent draft shows the reorder rather than a duplicate.
func OrderedChildren(db *store.DB, c *model.Collection, parentID *string, draft *MoveDraft) []model.Document {
	if db == nil || c == nil {
		return nil
	}

	var docs []model.Document
	if parentID == nil || strings.TrimSpace(*parentID) == "" {
		docs = append(docs, db.RootDocuments(c.ID)...)
	} else {
		docs = append(docs, db.ChildrenOf(strings.TrimSpace(*parentID))...)
	}
	store.SortDocumentsBySpec(docs, c.Sort)

	if !draft.appliesTo(db, parentID) {
		return docs
	}

	draftID := strings.TrimSpace(draft.Document.ID)
	kept := docs[:0]
	for _, d := range docs {
		if d.ID == draftID {
			continue
		}
		kept = append(kept, d)
	}
	docs = kept

	// Under an automatic sort the draft's index is irrelevant: the document
	// joins the set and the sort decides where it lands.
	if !c.Sort.Manual() {
		merged := make([]model.Document, 0, len(docs)+1)
		merged = append(merged, docs...)
		merged = append(merged, draft.Document)
		store.SortDocumentsBySpec(merged, c.Sort)
		return merged
	}

	at := draft.Index
	if at < 0 || at > len(docs) {
		at = len(docs)
	}
	out := make([]model.Document, 0, len(docs)+1)
	out = append(out, docs[:at]...)
	out = append(out, draft.Document)
	out = append(out, docs[at:]...)
	return out
}

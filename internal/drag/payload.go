// Package drag tracks the lifecycle of a single move gesture: the immutable
// payload captured when the gesture starts, the hover zone stack while it is
// in flight, and the drop claim that guarantees at most one authoritative
// move per gesture.
package drag

import (
	"errors"
	"strings"

	"canopy/internal/store"
)

// Payload is a snapshot of the dragged document's coordinates at gesture
// start. It never changes during the gesture, so a later undo can replay the
// exact origin even after the store has moved on.
type Payload struct {
	DocumentID   string
	CollectionID string
	ParentID     *string
	OrderKey     string
	Index        int
}

// CapturePayload snapshots the document's current coordinates. Index is the
// document's position among its key-ordered siblings, which is what an
// index-based re-insert needs.
func CapturePayload(db *store.DB, documentID string) (Payload, error) {
	documentID = strings.TrimSpace(documentID)
	if db == nil {
		return Payload{}, errors.New("nil db")
	}
	doc, ok := db.FindDocument(documentID)
	if !ok {
		return Payload{}, errors.New("document not found: " + documentID)
	}

	p := Payload{
		DocumentID:   doc.ID,
		CollectionID: doc.CollectionID,
		OrderKey:     doc.OrderKey,
	}
	if doc.ParentID != nil {
		pid := strings.TrimSpace(*doc.ParentID)
		if pid != "" {
			p.ParentID = &pid
		}
	}

	sibs := db.SiblingSet(doc.CollectionID, doc.ParentID)
	store.SortDocumentsByKeyOrder(sibs)
	for i, s := range sibs {
		if s.ID == doc.ID {
			p.Index = i
			break
		}
	}
	return p, nil
}

// SameParent reports whether the payload's origin parent equals the given
// (nullable) parent id, treating nil and empty as the collection root.
func (p Payload) SameParent(parentID *string) bool {
	a := ""
	if p.ParentID != nil {
		a = strings.TrimSpace(*p.ParentID)
	}
	b := ""
	if parentID != nil {
		b = strings.TrimSpace(*parentID)
	}
	return a == b
}

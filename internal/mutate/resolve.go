// Package mutate turns drop gestures into store mutations: resolving a drop
// against the dragged payload, applying the move, and executing the whole
// sequence (persist, notify, undo) as one unit.
package mutate

import (
	"errors"
	"strings"

	"canopy/internal/drag"
	"canopy/internal/perm"
	"canopy/internal/store"
)

// MoveIntent names the target coordinates of a move. A nil Index means
// "append after the last sibling"; a non-nil Index is the position in the
// target sibling list after the moved document is removed from it.
type MoveIntent struct {
	DocumentID   string
	CollectionID string
	ParentID     *string
	Index        *int
}

type ResolutionKind int

const (
	// ResolveNoOp means the drop lands exactly where the document already is.
	ResolveNoOp ResolutionKind = iota
	// ResolveMove means the move can be applied directly.
	ResolveMove
	// ResolveConfirm means the move crosses a visibility boundary and needs
	// the user's explicit confirmation first.
	ResolveConfirm
)

type Resolution struct {
	Kind   ResolutionKind
	Intent MoveIntent
}

// ResolveDrop decides what dropping the payload on the zone means. It never
// mutates the store.
func ResolveDrop(db *store.DB, p drag.Payload, z drag.Zone) (Resolution, error) {
	if db == nil {
		return Resolution{}, errors.New("nil db")
	}
	doc, ok := db.FindDocument(p.DocumentID)
	if !ok {
		return Resolution{}, errors.New("dragged document not found: " + p.DocumentID)
	}
	target, ok := db.FindCollection(z.CollectionID)
	if !ok {
		return Resolution{}, errors.New("target collection not found: " + z.CollectionID)
	}
	origin, ok := db.FindCollection(p.CollectionID)
	if !ok {
		return Resolution{}, errors.New("origin collection not found: " + p.CollectionID)
	}

	intent := MoveIntent{
		DocumentID:   doc.ID,
		CollectionID: target.ID,
		ParentID:     normalizeParent(z.ParentID),
	}

	switch z.Kind {
	case drag.ZoneBody:
		// Append as last child.
	case drag.ZoneFirstChild:
		zero := 0
		intent.Index = &zero
	case drag.ZoneSibling:
		before := strings.TrimSpace(z.BeforeDocumentID)
		if before != "" {
			idx, err := indexBefore(db, intent.CollectionID, intent.ParentID, doc.ID, before)
			if err != nil {
				return Resolution{}, err
			}
			intent.Index = &idx
		} else {
			// The trailing end-of-list slot is an explicit position, unlike a
			// body drop: spell the index out so it stays a real reorder.
			idx := appendIndex(db, intent.CollectionID, intent.ParentID, doc.ID)
			intent.Index = &idx
		}
	}

	if isNoOpIntent(db, intent) {
		return Resolution{Kind: ResolveNoOp, Intent: intent}, nil
	}
	if perm.BoundaryCrossed(origin, target) {
		return Resolution{Kind: ResolveConfirm, Intent: intent}, nil
	}
	return Resolution{Kind: ResolveMove, Intent: intent}, nil
}

// indexBefore computes the insertion index in front of a sibling, in the
// coordinate system that excludes the moved document itself.
func indexBefore(db *store.DB, collectionID string, parentID *string, movedID, beforeID string) (int, error) {
	sibs := db.SiblingSet(collectionID, parentID)
	store.SortDocumentsByKeyOrder(sibs)
	idx := 0
	for _, s := range sibs {
		if s.ID == movedID {
			continue
		}
		if s.ID == beforeID {
			return idx, nil
		}
		idx++
	}
	return 0, errors.New("sibling not found in target set: " + beforeID)
}

// appendIndex is the position after the last sibling, in the coordinate
// system that excludes the moved document itself.
func appendIndex(db *store.DB, collectionID string, parentID *string, movedID string) int {
	n := 0
	for _, s := range db.SiblingSet(collectionID, parentID) {
		if s.ID == movedID {
			continue
		}
		n++
	}
	return n
}

// isNoOpIntent reports whether applying the intent would leave the document
// exactly where it is.
func isNoOpIntent(db *store.DB, intent MoveIntent) bool {
	doc, ok := db.FindDocument(intent.DocumentID)
	if !ok {
		return false
	}
	if strings.TrimSpace(doc.CollectionID) != intent.CollectionID {
		return false
	}
	if !sameParent(doc.ParentID, intent.ParentID) {
		return false
	}
	if intent.Index == nil {
		// Landing on the current location with no explicit position expresses
		// no ordering preference; the document stays exactly where it is.
		return true
	}

	sibs := db.SiblingSet(intent.CollectionID, intent.ParentID)
	store.SortDocumentsByKeyOrder(sibs)
	cur := -1
	n := 0
	for _, s := range sibs {
		if s.ID == doc.ID {
			cur = n
			continue
		}
		n++
	}
	if cur < 0 {
		return false
	}
	return *intent.Index == cur
}

func normalizeParent(parentID *string) *string {
	if parentID == nil {
		return nil
	}
	pid := strings.TrimSpace(*parentID)
	if pid == "" {
		return nil
	}
	return &pid
}

func sameParent(a, b *string) bool {
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

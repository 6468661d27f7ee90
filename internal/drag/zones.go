package drag

import (
	"strings"

	"canopy/internal/perm"
	"canopy/internal/store"
)

// ZoneKind distinguishes the three drop targets a tree row exposes.
type ZoneKind int

const (
	// ZoneBody drops the document as the last child of the row's document.
	ZoneBody ZoneKind = iota
	// ZoneFirstChild drops the document as the first child of the row's document.
	ZoneFirstChild
	// ZoneSibling drops the document before a given sibling (or at the end
	// when BeforeDocumentID is empty).
	ZoneSibling
)

// Zone is a concrete drop target. CollectionID and ParentID name the target
// sibling set; BeforeDocumentID (sibling zones only) names the document the
// drop lands in front of.
type Zone struct {
	ID               string
	Kind             ZoneKind
	CollectionID     string
	ParentID         *string
	BeforeDocumentID string
}

// Accepts reports whether the zone can take the dragged document at all.
// Rejections here suppress hover highlighting and drop claims alike:
//   - the zone must not sit on the dragged document itself or inside its subtree
//   - the user needs move rights in the origin collection
//   - the user needs write rights in the target collection
func Accepts(db *store.DB, userID string, p Payload, z Zone) bool {
	if db == nil || strings.TrimSpace(p.DocumentID) == "" {
		return false
	}
	if zoneInsideSubtree(db, p.DocumentID, z) {
		return false
	}

	origin, ok := db.FindCollection(p.CollectionID)
	if !ok {
		return false
	}
	target, ok := db.FindCollection(z.CollectionID)
	if !ok {
		return false
	}
	return perm.CanMoveBetween(db, userID, origin, target)
}

// zoneInsideSubtree reports whether the zone's effective parent is the
// dragged document or one of its descendants. Dropping there would detach
// the subtree from the tree.
func zoneInsideSubtree(db *store.DB, draggedID string, z Zone) bool {
	// Body and first-child zones nest under the row's own document; callers
	// encode that document as the zone parent, so walking the parent chain
	// covers all three kinds. Dropping before itself stays acceptable and is
	// resolved as a no-op later.
	parent := ""
	if z.ParentID != nil {
		parent = strings.TrimSpace(*z.ParentID)
	}
	for parent != "" {
		if parent == draggedID {
			return true
		}
		doc, ok := db.FindDocument(parent)
		if !ok {
			return false
		}
		if doc.ParentID == nil {
			return false
		}
		parent = strings.TrimSpace(*doc.ParentID)
	}
	return false
}

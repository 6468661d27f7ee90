// Package perm answers "what may this user do in this collection".
//
// Access comes from two places: an explicit membership row, or the
// collection's default access marker. A nil marker means the collection is
// invite-only; a non-nil marker grants every user at least that level. The
// marker also doubles as the visibility boundary the move engine checks when
// a document crosses collections.
package perm

import (
	"strings"

	"canopy/internal/model"
	"canopy/internal/store"
)

type Abilities struct {
	Read           bool
	Update         bool
	Move           bool
	CreateDocument bool
}

func none() Abilities { return Abilities{} }

func forAccess(access string) Abilities {
	switch strings.TrimSpace(access) {
	case model.AccessReadWrite:
		return Abilities{Read: true, Update: true, Move: true, CreateDocument: true}
	case model.AccessRead:
		return Abilities{Read: true}
	default:
		return none()
	}
}

// ForCollection computes the user's abilities in a collection. Explicit
// membership wins over the default marker when it grants more.
func ForCollection(db *store.DB, userID string, c *model.Collection) Abilities {
	if db == nil || c == nil {
		return none()
	}
	userID = strings.TrimSpace(userID)

	var out Abilities
	if c.DefaultAccess != nil {
		out = forAccess(*c.DefaultAccess)
	}
	if userID == "" {
		return out
	}
	for _, m := range db.Memberships {
		if strings.TrimSpace(m.CollectionID) != c.ID {
			continue
		}
		if strings.TrimSpace(m.UserID) != userID {
			continue
		}
		out = merge(out, forAccess(m.Access))
	}
	return out
}

func merge(a, b Abilities) Abilities {
	return Abilities{
		Read:           a.Read || b.Read,
		Update:         a.Update || b.Update,
		Move:           a.Move || b.Move,
		CreateDocument: a.CreateDocument || b.CreateDocument,
	}
}

// CanMoveBetween reports whether the user may move a document out of the
// origin collection and into the target: Move rights in the origin, plus
// Move (same collection) or CreateDocument (cross-collection) in the target.
func CanMoveBetween(db *store.DB, userID string, origin, target *model.Collection) bool {
	if origin == nil || target == nil {
		return false
	}
	if !ForCollection(db, userID, origin).Move {
		return false
	}
	ab := ForCollection(db, userID, target)
	if target.ID == origin.ID {
		return ab.Move
	}
	return ab.CreateDocument
}

// BoundaryCrossed reports whether moving a document from one collection to
// another changes its effective visibility. Same collection never crosses;
// the origin must carry a default-access marker for the boundary to exist,
// and the target marker must differ from it.
func BoundaryCrossed(from, to *model.Collection) bool {
	if from == nil || to == nil {
		return false
	}
	if from.ID == to.ID {
		return false
	}
	if from.DefaultAccess == nil {
		return false
	}
	if to.DefaultAccess == nil {
		return true
	}
	return strings.TrimSpace(*from.DefaultAccess) != strings.TrimSpace(*to.DefaultAccess)
}

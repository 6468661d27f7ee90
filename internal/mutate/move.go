package mutate

import (
	"errors"
	"strings"
	"time"

	"canopy/internal/model"
	"canopy/internal/store"
)

// MoveDocument applies a resolved move intent to the in-memory store. It
// returns whether anything changed. The caller persists and notifies.
func MoveDocument(db *store.DB, intent MoveIntent, now time.Time) (bool, error) {
	if db == nil {
		return false, errors.New("nil db")
	}
	doc, ok := db.FindDocument(intent.DocumentID)
	if !ok {
		return false, errors.New("document not found: " + intent.DocumentID)
	}
	if _, ok := db.FindCollection(intent.CollectionID); !ok {
		return false, errors.New("target collection not found: " + intent.CollectionID)
	}
	if isNoOpIntent(db, intent) {
		return false, nil
	}
	if parentInsideSubtree(db, doc.ID, intent.ParentID) {
		return false, errors.New("cannot move a document into its own subtree")
	}

	crossCollection := strings.TrimSpace(doc.CollectionID) != intent.CollectionID

	doc.CollectionID = intent.CollectionID
	doc.ParentID = normalizeParent(intent.ParentID)
	doc.UpdatedAt = now
	db.InvalidateIndexes()

	if err := assignOrderKey(db, doc, intent.Index, now); err != nil {
		return false, err
	}

	// A subtree follows its root across collections; parent links inside the
	// subtree are untouched.
	if crossCollection {
		for _, id := range collectSubtreeDocumentIDs(db, doc.ID) {
			if id == doc.ID {
				continue
			}
			if d, ok := db.FindDocument(id); ok {
				d.CollectionID = intent.CollectionID
				d.UpdatedAt = now
			}
		}
	}

	db.InvalidateIndexes()
	return true, nil
}

// assignOrderKey places the moved document within its (new) sibling set. A
// nil index appends after the last sibling; otherwise the reorder planner
// picks the smallest set of key updates that realizes the position.
func assignOrderKey(db *store.DB, doc *model.Document, index *int, now time.Time) error {
	sibs := db.SiblingSet(doc.CollectionID, doc.ParentID)

	if index == nil {
		maxKey := ""
		for _, s := range sibs {
			if s.ID == doc.ID {
				continue
			}
			k := strings.TrimSpace(s.OrderKey)
			if k > maxKey {
				maxKey = k
			}
		}
		k, err := store.KeyAfter(maxKey)
		if err != nil {
			return err
		}
		doc.OrderKey = k
		return nil
	}

	res, err := store.PlanReorderKeys(sibs, doc.ID, *index)
	if err != nil {
		return err
	}
	for id, k := range res.KeyByID {
		if d, ok := db.FindDocument(id); ok {
			d.OrderKey = k
			if d.ID != doc.ID {
				d.UpdatedAt = now
			}
		}
	}
	return nil
}

// MoveCollection reorders a collection in the sidebar by assigning it a new
// order key between its (new) neighbors.
func MoveCollection(db *store.DB, collectionID string, newOrderKey string, now time.Time) error {
	if db == nil {
		return errors.New("nil db")
	}
	c, ok := db.FindCollection(collectionID)
	if !ok {
		return errors.New("collection not found: " + collectionID)
	}
	newOrderKey = strings.TrimSpace(newOrderKey)
	if newOrderKey == "" {
		return errors.New("missing order key")
	}
	c.OrderKey = newOrderKey
	c.UpdatedAt = now
	return nil
}

func parentInsideSubtree(db *store.DB, documentID string, parentID *string) bool {
	cur := ""
	if parentID != nil {
		cur = strings.TrimSpace(*parentID)
	}
	for cur != "" {
		if cur == documentID {
			return true
		}
		d, ok := db.FindDocument(cur)
		if !ok || d.ParentID == nil {
			return false
		}
		cur = strings.TrimSpace(*d.ParentID)
	}
	return false
}

// collectSubtreeDocumentIDs returns the document and all its descendants,
// archived ones included.
func collectSubtreeDocumentIDs(db *store.DB, rootID string) []string {
	out := []string{rootID}
	queue := []string{rootID}
	seen := map[string]bool{rootID: true}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for i := range db.Documents {
			d := &db.Documents[i]
			if d.ParentID == nil || strings.TrimSpace(*d.ParentID) != cur {
				continue
			}
			if seen[d.ID] {
				continue
			}
			seen[d.ID] = true
			out = append(out, d.ID)
			queue = append(queue, d.ID)
		}
	}
	return out
}

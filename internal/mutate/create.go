package mutate

import (
	"errors"
	"strings"
	"time"

	"canopy/internal/model"
	"canopy/internal/store"
)

// CreateDocument adds a new document to a collection, appended after the last
// sibling in its scope. The caller checks permissions and persists.
func CreateDocument(db *store.DB, collectionID string, parentID *string, title, text string, now time.Time) (*model.Document, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	collectionID = strings.TrimSpace(collectionID)
	if _, ok := db.FindCollection(collectionID); !ok {
		return nil, errors.New("collection not found: " + collectionID)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("missing title")
	}

	parentID = normalizeParent(parentID)
	if parentID != nil {
		parent, ok := db.FindDocument(*parentID)
		if !ok {
			return nil, errors.New("parent document not found: " + *parentID)
		}
		if strings.TrimSpace(parent.CollectionID) != collectionID {
			return nil, errors.New("parent document belongs to another collection")
		}
	}

	db.Documents = append(db.Documents, model.Document{
		ID:           db.NewID("doc"),
		CollectionID: collectionID,
		ParentID:     parentID,
		Title:        title,
		Text:         text,
		CreatedBy:    strings.TrimSpace(db.CurrentUserID),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	db.InvalidateIndexes()

	doc := &db.Documents[len(db.Documents)-1]
	if err := assignOrderKey(db, doc, nil, now); err != nil {
		db.Documents = db.Documents[:len(db.Documents)-1]
		db.InvalidateIndexes()
		return nil, err
	}
	return doc, nil
}

package mutate

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"canopy/internal/drag"
	"canopy/internal/model"
	"canopy/internal/store"
)

// Persister writes the full store state back to durable storage.
type Persister interface {
	Persist(ctx context.Context, db *store.DB) error
}

// PersistFunc adapts a function to the Persister interface.
type PersistFunc func(ctx context.Context, db *store.DB) error

func (f PersistFunc) Persist(ctx context.Context, db *store.DB) error { return f(ctx, db) }

// NoticeAction is an optional action attached to a notice, e.g. "Undo".
// Invoke reports whether the action did anything, so the UI can replace or
// dismiss the notice accordingly.
type NoticeAction struct {
	Label  string
	Invoke func() (bool, error)
}

// Notifier surfaces transient notices to the user.
type Notifier interface {
	Show(message string, action *NoticeAction)
}

// NotifyFunc adapts a function to the Notifier interface.
type NotifyFunc func(message string, action *NoticeAction)

func (f NotifyFunc) Show(message string, action *NoticeAction) { f(message, action) }

// Executor runs resolved moves end to end: mutate, persist, notify. On a
// persist failure the in-memory state is rolled back so the view still shows
// the pre-drop tree, and no notice is shown.
type Executor struct {
	DB      *store.DB
	Persist Persister
	Notify  Notifier
	Now     func() time.Time
}

func (e *Executor) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now().UTC()
}

// Execute applies the intent. The payload is the drag snapshot taken at
// gesture start; its coordinates back the undo action. Returns whether a
// move happened.
func (e *Executor) Execute(ctx context.Context, intent MoveIntent, payload drag.Payload) (bool, error) {
	if e == nil || e.DB == nil {
		return false, errors.New("executor not configured")
	}

	changed, err := e.apply(ctx, intent)
	if err != nil || !changed {
		return changed, err
	}

	if e.Notify != nil {
		doc, _ := e.DB.FindDocument(intent.DocumentID)
		e.Notify.Show(moveMessage(e.DB, doc, intent), e.undoAction(payload))
	}
	return true, nil
}

// apply mutates and persists, rolling back the in-memory documents when the
// persist fails.
func (e *Executor) apply(ctx context.Context, intent MoveIntent) (bool, error) {
	snapshot := make([]model.Document, len(e.DB.Documents))
	copy(snapshot, e.DB.Documents)

	changed, err := MoveDocument(e.DB, intent, e.now())
	if err != nil {
		e.DB.Documents = snapshot
		e.DB.InvalidateIndexes()
		return false, err
	}
	if !changed {
		return false, nil
	}

	if e.Persist != nil {
		if err := e.Persist.Persist(ctx, e.DB); err != nil {
			e.DB.Documents = snapshot
			e.DB.InvalidateIndexes()
			return false, err
		}
	}
	return true, nil
}

// undoAction builds a single-shot compensating move that replays the
// payload's captured coordinates. The second invocation is a no-op.
func (e *Executor) undoAction(payload drag.Payload) *NoticeAction {
	var once sync.Once
	return &NoticeAction{
		Label: "Undo",
		Invoke: func() (bool, error) {
			ran := false
			var err error
			once.Do(func() {
				idx := payload.Index
				reverse := MoveIntent{
					DocumentID:   payload.DocumentID,
					CollectionID: payload.CollectionID,
					ParentID:     payload.ParentID,
					Index:        &idx,
				}
				ran, err = e.apply(context.Background(), reverse)
			})
			return ran, err
		},
	}
}

func moveMessage(db *store.DB, doc *model.Document, intent MoveIntent) string {
	title := ""
	if doc != nil {
		title = strings.TrimSpace(doc.Title)
	}
	if title == "" {
		title = "Document"
	}
	dest := intent.CollectionID
	if c, ok := db.FindCollection(intent.CollectionID); ok && strings.TrimSpace(c.Name) != "" {
		dest = strings.TrimSpace(c.Name)
	}
	if intent.ParentID != nil {
		if p, ok := db.FindDocument(*intent.ParentID); ok && strings.TrimSpace(p.Title) != "" {
			dest = strings.TrimSpace(p.Title)
		}
	}
	return "Moved \"" + title + "\" to " + dest
}

package mutate

import (
	"context"
	"errors"
	"testing"
	"time"

	"canopy/internal/drag"
	"canopy/internal/store"
)

type recordedNotice struct {
	message string
	action  *NoticeAction
}

func newTestExecutor(db *store.DB, persist PersistFunc, notices *[]recordedNotice) *Executor {
	return &Executor{
		DB:      db,
		Persist: persist,
		Notify: NotifyFunc(func(message string, action *NoticeAction) {
			*notices = append(*notices, recordedNotice{message: message, action: action})
		}),
		Now: func() time.Time { return time.Date(2026, 4, 3, 12, 0, 0, 0, time.UTC) },
	}
}

func TestExecutor_SuccessNotifiesWithUndo(t *testing.T) {
	db := testDB()
	var notices []recordedNotice
	persisted := 0
	e := newTestExecutor(db, func(ctx context.Context, db *store.DB) error {
		persisted++
		return nil
	}, &notices)

	payload := mustCapture(t, db, "doc-c")
	idx := 1
	changed, err := e.Execute(context.Background(), MoveIntent{
		DocumentID:   "doc-c",
		CollectionID: "col-open",
		Index:        &idx,
	}, payload)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !changed {
		t.Fatalf("expected a move")
	}
	if persisted != 1 {
		t.Fatalf("expected one persist, got %d", persisted)
	}
	if len(notices) != 1 || notices[0].action == nil || notices[0].action.Label != "Undo" {
		t.Fatalf("expected a notice with an Undo action, got %+v", notices)
	}

	c, _ := db.FindDocument("doc-c")
	b, _ := db.FindDocument("doc-b")
	if !(c.OrderKey < b.OrderKey) {
		t.Fatalf("move should place c before b: c=%q b=%q", c.OrderKey, b.OrderKey)
	}
}

func TestExecutor_UndoIsSingleShot(t *testing.T) {
	db := testDB()
	var notices []recordedNotice
	persisted := 0
	e := newTestExecutor(db, func(ctx context.Context, db *store.DB) error {
		persisted++
		return nil
	}, &notices)

	payload := mustCapture(t, db, "doc-c")
	idx := 0
	if _, err := e.Execute(context.Background(), MoveIntent{
		DocumentID:   "doc-c",
		CollectionID: "col-open",
		Index:        &idx,
	}, payload); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	undo := notices[0].action
	ran, err := undo.Invoke()
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if !ran {
		t.Fatalf("first undo should run")
	}

	sibs := db.SiblingSet("col-open", nil)
	store.SortDocumentsByKeyOrder(sibs)
	if got := sibs[len(sibs)-1].ID; got != "doc-c" {
		t.Fatalf("undo should restore c as last root, got %q last", got)
	}
	c, _ := db.FindDocument("doc-c")
	if c.CollectionID != payload.CollectionID {
		t.Fatalf("undo should restore the origin collection")
	}

	// Second invocation must do nothing, even after further edits.
	persistedBefore := persisted
	ran, err = undo.Invoke()
	if err != nil {
		t.Fatalf("second undo errored: %v", err)
	}
	if ran {
		t.Fatalf("undo must be single-shot")
	}
	if persisted != persistedBefore {
		t.Fatalf("second undo must not persist")
	}
}

func TestExecutor_PersistFailureRollsBackAndStaysSilent(t *testing.T) {
	db := testDB()
	var notices []recordedNotice
	e := newTestExecutor(db, func(ctx context.Context, db *store.DB) error {
		return errors.New("disk full")
	}, &notices)

	payload := mustCapture(t, db, "doc-c")
	before, _ := db.FindDocument("doc-c")
	beforeKey := before.OrderKey

	idx := 0
	changed, err := e.Execute(context.Background(), MoveIntent{
		DocumentID:   "doc-c",
		CollectionID: "col-open",
		Index:        &idx,
	}, payload)
	if err == nil {
		t.Fatalf("expected persist error to surface")
	}
	if changed {
		t.Fatalf("failed persist must not report a change")
	}
	if len(notices) != 0 {
		t.Fatalf("failed persist must not show a notice, got %+v", notices)
	}

	after, _ := db.FindDocument("doc-c")
	if after.OrderKey != beforeKey {
		t.Fatalf("rollback should restore the pre-drop key: before=%q after=%q", beforeKey, after.OrderKey)
	}
}

func TestExecutor_NoOpIntentSkipsPersistAndNotice(t *testing.T) {
	db := testDB()
	var notices []recordedNotice
	persisted := 0
	e := newTestExecutor(db, func(ctx context.Context, db *store.DB) error {
		persisted++
		return nil
	}, &notices)

	payload := mustCapture(t, db, "doc-c")
	changed, err := e.Execute(context.Background(), MoveIntent{
		DocumentID:   "doc-c",
		CollectionID: "col-open",
	}, payload)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if changed || persisted != 0 || len(notices) != 0 {
		t.Fatalf("append-in-place must be fully silent: changed=%v persisted=%d notices=%d",
			changed, persisted, len(notices))
	}
}

func TestConfirmGate_OnePendingAtATime(t *testing.T) {
	var g ConfirmGate

	first := MoveIntent{DocumentID: "doc-1", CollectionID: "col-a"}
	if !g.Request(first, drag.Payload{DocumentID: "doc-1"}) {
		t.Fatalf("first request should be accepted")
	}
	if g.Request(MoveIntent{DocumentID: "doc-2"}, drag.Payload{}) {
		t.Fatalf("second request must be refused while one is pending")
	}

	intent, payload, ok := g.Confirm()
	if !ok || intent.DocumentID != "doc-1" || payload.DocumentID != "doc-1" {
		t.Fatalf("confirm should hand back the pending move: %+v %+v %v", intent, payload, ok)
	}
	if g.Pending() {
		t.Fatalf("confirm should clear the gate")
	}

	if !g.Request(first, drag.Payload{}) {
		t.Fatalf("gate should accept a new request after confirm")
	}
	g.Cancel()
	if _, _, ok := g.Confirm(); ok {
		t.Fatalf("cancel should leave nothing to confirm")
	}
}

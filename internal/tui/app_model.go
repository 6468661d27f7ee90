package tui

import (
	"context"
	"strings"

	"canopy/internal/drag"
	"canopy/internal/model"
	"canopy/internal/mutate"
	"canopy/internal/store"

	"github.com/charmbracelet/bubbles/viewport"
)

type appModel struct {
	dir   string
	store store.Store
	db    *store.DB

	width  int
	height int
	// The very first WindowSizeMsg is initial sizing, not a user resize.
	seenWindowSize bool

	collections   []model.Collection
	collectionIdx int

	expanded    map[string]bool
	starredLens bool

	pane    pane
	cursor  int
	rows    []treeRow
	preview viewport.Model

	session drag.Session
	zones   []drag.Zone
	zoneIdx int

	gate         mutate.ConfirmGate
	modal        modalKind
	confirmFocus confirmModalFocus
	// pendingDraft keeps the provisional placement visible while the boundary
	// confirmation modal is open. The store stays untouched until the user
	// confirms.
	pendingDraft *MoveDraft

	notices *noticeCenter
	exec    *mutate.Executor

	minibufferText string
}

const (
	topPadLines  = 1
	sidebarWidth = 24
	minPreviewW  = 40
	splitGapW    = 2
)

func newAppModel(dir string, db *store.DB) appModel {
	s := store.Store{Dir: dir}
	m := appModel{
		dir:      dir,
		store:    s,
		db:       db,
		expanded: map[string]bool{},
		notices:  &noticeCenter{},
		pane:     paneTree,
	}
	m.preview = viewport.New(minPreviewW, 10)

	m.exec = &mutate.Executor{
		DB: db,
		Persist: mutate.PersistFunc(func(ctx context.Context, db *store.DB) error {
			return s.Save(ctx, db)
		}),
		Notify: m.notices,
	}

	m.collections = db.SortedCollections()

	// Best-effort: restore last expansion/lens state for this workspace.
	ui := s.LoadUIState()
	m.starredLens = ui.StarredLens
	if len(ui.Expanded) > 0 {
		m.expanded = ui.Expanded
	}
	if id := strings.TrimSpace(ui.ActiveDocumentID); id != "" {
		m.db.ActiveDocumentID = id
	}

	m.refreshRows()
	m.syncCursorToActive()
	return m
}

func (m *appModel) currentCollection() *model.Collection {
	if len(m.collections) == 0 {
		return nil
	}
	if m.collectionIdx < 0 {
		m.collectionIdx = 0
	}
	if m.collectionIdx >= len(m.collections) {
		m.collectionIdx = len(m.collections) - 1
	}
	return &m.collections[m.collectionIdx]
}

// refreshRows recomputes the visible rows and the drop-zone list from the
// store, the expansion state, and the in-flight drag (if any).
func (m *appModel) refreshRows() {
	if m.starredLens {
		m.rows = flattenStarred(m.db)
		m.zones = nil
		m.clampCursor()
		return
	}
	c := m.currentCollection()
	if c == nil {
		m.rows = nil
		m.zones = nil
		return
	}

	var draft *MoveDraft
	if m.gate.Pending() && m.pendingDraft != nil {
		draft = m.pendingDraft
	} else if m.session.Active() {
		if z, ok := m.session.HoveredZone(); ok {
			draft = m.draftForZone(z)
		}
	}

	m.rows = flattenTree(m.db, c, m.expanded, m.session.Active(), m.starredLens, draft)
	m.zones = buildDropZones(c, m.rows)
	m.clampCursor()
}

// draftForZone previews the hovered drop as a provisional placement.
func (m *appModel) draftForZone(z drag.Zone) *MoveDraft {
	p := m.session.Payload()
	doc, ok := m.db.FindDocument(p.DocumentID)
	if !ok {
		return nil
	}
	res, err := mutate.ResolveDrop(m.db, p, z)
	if err != nil {
		return nil
	}
	idx := -1
	if res.Intent.Index != nil {
		idx = *res.Intent.Index
	}
	return &MoveDraft{Document: *doc, ParentID: z.ParentID, Index: idx}
}

// endDrag closes the drag session and applies the drag-end expansion
// transition: the active node expands, everything else collapses. The starred
// lens suppresses the transition.
func (m *appModel) endDrag() {
	m.session.End()
	if !m.starredLens {
		m.expanded = map[string]bool{}
		if id := strings.TrimSpace(m.db.ActiveDocumentID); id != "" {
			m.expanded[id] = true
		}
		m.saveUIState()
	}
	m.refreshRows()
}

func (m *appModel) clampCursor() {
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *appModel) cursorRow() (treeRow, bool) {
	if len(m.rows) == 0 || m.cursor < 0 || m.cursor >= len(m.rows) {
		return treeRow{}, false
	}
	return m.rows[m.cursor], true
}

func (m *appModel) syncCursorToActive() {
	id := strings.TrimSpace(m.db.ActiveDocumentID)
	if id == "" {
		return
	}
	for i, r := range m.rows {
		if r.doc.ID == id {
			m.cursor = i
			return
		}
	}
}

// saveUIState persists presentation state. Failures are ignored; the tree
// itself lives in the document store.
func (m *appModel) saveUIState() {
	ui := store.UIState{
		Version:          1,
		StarredLens:      m.starredLens,
		Expanded:         m.expanded,
		ActiveDocumentID: m.db.ActiveDocumentID,
	}
	_ = m.store.SaveUIState(ui)
}

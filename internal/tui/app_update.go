package tui

import (
	"context"
	"strings"
	"time"

	"canopy/internal/drag"
	"canopy/internal/model"
	"canopy/internal/mutate"
	"canopy/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Init() tea.Cmd {
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.seenWindowSize = true
		m.preview.Width = previewWidth(m.width)
		m.preview.Height = contentHeight(m.height)
		m.refreshPreview()
		return m, nil

	case noticeDoneMsg:
		m.notices.Dismiss(msg.seq)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m appModel) handleKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.minibufferText = ""

	if m.modal == modalConfirmMove {
		return m.handleConfirmKey(k)
	}
	if m.session.Active() {
		return m.handleDragKey(k)
	}

	switch k.String() {
	case "ctrl+c", "q":
		m.saveUIState()
		return m, tea.Quit

	case "j", "down":
		if m.pane == panePreview {
			m.preview.LineDown(1)
			break
		}
		m.cursor++
		m.clampCursor()
		m.trackActive()
		m.refreshPreview()
	case "k", "up":
		if m.pane == panePreview {
			m.preview.LineUp(1)
			break
		}
		m.cursor--
		m.clampCursor()
		m.trackActive()
		m.refreshPreview()

	case "h", "left", "[":
		if !m.starredLens && len(m.collections) > 0 {
			m.collectionIdx = (m.collectionIdx - 1 + len(m.collections)) % len(m.collections)
			m.cursor = 0
			m.refreshRows()
			m.refreshPreview()
		}
	case "l", "right", "]":
		if !m.starredLens && len(m.collections) > 0 {
			m.collectionIdx = (m.collectionIdx + 1) % len(m.collections)
			m.cursor = 0
			m.refreshRows()
			m.refreshPreview()
		}

	case "H":
		return m.moveCollection(-1)
	case "L":
		return m.moveCollection(1)

	case "enter":
		if row, ok := m.cursorRow(); ok && row.hasChildren && !m.starredLens {
			m.expanded[row.doc.ID] = !m.expanded[row.doc.ID]
			m.refreshRows()
			m.saveUIState()
		}

	case "tab":
		if previewWidth(m.width) > 0 {
			if m.pane == paneTree {
				m.pane = panePreview
			} else {
				m.pane = paneTree
			}
		}

	case "*":
		m.starredLens = !m.starredLens
		m.cursor = 0
		m.refreshRows()
		m.refreshPreview()
		m.saveUIState()

	case " ":
		return m.beginDrag()

	case "s":
		return m.toggleStar()

	case "y":
		if row, ok := m.cursorRow(); ok {
			if err := copyToClipboard(clipboardMoveCmd(row.doc.ID, row.doc.CollectionID)); err != nil {
				m.minibufferText = "Copy failed: " + err.Error()
			} else {
				m.minibufferText = "Copied move command"
			}
		}

	case "u":
		return m.invokeNoticeAction()

	case "esc", "ctrl+g":
		m.notices.DismissCurrent()
	}
	return m, nil
}

func (m appModel) beginDrag() (tea.Model, tea.Cmd) {
	if m.starredLens {
		m.minibufferText = "Reordering works in the tree view"
		return m, nil
	}
	row, ok := m.cursorRow()
	if !ok {
		return m, nil
	}
	p, err := drag.CapturePayload(m.db, row.doc.ID)
	if err != nil {
		m.minibufferText = err.Error()
		return m, nil
	}
	// Grabbing a row makes it the active document; the draft preview and the
	// drag-end expansion both key off it.
	m.db.ActiveDocumentID = row.doc.ID
	m.session.Begin(p)
	m.refreshRows()

	// Start hovering on the zone just before the dragged row, or the first
	// acceptable zone otherwise.
	m.zoneIdx = -1
	for i, z := range m.zones {
		if z.ID == "before:"+p.DocumentID {
			m.zoneIdx = i
			break
		}
	}
	if m.zoneIdx < 0 || !m.zoneAccepted(m.zoneIdx) {
		m.zoneIdx = m.nextAcceptedZone(0, 1)
	}
	if m.zoneIdx < 0 {
		m.endDrag()
		m.minibufferText = "No place to drop"
		return m, nil
	}
	m.session.HoverEnter(m.zones[m.zoneIdx])
	m.refreshRows()
	return m, nil
}

func (m appModel) handleDragKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "j", "down":
		m.moveHover(1)
	case "k", "up":
		m.moveHover(-1)
	case "enter":
		return m.drop()
	case "esc", "ctrl+g", " ", "q":
		m.cancelDrag()
	}
	return m, nil
}

func (m *appModel) moveHover(delta int) {
	if len(m.zones) == 0 {
		return
	}
	next := m.nextAcceptedZone(m.zoneIdx+delta, delta)
	if next < 0 {
		return
	}
	if z, ok := m.session.HoveredZone(); ok {
		m.session.HoverLeave(z.ID)
	}
	m.zoneIdx = next
	m.session.HoverEnter(m.zones[m.zoneIdx])
	m.refreshRows()
}

// nextAcceptedZone scans cyclically from start in steps of delta for a zone
// that accepts the dragged payload.
func (m *appModel) nextAcceptedZone(start, delta int) int {
	n := len(m.zones)
	if n == 0 {
		return -1
	}
	if delta == 0 {
		delta = 1
	}
	idx := ((start % n) + n) % n
	for i := 0; i < n; i++ {
		if m.zoneAccepted(idx) {
			return idx
		}
		idx = ((idx+delta)%n + n) % n
	}
	return -1
}

func (m *appModel) zoneAccepted(idx int) bool {
	if idx < 0 || idx >= len(m.zones) {
		return false
	}
	return drag.Accepts(m.db, m.db.CurrentUserID, m.session.Payload(), m.zones[idx])
}

func (m appModel) drop() (tea.Model, tea.Cmd) {
	z, ok := m.session.HoveredZone()
	if !ok {
		m.cancelDrag()
		return m, nil
	}
	if !m.session.Claim() {
		// Something already handled this gesture.
		m.cancelDrag()
		return m, nil
	}
	payload := m.session.Payload()

	res, err := mutate.ResolveDrop(m.db, payload, z)
	if err != nil {
		m.minibufferText = err.Error()
		m.cancelDrag()
		return m, nil
	}

	switch res.Kind {
	case mutate.ResolveNoOp:
		m.cancelDrag()
		return m, nil

	case mutate.ResolveConfirm:
		m.pendingDraft = m.draftForZone(z)
		m.gate.Request(res.Intent, payload)
		m.modal = modalConfirmMove
		m.confirmFocus = confirmFocusCancel
		m.endDrag()
		return m, nil

	default:
		m.endDrag()
		if _, err := m.exec.Execute(context.Background(), res.Intent, payload); err != nil {
			m.minibufferText = "Move failed: " + err.Error()
		}
		m.refreshRows()
		m.refreshPreview()
		return m, expireNotice(m.notices.Seq())
	}
}

func (m *appModel) cancelDrag() {
	m.endDrag()
}

func (m appModel) handleConfirmKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "tab", "left", "right", "h", "l":
		if m.confirmFocus == confirmFocusConfirm {
			m.confirmFocus = confirmFocusCancel
		} else {
			m.confirmFocus = confirmFocusConfirm
		}
		return m, nil

	case "enter":
		if m.confirmFocus == confirmFocusConfirm {
			return m.confirmPendingMove()
		}
		m.cancelPendingMove()
		return m, nil

	case "y":
		return m.confirmPendingMove()

	case "n", "esc", "ctrl+g":
		m.cancelPendingMove()
		return m, nil
	}
	return m, nil
}

func (m appModel) confirmPendingMove() (tea.Model, tea.Cmd) {
	intent, payload, ok := m.gate.Confirm()
	m.clearConfirmState()
	if !ok {
		m.refreshRows()
		return m, nil
	}
	if _, err := m.exec.Execute(context.Background(), intent, payload); err != nil {
		m.minibufferText = "Move failed: " + err.Error()
	}
	m.refreshRows()
	m.refreshPreview()
	return m, expireNotice(m.notices.Seq())
}

func (m *appModel) cancelPendingMove() {
	m.gate.Cancel()
	m.clearConfirmState()
	m.refreshRows()
}

func (m *appModel) clearConfirmState() {
	m.modal = modalNone
	m.confirmFocus = confirmFocusCancel
	m.pendingDraft = nil
}

// moveCollection shifts the current collection one slot in the sidebar by
// assigning it a key between its new neighbors.
func (m appModel) moveCollection(delta int) (tea.Model, tea.Cmd) {
	if m.starredLens || len(m.collections) < 2 {
		return m, nil
	}
	cur := m.currentCollection()
	if cur == nil {
		return m, nil
	}
	to := m.collectionIdx + delta
	if to < 0 || to >= len(m.collections) {
		return m, nil
	}

	// Neighbor keys come from the list with the moved collection removed.
	existing := map[string]bool{}
	var rest []model.Collection
	for i, c := range m.collections {
		existing[c.OrderKey] = true
		if i == m.collectionIdx {
			continue
		}
		rest = append(rest, c)
	}
	lower, upper := "", ""
	if to > 0 {
		lower = rest[to-1].OrderKey
	}
	if to < len(rest) {
		upper = rest[to].OrderKey
	}
	key, err := store.KeyBetweenUnique(existing, lower, upper)
	if err != nil {
		m.minibufferText = "Reorder failed: " + err.Error()
		return m, nil
	}

	oldKey := cur.OrderKey
	oldAt := cur.UpdatedAt
	if err := mutate.MoveCollection(m.db, cur.ID, key, time.Now()); err != nil {
		m.minibufferText = "Reorder failed: " + err.Error()
		return m, nil
	}
	if err := m.store.Save(context.Background(), m.db); err != nil {
		if c, ok := m.db.FindCollection(cur.ID); ok {
			c.OrderKey = oldKey
			c.UpdatedAt = oldAt
		}
		m.minibufferText = "Save failed: " + err.Error()
		return m, nil
	}

	id := cur.ID
	m.collections = m.db.SortedCollections()
	for i, c := range m.collections {
		if c.ID == id {
			m.collectionIdx = i
			break
		}
	}
	m.refreshRows()
	return m, nil
}

func (m appModel) toggleStar() (tea.Model, tea.Cmd) {
	row, ok := m.cursorRow()
	if !ok {
		return m, nil
	}
	doc, found := m.db.FindDocument(row.doc.ID)
	if !found {
		return m, nil
	}
	doc.Starred = !doc.Starred
	if err := m.store.Save(context.Background(), m.db); err != nil {
		doc.Starred = !doc.Starred
		m.minibufferText = "Save failed: " + err.Error()
		return m, nil
	}
	m.refreshRows()
	return m, nil
}

func (m appModel) invokeNoticeAction() (tea.Model, tea.Cmd) {
	_, action, ok := m.notices.Current()
	if !ok || action == nil || action.Invoke == nil {
		return m, nil
	}
	ran, err := action.Invoke()
	m.notices.DismissCurrent()
	switch {
	case err != nil:
		m.minibufferText = strings.TrimSpace(action.Label) + " failed: " + err.Error()
	case ran:
		m.minibufferText = "Move undone"
	}
	m.refreshRows()
	m.refreshPreview()
	return m, nil
}

func (m *appModel) trackActive() {
	if row, ok := m.cursorRow(); ok {
		m.db.ActiveDocumentID = row.doc.ID
	}
}

func (m *appModel) refreshPreview() {
	row, ok := m.cursorRow()
	if !ok {
		m.preview.SetContent("")
		return
	}
	w := previewWidth(m.width)
	if w < 10 {
		w = 10
	}
	m.preview.Width = w
	m.preview.SetContent(renderMarkdown(row.doc.Text, w-2))
	m.preview.GotoTop()
}

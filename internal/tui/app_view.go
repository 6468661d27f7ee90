package tui

import (
	"strings"

	"canopy/internal/drag"

	"github.com/charmbracelet/lipgloss"
)

func previewWidth(width int) int {
	w := width - sidebarWidth - splitGapW
	if w < minPreviewW {
		return 0
	}
	w = w / 2
	if w < minPreviewW {
		w = minPreviewW
	}
	return w
}

func contentHeight(height int) int {
	h := height - topPadLines - 3 // header + notice + minibuffer
	if h < 3 {
		h = 3
	}
	return h
}

func (m appModel) View() string {
	if !m.seenWindowSize {
		return "Loading…"
	}
	if m.modal == modalConfirmMove {
		return m.viewConfirmModal()
	}

	header := m.viewHeader()
	tree := m.viewTree()
	footer := m.viewFooter()

	body := tree
	if pw := previewWidth(m.width); pw > 0 {
		gap := strings.Repeat(" ", splitGapW)
		body = lipgloss.JoinHorizontal(lipgloss.Top, tree, gap, m.preview.View())
	}

	return strings.Join([]string{"", header, body, footer}, "\n")
}

func (m appModel) viewHeader() string {
	if m.starredLens {
		title := lipgloss.NewStyle().Bold(true).Render("★ Starred")
		hint := styleMuted().Render("  *: back to tree")
		return " " + title + hint
	}

	var tabs []string
	for i, c := range m.collections {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			name = c.ID
		}
		if c.DefaultAccess == nil {
			name = name + " 🔒"
		}
		st := styleMuted()
		if i == m.collectionIdx {
			st = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
		}
		tabs = append(tabs, st.Render(name))
	}
	if len(tabs) == 0 {
		return " " + styleMuted().Render("No collections")
	}
	return " " + strings.Join(tabs, styleMuted().Render("  ·  "))
}

func (m appModel) viewTree() string {
	treeW := m.width
	if pw := previewWidth(m.width); pw > 0 {
		treeW = m.width - pw - splitGapW
	}
	if treeW < 20 {
		treeW = 20
	}

	hovered, hasHover := m.session.HoveredZone()

	var b strings.Builder
	maxRows := contentHeight(m.height)
	top := 0
	if m.cursor >= maxRows {
		top = m.cursor - maxRows + 1
	}
	for i := top; i < len(m.rows) && i-top < maxRows; i++ {
		r := m.rows[i]
		line := m.renderRow(r, i == m.cursor, hovered, hasHover)
		b.WriteString(fixedWidthLine(line, treeW))
		b.WriteString("\n")
	}
	if len(m.rows) == 0 {
		b.WriteString(styleMuted().Render("  (empty)"))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m appModel) renderRow(r treeRow, selected bool, hovered drag.Zone, hasHover bool) string {
	indent := strings.Repeat("  ", r.depth)

	glyph := "  "
	if r.hasChildren {
		if r.showing {
			glyph = "▾ "
		} else {
			glyph = "▸ "
		}
	}

	star := ""
	if r.doc.Starred {
		star = "★ "
	}

	title := strings.TrimSpace(r.doc.Title)
	if title == "" {
		title = r.doc.ID
	}
	line := " " + indent + glyph + star + title

	if m.session.Active() {
		if m.session.IsSource(r.doc.ID) {
			// The spliced draft row doubles as the drop indicator.
			return lipgloss.NewStyle().Background(colorDropZoneBg).Render(line)
		}
		if hasHover && hovered.ParentID != nil && *hovered.ParentID == r.doc.ID {
			switch hovered.Kind {
			case drag.ZoneBody:
				return lipgloss.NewStyle().Background(colorDropZoneBg).Render(line + "  ⤷ into")
			case drag.ZoneFirstChild:
				return lipgloss.NewStyle().Background(colorDropZoneBg).Render(line + "  ⤷ first child")
			}
		}
		return lipgloss.NewStyle().Foreground(colorDragSourceFg).Render(line)
	}

	if selected {
		return lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Render(line)
	}
	return line
}

func (m appModel) viewFooter() string {
	var lines []string

	if msg, action, ok := m.notices.Current(); ok {
		notice := " " + msg
		if action != nil && strings.TrimSpace(action.Label) != "" {
			notice += styleMuted().Render("   u: " + strings.ToLower(action.Label))
		}
		lines = append(lines, truncateLine(notice, m.width))
	} else {
		lines = append(lines, "")
	}

	mini := m.minibufferText
	if mini == "" {
		if m.session.Active() {
			mini = "j/k: pick a spot   enter: drop   esc: cancel"
		} else {
			mini = "space: move   enter: expand   tab: preview   s: star   *: starred   H/L: move collection   y: copy   q: quit"
		}
	}
	lines = append(lines, " "+styleMuted().Render(truncateLine(mini, m.width-1)))

	return strings.Join(lines, "\n")
}

func (m appModel) viewConfirmModal() string {
	intent, payload, ok := m.gate.Peek()
	if !ok {
		return m.viewHeader()
	}

	title := "Move across collections?"

	docName := payload.DocumentID
	if d, found := m.db.FindDocument(payload.DocumentID); found && strings.TrimSpace(d.Title) != "" {
		docName = strings.TrimSpace(d.Title)
	}
	target := intent.CollectionID
	if c, found := m.db.FindCollection(intent.CollectionID); found && strings.TrimSpace(c.Name) != "" {
		target = strings.TrimSpace(c.Name)
	}

	body := "Moving \"" + docName + "\" to \"" + target + "\" changes who can see it."
	modal := renderConfirmModal(m.width, title, body, "Move", "Keep here", m.confirmFocus)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}

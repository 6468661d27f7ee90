package tui

import (
	"strings"
	"sync"
	"time"

	"canopy/internal/mutate"

	tea "github.com/charmbracelet/bubbletea"
)

type noticeDoneMsg struct{ seq int }

const noticeVisibleFor = 6 * time.Second

// noticeCenter collects transient notices from the move executor so the view
// can render the latest one with its action (typically Undo). It satisfies
// mutate.Notifier. Show may be called from outside Update, hence the mutex.
type noticeCenter struct {
	mu      sync.Mutex
	seq     int
	message string
	action  *mutate.NoticeAction
}

func (n *noticeCenter) Show(message string, action *mutate.NoticeAction) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.seq++
	n.message = strings.TrimSpace(message)
	n.action = action
}

// Current returns the visible notice, if any.
func (n *noticeCenter) Current() (string, *mutate.NoticeAction, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.message == "" {
		return "", nil, false
	}
	return n.message, n.action, true
}

func (n *noticeCenter) Seq() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.seq
}

// Dismiss clears the notice if seq still names it; a newer notice stays.
func (n *noticeCenter) Dismiss(seq int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if seq != n.seq {
		return
	}
	n.message = ""
	n.action = nil
}

func (n *noticeCenter) DismissCurrent() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.message = ""
	n.action = nil
}

// expireNotice schedules the auto-dismiss tick for the notice with this seq.
func expireNotice(seq int) tea.Cmd {
	return tea.Tick(noticeVisibleFor, func(time.Time) tea.Msg {
		return noticeDoneMsg{seq: seq}
	})
}

package tui

import (
	"strings"

	"github.com/atotto/clipboard"
)

func copyToClipboard(s string) error {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return clipboard.WriteAll(s)
}

// clipboardMoveCmd builds a shell command that reproduces the document's
// current placement, for pasting into scripts or issue comments.
func clipboardMoveCmd(documentID, collectionID string) string {
	documentID = strings.TrimSpace(documentID)
	if documentID == "" {
		return ""
	}
	out := "canopy move " + documentID
	if c := strings.TrimSpace(collectionID); c != "" {
		out += " --to " + c
	}
	return out
}

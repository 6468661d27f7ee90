package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

func fixedWidthLine(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if xansi.StringWidth(s) > width {
		// Ensure any open ANSI styling is terminated.
		return xansi.Cut(s, 0, width) + "\x1b[0m"
	}
	if pad := width - xansi.StringWidth(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if xansi.StringWidth(s) <= width {
		return s
	}
	if width <= 1 {
		return xansi.Cut(s, 0, width) + "\x1b[0m"
	}
	return xansi.Cut(s, 0, width-1) + "…\x1b[0m"
}

package tui

type modalKind int

const (
	modalNone modalKind = iota
	modalConfirmMove
)

type pane int

const (
	paneTree pane = iota
	panePreview
)

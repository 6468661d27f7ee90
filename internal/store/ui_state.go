package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

const uiStateFileName = "ui_state.json"

// UIState holds per-workspace presentation state (expansion, lens, focus).
// It is best-effort: a missing or corrupt file yields a fresh state, and save
// failures are ignored by callers. Document data never lives here.
type UIState struct {
	Version          int             `json:"version"`
	View             string          `json:"view,omitempty"`
	ActiveDocumentID string          `json:"activeDocumentId,omitempty"`
	StarredLens      bool            `json:"starredLens,omitempty"`
	Expanded         map[string]bool `json:"expanded,omitempty"`
}

func (s Store) uiStatePath() string {
	return filepath.Join(s.Dir, uiStateFileName)
}

// LoadUIState never fails: any read or decode problem returns a fresh state.
func (s Store) LoadUIState() UIState {
	fresh := UIState{Version: 1, Expanded: map[string]bool{}}
	if strings.TrimSpace(s.Dir) == "" {
		return fresh
	}
	raw, err := os.ReadFile(s.uiStatePath())
	if err != nil {
		return fresh
	}
	var st UIState
	if err := json.Unmarshal(raw, &st); err != nil {
		return fresh
	}
	if st.Version <= 0 {
		st.Version = 1
	}
	if st.Expanded == nil {
		st.Expanded = map[string]bool{}
	}
	return st
}

func (s Store) SaveUIState(st UIState) error {
	if strings.TrimSpace(s.Dir) == "" {
		return nil
	}
	if err := s.Ensure(); err != nil {
		return err
	}
	if st.Version <= 0 {
		st.Version = 1
	}
	raw, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	raw = append(raw, '\n')
	tmp := s.uiStatePath() + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.uiStatePath())
}

package store

import (
	"errors"
	"sort"
	"strings"

	"canopy/internal/model"
)

// ReorderResult describes the key updates needed to realize an index-based
// reorder. KeyByID includes only documents whose keys should change.
type ReorderResult struct {
	KeyByID      map[string]string
	WindowIDs    []string // IDs whose keys were (re)assigned in the fallback path (in final order)
	UsedFallback bool
}

// SortDocumentsByKeyOrder sorts documents in place using the sidebar's manual
// ordering: order key (lexicographic), then CreatedAt, then ID.
func SortDocumentsByKeyOrder(docs []*model.Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		return compareDocumentsByKeyCreatedID(*docs[i], *docs[j]) < 0
	})
}

func compareDocumentsByKeyCreatedID(a, b model.Document) int {
	ka := strings.TrimSpace(a.OrderKey)
	kb := strings.TrimSpace(b.OrderKey)
	if ka != "" && kb != "" {
		if ka < kb {
			return -1
		}
		if ka > kb {
			return 1
		}
		// Deterministic tie-break: equal keys must still produce a stable
		// ordering, otherwise re-renders may reshuffle equal elements (visible
		// as "jumps" when moving documents).
	}
	if a.CreatedAt.Before(b.CreatedAt) {
		return -1
	}
	if a.CreatedAt.After(b.CreatedAt) {
		return 1
	}
	if a.ID < b.ID {
		return -1
	}
	if a.ID > b.ID {
		return 1
	}
	return 0
}

// SortDocumentsBySpec sorts documents in place per the collection's sort spec.
// Manual sorting falls back to the key order above; title sorting is
// case-insensitive; updated sorting defaults to most-recent-first.
func SortDocumentsBySpec(docs []model.Document, spec model.SortSpec) {
	desc := strings.EqualFold(strings.TrimSpace(spec.Direction), "desc")
	switch spec.Field {
	case model.SortByTitle:
		sort.SliceStable(docs, func(i, j int) bool {
			ti := strings.ToLower(strings.TrimSpace(docs[i].Title))
			tj := strings.ToLower(strings.TrimSpace(docs[j].Title))
			if ti != tj {
				if desc {
					return ti > tj
				}
				return ti < tj
			}
			return docs[i].ID < docs[j].ID
		})
	case model.SortByUpdated:
		asc := strings.EqualFold(strings.TrimSpace(spec.Direction), "asc")
		sort.SliceStable(docs, func(i, j int) bool {
			if !docs[i].UpdatedAt.Equal(docs[j].UpdatedAt) {
				if asc {
					return docs[i].UpdatedAt.Before(docs[j].UpdatedAt)
				}
				return docs[i].UpdatedAt.After(docs[j].UpdatedAt)
			}
			return docs[i].ID < docs[j].ID
		})
	default:
		sort.SliceStable(docs, func(i, j int) bool {
			return compareDocumentsByKeyCreatedID(docs[i], docs[j]) < 0
		})
	}
}

// PlanReorderKeys plans order-key updates for reordering a sibling set.
//
// Inputs:
// - sibs: the current sibling set (including the moved document)
// - movedID: the document being moved
// - insertAt: the index to insert the moved document into the sibling list *after removing it*
//
// Behavior:
//   - Prefer changing only the moved document's key (fast path).
//   - If the immediate neighbor bounds are not usable (e.g. duplicate keys),
//     rebalance keys for the smallest contiguous window around the insertion
//     point that yields valid outer bounds.
func PlanReorderKeys(sibs []*model.Document, movedID string, insertAt int) (ReorderResult, error) {
	movedID = strings.TrimSpace(movedID)
	if movedID == "" {
		return ReorderResult{}, errors.New("missing movedID")
	}
	if len(sibs) == 0 {
		return ReorderResult{KeyByID: map[string]string{}}, nil
	}

	// Work on a copy so callers don't get their slice reordered.
	cur := append([]*model.Document{}, sibs...)
	SortDocumentsByKeyOrder(cur)

	movedIdx := -1
	for i := range cur {
		if strings.TrimSpace(cur[i].ID) == movedID {
			movedIdx = i
			break
		}
	}
	if movedIdx < 0 {
		return ReorderResult{}, errors.New("moved document not found in sibling set")
	}
	moved := cur[movedIdx]

	rest := make([]*model.Document, 0, len(cur)-1)
	for i := range cur {
		if i == movedIdx {
			continue
		}
		rest = append(rest, cur[i])
	}

	if insertAt < 0 {
		insertAt = 0
	}
	if insertAt > len(rest) {
		insertAt = len(rest)
	}

	// Same position is a no-op: compute the moved document's current index in
	// the "after removal" coordinate system.
	curInsertAt := movedIdx
	if movedIdx > len(rest) {
		curInsertAt = len(rest)
	}
	if insertAt == curInsertAt {
		return ReorderResult{KeyByID: map[string]string{}}, nil
	}
	// Window-selection preference: when moving earlier (up), prefer to
	// rebalance to the right (touching the displaced neighbor(s)) rather than
	// pulling in earlier siblings.
	preferRight := insertAt < curInsertAt

	final := make([]*model.Document, 0, len(cur))
	final = append(final, rest[:insertAt]...)
	final = append(final, moved)
	final = append(final, rest[insertAt:]...)

	// Fast path: only update the moved document's key if we have usable
	// immediate bounds.
	existing := existingKeysExcluding(final, map[string]bool{movedID: true})
	if k, ok, err := keyBetweenNeighbors(existing, final, insertAt); err == nil && ok {
		if strings.TrimSpace(moved.OrderKey) != k {
			return ReorderResult{
				KeyByID: map[string]string{movedID: k},
			}, nil
		}
		return ReorderResult{KeyByID: map[string]string{}}, nil
	} else if err != nil {
		return ReorderResult{}, err
	}

	// Fallback: rebalance a minimal contiguous window around the insertion point.
	lo, hi := minimalValidWindow(final, insertAt, preferRight)

	lower := ""
	upper := ""
	if lo > 0 {
		lower = strings.TrimSpace(final[lo-1].OrderKey)
	}
	if hi+1 < len(final) {
		upper = strings.TrimSpace(final[hi+1].OrderKey)
	}

	// Existing keys excluding window documents (we're about to overwrite them).
	excl := map[string]bool{}
	for i := lo; i <= hi; i++ {
		excl[strings.TrimSpace(final[i].ID)] = true
	}
	existing = existingKeysExcluding(final, excl)

	res := ReorderResult{
		KeyByID:      map[string]string{},
		WindowIDs:    make([]string, 0, hi-lo+1),
		UsedFallback: true,
	}
	curLower := lower
	for i := lo; i <= hi; i++ {
		id := strings.TrimSpace(final[i].ID)
		if id == "" {
			continue
		}
		k, err := KeyBetweenUnique(existing, curLower, upper)
		if err != nil {
			return ReorderResult{}, err
		}
		existing[strings.ToLower(strings.TrimSpace(k))] = true
		res.KeyByID[id] = k
		res.WindowIDs = append(res.WindowIDs, id)
		curLower = k
	}
	return res, nil
}

func existingKeysExcluding(docs []*model.Document, excludeIDs map[string]bool) map[string]bool {
	existing := map[string]bool{}
	for _, d := range docs {
		if d == nil {
			continue
		}
		id := strings.TrimSpace(d.ID)
		if excludeIDs != nil && excludeIDs[id] {
			continue
		}
		kn := strings.ToLower(strings.TrimSpace(d.OrderKey))
		if kn != "" {
			existing[kn] = true
		}
	}
	return existing
}

// keyBetweenNeighbors attempts to compute a new key for the moved document
// using its immediate neighbors in the final order. Returns ok=false when
// bounds are unusable (e.g. lower >= upper).
func keyBetweenNeighbors(existing map[string]bool, final []*model.Document, movedIdx int) (key string, ok bool, err error) {
	lower := ""
	upper := ""
	if movedIdx > 0 {
		lower = strings.TrimSpace(final[movedIdx-1].OrderKey)
	}
	if movedIdx+1 < len(final) {
		upper = strings.TrimSpace(final[movedIdx+1].OrderKey)
	}
	if lower != "" && upper != "" && !(lower < upper) {
		return "", false, nil
	}
	k, err := KeyBetweenUnique(existing, lower, upper)
	if err != nil {
		return "", false, nil
	}
	return k, true, nil
}

// minimalValidWindow finds the smallest contiguous window [lo, hi] containing
// movedIdx such that the outer bounds (key before lo, key after hi) are either
// open-ended or strictly increasing.
//
// When multiple windows of the same minimal size are valid, preferRight
// influences tie-breaking:
// - preferRight=true: prefer windows that expand to the right of movedIdx first
// - preferRight=false: prefer windows that expand to the left of movedIdx first
func minimalValidWindow(final []*model.Document, movedIdx int, preferRight bool) (lo, hi int) {
	if movedIdx < 0 {
		return 0, len(final) - 1
	}
	if movedIdx >= len(final) {
		return 0, len(final) - 1
	}

	valid := func(lo, hi int) bool {
		lower := ""
		upper := ""
		if lo > 0 {
			lower = strings.TrimSpace(final[lo-1].OrderKey)
		}
		if hi+1 < len(final) {
			upper = strings.TrimSpace(final[hi+1].OrderKey)
		}
		if lower == "" || upper == "" {
			return true
		}
		if !(lower < upper) {
			return false
		}
		// Lexicographic order alone is not enough: prefix-adjacent bounds like
		// ("y", "y0") admit no key between them. Probe the generator instead.
		_, err := KeyBetween(lower, upper)
		return err == nil
	}

	for size := 1; size <= len(final); size++ {
		startMin := movedIdx - (size - 1)
		if startMin < 0 {
			startMin = 0
		}
		startMax := movedIdx
		if startMax+size > len(final) {
			startMax = len(final) - size
		}
		if preferRight {
			for lo := startMax; lo >= startMin; lo-- {
				hi := lo + size - 1
				if !(lo <= movedIdx && movedIdx <= hi) {
					continue
				}
				if valid(lo, hi) {
					return lo, hi
				}
			}
		} else {
			for lo := startMin; lo <= startMax; lo++ {
				hi := lo + size - 1
				if !(lo <= movedIdx && movedIdx <= hi) {
					continue
				}
				if valid(lo, hi) {
					return lo, hi
				}
			}
		}
	}
	return 0, len(final) - 1
}

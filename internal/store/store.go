package store

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"canopy/internal/model"
)

const storeDirName = ".canopy"

// DB is the in-memory workspace state. The SQLite state file is the source of
// truth; DB is loaded from it and written back wholesale.
type DB struct {
	Version          int                `json:"version"`
	CurrentUserID    string             `json:"currentUserId,omitempty"`
	ActiveDocumentID string             `json:"activeDocumentId,omitempty"`
	NextIDs          map[string]int     `json:"nextIds"`
	Collections      []model.Collection `json:"collections"`
	Documents        []model.Document   `json:"documents"`
	Memberships      []model.Membership `json:"memberships"`

	// Derived indexes for fast per-node lookups in the sidebar. Not persisted.
	idxBuilt             bool                        `json:"-"`
	idxChildrenByParent  map[string][]model.Document `json:"-"`
	idxRootsByCollection map[string][]model.Document `json:"-"`
}

type Store struct {
	Dir string
}

// DiscoverDir walks upward from start looking for a .canopy workspace dir.
func DiscoverDir(start string) (string, bool) {
	dir := start
	for {
		candidate := filepath.Join(dir, storeDirName)
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func DefaultDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if found, ok := DiscoverDir(cwd); ok {
		return found, nil
	}
	return filepath.Join(cwd, storeDirName), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

// Load reads the workspace state from the SQLite state file.
func (s Store) Load() (*DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	return s.LoadSQLite(context.Background())
}

// Save writes the workspace state back to the SQLite state file.
func (s Store) Save(ctx context.Context, db *DB) error {
	if err := s.Ensure(); err != nil {
		return err
	}
	return s.SaveSQLite(ctx, db)
}

func (db *DB) FindCollection(id string) (*model.Collection, bool) {
	id = strings.TrimSpace(id)
	for i := range db.Collections {
		if db.Collections[i].ID == id {
			return &db.Collections[i], true
		}
	}
	return nil, false
}

func (db *DB) FindDocument(id string) (*model.Document, bool) {
	id = strings.TrimSpace(id)
	for i := range db.Documents {
		if db.Documents[i].ID == id {
			return &db.Documents[i], true
		}
	}
	return nil, false
}

func (db *DB) ensureIndexes() {
	if db == nil || db.idxBuilt {
		return
	}
	db.idxChildrenByParent = map[string][]model.Document{}
	db.idxRootsByCollection = map[string][]model.Document{}

	for _, d := range db.Documents {
		if d.Archived {
			continue
		}
		if d.ParentID == nil || strings.TrimSpace(*d.ParentID) == "" {
			cid := strings.TrimSpace(d.CollectionID)
			if cid != "" {
				db.idxRootsByCollection[cid] = append(db.idxRootsByCollection[cid], d)
			}
			continue
		}
		pid := strings.TrimSpace(*d.ParentID)
		db.idxChildrenByParent[pid] = append(db.idxChildrenByParent[pid], d)
	}

	db.idxBuilt = true
}

// InvalidateIndexes must be called after mutating documents so derived
// child/root lookups are rebuilt on next access.
func (db *DB) InvalidateIndexes() {
	if db == nil {
		return
	}
	db.idxBuilt = false
	db.idxChildrenByParent = nil
	db.idxRootsByCollection = nil
}

func (db *DB) ChildrenOf(parentDocumentID string) []model.Document {
	if db == nil {
		return nil
	}
	db.ensureIndexes()
	return db.idxChildrenByParent[strings.TrimSpace(parentDocumentID)]
}

func (db *DB) RootDocuments(collectionID string) []model.Document {
	if db == nil {
		return nil
	}
	db.ensureIndexes()
	return db.idxRootsByCollection[strings.TrimSpace(collectionID)]
}

// SiblingSet returns pointers to the live sibling documents for a collection
// and (nullable) parent, so callers can apply planned key updates in place.
func (db *DB) SiblingSet(collectionID string, parentID *string) []*model.Document {
	if db == nil {
		return nil
	}
	collectionID = strings.TrimSpace(collectionID)
	pid := ""
	if parentID != nil {
		pid = strings.TrimSpace(*parentID)
	}
	var out []*model.Document
	for i := range db.Documents {
		d := &db.Documents[i]
		if d.Archived {
			continue
		}
		if strings.TrimSpace(d.CollectionID) != collectionID {
			continue
		}
		dpid := ""
		if d.ParentID != nil {
			dpid = strings.TrimSpace(*d.ParentID)
		}
		if dpid != pid {
			continue
		}
		out = append(out, d)
	}
	return out
}

// SortedCollections returns active collections in sidebar order.
func (db *DB) SortedCollections() []model.Collection {
	if db == nil {
		return nil
	}
	out := make([]model.Collection, 0, len(db.Collections))
	for _, c := range db.Collections {
		if c.Archived {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		ki := strings.TrimSpace(out[i].OrderKey)
		kj := strings.TrimSpace(out[j].OrderKey)
		if ki != "" && kj != "" && ki != kj {
			return ki < kj
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// StarredDocuments returns active starred documents across all collections.
func (db *DB) StarredDocuments() []model.Document {
	if db == nil {
		return nil
	}
	var out []model.Document
	for _, d := range db.Documents {
		if d.Archived || !d.Starred {
			continue
		}
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return compareDocumentsByKeyCreatedID(out[i], out[j]) < 0
	})
	return out
}

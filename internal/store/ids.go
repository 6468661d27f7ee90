package store

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
)

// newRandomID returns prefix-<suffix> where suffix is 8 chars of base32
// (lowercase, no padding). 8 chars base32 ~= 40 bits of space.
func newRandomID(prefix string) (string, error) {
	var b [5]byte // 40 bits -> 8 base32 chars
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	suffix := strings.ToLower(enc.EncodeToString(b[:]))
	return prefix + "-" + suffix, nil
}

func idExists(db *DB, id string) bool {
	for _, c := range db.Collections {
		if c.ID == id {
			return true
		}
	}
	for _, d := range db.Documents {
		if d.ID == id {
			return true
		}
	}
	return false
}

// NewID returns a fresh id with the given prefix ("doc", "col").
func (db *DB) NewID(prefix string) string {
	for i := 0; i < 32; i++ {
		id, err := newRandomID(prefix)
		if err != nil {
			break
		}
		if !idExists(db, id) {
			return id
		}
	}
	// Counter fallback if crypto/rand fails or collides repeatedly.
	if db.NextIDs == nil {
		db.NextIDs = map[string]int{}
	}
	db.NextIDs[prefix]++
	return fmt.Sprintf("%s-%d", prefix, db.NextIDs[prefix])
}

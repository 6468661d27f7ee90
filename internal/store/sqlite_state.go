package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"canopy/internal/model"

	_ "modernc.org/sqlite"
)

const sqliteFileName = "state.sqlite"

func (s Store) sqlitePath() string {
	return filepath.Join(s.Dir, sqliteFileName)
}

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if strings.TrimSpace(s.Dir) == "" {
		return nil, errors.New("store dir not set")
	}
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode=WAL;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// LoadSQLite loads the workspace state from the SQLite state file. A missing
// or empty file yields a fresh, usable DB.
func (s Store) LoadSQLite(ctx context.Context) (*DB, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if err := migrateSQLiteState(ctx, db); err != nil {
		return nil, err
	}
	return loadStateFromSQLite(ctx, db)
}

// SaveSQLite writes the full state transactionally. Replace-all writes keep
// the persistence contract simple: the state file always reflects exactly one
// in-memory DB (the §6 "atomic server-side operation" the engine relies on).
func (s Store) SaveSQLite(ctx context.Context, st *DB) error {
	if st == nil {
		return errors.New("nil db")
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrateSQLiteState(ctx, db); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	meta := map[string]string{
		"version":            fmt.Sprintf("%d", st.Version),
		"current_user_id":    strings.TrimSpace(st.CurrentUserID),
		"active_document_id": strings.TrimSpace(st.ActiveDocumentID),
	}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, k, v); err != nil {
			return err
		}
	}
	if raw, err := json.Marshal(st.NextIDs); err == nil {
		if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, "next_ids_json", string(raw)); err != nil {
			return err
		}
	}

	for _, t := range []string{"collections", "documents", "memberships"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+t); err != nil {
			return err
		}
	}

	nowMs := time.Now().UTC().UnixMilli()

	for _, c := range st.Collections {
		raw, _ := json.Marshal(c)
		access := ""
		if c.DefaultAccess != nil {
			access = strings.TrimSpace(*c.DefaultAccess)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO collections(id, name, order_key, default_access, archived, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.Name, strings.TrimSpace(c.OrderKey), access, boolToInt(c.Archived), string(raw), nowMs); err != nil {
			return err
		}
	}
	for _, d := range st.Documents {
		raw, _ := json.Marshal(d)
		parent := ""
		if d.ParentID != nil {
			parent = strings.TrimSpace(*d.ParentID)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO documents(
			id, collection_id, parent_id, order_key,
			title, starred, archived,
			json, updated_at_unixms
		) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			d.ID, d.CollectionID, parent, strings.TrimSpace(d.OrderKey),
			d.Title, boolToInt(d.Starred), boolToInt(d.Archived),
			string(raw), nowMs,
		); err != nil {
			return err
		}
	}
	for _, m := range st.Memberships {
		raw, _ := json.Marshal(m)
		if _, err := tx.ExecContext(ctx, `INSERT INTO memberships(collection_id, user_id, access, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?)`,
			m.CollectionID, m.UserID, strings.TrimSpace(m.Access), string(raw), nowMs); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func migrateSQLiteState(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS state_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS collections (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			order_key TEXT NOT NULL,
			default_access TEXT NOT NULL,
			archived INTEGER NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			collection_id TEXT NOT NULL,
			parent_id TEXT NOT NULL,
			order_key TEXT NOT NULL,
			title TEXT NOT NULL,
			starred INTEGER NOT NULL,
			archived INTEGER NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection_id);`,
		`CREATE INDEX IF NOT EXISTS idx_documents_parent ON documents(parent_id);`,
		`CREATE TABLE IF NOT EXISTS memberships (
			collection_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			access TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL,
			PRIMARY KEY (collection_id, user_id)
		);`,
	}
	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func loadStateFromSQLite(ctx context.Context, db *sql.DB) (*DB, error) {
	st := &DB{Version: 1, NextIDs: map[string]int{}}

	metaRows, err := db.QueryContext(ctx, `SELECT k, v FROM state_meta`)
	if err != nil {
		return nil, err
	}
	defer metaRows.Close()
	for metaRows.Next() {
		var k, v string
		if err := metaRows.Scan(&k, &v); err != nil {
			return nil, err
		}
		switch k {
		case "version":
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
				st.Version = n
			}
		case "current_user_id":
			st.CurrentUserID = strings.TrimSpace(v)
		case "active_document_id":
			st.ActiveDocumentID = strings.TrimSpace(v)
		case "next_ids_json":
			var m map[string]int
			if err := json.Unmarshal([]byte(v), &m); err == nil && m != nil {
				st.NextIDs = m
			}
		}
	}
	if err := metaRows.Err(); err != nil {
		return nil, err
	}

	if err := scanJSONRows(ctx, db, `SELECT json FROM collections`, func(raw []byte) error {
		var c model.Collection
		if err := json.Unmarshal(raw, &c); err != nil {
			return err
		}
		st.Collections = append(st.Collections, c)
		return nil
	}); err != nil {
		return nil, err
	}
	if err := scanJSONRows(ctx, db, `SELECT json FROM documents`, func(raw []byte) error {
		var d model.Document
		if err := json.Unmarshal(raw, &d); err != nil {
			return err
		}
		st.Documents = append(st.Documents, d)
		return nil
	}); err != nil {
		return nil, err
	}
	if err := scanJSONRows(ctx, db, `SELECT json FROM memberships`, func(raw []byte) error {
		var m model.Membership
		if err := json.Unmarshal(raw, &m); err != nil {
			return err
		}
		st.Memberships = append(st.Memberships, m)
		return nil
	}); err != nil {
		return nil, err
	}

	return st, nil
}

func scanJSONRows(ctx context.Context, db *sql.DB, query string, each func(raw []byte) error) error {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return err
		}
		if err := each([]byte(raw)); err != nil {
			return err
		}
	}
	return rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

package model

import "time"

// Access levels granted by a collection's DefaultAccess marker or by an
// explicit membership.
const (
	AccessRead      = "read"
	AccessReadWrite = "read_write"
)

type SortField string

const (
	SortByIndex   SortField = "index"
	SortByTitle   SortField = "title"
	SortByUpdated SortField = "updated"
)

// SortSpec describes how a collection orders its documents.
type SortSpec struct {
	Field SortField `json:"field,omitempty"`
	// Direction is "asc" or "desc". Empty means the field's natural direction
	// (asc for index/title, desc for updated).
	Direction string `json:"direction,omitempty"`
}

// Manual reports whether documents are ordered by their explicit order keys.
func (s SortSpec) Manual() bool {
	return s.Field == "" || s.Field == SortByIndex
}

type Collection struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// OrderKey positions the collection in the sidebar (lexicographic).
	OrderKey string `json:"orderKey,omitempty"`

	// DefaultAccess is the collection's restriction marker. Nil means the
	// collection is restricted: no default access, only explicit memberships
	// grant anything. Non-nil values are AccessRead or AccessReadWrite.
	DefaultAccess *string `json:"defaultAccess,omitempty"`

	Sort SortSpec `json:"sort"`

	CreatedBy string    `json:"createdBy,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Archived  bool      `json:"archived,omitempty"`
}

type Document struct {
	ID           string `json:"id"`
	CollectionID string `json:"collectionId"`

	// ParentID is nil for documents at the root of their collection.
	ParentID *string `json:"parentId,omitempty"`

	Title string `json:"title"`

	// OrderKey is the document's position among its siblings (lexicographic).
	// Meaningful only when the collection's sort is manual.
	OrderKey string `json:"orderKey,omitempty"`

	Text    string `json:"text,omitempty"`
	Starred bool   `json:"starred,omitempty"`

	CreatedBy string    `json:"createdBy,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Archived  bool      `json:"archived,omitempty"`
}

// Membership grants a user access to a restricted collection.
type Membership struct {
	CollectionID string    `json:"collectionId"`
	UserID       string    `json:"userId"`
	Access       string    `json:"access"`
	CreatedAt    time.Time `json:"createdAt"`
}

package domain

import (
	"slices"
	"time"
)

// Library is a named, user-owned collection of book references.
// The name is unique within the owner's libraries, not globally.
// Membership is a set ordered by insertion time.
type Library struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`      // Opaque handle (lib-…)
	UserID    string    `json:"user_id"` // Owning username
	Name      string    `json:"name"`
	BookIDs   []int64   `json:"book_ids"` // Insertion order
}

// ContainsBook reports whether a book is a member of this library.
func (l *Library) ContainsBook(bookID int64) bool {
	return slices.Contains(l.BookIDs, bookID)
}

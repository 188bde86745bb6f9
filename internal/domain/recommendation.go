package domain

import (
	"errors"
	"time"
)

// MaxRecommendationsPerReadBook caps how many distinct books a user may
// recommend for a single read book.
const MaxRecommendationsPerReadBook = 3

// ErrSelfRecommendation is returned when a recommendation points a book
// at itself.
var ErrSelfRecommendation = errors.New("a book cannot recommend itself")

// Recommendation is a directed suggestion from one book (read) to
// another (recommended), scoped to a library, made by a user.
// The quadruple (user, library, read, recommended) is the identity;
// only the comment is mutable after creation.
type Recommendation struct {
	CreatedAt         time.Time `json:"created_at"`
	UserID            string    `json:"user_id"`
	LibraryID         string    `json:"library_id"`
	ReadBookID        int64     `json:"read_book_id"`
	RecommendedBookID int64     `json:"recommended_book_id"`
	Comment           string    `json:"comment"`
}

// Validate checks the structural invariants of a recommendation.
func (r *Recommendation) Validate() error {
	if r.ReadBookID == r.RecommendedBookID {
		return ErrSelfRecommendation
	}
	return nil
}

// RecommendedBook is an aggregate row: a recommended book together with
// how many times it has been suggested for a given read book.
type RecommendedBook struct {
	BookID int64 `json:"book_id"`
	Count  int   `json:"count"`
}

// DetailedRecommendation joins a recommendation with human-readable
// titles and the library name for display.
type DetailedRecommendation struct {
	Recommendation
	LibraryName       string `json:"library_name"`
	ReadTitle         string `json:"read_title"`
	ReadAuthor        string `json:"read_author"`
	RecommendedTitle  string `json:"recommended_title"`
	RecommendedAuthor string `json:"recommended_author"`
}

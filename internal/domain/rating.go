package domain

import (
	"fmt"
	"time"
)

// Criterion identifies one of the five rating dimensions.
type Criterion string

// The five rating criteria.
const (
	CriterionStyle       Criterion = "style"
	CriterionContent     Criterion = "content"
	CriterionEnjoyment   Criterion = "enjoyment"
	CriterionOriginality Criterion = "originality"
	CriterionEdition     Criterion = "edition"
)

// Criteria lists all criteria in canonical order.
var Criteria = []Criterion{
	CriterionStyle,
	CriterionContent,
	CriterionEnjoyment,
	CriterionOriginality,
	CriterionEdition,
}

// Valid reports whether c is a known criterion.
func (c Criterion) Valid() bool {
	switch c {
	case CriterionStyle, CriterionContent, CriterionEnjoyment, CriterionOriginality, CriterionEdition:
		return true
	}
	return false
}

// Scores holds the five per-criterion scores, each in [1,5].
type Scores struct {
	Style       int `json:"style"`
	Content     int `json:"content"`
	Enjoyment   int `json:"enjoyment"`
	Originality int `json:"originality"`
	Edition     int `json:"edition"`
}

// Validate checks every score is in [1,5].
func (s Scores) Validate() error {
	for _, v := range []struct {
		criterion Criterion
		score     int
	}{
		{CriterionStyle, s.Style},
		{CriterionContent, s.Content},
		{CriterionEnjoyment, s.Enjoyment},
		{CriterionOriginality, s.Originality},
		{CriterionEdition, s.Edition},
	} {
		if v.score < 1 || v.score > 5 {
			return fmt.Errorf("%s score must be between 1 and 5, got %d", v.criterion, v.score)
		}
	}
	return nil
}

// Mean returns the arithmetic mean of the five scores.
func (s Scores) Mean() float64 {
	return float64(s.Style+s.Content+s.Enjoyment+s.Originality+s.Edition) / 5.0
}

// Get returns the score for a single criterion.
func (s Scores) Get(c Criterion) int {
	switch c {
	case CriterionStyle:
		return s.Style
	case CriterionContent:
		return s.Content
	case CriterionEnjoyment:
		return s.Enjoyment
	case CriterionOriginality:
		return s.Originality
	case CriterionEdition:
		return s.Edition
	}
	return 0
}

// Notes holds the free-text note accompanying each criterion score.
type Notes struct {
	Style       string `json:"style"`
	Content     string `json:"content"`
	Enjoyment   string `json:"enjoyment"`
	Originality string `json:"originality"`
	Edition     string `json:"edition"`
}

// Rating is a user's five-criterion evaluation of a single book,
// referencing the library through which the book was read.
// At most one rating exists per (user, book).
type Rating struct {
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	UserID       string    `json:"user_id"`
	BookID       int64     `json:"book_id"`
	LibraryID    string    `json:"library_id"`
	Scores       Scores    `json:"scores"`
	Notes        Notes     `json:"notes"`
	Overall      float64   `json:"overall"` // Arithmetic mean of the five scores
	FinalComment string    `json:"final_comment"`
}

// BookRatingSummary aggregates every rating of one book: the rating
// count, the overall average, and one average per criterion.
// All averages are 0.0 when the book has no ratings.
type BookRatingSummary struct {
	BookID             int64   `json:"book_id"`
	Count              int     `json:"count"`
	Overall            float64 `json:"overall"`
	AverageStyle       float64 `json:"average_style"`
	AverageContent     float64 `json:"average_content"`
	AverageEnjoyment   float64 `json:"average_enjoyment"`
	AverageOriginality float64 `json:"average_originality"`
	AverageEdition     float64 `json:"average_edition"`
}

// DetailedRating joins a rating with the book title/author and library
// name for display.
type DetailedRating struct {
	Rating
	BookTitle   string `json:"book_title"`
	BookAuthor  string `json:"book_author"`
	LibraryName string `json:"library_name"`
}

// Package store defines the persistence contract for the Bookhaven server
// and the error taxonomy shared by its implementations.
package store

import (
	"context"

	"github.com/bookhavenapp/bookhaven-server/internal/domain"
)

// Store is the persistence interface consumed by the business services.
// Implementations are stateless access objects: every method opens its
// own unit of work, and multi-step writes run inside a single
// transaction internally.
type Store interface {
	UserStore
	CatalogStore
	LibraryStore
	RecommendationStore
	RatingStore

	Close() error
}

// UserStore persists users.
type UserStore interface {
	// CreateUser inserts a new user.
	// Returns ErrUserExists when the username, email, or national id is taken.
	CreateUser(ctx context.Context, user *domain.User) error

	// GetUser retrieves a user by username.
	// Returns ErrUserNotFound if absent.
	GetUser(ctx context.Context, username string) (*domain.User, error)
}

// CatalogStore reads the Books catalog. Searches return an empty slice,
// never an error, when nothing matches.
type CatalogStore interface {
	GetBook(ctx context.Context, id int64) (*domain.Book, error)
	SearchBooksByTitle(ctx context.Context, title string) ([]*domain.Book, error)
	SearchBooksByAuthor(ctx context.Context, author string) ([]*domain.Book, error)
	SearchBooksByAuthorYear(ctx context.Context, author string, year int) ([]*domain.Book, error)

	// SeedBooks inserts catalog entries, skipping IDs that already
	// exist. Only the seed tool writes the catalog.
	SeedBooks(ctx context.Context, books []domain.Book) error
}

// LibraryStore persists libraries and their book membership.
type LibraryStore interface {
	// CreateLibrary inserts a new library. Uniqueness of (user, name) is
	// enforced by the store in a single statement; a duplicate returns
	// ErrLibraryExists.
	CreateLibrary(ctx context.Context, library *domain.Library) error

	// GetOrCreateLibrary returns the user's library with the given name,
	// creating it atomically if it does not exist.
	GetOrCreateLibrary(ctx context.Context, userID, name string) (*domain.Library, error)

	// GetLibrary retrieves a library by (owner, name) including its
	// member book IDs in insertion order.
	GetLibrary(ctx context.Context, userID, name string) (*domain.Library, error)

	// ResolveLibraryID returns the opaque library handle for (owner, name).
	// Returns ErrLibraryNotFound if absent; infrastructure faults propagate.
	ResolveLibraryID(ctx context.Context, userID, name string) (string, error)

	// LibraryNameExists reports whether the user already has a library
	// with the given name.
	LibraryNameExists(ctx context.Context, userID, name string) (bool, error)

	// DeleteLibrary removes a library by (owner, name); book
	// associations, recommendations, and ratings scoped to it are
	// removed by cascade.
	DeleteLibrary(ctx context.Context, userID, name string) error

	// ListLibraryNames returns the user's library names in creation order.
	ListLibraryNames(ctx context.Context, userID string) ([]string, error)

	// AddBookToLibrary adds a membership row; adding an existing member
	// is a no-op.
	AddBookToLibrary(ctx context.Context, libraryID string, bookID int64) error

	// RemoveBookFromLibrary deletes a membership row.
	// Returns ErrBookNotInLibrary when the book was not a member.
	RemoveBookFromLibrary(ctx context.Context, libraryID string, bookID int64) error

	// ListLibraryBooks returns member book IDs in insertion order.
	ListLibraryBooks(ctx context.Context, libraryID string) ([]int64, error)

	// IsBookInLibrary reports membership.
	IsBookInLibrary(ctx context.Context, libraryID string, bookID int64) (bool, error)
}

// RecommendationStore persists recommendations.
type RecommendationStore interface {
	// CreateRecommendation inserts a recommendation row.
	// Returns ErrRecommendationExists on a duplicate quadruple.
	CreateRecommendation(ctx context.Context, rec *domain.Recommendation) error

	// CountRecommendationsGiven returns how many distinct books the user
	// has recommended for the given read book, across all libraries.
	CountRecommendationsGiven(ctx context.Context, userID string, readBookID int64) (int, error)

	// FindRecommendedBooks returns the distinct recommended book IDs for
	// a (library, read book) pair.
	FindRecommendedBooks(ctx context.Context, libraryID string, readBookID int64) ([]int64, error)

	// FindRecommendedWithCount groups recommendations for a (library,
	// read book) pair by recommended book, ordered by descending count.
	FindRecommendedWithCount(ctx context.Context, libraryID string, readBookID int64) ([]domain.RecommendedBook, error)

	// FindRecommendedWithCountAll is FindRecommendedWithCount aggregated
	// across every library containing the read book.
	FindRecommendedWithCountAll(ctx context.Context, readBookID int64) ([]domain.RecommendedBook, error)

	// ListRecommendationsByUser returns the user's recommendations with
	// raw keys, comments, and timestamps.
	ListRecommendationsByUser(ctx context.Context, userID string) ([]*domain.Recommendation, error)

	// ListDetailedRecommendationsByUser joins in titles, authors, and
	// library names, ordered by library name, read title, recommended title.
	ListDetailedRecommendationsByUser(ctx context.Context, userID string) ([]*domain.DetailedRecommendation, error)

	// UpdateRecommendationComment replaces the comment of the
	// recommendation identified by its full key.
	// Returns ErrRecommendationNotFound when no row matches.
	UpdateRecommendationComment(ctx context.Context, userID, libraryID string, readBookID, recommendedBookID int64, comment string) error

	// DeleteRecommendation removes the recommendation identified by its
	// full key. Returns ErrRecommendationNotFound when no row matches.
	DeleteRecommendation(ctx context.Context, userID, libraryID string, readBookID, recommendedBookID int64) error
}

// RatingStore persists ratings and computes per-book aggregates.
// Aggregates treat "no matching rows" as a zero-valued result.
type RatingStore interface {
	// IsBookRated reports whether the user has already rated the book.
	IsBookRated(ctx context.Context, bookID int64, userID string) (bool, error)

	// CreateRating resolves-or-creates the named library and inserts the
	// rating in one transaction, filling rating.LibraryID.
	// Returns ErrRatingExists when the (user, book) pair is already rated.
	CreateRating(ctx context.Context, rating *domain.Rating, libraryName string) error

	// GetRating retrieves the rating for (user, book).
	GetRating(ctx context.Context, userID string, bookID int64) (*domain.Rating, error)

	// ListRatingsForBook returns every rating of a book.
	ListRatingsForBook(ctx context.Context, bookID int64) ([]*domain.Rating, error)

	// AverageOverall returns the mean overall score for a book, 0.0 when unrated.
	AverageOverall(ctx context.Context, bookID int64) (float64, error)

	// CountRatings returns the number of ratings for a book.
	CountRatings(ctx context.Context, bookID int64) (int, error)

	// AverageCriterion returns the mean score of one criterion for a
	// book, 0.0 when unrated.
	AverageCriterion(ctx context.Context, criterion domain.Criterion, bookID int64) (float64, error)

	// ListDetailedRatingsByUser joins in book title/author and library
	// name, ordered by book title.
	ListDetailedRatingsByUser(ctx context.Context, userID string) ([]*domain.DetailedRating, error)

	// UpdateRating replaces every mutable field of the (user, book)
	// rating. Returns ErrRatingNotFound when no row matches.
	UpdateRating(ctx context.Context, rating *domain.Rating) error

	// DeleteRating removes the rating for (user, book).
	// Returns ErrRatingNotFound when no row matches.
	DeleteRating(ctx context.Context, userID string, bookID int64) error
}

package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/bookhavenapp/bookhaven-server/internal/domain"
	"github.com/bookhavenapp/bookhaven-server/internal/store"
)

const recommendationColumns = `user_id, library_id, read_book_id, recommended_book_id, comment, created_at`

func scanRecommendation(scanner interface{ Scan(dest ...any) error }) (*domain.Recommendation, error) {
	var r domain.Recommendation
	var createdAt string

	err := scanner.Scan(
		&r.UserID,
		&r.LibraryID,
		&r.ReadBookID,
		&r.RecommendedBookID,
		&r.Comment,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	r.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &r, nil
}

// CreateRecommendation inserts a recommendation row.
// Returns store.ErrRecommendationExists on a duplicate quadruple.
func (s *Store) CreateRecommendation(ctx context.Context, rec *domain.Recommendation) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO recommendations (user_id, library_id, read_book_id, recommended_book_id, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.UserID, rec.LibraryID, rec.ReadBookID, rec.RecommendedBookID,
		rec.Comment, formatTime(rec.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrRecommendationExists
		}
		return err
	}
	return nil
}

// CountRecommendationsGiven returns how many distinct books the user has
// recommended for the given read book, across all their libraries.
func (s *Store) CountRecommendationsGiven(ctx context.Context, userID string, readBookID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT recommended_book_id) FROM recommendations
		WHERE user_id = ? AND read_book_id = ?`,
		userID, readBookID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// FindRecommendedBooks returns the distinct recommended book IDs for a
// (library, read book) pair, ordered by book id for stable output.
func (s *Store) FindRecommendedBooks(ctx context.Context, libraryID string, readBookID int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT recommended_book_id FROM recommendations
		WHERE library_id = ? AND read_book_id = ?
		ORDER BY recommended_book_id`,
		libraryID, readBookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookIDs := []int64{}
	for rows.Next() {
		var bookID int64
		if err := rows.Scan(&bookID); err != nil {
			return nil, err
		}
		bookIDs = append(bookIDs, bookID)
	}
	return bookIDs, rows.Err()
}

func collectRecommendedBooks(rows *sql.Rows) ([]domain.RecommendedBook, error) {
	defer rows.Close()

	books := []domain.RecommendedBook{}
	for rows.Next() {
		var rb domain.RecommendedBook
		if err := rows.Scan(&rb.BookID, &rb.Count); err != nil {
			return nil, err
		}
		books = append(books, rb)
	}
	return books, rows.Err()
}

// FindRecommendedWithCount groups recommendations for a (library, read
// book) pair by recommended book, most recommended first. Ties break on
// ascending book id.
func (s *Store) FindRecommendedWithCount(ctx context.Context, libraryID string, readBookID int64) ([]domain.RecommendedBook, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT recommended_book_id, COUNT(*) AS n FROM recommendations
		WHERE library_id = ? AND read_book_id = ?
		GROUP BY recommended_book_id
		ORDER BY n DESC, recommended_book_id`,
		libraryID, readBookID)
	if err != nil {
		return nil, err
	}
	return collectRecommendedBooks(rows)
}

// FindRecommendedWithCountAll aggregates recommendation counts for a
// read book across every library, most recommended first.
func (s *Store) FindRecommendedWithCountAll(ctx context.Context, readBookID int64) ([]domain.RecommendedBook, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT recommended_book_id, COUNT(*) AS n FROM recommendations
		WHERE read_book_id = ?
		GROUP BY recommended_book_id
		ORDER BY n DESC, recommended_book_id`,
		readBookID)
	if err != nil {
		return nil, err
	}
	return collectRecommendedBooks(rows)
}

// ListRecommendationsByUser returns the user's recommendations with raw
// keys, newest first.
func (s *Store) ListRecommendationsByUser(ctx context.Context, userID string) ([]*domain.Recommendation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recommendationColumns+` FROM recommendations
		WHERE user_id = ?
		ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recs := []*domain.Recommendation{}
	for rows.Next() {
		rec, err := scanRecommendation(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// ListDetailedRecommendationsByUser joins in titles, authors, and
// library names, ordered by library name, read title, recommended title.
func (s *Store) ListDetailedRecommendationsByUser(ctx context.Context, userID string) ([]*domain.DetailedRecommendation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.user_id, r.library_id, r.read_book_id, r.recommended_book_id,
		       r.comment, r.created_at,
		       l.name, rb.title, rb.author, cb.title, cb.author
		FROM recommendations r
		JOIN libraries l ON l.id = r.library_id
		JOIN books rb ON rb.id = r.read_book_id
		JOIN books cb ON cb.id = r.recommended_book_id
		WHERE r.user_id = ?
		ORDER BY l.name, rb.title, cb.title`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recs := []*domain.DetailedRecommendation{}
	for rows.Next() {
		var d domain.DetailedRecommendation
		var createdAt string
		err := rows.Scan(
			&d.UserID, &d.LibraryID, &d.ReadBookID, &d.RecommendedBookID,
			&d.Comment, &createdAt,
			&d.LibraryName, &d.ReadTitle, &d.ReadAuthor,
			&d.RecommendedTitle, &d.RecommendedAuthor,
		)
		if err != nil {
			return nil, err
		}
		d.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		recs = append(recs, &d)
	}
	return recs, rows.Err()
}

// UpdateRecommendationComment replaces the comment of the recommendation
// identified by its full key.
// Returns store.ErrRecommendationNotFound when no row matches.
func (s *Store) UpdateRecommendationComment(ctx context.Context, userID, libraryID string, readBookID, recommendedBookID int64, comment string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE recommendations SET comment = ?
		WHERE user_id = ? AND library_id = ? AND read_book_id = ? AND recommended_book_id = ?`,
		comment, userID, libraryID, readBookID, recommendedBookID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrRecommendationNotFound
	}
	return nil
}

// DeleteRecommendation removes the recommendation identified by its full
// key. Returns store.ErrRecommendationNotFound when no row matches.
func (s *Store) DeleteRecommendation(ctx context.Context, userID, libraryID string, readBookID, recommendedBookID int64) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM recommendations
		WHERE user_id = ? AND library_id = ? AND read_book_id = ? AND recommended_book_id = ?`,
		userID, libraryID, readBookID, recommendedBookID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrRecommendationNotFound
	}
	return nil
}

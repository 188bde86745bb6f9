package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bookhavenapp/bookhaven-server/internal/domain"
	"github.com/bookhavenapp/bookhaven-server/internal/store"
)

const ratingColumns = `user_id, book_id, library_id,
	style_score, content_score, enjoyment_score, originality_score, edition_score,
	style_note, content_note, enjoyment_note, originality_note, edition_note,
	overall, final_comment, created_at, updated_at`

func scanRating(scanner interface{ Scan(dest ...any) error }) (*domain.Rating, error) {
	var r domain.Rating
	var createdAt, updatedAt string

	err := scanner.Scan(
		&r.UserID, &r.BookID, &r.LibraryID,
		&r.Scores.Style, &r.Scores.Content, &r.Scores.Enjoyment,
		&r.Scores.Originality, &r.Scores.Edition,
		&r.Notes.Style, &r.Notes.Content, &r.Notes.Enjoyment,
		&r.Notes.Originality, &r.Notes.Edition,
		&r.Overall, &r.FinalComment, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if r.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &r, nil
}

// criterionColumn maps a criterion to its score column. The whitelist
// keeps criterion values out of SQL string building.
func criterionColumn(c domain.Criterion) (string, error) {
	switch c {
	case domain.CriterionStyle:
		return "style_score", nil
	case domain.CriterionContent:
		return "content_score", nil
	case domain.CriterionEnjoyment:
		return "enjoyment_score", nil
	case domain.CriterionOriginality:
		return "originality_score", nil
	case domain.CriterionEdition:
		return "edition_score", nil
	}
	return "", fmt.Errorf("unknown criterion %q", c)
}

// IsBookRated reports whether the user has already rated the book.
func (s *Store) IsBookRated(ctx context.Context, bookID int64, userID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM ratings WHERE user_id = ? AND book_id = ?)`,
		userID, bookID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// CreateRating resolves-or-creates the named library and inserts the
// rating in one transaction, filling rating.LibraryID.
// Returns store.ErrRatingExists when the (user, book) pair is rated already.
func (s *Store) CreateRating(ctx context.Context, rating *domain.Rating, libraryName string) error {
	now := time.Now().UTC()
	if rating.CreatedAt.IsZero() {
		rating.CreatedAt = now
	}
	if rating.UpdatedAt.IsZero() {
		rating.UpdatedAt = now
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	library, err := getOrCreateLibraryTx(ctx, tx, rating.UserID, libraryName)
	if err != nil {
		return err
	}
	rating.LibraryID = library.ID

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ratings (user_id, book_id, library_id,
			style_score, content_score, enjoyment_score, originality_score, edition_score,
			style_note, content_note, enjoyment_note, originality_note, edition_note,
			overall, final_comment, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rating.UserID, rating.BookID, rating.LibraryID,
		rating.Scores.Style, rating.Scores.Content, rating.Scores.Enjoyment,
		rating.Scores.Originality, rating.Scores.Edition,
		rating.Notes.Style, rating.Notes.Content, rating.Notes.Enjoyment,
		rating.Notes.Originality, rating.Notes.Edition,
		rating.Overall, rating.FinalComment,
		formatTime(rating.CreatedAt), formatTime(rating.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrRatingExists
		}
		return err
	}

	return tx.Commit()
}

// GetRating retrieves the rating for (user, book).
// Returns store.ErrRatingNotFound if absent.
func (s *Store) GetRating(ctx context.Context, userID string, bookID int64) (*domain.Rating, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+ratingColumns+` FROM ratings WHERE user_id = ? AND book_id = ?`,
		userID, bookID)

	rating, err := scanRating(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrRatingNotFound
	}
	if err != nil {
		return nil, err
	}
	return rating, nil
}

// ListRatingsForBook returns every rating of a book, newest first.
func (s *Store) ListRatingsForBook(ctx context.Context, bookID int64) ([]*domain.Rating, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+ratingColumns+` FROM ratings
		WHERE book_id = ?
		ORDER BY created_at DESC`,
		bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ratings := []*domain.Rating{}
	for rows.Next() {
		rating, err := scanRating(rows)
		if err != nil {
			return nil, err
		}
		ratings = append(ratings, rating)
	}
	return ratings, rows.Err()
}

// AverageOverall returns the mean overall score for a book, 0.0 when the
// book has no ratings.
func (s *Store) AverageOverall(ctx context.Context, bookID int64) (float64, error) {
	var avg float64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(AVG(overall), 0) FROM ratings WHERE book_id = ?`,
		bookID).Scan(&avg)
	if err != nil {
		return 0, err
	}
	return avg, nil
}

// CountRatings returns the number of ratings for a book.
func (s *Store) CountRatings(ctx context.Context, bookID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM ratings WHERE book_id = ?`,
		bookID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// AverageCriterion returns the mean score of one criterion for a book,
// 0.0 when the book has no ratings.
func (s *Store) AverageCriterion(ctx context.Context, criterion domain.Criterion, bookID int64) (float64, error) {
	column, err := criterionColumn(criterion)
	if err != nil {
		return 0, err
	}

	var avg float64
	err = s.db.QueryRowContext(ctx,
		`SELECT COALESCE(AVG(`+column+`), 0) FROM ratings WHERE book_id = ?`,
		bookID).Scan(&avg)
	if err != nil {
		return 0, err
	}
	return avg, nil
}

// ListDetailedRatingsByUser joins in book title/author and library name,
// ordered by book title.
func (s *Store) ListDetailedRatingsByUser(ctx context.Context, userID string) ([]*domain.DetailedRating, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.user_id, r.book_id, r.library_id,
		       r.style_score, r.content_score, r.enjoyment_score, r.originality_score, r.edition_score,
		       r.style_note, r.content_note, r.enjoyment_note, r.originality_note, r.edition_note,
		       r.overall, r.final_comment, r.created_at, r.updated_at,
		       b.title, b.author, l.name
		FROM ratings r
		JOIN books b ON b.id = r.book_id
		JOIN libraries l ON l.id = r.library_id
		WHERE r.user_id = ?
		ORDER BY b.title`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ratings := []*domain.DetailedRating{}
	for rows.Next() {
		var d domain.DetailedRating
		var createdAt, updatedAt string
		err := rows.Scan(
			&d.UserID, &d.BookID, &d.LibraryID,
			&d.Scores.Style, &d.Scores.Content, &d.Scores.Enjoyment,
			&d.Scores.Originality, &d.Scores.Edition,
			&d.Notes.Style, &d.Notes.Content, &d.Notes.Enjoyment,
			&d.Notes.Originality, &d.Notes.Edition,
			&d.Overall, &d.FinalComment, &createdAt, &updatedAt,
			&d.BookTitle, &d.BookAuthor, &d.LibraryName,
		)
		if err != nil {
			return nil, err
		}
		if d.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if d.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		ratings = append(ratings, &d)
	}
	return ratings, rows.Err()
}

// UpdateRating replaces every mutable field of the (user, book) rating
// and bumps updated_at. Returns store.ErrRatingNotFound when no row matches.
func (s *Store) UpdateRating(ctx context.Context, rating *domain.Rating) error {
	rating.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE ratings SET
			style_score = ?, content_score = ?, enjoyment_score = ?,
			originality_score = ?, edition_score = ?,
			style_note = ?, content_note = ?, enjoyment_note = ?,
			originality_note = ?, edition_note = ?,
			overall = ?, final_comment = ?, updated_at = ?
		WHERE user_id = ? AND book_id = ?`,
		rating.Scores.Style, rating.Scores.Content, rating.Scores.Enjoyment,
		rating.Scores.Originality, rating.Scores.Edition,
		rating.Notes.Style, rating.Notes.Content, rating.Notes.Enjoyment,
		rating.Notes.Originality, rating.Notes.Edition,
		rating.Overall, rating.FinalComment, formatTime(rating.UpdatedAt),
		rating.UserID, rating.BookID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrRatingNotFound
	}
	return nil
}

// DeleteRating removes the rating for (user, book).
// Returns store.ErrRatingNotFound when no row matches.
func (s *Store) DeleteRating(ctx context.Context, userID string, bookID int64) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM ratings WHERE user_id = ? AND book_id = ?`,
		userID, bookID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrRatingNotFound
	}
	return nil
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/bookhavenapp/bookhaven-server/internal/domain"
	"github.com/bookhavenapp/bookhaven-server/internal/id"
	"github.com/bookhavenapp/bookhaven-server/internal/store"
)

const libraryColumns = `id, user_id, name, created_at`

func scanLibrary(scanner interface{ Scan(dest ...any) error }) (*domain.Library, error) {
	var l domain.Library
	var createdAt string

	err := scanner.Scan(&l.ID, &l.UserID, &l.Name, &createdAt)
	if err != nil {
		return nil, err
	}

	l.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &l, nil
}

// CreateLibrary inserts a new library for its owner.
// Returns store.ErrLibraryExists when the owner already has a library
// with the same name.
func (s *Store) CreateLibrary(ctx context.Context, library *domain.Library) error {
	if library.ID == "" {
		libraryID, err := id.Generate("lib")
		if err != nil {
			return err
		}
		library.ID = libraryID
	}
	if library.CreatedAt.IsZero() {
		library.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO libraries (id, user_id, name, created_at)
		VALUES (?, ?, ?, ?)`,
		library.ID, library.UserID, library.Name, formatTime(library.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrLibraryExists
		}
		return err
	}
	return nil
}

// GetOrCreateLibrary returns the user's library with the given name,
// creating it if absent. The insert-or-ignore plus select runs in one
// transaction so concurrent callers converge on the same row.
func (s *Store) GetOrCreateLibrary(ctx context.Context, userID, name string) (*domain.Library, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	library, err := getOrCreateLibraryTx(ctx, tx, userID, name)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return library, nil
}

// getOrCreateLibraryTx is the transaction-scoped body of
// GetOrCreateLibrary, shared with the rating write path.
func getOrCreateLibraryTx(ctx context.Context, q dbtx, userID, name string) (*domain.Library, error) {
	libraryID, err := id.Generate("lib")
	if err != nil {
		return nil, err
	}

	_, err = q.ExecContext(ctx, `
		INSERT OR IGNORE INTO libraries (id, user_id, name, created_at)
		VALUES (?, ?, ?, ?)`,
		libraryID, userID, name, formatTime(time.Now().UTC()),
	)
	if err != nil {
		return nil, err
	}

	row := q.QueryRowContext(ctx,
		`SELECT `+libraryColumns+` FROM libraries WHERE user_id = ? AND name = ?`,
		userID, name)
	return scanLibrary(row)
}

// GetLibrary retrieves a library by owner and name, including its member
// book IDs in insertion order.
// Returns store.ErrLibraryNotFound if absent.
func (s *Store) GetLibrary(ctx context.Context, userID, name string) (*domain.Library, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+libraryColumns+` FROM libraries WHERE user_id = ? AND name = ?`,
		userID, name)

	library, err := scanLibrary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrLibraryNotFound
	}
	if err != nil {
		return nil, err
	}

	library.BookIDs, err = s.ListLibraryBooks(ctx, library.ID)
	if err != nil {
		return nil, err
	}
	return library, nil
}

// ResolveLibraryID returns the opaque handle for (owner, name).
// Returns store.ErrLibraryNotFound if absent.
func (s *Store) ResolveLibraryID(ctx context.Context, userID, name string) (string, error) {
	var libraryID string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM libraries WHERE user_id = ? AND name = ?`,
		userID, name).Scan(&libraryID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", store.ErrLibraryNotFound
	}
	if err != nil {
		return "", err
	}
	return libraryID, nil
}

// LibraryNameExists reports whether the user already has a library with
// the given name.
func (s *Store) LibraryNameExists(ctx context.Context, userID, name string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM libraries WHERE user_id = ? AND name = ?)`,
		userID, name).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// DeleteLibrary removes a library by owner and name. Membership rows,
// recommendations, and ratings scoped to it go with it by cascade.
// Returns store.ErrLibraryNotFound when no row matches.
func (s *Store) DeleteLibrary(ctx context.Context, userID, name string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM libraries WHERE user_id = ? AND name = ?`, userID, name)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrLibraryNotFound
	}
	return nil
}

// ListLibraryNames returns the user's library names in creation order.
func (s *Store) ListLibraryNames(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM libraries WHERE user_id = ? ORDER BY created_at, name`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// AddBookToLibrary records membership. Adding a book that is already a
// member is a no-op.
func (s *Store) AddBookToLibrary(ctx context.Context, libraryID string, bookID int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO library_books (library_id, book_id, added_at)
		VALUES (?, ?, ?)`,
		libraryID, bookID, formatTime(time.Now().UTC()),
	)
	return err
}

// RemoveBookFromLibrary deletes a membership row.
// Returns store.ErrBookNotInLibrary when the book was not a member.
func (s *Store) RemoveBookFromLibrary(ctx context.Context, libraryID string, bookID int64) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM library_books WHERE library_id = ? AND book_id = ?`,
		libraryID, bookID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrBookNotInLibrary
	}
	return nil
}

// ListLibraryBooks returns member book IDs in insertion order.
func (s *Store) ListLibraryBooks(ctx context.Context, libraryID string) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT book_id FROM library_books
		WHERE library_id = ?
		ORDER BY added_at, book_id`,
		libraryID)
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

// IsBookInLibrary reports membership.
func (s *Store) IsBookInLibrary(ctx context.Context, libraryID string, bookID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM library_books WHERE library_id = ? AND book_id = ?)`,
		libraryID, bookID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

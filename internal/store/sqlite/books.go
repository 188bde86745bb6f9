package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/bookhavenapp/bookhaven-server/internal/domain"
	"github.com/bookhavenapp/bookhaven-server/internal/store"
)

// bookColumns is the ordered list of columns selected in book queries.
// Must match the scan order in scanBook.
const bookColumns = `id, title, author, year`

// scanBook scans a sql.Row (or sql.Rows via its Scan method) into a domain.Book.
func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.Book, error) {
	var b domain.Book
	if err := scanner.Scan(&b.ID, &b.Title, &b.Author, &b.Year); err != nil {
		return nil, err
	}
	return &b, nil
}

// queryBooks runs a book query and collects the results.
func (s *Store) queryBooks(ctx context.Context, query string, args ...any) ([]*domain.Book, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []*domain.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}

// GetBook retrieves a catalog entry by exact id.
// Returns store.ErrBookNotFound if absent.
func (s *Store) GetBook(ctx context.Context, id int64) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = ?`, id)

	b, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// SearchBooksByTitle returns catalog entries whose title contains the
// given text, case-insensitively, ordered alphabetically by title.
// An empty result is a valid outcome, not an error.
func (s *Store) SearchBooksByTitle(ctx context.Context, title string) ([]*domain.Book, error) {
	return s.queryBooks(ctx, `
		SELECT `+bookColumns+` FROM books
		WHERE title LIKE '%' || ? || '%' COLLATE NOCASE
		ORDER BY title`, title)
}

// SearchBooksByAuthor returns catalog entries whose author contains the
// given text, case-insensitively, ordered alphabetically by title.
func (s *Store) SearchBooksByAuthor(ctx context.Context, author string) ([]*domain.Book, error) {
	return s.queryBooks(ctx, `
		SELECT `+bookColumns+` FROM books
		WHERE author LIKE '%' || ? || '%' COLLATE NOCASE
		ORDER BY title`, author)
}

// SearchBooksByAuthorYear narrows the author search to an exact
// publication year.
func (s *Store) SearchBooksByAuthorYear(ctx context.Context, author string, year int) ([]*domain.Book, error) {
	return s.queryBooks(ctx, `
		SELECT `+bookColumns+` FROM books
		WHERE author LIKE '%' || ? || '%' COLLATE NOCASE AND year = ?
		ORDER BY title`, author, year)
}

// SeedBooks inserts catalog entries, skipping IDs that already exist.
// Used by the seed tool; the catalog is read-only everywhere else.
func (s *Store) SeedBooks(ctx context.Context, books []domain.Book) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, b := range books {
		_, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO books (id, title, author, year)
			VALUES (?, ?, ?, ?)`,
			b.ID, b.Title, b.Author, b.Year,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

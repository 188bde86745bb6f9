package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/bookhavenapp/bookhaven-server/internal/store"
)

func TestGetBook(t *testing.T) {
	s := newTestStore(t)
	seedTestBooks(t, s)
	ctx := context.Background()

	b, err := s.GetBook(ctx, 1)
	if err != nil {
		t.Fatalf("GetBook() error = %v", err)
	}
	if b.Title != "The Name of the Rose" {
		t.Errorf("Title = %q, want %q", b.Title, "The Name of the Rose")
	}
	if b.Author != "Umberto Eco" {
		t.Errorf("Author = %q, want %q", b.Author, "Umberto Eco")
	}
	if b.Year != 1980 {
		t.Errorf("Year = %d, want 1980", b.Year)
	}
}

func TestGetBookNotFound(t *testing.T) {
	s := newTestStore(t)
	seedTestBooks(t, s)

	_, err := s.GetBook(context.Background(), 999)
	if !errors.Is(err, store.ErrBookNotFound) {
		t.Errorf("GetBook() error = %v, want ErrBookNotFound", err)
	}
}

func TestSearchBooksByTitle(t *testing.T) {
	s := newTestStore(t)
	seedTestBooks(t, s)
	ctx := context.Background()

	books, err := s.SearchBooksByTitle(ctx, "the")
	if err != nil {
		t.Fatalf("SearchBooksByTitle() error = %v", err)
	}
	// "The Castle", "The Name of the Rose", "The Trial", alphabetical.
	if len(books) != 3 {
		t.Fatalf("got %d books, want 3", len(books))
	}
	if books[0].Title != "The Castle" || books[2].Title != "The Trial" {
		t.Errorf("unexpected order: %q .. %q", books[0].Title, books[2].Title)
	}
}

func TestSearchBooksByTitleNoMatch(t *testing.T) {
	s := newTestStore(t)
	seedTestBooks(t, s)

	books, err := s.SearchBooksByTitle(context.Background(), "zzz")
	if err != nil {
		t.Fatalf("SearchBooksByTitle() error = %v", err)
	}
	if len(books) != 0 {
		t.Errorf("got %d books, want 0", len(books))
	}
}

func TestSearchBooksByAuthor(t *testing.T) {
	s := newTestStore(t)
	seedTestBooks(t, s)

	books, err := s.SearchBooksByAuthor(context.Background(), "kafka")
	if err != nil {
		t.Fatalf("SearchBooksByAuthor() error = %v", err)
	}
	if len(books) != 2 {
		t.Fatalf("got %d books, want 2", len(books))
	}
	for _, b := range books {
		if b.Author != "Franz Kafka" {
			t.Errorf("Author = %q, want %q", b.Author, "Franz Kafka")
		}
	}
}

func TestSearchBooksByAuthorYear(t *testing.T) {
	s := newTestStore(t)
	seedTestBooks(t, s)

	books, err := s.SearchBooksByAuthorYear(context.Background(), "eco", 1988)
	if err != nil {
		t.Fatalf("SearchBooksByAuthorYear() error = %v", err)
	}
	if len(books) != 1 {
		t.Fatalf("got %d books, want 1", len(books))
	}
	if books[0].Title != "Foucault's Pendulum" {
		t.Errorf("Title = %q, want %q", books[0].Title, "Foucault's Pendulum")
	}
}

func TestSeedBooksIdempotent(t *testing.T) {
	s := newTestStore(t)
	seedTestBooks(t, s)
	seedTestBooks(t, s)

	books, err := s.SearchBooksByAuthor(context.Background(), "eco")
	if err != nil {
		t.Fatalf("SearchBooksByAuthor() error = %v", err)
	}
	if len(books) != 3 {
		t.Errorf("got %d books after double seed, want 3", len(books))
	}
}

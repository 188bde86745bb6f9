package sqlite

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bookhavenapp/bookhaven-server/internal/domain"
	"github.com/bookhavenapp/bookhaven-server/internal/store"
)

func TestCreateLibraryAndGet(t *testing.T) {
	s := newTestStore(t)
	seedTestBooks(t, s)
	ctx := context.Background()
	createTestUser(t, s, "alice")

	lib := &domain.Library{UserID: "alice", Name: "sci-fi"}
	if err := s.CreateLibrary(ctx, lib); err != nil {
		t.Fatalf("CreateLibrary() error = %v", err)
	}
	if lib.ID == "" {
		t.Fatal("CreateLibrary() did not assign an ID")
	}

	got, err := s.GetLibrary(ctx, "alice", "sci-fi")
	if err != nil {
		t.Fatalf("GetLibrary() error = %v", err)
	}
	if got.ID != lib.ID {
		t.Errorf("ID = %q, want %q", got.ID, lib.ID)
	}
	if len(got.BookIDs) != 0 {
		t.Errorf("new library has %d books, want 0", len(got.BookIDs))
	}
}

func TestCreateLibraryDuplicateName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	createTestUser(t, s, "alice")
	createTestUser(t, s, "bob")

	if err := s.CreateLibrary(ctx, &domain.Library{UserID: "alice", Name: "favorites"}); err != nil {
		t.Fatalf("CreateLibrary() error = %v", err)
	}

	err := s.CreateLibrary(ctx, &domain.Library{UserID: "alice", Name: "favorites"})
	if !errors.Is(err, store.ErrLibraryExists) {
		t.Errorf("duplicate CreateLibrary() error = %v, want ErrLibraryExists", err)
	}

	// Same name under a different owner is fine.
	if err := s.CreateLibrary(ctx, &domain.Library{UserID: "bob", Name: "favorites"}); err != nil {
		t.Errorf("CreateLibrary() for other user error = %v", err)
	}
}

func TestGetOrCreateLibrary(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	createTestUser(t, s, "alice")

	first, err := s.GetOrCreateLibrary(ctx, "alice", "thrillers")
	if err != nil {
		t.Fatalf("GetOrCreateLibrary() error = %v", err)
	}

	second, err := s.GetOrCreateLibrary(ctx, "alice", "thrillers")
	if err != nil {
		t.Fatalf("second GetOrCreateLibrary() error = %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("got two different libraries: %q vs %q", first.ID, second.ID)
	}
}

func TestGetOrCreateLibraryConcurrent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	createTestUser(t, s, "alice")

	const n = 8
	ids := make([]string, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			lib, err := s.GetOrCreateLibrary(ctx, "alice", "shared")
			if err != nil {
				errs[i] = err
				return
			}
			ids[i] = lib.ID
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("goroutine %d: %v", i, errs[i])
		}
		if ids[i] != ids[0] {
			t.Errorf("goroutine %d got library %q, want %q", i, ids[i], ids[0])
		}
	}

	names, err := s.ListLibraryNames(ctx, "alice")
	if err != nil {
		t.Fatalf("ListLibraryNames() error = %v", err)
	}
	if len(names) != 1 {
		t.Errorf("got %d libraries, want exactly 1", len(names))
	}
}

func TestResolveLibraryID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	createTestUser(t, s, "alice")

	lib := &domain.Library{UserID: "alice", Name: "poetry"}
	if err := s.CreateLibrary(ctx, lib); err != nil {
		t.Fatalf("CreateLibrary() error = %v", err)
	}

	id, err := s.ResolveLibraryID(ctx, "alice", "poetry")
	if err != nil {
		t.Fatalf("ResolveLibraryID() error = %v", err)
	}
	if id != lib.ID {
		t.Errorf("ResolveLibraryID() = %q, want %q", id, lib.ID)
	}

	_, err = s.ResolveLibraryID(ctx, "alice", "missing")
	if !errors.Is(err, store.ErrLibraryNotFound) {
		t.Errorf("ResolveLibraryID() error = %v, want ErrLibraryNotFound", err)
	}
}

func TestLibraryNameExists(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	createTestUser(t, s, "alice")

	exists, err := s.LibraryNameExists(ctx, "alice", "poetry")
	if err != nil {
		t.Fatalf("LibraryNameExists() error = %v", err)
	}
	if exists {
		t.Error("LibraryNameExists() = true before creation")
	}

	if err := s.CreateLibrary(ctx, &domain.Library{UserID: "alice", Name: "poetry"}); err != nil {
		t.Fatalf("CreateLibrary() error = %v", err)
	}

	exists, err = s.LibraryNameExists(ctx, "alice", "poetry")
	if err != nil {
		t.Fatalf("LibraryNameExists() error = %v", err)
	}
	if !exists {
		t.Error("LibraryNameExists() = false after creation")
	}
}

func TestDeleteLibraryCascades(t *testing.T) {
	s := newTestStore(t)
	seedTestBooks(t, s)
	ctx := context.Background()
	createTestUser(t, s, "alice")

	lib := &domain.Library{UserID: "alice", Name: "classics"}
	if err := s.CreateLibrary(ctx, lib); err != nil {
		t.Fatalf("CreateLibrary() error = %v", err)
	}
	if err := s.AddBookToLibrary(ctx, lib.ID, 1); err != nil {
		t.Fatalf("AddBookToLibrary() error = %v", err)
	}
	rec := &domain.Recommendation{UserID: "alice", LibraryID: lib.ID, ReadBookID: 1, RecommendedBookID: 2}
	if err := s.CreateRecommendation(ctx, rec); err != nil {
		t.Fatalf("CreateRecommendation() error = %v", err)
	}

	if err := s.DeleteLibrary(ctx, "alice", "classics"); err != nil {
		t.Fatalf("DeleteLibrary() error = %v", err)
	}

	_, err := s.GetLibrary(ctx, "alice", "classics")
	if !errors.Is(err, store.ErrLibraryNotFound) {
		t.Errorf("GetLibrary() after delete error = %v, want ErrLibraryNotFound", err)
	}

	recs, err := s.ListRecommendationsByUser(ctx, "alice")
	if err != nil {
		t.Fatalf("ListRecommendationsByUser() error = %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("got %d recommendations after cascade, want 0", len(recs))
	}
}

func TestDeleteLibraryNotFound(t *testing.T) {
	s := newTestStore(t)
	createTestUser(t, s, "alice")

	err := s.DeleteLibrary(context.Background(), "alice", "nope")
	if !errors.Is(err, store.ErrLibraryNotFound) {
		t.Errorf("DeleteLibrary() error = %v, want ErrLibraryNotFound", err)
	}
}

func TestListLibraryNamesCreationOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	createTestUser(t, s, "alice")

	base := time.Now().UTC()
	for i, name := range []string{"zeta", "alpha", "mid"} {
		lib := &domain.Library{
			UserID:    "alice",
			Name:      name,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := s.CreateLibrary(ctx, lib); err != nil {
			t.Fatalf("CreateLibrary(%q) error = %v", name, err)
		}
	}

	names, err := s.ListLibraryNames(ctx, "alice")
	if err != nil {
		t.Fatalf("ListLibraryNames() error = %v", err)
	}
	want := []string{"zeta", "alpha", "mid"}
	if len(names) != len(want) {
		t.Fatalf("got %d names, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestAddBookToLibraryIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	seedTestBooks(t, s)
	ctx := context.Background()
	createTestUser(t, s, "alice")

	lib := &domain.Library{UserID: "alice", Name: "reading"}
	if err := s.CreateLibrary(ctx, lib); err != nil {
		t.Fatalf("CreateLibrary() error = %v", err)
	}

	if err := s.AddBookToLibrary(ctx, lib.ID, 1); err != nil {
		t.Fatalf("AddBookToLibrary() error = %v", err)
	}
	if err := s.AddBookToLibrary(ctx, lib.ID, 1); err != nil {
		t.Fatalf("second AddBookToLibrary() error = %v", err)
	}

	books, err := s.ListLibraryBooks(ctx, lib.ID)
	if err != nil {
		t.Fatalf("ListLibraryBooks() error = %v", err)
	}
	if len(books) != 1 {
		t.Errorf("got %d books, want 1", len(books))
	}
}

func TestRemoveBookFromLibrary(t *testing.T) {
	s := newTestStore(t)
	seedTestBooks(t, s)
	ctx := context.Background()
	createTestUser(t, s, "alice")

	lib := &domain.Library{UserID: "alice", Name: "reading"}
	if err := s.CreateLibrary(ctx, lib); err != nil {
		t.Fatalf("CreateLibrary() error = %v", err)
	}
	if err := s.AddBookToLibrary(ctx, lib.ID, 1); err != nil {
		t.Fatalf("AddBookToLibrary() error = %v", err)
	}

	if err := s.RemoveBookFromLibrary(ctx, lib.ID, 1); err != nil {
		t.Fatalf("RemoveBookFromLibrary() error = %v", err)
	}

	err := s.RemoveBookFromLibrary(ctx, lib.ID, 1)
	if !errors.Is(err, store.ErrBookNotInLibrary) {
		t.Errorf("RemoveBookFromLibrary() error = %v, want ErrBookNotInLibrary", err)
	}
}

func TestListLibraryBooksInsertionOrder(t *testing.T) {
	s := newTestStore(t)
	seedTestBooks(t, s)
	ctx := context.Background()
	createTestUser(t, s, "alice")

	lib := &domain.Library{UserID: "alice", Name: "reading"}
	if err := s.CreateLibrary(ctx, lib); err != nil {
		t.Fatalf("CreateLibrary() error = %v", err)
	}

	for _, bookID := range []int64{3, 1, 5} {
		if err := s.AddBookToLibrary(ctx, lib.ID, bookID); err != nil {
			t.Fatalf("AddBookToLibrary(%d) error = %v", bookID, err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	books, err := s.ListLibraryBooks(ctx, lib.ID)
	if err != nil {
		t.Fatalf("ListLibraryBooks() error = %v", err)
	}
	want := []int64{3, 1, 5}
	if len(books) != len(want) {
		t.Fatalf("got %d books, want %d", len(books), len(want))
	}
	for i := range want {
		if books[i] != want[i] {
			t.Errorf("books[%d] = %d, want %d", i, books[i], want[i])
		}
	}
}

func TestIsBookInLibrary(t *testing.T) {
	s := newTestStore(t)
	seedTestBooks(t, s)
	ctx := context.Background()
	createTestUser(t, s, "alice")

	lib := &domain.Library{UserID: "alice", Name: "reading"}
	if err := s.CreateLibrary(ctx, lib); err != nil {
		t.Fatalf("CreateLibrary() error = %v", err)
	}
	if err := s.AddBookToLibrary(ctx, lib.ID, 2); err != nil {
		t.Fatalf("AddBookToLibrary() error = %v", err)
	}

	in, err := s.IsBookInLibrary(ctx, lib.ID, 2)
	if err != nil {
		t.Fatalf("IsBookInLibrary() error = %v", err)
	}
	if !in {
		t.Error("IsBookInLibrary() = false for member book")
	}

	in, err = s.IsBookInLibrary(ctx, lib.ID, 4)
	if err != nil {
		t.Fatalf("IsBookInLibrary() error = %v", err)
	}
	if in {
		t.Error("IsBookInLibrary() = true for non-member book")
	}
}

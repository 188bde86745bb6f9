package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bookhavenapp/bookhaven-server/internal/domain"
	domainerrors "github.com/bookhavenapp/bookhaven-server/internal/errors"
	"github.com/bookhavenapp/bookhaven-server/internal/store"
)

// LibraryService orchestrates library operations. Libraries are
// addressed by (owner, name); the opaque store ID never leaves the
// service layer.
type LibraryService struct {
	store  store.Store
	logger *slog.Logger
}

// NewLibraryService creates a new library service.
func NewLibraryService(store store.Store, logger *slog.Logger) *LibraryService {
	return &LibraryService{
		store:  store,
		logger: logger,
	}
}

// Create creates a new library for the user.
// A duplicate name is a conflict, enforced by the store constraint in a
// single statement.
func (s *LibraryService) Create(ctx context.Context, userID, name string) (*domain.Library, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if name == "" {
		return nil, domainerrors.Validation("library name cannot be empty")
	}

	library := &domain.Library{
		UserID:  userID,
		Name:    name,
		BookIDs: []int64{},
	}
	if err := s.store.CreateLibrary(ctx, library); err != nil {
		return nil, translate(err)
	}

	s.logger.Info("library created",
		"library_id", library.ID,
		"user_id", userID,
		"name", name,
	)

	return library, nil
}

// Get retrieves the user's library by name, including member book IDs.
func (s *LibraryService) Get(ctx context.Context, userID, name string) (*domain.Library, error) {
	library, err := s.store.GetLibrary(ctx, userID, name)
	if err != nil {
		return nil, translate(err)
	}
	return library, nil
}

// Delete removes the user's library by name. Book associations,
// recommendations, and ratings scoped to it are removed with it.
func (s *LibraryService) Delete(ctx context.Context, userID, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.store.DeleteLibrary(ctx, userID, name); err != nil {
		return translate(err)
	}

	s.logger.Info("library deleted",
		"user_id", userID,
		"name", name,
	)

	return nil
}

// ListNames returns the user's library names in creation order.
func (s *LibraryService) ListNames(ctx context.Context, userID string) ([]string, error) {
	names, err := s.store.ListLibraryNames(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list library names: %w", err)
	}
	return names, nil
}

// AddBook adds a catalog book to the user's library.
// Adding a book that is already a member is a no-op.
func (s *LibraryService) AddBook(ctx context.Context, userID, libraryName string, bookID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := s.store.GetBook(ctx, bookID); err != nil {
		return translate(err)
	}

	libraryID, err := s.store.ResolveLibraryID(ctx, userID, libraryName)
	if err != nil {
		return translate(err)
	}

	if err := s.store.AddBookToLibrary(ctx, libraryID, bookID); err != nil {
		return fmt.Errorf("add book to library: %w", err)
	}

	s.logger.Info("book added to library",
		"user_id", userID,
		"library", libraryName,
		"book_id", bookID,
	)

	return nil
}

// RemoveBook removes a book from the user's library.
func (s *LibraryService) RemoveBook(ctx context.Context, userID, libraryName string, bookID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	libraryID, err := s.store.ResolveLibraryID(ctx, userID, libraryName)
	if err != nil {
		return translate(err)
	}

	if err := s.store.RemoveBookFromLibrary(ctx, libraryID, bookID); err != nil {
		return translate(err)
	}

	s.logger.Info("book removed from library",
		"user_id", userID,
		"library", libraryName,
		"book_id", bookID,
	)

	return nil
}

// ListBooks returns the member book IDs of the user's library in
// insertion order.
func (s *LibraryService) ListBooks(ctx context.Context, userID, libraryName string) ([]int64, error) {
	libraryID, err := s.store.ResolveLibraryID(ctx, userID, libraryName)
	if err != nil {
		return nil, translate(err)
	}

	bookIDs, err := s.store.ListLibraryBooks(ctx, libraryID)
	if err != nil {
		return nil, fmt.Errorf("list library books: %w", err)
	}
	return bookIDs, nil
}

// NameExists reports whether the user already has a library with the
// given name.
func (s *LibraryService) NameExists(ctx context.Context, userID, name string) (bool, error) {
	return s.store.LibraryNameExists(ctx, userID, name)
}

// IsMember reports whether a book belongs to the user's library.
func (s *LibraryService) IsMember(ctx context.Context, userID, libraryName string, bookID int64) (bool, error) {
	libraryID, err := s.store.ResolveLibraryID(ctx, userID, libraryName)
	if err != nil {
		return false, translate(err)
	}
	return s.store.IsBookInLibrary(ctx, libraryID, bookID)
}

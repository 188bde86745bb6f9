package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bookhavenapp/bookhaven-server/internal/domain"
	"github.com/bookhavenapp/bookhaven-server/internal/store"
)

// CatalogService answers read-only queries against the Books catalog.
type CatalogService struct {
	store  store.Store
	logger *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(store store.Store, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		store:  store,
		logger: logger,
	}
}

// GetBook retrieves a catalog entry by exact id.
func (s *CatalogService) GetBook(ctx context.Context, id int64) (*domain.Book, error) {
	book, err := s.store.GetBook(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return book, nil
}

// SearchByTitle returns books whose title contains the given text,
// case-insensitively. No match is an empty result, not an error.
func (s *CatalogService) SearchByTitle(ctx context.Context, title string) ([]*domain.Book, error) {
	books, err := s.store.SearchBooksByTitle(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("search by title: %w", err)
	}
	return books, nil
}

// SearchByAuthor returns books whose author contains the given text,
// case-insensitively.
func (s *CatalogService) SearchByAuthor(ctx context.Context, author string) ([]*domain.Book, error) {
	books, err := s.store.SearchBooksByAuthor(ctx, author)
	if err != nil {
		return nil, fmt.Errorf("search by author: %w", err)
	}
	return books, nil
}

// SearchByAuthorYear narrows the author search to one publication year.
func (s *CatalogService) SearchByAuthorYear(ctx context.Context, author string, year int) ([]*domain.Book, error) {
	books, err := s.store.SearchBooksByAuthorYear(ctx, author, year)
	if err != nil {
		return nil, fmt.Errorf("search by author and year: %w", err)
	}
	return books, nil
}

package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookhavenapp/bookhaven-server/internal/domain"
	domainerrors "github.com/bookhavenapp/bookhaven-server/internal/errors"
)

func (s *Server) registerCatalogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get book",
		Description: "Returns a single catalog entry by id",
		Tags:        []string{"Catalog"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books",
		Summary:     "Search books",
		Description: "Searches the catalog by title substring, or by author substring optionally narrowed to a publication year. Matching is case-insensitive; no match yields an empty list.",
		Tags:        []string{"Catalog"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchBooks)
}

// === DTOs ===

// GetBookInput identifies a catalog entry by id.
type GetBookInput struct {
	ID int64 `path:"id" doc:"Book ID"`
}

// SearchBooksInput carries the catalog search parameters.
type SearchBooksInput struct {
	Title  string `query:"title" doc:"Title substring to match"`
	Author string `query:"author" doc:"Author substring to match"`
	Year   int    `query:"year" doc:"Publication year, only with author"`
}

// BookResponse contains one catalog entry in API responses.
type BookResponse struct {
	ID     int64  `json:"id" doc:"Book ID"`
	Title  string `json:"title" doc:"Title"`
	Author string `json:"author" doc:"Author"`
	Year   int    `json:"year" doc:"Publication year"`
}

// BookOutput wraps a single book for Huma.
type BookOutput struct {
	Body BookResponse
}

// BookListResponse contains a list of catalog entries.
type BookListResponse struct {
	Books []BookResponse `json:"books" doc:"Matching books"`
	Count int            `json:"count" doc:"Number of matches"`
}

// BookListOutput wraps the book list for Huma.
type BookListOutput struct {
	Body BookListResponse
}

func mapBook(book *domain.Book) BookResponse {
	return BookResponse{
		ID:     book.ID,
		Title:  book.Title,
		Author: book.Author,
		Year:   book.Year,
	}
}

func mapBooks(books []*domain.Book) BookListResponse {
	resp := BookListResponse{
		Books: make([]BookResponse, 0, len(books)),
		Count: len(books),
	}
	for _, book := range books {
		resp.Books = append(resp.Books, mapBook(book))
	}
	return resp
}

// === Handlers ===

func (s *Server) handleGetBook(ctx context.Context, input *GetBookInput) (*BookOutput, error) {
	if _, err := GetUsername(ctx); err != nil {
		return nil, err
	}

	book, err := s.services.Catalog.GetBook(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: mapBook(book)}, nil
}

func (s *Server) handleSearchBooks(ctx context.Context, input *SearchBooksInput) (*BookListOutput, error) {
	if _, err := GetUsername(ctx); err != nil {
		return nil, err
	}

	var (
		books []*domain.Book
		err   error
	)
	switch {
	case input.Title != "":
		books, err = s.services.Catalog.SearchByTitle(ctx, input.Title)
	case input.Author != "" && input.Year != 0:
		books, err = s.services.Catalog.SearchByAuthorYear(ctx, input.Author, input.Year)
	case input.Author != "":
		books, err = s.services.Catalog.SearchByAuthor(ctx, input.Author)
	default:
		return nil, domainerrors.Validation("provide a title or author to search for")
	}
	if err != nil {
		return nil, err
	}

	out := mapBooks(books)
	return &BookListOutput{Body: out}, nil
}

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookhavenapp/bookhaven-server/internal/domain"
)

func (s *Server) registerLibraryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createLibrary",
		Method:      http.MethodPost,
		Path:        "/api/v1/libraries",
		Summary:     "Create library",
		Description: "Creates an empty named library for the authenticated user. The name must be unused among the user's libraries.",
		Tags:        []string{"Libraries"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateLibrary)

	huma.Register(s.api, huma.Operation{
		OperationID: "listLibraries",
		Method:      http.MethodGet,
		Path:        "/api/v1/libraries",
		Summary:     "List libraries",
		Description: "Returns the user's library names in creation order",
		Tags:        []string{"Libraries"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListLibraries)

	huma.Register(s.api, huma.Operation{
		OperationID: "getLibrary",
		Method:      http.MethodGet,
		Path:        "/api/v1/libraries/{name}",
		Summary:     "Get library",
		Description: "Returns one library with its member book IDs in insertion order",
		Tags:        []string{"Libraries"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetLibrary)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteLibrary",
		Method:      http.MethodDelete,
		Path:        "/api/v1/libraries/{name}",
		Summary:     "Delete library",
		Description: "Deletes a library along with its book associations, recommendations, and ratings",
		Tags:        []string{"Libraries"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteLibrary)

	huma.Register(s.api, huma.Operation{
		OperationID: "addBookToLibrary",
		Method:      http.MethodPost,
		Path:        "/api/v1/libraries/{name}/books",
		Summary:     "Add book to library",
		Description: "Adds a catalog book to the library. Adding a book already present is a no-op.",
		Tags:        []string{"Libraries"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddBookToLibrary)

	huma.Register(s.api, huma.Operation{
		OperationID: "listLibraryBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/libraries/{name}/books",
		Summary:     "List library books",
		Description: "Returns the member book IDs in insertion order",
		Tags:        []string{"Libraries"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListLibraryBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeBookFromLibrary",
		Method:      http.MethodDelete,
		Path:        "/api/v1/libraries/{name}/books/{bookId}",
		Summary:     "Remove book from library",
		Description: "Removes a book from the library",
		Tags:        []string{"Libraries"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveBookFromLibrary)
}

// === DTOs ===

// CreateLibraryRequest is the request body for library creation.
type CreateLibraryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200" doc:"Library name, unique per user"`
}

// CreateLibraryInput wraps the create request for Huma.
type CreateLibraryInput struct {
	Body CreateLibraryRequest
}

// LibraryResponse contains one library in API responses.
type LibraryResponse struct {
	Name      string    `json:"name" doc:"Library name"`
	BookIDs   []int64   `json:"book_ids" doc:"Member book IDs in insertion order"`
	CreatedAt time.Time `json:"created_at" doc:"Creation timestamp"`
}

// LibraryOutput wraps a single library for Huma.
type LibraryOutput struct {
	Body LibraryResponse
}

// LibraryNamesOutput wraps the library name list for Huma.
type LibraryNamesOutput struct {
	Body struct {
		Libraries []string `json:"libraries" doc:"Library names in creation order"`
	}
}

// LibraryNameInput identifies a library of the authenticated user.
type LibraryNameInput struct {
	Name string `path:"name" doc:"Library name"`
}

// AddBookRequest is the request body for adding a book to a library.
type AddBookRequest struct {
	BookID int64 `json:"book_id" validate:"required,min=1" doc:"Catalog book ID"`
}

// AddBookInput wraps the add-book request for Huma.
type AddBookInput struct {
	Name string `path:"name" doc:"Library name"`
	Body AddBookRequest
}

// LibraryBooksOutput wraps the member book ID list for Huma.
type LibraryBooksOutput struct {
	Body struct {
		BookIDs []int64 `json:"book_ids" doc:"Member book IDs in insertion order"`
	}
}

// RemoveBookInput identifies a library member to remove.
type RemoveBookInput struct {
	Name   string `path:"name" doc:"Library name"`
	BookID int64  `path:"bookId" doc:"Catalog book ID"`
}

func mapLibrary(library *domain.Library) LibraryResponse {
	return LibraryResponse{
		Name:      library.Name,
		BookIDs:   library.BookIDs,
		CreatedAt: library.CreatedAt,
	}
}

// === Handlers ===

func (s *Server) handleCreateLibrary(ctx context.Context, input *CreateLibraryInput) (*LibraryOutput, error) {
	username, err := GetUsername(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	library, err := s.services.Library.Create(ctx, username, input.Body.Name)
	if err != nil {
		return nil, err
	}

	return &LibraryOutput{Body: mapLibrary(library)}, nil
}

func (s *Server) handleListLibraries(ctx context.Context, _ *struct{}) (*LibraryNamesOutput, error) {
	username, err := GetUsername(ctx)
	if err != nil {
		return nil, err
	}

	names, err := s.services.Library.ListNames(ctx, username)
	if err != nil {
		return nil, err
	}

	out := &LibraryNamesOutput{}
	out.Body.Libraries = names
	return out, nil
}

func (s *Server) handleGetLibrary(ctx context.Context, input *LibraryNameInput) (*LibraryOutput, error) {
	username, err := GetUsername(ctx)
	if err != nil {
		return nil, err
	}

	library, err := s.services.Library.Get(ctx, username, input.Name)
	if err != nil {
		return nil, err
	}

	return &LibraryOutput{Body: mapLibrary(library)}, nil
}

func (s *Server) handleDeleteLibrary(ctx context.Context, input *LibraryNameInput) (*MessageOutput, error) {
	username, err := GetUsername(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Library.Delete(ctx, username, input.Name); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Library deleted"}}, nil
}

func (s *Server) handleAddBookToLibrary(ctx context.Context, input *AddBookInput) (*MessageOutput, error) {
	username, err := GetUsername(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	if err := s.services.Library.AddBook(ctx, username, input.Name, input.Body.BookID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Book added to library"}}, nil
}

func (s *Server) handleListLibraryBooks(ctx context.Context, input *LibraryNameInput) (*LibraryBooksOutput, error) {
	username, err := GetUsername(ctx)
	if err != nil {
		return nil, err
	}

	bookIDs, err := s.services.Library.ListBooks(ctx, username, input.Name)
	if err != nil {
		return nil, err
	}

	out := &LibraryBooksOutput{}
	out.Body.BookIDs = bookIDs
	return out, nil
}

func (s *Server) handleRemoveBookFromLibrary(ctx context.Context, input *RemoveBookInput) (*MessageOutput, error) {
	username, err := GetUsername(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Library.RemoveBook(ctx, username, input.Name, input.BookID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Book removed from library"}}, nil
}

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookhavenapp/bookhaven-server/internal/domain"
)

func (s *Server) registerRecommendationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "addRecommendation",
		Method:      http.MethodPost,
		Path:        "/api/v1/libraries/{name}/recommendations",
		Summary:     "Add recommendation",
		Description: "Records a recommendation from a read book in the library to another catalog book. The read book must be in the library, a book cannot recommend itself, and a user may recommend at most three distinct books per read book.",
		Tags:        []string{"Recommendations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddRecommendation)

	huma.Register(s.api, huma.Operation{
		OperationID: "listRecommendationsForBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/libraries/{name}/books/{bookId}/recommendations",
		Summary:     "List recommendations for a read book",
		Description: "Returns the books recommended for a read book within the library, grouped with counts, most recommended first",
		Tags:        []string{"Recommendations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListRecommendationsForBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "listRecommendationsEverywhere",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}/recommendations",
		Summary:     "List recommendations across all libraries",
		Description: "Aggregates recommendation counts for a read book across every library of every user",
		Tags:        []string{"Recommendations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListRecommendationsEverywhere)

	huma.Register(s.api, huma.Operation{
		OperationID: "listMyRecommendations",
		Method:      http.MethodGet,
		Path:        "/api/v1/recommendations",
		Summary:     "List my recommendations",
		Description: "Returns the user's recommendations joined with book titles, authors, and library names",
		Tags:        []string{"Recommendations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListMyRecommendations)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateRecommendationComment",
		Method:      http.MethodPut,
		Path:        "/api/v1/libraries/{name}/books/{bookId}/recommendations/{recommendedId}",
		Summary:     "Update recommendation comment",
		Description: "Replaces the comment on one of the user's recommendations",
		Tags:        []string{"Recommendations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateRecommendationComment)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteRecommendation",
		Method:      http.MethodDelete,
		Path:        "/api/v1/libraries/{name}/books/{bookId}/recommendations/{recommendedId}",
		Summary:     "Delete recommendation",
		Description: "Removes one of the user's recommendations",
		Tags:        []string{"Recommendations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteRecommendation)
}

// === DTOs ===

// AddRecommendationRequest is the request body for adding a recommendation.
type AddRecommendationRequest struct {
	ReadBookID        int64  `json:"read_book_id" validate:"required,min=1" doc:"The book that was read"`
	RecommendedBookID int64  `json:"recommended_book_id" validate:"required,min=1,nefield=ReadBookID" doc:"The book being recommended"`
	Comment           string `json:"comment,omitempty" validate:"omitempty,max=2000" doc:"Optional comment"`
}

// AddRecommendationInput wraps the add request for Huma.
type AddRecommendationInput struct {
	Name string `path:"name" doc:"Library name"`
	Body AddRecommendationRequest
}

// RecommendationResponse contains one recommendation in API responses.
type RecommendationResponse struct {
	ReadBookID        int64     `json:"read_book_id" doc:"The book that was read"`
	RecommendedBookID int64     `json:"recommended_book_id" doc:"The book being recommended"`
	Comment           string    `json:"comment,omitempty" doc:"Comment"`
	CreatedAt         time.Time `json:"created_at" doc:"Creation timestamp"`
}

// RecommendationOutput wraps a single recommendation for Huma.
type RecommendationOutput struct {
	Body RecommendationResponse
}

// LibraryBookInput identifies a read book within a library.
type LibraryBookInput struct {
	Name   string `path:"name" doc:"Library name"`
	BookID int64  `path:"bookId" doc:"The book that was read"`
}

// RecommendationKeyInput identifies a recommendation by its full key
// within the authenticated user's library.
type RecommendationKeyInput struct {
	Name          string `path:"name" doc:"Library name"`
	BookID        int64  `path:"bookId" doc:"The book that was read"`
	RecommendedID int64  `path:"recommendedId" doc:"The book that was recommended"`
}

// UpdateCommentInput carries the replacement comment for a recommendation.
type UpdateCommentInput struct {
	Name          string `path:"name" doc:"Library name"`
	BookID        int64  `path:"bookId" doc:"The book that was read"`
	RecommendedID int64  `path:"recommendedId" doc:"The book that was recommended"`
	Body          struct {
		Comment string `json:"comment" validate:"max=2000" doc:"Replacement comment"`
	}
}

// RecommendedBookResponse is one aggregate row: a recommended book and
// how often it has been suggested.
type RecommendedBookResponse struct {
	BookID int64 `json:"book_id" doc:"Recommended book ID"`
	Count  int   `json:"count" doc:"Times recommended"`
}

// RecommendedBooksOutput wraps the grouped recommendation list for Huma.
type RecommendedBooksOutput struct {
	Body struct {
		Recommendations []RecommendedBookResponse `json:"recommendations" doc:"Recommended books, most recommended first"`
	}
}

// DetailedRecommendationResponse joins a recommendation with titles and
// the library name.
type DetailedRecommendationResponse struct {
	LibraryName       string    `json:"library_name" doc:"Library name"`
	ReadBookID        int64     `json:"read_book_id" doc:"The book that was read"`
	ReadTitle         string    `json:"read_title" doc:"Title of the read book"`
	ReadAuthor        string    `json:"read_author" doc:"Author of the read book"`
	RecommendedBookID int64     `json:"recommended_book_id" doc:"The book being recommended"`
	RecommendedTitle  string    `json:"recommended_title" doc:"Title of the recommended book"`
	RecommendedAuthor string    `json:"recommended_author" doc:"Author of the recommended book"`
	Comment           string    `json:"comment,omitempty" doc:"Comment"`
	CreatedAt         time.Time `json:"created_at" doc:"Creation timestamp"`
}

// MyRecommendationsOutput wraps the detailed recommendation list for Huma.
type MyRecommendationsOutput struct {
	Body struct {
		Recommendations []DetailedRecommendationResponse `json:"recommendations" doc:"The user's recommendations"`
	}
}

func mapRecommendedBooks(books []domain.RecommendedBook) []RecommendedBookResponse {
	resp := make([]RecommendedBookResponse, 0, len(books))
	for _, b := range books {
		resp = append(resp, RecommendedBookResponse{BookID: b.BookID, Count: b.Count})
	}
	return resp
}

// === Handlers ===

func (s *Server) handleAddRecommendation(ctx context.Context, input *AddRecommendationInput) (*RecommendationOutput, error) {
	username, err := GetUsername(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	rec, err := s.services.Recommendation.Add(ctx, username, input.Name,
		input.Body.ReadBookID, input.Body.RecommendedBookID, input.Body.Comment)
	if err != nil {
		return nil, err
	}

	return &RecommendationOutput{
		Body: RecommendationResponse{
			ReadBookID:        rec.ReadBookID,
			RecommendedBookID: rec.RecommendedBookID,
			Comment:           rec.Comment,
			CreatedAt:         rec.CreatedAt,
		},
	}, nil
}

func (s *Server) handleListRecommendationsForBook(ctx context.Context, input *LibraryBookInput) (*RecommendedBooksOutput, error) {
	username, err := GetUsername(ctx)
	if err != nil {
		return nil, err
	}

	books, err := s.services.Recommendation.ForBook(ctx, username, input.Name, input.BookID)
	if err != nil {
		return nil, err
	}

	out := &RecommendedBooksOutput{}
	out.Body.Recommendations = mapRecommendedBooks(books)
	return out, nil
}

func (s *Server) handleListRecommendationsEverywhere(ctx context.Context, input *GetBookInput) (*RecommendedBooksOutput, error) {
	if _, err := GetUsername(ctx); err != nil {
		return nil, err
	}

	books, err := s.services.Recommendation.ForBookEverywhere(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	out := &RecommendedBooksOutput{}
	out.Body.Recommendations = mapRecommendedBooks(books)
	return out, nil
}

func (s *Server) handleListMyRecommendations(ctx context.Context, _ *struct{}) (*MyRecommendationsOutput, error) {
	username, err := GetUsername(ctx)
	if err != nil {
		return nil, err
	}

	recs, err := s.services.Recommendation.ListMine(ctx, username)
	if err != nil {
		return nil, err
	}

	out := &MyRecommendationsOutput{}
	out.Body.Recommendations = make([]DetailedRecommendationResponse, 0, len(recs))
	for _, rec := range recs {
		out.Body.Recommendations = append(out.Body.Recommendations, DetailedRecommendationResponse{
			LibraryName:       rec.LibraryName,
			ReadBookID:        rec.ReadBookID,
			ReadTitle:         rec.ReadTitle,
			ReadAuthor:        rec.ReadAuthor,
			RecommendedBookID: rec.RecommendedBookID,
			RecommendedTitle:  rec.RecommendedTitle,
			RecommendedAuthor: rec.RecommendedAuthor,
			Comment:           rec.Comment,
			CreatedAt:         rec.CreatedAt,
		})
	}
	return out, nil
}

func (s *Server) handleUpdateRecommendationComment(ctx context.Context, input *UpdateCommentInput) (*MessageOutput, error) {
	username, err := GetUsername(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	if err := s.services.Recommendation.UpdateComment(ctx, username, input.Name,
		input.BookID, input.RecommendedID, input.Body.Comment); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Comment updated"}}, nil
}

func (s *Server) handleDeleteRecommendation(ctx context.Context, input *RecommendationKeyInput) (*MessageOutput, error) {
	username, err := GetUsername(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Recommendation.Delete(ctx, username, input.Name,
		input.BookID, input.RecommendedID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Recommendation deleted"}}, nil
}

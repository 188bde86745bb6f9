package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookhavenapp/bookhaven-server/internal/domain"
)

func (s *Server) registerRatingRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "saveRating",
		Method:      http.MethodPost,
		Path:        "/api/v1/ratings",
		Summary:     "Save rating",
		Description: "Records the user's five-criterion rating of a book, read through the named library. The library is created if the user does not have it yet. Rating the same book twice is a conflict.",
		Tags:        []string{"Ratings"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSaveRating)

	huma.Register(s.api, huma.Operation{
		OperationID: "listMyRatings",
		Method:      http.MethodGet,
		Path:        "/api/v1/ratings",
		Summary:     "List my ratings",
		Description: "Returns the user's ratings joined with book titles, authors, and library names, ordered by book title",
		Tags:        []string{"Ratings"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListMyRatings)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMyRating",
		Method:      http.MethodGet,
		Path:        "/api/v1/ratings/{bookId}",
		Summary:     "Get my rating",
		Description: "Returns the user's rating of one book",
		Tags:        []string{"Ratings"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetMyRating)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateRating",
		Method:      http.MethodPut,
		Path:        "/api/v1/ratings/{bookId}",
		Summary:     "Update rating",
		Description: "Replaces the scores, notes, and final comment of the user's rating. The overall score is recomputed.",
		Tags:        []string{"Ratings"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateRating)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteRating",
		Method:      http.MethodDelete,
		Path:        "/api/v1/ratings/{bookId}",
		Summary:     "Delete rating",
		Description: "Removes the user's rating of a book",
		Tags:        []string{"Ratings"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteRating)

	huma.Register(s.api, huma.Operation{
		OperationID: "listBookRatings",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}/ratings",
		Summary:     "List ratings of a book",
		Description: "Returns every rating of a book, across all users",
		Tags:        []string{"Ratings"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListBookRatings)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBookRatingSummary",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}/ratings/summary",
		Summary:     "Get rating summary",
		Description: "Aggregates every rating of a book: count, overall average, and one average per criterion. An unrated book yields all zeroes.",
		Tags:        []string{"Ratings"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetBookRatingSummary)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCriterionAverage",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}/ratings/average",
		Summary:     "Get criterion average",
		Description: "Returns the mean score of one criterion for a book, 0.0 when unrated",
		Tags:        []string{"Ratings"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCriterionAverage)
}

// === DTOs ===

// ScoresRequest carries the five per-criterion scores, each in [1,5].
type ScoresRequest struct {
	Style       int `json:"style" validate:"required,gte=1,lte=5" doc:"Style score"`
	Content     int `json:"content" validate:"required,gte=1,lte=5" doc:"Content score"`
	Enjoyment   int `json:"enjoyment" validate:"required,gte=1,lte=5" doc:"Enjoyment score"`
	Originality int `json:"originality" validate:"required,gte=1,lte=5" doc:"Originality score"`
	Edition     int `json:"edition" validate:"required,gte=1,lte=5" doc:"Edition score"`
}

// NotesRequest carries the free-text note for each criterion.
type NotesRequest struct {
	Style       string `json:"style,omitempty" validate:"omitempty,max=2000" doc:"Style note"`
	Content     string `json:"content,omitempty" validate:"omitempty,max=2000" doc:"Content note"`
	Enjoyment   string `json:"enjoyment,omitempty" validate:"omitempty,max=2000" doc:"Enjoyment note"`
	Originality string `json:"originality,omitempty" validate:"omitempty,max=2000" doc:"Originality note"`
	Edition     string `json:"edition,omitempty" validate:"omitempty,max=2000" doc:"Edition note"`
}

// SaveRatingRequest is the request body for saving a rating.
type SaveRatingRequest struct {
	BookID       int64         `json:"book_id" validate:"required,min=1" doc:"Catalog book ID"`
	Library      string        `json:"library" validate:"required,min=1,max=200" doc:"Library through which the book was read"`
	Scores       ScoresRequest `json:"scores" doc:"Per-criterion scores"`
	Notes        NotesRequest  `json:"notes,omitempty" doc:"Per-criterion notes"`
	FinalComment string        `json:"final_comment,omitempty" validate:"omitempty,max=2000" doc:"Closing comment"`
}

// SaveRatingInput wraps the save request for Huma.
type SaveRatingInput struct {
	Body SaveRatingRequest
}

// UpdateRatingRequest is the request body for updating a rating.
type UpdateRatingRequest struct {
	Scores       ScoresRequest `json:"scores" doc:"Per-criterion scores"`
	Notes        NotesRequest  `json:"notes,omitempty" doc:"Per-criterion notes"`
	FinalComment string        `json:"final_comment,omitempty" validate:"omitempty,max=2000" doc:"Closing comment"`
}

// UpdateRatingInput wraps the update request for Huma.
type UpdateRatingInput struct {
	BookID int64 `path:"bookId" doc:"Catalog book ID"`
	Body   UpdateRatingRequest
}

// RatingBookInput identifies a rating of the authenticated user by book.
type RatingBookInput struct {
	BookID int64 `path:"bookId" doc:"Catalog book ID"`
}

// RatingResponse contains one rating in API responses.
type RatingResponse struct {
	UserID       string        `json:"user_id" doc:"Rating author"`
	BookID       int64         `json:"book_id" doc:"Catalog book ID"`
	Scores       domain.Scores `json:"scores" doc:"Per-criterion scores"`
	Notes        domain.Notes  `json:"notes" doc:"Per-criterion notes"`
	Overall      float64       `json:"overall" doc:"Arithmetic mean of the five scores"`
	FinalComment string        `json:"final_comment,omitempty" doc:"Closing comment"`
	CreatedAt    time.Time     `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt    time.Time     `json:"updated_at" doc:"Last update timestamp"`
}

// RatingOutput wraps a single rating for Huma.
type RatingOutput struct {
	Body RatingResponse
}

// RatingListOutput wraps a rating list for Huma.
type RatingListOutput struct {
	Body struct {
		Ratings []RatingResponse `json:"ratings" doc:"Ratings of the book"`
	}
}

// DetailedRatingResponse joins a rating with book and library context.
type DetailedRatingResponse struct {
	RatingResponse
	BookTitle   string `json:"book_title" doc:"Book title"`
	BookAuthor  string `json:"book_author" doc:"Book author"`
	LibraryName string `json:"library_name" doc:"Library through which the book was read"`
}

// MyRatingsOutput wraps the detailed rating list for Huma.
type MyRatingsOutput struct {
	Body struct {
		Ratings []DetailedRatingResponse `json:"ratings" doc:"The user's ratings, ordered by book title"`
	}
}

// RatingSummaryResponse aggregates every rating of one book.
type RatingSummaryResponse struct {
	BookID             int64   `json:"book_id" doc:"Catalog book ID"`
	Count              int     `json:"count" doc:"Number of ratings"`
	Overall            float64 `json:"overall" doc:"Average overall score"`
	AverageStyle       float64 `json:"average_style" doc:"Average style score"`
	AverageContent     float64 `json:"average_content" doc:"Average content score"`
	AverageEnjoyment   float64 `json:"average_enjoyment" doc:"Average enjoyment score"`
	AverageOriginality float64 `json:"average_originality" doc:"Average originality score"`
	AverageEdition     float64 `json:"average_edition" doc:"Average edition score"`
}

// RatingSummaryOutput wraps the summary for Huma.
type RatingSummaryOutput struct {
	Body RatingSummaryResponse
}

// CriterionAverageInput identifies one criterion of one book.
type CriterionAverageInput struct {
	ID        int64  `path:"id" doc:"Catalog book ID"`
	Criterion string `query:"criterion" enum:"style,content,enjoyment,originality,edition" doc:"Rating criterion"`
}

// CriterionAverageOutput wraps a criterion average for Huma.
type CriterionAverageOutput struct {
	Body struct {
		BookID    int64   `json:"book_id" doc:"Catalog book ID"`
		Criterion string  `json:"criterion" doc:"Rating criterion"`
		Average   float64 `json:"average" doc:"Mean score, 0.0 when unrated"`
	}
}

func mapScores(req ScoresRequest) domain.Scores {
	return domain.Scores{
		Style:       req.Style,
		Content:     req.Content,
		Enjoyment:   req.Enjoyment,
		Originality: req.Originality,
		Edition:     req.Edition,
	}
}

func mapNotes(req NotesRequest) domain.Notes {
	return domain.Notes{
		Style:       req.Style,
		Content:     req.Content,
		Enjoyment:   req.Enjoyment,
		Originality: req.Originality,
		Edition:     req.Edition,
	}
}

func mapRating(rating *domain.Rating) RatingResponse {
	return RatingResponse{
		UserID:       rating.UserID,
		BookID:       rating.BookID,
		Scores:       rating.Scores,
		Notes:        rating.Notes,
		Overall:      rating.Overall,
		FinalComment: rating.FinalComment,
		CreatedAt:    rating.CreatedAt,
		UpdatedAt:    rating.UpdatedAt,
	}
}

// === Handlers ===

func (s *Server) handleSaveRating(ctx context.Context, input *SaveRatingInput) (*RatingOutput, error) {
	username, err := GetUsername(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	rating, err := s.services.Rating.Save(ctx, username, input.Body.BookID, input.Body.Library,
		mapScores(input.Body.Scores), mapNotes(input.Body.Notes), input.Body.FinalComment)
	if err != nil {
		return nil, err
	}

	return &RatingOutput{Body: mapRating(rating)}, nil
}

func (s *Server) handleListMyRatings(ctx context.Context, _ *struct{}) (*MyRatingsOutput, error) {
	username, err := GetUsername(ctx)
	if err != nil {
		return nil, err
	}

	ratings, err := s.services.Rating.ListMine(ctx, username)
	if err != nil {
		return nil, err
	}

	out := &MyRatingsOutput{}
	out.Body.Ratings = make([]DetailedRatingResponse, 0, len(ratings))
	for _, rating := range ratings {
		out.Body.Ratings = append(out.Body.Ratings, DetailedRatingResponse{
			RatingResponse: mapRating(&rating.Rating),
			BookTitle:      rating.BookTitle,
			BookAuthor:     rating.BookAuthor,
			LibraryName:    rating.LibraryName,
		})
	}
	return out, nil
}

func (s *Server) handleGetMyRating(ctx context.Context, input *RatingBookInput) (*RatingOutput, error) {
	username, err := GetUsername(ctx)
	if err != nil {
		return nil, err
	}

	rating, err := s.services.Rating.Get(ctx, username, input.BookID)
	if err != nil {
		return nil, err
	}

	return &RatingOutput{Body: mapRating(rating)}, nil
}

func (s *Server) handleUpdateRating(ctx context.Context, input *UpdateRatingInput) (*RatingOutput, error) {
	username, err := GetUsername(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	rating, err := s.services.Rating.Update(ctx, username, input.BookID,
		mapScores(input.Body.Scores), mapNotes(input.Body.Notes), input.Body.FinalComment)
	if err != nil {
		return nil, err
	}

	return &RatingOutput{Body: mapRating(rating)}, nil
}

func (s *Server) handleDeleteRating(ctx context.Context, input *RatingBookInput) (*MessageOutput, error) {
	username, err := GetUsername(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Rating.Delete(ctx, username, input.BookID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Rating deleted"}}, nil
}

func (s *Server) handleListBookRatings(ctx context.Context, input *GetBookInput) (*RatingListOutput, error) {
	if _, err := GetUsername(ctx); err != nil {
		return nil, err
	}

	ratings, err := s.services.Rating.ListForBook(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	out := &RatingListOutput{}
	out.Body.Ratings = make([]RatingResponse, 0, len(ratings))
	for _, rating := range ratings {
		out.Body.Ratings = append(out.Body.Ratings, mapRating(rating))
	}
	return out, nil
}

func (s *Server) handleGetBookRatingSummary(ctx context.Context, input *GetBookInput) (*RatingSummaryOutput, error) {
	if _, err := GetUsername(ctx); err != nil {
		return nil, err
	}

	summary, err := s.services.Rating.Summary(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &RatingSummaryOutput{
		Body: RatingSummaryResponse{
			BookID:             summary.BookID,
			Count:              summary.Count,
			Overall:            summary.Overall,
			AverageStyle:       summary.AverageStyle,
			AverageContent:     summary.AverageContent,
			AverageEnjoyment:   summary.AverageEnjoyment,
			AverageOriginality: summary.AverageOriginality,
			AverageEdition:     summary.AverageEdition,
		},
	}, nil
}

func (s *Server) handleGetCriterionAverage(ctx context.Context, input *CriterionAverageInput) (*CriterionAverageOutput, error) {
	if _, err := GetUsername(ctx); err != nil {
		return nil, err
	}

	avg, err := s.services.Rating.AverageCriterion(ctx, domain.Criterion(input.Criterion), input.ID)
	if err != nil {
		return nil, err
	}

	out := &CriterionAverageOutput{}
	out.Body.BookID = input.ID
	out.Body.Criterion = input.Criterion
	out.Body.Average = avg
	return out, nil
}

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bookhavenapp/bookhaven-server/internal/domain"
	domainerrors "github.com/bookhavenapp/bookhaven-server/internal/errors"
	"github.com/bookhavenapp/bookhaven-server/internal/store"
)

// RatingService manages five-criterion book ratings and their
// per-book aggregates.
type RatingService struct {
	store  store.Store
	logger *slog.Logger
}

// NewRatingService creates a new rating service.
func NewRatingService(store store.Store, logger *slog.Logger) *RatingService {
	return &RatingService{
		store:  store,
		logger: logger,
	}
}

// Save records the user's rating of a book, read through the named
// library. The overall score is always computed here as the arithmetic
// mean of the five scores. The library is created on the fly if the
// user does not have it yet, atomically with the rating insert.
// Rating the same book twice is a conflict.
func (s *RatingService) Save(ctx context.Context, userID string, bookID int64, libraryName string, scores domain.Scores, notes domain.Notes, finalComment string) (*domain.Rating, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := scores.Validate(); err != nil {
		return nil, domainerrors.Validation(err.Error())
	}
	if libraryName == "" {
		return nil, domainerrors.Validation("library name cannot be empty")
	}

	if _, err := s.store.GetBook(ctx, bookID); err != nil {
		return nil, translate(err)
	}

	rating := &domain.Rating{
		UserID:       userID,
		BookID:       bookID,
		Scores:       scores,
		Notes:        notes,
		Overall:      scores.Mean(),
		FinalComment: finalComment,
	}

	if err := s.store.CreateRating(ctx, rating, libraryName); err != nil {
		return nil, translate(err)
	}

	s.logger.Info("rating saved",
		"user_id", userID,
		"book_id", bookID,
		"library", libraryName,
		"overall", rating.Overall,
	)

	return rating, nil
}

// IsRated reports whether the user has already rated the book.
func (s *RatingService) IsRated(ctx context.Context, bookID int64, userID string) (bool, error) {
	return s.store.IsBookRated(ctx, bookID, userID)
}

// Get retrieves the user's rating of a book.
func (s *RatingService) Get(ctx context.Context, userID string, bookID int64) (*domain.Rating, error) {
	rating, err := s.store.GetRating(ctx, userID, bookID)
	if err != nil {
		return nil, translate(err)
	}
	return rating, nil
}

// ListForBook returns every rating of a book.
func (s *RatingService) ListForBook(ctx context.Context, bookID int64) ([]*domain.Rating, error) {
	ratings, err := s.store.ListRatingsForBook(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	return ratings, nil
}

// Summary aggregates every rating of a book: count, overall average,
// and one average per criterion. An unrated book yields all zeroes.
func (s *RatingService) Summary(ctx context.Context, bookID int64) (*domain.BookRatingSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, err := s.store.GetBook(ctx, bookID); err != nil {
		return nil, translate(err)
	}

	count, err := s.store.CountRatings(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("count ratings: %w", err)
	}
	overall, err := s.store.AverageOverall(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("average overall: %w", err)
	}

	summary := &domain.BookRatingSummary{
		BookID:  bookID,
		Count:   count,
		Overall: overall,
	}

	for _, criterion := range domain.Criteria {
		avg, err := s.store.AverageCriterion(ctx, criterion, bookID)
		if err != nil {
			return nil, fmt.Errorf("average %s: %w", criterion, err)
		}
		switch criterion {
		case domain.CriterionStyle:
			summary.AverageStyle = avg
		case domain.CriterionContent:
			summary.AverageContent = avg
		case domain.CriterionEnjoyment:
			summary.AverageEnjoyment = avg
		case domain.CriterionOriginality:
			summary.AverageOriginality = avg
		case domain.CriterionEdition:
			summary.AverageEdition = avg
		}
	}

	return summary, nil
}

// AverageCriterion returns the mean score of one criterion for a book.
func (s *RatingService) AverageCriterion(ctx context.Context, criterion domain.Criterion, bookID int64) (float64, error) {
	if !criterion.Valid() {
		return 0, domainerrors.Validationf("unknown criterion %q", criterion)
	}
	return s.store.AverageCriterion(ctx, criterion, bookID)
}

// ListMine returns the user's ratings joined with book titles, authors,
// and library names.
func (s *RatingService) ListMine(ctx context.Context, userID string) ([]*domain.DetailedRating, error) {
	ratings, err := s.store.ListDetailedRatingsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	return ratings, nil
}

// Update replaces the user's rating of a book. The overall score is
// recomputed from the new scores.
func (s *RatingService) Update(ctx context.Context, userID string, bookID int64, scores domain.Scores, notes domain.Notes, finalComment string) (*domain.Rating, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := scores.Validate(); err != nil {
		return nil, domainerrors.Validation(err.Error())
	}

	rating := &domain.Rating{
		UserID:       userID,
		BookID:       bookID,
		Scores:       scores,
		Notes:        notes,
		Overall:      scores.Mean(),
		FinalComment: finalComment,
	}
	if err := s.store.UpdateRating(ctx, rating); err != nil {
		return nil, translate(err)
	}

	s.logger.Info("rating updated",
		"user_id", userID,
		"book_id", bookID,
		"overall", rating.Overall,
	)

	return rating, nil
}

// Delete removes the user's rating of a book.
func (s *RatingService) Delete(ctx context.Context, userID string, bookID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.store.DeleteRating(ctx, userID, bookID); err != nil {
		return translate(err)
	}

	s.logger.Info("rating deleted",
		"user_id", userID,
		"book_id", bookID,
	)

	return nil
}

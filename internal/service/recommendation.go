package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bookhavenapp/bookhaven-server/internal/domain"
	domainerrors "github.com/bookhavenapp/bookhaven-server/internal/errors"
	"github.com/bookhavenapp/bookhaven-server/internal/store"
)

// RecommendationService manages book-to-book recommendations.
type RecommendationService struct {
	store  store.Store
	logger *slog.Logger
}

// NewRecommendationService creates a new recommendation service.
func NewRecommendationService(store store.Store, logger *slog.Logger) *RecommendationService {
	return &RecommendationService{
		store:  store,
		logger: logger,
	}
}

// Add records a recommendation from a read book to another book within
// the user's named library. The read book must be a member of the
// library, a book cannot recommend itself, and a user may recommend at
// most domain.MaxRecommendationsPerReadBook distinct books per read
// book. The quadruple key also rejects exact duplicates under
// concurrency.
func (s *RecommendationService) Add(ctx context.Context, userID, libraryName string, readBookID, recommendedBookID int64, comment string) (*domain.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rec := &domain.Recommendation{
		UserID:            userID,
		ReadBookID:        readBookID,
		RecommendedBookID: recommendedBookID,
		Comment:           comment,
	}
	if err := rec.Validate(); err != nil {
		return nil, domainerrors.Validation(err.Error())
	}

	if _, err := s.store.GetBook(ctx, recommendedBookID); err != nil {
		return nil, translate(err)
	}

	libraryID, err := s.store.ResolveLibraryID(ctx, userID, libraryName)
	if err != nil {
		return nil, translate(err)
	}
	rec.LibraryID = libraryID

	member, err := s.store.IsBookInLibrary(ctx, libraryID, readBookID)
	if err != nil {
		return nil, fmt.Errorf("check library membership: %w", err)
	}
	if !member {
		return nil, domainerrors.Validationf("book %d is not in library %q", readBookID, libraryName)
	}

	count, err := s.store.CountRecommendationsGiven(ctx, userID, readBookID)
	if err != nil {
		return nil, fmt.Errorf("count recommendations: %w", err)
	}
	if count >= domain.MaxRecommendationsPerReadBook {
		return nil, domainerrors.Conflictf("at most %d recommendations per book", domain.MaxRecommendationsPerReadBook)
	}

	if err := s.store.CreateRecommendation(ctx, rec); err != nil {
		return nil, translate(err)
	}

	s.logger.Info("recommendation added",
		"user_id", userID,
		"library", libraryName,
		"read_book_id", readBookID,
		"recommended_book_id", recommendedBookID,
	)

	return rec, nil
}

// ForBook returns the recommended books for a read book within the
// user's named library, grouped with counts, most recommended first.
func (s *RecommendationService) ForBook(ctx context.Context, userID, libraryName string, readBookID int64) ([]domain.RecommendedBook, error) {
	libraryID, err := s.store.ResolveLibraryID(ctx, userID, libraryName)
	if err != nil {
		return nil, translate(err)
	}

	books, err := s.store.FindRecommendedWithCount(ctx, libraryID, readBookID)
	if err != nil {
		return nil, fmt.Errorf("find recommended books: %w", err)
	}
	return books, nil
}

// ForBookEverywhere aggregates recommendation counts for a read book
// across every library of every user.
func (s *RecommendationService) ForBookEverywhere(ctx context.Context, readBookID int64) ([]domain.RecommendedBook, error) {
	books, err := s.store.FindRecommendedWithCountAll(ctx, readBookID)
	if err != nil {
		return nil, fmt.Errorf("find recommended books: %w", err)
	}
	return books, nil
}

// List returns the user's recommendations with raw keys, comments, and
// timestamps, newest first.
func (s *RecommendationService) List(ctx context.Context, userID string) ([]*domain.Recommendation, error) {
	recs, err := s.store.ListRecommendationsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}
	return recs, nil
}

// ListMine returns the user's recommendations joined with titles,
// authors, and library names.
func (s *RecommendationService) ListMine(ctx context.Context, userID string) ([]*domain.DetailedRecommendation, error) {
	recs, err := s.store.ListDetailedRecommendationsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}
	return recs, nil
}

// UpdateComment replaces the comment on one of the user's
// recommendations, identified by library name and both book IDs.
func (s *RecommendationService) UpdateComment(ctx context.Context, userID, libraryName string, readBookID, recommendedBookID int64, comment string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	libraryID, err := s.store.ResolveLibraryID(ctx, userID, libraryName)
	if err != nil {
		return translate(err)
	}

	if err := s.store.UpdateRecommendationComment(ctx, userID, libraryID, readBookID, recommendedBookID, comment); err != nil {
		return translate(err)
	}
	return nil
}

// Delete removes one of the user's recommendations.
func (s *RecommendationService) Delete(ctx context.Context, userID, libraryName string, readBookID, recommendedBookID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	libraryID, err := s.store.ResolveLibraryID(ctx, userID, libraryName)
	if err != nil {
		return translate(err)
	}

	if err := s.store.DeleteRecommendation(ctx, userID, libraryID, readBookID, recommendedBookID); err != nil {
		return translate(err)
	}

	s.logger.Info("recommendation deleted",
		"user_id", userID,
		"library", libraryName,
		"read_book_id", readBookID,
		"recommended_book_id", recommendedBookID,
	)

	return nil
}

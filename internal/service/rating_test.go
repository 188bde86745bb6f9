package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookhavenapp/bookhaven-server/internal/domain"
	domainerrors "github.com/bookhavenapp/bookhaven-server/internal/errors"
)

func TestSaveRatingComputesOverall(t *testing.T) {
	s := newTestStore(t)
	svc := NewRatingService(s, discardLogger())
	ctx := context.Background()
	registerTestUser(t, s, "alice")

	// The (5,4,3,5,4) scenario: overall must come out 4.2.
	scores := domain.Scores{Style: 5, Content: 4, Enjoyment: 3, Originality: 5, Edition: 4}
	rating, err := svc.Save(ctx, "alice", 1, "medieval", scores, domain.Notes{Style: "dense but rewarding"}, "worth rereading")
	require.NoError(t, err)
	assert.InDelta(t, 4.2, rating.Overall, 1e-9)
	assert.NotEmpty(t, rating.LibraryID)

	got, err := svc.Get(ctx, "alice", 1)
	require.NoError(t, err)
	assert.InDelta(t, 4.2, got.Overall, 1e-9)
	assert.Equal(t, "worth rereading", got.FinalComment)

	// The library named in the rating now exists for the user.
	libSvc := NewLibraryService(s, discardLogger())
	exists, err := libSvc.NameExists(ctx, "alice", "medieval")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSaveRatingInvalidScore(t *testing.T) {
	s := newTestStore(t)
	svc := NewRatingService(s, discardLogger())
	registerTestUser(t, s, "alice")

	scores := domain.Scores{Style: 6, Content: 4, Enjoyment: 3, Originality: 5, Edition: 4}
	_, err := svc.Save(context.Background(), "alice", 1, "shelf", scores, domain.Notes{}, "")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))

	scores = domain.Scores{Style: 5, Content: 0, Enjoyment: 3, Originality: 5, Edition: 4}
	_, err = svc.Save(context.Background(), "alice", 1, "shelf", scores, domain.Notes{}, "")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestSaveRatingTwiceConflicts(t *testing.T) {
	s := newTestStore(t)
	svc := NewRatingService(s, discardLogger())
	ctx := context.Background()
	registerTestUser(t, s, "alice")

	scores := domain.Scores{Style: 3, Content: 3, Enjoyment: 3, Originality: 3, Edition: 3}
	_, err := svc.Save(ctx, "alice", 1, "shelf", scores, domain.Notes{}, "")
	require.NoError(t, err)

	_, err = svc.Save(ctx, "alice", 1, "other shelf", scores, domain.Notes{}, "")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrAlreadyExists))
}

func TestSaveRatingUnknownBook(t *testing.T) {
	s := newTestStore(t)
	svc := NewRatingService(s, discardLogger())
	registerTestUser(t, s, "alice")

	scores := domain.Scores{Style: 3, Content: 3, Enjoyment: 3, Originality: 3, Edition: 3}
	_, err := svc.Save(context.Background(), "alice", 999, "shelf", scores, domain.Notes{}, "")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestSummaryUnratedBookIsZero(t *testing.T) {
	s := newTestStore(t)
	svc := NewRatingService(s, discardLogger())

	summary, err := svc.Summary(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Count)
	assert.Zero(t, summary.Overall)
	assert.Zero(t, summary.AverageStyle)
	assert.Zero(t, summary.AverageEdition)
}

func TestSummaryAggregates(t *testing.T) {
	s := newTestStore(t)
	svc := NewRatingService(s, discardLogger())
	ctx := context.Background()
	registerTestUser(t, s, "alice")
	registerTestUser(t, s, "bob")

	_, err := svc.Save(ctx, "alice", 1, "shelf-a",
		domain.Scores{Style: 5, Content: 4, Enjoyment: 3, Originality: 5, Edition: 4},
		domain.Notes{}, "")
	require.NoError(t, err)
	_, err = svc.Save(ctx, "bob", 1, "shelf-b",
		domain.Scores{Style: 3, Content: 2, Enjoyment: 5, Originality: 1, Edition: 2},
		domain.Notes{}, "")
	require.NoError(t, err)

	summary, err := svc.Summary(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Count)
	assert.InDelta(t, 3.4, summary.Overall, 1e-9)   // (4.2 + 2.6) / 2
	assert.InDelta(t, 4.0, summary.AverageStyle, 1e-9) // (5 + 3) / 2
	assert.InDelta(t, 3.0, summary.AverageContent, 1e-9)
	assert.InDelta(t, 4.0, summary.AverageEnjoyment, 1e-9)
	assert.InDelta(t, 3.0, summary.AverageOriginality, 1e-9)
	assert.InDelta(t, 3.0, summary.AverageEdition, 1e-9)
}

func TestAverageCriterionUnknownCriterion(t *testing.T) {
	s := newTestStore(t)
	svc := NewRatingService(s, discardLogger())

	_, err := svc.AverageCriterion(context.Background(), domain.Criterion("vibes"), 1)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestUpdateRatingRecomputesOverall(t *testing.T) {
	s := newTestStore(t)
	svc := NewRatingService(s, discardLogger())
	ctx := context.Background()
	registerTestUser(t, s, "alice")

	scores := domain.Scores{Style: 3, Content: 3, Enjoyment: 3, Originality: 3, Edition: 3}
	_, err := svc.Save(ctx, "alice", 1, "shelf", scores, domain.Notes{}, "")
	require.NoError(t, err)

	updated := domain.Scores{Style: 5, Content: 5, Enjoyment: 5, Originality: 5, Edition: 5}
	rating, err := svc.Update(ctx, "alice", 1, updated, domain.Notes{Enjoyment: "reread it"}, "masterpiece")
	require.NoError(t, err)
	assert.InDelta(t, 5.0, rating.Overall, 1e-9)

	got, err := svc.Get(ctx, "alice", 1)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, got.Overall, 1e-9)
	assert.Equal(t, "reread it", got.Notes.Enjoyment)
	assert.Equal(t, "masterpiece", got.FinalComment)
}

func TestUpdateRatingNotFound(t *testing.T) {
	s := newTestStore(t)
	svc := NewRatingService(s, discardLogger())
	registerTestUser(t, s, "alice")

	scores := domain.Scores{Style: 3, Content: 3, Enjoyment: 3, Originality: 3, Edition: 3}
	_, err := svc.Update(context.Background(), "alice", 1, scores, domain.Notes{}, "")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestDeleteRating(t *testing.T) {
	s := newTestStore(t)
	svc := NewRatingService(s, discardLogger())
	ctx := context.Background()
	registerTestUser(t, s, "alice")

	scores := domain.Scores{Style: 3, Content: 3, Enjoyment: 3, Originality: 3, Edition: 3}
	_, err := svc.Save(ctx, "alice", 1, "shelf", scores, domain.Notes{}, "")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "alice", 1))

	rated, err := svc.IsRated(ctx, 1, "alice")
	require.NoError(t, err)
	assert.False(t, rated)

	err = svc.Delete(ctx, "alice", 1)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestListMineDetailed(t *testing.T) {
	s := newTestStore(t)
	svc := NewRatingService(s, discardLogger())
	ctx := context.Background()
	registerTestUser(t, s, "alice")

	scores := domain.Scores{Style: 4, Content: 4, Enjoyment: 4, Originality: 4, Edition: 4}
	_, err := svc.Save(ctx, "alice", 4, "kafka shelf", scores, domain.Notes{}, "")
	require.NoError(t, err)

	mine, err := svc.ListMine(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "The Trial", mine[0].BookTitle)
	assert.Equal(t, "Franz Kafka", mine[0].BookAuthor)
	assert.Equal(t, "kafka shelf", mine[0].LibraryName)
}

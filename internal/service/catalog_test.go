package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/bookhavenapp/bookhaven-server/internal/errors"
)

func TestCatalogGetBook(t *testing.T) {
	s := newTestStore(t)
	svc := NewCatalogService(s, discardLogger())

	book, err := svc.GetBook(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Foucault's Pendulum", book.Title)

	_, err = svc.GetBook(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestCatalogSearches(t *testing.T) {
	s := newTestStore(t)
	svc := NewCatalogService(s, discardLogger())
	ctx := context.Background()

	byTitle, err := svc.SearchByTitle(ctx, "pendulum")
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, "Foucault's Pendulum", byTitle[0].Title)

	byAuthor, err := svc.SearchByAuthor(ctx, "ECO")
	require.NoError(t, err)
	assert.Len(t, byAuthor, 3)

	byAuthorYear, err := svc.SearchByAuthorYear(ctx, "kafka", 1925)
	require.NoError(t, err)
	require.Len(t, byAuthorYear, 1)
	assert.Equal(t, "The Trial", byAuthorYear[0].Title)

	empty, err := svc.SearchByTitle(ctx, "no such book")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/bookhavenapp/bookhaven-server/internal/errors"
)

func TestCreateLibrary(t *testing.T) {
	s := newTestStore(t)
	svc := NewLibraryService(s, discardLogger())
	ctx := context.Background()
	registerTestUser(t, s, "alice")

	lib, err := svc.Create(ctx, "alice", "sci-fi")
	require.NoError(t, err)
	assert.NotEmpty(t, lib.ID)
	assert.Equal(t, "sci-fi", lib.Name)
	assert.Empty(t, lib.BookIDs)
}

func TestCreateLibraryEmptyName(t *testing.T) {
	s := newTestStore(t)
	svc := NewLibraryService(s, discardLogger())
	registerTestUser(t, s, "alice")

	_, err := svc.Create(context.Background(), "alice", "")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestCreateLibraryDuplicateNameConflicts(t *testing.T) {
	s := newTestStore(t)
	svc := NewLibraryService(s, discardLogger())
	ctx := context.Background()
	registerTestUser(t, s, "alice")

	_, err := svc.Create(ctx, "alice", "favorites")
	require.NoError(t, err)

	_, err = svc.Create(ctx, "alice", "favorites")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrAlreadyExists))
}

func TestAddBookIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	svc := NewLibraryService(s, discardLogger())
	ctx := context.Background()
	registerTestUser(t, s, "alice")

	_, err := svc.Create(ctx, "alice", "reading")
	require.NoError(t, err)

	require.NoError(t, svc.AddBook(ctx, "alice", "reading", 1))
	require.NoError(t, svc.AddBook(ctx, "alice", "reading", 1))

	books, err := svc.ListBooks(ctx, "alice", "reading")
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, books)
}

func TestAddBookUnknownBook(t *testing.T) {
	s := newTestStore(t)
	svc := NewLibraryService(s, discardLogger())
	ctx := context.Background()
	registerTestUser(t, s, "alice")

	_, err := svc.Create(ctx, "alice", "reading")
	require.NoError(t, err)

	err = svc.AddBook(ctx, "alice", "reading", 999)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestAddBookUnknownLibrary(t *testing.T) {
	s := newTestStore(t)
	svc := NewLibraryService(s, discardLogger())
	registerTestUser(t, s, "alice")

	err := svc.AddBook(context.Background(), "alice", "missing", 1)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestRemoveBookNotMember(t *testing.T) {
	s := newTestStore(t)
	svc := NewLibraryService(s, discardLogger())
	ctx := context.Background()
	registerTestUser(t, s, "alice")

	_, err := svc.Create(ctx, "alice", "reading")
	require.NoError(t, err)

	err = svc.RemoveBook(ctx, "alice", "reading", 1)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestListNamesAndMembership(t *testing.T) {
	s := newTestStore(t)
	svc := NewLibraryService(s, discardLogger())
	ctx := context.Background()
	registerTestUser(t, s, "alice")

	_, err := svc.Create(ctx, "alice", "first")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "alice", "second")
	require.NoError(t, err)
	require.NoError(t, svc.AddBook(ctx, "alice", "first", 2))

	names, err := svc.ListNames(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, names)

	member, err := svc.IsMember(ctx, "alice", "first", 2)
	require.NoError(t, err)
	assert.True(t, member)

	member, err = svc.IsMember(ctx, "alice", "second", 2)
	require.NoError(t, err)
	assert.False(t, member)

	exists, err := svc.NameExists(ctx, "alice", "first")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestDeleteLibrary(t *testing.T) {
	s := newTestStore(t)
	svc := NewLibraryService(s, discardLogger())
	ctx := context.Background()
	registerTestUser(t, s, "alice")

	_, err := svc.Create(ctx, "alice", "temp")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "alice", "temp"))

	err = svc.Delete(ctx, "alice", "temp")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

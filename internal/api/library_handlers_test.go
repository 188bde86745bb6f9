package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetLibrary(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.registerAndLogin(t, "alice")

	ts.createLibrary(t, token, "classics")

	resp := ts.api.Get("/api/v1/libraries/classics", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var library LibraryResponse
	require.NoError(t, unmarshalBody(resp.Body.Bytes(), &library))
	assert.Equal(t, "classics", library.Name)
	assert.Empty(t, library.BookIDs)
}

func TestCreateLibraryDuplicateName(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.registerAndLogin(t, "bob")

	ts.createLibrary(t, token, "favorites")

	resp := ts.api.Post("/api/v1/libraries",
		"Authorization: Bearer "+token,
		map[string]any{"name": "favorites"})
	assert.Equal(t, http.StatusConflict, resp.Code, resp.Body.String())

	// The same name is free for a different user.
	otherToken := ts.registerAndLogin(t, "carol")
	ts.createLibrary(t, otherToken, "favorites")
}

func TestListLibraries(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.registerAndLogin(t, "dave")

	ts.createLibrary(t, token, "zeta")
	ts.createLibrary(t, token, "alpha")

	resp := ts.api.Get("/api/v1/libraries", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Libraries []string `json:"libraries"`
	}
	require.NoError(t, unmarshalBody(resp.Body.Bytes(), &body))
	assert.Equal(t, []string{"zeta", "alpha"}, body.Libraries)
}

func TestLibraryBookMembership(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.registerAndLogin(t, "erin")

	ts.createLibrary(t, token, "reading")
	ts.addBook(t, token, "reading", 3)
	ts.addBook(t, token, "reading", 1)

	// Adding an existing member is a no-op.
	ts.addBook(t, token, "reading", 3)

	resp := ts.api.Get("/api/v1/libraries/reading/books", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		BookIDs []int64 `json:"book_ids"`
	}
	require.NoError(t, unmarshalBody(resp.Body.Bytes(), &body))
	assert.Equal(t, []int64{3, 1}, body.BookIDs)

	del := ts.api.Delete("/api/v1/libraries/reading/books/3", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, del.Code, del.Body.String())

	resp = ts.api.Get("/api/v1/libraries/reading/books", "Authorization: Bearer "+token)
	require.NoError(t, unmarshalBody(resp.Body.Bytes(), &body))
	assert.Equal(t, []int64{1}, body.BookIDs)

	// Removing again is a 404.
	again := ts.api.Delete("/api/v1/libraries/reading/books/3", "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusNotFound, again.Code)
}

func TestAddUnknownBook(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.registerAndLogin(t, "frank")

	ts.createLibrary(t, token, "reading")

	resp := ts.api.Post("/api/v1/libraries/reading/books",
		"Authorization: Bearer "+token,
		map[string]any{"book_id": 999})
	assert.Equal(t, http.StatusNotFound, resp.Code, resp.Body.String())
}

func TestDeleteLibrary(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.registerAndLogin(t, "grace")

	ts.createLibrary(t, token, "ephemeral")

	resp := ts.api.Delete("/api/v1/libraries/ephemeral", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	missing := ts.api.Get("/api/v1/libraries/ephemeral", "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusNotFound, missing.Code)

	// Deleting twice is a 404.
	again := ts.api.Delete("/api/v1/libraries/ephemeral", "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusNotFound, again.Code)
}

func TestLibrariesAreScopedToUser(t *testing.T) {
	ts := setupTestServer(t)
	ownerToken := ts.registerAndLogin(t, "owner")
	otherToken := ts.registerAndLogin(t, "other")

	ts.createLibrary(t, ownerToken, "private")

	resp := ts.api.Get("/api/v1/libraries/private", "Authorization: Bearer "+otherToken)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

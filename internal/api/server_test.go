package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/bookhavenapp/bookhaven-server/internal/auth"
	"github.com/bookhavenapp/bookhaven-server/internal/domain"
	"github.com/bookhavenapp/bookhaven-server/internal/ratelimit"
	"github.com/bookhavenapp/bookhaven-server/internal/service"
	"github.com/bookhavenapp/bookhaven-server/internal/store/sqlite"
	"github.com/bookhavenapp/bookhaven-server/internal/validation"
)

// testServer wraps the API server with a humatest client.
type testServer struct {
	*Server
	api    humatest.TestAPI
	tokens *auth.TokenService
}

// setupTestServer creates a server backed by a temporary SQLite store
// seeded with a small catalog.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	tmpDir := t.TempDir()

	st, err := sqlite.Open(filepath.Join(tmpDir, "test.db"), discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	err = st.SeedBooks(context.Background(), []domain.Book{
		{ID: 1, Title: "The Name of the Rose", Author: "Umberto Eco", Year: 1980},
		{ID: 2, Title: "Foucault's Pendulum", Author: "Umberto Eco", Year: 1988},
		{ID: 3, Title: "Baudolino", Author: "Umberto Eco", Year: 2000},
		{ID: 4, Title: "The Trial", Author: "Franz Kafka", Year: 1925},
		{ID: 5, Title: "The Castle", Author: "Franz Kafka", Year: 1926},
	})
	require.NoError(t, err)

	keyHex, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)

	tokens, err := auth.NewTokenService(keyHex, 15*time.Minute)
	require.NoError(t, err)

	logger := discardLogger()
	services := &Services{
		Auth:           service.NewAuthService(st, tokens, logger),
		Catalog:        service.NewCatalogService(st, logger),
		Library:        service.NewLibraryService(st, logger),
		Recommendation: service.NewRecommendationService(st, logger),
		Rating:         service.NewRatingService(st, logger),
	}

	router := chi.NewRouter()
	router.Use(authMiddleware(tokens))

	humaConfig := huma.DefaultConfig("Bookhaven API Test", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:           st,
		services:        services,
		tokens:          tokens,
		router:          router,
		api:             api,
		logger:          logger,
		validator:       validation.New(),
		authRateLimiter: ratelimit.New(100, 50),
	}

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerCatalogRoutes()
	s.registerLibraryRoutes()
	s.registerRecommendationRoutes()
	s.registerRatingRoutes()

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, api),
		tokens: tokens,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func unmarshalBody(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// registerAndLogin creates a user and returns a bearer token.
func (ts *testServer) registerAndLogin(t *testing.T, username string) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"username":    username,
		"password":    "password-" + username,
		"name":        "Test",
		"surname":     "User",
		"national_id": "nid-" + username,
		"email":       username + "@example.com",
	})
	require.Equal(t, 200, resp.Code, "register failed: %s", resp.Body.String())

	loginResp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"username": username,
		"password": "password-" + username,
	})
	require.Equal(t, 200, loginResp.Code, "login failed: %s", loginResp.Body.String())

	var body AuthResponse
	require.NoError(t, unmarshalBody(loginResp.Body.Bytes(), &body))
	require.NotEmpty(t, body.AccessToken)

	return body.AccessToken
}

// createLibrary creates a library for the token's user.
func (ts *testServer) createLibrary(t *testing.T, token, name string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/libraries",
		"Authorization: Bearer "+token,
		map[string]any{"name": name})
	require.Equal(t, 200, resp.Code, "create library failed: %s", resp.Body.String())
}

// addBook puts a catalog book into the named library.
func (ts *testServer) addBook(t *testing.T, token, library string, bookID int64) {
	t.Helper()

	resp := ts.api.Post("/api/v1/libraries/"+library+"/books",
		"Authorization: Bearer "+token,
		map[string]any{"book_id": bookID})
	require.Equal(t, 200, resp.Code, "add book failed: %s", resp.Body.String())
}

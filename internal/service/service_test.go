package service

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bookhavenapp/bookhaven-server/internal/auth"
	"github.com/bookhavenapp/bookhaven-server/internal/domain"
	"github.com/bookhavenapp/bookhaven-server/internal/store"
	"github.com/bookhavenapp/bookhaven-server/internal/store/sqlite"
)

const testKeyHex = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

// newTestStore opens a throwaway sqlite store seeded with a small catalog.
func newTestStore(t *testing.T) store.Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := sqlite.Open(dbPath, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	err = s.SeedBooks(context.Background(), []domain.Book{
		{ID: 1, Title: "The Name of the Rose", Author: "Umberto Eco", Year: 1980},
		{ID: 2, Title: "Foucault's Pendulum", Author: "Umberto Eco", Year: 1988},
		{ID: 3, Title: "Baudolino", Author: "Umberto Eco", Year: 2000},
		{ID: 4, Title: "The Trial", Author: "Franz Kafka", Year: 1925},
		{ID: 5, Title: "The Castle", Author: "Franz Kafka", Year: 1926},
	})
	require.NoError(t, err)

	return s
}

func newTestTokenService(t *testing.T) *auth.TokenService {
	t.Helper()

	tokens, err := auth.NewTokenService(testKeyHex, time.Hour)
	require.NoError(t, err)
	return tokens
}

// registerTestUser registers a user through the auth service so the
// password hash is real.
func registerTestUser(t *testing.T, s store.Store, username string) *domain.User {
	t.Helper()

	authSvc := NewAuthService(s, newTestTokenService(t), slog.New(slog.DiscardHandler))
	user, err := authSvc.Register(context.Background(), RegisterParams{
		Username:   username,
		Password:   "password-" + username,
		Name:       "Test",
		Surname:    "User",
		NationalID: "nid-" + username,
		Email:      username + "@example.com",
	})
	require.NoError(t, err)
	return user
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// Package main provides a tool to seed the catalog with books.
//
// The catalog is read-only for the API; this is the only writer.
// Seeding is idempotent: book IDs that already exist are left untouched.
//
// Usage:
//
//	DB_PATH=~/Bookhaven/bookhaven.db go run ./cmd/seed
//	go run ./cmd/seed --db-path /tmp/bookhaven.db
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/bookhavenapp/bookhaven-server/internal/domain"
	"github.com/bookhavenapp/bookhaven-server/internal/store/sqlite"
)

var dbPathFlag = flag.String("db-path", "", "Path to the SQLite database file")

// catalog is the default book set. IDs are stable so reseeding a
// database that already has user data never moves books around.
var catalog = []domain.Book{
	{ID: 1, Title: "The Name of the Rose", Author: "Umberto Eco", Year: 1980},
	{ID: 2, Title: "Foucault's Pendulum", Author: "Umberto Eco", Year: 1988},
	{ID: 3, Title: "Baudolino", Author: "Umberto Eco", Year: 2000},
	{ID: 4, Title: "The Trial", Author: "Franz Kafka", Year: 1925},
	{ID: 5, Title: "The Castle", Author: "Franz Kafka", Year: 1926},
	{ID: 6, Title: "The Metamorphosis", Author: "Franz Kafka", Year: 1915},
	{ID: 7, Title: "One Hundred Years of Solitude", Author: "Gabriel Garcia Marquez", Year: 1967},
	{ID: 8, Title: "Love in the Time of Cholera", Author: "Gabriel Garcia Marquez", Year: 1985},
	{ID: 9, Title: "Chronicle of a Death Foretold", Author: "Gabriel Garcia Marquez", Year: 1981},
	{ID: 10, Title: "Invisible Cities", Author: "Italo Calvino", Year: 1972},
	{ID: 11, Title: "If on a winter's night a traveler", Author: "Italo Calvino", Year: 1979},
	{ID: 12, Title: "The Baron in the Trees", Author: "Italo Calvino", Year: 1957},
	{ID: 13, Title: "Blindness", Author: "Jose Saramago", Year: 1995},
	{ID: 14, Title: "The Gospel According to Jesus Christ", Author: "Jose Saramago", Year: 1991},
	{ID: 15, Title: "Ficciones", Author: "Jorge Luis Borges", Year: 1944},
	{ID: 16, Title: "The Aleph", Author: "Jorge Luis Borges", Year: 1949},
	{ID: 17, Title: "Pedro Paramo", Author: "Juan Rulfo", Year: 1955},
	{ID: 18, Title: "The Master and Margarita", Author: "Mikhail Bulgakov", Year: 1967},
	{ID: 19, Title: "Crime and Punishment", Author: "Fyodor Dostoevsky", Year: 1866},
	{ID: 20, Title: "The Brothers Karamazov", Author: "Fyodor Dostoevsky", Year: 1880},
}

func main() {
	flag.Parse()

	dbPath := *dbPathFlag
	if dbPath == "" {
		dbPath = os.Getenv("DB_PATH")
	}
	if dbPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to resolve home directory: %v", err)
		}
		dbPath = filepath.Join(homeDir, "Bookhaven", "bookhaven.db")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := sqlite.Open(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	if err := s.SeedBooks(context.Background(), catalog); err != nil {
		log.Fatalf("Failed to seed catalog: %v", err)
	}

	fmt.Printf("Seeded %d books\n", len(catalog))
}

// seed inserts a confirmed local-dev account so the API can be exercised
// without going through the email loop.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/travelapp/travel-auth/internal/infrastructure/postgres"
	"github.com/travelapp/travel-auth/internal/password"
)

const (
	seedEmail    = "dev@travelapp.local"
	seedPassword = "devpassword1"
)

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	if err := postgres.Migrate(ctx, dbURL); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	digest, err := password.NewBcryptHasher(0).Hash(seedPassword)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	var id string
	err = pool.QueryRow(ctx, `
		INSERT INTO accounts (id, email, password_digest, email_confirmed)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (email) DO UPDATE SET updated_at = NOW()
		RETURNING id`,
		uuid.NewString(), seedEmail, digest,
	).Scan(&id)
	if err != nil {
		log.Fatalf("seed account: %v", err)
	}

	fmt.Printf("seeded confirmed account %s (%s / %s)\n", id, seedEmail, seedPassword)
}

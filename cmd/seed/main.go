package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"baldguard/internal/config"
	"baldguard/internal/db"
	"baldguard/internal/model"
	"baldguard/internal/repository"
)

const defaultFixturePath = "seed/users.json"

// SeedUser is the fixture format consumed by the seeder.
type SeedUser struct {
	Email   string  `json:"email"`
	Name    string  `json:"name"`
	Picture *string `json:"picture"`
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	path := defaultFixturePath
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read fixture %s: %v", path, err)
	}

	var fixtures []SeedUser
	if err := json.Unmarshal(data, &fixtures); err != nil {
		log.Fatalf("Failed to parse fixture: %v", err)
	}

	repo := repository.NewUserRepository(gormDB)
	ctx := context.Background()
	created := 0
	for _, f := range fixtures {
		user, isNew, err := repo.FindOrCreate(ctx, model.IdentityClaims{
			Email:   f.Email,
			Name:    f.Name,
			Picture: f.Picture,
		})
		if err != nil {
			log.Fatalf("Failed to seed user %s: %v", f.Email, err)
		}
		if isNew {
			created++
		}
		log.Printf("Seeded user %d (%s)", user.ID, user.Email)
	}
	log.Printf("Seeding complete: %d new users out of %d fixtures", created, len(fixtures))
}

package main

import (
	"fmt"
	"log"
	"time"

	"concerto/internal/concerts"
	"concerto/internal/shared/config"
	"concerto/internal/shared/database"
	"concerto/internal/users"

	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("Starting Concerto database seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}

	fmt.Println("Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Println("Seeding completed. Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order.
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"reserved_seats",
		"concerts",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for _, table := range tables {
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}

	return tx.Commit().Error
}

func (s *Seeder) SeedAll() error {
	if err := s.seedUsers(); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	if err := s.seedConcerts(); err != nil {
		return fmt.Errorf("seed concerts: %w", err)
	}
	return nil
}

func (s *Seeder) seedUsers() error {
	password, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	demo := []users.User{
		{Username: "alice", Name: "Alice Martin", Email: "alice@example.com", Password: string(password), Loyal: true},
		{Username: "bob", Name: "Bob Keller", Email: "bob@example.com", Password: string(password), Loyal: false},
		{Username: "carol", Name: "Carol Nguyen", Email: "carol@example.com", Password: string(password), Loyal: true},
	}

	for i := range demo {
		if err := s.db.PostgreSQL.Create(&demo[i]).Error; err != nil {
			return err
		}
		fmt.Printf("  user %s (%s, loyal=%v)\n", demo[i].Username, demo[i].Email, demo[i].Loyal)
	}
	return nil
}

func (s *Seeder) seedConcerts() error {
	now := time.Now()

	demo := []concerts.Concert{
		{
			Name:        "Symphonic Nights",
			Date:        now.AddDate(0, 1, 0),
			TheaterName: "Grand Hall",
			TheaterRows: 9,
			TheaterCols: 14,
		},
		{
			Name:        "Jazz Evening",
			Date:        now.AddDate(0, 0, 14),
			TheaterName: "Blue Note Club",
			TheaterRows: 6,
			TheaterCols: 8,
		},
		{
			Name:        "Chamber Quartet",
			Date:        now.AddDate(0, 2, 7),
			TheaterName: "Recital Room",
			TheaterRows: 4,
			TheaterCols: 6,
		},
	}

	for i := range demo {
		if err := s.db.PostgreSQL.Create(&demo[i]).Error; err != nil {
			return err
		}
		fmt.Printf("  concert %q at %s (%dx%d)\n",
			demo[i].Name, demo[i].TheaterName, demo[i].TheaterRows, demo[i].TheaterCols)
	}
	return nil
}

package main

import (
	"log"
	"os"

	"foxcarz-backend/internal/database"

	"github.com/joho/godotenv"
)

// Standalone migration and seed runner, for applying schema changes without
// starting the API server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := database.Connect(dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("🔄 Running migrations...")
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("🌱 Seeding...")
	if err := database.SeedAdmins(db); err != nil {
		log.Fatalf("Admin seeding failed: %v", err)
	}
	if err := database.SeedUsers(db); err != nil {
		log.Fatalf("User seeding failed: %v", err)
	}
	if err := database.SeedLocations(db); err != nil {
		log.Fatalf("Location seeding failed: %v", err)
	}
	if err := database.SeedVehicles(db); err != nil {
		log.Fatalf("Vehicle seeding failed: %v", err)
	}

	log.Println("✅ Migration and seeding completed successfully!")
}

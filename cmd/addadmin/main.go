package main

import (
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// One-off tool to create back-office accounts directly in the database.
// Usage: addadmin <name> <email> <password>
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	if len(os.Args) != 4 {
		log.Fatal("Usage: addadmin <name> <email> <password>")
	}
	name, email, password := os.Args[1], os.Args[2], os.Args[3]

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("🔌 Connected to database")

	var exists bool
	if err := db.Get(&exists, "SELECT EXISTS(SELECT 1 FROM admins WHERE email = $1)", email); err != nil {
		log.Fatalf("❌ Error checking for admin %s: %v", email, err)
	}
	if exists {
		log.Fatalf("⚠️  Admin already exists: %s", email)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	_, err = db.Exec(`
		INSERT INTO admins (id, name, email, password, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.New().String(), name, email, string(hashed), time.Now().Unix())
	if err != nil {
		log.Fatalf("❌ Failed to create admin %s: %v", email, err)
	}

	log.Printf("✅ Created admin: %s (%s)", name, email)
}

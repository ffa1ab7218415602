package database

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func Connect(dbURL string) (*sqlx.DB, error) {
	log.Println("🔌 Connecting to postgres...")

	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ Database connection established")
	return db, nil
}

func Migrate(db *sqlx.DB) error {
	migrations := []string{
		// Renter accounts
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			phone TEXT,
			address TEXT,
			profile_picture TEXT,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Back-office staff
		`CREATE TABLE IF NOT EXISTS admins (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Rentable fleet
		`CREATE TABLE IF NOT EXISTS vehicles (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT NOT NULL CHECK(category IN ('sedan', 'suv', 'hatchback', 'luxury')),
			image TEXT NOT NULL,
			seats INT NOT NULL,
			transmission TEXT NOT NULL CHECK(transmission IN ('manual', 'automatic')),
			fuel_type TEXT NOT NULL CHECK(fuel_type IN ('petrol', 'diesel', 'electric')),
			hourly_rate DECIMAL(10, 2) NOT NULL CHECK(hourly_rate >= 0),
			daily_rate DECIMAL(10, 2) NOT NULL CHECK(daily_rate >= 0),
			weekly_rate DECIMAL(10, 2) NOT NULL CHECK(weekly_rate >= 0),
			available BOOLEAN NOT NULL DEFAULT TRUE,
			features TEXT[] NOT NULL DEFAULT '{}'
		)`,

		// Pickup branches
		`CREATE TABLE IF NOT EXISTS locations (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			address TEXT NOT NULL,
			city TEXT NOT NULL,
			phone TEXT NOT NULL
		)`,

		// Reservations. user_id is nullable: walk-in bookings carry only the
		// customer contact fields.
		`CREATE TABLE IF NOT EXISTS bookings (
			id TEXT PRIMARY KEY,
			vehicle_id TEXT NOT NULL REFERENCES vehicles(id),
			user_id TEXT,
			customer_name TEXT NOT NULL,
			customer_phone TEXT NOT NULL,
			customer_whatsapp TEXT NOT NULL,
			location_id TEXT NOT NULL REFERENCES locations(id),
			start_date TEXT NOT NULL,
			end_date TEXT NOT NULL,
			start_time TEXT NOT NULL,
			rental_type TEXT NOT NULL CHECK(rental_type IN ('hourly', 'daily', 'weekly')),
			total_cost DECIMAL(10, 2) NOT NULL,
			status TEXT NOT NULL DEFAULT 'PENDING' CHECK(status IN ('PENDING', 'CONFIRMED', 'CANCELLED')),
			payment_status TEXT NOT NULL DEFAULT 'PENDING' CHECK(payment_status IN ('PENDING', 'PAID')),
			advance_payment DECIMAL(10, 2),
			refund_status TEXT CHECK(refund_status IN ('REFUNDED', 'NO_REFUND')),
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Server-side sessions backing the issued tokens
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			identity_id TEXT NOT NULL,
			role TEXT NOT NULL CHECK(role IN ('user', 'admin')),
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			expires_at BIGINT NOT NULL
		)`,

		// Admin dashboard push tokens
		`CREATE TABLE IF NOT EXISTS fcm_tokens (
			id SERIAL PRIMARY KEY,
			admin_id TEXT NOT NULL REFERENCES admins(id) ON DELETE CASCADE,
			token TEXT NOT NULL UNIQUE,
			device_type TEXT NOT NULL CHECK(device_type IN ('ios', 'android', 'web')),
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		`CREATE INDEX IF NOT EXISTS idx_bookings_customer_phone ON bookings(customer_phone)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_user_id ON bookings(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_created_at ON bookings(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_identity ON sessions(identity_id)`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	log.Println("✅ Database migrations completed")
	return nil
}

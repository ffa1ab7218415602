package database

import (
	"log"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

func SeedAdmins(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM admins"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Admins already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding admin account...")

	adminPassword, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO admins (id, name, email, password)
		VALUES ($1, $2, $3, $4)
	`, uuid.New().String(), "Admin", "admin@foxcarz.com", string(adminPassword))
	if err != nil {
		return err
	}

	log.Println("✓ Successfully seeded admin account")
	log.Println("  📧 Admin: admin@foxcarz.com / admin123")
	return nil
}

func SeedUsers(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM users"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Users already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding demo user...")

	demoPassword, err := bcrypt.GenerateFromPassword([]byte("demo123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO users (id, name, email, password, phone, address)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.New().String(), "Demo User", "demo@foxcarz.com", string(demoPassword),
		"+919000000000", "Demo Address")
	if err != nil {
		return err
	}

	log.Println("✓ Successfully seeded demo user")
	log.Println("  📧 User: demo@foxcarz.com / demo123")
	return nil
}

func SeedLocations(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM locations"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Locations already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding pickup branches...")

	locations := []map[string]interface{}{
		{"name": "City Center", "address": "123 Main Street", "city": "Hyderabad", "phone": "+919000000001"},
		{"name": "Airport Terminal", "address": "Airport Road", "city": "Hyderabad", "phone": "+919000000002"},
		{"name": "Railway Station", "address": "Station Road", "city": "Hyderabad", "phone": "+919000000003"},
	}

	for _, loc := range locations {
		_, err := db.Exec(`
			INSERT INTO locations (id, name, address, city, phone)
			VALUES ($1, $2, $3, $4, $5)
		`, uuid.New().String(), loc["name"], loc["address"], loc["city"], loc["phone"])
		if err != nil {
			return err
		}
	}

	log.Printf("✓ Successfully seeded %d locations", len(locations))
	return nil
}

func SeedVehicles(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM vehicles"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Vehicles already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding fleet...")

	type seedVehicle struct {
		name, category, image, transmission, fuelType string
		seats                                         int
		hourlyRate, dailyRate, weeklyRate             string
		available                                     bool
		features                                      []string
	}

	vehicles := []seedVehicle{
		{"Maruti Baleno", "hatchback", "/vehicles/baleno.jpg", "manual", "petrol", 5,
			"200.00", "1588.00", "9999.00", true,
			[]string{"AC", "Music System", "Power Windows", "Central Locking"}},
		{"Toyota Innova", "suv", "/vehicles/innova.jpg", "manual", "diesel", 7,
			"300.00", "2500.00", "15000.00", true,
			[]string{"AC", "Music System", "Power Windows", "Central Locking", "ABS"}},
		{"Honda City", "sedan", "/vehicles/city.jpg", "automatic", "petrol", 5,
			"250.00", "2000.00", "12000.00", true,
			[]string{"AC", "Music System", "Power Windows", "Central Locking", "Airbags"}},
	}

	for _, v := range vehicles {
		_, err := db.Exec(`
			INSERT INTO vehicles (id, name, category, image, seats, transmission, fuel_type,
			                      hourly_rate, daily_rate, weekly_rate, available, features)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`, uuid.New().String(), v.name, v.category, v.image, v.seats, v.transmission,
			v.fuelType, v.hourlyRate, v.dailyRate, v.weeklyRate, v.available,
			pq.StringArray(v.features))
		if err != nil {
			return err
		}
	}

	log.Printf("✓ Successfully seeded %d vehicles", len(vehicles))
	return nil
}

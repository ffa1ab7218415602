package main

import (
	"log"
	"net/http"
	"os"

	"foxcarz-backend/internal/cache"
	"foxcarz-backend/internal/database"
	"foxcarz-backend/internal/handlers"
	"foxcarz-backend/internal/middleware"
	"foxcarz-backend/internal/services"
	"foxcarz-backend/internal/storage"
	"foxcarz-backend/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
)

func main() {
	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("🚀 FOXCARZ BACKEND SERVER STARTING")
	log.Println("═══════════════════════════════════════════════════════════════════")

	// Load .env file
	log.Println("📂 Loading environment variables...")
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  Warning: .env file not found, using environment variables from system")
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	if os.Getenv("APP_JWT_SECRET") == "" {
		log.Fatal("❌ FATAL ERROR: APP_JWT_SECRET environment variable is required")
	}

	// Pick the storage backend. With DATABASE_URL set the server runs against
	// postgres; without it, against the in-memory store with demo data, which
	// is enough for local frontend work.
	var store storage.Store
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Println("⚠️  DATABASE_URL not set, using in-memory store with demo data")
		store = storage.NewMemory()
	} else {
		log.Println("🔌 Connecting to database...")
		db, err := database.Connect(dbURL)
		if err != nil {
			log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
			log.Println("❌ FATAL ERROR: Database connection failed")
			log.Printf("   Error: %v", err)
			log.Println("   This is usually caused by:")
			log.Println("   1. Wrong DATABASE_URL format")
			log.Println("   2. PostgreSQL service is down")
			log.Println("   3. Network connectivity issue")
			log.Println("   4. Invalid credentials")
			log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
			log.Fatal(err)
		}
		defer db.Close()
		log.Println("✅ Database connection established")

		log.Println("🔄 Running database migrations...")
		if err := database.Migrate(db); err != nil {
			log.Fatalf("❌ FATAL ERROR: Database migrations failed: %v", err)
		}
		log.Println("✅ Database migrations completed")

		log.Println("🌱 Seeding database with initial data...")
		if err := database.SeedAdmins(db); err != nil {
			log.Fatalf("❌ FATAL ERROR: Admin seeding failed: %v", err)
		}
		if err := database.SeedUsers(db); err != nil {
			log.Fatalf("❌ FATAL ERROR: User seeding failed: %v", err)
		}
		if err := database.SeedLocations(db); err != nil {
			log.Fatalf("❌ FATAL ERROR: Location seeding failed: %v", err)
		}
		if err := database.SeedVehicles(db); err != nil {
			log.Fatalf("❌ FATAL ERROR: Vehicle seeding failed: %v", err)
		}
		log.Println("✅ Database seeded successfully")

		store = storage.NewPostgres(db)
	}

	// Initialize Firebase Cloud Messaging.
	// Supports both file path and base64-encoded credentials (for Railway/cloud deployments)
	var fcmService *services.FCMService
	var err error
	fcmCredsBase64 := os.Getenv("FIREBASE_CREDENTIALS_BASE64")

	if fcmCredsBase64 != "" {
		// Use base64-encoded credentials (Railway-friendly)
		fcmService, err = services.NewFCMServiceFromBase64(fcmCredsBase64)
		if err != nil {
			log.Printf("⚠️  Failed to initialize FCM from base64: %v (push notifications disabled)", err)
			fcmService = nil
		} else {
			log.Println("✅ Firebase Cloud Messaging initialized from base64 credentials")
		}
	} else {
		// Fall back to file path (local development)
		fcmCredentialsFile := os.Getenv("FIREBASE_CREDENTIALS_FILE")
		if fcmCredentialsFile == "" {
			fcmCredentialsFile = "./firebase-service-account.json"
		}

		fcmService, err = services.NewFCMService(fcmCredentialsFile)
		if err != nil {
			log.Printf("⚠️  Failed to initialize FCM from file: %v (push notifications disabled)", err)
			fcmService = nil
		} else {
			log.Println("✅ Firebase Cloud Messaging initialized from file")
		}
	}

	// Optional redis read cache for the public fleet listing.
	listingCache := cache.New()

	// Initialize WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()
	log.Println("✅ WebSocket hub started")

	// Create router
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Uploaded profile pictures
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir("uploads"))))

	// WebSocket endpoint (authentication handled in handler via query param)
	r.Get("/ws", websocket.HandleWebSocket(wsHub, store))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Authentication (no auth required)
		r.Post("/auth/signup", handlers.Signup(store))
		r.Post("/auth/signin", handlers.Signin(store))
		r.Post("/auth/admin/register", handlers.AdminRegister(store))
		r.Post("/auth/admin/login", handlers.AdminLogin(store))

		// Public catalogue
		r.Get("/vehicles", handlers.ListVehicles(store, listingCache))
		r.Get("/vehicles/{id}", handlers.GetVehicle(store))
		r.Get("/locations", handlers.ListLocations(store))
		r.Get("/locations/{id}", handlers.GetLocation(store))

		// Bookings: creation, listing and payment are open so walk-in
		// customers can book and pay without an account. Payment accepts the
		// booking id in the URL or in the body (flat route).
		r.Post("/bookings", handlers.CreateBooking(store, wsHub, fcmService))
		r.Get("/bookings", handlers.ListBookings(store))
		r.Post("/bookings/payment", handlers.RecordPayment(store, wsHub, fcmService))
		r.Get("/bookings/{id}", handlers.GetBooking(store))
		r.Post("/bookings/{id}/payment", handlers.RecordPayment(store, wsHub, fcmService))

		// Signed-in customer endpoints
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(store))

			r.Post("/auth/logout", handlers.Logout(store))
			r.Get("/auth/me", handlers.Me(store))

			r.Put("/user/profile", handlers.UpdateProfile(store))
			r.Put("/user/change-password", handlers.ChangePassword(store))
			r.Post("/user/change-password", handlers.ChangePassword(store))
			r.Post("/user/profile-picture", handlers.UploadProfilePicture(store))
			r.Get("/user/bookings", handlers.GetUserBookings(store))
			r.Delete("/user/delete-account", handlers.DeleteAccount(store))
			r.Delete("/user/account", handlers.DeleteAccount(store))

			r.Post("/bookings/cancel/{id}", handlers.CancelBooking(store))
			r.Post("/bookings/{id}/cancel", handlers.CancelBooking(store))
		})

		// Admin endpoints (require authentication + admin role)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(store))
			r.Use(middleware.RequireRole("admin"))

			r.Get("/admin/bookings", handlers.ListBookings(store))
			r.Get("/admin/users", handlers.AdminListUsers(store))
			r.Get("/admin/users/{id}", handlers.AdminGetUser(store))
			r.Get("/reports", handlers.Reports(store))
			r.Get("/admin/reports", handlers.Reports(store))
			r.Post("/admin/fcm-token", handlers.RegisterFCMToken(store))

			r.Post("/vehicles", handlers.CreateVehicle(store, listingCache))
			r.Patch("/vehicles/{id}", handlers.UpdateVehicle(store, listingCache))
			r.Delete("/vehicles/{id}", handlers.DeleteVehicle(store, listingCache))
			r.Post("/locations", handlers.CreateLocation(store))
		})
	})

	// Get port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
		log.Printf("⚠️  PORT not set, using default: %s", port)
	}

	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("✅ ALL INITIALIZATION COMPLETE")
	log.Printf("🚀 Server starting on http://localhost:%s", port)
	log.Println("🔌 Ready to accept requests!")
	log.Println("═══════════════════════════════════════════════════════════════════")

	// Start server
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("❌ FATAL ERROR: Server failed to start: %v", err)
	}
}

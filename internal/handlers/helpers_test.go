package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"foxcarz-backend/internal/middleware"
	"foxcarz-backend/internal/models"
	"foxcarz-backend/internal/storage"
	"foxcarz-backend/internal/websocket"

	"github.com/go-chi/chi/v5"
)

// testEnv wires the full router against the in-memory store, the same way the
// server entrypoint does.
type testEnv struct {
	store  *storage.Memory
	router chi.Router
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("APP_JWT_SECRET", "test-secret")

	store := storage.NewMemory()
	hub := websocket.NewHub()
	go hub.Run()

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/signup", Signup(store))
		r.Post("/auth/signin", Signin(store))
		r.Post("/auth/admin/register", AdminRegister(store))
		r.Post("/auth/admin/login", AdminLogin(store))

		r.Get("/vehicles", ListVehicles(store, nil))
		r.Get("/vehicles/{id}", GetVehicle(store))
		r.Get("/locations", ListLocations(store))
		r.Get("/locations/{id}", GetLocation(store))

		r.Post("/bookings", CreateBooking(store, hub, nil))
		r.Get("/bookings", ListBookings(store))
		r.Post("/bookings/payment", RecordPayment(store, hub, nil))
		r.Get("/bookings/{id}", GetBooking(store))
		r.Post("/bookings/{id}/payment", RecordPayment(store, hub, nil))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(store))

			r.Post("/auth/logout", Logout(store))
			r.Get("/auth/me", Me(store))

			r.Put("/user/profile", UpdateProfile(store))
			r.Put("/user/change-password", ChangePassword(store))
			r.Post("/user/change-password", ChangePassword(store))
			r.Get("/user/bookings", GetUserBookings(store))
			r.Delete("/user/delete-account", DeleteAccount(store))
			r.Delete("/user/account", DeleteAccount(store))

			r.Post("/bookings/cancel/{id}", CancelBooking(store))
			r.Post("/bookings/{id}/cancel", CancelBooking(store))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(store))
			r.Use(middleware.RequireRole("admin"))

			r.Get("/admin/bookings", ListBookings(store))
			r.Get("/admin/users", AdminListUsers(store))
			r.Get("/admin/users/{id}", AdminGetUser(store))
			r.Get("/reports", Reports(store))
			r.Get("/admin/reports", Reports(store))
			r.Post("/admin/fcm-token", RegisterFCMToken(store))

			r.Post("/vehicles", CreateVehicle(store, nil))
			r.Patch("/vehicles/{id}", UpdateVehicle(store, nil))
			r.Delete("/vehicles/{id}", DeleteVehicle(store, nil))
			r.Post("/locations", CreateLocation(store))
		})
	})

	return &testEnv{store: store, router: r}
}

// do issues a request against the router. A non-empty token is sent as a
// bearer credential.
func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(dest); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
}

// signupAndSignin registers a fresh account and returns its id and token.
func (e *testEnv) signupAndSignin(t *testing.T, name, email, password string) (string, string) {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": name, "email": email, "password": password,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup: got %d: %s", rec.Code, rec.Body.String())
	}

	rec = e.do(t, http.MethodPost, "/api/auth/signin", "", map[string]string{
		"email": email, "password": password,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("signin: got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		UserID string `json:"userId"`
		Token  string `json:"token"`
	}
	decode(t, rec, &resp)
	return resp.UserID, resp.Token
}

// adminToken logs in the seeded back-office account.
func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/auth/admin/login", "", map[string]string{
		"email": "admin@foxcarz.com", "password": "admin123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("admin login: got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	decode(t, rec, &resp)
	return resp.Token
}

// seededVehicle looks up a seeded vehicle by name.
func (e *testEnv) seededVehicle(t *testing.T, name string) models.Vehicle {
	t.Helper()
	vehicles, err := e.store.ListVehicles("")
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range vehicles {
		if v.Name == name {
			return v
		}
	}
	t.Fatalf("seeded vehicle %q not found", name)
	return models.Vehicle{}
}

func (e *testEnv) seededLocation(t *testing.T) models.Location {
	t.Helper()
	locations, err := e.store.ListLocations()
	if err != nil {
		t.Fatal(err)
	}
	if len(locations) == 0 {
		t.Fatal("no seeded locations")
	}
	return locations[0]
}

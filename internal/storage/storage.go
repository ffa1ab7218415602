package storage

import (
	"errors"

	"foxcarz-backend/internal/models"
)

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail is returned when an email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrConflict is returned when a conditional update loses the race, e.g.
	// paying a booking that is no longer PENDING.
	ErrConflict = errors.New("conflicting state change")
)

// RevenuePoint is one bucket of the report revenue series.
type RevenuePoint struct {
	Bucket int64   `db:"bucket"` // unix timestamp of the bucket start
	Amount float64 `db:"amount"`
}

// Store is the uniform CRUD surface over all entities. Two interchangeable
// backends implement it: Postgres for production and Memory for development
// and tests. Callers never need to know which one is active.
type Store interface {
	// Users
	ListUsers() ([]models.User, error)
	GetUser(id string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	CreateUser(u models.User) (*models.User, error)
	UpdateUser(id string, upd models.UserUpdate) (*models.User, error)
	DeleteUser(id string) error

	// Admins
	GetAdmin(id string) (*models.Admin, error)
	GetAdminByEmail(email string) (*models.Admin, error)
	CreateAdmin(a models.Admin) (*models.Admin, error)

	// Vehicles
	ListVehicles(category string) ([]models.Vehicle, error)
	GetVehicle(id string) (*models.Vehicle, error)
	CreateVehicle(v models.Vehicle) (*models.Vehicle, error)
	UpdateVehicle(id string, upd models.UpdateVehicleRequest) (*models.Vehicle, error)
	DeleteVehicle(id string) error

	// Locations
	ListLocations() ([]models.Location, error)
	GetLocation(id string) (*models.Location, error)
	CreateLocation(l models.Location) (*models.Location, error)

	// Bookings
	ListBookings() ([]models.Booking, error)
	GetBooking(id string) (*models.Booking, error)
	CreateBooking(b models.Booking) (*models.Booking, error)
	ListUserBookings(userID, phone string) ([]models.Booking, error)

	// MarkBookingPaid records the advance payment and confirms the booking.
	// The update is conditional on the booking still being PENDING/PENDING so
	// two racing payment calls cannot both win; the loser gets ErrConflict.
	MarkBookingPaid(id, amount string) (*models.Booking, error)

	// CancelBooking moves the booking to CANCELLED with the given refund
	// status. Conditional on the booking not already being cancelled.
	CancelBooking(id, refundStatus string) (*models.Booking, error)

	// Sessions
	CreateSession(s models.Session) error
	GetSession(id string) (*models.Session, error)
	DeleteSession(id string) error
	DeleteIdentitySessions(identityID string) error

	// FCM device tokens (admin dashboard push)
	SaveFCMToken(t models.FCMToken) error
	ListFCMTokens() ([]string, error)

	// Reports
	BookingStats(start, end int64) (count int, total float64, err error)
	RevenueSeries(period string, start, end int64) ([]RevenuePoint, error)
}

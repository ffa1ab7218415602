package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"foxcarz-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Postgres is the production backend over sqlx.
type Postgres struct {
	db *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

// uniqueViolation is the postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

func isDuplicate(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// Users

func (p *Postgres) ListUsers() ([]models.User, error) {
	var users []models.User
	err := p.db.Select(&users, `SELECT * FROM users ORDER BY created_at DESC`)
	return users, err
}

func (p *Postgres) GetUser(id string) (*models.User, error) {
	var u models.User
	if err := p.db.Get(&u, `SELECT * FROM users WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (p *Postgres) GetUserByEmail(email string) (*models.User, error) {
	var u models.User
	if err := p.db.Get(&u, `SELECT * FROM users WHERE email = $1`, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (p *Postgres) CreateUser(u models.User) (*models.User, error) {
	u.ID = uuid.New().String()
	u.CreatedAt = time.Now().Unix()
	u.UpdatedAt = u.CreatedAt
	_, err := p.db.Exec(`
		INSERT INTO users (id, name, email, password, phone, address, profile_picture, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, u.ID, u.Name, u.Email, u.Password, u.Phone, u.Address, u.ProfilePicture, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return &u, nil
}

func (p *Postgres) UpdateUser(id string, upd models.UserUpdate) (*models.User, error) {
	existing, err := p.GetUser(id)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		existing.Name = *upd.Name
	}
	if upd.Email != nil {
		existing.Email = *upd.Email
	}
	if upd.Phone != nil {
		existing.Phone = upd.Phone
	}
	if upd.Address != nil {
		existing.Address = upd.Address
	}
	if upd.Password != nil {
		existing.Password = *upd.Password
	}
	if upd.ProfilePicture != nil {
		existing.ProfilePicture = upd.ProfilePicture
	}
	existing.UpdatedAt = time.Now().Unix()

	res, err := p.db.Exec(`
		UPDATE users
		SET name = $2, email = $3, password = $4, phone = $5, address = $6,
		    profile_picture = $7, updated_at = $8
		WHERE id = $1
	`, id, existing.Name, existing.Email, existing.Password, existing.Phone,
		existing.Address, existing.ProfilePicture, existing.UpdatedAt)
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return nil, ErrNotFound
	}
	return existing, nil
}

func (p *Postgres) DeleteUser(id string) error {
	res, err := p.db.Exec(`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrNotFound
	}
	// Bookings survive account deletion with their contact details; only the
	// account link is cleared.
	if _, err := p.db.Exec(`UPDATE bookings SET user_id = NULL WHERE user_id = $1`, id); err != nil {
		return err
	}
	return nil
}

// Admins

func (p *Postgres) GetAdmin(id string) (*models.Admin, error) {
	var a models.Admin
	if err := p.db.Get(&a, `SELECT * FROM admins WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (p *Postgres) GetAdminByEmail(email string) (*models.Admin, error) {
	var a models.Admin
	if err := p.db.Get(&a, `SELECT * FROM admins WHERE email = $1`, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (p *Postgres) CreateAdmin(a models.Admin) (*models.Admin, error) {
	a.ID = uuid.New().String()
	a.CreatedAt = time.Now().Unix()
	_, err := p.db.Exec(`
		INSERT INTO admins (id, name, email, password, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, a.ID, a.Name, a.Email, a.Password, a.CreatedAt)
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return &a, nil
}

// Vehicles

func (p *Postgres) ListVehicles(category string) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	if category != "" {
		err := p.db.Select(&vehicles, `SELECT * FROM vehicles WHERE category = $1 ORDER BY name ASC`, category)
		return vehicles, err
	}
	err := p.db.Select(&vehicles, `SELECT * FROM vehicles ORDER BY name ASC`)
	return vehicles, err
}

func (p *Postgres) GetVehicle(id string) (*models.Vehicle, error) {
	var v models.Vehicle
	if err := p.db.Get(&v, `SELECT * FROM vehicles WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (p *Postgres) CreateVehicle(v models.Vehicle) (*models.Vehicle, error) {
	v.ID = uuid.New().String()
	if v.Features == nil {
		v.Features = []string{}
	}
	_, err := p.db.Exec(`
		INSERT INTO vehicles (id, name, category, image, seats, transmission, fuel_type,
		                      hourly_rate, daily_rate, weekly_rate, available, features)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, v.ID, v.Name, v.Category, v.Image, v.Seats, v.Transmission, v.FuelType,
		v.HourlyRate, v.DailyRate, v.WeeklyRate, v.Available, v.Features)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (p *Postgres) UpdateVehicle(id string, upd models.UpdateVehicleRequest) (*models.Vehicle, error) {
	existing, err := p.GetVehicle(id)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		existing.Name = *upd.Name
	}
	if upd.Category != nil {
		existing.Category = *upd.Category
	}
	if upd.Image != nil {
		existing.Image = *upd.Image
	}
	if upd.Seats != nil {
		existing.Seats = *upd.Seats
	}
	if upd.Transmission != nil {
		existing.Transmission = *upd.Transmission
	}
	if upd.FuelType != nil {
		existing.FuelType = *upd.FuelType
	}
	if upd.HourlyRate != nil {
		existing.HourlyRate = *upd.HourlyRate
	}
	if upd.DailyRate != nil {
		existing.DailyRate = *upd.DailyRate
	}
	if upd.WeeklyRate != nil {
		existing.WeeklyRate = *upd.WeeklyRate
	}
	if upd.Available != nil {
		existing.Available = *upd.Available
	}
	if upd.Features != nil {
		existing.Features = upd.Features
	}

	_, err = p.db.Exec(`
		UPDATE vehicles
		SET name = $2, category = $3, image = $4, seats = $5, transmission = $6,
		    fuel_type = $7, hourly_rate = $8, daily_rate = $9, weekly_rate = $10,
		    available = $11, features = $12
		WHERE id = $1
	`, id, existing.Name, existing.Category, existing.Image, existing.Seats,
		existing.Transmission, existing.FuelType, existing.HourlyRate,
		existing.DailyRate, existing.WeeklyRate, existing.Available, existing.Features)
	if err != nil {
		return nil, err
	}
	return existing, nil
}

func (p *Postgres) DeleteVehicle(id string) error {
	res, err := p.db.Exec(`DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Locations

func (p *Postgres) ListLocations() ([]models.Location, error) {
	var locations []models.Location
	err := p.db.Select(&locations, `SELECT * FROM locations ORDER BY name ASC`)
	return locations, err
}

func (p *Postgres) GetLocation(id string) (*models.Location, error) {
	var l models.Location
	if err := p.db.Get(&l, `SELECT * FROM locations WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (p *Postgres) CreateLocation(l models.Location) (*models.Location, error) {
	l.ID = uuid.New().String()
	_, err := p.db.Exec(`
		INSERT INTO locations (id, name, address, city, phone)
		VALUES ($1, $2, $3, $4, $5)
	`, l.ID, l.Name, l.Address, l.City, l.Phone)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Bookings

func (p *Postgres) ListBookings() ([]models.Booking, error) {
	var bookings []models.Booking
	err := p.db.Select(&bookings, `SELECT * FROM bookings ORDER BY created_at DESC`)
	return bookings, err
}

func (p *Postgres) GetBooking(id string) (*models.Booking, error) {
	var b models.Booking
	if err := p.db.Get(&b, `SELECT * FROM bookings WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (p *Postgres) CreateBooking(b models.Booking) (*models.Booking, error) {
	b.ID = uuid.New().String()
	b.CreatedAt = time.Now().Unix()
	b.UpdatedAt = b.CreatedAt
	_, err := p.db.Exec(`
		INSERT INTO bookings (id, vehicle_id, user_id, customer_name, customer_phone,
		                      customer_whatsapp, location_id, start_date, end_date, start_time,
		                      rental_type, total_cost, status, payment_status, advance_payment,
		                      refund_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`, b.ID, b.VehicleID, b.UserID, b.CustomerName, b.CustomerPhone, b.CustomerWhatsapp,
		b.LocationID, b.StartDate, b.EndDate, b.StartTime, b.RentalType, b.TotalCost,
		b.Status, b.PaymentStatus, b.AdvancePayment, b.RefundStatus, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (p *Postgres) ListUserBookings(userID, phone string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := p.db.Select(&bookings, `
		SELECT * FROM bookings
		WHERE (user_id = $1 AND $1 <> '') OR (customer_phone = $2 AND $2 <> '')
		ORDER BY start_date DESC
	`, userID, phone)
	return bookings, err
}

func (p *Postgres) MarkBookingPaid(id, amount string) (*models.Booking, error) {
	res, err := p.db.Exec(`
		UPDATE bookings
		SET advance_payment = $2, payment_status = $3, status = $4, updated_at = $5
		WHERE id = $1 AND payment_status = $6 AND status = $7
	`, id, amount, models.PaymentPaid, models.BookingConfirmed, time.Now().Unix(),
		models.PaymentPending, models.BookingPending)
	if err != nil {
		return nil, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// Either the booking does not exist or it already left PENDING.
		if _, err := p.GetBooking(id); err != nil {
			return nil, err
		}
		return nil, ErrConflict
	}
	return p.GetBooking(id)
}

func (p *Postgres) CancelBooking(id, refundStatus string) (*models.Booking, error) {
	res, err := p.db.Exec(`
		UPDATE bookings
		SET status = $2, refund_status = $3, updated_at = $4
		WHERE id = $1 AND status <> $2
	`, id, models.BookingCancelled, refundStatus, time.Now().Unix())
	if err != nil {
		return nil, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		if _, err := p.GetBooking(id); err != nil {
			return nil, err
		}
		return nil, ErrConflict
	}
	return p.GetBooking(id)
}

// Sessions

func (p *Postgres) CreateSession(s models.Session) error {
	_, err := p.db.Exec(`
		INSERT INTO sessions (id, identity_id, role, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
	`, s.ID, s.IdentityID, s.Role, s.CreatedAt, s.ExpiresAt)
	return err
}

func (p *Postgres) GetSession(id string) (*models.Session, error) {
	var s models.Session
	err := p.db.Get(&s, `SELECT * FROM sessions WHERE id = $1 AND expires_at >= $2`, id, time.Now().Unix())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (p *Postgres) DeleteSession(id string) error {
	_, err := p.db.Exec(`DELETE FROM sessions WHERE id = $1`, id)
	return err
}

func (p *Postgres) DeleteIdentitySessions(identityID string) error {
	_, err := p.db.Exec(`DELETE FROM sessions WHERE identity_id = $1`, identityID)
	return err
}

// FCM tokens

func (p *Postgres) SaveFCMToken(t models.FCMToken) error {
	_, err := p.db.Exec(`
		INSERT INTO fcm_tokens (admin_id, token, device_type, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (token)
		DO UPDATE SET admin_id = EXCLUDED.admin_id, device_type = EXCLUDED.device_type
	`, t.AdminID, t.Token, t.DeviceType, time.Now().Unix())
	return err
}

func (p *Postgres) ListFCMTokens() ([]string, error) {
	var tokens []string
	err := p.db.Select(&tokens, `SELECT token FROM fcm_tokens`)
	return tokens, err
}

// Reports

func (p *Postgres) BookingStats(start, end int64) (int, float64, error) {
	var row struct {
		Count int     `db:"count"`
		Total float64 `db:"total"`
	}
	err := p.db.Get(&row, `
		SELECT COUNT(*) AS count, COALESCE(SUM(total_cost), 0)::FLOAT8 AS total
		FROM bookings
		WHERE created_at >= $1 AND created_at <= $2
	`, start, end)
	if err != nil {
		return 0, 0, err
	}
	return row.Count, row.Total, nil
}

func (p *Postgres) RevenueSeries(period string, start, end int64) ([]RevenuePoint, error) {
	var trunc string
	switch period {
	case "weekly":
		trunc = "week"
	case "yearly":
		trunc = "month"
	default: // daily, monthly
		trunc = "day"
	}

	query := fmt.Sprintf(`
		SELECT EXTRACT(EPOCH FROM DATE_TRUNC('%s', TO_TIMESTAMP(created_at) AT TIME ZONE 'UTC'))::BIGINT AS bucket,
		       COALESCE(SUM(total_cost), 0)::FLOAT8 AS amount
		FROM bookings
		WHERE created_at >= $1 AND created_at <= $2
		GROUP BY bucket
		ORDER BY bucket
	`, trunc)

	var points []RevenuePoint
	err := p.db.Select(&points, query, start, end)
	return points, err
}

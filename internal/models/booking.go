package models

// Booking status state machine:
// PENDING/PENDING -> CONFIRMED/PAID (advance captured) -> CANCELLED (terminal,
// reachable from either prior state, refund_status records the outcome).
const (
	BookingPending   = "PENDING"
	BookingConfirmed = "CONFIRMED"
	BookingCancelled = "CANCELLED"

	PaymentPending = "PENDING"
	PaymentPaid    = "PAID"

	Refunded = "REFUNDED"
	NoRefund = "NO_REFUND"
)

type Booking struct {
	ID               string  `json:"id" db:"id"`
	VehicleID        string  `json:"vehicle_id" db:"vehicle_id"`
	UserID           *string `json:"user_id" db:"user_id"`
	CustomerName     string  `json:"customer_name" db:"customer_name"`
	CustomerPhone    string  `json:"customer_phone" db:"customer_phone"`
	CustomerWhatsapp string  `json:"customer_whatsapp" db:"customer_whatsapp"`
	LocationID       string  `json:"location_id" db:"location_id"`
	StartDate        string  `json:"start_date" db:"start_date"`
	EndDate          string  `json:"end_date" db:"end_date"`
	StartTime        string  `json:"start_time" db:"start_time"`
	RentalType       string  `json:"rental_type" db:"rental_type"` // hourly, daily, weekly
	TotalCost        string  `json:"total_cost" db:"total_cost"`
	Status           string  `json:"status" db:"status"`
	PaymentStatus    string  `json:"payment_status" db:"payment_status"`
	AdvancePayment   *string `json:"advance_payment" db:"advance_payment"`
	RefundStatus     *string `json:"refund_status" db:"refund_status"`
	CreatedAt        int64   `json:"created_at" db:"created_at"`
	UpdatedAt        int64   `json:"updated_at" db:"updated_at"`
}

type CreateBookingRequest struct {
	VehicleID        string `json:"vehicle_id"`
	CustomerName     string `json:"customer_name"`
	CustomerPhone    string `json:"customer_phone"`
	CustomerWhatsapp string `json:"customer_whatsapp"`
	LocationID       string `json:"location_id"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
	StartTime        string `json:"start_time"`
	RentalType       string `json:"rental_type"`
	TotalCost        string `json:"total_cost"`
}

// BookingDetail is a booking joined with its vehicle and pickup location.
type BookingDetail struct {
	Booking
	VehicleName     string `json:"vehicle_name"`
	VehicleCategory string `json:"vehicle_category"`
	VehicleImage    string `json:"vehicle_image"`
	LocationName    string `json:"location_name"`
	LocationCity    string `json:"location_city"`
}

package models

import "github.com/lib/pq"

// Vehicle categories and rental types accepted by the API.
const (
	CategorySedan     = "sedan"
	CategorySUV       = "suv"
	CategoryHatchback = "hatchback"
	CategoryLuxury    = "luxury"

	RentalHourly = "hourly"
	RentalDaily  = "daily"
	RentalWeekly = "weekly"
)

type Vehicle struct {
	ID           string         `json:"id" db:"id"`
	Name         string         `json:"name" db:"name"`
	Category     string         `json:"category" db:"category"` // sedan, suv, hatchback, luxury
	Image        string         `json:"image" db:"image"`
	Seats        int            `json:"seats" db:"seats"`
	Transmission string         `json:"transmission" db:"transmission"` // manual, automatic
	FuelType     string         `json:"fuel_type" db:"fuel_type"`       // petrol, diesel, electric
	HourlyRate   string         `json:"hourly_rate" db:"hourly_rate"`
	DailyRate    string         `json:"daily_rate" db:"daily_rate"`
	WeeklyRate   string         `json:"weekly_rate" db:"weekly_rate"`
	Available    bool           `json:"available" db:"available"`
	Features     pq.StringArray `json:"features" db:"features"`
}

// RateFor returns the rate matching the rental type, or "" for an unknown type.
func (v *Vehicle) RateFor(rentalType string) string {
	switch rentalType {
	case RentalHourly:
		return v.HourlyRate
	case RentalDaily:
		return v.DailyRate
	case RentalWeekly:
		return v.WeeklyRate
	}
	return ""
}

type CreateVehicleRequest struct {
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Image        string   `json:"image"`
	Seats        int      `json:"seats"`
	Transmission string   `json:"transmission"`
	FuelType     string   `json:"fuel_type"`
	HourlyRate   string   `json:"hourly_rate"`
	DailyRate    string   `json:"daily_rate"`
	WeeklyRate   string   `json:"weekly_rate"`
	Available    *bool    `json:"available"`
	Features     []string `json:"features"`
}

type UpdateVehicleRequest struct {
	Name         *string  `json:"name"`
	Category     *string  `json:"category"`
	Image        *string  `json:"image"`
	Seats        *int     `json:"seats"`
	Transmission *string  `json:"transmission"`
	FuelType     *string  `json:"fuel_type"`
	HourlyRate   *string  `json:"hourly_rate"`
	DailyRate    *string  `json:"daily_rate"`
	WeeklyRate   *string  `json:"weekly_rate"`
	Available    *bool    `json:"available"`
	Features     []string `json:"features"`
}

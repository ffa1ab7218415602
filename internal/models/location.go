package models

type Location struct {
	ID      string `json:"id" db:"id"`
	Name    string `json:"name" db:"name"`
	Address string `json:"address" db:"address"`
	City    string `json:"city" db:"city"`
	Phone   string `json:"phone" db:"phone"`
}

package models

// Session is the server-side record behind an issued token. Logout deletes the
// row, which revokes the token even before its expiry.
type Session struct {
	ID         string `json:"id" db:"id"`
	IdentityID string `json:"identity_id" db:"identity_id"`
	Role       string `json:"role" db:"role"` // "user" or "admin"
	CreatedAt  int64  `json:"created_at" db:"created_at"`
	ExpiresAt  int64  `json:"expires_at" db:"expires_at"`
}

type FCMToken struct {
	ID         int    `json:"id" db:"id"`
	AdminID    string `json:"admin_id" db:"admin_id"`
	Token      string `json:"token" db:"token"`
	DeviceType string `json:"device_type" db:"device_type"` // ios, android, web
	CreatedAt  int64  `json:"created_at" db:"created_at"`
}

package models

type Admin struct {
	ID        string `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	Email     string `json:"email" db:"email"`
	Password  string `json:"-" db:"password"` // Never return password in JSON
	CreatedAt int64  `json:"created_at" db:"created_at"`
}

func (a *Admin) ToUserResponse() UserResponse {
	return UserResponse{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		IsAdmin:   true,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.CreatedAt,
	}
}

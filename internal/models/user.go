package models

type User struct {
	ID             string  `json:"id" db:"id"`
	Name           string  `json:"name" db:"name"`
	Email          string  `json:"email" db:"email"`
	Password       string  `json:"-" db:"password"` // Never return password in JSON
	Phone          *string `json:"phone" db:"phone"`
	Address        *string `json:"address" db:"address"`
	ProfilePicture *string `json:"profile_picture" db:"profile_picture"`
	CreatedAt      int64   `json:"created_at" db:"created_at"`
	UpdatedAt      int64   `json:"updated_at" db:"updated_at"`
}

type UserResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Phone          *string `json:"phone"`
	Address        *string `json:"address"`
	ProfilePicture *string `json:"profile_picture"`
	IsAdmin        bool    `json:"is_admin"`
	CreatedAt      int64   `json:"created_at"`
	UpdatedAt      int64   `json:"updated_at"`
}

func (u *User) ToUserResponse() UserResponse {
	return UserResponse{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Phone:          u.Phone,
		Address:        u.Address,
		ProfilePicture: u.ProfilePicture,
		IsAdmin:        false,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

// UserUpdate carries a partial profile update. Nil fields are left untouched.
type UserUpdate struct {
	Name           *string
	Email          *string
	Phone          *string
	Address        *string
	Password       *string
	ProfilePicture *string
}

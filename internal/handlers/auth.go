package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"regexp"
	"time"

	"foxcarz-backend/internal/middleware"
	"foxcarz-backend/internal/models"
	"foxcarz-backend/internal/storage"
	"foxcarz-backend/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const sessionLifetime = 7 * 24 * time.Hour

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// issueSession creates the server-side session row and a matching signed
// token. The token is only valid while the session row exists.
func issueSession(store storage.Store, identityID, email, role string) (string, error) {
	jwtSecret := os.Getenv("APP_JWT_SECRET")
	if jwtSecret == "" {
		return "", errors.New("APP_JWT_SECRET not configured")
	}

	now := time.Now()
	session := models.Session{
		ID:         uuid.New().String(),
		IdentityID: identityID,
		Role:       role,
		CreatedAt:  now.Unix(),
		ExpiresAt:  now.Add(sessionLifetime).Unix(),
	}
	if err := store.CreateSession(session); err != nil {
		return "", err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"session_id":  session.ID,
		"identity_id": identityID,
		"email":       email,
		"role":        role,
		"iat":         now.Unix(),
		"exp":         session.ExpiresAt,
	})
	return token.SignedString([]byte(jwtSecret))
}

// Signup registers a renter account. The storefront only enforces a minimum
// password length here; the profile-settings flow applies the stricter
// complexity rule (see ChangePassword).
func Signup(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if len(req.Name) < 2 {
			utils.RespondError(w, http.StatusBadRequest, "Name must be at least 2 characters")
			return
		}
		if !emailPattern.MatchString(req.Email) {
			utils.RespondError(w, http.StatusBadRequest, "Invalid email format")
			return
		}
		if len(req.Password) < 6 {
			utils.RespondError(w, http.StatusBadRequest, "Password must be at least 6 characters")
			return
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Error creating user")
			return
		}

		user, err := store.CreateUser(models.User{
			Name:     req.Name,
			Email:    req.Email,
			Password: string(hashed),
		})
		if err != nil {
			if errors.Is(err, storage.ErrDuplicateEmail) {
				utils.RespondError(w, http.StatusBadRequest, "Email already registered")
				return
			}
			log.Printf("❌ Signup error: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Error creating user")
			return
		}

		log.Printf("✅ User registered: %s", user.Email)
		utils.RespondJSON(w, http.StatusCreated, map[string]string{
			"message": "User created successfully",
			"userId":  user.ID,
		})
	}
}

// Signin authenticates a renter. Unknown email and wrong password produce the
// same response so accounts cannot be enumerated.
func Signin(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SigninRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		user, err := store.GetUserByEmail(req.Email)
		if err != nil {
			utils.RespondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			utils.RespondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		token, err := issueSession(store, user.ID, user.Email, "user")
		if err != nil {
			log.Printf("❌ Failed to create session: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Error signing in")
			return
		}

		log.Printf("✅ Login successful: %s", user.Email)
		utils.RespondJSON(w, http.StatusOK, map[string]string{
			"message": "Logged in successfully",
			"userId":  user.ID,
			"token":   token,
		})
	}
}

// AdminRegister creates a back-office account.
func AdminRegister(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if len(req.Name) < 2 {
			utils.RespondError(w, http.StatusBadRequest, "Name must be at least 2 characters")
			return
		}
		if !emailPattern.MatchString(req.Email) {
			utils.RespondError(w, http.StatusBadRequest, "Invalid email format")
			return
		}
		if len(req.Password) < 6 {
			utils.RespondError(w, http.StatusBadRequest, "Password must be at least 6 characters")
			return
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Error creating admin")
			return
		}

		admin, err := store.CreateAdmin(models.Admin{
			Name:     req.Name,
			Email:    req.Email,
			Password: string(hashed),
		})
		if err != nil {
			if errors.Is(err, storage.ErrDuplicateEmail) {
				utils.RespondError(w, http.StatusBadRequest, "Email already registered")
				return
			}
			log.Printf("❌ Admin registration error: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Error creating admin")
			return
		}

		utils.RespondJSON(w, http.StatusCreated, map[string]string{
			"message": "Admin created successfully",
			"adminId": admin.ID,
		})
	}
}

// AdminLogin mirrors Signin against the admins table and issues an admin
// session.
func AdminLogin(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SigninRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		admin, err := store.GetAdminByEmail(req.Email)
		if err != nil {
			utils.RespondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); err != nil {
			utils.RespondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		token, err := issueSession(store, admin.ID, admin.Email, "admin")
		if err != nil {
			log.Printf("❌ Failed to create session: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Error logging in")
			return
		}

		log.Printf("✅ Admin login successful: %s", admin.Email)
		utils.RespondJSON(w, http.StatusOK, map[string]string{
			"message": "Logged in successfully",
			"adminId": admin.ID,
			"token":   token,
		})
	}
}

// Logout destroys the server-side session, revoking the token.
func Logout(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		if err := store.DeleteSession(claims.SessionID); err != nil {
			log.Printf("❌ Logout error: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Error logging out")
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
	}
}

// Me returns the current session's identity, dispatching on the role flag.
func Me(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		if claims.Role == "admin" {
			admin, err := store.GetAdmin(claims.IdentityID)
			if err != nil {
				utils.RespondError(w, http.StatusNotFound, "Admin not found")
				return
			}
			utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"user": admin.ToUserResponse()})
			return
		}

		user, err := store.GetUser(claims.IdentityID)
		if err != nil {
			utils.RespondError(w, http.StatusNotFound, "User not found")
			return
		}
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"user": user.ToUserResponse()})
	}
}

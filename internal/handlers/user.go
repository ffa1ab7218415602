package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"
	"unicode"

	"foxcarz-backend/internal/middleware"
	"foxcarz-backend/internal/models"
	"foxcarz-backend/internal/storage"
	"foxcarz-backend/pkg/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxProfilePictureBytes = 5 << 20 // 5MB
	profilePictureDir      = "uploads/profile-pictures"
)

// bookingStatusLabel derives the dashboard label shown next to a booking.
// Bookings whose window has started but not finished share the "cancelled"
// label; the mobile client depends on this, so the mapping stays as-is.
func bookingStatusLabel(b models.Booking, now time.Time) string {
	if b.Status == models.BookingCancelled {
		return "cancelled"
	}
	if end, err := parseBookingDate(b.EndDate); err == nil && end.Before(now) {
		return "completed"
	}
	if start, err := parseBookingDate(b.StartDate); err == nil && start.After(now) {
		return "upcoming"
	}
	return "cancelled"
}

// UpdateProfile replaces the caller's profile. All four fields are required;
// partial updates go through the dedicated endpoints instead.
func UpdateProfile(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		var req struct {
			Name    string `json:"name"`
			Email   string `json:"email"`
			Phone   string `json:"phone"`
			Address string `json:"address"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.Name == "" || req.Email == "" || req.Phone == "" || req.Address == "" {
			utils.RespondError(w, http.StatusBadRequest, "All fields are required")
			return
		}
		if !emailPattern.MatchString(req.Email) {
			utils.RespondError(w, http.StatusBadRequest, "Invalid email format")
			return
		}

		// Email uniqueness is enforced by the store, so a concurrent claim on
		// the same address cannot slip past a pre-check.
		user, err := store.UpdateUser(claims.IdentityID, models.UserUpdate{
			Name:    &req.Name,
			Email:   &req.Email,
			Phone:   &req.Phone,
			Address: &req.Address,
		})
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				utils.RespondError(w, http.StatusNotFound, "User not found")
				return
			}
			if errors.Is(err, storage.ErrDuplicateEmail) {
				utils.RespondError(w, http.StatusBadRequest, "Email already registered")
				return
			}
			log.Printf("❌ Failed to update profile for %s: %v", claims.IdentityID, err)
			utils.RespondError(w, http.StatusInternalServerError, "Error updating profile")
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"message": "Profile updated successfully",
			"user":    user.ToUserResponse(),
		})
	}
}

// passwordStrong checks the settings-page complexity rule: at least 8
// characters with an upper, a lower, a digit and a symbol.
func passwordStrong(pw string) bool {
	if len(pw) < 8 {
		return false
	}
	var upper, lower, digit, symbol bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}

// ChangePassword re-verifies the current password before setting a new one.
func ChangePassword(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		var req struct {
			CurrentPassword string `json:"current_password"`
			NewPassword     string `json:"new_password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if !passwordStrong(req.NewPassword) {
			utils.RespondError(w, http.StatusBadRequest,
				"Password must be at least 8 characters with uppercase, lowercase, number and symbol")
			return
		}

		user, err := store.GetUser(claims.IdentityID)
		if err != nil {
			utils.RespondError(w, http.StatusNotFound, "User not found")
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
			utils.RespondError(w, http.StatusUnauthorized, "Current password is incorrect")
			return
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Error changing password")
			return
		}

		hashedStr := string(hashed)
		if _, err := store.UpdateUser(claims.IdentityID, models.UserUpdate{Password: &hashedStr}); err != nil {
			log.Printf("❌ Failed to change password for %s: %v", claims.IdentityID, err)
			utils.RespondError(w, http.StatusInternalServerError, "Error changing password")
			return
		}

		log.Printf("✅ Password changed: %s", claims.Email)
		utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
	}
}

// UploadProfilePicture accepts a multipart image upload (JPEG, PNG or GIF, up
// to 5MB) and stores it under uploads/profile-pictures.
func UploadProfilePicture(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxProfilePictureBytes)
		if err := r.ParseMultipartForm(maxProfilePictureBytes); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "File too large (max 5MB)")
			return
		}

		file, header, err := r.FormFile("profile_picture")
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "profile_picture file is required")
			return
		}
		defer file.Close()

		head := make([]byte, 512)
		n, err := file.Read(head)
		if err != nil && err != io.EOF {
			utils.RespondError(w, http.StatusBadRequest, "Unable to read file")
			return
		}

		var ext string
		switch http.DetectContentType(head[:n]) {
		case "image/jpeg":
			ext = ".jpg"
		case "image/png":
			ext = ".png"
		case "image/gif":
			ext = ".gif"
		default:
			utils.RespondError(w, http.StatusBadRequest, "Only JPEG, PNG and GIF images are allowed")
			return
		}
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Error saving file")
			return
		}

		if err := os.MkdirAll(profilePictureDir, 0o755); err != nil {
			log.Printf("❌ Failed to create upload dir: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Error saving file")
			return
		}

		filename := uuid.New().String() + ext
		path := filepath.Join(profilePictureDir, filename)
		dst, err := os.Create(path)
		if err != nil {
			log.Printf("❌ Failed to create upload file: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Error saving file")
			return
		}
		defer dst.Close()
		if _, err := io.Copy(dst, file); err != nil {
			log.Printf("❌ Failed to write upload file: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Error saving file")
			return
		}

		publicPath := "/" + profilePictureDir + "/" + filename
		user, err := store.UpdateUser(claims.IdentityID, models.UserUpdate{ProfilePicture: &publicPath})
		if err != nil {
			log.Printf("❌ Failed to save profile picture for %s: %v", claims.IdentityID, err)
			utils.RespondError(w, http.StatusInternalServerError, "Error saving file")
			return
		}

		log.Printf("✅ Profile picture uploaded: %s (%s, %d bytes)", claims.Email, header.Filename, header.Size)
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"message":         "Profile picture updated successfully",
			"profile_picture": publicPath,
			"user":            user.ToUserResponse(),
		})
	}
}

// GetUserBookings lists the caller's bookings: those linked to the account
// plus anonymous bookings placed with the account's phone number. Each entry
// carries a derived status label for the dashboard.
func GetUserBookings(store storage.Store) http.HandlerFunc {
	type entry struct {
		models.Booking
		StatusLabel string `json:"status_label"`
		VehicleName string `json:"vehicle_name"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		phone := ""
		if user, err := store.GetUser(claims.IdentityID); err == nil && user.Phone != nil {
			phone = *user.Phone
		}

		bookings, err := store.ListUserBookings(claims.IdentityID, phone)
		if err != nil {
			log.Printf("❌ Failed to list bookings for %s: %v", claims.IdentityID, err)
			utils.RespondError(w, http.StatusInternalServerError, "Error fetching bookings")
			return
		}

		now := time.Now()
		out := make([]entry, 0, len(bookings))
		for _, b := range bookings {
			e := entry{Booking: b, StatusLabel: bookingStatusLabel(b, now)}
			if vehicle, err := store.GetVehicle(b.VehicleID); err == nil {
				e.VehicleName = vehicle.Name
			}
			out = append(out, e)
		}

		utils.RespondJSON(w, http.StatusOK, out)
	}
}

// DeleteAccount removes the account and destroys every session it holds.
// Bookings survive with their customer details; the user link is cleared by
// the store.
func DeleteAccount(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		if err := store.DeleteUser(claims.IdentityID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				utils.RespondError(w, http.StatusNotFound, "User not found")
				return
			}
			log.Printf("❌ Failed to delete account %s: %v", claims.IdentityID, err)
			utils.RespondError(w, http.StatusInternalServerError, "Error deleting account")
			return
		}

		if err := store.DeleteIdentitySessions(claims.IdentityID); err != nil {
			log.Printf("⚠️  Failed to clear sessions for %s: %v", claims.IdentityID, err)
		}

		log.Printf("✅ Account deleted: %s", claims.Email)
		utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Account deleted successfully"})
	}
}

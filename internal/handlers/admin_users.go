package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"foxcarz-backend/internal/middleware"
	"foxcarz-backend/internal/models"
	"foxcarz-backend/internal/storage"
	"foxcarz-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
)

type userStats struct {
	BookingCount int     `json:"booking_count"`
	TotalSpent   float64 `json:"total_spent"`
}

// statsFor aggregates the bookings linked to a user, by account id or by the
// phone number anonymous bookings were placed with. Only captured advances
// count towards spend.
func statsFor(store storage.Store, user models.User) userStats {
	phone := ""
	if user.Phone != nil {
		phone = *user.Phone
	}

	bookings, err := store.ListUserBookings(user.ID, phone)
	if err != nil {
		return userStats{}
	}

	stats := userStats{BookingCount: len(bookings)}
	for _, b := range bookings {
		if b.PaymentStatus != models.PaymentPaid {
			continue
		}
		if cost, err := strconv.ParseFloat(b.TotalCost, 64); err == nil {
			stats.TotalSpent += cost
		}
	}
	return stats
}

// AdminListUsers returns every customer account with booking statistics.
func AdminListUsers(store storage.Store) http.HandlerFunc {
	type entry struct {
		models.UserResponse
		userStats
	}

	return func(w http.ResponseWriter, r *http.Request) {
		users, err := store.ListUsers()
		if err != nil {
			log.Printf("❌ Failed to list users: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Error fetching users")
			return
		}

		out := make([]entry, 0, len(users))
		for _, u := range users {
			out = append(out, entry{
				UserResponse: u.ToUserResponse(),
				userStats:    statsFor(store, u),
			})
		}

		utils.RespondJSON(w, http.StatusOK, out)
	}
}

// AdminGetUser returns one customer with statistics and booking history.
func AdminGetUser(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		user, err := store.GetUser(id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				utils.RespondError(w, http.StatusNotFound, "User not found")
				return
			}
			log.Printf("❌ Failed to get user %s: %v", id, err)
			utils.RespondError(w, http.StatusInternalServerError, "Error fetching user")
			return
		}

		phone := ""
		if user.Phone != nil {
			phone = *user.Phone
		}
		bookings, err := store.ListUserBookings(user.ID, phone)
		if err != nil {
			log.Printf("❌ Failed to list bookings for user %s: %v", id, err)
			utils.RespondError(w, http.StatusInternalServerError, "Error fetching user")
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"user":       user.ToUserResponse(),
			"statistics": statsFor(store, *user),
			"bookings":   bookings,
		})
	}
}

// RegisterFCMToken stores an admin device token for booking push alerts.
func RegisterFCMToken(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		var req struct {
			Token      string `json:"token"`
			DeviceType string `json:"device_type"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.Token == "" {
			utils.RespondError(w, http.StatusBadRequest, "token is required")
			return
		}
		switch req.DeviceType {
		case "ios", "android", "web":
		default:
			utils.RespondError(w, http.StatusBadRequest, "device_type must be ios, android or web")
			return
		}

		if err := store.SaveFCMToken(models.FCMToken{
			AdminID:    claims.IdentityID,
			Token:      req.Token,
			DeviceType: req.DeviceType,
		}); err != nil {
			log.Printf("❌ Failed to save FCM token: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Error registering device")
			return
		}

		log.Printf("✅ FCM token registered for %s (%s)", claims.Email, req.DeviceType)
		utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Device registered successfully"})
	}
}

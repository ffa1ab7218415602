package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"foxcarz-backend/internal/middleware"
	"foxcarz-backend/internal/models"
	"foxcarz-backend/internal/services"
	"foxcarz-backend/internal/storage"
	"foxcarz-backend/internal/websocket"
	"foxcarz-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
)

// refundCutoff is how far ahead of pickup a cancellation still refunds the
// advance.
const refundCutoff = 6 * time.Hour

// parseBookingDate accepts the storefront's YYYY-MM-DD dates and full RFC3339
// timestamps.
func parseBookingDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

// computeTotalCost prices the booking server-side from the vehicle's rates.
// Client-submitted totals are ignored; a tampered request cannot discount
// itself.
func computeTotalCost(vehicle *models.Vehicle, rentalType string, start, end time.Time) (string, error) {
	rate, err := strconv.ParseFloat(vehicle.RateFor(rentalType), 64)
	if err != nil {
		return "", fmt.Errorf("invalid %s rate for vehicle %s: %w", rentalType, vehicle.ID, err)
	}

	span := end.Sub(start)
	if span < 0 {
		return "", errors.New("end_date before start_date")
	}

	var units float64
	switch rentalType {
	case models.RentalHourly:
		units = math.Ceil(span.Hours())
	case models.RentalDaily:
		units = math.Ceil(span.Hours() / 24)
	case models.RentalWeekly:
		units = math.Ceil(span.Hours() / (24 * 7))
	}
	if units < 1 {
		units = 1
	}

	return strconv.FormatFloat(rate*units, 'f', 2, 64), nil
}

// paymentEvent is the booking-payment broadcast payload, enriched with the
// vehicle so the dashboard can render it without a second fetch.
type paymentEvent struct {
	models.Booking
	VehicleName     string `json:"vehicle_name"`
	VehicleCategory string `json:"vehicle_category"`
}

// ListBookings returns every booking, newest first. Served on the public
// listing route and on the admin dashboard route.
func ListBookings(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookings, err := store.ListBookings()
		if err != nil {
			log.Printf("❌ Failed to list bookings: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Error fetching bookings")
			return
		}
		utils.RespondJSON(w, http.StatusOK, bookings)
	}
}

// GetBooking returns one booking joined with its vehicle and pickup location.
func GetBooking(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		booking, err := store.GetBooking(id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				utils.RespondError(w, http.StatusNotFound, "Booking not found")
				return
			}
			log.Printf("❌ Failed to get booking %s: %v", id, err)
			utils.RespondError(w, http.StatusInternalServerError, "Error fetching booking")
			return
		}

		detail := models.BookingDetail{Booking: *booking}
		if vehicle, err := store.GetVehicle(booking.VehicleID); err == nil {
			detail.VehicleName = vehicle.Name
			detail.VehicleCategory = vehicle.Category
			detail.VehicleImage = vehicle.Image
		}
		if location, err := store.GetLocation(booking.LocationID); err == nil {
			detail.LocationName = location.Name
			detail.LocationCity = location.City
		}

		utils.RespondJSON(w, http.StatusOK, detail)
	}
}

// CreateBooking places a booking. No login is required: walk-in customers book
// with just their contact details. When a bearer token is present the booking
// is linked to that account so it shows up under "my bookings".
func CreateBooking(store storage.Store, hub *websocket.Hub, fcm *services.FCMService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateBookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		required := []struct{ name, value string }{
			{"vehicle_id", req.VehicleID},
			{"customer_name", req.CustomerName},
			{"customer_phone", req.CustomerPhone},
			{"customer_whatsapp", req.CustomerWhatsapp},
			{"location_id", req.LocationID},
			{"start_date", req.StartDate},
			{"end_date", req.EndDate},
			{"start_time", req.StartTime},
			{"rental_type", req.RentalType},
		}
		for _, f := range required {
			if f.value == "" {
				utils.RespondError(w, http.StatusBadRequest, f.name+" is required")
				return
			}
		}

		switch req.RentalType {
		case models.RentalHourly, models.RentalDaily, models.RentalWeekly:
		default:
			utils.RespondError(w, http.StatusBadRequest, "Invalid rental_type")
			return
		}

		start, err := parseBookingDate(req.StartDate)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid start_date")
			return
		}
		end, err := parseBookingDate(req.EndDate)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid end_date")
			return
		}

		vehicle, err := store.GetVehicle(req.VehicleID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				utils.RespondError(w, http.StatusNotFound, "Vehicle not found")
				return
			}
			log.Printf("❌ Failed to look up vehicle: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Error creating booking")
			return
		}
		if _, err := store.GetLocation(req.LocationID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				utils.RespondError(w, http.StatusNotFound, "Location not found")
				return
			}
			log.Printf("❌ Failed to look up location: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Error creating booking")
			return
		}

		totalCost, err := computeTotalCost(vehicle, req.RentalType, start, end)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid booking dates")
			return
		}

		// Link the booking to the account when the request carries a valid
		// token. Invalid or missing tokens leave the booking anonymous.
		var userID *string
		if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			if claims, ok := middleware.ParseToken(store, strings.TrimPrefix(auth, "Bearer ")); ok && claims.Role == "user" {
				id := claims.IdentityID
				userID = &id
			}
		}

		booking, err := store.CreateBooking(models.Booking{
			VehicleID:        req.VehicleID,
			UserID:           userID,
			CustomerName:     req.CustomerName,
			CustomerPhone:    req.CustomerPhone,
			CustomerWhatsapp: req.CustomerWhatsapp,
			LocationID:       req.LocationID,
			StartDate:        req.StartDate,
			EndDate:          req.EndDate,
			StartTime:        req.StartTime,
			RentalType:       req.RentalType,
			TotalCost:        totalCost,
			Status:           models.BookingPending,
			PaymentStatus:    models.PaymentPending,
		})
		if err != nil {
			log.Printf("❌ Failed to create booking: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Error creating booking")
			return
		}

		hub.Broadcast(websocket.EventNewBooking, booking)
		if fcm != nil {
			go func(b models.Booking, vehicleName string) {
				tokens, err := store.ListFCMTokens()
				if err != nil {
					log.Printf("⚠️  Failed to load FCM tokens: %v", err)
					return
				}
				if err := fcm.SendNewBookingNotification(tokens, b.ID, b.CustomerName, vehicleName); err != nil {
					log.Printf("⚠️  FCM new-booking push failed: %v", err)
				}
			}(*booking, vehicle.Name)
		}

		log.Printf("✅ Booking created: %s (%s, %s)", booking.ID, booking.CustomerName, vehicle.Name)
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"bookingId": booking.ID,
			"booking":   booking,
		})
	}
}

// RecordPayment captures the advance and confirms the booking. The state
// change is conditional in the store, so two racing calls cannot both confirm.
// The booking id arrives in the URL or, on the flat payment route, in the
// body's bookingId field.
func RecordPayment(store storage.Store, hub *websocket.Hub, fcm *services.FCMService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			BookingID string `json:"bookingId"`
			Amount    string `json:"amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		id := chi.URLParam(r, "id")
		if id == "" {
			id = req.BookingID
		}
		if id == "" {
			utils.RespondError(w, http.StatusBadRequest, "bookingId is required")
			return
		}
		if req.Amount == "" {
			utils.RespondError(w, http.StatusBadRequest, "amount is required")
			return
		}
		if amount, err := strconv.ParseFloat(req.Amount, 64); err != nil || amount <= 0 {
			utils.RespondError(w, http.StatusBadRequest, "Invalid amount")
			return
		}

		booking, err := store.MarkBookingPaid(id, req.Amount)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrNotFound):
				utils.RespondError(w, http.StatusNotFound, "Booking not found")
			case errors.Is(err, storage.ErrConflict):
				utils.RespondError(w, http.StatusConflict, "Booking is not awaiting payment")
			default:
				log.Printf("❌ Failed to record payment for %s: %v", id, err)
				utils.RespondError(w, http.StatusInternalServerError, "Error recording payment")
			}
			return
		}

		event := paymentEvent{Booking: *booking}
		var vehicleName string
		if vehicle, err := store.GetVehicle(booking.VehicleID); err == nil {
			event.VehicleName = vehicle.Name
			event.VehicleCategory = vehicle.Category
			vehicleName = vehicle.Name
		}
		hub.Broadcast(websocket.EventBookingPayment, event)

		if fcm != nil {
			go func(b models.Booking, vehicleName, amount string) {
				tokens, err := store.ListFCMTokens()
				if err != nil {
					log.Printf("⚠️  Failed to load FCM tokens: %v", err)
					return
				}
				if err := fcm.SendPaymentNotification(tokens, b.ID, vehicleName, amount); err != nil {
					log.Printf("⚠️  FCM payment push failed: %v", err)
				}
			}(*booking, vehicleName, req.Amount)
		}

		log.Printf("✅ Payment recorded for booking %s: %s", booking.ID, req.Amount)
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "Payment recorded successfully",
			"booking": booking,
		})
	}
}

// CancelBooking cancels a booking on behalf of the signed-in customer.
// Cancelling more than six hours before pickup refunds the advance.
func CancelBooking(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		id := chi.URLParam(r, "id")
		booking, err := store.GetBooking(id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				utils.RespondError(w, http.StatusNotFound, "Booking not found")
				return
			}
			log.Printf("❌ Failed to get booking %s: %v", id, err)
			utils.RespondError(w, http.StatusInternalServerError, "Error cancelling booking")
			return
		}

		// Admins may cancel any booking; customers only their own.
		if claims.Role != "admin" {
			owned := booking.UserID != nil && *booking.UserID == claims.IdentityID
			if !owned {
				if user, err := store.GetUser(claims.IdentityID); err == nil && user.Phone != nil {
					owned = booking.CustomerPhone == *user.Phone
				}
			}
			if !owned {
				utils.RespondError(w, http.StatusNotFound, "Booking not found")
				return
			}
		}

		refundStatus := models.NoRefund
		if start, err := parseBookingDate(booking.StartDate); err == nil {
			if time.Until(start) > refundCutoff {
				refundStatus = models.Refunded
			}
		}

		cancelled, err := store.CancelBooking(id, refundStatus)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrNotFound):
				utils.RespondError(w, http.StatusNotFound, "Booking not found")
			case errors.Is(err, storage.ErrConflict):
				utils.RespondError(w, http.StatusConflict, "Booking is already cancelled")
			default:
				log.Printf("❌ Failed to cancel booking %s: %v", id, err)
				utils.RespondError(w, http.StatusInternalServerError, "Error cancelling booking")
			}
			return
		}

		refunded := refundStatus == models.Refunded
		message := "Booking cancelled. Advance payment will be refunded."
		if !refunded {
			message = "Booking cancelled. Advance payment is not refundable within 6 hours of pickup."
		}

		log.Printf("✅ Booking cancelled: %s (refund: %s)", cancelled.ID, refundStatus)
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"success":  true,
			"message":  message,
			"refunded": refunded,
			"booking":  cancelled,
		})
	}
}

package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"foxcarz-backend/internal/cache"
	"foxcarz-backend/internal/models"
	"foxcarz-backend/internal/storage"
	"foxcarz-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
)

func vehicleListCacheKey(category string) string {
	if category == "" {
		return "vehicles:all"
	}
	return "vehicles:" + category
}

var vehicleCacheKeys = []string{
	"vehicles:all",
	"vehicles:" + models.CategorySedan,
	"vehicles:" + models.CategorySUV,
	"vehicles:" + models.CategoryHatchback,
	"vehicles:" + models.CategoryLuxury,
}

// ListVehicles returns the fleet, optionally filtered by ?category=. Listings
// are served through the read cache since the storefront hits this constantly.
func ListVehicles(store storage.Store, c *cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := r.URL.Query().Get("category")
		key := vehicleListCacheKey(category)

		var vehicles []models.Vehicle
		if c.Get(key, &vehicles) {
			utils.RespondJSON(w, http.StatusOK, vehicles)
			return
		}

		vehicles, err := store.ListVehicles(category)
		if err != nil {
			log.Printf("❌ Failed to list vehicles: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Error fetching vehicles")
			return
		}

		c.Set(key, vehicles)
		utils.RespondJSON(w, http.StatusOK, vehicles)
	}
}

// GetVehicle returns one vehicle by id.
func GetVehicle(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		vehicle, err := store.GetVehicle(id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				utils.RespondError(w, http.StatusNotFound, "Vehicle not found")
				return
			}
			log.Printf("❌ Failed to get vehicle %s: %v", id, err)
			utils.RespondError(w, http.StatusInternalServerError, "Error fetching vehicle")
			return
		}

		utils.RespondJSON(w, http.StatusOK, vehicle)
	}
}

// CreateVehicle adds a vehicle to the fleet (admin only).
func CreateVehicle(store storage.Store, c *cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateVehicleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.Name == "" {
			utils.RespondError(w, http.StatusBadRequest, "name is required")
			return
		}
		switch req.Category {
		case models.CategorySedan, models.CategorySUV, models.CategoryHatchback, models.CategoryLuxury:
		default:
			utils.RespondError(w, http.StatusBadRequest, "Invalid category")
			return
		}

		available := true
		if req.Available != nil {
			available = *req.Available
		}
		features := req.Features
		if features == nil {
			features = []string{}
		}

		vehicle, err := store.CreateVehicle(models.Vehicle{
			Name:         req.Name,
			Category:     req.Category,
			Image:        req.Image,
			Seats:        req.Seats,
			Transmission: req.Transmission,
			FuelType:     req.FuelType,
			HourlyRate:   req.HourlyRate,
			DailyRate:    req.DailyRate,
			WeeklyRate:   req.WeeklyRate,
			Available:    available,
			Features:     features,
		})
		if err != nil {
			log.Printf("❌ Failed to create vehicle: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Error creating vehicle")
			return
		}

		c.Invalidate(vehicleCacheKeys...)
		log.Printf("✅ Vehicle created: %s (%s)", vehicle.Name, vehicle.ID)
		utils.RespondJSON(w, http.StatusCreated, vehicle)
	}
}

// UpdateVehicle partially updates a vehicle (admin only). Only fields present
// in the body change.
func UpdateVehicle(store storage.Store, c *cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req models.UpdateVehicleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.Category != nil {
			switch *req.Category {
			case models.CategorySedan, models.CategorySUV, models.CategoryHatchback, models.CategoryLuxury:
			default:
				utils.RespondError(w, http.StatusBadRequest, "Invalid category")
				return
			}
		}

		vehicle, err := store.UpdateVehicle(id, req)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				utils.RespondError(w, http.StatusNotFound, "Vehicle not found")
				return
			}
			log.Printf("❌ Failed to update vehicle %s: %v", id, err)
			utils.RespondError(w, http.StatusInternalServerError, "Error updating vehicle")
			return
		}

		c.Invalidate(vehicleCacheKeys...)
		utils.RespondJSON(w, http.StatusOK, vehicle)
	}
}

// DeleteVehicle removes a vehicle from the fleet (admin only).
func DeleteVehicle(store storage.Store, c *cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if err := store.DeleteVehicle(id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				utils.RespondError(w, http.StatusNotFound, "Vehicle not found")
				return
			}
			log.Printf("❌ Failed to delete vehicle %s: %v", id, err)
			utils.RespondError(w, http.StatusInternalServerError, "Error deleting vehicle")
			return
		}

		c.Invalidate(vehicleCacheKeys...)
		utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Vehicle deleted successfully"})
	}
}

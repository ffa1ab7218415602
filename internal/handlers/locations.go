package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"foxcarz-backend/internal/models"
	"foxcarz-backend/internal/storage"
	"foxcarz-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
)

// ListLocations returns all pickup branches.
func ListLocations(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		locations, err := store.ListLocations()
		if err != nil {
			log.Printf("❌ Failed to list locations: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Error fetching locations")
			return
		}
		utils.RespondJSON(w, http.StatusOK, locations)
	}
}

// GetLocation returns one branch by id.
func GetLocation(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		location, err := store.GetLocation(id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				utils.RespondError(w, http.StatusNotFound, "Location not found")
				return
			}
			log.Printf("❌ Failed to get location %s: %v", id, err)
			utils.RespondError(w, http.StatusInternalServerError, "Error fetching location")
			return
		}
		utils.RespondJSON(w, http.StatusOK, location)
	}
}

// CreateLocation registers a new pickup branch (admin only).
func CreateLocation(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.Location
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.Name == "" {
			utils.RespondError(w, http.StatusBadRequest, "name is required")
			return
		}
		if req.City == "" {
			utils.RespondError(w, http.StatusBadRequest, "city is required")
			return
		}

		location, err := store.CreateLocation(req)
		if err != nil {
			log.Printf("❌ Failed to create location: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Error creating location")
			return
		}

		log.Printf("✅ Location created: %s, %s", location.Name, location.City)
		utils.RespondJSON(w, http.StatusCreated, location)
	}
}

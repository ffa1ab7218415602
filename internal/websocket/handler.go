package websocket

import (
	"log"
	"net/http"

	"foxcarz-backend/internal/middleware"
	"foxcarz-backend/internal/storage"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		// TODO: Restrict in production
		return true
	},
}

// HandleWebSocket upgrades the HTTP connection to a WebSocket subscription.
// The token travels in a query parameter because browsers cannot set headers
// on WebSocket connections.
func HandleWebSocket(hub *Hub, store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString := r.URL.Query().Get("token")

		var claims middleware.UserClaims
		if tokenString != "" {
			var ok bool
			claims, ok = middleware.ParseToken(store, tokenString)
			if !ok {
				http.Error(w, "Not authenticated", http.StatusUnauthorized)
				return
			}
		} else {
			// Fallback: claims set by the Auth middleware
			var ok bool
			claims, ok = middleware.GetUserFromContext(r)
			if !ok {
				http.Error(w, "Not authenticated", http.StatusUnauthorized)
				return
			}
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("❌ WebSocket upgrade failed: %v", err)
			return
		}

		client := NewClient(claims.IdentityID, claims.Email, claims.Role, conn, hub)
		hub.register <- client

		go client.WritePump()
		go client.ReadPump()

		log.Printf("✅ WebSocket connection established for %s (%s)", claims.Email, claims.Role)
	}
}

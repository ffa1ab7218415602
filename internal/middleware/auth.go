package middleware

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"

	"foxcarz-backend/internal/storage"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const UserContextKey contextKey = "user"

// UserClaims identifies the authenticated caller. Role is "user" or "admin";
// SessionID references the server-side session row, so a deleted session
// (logout, account deletion) revokes the token before its expiry.
type UserClaims struct {
	SessionID  string `json:"session_id"`
	IdentityID string `json:"identity_id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
}

// ParseToken validates a bearer token and resolves it against the session
// store. Shared by the HTTP middleware and the WebSocket handler.
func ParseToken(store storage.Store, tokenString string) (UserClaims, bool) {
	jwtSecret := os.Getenv("APP_JWT_SECRET")
	if jwtSecret == "" {
		log.Println("❌ JWT secret not configured")
		return UserClaims{}, false
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return UserClaims{}, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return UserClaims{}, false
	}

	sessionID, _ := claims["session_id"].(string)
	identityID, _ := claims["identity_id"].(string)
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	if sessionID == "" || identityID == "" {
		return UserClaims{}, false
	}

	// The token is only good while its session row exists.
	session, err := store.GetSession(sessionID)
	if err != nil || session.IdentityID != identityID {
		return UserClaims{}, false
	}

	return UserClaims{
		SessionID:  sessionID,
		IdentityID: identityID,
		Email:      email,
		Role:       role,
	}, true
}

// Auth validates the bearer token, checks the session is still alive and adds
// the caller's claims to the request context.
func Auth(store storage.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Not authenticated", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "Not authenticated", http.StatusUnauthorized)
				return
			}

			claims, ok := ParseToken(store, parts[1])
			if !ok {
				http.Error(w, "Not authenticated", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole checks the caller's role (must be used after Auth).
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := r.Context().Value(UserContextKey).(UserClaims)
			if !ok {
				http.Error(w, "Not authenticated", http.StatusUnauthorized)
				return
			}

			if claims.Role != role {
				log.Printf("❌ Insufficient permissions: required %s, got %s", role, claims.Role)
				http.Error(w, "Not authorized", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetUserFromContext extracts the caller's claims from the request context.
func GetUserFromContext(r *http.Request) (UserClaims, bool) {
	claims, ok := r.Context().Value(UserContextKey).(UserClaims)
	return claims, ok
}

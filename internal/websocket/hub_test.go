package websocket

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"foxcarz-backend/internal/models"
	"foxcarz-backend/internal/storage"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
)

func TestBroadcastReachesOnlyAdmins(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	admin := NewClient("a1", "admin@foxcarz.com", "admin", nil, hub)
	user := NewClient("u1", "user@foxcarz.com", "user", nil, hub)
	hub.register <- admin
	hub.register <- user

	hub.Broadcast(EventNewBooking, map[string]string{"id": "b1"})

	select {
	case data := <-admin.send:
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			t.Fatal(err)
		}
		if env.Event != EventNewBooking {
			t.Fatalf("event: got %q", env.Event)
		}
	case <-time.After(time.Second):
		t.Fatal("admin client never received the event")
	}

	select {
	case data := <-user.send:
		t.Fatalf("user client should not receive events, got %s", data)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBroadcastNeverBlocks(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	// A dead admin client with a full buffer must not stall publishing.
	stuck := NewClient("a1", "admin@foxcarz.com", "admin", nil, hub)
	hub.register <- stuck
	for i := 0; i < cap(stuck.send); i++ {
		stuck.send <- []byte("x")
	}

	done := make(chan struct{})
	go func() {
		for i := 0; i < 600; i++ {
			hub.Broadcast(EventBookingPayment, map[string]int{"n": i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Broadcast blocked on a slow client")
	}
}

func TestClientUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := NewClient("a1", "admin@foxcarz.com", "admin", nil, hub)
	hub.register <- client
	hub.unregister <- client

	deadline := time.Now().Add(time.Second)
	for hub.GetClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("client count: got %d, want 0", hub.GetClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}

	// The send channel is closed on unregister.
	if _, ok := <-client.send; ok {
		t.Fatal("send channel still open after unregister")
	}
}

func TestHandleWebSocketEndToEnd(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", "test-secret")
	store := storage.NewMemory()

	now := time.Now()
	session := models.Session{
		ID:         "sess-admin",
		IdentityID: "admin-1",
		Role:       "admin",
		CreatedAt:  now.Unix(),
		ExpiresAt:  now.Add(time.Hour).Unix(),
	}
	if err := store.CreateSession(session); err != nil {
		t.Fatal(err)
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"session_id":  session.ID,
		"identity_id": session.IdentityID,
		"email":       "admin@foxcarz.com",
		"role":        "admin",
		"exp":         session.ExpiresAt,
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}

	hub := NewHub()
	go hub.Run()

	srv := httptest.NewServer(HandleWebSocket(hub, store))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Wait for the hub to register the connection before broadcasting.
	deadline := time.Now().Add(time.Second)
	for hub.GetClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.Broadcast(EventNewBooking, map[string]string{"id": "b1"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("unmarshal %q: %v", data, err)
	}
	if env.Event != EventNewBooking {
		t.Fatalf("event: got %q", env.Event)
	}
}

func TestHandleWebSocketRejectsBadToken(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", "test-secret")
	store := storage.NewMemory()

	hub := NewHub()
	go hub.Run()

	srv := httptest.NewServer(HandleWebSocket(hub, store))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "?token=garbage"
	if _, _, err := websocket.DefaultDialer.Dial(wsURL, nil); err == nil {
		t.Fatal("expected handshake failure for a bad token")
	}
}

package handlers

import (
	"net/http"
	"strings"
	"testing"
)

func TestSignupAndSignin(t *testing.T) {
	env := newTestEnv(t)

	userID, token := env.signupAndSignin(t, "Ravi Kumar", "ravi@example.com", "secret1")
	if userID == "" || token == "" {
		t.Fatal("expected userId and token")
	}

	rec := env.do(t, http.MethodGet, "/api/auth/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		User struct {
			ID      string `json:"id"`
			Email   string `json:"email"`
			IsAdmin bool   `json:"is_admin"`
		} `json:"user"`
	}
	decode(t, rec, &resp)
	if resp.User.ID != userID || resp.User.Email != "ravi@example.com" || resp.User.IsAdmin {
		t.Fatalf("unexpected identity: %+v", resp.User)
	}

	// The password never leaks.
	rec = env.do(t, http.MethodGet, "/api/auth/me", token, nil)
	if strings.Contains(rec.Body.String(), `"password"`) {
		t.Fatalf("password leaked in response: %s", rec.Body.String())
	}
}

func TestSignupValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name string
		body map[string]string
	}{
		{"short name", map[string]string{"name": "R", "email": "r@example.com", "password": "secret1"}},
		{"bad email", map[string]string{"name": "Ravi", "email": "not-an-email", "password": "secret1"}},
		{"short password", map[string]string{"name": "Ravi", "email": "r@example.com", "password": "abc12"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/auth/signup", "", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.signupAndSignin(t, "Ravi", "ravi@example.com", "secret1")

	rec := env.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": "Other", "email": "ravi@example.com", "password": "secret2",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate signup: got %d", rec.Code)
	}

	// The first account is untouched.
	user, err := env.store.GetUserByEmail("ravi@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if user.Name != "Ravi" {
		t.Fatalf("original account changed: %+v", user)
	}
}

func TestSigninRejectsBadCredentialsUniformly(t *testing.T) {
	env := newTestEnv(t)
	env.signupAndSignin(t, "Ravi", "ravi@example.com", "secret1")

	wrongPw := env.do(t, http.MethodPost, "/api/auth/signin", "", map[string]string{
		"email": "ravi@example.com", "password": "wrong",
	})
	unknown := env.do(t, http.MethodPost, "/api/auth/signin", "", map[string]string{
		"email": "nobody@example.com", "password": "secret1",
	})

	if wrongPw.Code != http.StatusUnauthorized || unknown.Code != http.StatusUnauthorized {
		t.Fatalf("got %d and %d, want 401 for both", wrongPw.Code, unknown.Code)
	}
	// Identical bodies so the two failure causes are indistinguishable.
	if wrongPw.Body.String() != unknown.Body.String() {
		t.Fatalf("responses differ: %q vs %q", wrongPw.Body.String(), unknown.Body.String())
	}
}

func TestAdminLogin(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	rec := env.do(t, http.MethodGet, "/api/auth/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: got %d", rec.Code)
	}
	var resp struct {
		User struct {
			IsAdmin bool `json:"is_admin"`
		} `json:"user"`
	}
	decode(t, rec, &resp)
	if !resp.User.IsAdmin {
		t.Fatal("expected admin identity")
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signupAndSignin(t, "Ravi", "ravi@example.com", "secret1")

	rec := env.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout: got %d", rec.Code)
	}

	// The token dies with its session, even though the JWT has not expired.
	rec = env.do(t, http.MethodGet, "/api/auth/me", token, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("me after logout: got %d, want 401", rec.Code)
	}
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	env := newTestEnv(t)
	_, userToken := env.signupAndSignin(t, "Ravi", "ravi@example.com", "secret1")

	rec := env.do(t, http.MethodGet, "/api/admin/bookings", userToken, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("user on admin route: got %d, want 403", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/admin/bookings", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous on admin route: got %d, want 401", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/admin/bookings", env.adminToken(t), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin on admin route: got %d", rec.Code)
	}
}

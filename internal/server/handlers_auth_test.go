package server

import (
	"net/http"
	"testing"
)

type tokenResponse struct {
	Status string `json:"status"`
	Data   struct {
		Token string `json:"token"`
		User  struct {
			UserID   string `json:"user_id"`
			Email    string `json:"email"`
			Provider string `json:"provider"`
		} `json:"user"`
	} `json:"data"`
}

func TestUserCreateAndLogin(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/users", "", map[string]string{
		"user_id":  "alice",
		"email":    "alice@example.com",
		"name":     "Alice",
		"password": "secret123",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, s, http.MethodPost, "/api/auth/login", "", map[string]string{
		"user_id":  "alice",
		"password": "secret123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var body tokenResponse
	decodeBody(t, rec, &body)
	if body.Data.Token == "" {
		t.Fatal("token missing")
	}
	if body.Data.User.UserID != "alice" {
		t.Errorf("user_id = %q, want alice", body.Data.User.UserID)
	}

	// The issued token must pass the bearer middleware.
	rec = doRequest(t, s, http.MethodGet, "/api/auth/validate", body.Data.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("validate: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var validated struct {
		Data struct {
			UserID   string `json:"user_id"`
			Provider string `json:"provider"`
		} `json:"data"`
	}
	decodeBody(t, rec, &validated)
	if validated.Data.UserID != "alice" || validated.Data.Provider != "local" {
		t.Errorf("validated = %+v", validated.Data)
	}
}

func TestUserCreate_Validation(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name string
		body map[string]string
		want int
	}{
		{"missing user_id", map[string]string{"password": "x"}, http.StatusBadRequest},
		{"missing password", map[string]string{"user_id": "alice"}, http.StatusBadRequest},
		{"control chars", map[string]string{"user_id": "a\x01b", "password": "x"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, s, http.MethodPost, "/api/users", "", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestUserCreate_Conflict(t *testing.T) {
	s, _ := newTestServer(t)

	body := map[string]string{"user_id": "alice", "password": "secret123"}
	if rec := doRequest(t, s, http.MethodPost, "/api/users", "", body); rec.Code != http.StatusCreated {
		t.Fatalf("first create: status = %d", rec.Code)
	}
	if rec := doRequest(t, s, http.MethodPost, "/api/users", "", body); rec.Code != http.StatusConflict {
		t.Errorf("second create: status = %d, want 409", rec.Code)
	}
}

func TestAuthLogin_InvalidCredentials(t *testing.T) {
	s, _ := newTestServer(t)

	doRequest(t, s, http.MethodPost, "/api/users", "", map[string]string{
		"user_id": "alice", "password": "secret123",
	})

	tests := []struct {
		name string
		body map[string]string
	}{
		{"wrong password", map[string]string{"user_id": "alice", "password": "wrong"}},
		{"unknown user", map[string]string{"user_id": "ghost", "password": "secret123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, s, http.MethodPost, "/api/auth/login", "", tt.body)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestAuthLogin_OAuthAccountHasNoPassword(t *testing.T) {
	s, a := newTestServer(t)
	createTestUser(t, a, "oauth_user") // stored without password hash

	rec := doRequest(t, s, http.MethodPost, "/api/auth/login", "", map[string]string{
		"user_id": "oauth_user", "password": "anything",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthOAuth_DevProvider(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/auth/oauth", "", map[string]string{
		"provider": "dev",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var body tokenResponse
	decodeBody(t, rec, &body)
	if body.Data.Token == "" {
		t.Fatal("token missing")
	}
	if body.Data.User.UserID != "dev_user" {
		t.Errorf("user_id = %q, want dev_user", body.Data.User.UserID)
	}

	// Second exchange reuses the account.
	rec = doRequest(t, s, http.MethodPost, "/api/auth/oauth", "", map[string]string{
		"provider": "dev",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("second exchange: status = %d", rec.Code)
	}
}

func TestAuthOAuth_DevProviderBlockedInProduction(t *testing.T) {
	s, a := newTestServer(t)
	a.Config.Environment = "production"

	rec := doRequest(t, s, http.MethodPost, "/api/auth/oauth", "", map[string]string{
		"provider": "dev",
	})
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestAuthOAuth_UnsupportedProvider(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/auth/oauth", "", map[string]string{
		"provider": "github",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAuthValidate_Anonymous(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/auth/validate", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

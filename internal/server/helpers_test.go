package server

import (
	"net/http/httptest"
	"testing"
)

func TestPathParam(t *testing.T) {
	tests := []struct {
		path   string
		prefix string
		want   string
	}{
		{"/api/quote/005930", "/api/quote/", "005930"},
		{"/api/quote/", "/api/quote/", ""},
		{"/api/watchlist/005930", "/api/watchlist/", "005930"},
		{"/api/watchlist/005930/extra", "/api/watchlist/", "005930"},
		{"/other/005930", "/api/quote/", ""},
	}

	for _, tt := range tests {
		r := httptest.NewRequest("GET", tt.path, nil)
		if got := PathParam(r, tt.prefix, ""); got != tt.want {
			t.Errorf("PathParam(%q, %q) = %q, want %q", tt.path, tt.prefix, got, tt.want)
		}
	}
}

func TestRequireMethod(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/stocks", nil)
	rec := httptest.NewRecorder()
	if RequireMethod(rec, r, "GET") {
		t.Error("POST should not satisfy GET")
	}
	if rec.Code != 405 {
		t.Errorf("status = %d, want 405", rec.Code)
	}
	if rec.Header().Get("Allow") != "GET" {
		t.Errorf("Allow = %q, want GET", rec.Header().Get("Allow"))
	}

	r = httptest.NewRequest("GET", "/api/stocks", nil)
	rec = httptest.NewRecorder()
	if !RequireMethod(rec, r, "GET", "HEAD") {
		t.Error("GET should satisfy GET/HEAD")
	}
}

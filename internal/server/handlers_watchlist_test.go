package server

import (
	"net/http"
	"testing"
)

type watchItemResponse struct {
	Status string `json:"status"`
	Data   struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		IsDone   bool   `json:"is_done"`
		CreateAt string `json:"create_at"`
		UID      string `json:"uid"`
	} `json:"data"`
}

func TestWatchlistAdd(t *testing.T) {
	s, a := newTestServer(t)
	token := createTestUser(t, a, "alice")

	rec := doRequest(t, s, http.MethodPost, "/api/watchlist", token, map[string]string{
		"code":  "005930",
		"title": "삼성전자",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var body watchItemResponse
	decodeBody(t, rec, &body)
	if body.Status != "ok" {
		t.Errorf("status = %q", body.Status)
	}
	if body.Data.ID != "005930" || body.Data.Title != "삼성전자" {
		t.Errorf("data = %+v", body.Data)
	}
	if body.Data.IsDone {
		t.Error("new item should not be done")
	}
	if body.Data.UID != "alice" {
		t.Errorf("uid = %q, want alice", body.Data.UID)
	}
	if body.Data.CreateAt == "" {
		t.Error("create_at missing")
	}
}

func TestWatchlistAdd_MissingCode(t *testing.T) {
	s, a := newTestServer(t)
	token := createTestUser(t, a, "alice")

	rec := doRequest(t, s, http.MethodPost, "/api/watchlist", token, map[string]string{
		"title": "이름만 있음",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
}

func TestWatchlistAdd_Anonymous(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/watchlist", "", map[string]string{
		"code":  "005930",
		"title": "삼성전자",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestWatchlistAdd_MissingCodeBeatsMissingAuth(t *testing.T) {
	// An incomplete submission is reported before the auth check.
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/watchlist", "", map[string]string{
		"title": "이름만 있음",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
}

func TestWatchlistList(t *testing.T) {
	s, a := newTestServer(t)
	token := createTestUser(t, a, "alice")

	for _, code := range []string{"005930", "000660"} {
		rec := doRequest(t, s, http.MethodPost, "/api/watchlist", token, map[string]string{
			"code": code, "title": "item " + code,
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("add %s: status = %d", code, rec.Code)
		}
	}

	rec := doRequest(t, s, http.MethodGet, "/api/watchlist", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Status string `json:"status"`
		Data   []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	decodeBody(t, rec, &body)
	if len(body.Data) != 2 {
		t.Errorf("expected 2 items, got %d", len(body.Data))
	}
}

func TestWatchlistList_Anonymous(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/watchlist", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestWatchlistList_IsolatedPerUser(t *testing.T) {
	s, a := newTestServer(t)
	aliceToken := createTestUser(t, a, "alice")
	bobToken := createTestUser(t, a, "bob")

	rec := doRequest(t, s, http.MethodPost, "/api/watchlist", aliceToken, map[string]string{
		"code": "005930", "title": "삼성전자",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("add: status = %d", rec.Code)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/watchlist", bobToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status = %d", rec.Code)
	}
	var body struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	decodeBody(t, rec, &body)
	if len(body.Data) != 0 {
		t.Errorf("bob should see no items, got %+v", body.Data)
	}
}

func TestWatchlistGet(t *testing.T) {
	s, a := newTestServer(t)
	token := createTestUser(t, a, "alice")

	doRequest(t, s, http.MethodPost, "/api/watchlist", token, map[string]string{
		"code": "005930", "title": "삼성전자",
	})

	rec := doRequest(t, s, http.MethodGet, "/api/watchlist/005930", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body watchItemResponse
	decodeBody(t, rec, &body)
	if body.Data.ID != "005930" {
		t.Errorf("data = %+v", body.Data)
	}
}

func TestWatchlistGet_Absent(t *testing.T) {
	s, a := newTestServer(t)
	token := createTestUser(t, a, "alice")

	rec := doRequest(t, s, http.MethodGet, "/api/watchlist/999999", token, nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("body should be empty, got %q", rec.Body.String())
	}
}

func TestWatchlistUpdate(t *testing.T) {
	s, a := newTestServer(t)
	token := createTestUser(t, a, "alice")

	doRequest(t, s, http.MethodPost, "/api/watchlist", token, map[string]string{
		"code": "005930", "title": "삼성전자",
	})

	rec := doRequest(t, s, http.MethodPut, "/api/watchlist/005930", token, map[string]interface{}{
		"is_done": true,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body watchItemResponse
	decodeBody(t, rec, &body)
	if !body.Data.IsDone {
		t.Error("is_done should be true")
	}
	if body.Data.Title != "삼성전자" {
		t.Errorf("title changed on partial update: %q", body.Data.Title)
	}
}

func TestWatchlistUpdate_Absent(t *testing.T) {
	s, a := newTestServer(t)
	token := createTestUser(t, a, "alice")

	rec := doRequest(t, s, http.MethodPut, "/api/watchlist/999999", token, map[string]interface{}{
		"is_done": true,
	})
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}

func TestWatchlistDelete(t *testing.T) {
	s, a := newTestServer(t)
	token := createTestUser(t, a, "alice")

	doRequest(t, s, http.MethodPost, "/api/watchlist", token, map[string]string{
		"code": "005930", "title": "삼성전자",
	})

	rec := doRequest(t, s, http.MethodDelete, "/api/watchlist/005930", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body watchItemResponse
	decodeBody(t, rec, &body)
	if body.Data.ID != "005930" {
		t.Errorf("deleted record = %+v", body.Data)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/watchlist/005930", token, nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("status after delete = %d, want 204", rec.Code)
	}
}

func TestWatchlistDelete_Absent(t *testing.T) {
	s, a := newTestServer(t)
	token := createTestUser(t, a, "alice")

	rec := doRequest(t, s, http.MethodDelete, "/api/watchlist/999999", token, nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}

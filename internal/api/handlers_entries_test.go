package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCreateAndListEntries(t *testing.T) {
	router := newTestRouter(newMemStore(), &scriptedPipeline{})

	rr := doRequest(router, httptest.NewRequest("POST", "/api/entries",
		strings.NewReader(`{"content":"  walked by the river  "}`)), true)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rr.Code, rr.Body.String())
	}
	var created struct {
		EntryID string `json:"entryId"`
		Content string `json:"content"`
		UserID  string `json:"userId"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Content != "walked by the river" {
		t.Fatalf("content = %q, want trimmed", created.Content)
	}
	if created.UserID != testUserID {
		t.Fatalf("userId = %q, want %q", created.UserID, testUserID)
	}

	rr = doRequest(router, httptest.NewRequest("GET", "/api/entries", nil), true)
	if rr.Code != http.StatusOK {
		t.Fatalf("list status = %d", rr.Code)
	}
	var listed struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if listed.Count != 1 {
		t.Fatalf("count = %d, want 1", listed.Count)
	}
}

func TestCreateEntryRejectsBlank(t *testing.T) {
	router := newTestRouter(newMemStore(), &scriptedPipeline{})
	rr := doRequest(router, httptest.NewRequest("POST", "/api/entries",
		strings.NewReader(`{"content":"   "}`)), true)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestDeleteEntry(t *testing.T) {
	router := newTestRouter(newMemStore(), &scriptedPipeline{})

	rr := doRequest(router, httptest.NewRequest("POST", "/api/entries",
		strings.NewReader(`{"content":"to be removed"}`)), true)
	var created struct {
		EntryID string `json:"entryId"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rr = doRequest(router, httptest.NewRequest("DELETE", "/api/entries/"+created.EntryID, nil), true)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", rr.Code)
	}
	rr = doRequest(router, httptest.NewRequest("DELETE", "/api/entries/"+created.EntryID, nil), true)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("repeat delete status = %d, want 404", rr.Code)
	}
}

func TestEntriesRequireToken(t *testing.T) {
	router := newTestRouter(newMemStore(), &scriptedPipeline{})

	reqs := []*http.Request{
		httptest.NewRequest("POST", "/api/entries", strings.NewReader(`{"content":"x"}`)),
		httptest.NewRequest("GET", "/api/entries", nil),
		httptest.NewRequest("DELETE", "/api/entries/e1", nil),
		httptest.NewRequest("GET", "/api/summary/eligibility", nil),
		httptest.NewRequest("POST", "/api/summary", nil),
	}
	for _, req := range reqs {
		rr := doRequest(router, req, false)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s status = %d, want 401", req.Method, req.URL.Path, rr.Code)
		}
	}
}

func TestListEntriesBadQueryParams(t *testing.T) {
	router := newTestRouter(newMemStore(), &scriptedPipeline{})

	rr := doRequest(router, httptest.NewRequest("GET", "/api/entries?limit=0", nil), true)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("limit=0 status = %d, want 400", rr.Code)
	}
	rr = doRequest(router, httptest.NewRequest("GET", "/api/entries?before=not-a-time", nil), true)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("bad before status = %d, want 400", rr.Code)
	}
}

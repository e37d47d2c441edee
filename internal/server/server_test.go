package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/thread-miners/scrape/pkg/models"
)

type fakeRunner struct {
	result *models.RunResult
	err    error
}

func (f *fakeRunner) Run(_ context.Context, username string) (*models.RunResult, error) {
	if f.err != nil {
		return &models.RunResult{Username: username, Status: models.StatusError}, f.err
	}
	return f.result, nil
}

func doScrape(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/scrape", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.handleScrape(rec, req)
	return rec
}

func TestHandleScrape_Done(t *testing.T) {
	s := New(&fakeRunner{result: &models.RunResult{
		Username: "alice", Status: models.StatusDone, ThreadCount: 2, ReplyCount: 5,
	}}, ":0")

	rec := doScrape(t, s, `{"username":"alice"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp scrapeResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if resp.Status != models.StatusDone || resp.ThreadCount != 2 || resp.ReplyCount != 5 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestHandleScrape_MissingUsername(t *testing.T) {
	s := New(&fakeRunner{}, ":0")

	for _, body := range []string{`{}`, `{"username":""}`, `not json`} {
		rec := doScrape(t, s, body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestHandleScrape_RunFailure(t *testing.T) {
	s := New(&fakeRunner{err: errors.New("render timeout")}, ":0")

	rec := doScrape(t, s, `{"username":"ghost"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp scrapeResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if resp.Status != models.StatusError || resp.Detail == "" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestHandleScrape_MethodNotAllowed(t *testing.T) {
	s := New(&fakeRunner{}, ":0")
	req := httptest.NewRequest(http.MethodGet, "/scrape", nil)
	rec := httptest.NewRecorder()
	s.handleScrape(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d", rec.Code)
	}
}

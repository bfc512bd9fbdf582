package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/verte-zerg/typerace/internal/model"
	"github.com/verte-zerg/typerace/internal/report"
	"github.com/verte-zerg/typerace/internal/store"
)

func newTestApp(t *testing.T) (*store.Store, func(*http.Request) *http.Response) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "typerace.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	app := New(st, report.Validator(), nil)
	return st, func(req *http.Request) *http.Response {
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("request %s: %v", req.URL, err)
		}
		return resp
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(data)
}

func TestTopEmpty(t *testing.T) {
	_, do := newTestApp(t)
	resp := do(httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard/top", nil))
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
}

func TestSubmitAndQuery(t *testing.T) {
	_, do := newTestApp(t)

	body := `{"textExcerpt":"the quick fox","wpm":26,"accuracy":100,"duration":6,"player":"ada","shortId":"abcdEFGH","wpmHistory":[{"time":0,"wpm":20}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/results", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := do(req)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, readBody(t, resp))
	}

	resp = do(httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard/top", nil))
	var top topResponse
	if err := json.Unmarshal([]byte(readBody(t, resp)), &top); err != nil {
		t.Fatalf("decode top: %v", err)
	}
	if top.WPM != 26 || top.PlayerName == nil || *top.PlayerName != "ada" {
		t.Fatalf("unexpected top: %+v", top)
	}

	resp = do(httptest.NewRequest(http.MethodGet, "/api/v1/s/abcdEFGH", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var shared model.SharedResult
	if err := json.Unmarshal([]byte(readBody(t, resp)), &shared); err != nil {
		t.Fatalf("decode shared: %v", err)
	}
	if shared.Excerpt != "the quick fox" || len(shared.WPMHistory) != 1 {
		t.Fatalf("unexpected shared result: %+v", shared)
	}

	resp = do(httptest.NewRequest(http.MethodGet, "/s/abcdEFGH", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected share link to resolve, got %d", resp.StatusCode)
	}
}

func TestSubmitRejectsOutOfRange(t *testing.T) {
	_, do := newTestApp(t)
	body := `{"textExcerpt":"x","wpm":999,"accuracy":100,"duration":6}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/results", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := do(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestSharedNotFound(t *testing.T) {
	_, do := newTestApp(t)
	resp := do(httptest.NewRequest(http.MethodGet, "/api/v1/s/nope1234", nil))
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestLeaderboardLimit(t *testing.T) {
	st, do := newTestApp(t)
	for _, wpm := range []int{40, 90, 70} {
		if _, err := st.InsertResult(context.Background(), model.Submission{Excerpt: "x", WPM: wpm}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	resp := do(httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard?limit=2", nil))
	var entries []model.LeaderboardEntry
	if err := json.Unmarshal([]byte(readBody(t, resp)), &entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 2 || entries[0].WPM != 90 || entries[1].WPM != 70 {
		t.Fatalf("unexpected entries: %+v", entries)
	}

	resp = do(httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard?limit=zero", nil))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

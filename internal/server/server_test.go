package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sant0-9/carousel/internal/apperr"
	"github.com/sant0-9/carousel/internal/config"
	"github.com/sant0-9/carousel/internal/logger"
	"github.com/sant0-9/carousel/internal/pipeline"
	"github.com/sant0-9/carousel/internal/service"
	"github.com/sant0-9/carousel/internal/writer"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return New(service.New(config.DefaultConfig(), nil), logger.Nop())
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)
	return rec
}

func storyBody(t *testing.T, fields map[string]interface{}) string {
	t.Helper()
	data, err := json.Marshal(fields)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("missing request id header")
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)

	if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("X-Request-ID = %q", got)
	}
}

func TestSchemes(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/api/v1/schemes", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Schemes []schemeResponse `json:"schemes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Schemes) != 2 || resp.Schemes[0].Name != "arc" || !resp.Schemes[0].Builtin {
		t.Errorf("schemes = %+v", resp.Schemes)
	}
}

func TestChunk(t *testing.T) {
	body := storyBody(t, map[string]interface{}{
		"story":     "One. Two three four five. Six? Seven!",
		"max_chars": 12,
	})
	rec := do(t, newTestServer(t), http.MethodPost, "/api/v1/chunk", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body)
	}

	var resp chunkResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	want := []string{"One.", "Two three four five.", "Six? Seven!"}
	if resp.Count != 3 || strings.Join(resp.Chunks, "|") != strings.Join(want, "|") {
		t.Errorf("resp = %+v", resp)
	}
}

func TestChunkEmptyStory(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodPost, "/api/v1/chunk", `{"story":""}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"chunks":[]`) {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestStructure(t *testing.T) {
	body := storyBody(t, map[string]interface{}{"story": pipeline.SampleStory})
	rec := do(t, newTestServer(t), http.MethodPost, "/api/v1/structure", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body)
	}

	var resp structureResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Budget != 176 || resp.Scheme != "arc" || len(resp.Slides) != 3 || resp.Slides[0].Title != "Hook" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestSlides(t *testing.T) {
	body := storyBody(t, map[string]interface{}{
		"story":          pipeline.SampleStory,
		"auto_structure": false,
	})
	rec := do(t, newTestServer(t), http.MethodPost, "/api/v1/slides", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body)
	}

	var deck writer.Deck
	if err := json.Unmarshal(rec.Body.Bytes(), &deck); err != nil {
		t.Fatal(err)
	}
	if deck.Mode != "chunked" || len(deck.Slides) != 2 || deck.Slides[0].Title != "Slide 1" {
		t.Errorf("deck = %+v", deck)
	}
}

func TestExport(t *testing.T) {
	body := storyBody(t, map[string]interface{}{"story": pipeline.SampleStory, "title": "Ads"})
	rec := do(t, newTestServer(t), http.MethodPost, "/api/v1/export?format=md", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/markdown") {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "carousel_slides.md") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !strings.Contains(rec.Body.String(), "## 1/3 · Hook") {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantCode   apperr.Code
	}{
		{
			name:       "malformed json",
			path:       "/api/v1/chunk",
			body:       `{"story":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   apperr.CodeInvalidParam,
		},
		{
			name:       "zero budget",
			path:       "/api/v1/chunk",
			body:       `{"story":"A.","max_chars":0}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   apperr.CodeInvalidParam,
		},
		{
			name:       "negative budget when structuring",
			path:       "/api/v1/structure",
			body:       `{"story":"A.","max_chars":-3}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   apperr.CodeInvalidParam,
		},
		{
			name:       "unknown scheme",
			path:       "/api/v1/slides",
			body:       `{"story":"A.","scheme":"sonnet"}`,
			wantStatus: http.StatusNotFound,
			wantCode:   apperr.CodeNotFound,
		},
		{
			name:       "unknown export format",
			path:       "/api/v1/export?format=png",
			body:       `{"story":"A."}`,
			wantStatus: http.StatusUnsupportedMediaType,
			wantCode:   apperr.CodeUnsupportedFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newTestServer(t), http.MethodPost, tt.path, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body)
			}
			var body errorBody
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", body.Code, tt.wantCode)
			}
			if body.RequestID == "" {
				t.Error("error body has no request_id")
			}
		})
	}
}

func TestRecovery(t *testing.T) {
	s := newTestServer(t)
	s.Engine().GET("/boom", func(c *gin.Context) { panic("boom") })

	rec := do(t, s, http.MethodGet, "/boom", "")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodPost, "/api/v1/slides", `{"story":"A. B."}`)

	rec := do(t, s, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "carousel_deck_generated_total") {
		t.Error("deck counter missing from /metrics")
	}
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/chunk", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestRunShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("no loopback: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- newTestServer(t).Run(ctx, addr) }()

	// Wait for the listener
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get("http://" + addr + "/health")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

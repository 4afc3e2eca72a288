// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ShaikMuktharBasha/realtime-poll-backend/models"
)

func TestWithLogging(t *testing.T) {
	called := false
	handler := WithLogging(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("body"))
	})

	req := httptest.NewRequest("GET", "/polls", nil)
	w := httptest.NewRecorder()
	handler(w, req)

	if !called {
		t.Fatal("Wrapped handler was not called")
	}
	if w.Code != http.StatusTeapot || w.Body.String() != "body" {
		t.Errorf("Logging wrapper altered the response: %d %q", w.Code, w.Body.String())
	}
}

func TestJSONResponse(t *testing.T) {
	w := httptest.NewRecorder()
	JSONResponse(w, http.StatusCreated, map[string]string{"hello": "world"})

	if w.Code != http.StatusCreated {
		t.Errorf("Expected 201, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json, got %q", ct)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse body: %v", err)
	}
	if body["hello"] != "world" {
		t.Errorf("Unexpected body: %v", body)
	}
}

func TestErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()
	ErrorResponse(w, http.StatusNotFound, "poll not found")

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
	var resp models.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse body: %v", err)
	}
	if resp.Error != "Not Found" || resp.Message != "poll not found" {
		t.Errorf("Unexpected error response: %+v", resp)
	}
}

func TestRateLimitResponse(t *testing.T) {
	tests := []struct {
		name            string
		retryAfter      time.Duration
		expectedSeconds int64
	}{
		{"whole seconds", 30 * time.Second, 30},
		{"sub-second rounds up to one", 200 * time.Millisecond, 1},
		{"zero still hints one second", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			RateLimitResponse(w, "slow down", tt.retryAfter)

			if w.Code != http.StatusTooManyRequests {
				t.Fatalf("Expected 429, got %d", w.Code)
			}
			if got := w.Header().Get("Retry-After"); got == "" {
				t.Error("Expected Retry-After header")
			}
			var resp models.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("Failed to parse body: %v", err)
			}
			if resp.RetryAfter != tt.expectedSeconds {
				t.Errorf("Expected retry_after=%d, got %d", tt.expectedSeconds, resp.RetryAfter)
			}
		})
	}
}

func TestParseJSONBody(t *testing.T) {
	req := httptest.NewRequest("POST", "/polls", bytes.NewReader([]byte(`{"question":"Q?","options":["A","B"]}`)))
	var parsed models.CreatePollRequest
	if err := ParseJSONBody(req, &parsed); err != nil {
		t.Fatalf("ParseJSONBody failed: %v", err)
	}
	if parsed.Question != "Q?" || len(parsed.Options) != 2 {
		t.Errorf("Unexpected parse result: %+v", parsed)
	}

	bad := httptest.NewRequest("POST", "/polls", bytes.NewReader([]byte(`{not json`)))
	if err := ParseJSONBody(bad, &parsed); err == nil {
		t.Error("Expected error for malformed JSON")
	}
}

func TestCORS(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := CORS(inner)

	t.Run("regular request gets headers", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/polls", nil)
		req.Header.Set("Origin", "http://example.com")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://example.com" {
			t.Errorf("Unexpected allow-origin: %q", got)
		}
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/polls", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200 for preflight, got %d", w.Code)
		}
		if w.Header().Get("Access-Control-Allow-Methods") == "" {
			t.Error("Expected Access-Control-Allow-Methods header")
		}
	})
}

package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func completionBody(content string) map[string]any {
	return map[string]any{
		"choices": []any{
			map[string]any{
				"message": map[string]any{"content": content},
			},
		},
	}
}

func TestCompleteJSONReturnsContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test" {
			t.Fatalf("missing auth header")
		}
		if err := json.NewEncoder(w).Encode(completionBody(`{"evaluation":4}`)); err != nil {
			t.Fatalf("encode response: %v", err)
		}
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo"})
	content, err := client.CompleteJSON(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("CompleteJSON returned error: %v", err)
	}
	if content != `{"evaluation":4}` {
		t.Fatalf("unexpected content: %q", content)
	}
}

func TestCompleteJSONRetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(completionBody(`{"ok":true}`))
	}))
	defer server.Close()

	var slept []time.Duration
	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo"},
		WithSleeper(func(d time.Duration) { slept = append(slept, d) }))
	if _, err := client.CompleteJSON(context.Background(), "system", "user"); err != nil {
		t.Fatalf("expected retry to succeed: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 calls, got %d", calls.Load())
	}
	if len(slept) != 1 || slept[0] != time.Second {
		t.Fatalf("expected one Retry-After sleep of 1s, got %v", slept)
	}
}

func TestCompleteJSONBoundedAttempts(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo"},
		WithRetryMaxAttempts(3),
		WithSleeper(func(time.Duration) {}))
	if _, err := client.CompleteJSON(context.Background(), "system", "user"); err == nil {
		t.Fatal("expected failure after bounded retries")
	}
	if calls.Load() != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", calls.Load())
	}
}

func TestCompleteJSONDoesNotRetryClientError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "bad", BaseURL: server.URL, Model: "demo"},
		WithSleeper(func(time.Duration) {}))
	if _, err := client.CompleteJSON(context.Background(), "system", "user"); err == nil {
		t.Fatal("expected auth failure")
	}
	if calls.Load() != 1 {
		t.Fatalf("4xx must not retry, got %d calls", calls.Load())
	}
}

func TestHealthCheckCodeFence(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(completionBody("```json\n{\"ok\":true}\n```"))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo"})
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck returned error: %v", err)
	}
}

func TestDecodeJSONExtractsEmbeddedObject(t *testing.T) {
	var parsed struct {
		Evaluation int `json:"evaluation"`
	}
	if err := DecodeJSON("Here is my verdict: {\"evaluation\": 2} hope that helps", &parsed); err != nil {
		t.Fatalf("DecodeJSON failed: %v", err)
	}
	if parsed.Evaluation != 2 {
		t.Fatalf("evaluation = %d, want 2", parsed.Evaluation)
	}
}

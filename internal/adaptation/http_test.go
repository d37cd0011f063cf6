package adaptation_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"cloudproxy/internal/adaptation"
	"cloudproxy/internal/outcome"
	"cloudproxy/internal/services"
)

func newHTTPClient(t *testing.T, url, apiKey string) *adaptation.HTTPClient {
	t.Helper()
	client := adaptation.NewHTTPClient(url, apiKey, time.Second, &http.Client{Transport: &http.Transport{}})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestHTTPClientRequestDecodesVerdict(t *testing.T) {
	id := uuid.New()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			w.WriteHeader(http.StatusOK)
		case "/api/adaptation":
			if r.Method != http.MethodPost {
				t.Errorf("unexpected method %s", r.Method)
			}
			if key := r.Header.Get("X-API-Key"); key != "secret" {
				t.Errorf("unexpected api key %q", key)
			}
			var req adaptation.ProcessRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("decode request: %v", err)
			}
			if req.FileID != id.String() || req.OriginalPath != "/o/x" || req.RebuiltPath != "/r/x" {
				t.Errorf("unexpected request %+v", req)
			}
			_, _ = w.Write([]byte(`{"outcome":"replace","detail":"sanitised"}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := newHTTPClient(t, server.URL+"/", "secret")
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	result, err := client.Request(context.Background(), id, "/o/x", "/r/x")
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if result.Outcome != outcome.Rebuilt || result.Detail != "sanitised" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestHTTPClientAcceptsNumericOutcome(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"outcome":7}`))
	}))
	defer server.Close()

	client := newHTTPClient(t, server.URL, "")
	result, err := client.Request(context.Background(), uuid.New(), "a", "b")
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if result.Outcome != outcome.Outcome(7) {
		t.Fatalf("outcome = %v, want 7", result.Outcome)
	}
}

func TestHTTPClientConnectFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	tests := []struct {
		name string
		url  string
	}{
		{name: "unhealthy", url: server.URL},
		{name: "unconfigured", url: ""},
		{name: "unreachable", url: "http://127.0.0.1:1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newHTTPClient(t, tt.url, "")
			err := client.Connect(context.Background())
			if !errors.Is(err, services.ErrConnectivity) {
				t.Fatalf("expected ErrConnectivity, got %v", err)
			}
		})
	}
}

func TestHTTPClientServerErrorIncludesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "engine offline", http.StatusBadGateway)
	}))
	defer server.Close()

	client := newHTTPClient(t, server.URL, "")
	_, err := client.Request(context.Background(), uuid.New(), "a", "b")
	if !errors.Is(err, services.ErrProcessing) {
		t.Fatalf("expected ErrProcessing, got %v", err)
	}
	if got := err.Error(); !containsAll(got, "502", "engine offline") {
		t.Fatalf("unexpected error text %q", got)
	}
}

func TestHTTPClientRequestObservesCancellation(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer server.Close()
	defer close(release)

	client := newHTTPClient(t, server.URL, "")
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.Request(ctx, uuid.New(), "a", "b")
	if err == nil {
		t.Fatal("expected error after deadline")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("request did not observe cancellation promptly: %s", elapsed)
	}
}

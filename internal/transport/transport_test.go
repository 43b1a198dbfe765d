// Package transport tests document the downloader contract.
//
// Test requirements (this file serves as documentation):
// - HTTP 429 surfaces as a *ChallengeError matching ErrChallenge
// - Other statuses are returned as responses, not errors
// - Caller headers override defaults; User-Agent is always set
// - Request bodies are sent for POST
// - Context deadlines are respected
// - Requests to one host are paced when a minimum interval is configured
package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_Execute_ReturnsBodyAndStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != DefaultUserAgent {
			t.Errorf("expected default user agent, got %q", ua)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"nope"}`))
	}))
	defer server.Close()

	resp, err := Get(context.Background(), NewClient(), server.URL+"/votes")
	if err != nil {
		t.Fatalf("non-429 statuses should not be errors, got %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
	if resp.OK() {
		t.Error("404 should not be OK")
	}
	if string(resp.Body) != `{"error":"nope"}` {
		t.Errorf("unexpected body %q", resp.Body)
	}
}

func TestClient_Execute_429IsChallenge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := Get(context.Background(), NewClient(), server.URL)

	if !errors.Is(err, ErrChallenge) {
		t.Fatalf("expected ErrChallenge, got %v", err)
	}
	var ce *ChallengeError
	if !errors.As(err, &ce) || ce.URL != server.URL {
		t.Errorf("challenge error should carry the URL, got %v", err)
	}
}

func TestClient_Execute_SendsHeadersAndBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("expected JSON content type, got %q", got)
		}
		if got := r.Header.Get("User-Agent"); got != "custom/1.0" {
			t.Errorf("caller header should override user agent, got %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"browseId":"FEtrending"}` {
			t.Errorf("unexpected body %q", body)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	header := http.Header{}
	header.Set("Content-Type", "application/json")
	header.Set("User-Agent", "custom/1.0")

	resp, err := Post(context.Background(), NewClient(), server.URL, header, []byte(`{"browseId":"FEtrending"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.OK() {
		t.Errorf("expected 2xx, got %d", resp.StatusCode)
	}
}

func TestClient_Execute_TransportFailureIsNotChallenge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := Get(context.Background(), NewClient(), url)

	if err == nil {
		t.Fatal("expected error for closed server")
	}
	if errors.Is(err, ErrChallenge) {
		t.Error("connection failure must not look like a challenge")
	}
}

func TestClient_Execute_RespectsContextDeadline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := Get(ctx, NewClient(), server.URL)

	if err == nil {
		t.Fatal("expected timeout error")
	}
	if ctx.Err() != context.DeadlineExceeded {
		t.Errorf("expected DeadlineExceeded, got %v", ctx.Err())
	}
}

func TestPacer_SpacesRequestsPerHost(t *testing.T) {
	p := newPacer(time.Second)
	now := time.Now()

	if d := p.reserve("a", now); d != 0 {
		t.Errorf("first request should not wait, got %v", d)
	}
	if d := p.reserve("a", now); d != time.Second {
		t.Errorf("second request should wait one interval, got %v", d)
	}
	if d := p.reserve("a", now); d != 2*time.Second {
		t.Errorf("third request should queue behind the second, got %v", d)
	}
	if d := p.reserve("b", now); d != 0 {
		t.Errorf("other host should not wait, got %v", d)
	}
	if d := p.reserve("a", now.Add(5*time.Second)); d != 0 {
		t.Errorf("request after the interval should not wait, got %v", d)
	}
}

func TestPacer_WaitHonoursCancellation(t *testing.T) {
	p := newPacer(time.Hour)
	_ = p.reserve("host", time.Now())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := p.wait(ctx, "host"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

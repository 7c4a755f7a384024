package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestRetrierSucceedsAfterFailures(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("finally"))
	}))
	defer server.Close()

	retrier := NewRetrierWithPolicy(NewClient(nil, nil), nil, 3, time.Millisecond)
	payload, err := retrier.Do(context.Background(), Target{URL: server.URL, Scrape: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(payload) != "finally" {
		t.Errorf("unexpected payload %q", payload)
	}
	if atomic.LoadInt32(&calls) != 3 {
		t.Errorf("expected 3 attempts, got %d", calls)
	}
}

func TestRetrierSurfacesLastErrorWhenExhausted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	retrier := NewRetrierWithPolicy(NewClient(nil, nil), nil, 3, time.Millisecond)
	_, err := retrier.Do(context.Background(), Target{URL: server.URL, Scrape: true})

	var protoErr *ProtocolError
	if !errors.As(err, &protoErr) {
		t.Fatalf("expected last ProtocolError surfaced, got %v", err)
	}
	if protoErr.Status != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", protoErr.Status)
	}
}

func TestRetrierDelaySchedule(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	base := 30 * time.Millisecond
	retrier := NewRetrierWithPolicy(NewClient(nil, nil), nil, 3, base)

	start := time.Now()
	retrier.Do(context.Background(), Target{URL: server.URL, Scrape: true})
	elapsed := time.Since(start)

	// Attempt 1 waits base, attempt 2 waits 2*base: 3*base minimum total.
	if elapsed < 3*base {
		t.Errorf("expected at least %v of backoff, elapsed %v", 3*base, elapsed)
	}
	if atomic.LoadInt32(&calls) != 3 {
		t.Errorf("expected 3 attempts, got %d", calls)
	}
}

func TestRetrierRotatesThroughProxyPool(t *testing.T) {
	// Proxied attempts fail at the dial (the proxies don't exist); the
	// retrier must still have consumed pool entries in rotation order.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	pool := NewProxyPool(parseProxyList([]byte("127.0.0.1:1\n127.0.0.1:2\n")))
	retrier := NewRetrierWithPolicy(NewClient(nil, nil), pool, 3, time.Millisecond)

	retrier.Do(context.Background(), Target{URL: server.URL, Scrape: true})

	// Attempt 0 direct, attempts 1 and 2 each took a proxy: cursor is back at
	// the pool's start.
	if next := pool.Next(); next.Host != "127.0.0.1:1" {
		t.Errorf("expected both proxies consumed and cursor wrapped, next is %s", next.Host)
	}
}

func TestRetrierDoesNotRetryNoMatch(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	retrier := NewRetrierWithPolicy(NewClient(nil, nil), nil, 3, time.Millisecond)
	// API-mode 404 maps to ErrNoMatch, which is definitive.
	_, err := retrier.Do(context.Background(), Target{URL: server.URL})
	if !errors.Is(err, ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("expected no retries for ErrNoMatch, got %d calls", calls)
	}
}

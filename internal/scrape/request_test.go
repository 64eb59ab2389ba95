package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ternarybob/arbor"
)

func TestFetcherGetZeroTriesSendsNoRequest(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f := NewFetcher(RetryConfig{MaxTries: 0, RequestTimeout: time.Second}, arbor.NewLogger())
	_, err := f.Get(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected an error with max_tries=0")
	}
	if called {
		t.Fatal("expected no request to be sent with max_tries=0")
	}
}

func TestFetcherHeadZeroTriesSendsNoRequest(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f := NewFetcher(RetryConfig{MaxTries: 0, RequestTimeout: time.Second}, arbor.NewLogger())
	_, err := f.Head(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected an error with max_tries=0")
	}
	if called {
		t.Fatal("expected no request to be sent with max_tries=0")
	}
}

func TestFetcherHeadFollowsToFinalURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/start" {
			http.Redirect(w, r, "/final", http.StatusFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f := NewFetcher(RetryConfig{MaxTries: 3, RequestTimeout: time.Second}, arbor.NewLogger())
	resolved, err := f.Head(context.Background(), srv.URL+"/start")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved != srv.URL+"/final" {
		t.Fatalf("resolved = %q, want %q", resolved, srv.URL+"/final")
	}
}

package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFetcher_Fetch_SetsHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "pawlens-test/0.1" {
			t.Errorf("Expected custom user agent, got %q", ua)
		}
		if accept := r.Header.Get("Accept"); !strings.Contains(accept, "text/html") {
			t.Errorf("Expected html accept header, got %q", accept)
		}
		fmt.Fprint(w, "<html>ok</html>")
	}))
	defer server.Close()

	f := NewFetcher(5*time.Second, "pawlens-test/0.1", 1<<20, false)
	body, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if body != "<html>ok</html>" {
		t.Errorf("Unexpected body: %q", body)
	}
}

func TestFetcher_Fetch_BodyCap(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, strings.Repeat("x", 1000))
	}))
	defer server.Close()

	f := NewFetcher(5*time.Second, "pawlens-test/0.1", 100, false)
	body, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(body) != 100 {
		t.Errorf("Expected body capped at 100 bytes, got %d", len(body))
	}
}

func TestFetcher_Fetch_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := NewFetcher(5*time.Second, "pawlens-test/0.1", 1<<20, false)
	if _, err := f.Fetch(context.Background(), server.URL); err == nil {
		t.Error("Expected error for 404 response")
	}
}

func TestFetcher_Fetch_RedirectLimit(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, server.URL+r.URL.Path+"x", http.StatusFound)
	}))
	defer server.Close()

	f := NewFetcher(5*time.Second, "pawlens-test/0.1", 1<<20, false)
	if _, err := f.Fetch(context.Background(), server.URL); err == nil {
		t.Error("Expected error after redirect limit")
	}
}

func TestLimiter_PerDomainIndependence(t *testing.T) {
	l := NewLimiter(1, 1)

	// First request on each domain consumes that domain's burst without
	// touching the other.
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx, "https://a.example.com/page"); err != nil {
		t.Fatalf("Wait on first domain failed: %v", err)
	}
	if err := l.Wait(ctx, "https://b.example.com/page"); err != nil {
		t.Fatalf("Wait on second domain failed: %v", err)
	}

	// A second request on the first domain must block past the context
	// deadline at 1 req/s.
	if err := l.Wait(ctx, "https://a.example.com/other"); err == nil {
		t.Error("Expected same-domain second request to hit the rate limit")
	}
}

func TestLimiter_WaitWithDelay(t *testing.T) {
	l := NewLimiter(1000, 1000)

	start := time.Now()
	if err := l.WaitWithDelay(context.Background(), "https://a.example.com", 50*time.Millisecond); err != nil {
		t.Fatalf("WaitWithDelay failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("Expected at least the politeness delay, got %v", elapsed)
	}
}

func TestRobotsChecker_DisallowedPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			fmt.Fprint(w, "User-agent: *\nDisallow: /private/\nCrawl-delay: 1\n")
			return
		}
		fmt.Fprint(w, "ok")
	}))
	defer server.Close()

	r := NewRobotsChecker("pawlens-test/0.1", 5*time.Second)

	allowed, _ := r.CanFetch(context.Background(), server.URL+"/products/item")
	if !allowed {
		t.Error("Expected allowed path")
	}

	allowed, delay := r.CanFetch(context.Background(), server.URL+"/private/item")
	if allowed {
		t.Error("Expected disallowed path")
	}
	if delay != time.Second {
		t.Errorf("Expected 1s crawl delay, got %v", delay)
	}
}

func TestRobotsChecker_MissingRobotsAllows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	r := NewRobotsChecker("pawlens-test/0.1", 5*time.Second)
	if allowed, _ := r.CanFetch(context.Background(), server.URL+"/anything"); !allowed {
		t.Error("Expected missing robots.txt to allow by default")
	}
}

package discogs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sydlexius/cratediff/internal/ratelimit"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testLimiter() *ratelimit.Limiter {
	// Effectively unlimited so tests are not paced.
	return ratelimit.New(time.Microsecond, 5, time.Millisecond, testLogger())
}

func newClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	return New(Config{
		BaseURL:  baseURL,
		Username: "testuser",
		Token:    "test-token",
		Timeout:  5 * time.Second,
	}, testLimiter(), testLogger())
}

// collectionPage renders one page of a 3-page collection where release
// IDs are sequential from 1 and each page holds two releases.
func collectionPage(page, pages int) string {
	first := (page-1)*2 + 1
	return fmt.Sprintf(`{
		"pagination": {"page": %d, "pages": %d, "per_page": 100, "items": %d},
		"releases": [
			{"id": %d, "basic_information": {"title": "Album %d", "year": 2000, "artists": [{"name": "Artist"}]}},
			{"id": %d, "basic_information": {"title": "Album %d", "year": 2001, "artists": [{"name": "Artist"}]}}
		]
	}`, page, pages, pages*2, first, first, first+1, first+1)
}

func TestCollectionReleases_Paginates(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if got := r.Header.Get("Authorization"); got != "Discogs token=test-token" {
			t.Errorf("unexpected auth header %q", got)
		}
		if got := r.URL.Path; got != "/users/testuser/collection/folders/7/releases" {
			t.Errorf("unexpected path %q", got)
		}
		if got := r.URL.Query().Get("per_page"); got != "100" {
			t.Errorf("unexpected per_page %q", got)
		}
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, collectionPage(page, 3))
	}))
	defer srv.Close()

	c := newClient(t, srv.URL)
	var ids []int
	for r, err := range c.CollectionReleases(context.Background(), 7) {
		if err != nil {
			t.Fatalf("iterating releases: %v", err)
		}
		ids = append(ids, r.ID)
	}

	want := []int{1, 2, 3, 4, 5, 6}
	if len(ids) != len(want) {
		t.Fatalf("expected %d releases, got %d (%v)", len(want), len(ids), ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("releases out of page order: %v", ids)
		}
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("expected exactly 3 fetch calls, got %d", got)
	}
}

func TestCollectionReleases_EarlyBreakStopsFetching(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		fmt.Fprint(w, collectionPage(page, 3))
	}))
	defer srv.Close()

	c := newClient(t, srv.URL)
	for range c.CollectionReleases(context.Background(), 7) {
		break
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 fetch call after early break, got %d", got)
	}
}

func TestCollectionIndex_Normalizes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"pagination": {"page": 1, "pages": 1, "per_page": 100, "items": 2},
			"releases": [
				{"id": 101, "basic_information": {"title": "Split EP", "year": 1999,
					"artists": [{"name": "First Band"}, {"name": "Second Band"}]}},
				{"id": 102, "basic_information": {"title": "No Year LP", "year": 0,
					"artists": [{"name": "Solo Act"}]}}
			]
		}`)
	}))
	defer srv.Close()

	c := newClient(t, srv.URL)
	idx, err := c.CollectionIndex(context.Background(), 1)
	if err != nil {
		t.Fatalf("CollectionIndex: %v", err)
	}
	if len(idx) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(idx))
	}

	split := idx[101]
	if split.Release.Artist != "First Band / Second Band" {
		t.Errorf("expected joined artists, got %q", split.Release.Artist)
	}
	if split.Location != "https://www.discogs.com/release/101" {
		t.Errorf("unexpected location %q", split.Location)
	}

	if idx[102].Release.YearKnown() {
		t.Error("year 0 should normalize to unknown")
	}
}

func TestGet_NonSuccessStatusIsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newClient(t, srv.URL)
	_, err := c.CollectionIndex(context.Background(), 1)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", apiErr.StatusCode)
	}
	if apiErr.URL == "" {
		t.Error("expected failing URL in error")
	}
}

func TestGet_TimeoutIsTimeoutError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	c := New(Config{
		BaseURL:  srv.URL,
		Username: "testuser",
		Token:    "test-token",
		Timeout:  50 * time.Millisecond,
	}, testLimiter(), testLogger())

	_, err := c.CollectionIndex(context.Background(), 1)
	var timeoutErr *TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("expected *TimeoutError, got %v", err)
	}
}

func TestGet_LowQuotaHeaderPausesNextCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Discogs-Ratelimit-Remaining", "2")
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		fmt.Fprint(w, collectionPage(page, 2))
	}))
	defer srv.Close()

	pause := 200 * time.Millisecond
	limiter := ratelimit.New(time.Microsecond, 5, pause, testLogger())
	c := New(Config{
		BaseURL:  srv.URL,
		Username: "testuser",
		Token:    "test-token",
	}, limiter, testLogger())

	start := time.Now()
	if _, err := c.CollectionIndex(context.Background(), 1); err != nil {
		t.Fatalf("CollectionIndex: %v", err)
	}
	// Two pages; the second fetch must have served the armed pause.
	if elapsed := time.Since(start); elapsed < pause-10*time.Millisecond {
		t.Errorf("expected second page delayed by quota pause, run took %v", elapsed)
	}
}

// Package discogs is the client for the Discogs collection API: single
// rate-limited GETs, lazy pagination across collection folders, and
// construction of the keyed release index the reconciler consumes.
package discogs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sydlexius/cratediff/internal/ratelimit"
	"github.com/sydlexius/cratediff/internal/release"
	"github.com/sydlexius/cratediff/internal/version"
)

const (
	defaultBaseURL = "https://api.discogs.com"
	defaultTimeout = 30 * time.Second

	// Discogs caps per_page at 100; fewer pages means fewer rate-limited
	// round trips.
	perPage = 100

	remainingHeader = "X-Discogs-Ratelimit-Remaining"
)

// Config holds the client settings.
type Config struct {
	BaseURL  string
	Username string
	Token    string
	Timeout  time.Duration
}

// Client talks to the Discogs API. Every request passes through the
// rate limiter before it is issued.
type Client struct {
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	logger     *slog.Logger
	baseURL    string
	username   string
	token      string
}

// New creates a Discogs client.
func New(cfg Config, limiter *ratelimit.Limiter, logger *slog.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
		logger:     logger.With(slog.String("source", "discogs")),
		baseURL:    strings.TrimRight(baseURL, "/"),
		username:   cfg.Username,
		token:      cfg.Token,
	}
}

// get issues a single rate-limited GET and returns the response body.
// Non-200 statuses become *APIError; exceeded deadlines become
// *TimeoutError. No retry at this layer.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Discogs token="+c.token)
	req.Header.Set("User-Agent", fmt.Sprintf("cratediff/%s (https://github.com/sydlexius/cratediff)", version.Version))
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("requesting", slog.String("url", reqURL))

	resp, err := c.httpClient.Do(req) //nolint:gosec // URL constructed from trusted base + API params
	if err != nil {
		if isTimeout(err) {
			return nil, &TimeoutError{URL: reqURL, Cause: err}
		}
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{URL: reqURL, StatusCode: resp.StatusCode}
	}

	// Only successful responses carry a trustworthy quota counter.
	if v := resp.Header.Get(remainingHeader); v != "" {
		if remaining, err := strconv.Atoi(v); err == nil {
			c.limiter.Observe(remaining)
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return nil, &TimeoutError{URL: reqURL, Cause: err}
		}
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return body, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Timeout() {
		return true
	}
	var nerr interface{ Timeout() bool }
	return errors.As(err, &nerr) && nerr.Timeout()
}

// paginate drives get across every page of a paginated endpoint, yielding
// items lazily in server page order. Within-page order is preserved and
// duplicates across pages pass through unchanged. The sequence ends when
// the requested page equals the server-reported total; a fetch or decode
// failure is yielded once and ends the sequence.
func paginate[T any](ctx context.Context, c *Client, path string, query url.Values, decode func([]byte) ([]T, Pagination, error)) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		q := url.Values{}
		for k, v := range query {
			q[k] = v
		}
		for page := 1; ; page++ {
			q.Set("page", strconv.Itoa(page))
			q.Set("per_page", strconv.Itoa(perPage))

			body, err := c.get(ctx, path, q)
			if err != nil {
				yield(zero, err)
				return
			}
			items, pg, err := decode(body)
			if err != nil {
				yield(zero, fmt.Errorf("decoding %s page %d: %w", path, page, err))
				return
			}
			for _, item := range items {
				if !yield(item, nil) {
					return
				}
			}
			if page >= pg.Pages {
				return
			}
		}
	}
}

// CollectionReleases lazily iterates all releases in one collection
// folder of the configured user. Each page fetch blocks on the rate
// limiter before it is issued.
func (c *Client) CollectionReleases(ctx context.Context, folderID int) iter.Seq2[CollectionRelease, error] {
	path := fmt.Sprintf("/users/%s/collection/folders/%d/releases", url.PathEscape(c.username), folderID)
	return paginate(ctx, c, path, nil, func(body []byte) ([]CollectionRelease, Pagination, error) {
		var resp CollectionResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, Pagination{}, err
		}
		return resp.Releases, resp.Pagination, nil
	})
}

// CollectionIndex consumes CollectionReleases into a keyed index.
// Multiple credited artists are joined with " / "; a zero year stays
// zero (unknown). Fetch failures propagate unchanged.
func (c *Client) CollectionIndex(ctx context.Context, folderID int) (release.Index, error) {
	idx := make(release.Index)
	for r, err := range c.CollectionReleases(ctx, folderID) {
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(r.BasicInformation.Artists))
		for _, a := range r.BasicInformation.Artists {
			names = append(names, a.Name)
		}
		idx[r.ID] = release.Entry{
			Release: release.Release{
				ID:     r.ID,
				Artist: strings.Join(names, " / "),
				Title:  r.BasicInformation.Title,
				Year:   r.BasicInformation.Year,
			},
			Location: release.URL(r.ID),
		}
	}
	c.logger.Debug("built collection index",
		slog.Int("folder_id", folderID),
		slog.Int("releases", len(idx)))
	return idx, nil
}

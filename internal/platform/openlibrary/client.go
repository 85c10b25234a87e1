package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"authorsite/internal/platform/webcache"
)

// UpstreamError reports a non-2xx response or transport failure from
// an Open Library endpoint.
type UpstreamError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("openlibrary: %s returned status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("openlibrary: %s: %v", e.URL, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	limiter    *rate.Limiter
	maxRetries int
	cache      *webcache.Cache
	group      singleflight.Group
}

// NewClient builds a client against baseURL. Responses are cached in cache
// (TTL handled there); concurrent fetches of the same URL are coalesced.
func NewClient(baseURL, userAgent string, rps int, maxRetries int, cache *webcache.Cache) *Client {
	if baseURL == "" {
		baseURL = "https://openlibrary.org"
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		userAgent:  userAgent,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
		maxRetries: maxRetries,
		cache:      cache,
	}
}

// Text handles Open Library's two description encodings: a bare string or
// an object like {"type": "/type/text", "value": "..."}.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		*t = Text(plain)
		return nil
	}

	var wrapped struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	*t = Text(wrapped.Value)
	return nil
}

// Work matches one entry of authors/{id}/works.json.
type Work struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	Subtitle         string   `json:"subtitle"`
	FirstPublishDate string   `json:"first_publish_date"`
	Covers           []int    `json:"covers"`
	Subjects         []string `json:"subjects"`
	Description      Text     `json:"description"`
}

// WorksResponse matches authors/{id}/works.json.
type WorksResponse struct {
	Size    int    `json:"size"`
	Entries []Work `json:"entries"`
}

// SearchHit matches one doc of search.json. The search index carries the
// per-edition metadata (language, publisher, ISBN) that works.json lacks.
type SearchHit struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	Subtitle         string   `json:"subtitle"`
	FirstPublishYear int      `json:"first_publish_year"`
	EditionCount     int      `json:"edition_count"`
	CoverID          int      `json:"cover_i"`
	Languages        []string `json:"language"`
	Publishers       []string `json:"publisher"`
	ISBNs            []string `json:"isbn"`
	Subjects         []string `json:"subject"`
	AuthorKeys       []string `json:"author_key"`
	AuthorNames      []string `json:"author_name"`
}

// SearchResponse matches search.json.
type SearchResponse struct {
	NumFound int         `json:"numFound"`
	Docs     []SearchHit `json:"docs"`
}

// WorkDetail matches {workKey}.json.
type WorkDetail struct {
	Key         string   `json:"key"`
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle"`
	Description Text     `json:"description"`
	Covers      []int    `json:"covers"`
	Subjects    []string `json:"subjects"`
}

// WorksByAuthor lists works for an author key such as "OL23919A".
func (c *Client) WorksByAuthor(ctx context.Context, authorID string, limit int) ([]Work, error) {
	u := fmt.Sprintf("%s/authors/%s/works.json?limit=%d",
		c.baseURL, url.PathEscape(strings.TrimPrefix(authorID, "/authors/")), limit)

	var res WorksResponse
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}
	return res.Entries, nil
}

// SearchByAuthor queries the search index by author name.
func (c *Client) SearchByAuthor(ctx context.Context, authorName string, limit int) ([]SearchHit, error) {
	u := fmt.Sprintf("%s/search.json?author=%s&limit=%d",
		c.baseURL, url.QueryEscape(authorName), limit)

	var res SearchResponse
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}
	return res.Docs, nil
}

// WorkDetail fetches one work record. workKey is usually "/works/OL...W".
func (c *Client) WorkDetail(ctx context.Context, workKey string) (*WorkDetail, error) {
	if !strings.HasPrefix(workKey, "/") {
		workKey = "/works/" + workKey
	}
	u := fmt.Sprintf("%s%s.json", c.baseURL, workKey)

	var res WorkDetail
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) get(ctx context.Context, url string, target interface{}) error {
	body, err := c.fetch(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("decoding %s: %w", url, err)
	}
	return nil
}

// fetch returns the raw body for url, consulting the cache first and
// coalescing concurrent misses for the same URL into one request.
func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	if c.cache != nil {
		if body, ok := c.cache.Get(url); ok {
			return body, nil
		}
	}

	v, err, _ := c.group.Do(url, func() (interface{}, error) {
		body, err := c.doRequest(ctx, url)
		if err != nil {
			return nil, err
		}
		if c.cache != nil {
			c.cache.Set(url, body)
		}
		return body, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (c *Client) doRequest(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			// Backoff: 1s, 2s, 4s...
			backoff := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = &UpstreamError{URL: url, Err: err}
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			upErr := &UpstreamError{URL: url, StatusCode: resp.StatusCode}
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				lastErr = upErr
				continue
			}
			return nil, upErr
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = &UpstreamError{URL: url, Err: err}
			continue
		}
		return body, nil
	}
	return nil, fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}

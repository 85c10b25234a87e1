package openlibrary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authorsite/internal/platform/webcache"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(srv.URL, "authorsite-test", 100, 0, webcache.New(5*time.Minute))
	return client, srv
}

func TestWorksByAuthor(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/authors/OL23919A/works.json", r.URL.Path)
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"size": 1, "entries": [
			{"key": "/works/OL1W", "title": "The Casual Vacancy",
			 "first_publish_date": "2012", "covers": [101],
			 "description": {"type": "/type/text", "value": "A novel."}}
		]}`))
	}))

	works, err := client.WorksByAuthor(context.Background(), "OL23919A", 50)
	require.NoError(t, err)
	require.Len(t, works, 1)
	assert.Equal(t, "The Casual Vacancy", works[0].Title)
	assert.Equal(t, "A novel.", string(works[0].Description))
	assert.Equal(t, []int{101}, works[0].Covers)
}

func TestSearchByAuthor(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.json", r.URL.Path)
		assert.Equal(t, "J.K. Rowling", r.URL.Query().Get("author"))
		w.Write([]byte(`{"numFound": 1, "docs": [
			{"key": "/works/OL1W", "title": "The Casual Vacancy",
			 "first_publish_year": 2012, "language": ["eng"],
			 "cover_i": 101, "edition_count": 3, "subject": ["Fiction"]}
		]}`))
	}))

	docs, err := client.SearchByAuthor(context.Background(), "J.K. Rowling", 50)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, 2012, docs[0].FirstPublishYear)
	assert.Equal(t, []string{"eng"}, docs[0].Languages)
	assert.Equal(t, 101, docs[0].CoverID)
}

func TestWorkDetail(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/works/OL1W.json", r.URL.Path)
		w.Write([]byte(`{"key": "/works/OL1W", "title": "The Silkworm",
			"subtitle": "A Cormoran Strike Novel",
			"description": "A detective novel.", "subjects": ["Detective and mystery stories"]}`))
	}))

	t.Run("key with prefix", func(t *testing.T) {
		detail, err := client.WorkDetail(context.Background(), "/works/OL1W")
		require.NoError(t, err)
		assert.Equal(t, "A detective novel.", string(detail.Description))
		assert.Equal(t, "A Cormoran Strike Novel", detail.Subtitle)
	})

	t.Run("bare key gets works prefix", func(t *testing.T) {
		detail, err := client.WorkDetail(context.Background(), "OL1W")
		require.NoError(t, err)
		assert.Equal(t, "The Silkworm", detail.Title)
	})
}

func TestUpstreamError(t *testing.T) {
	client, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.SearchByAuthor(context.Background(), "nobody", 10)
	require.Error(t, err)

	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, http.StatusNotFound, upErr.StatusCode)
	assert.Contains(t, upErr.URL, srv.URL)
}

func TestResponseCaching(t *testing.T) {
	var calls int64
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.Write([]byte(`{"numFound": 0, "docs": []}`))
	}))

	for i := 0; i < 3; i++ {
		_, err := client.SearchByAuthor(context.Background(), "someone", 10)
		require.NoError(t, err)
	}

	assert.Equal(t, int64(1), atomic.LoadInt64(&calls), "repeat fetches within the TTL should hit the cache")
}

func TestRetryOnServerError(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"numFound": 0, "docs": []}`))
	}))
	defer srv.Close()
	client := NewClient(srv.URL, "authorsite-test", 100, 1, nil)

	_, err := client.SearchByAuthor(context.Background(), "someone", 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), atomic.LoadInt64(&calls))
}

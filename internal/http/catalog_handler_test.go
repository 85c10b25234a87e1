package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authorsite/internal/book"
	"authorsite/internal/catalog"
)

type fakeService struct {
	books      []book.Record
	facets     catalog.Facets
	refreshErr error
	ready      bool

	gotFilters  catalog.Filters
	gotPage     int
	gotPageSize int
}

func (f *fakeService) Refresh(ctx context.Context) error { return f.refreshErr }

func (f *fakeService) Ready() bool { return f.ready }

func (f *fakeService) List(filters catalog.Filters, page, pageSize int) ([]book.Record, int) {
	f.gotFilters = filters
	f.gotPage = page
	f.gotPageSize = pageSize
	return f.books, len(f.books)
}

func (f *fakeService) Facets() catalog.Facets { return f.facets }

func (f *fakeService) Describe(ctx context.Context, id string) (string, error) {
	if id == "known" {
		return "A description.", nil
	}
	return "", book.ErrNotFound
}

func TestCatalogHandlerList(t *testing.T) {
	svc := &fakeService{books: []book.Record{
		{ID: "1", Title: "The Silkworm", FirstPublishYear: 2014},
	}}
	handler := NewCatalogHandler(svc)

	t.Run("passes filters and pagination through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/books?search=silk&language=eng&year=2014&genre=Mystery&page=2&page_size=10", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, catalog.Filters{Search: "silk", Language: "eng", Year: "2014", Genre: "Mystery"}, svc.gotFilters)
		assert.Equal(t, 2, svc.gotPage)
		assert.Equal(t, 10, svc.gotPageSize)

		var body struct {
			Success bool          `json:"success"`
			Data    []book.Record `json:"data"`
			Meta    struct {
				Total      int `json:"total"`
				TotalPages int `json:"total_pages"`
			} `json:"meta"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.Success)
		require.Len(t, body.Data, 1)
		assert.Equal(t, 1, body.Meta.Total)
		assert.Equal(t, 1, body.Meta.TotalPages)
	})

	t.Run("clamps pagination", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/books?page=0&page_size=5000", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		assert.Equal(t, 1, svc.gotPage)
		assert.Equal(t, 20, svc.gotPageSize)
	})

	t.Run("rejects bad filters", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/books?year=abcd", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects bad language code", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/books?language=english1", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCatalogHandlerFacets(t *testing.T) {
	svc := &fakeService{facets: catalog.Facets{
		Languages: []catalog.Language{{Code: "eng", Name: "English"}},
		Genres:    []string{"Fiction"},
	}}
	handler := NewCatalogHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/facets", nil)
	rec := httptest.NewRecorder()
	handler.Facets(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data catalog.Facets `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "English", body.Data.Languages[0].Name)
	assert.Equal(t, []string{"Fiction"}, body.Data.Genres)
}

func TestCatalogHandlerDescribe(t *testing.T) {
	handler := NewCatalogHandler(&fakeService{})

	t.Run("known id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/books/known/description", nil)
		rec := httptest.NewRecorder()
		handler.Describe(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "A description.")
	})

	t.Run("unknown id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/books/missing/description", nil)
		rec := httptest.NewRecorder()
		handler.Describe(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed path", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/books//description", nil)
		rec := httptest.NewRecorder()
		handler.Describe(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCatalogHandlerRefresh(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		handler := NewCatalogHandler(&fakeService{})
		req := httptest.NewRequest(http.MethodPost, "/api/refresh", nil)
		rec := httptest.NewRecorder()
		handler.Refresh(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("upstream failure returns 502", func(t *testing.T) {
		handler := NewCatalogHandler(&fakeService{refreshErr: errors.New("boom")})
		req := httptest.NewRequest(http.MethodPost, "/api/refresh", nil)
		rec := httptest.NewRecorder()
		handler.Refresh(rec, req)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Contains(t, rec.Body.String(), "upstream_error")
	})
}

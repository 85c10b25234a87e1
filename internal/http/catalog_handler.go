package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"authorsite/internal/book"
	"authorsite/internal/catalog"
	"authorsite/internal/httpx"
)

// CatalogService is what the handlers need from the catalog layer.
type CatalogService interface {
	Refresh(ctx context.Context) error
	Ready() bool
	List(f catalog.Filters, page, pageSize int) ([]book.Record, int)
	Facets() catalog.Facets
	Describe(ctx context.Context, id string) (string, error)
}

type CatalogHandler struct {
	svc            CatalogService
	refreshTimeout time.Duration
}

func NewCatalogHandler(svc CatalogService) *CatalogHandler {
	return &CatalogHandler{
		svc:            svc,
		refreshTimeout: 30 * time.Second,
	}
}

// filterQuery carries the validated query parameters for List.
type filterQuery struct {
	Search   string `validate:"max=200"`
	Language string `validate:"omitempty,lang_code"`
	Year     string `validate:"omitempty,numeric,max=4"`
	Genre    string `validate:"max=60"`
}

// List returns the filtered, paginated catalog.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := filterQuery{
		Search:   q.Get("search"),
		Language: q.Get("language"),
		Year:     q.Get("year"),
		Genre:    q.Get("genre"),
	}

	if details := ValidateStruct(params); details != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "invalid_filters", "Invalid filter parameters", details)
		return
	}

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(q.Get("page_size"))
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	books, total := h.svc.List(catalog.Filters{
		Search:   params.Search,
		Language: params.Language,
		Year:     params.Year,
		Genre:    params.Genre,
	}, page, pageSize)

	httpx.JSONSuccess(r, w, books, map[string]interface{}{
		"page":        page,
		"page_size":   pageSize,
		"total":       total,
		"total_pages": (total + pageSize - 1) / pageSize,
	})
}

// Facets returns the dropdown contents for the current book set.
func (h *CatalogHandler) Facets(w http.ResponseWriter, r *http.Request) {
	httpx.JSONSuccess(r, w, h.svc.Facets(), nil)
}

// Describe resolves the description for /api/books/{id}/description.
func (h *CatalogHandler) Describe(w http.ResponseWriter, r *http.Request) {
	const prefix = "/api/books/"
	const suffix = "/description"

	path := r.URL.Path
	if !strings.HasPrefix(path, prefix) || !strings.HasSuffix(path, suffix) {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimSuffix(strings.TrimPrefix(path, prefix), suffix)
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	text, err := h.svc.Describe(r.Context(), id)
	if err != nil {
		if errors.Is(err, book.ErrNotFound) {
			httpx.JSONError(r, w, http.StatusNotFound, "not_found", "Book not found", nil)
			return
		}
		httpx.JSONError(r, w, http.StatusInternalServerError, "internal_error", "Could not resolve description", nil)
		return
	}

	httpx.JSONSuccess(r, w, map[string]string{"id": id, "description": text}, nil)
}

// Refresh re-fetches the upstream catalog; it backs the UI's retry action.
func (h *CatalogHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.refreshTimeout)
	defer cancel()

	if err := h.svc.Refresh(ctx); err != nil {
		httpx.JSONError(r, w, http.StatusBadGateway, "upstream_error", "Could not load the catalog, try again later", nil)
		return
	}

	_, total := h.svc.List(catalog.Filters{}, 1, 1)
	httpx.JSONSuccess(r, w, nil, map[string]interface{}{"books": total})
}

package book

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"libraryapi/internal/apperr"
	"libraryapi/internal/copies"
	"libraryapi/internal/httpx"
)

// CopyLister supplies the copy details merged into the book detail
// response.
type CopyLister interface {
	ListByBook(ctx context.Context, bookID int64) (copies.BookCopies, error)
}

type HTTPHandler struct {
	service *Service
	copies  CopyLister
}

func NewHTTPHandler(service *Service, copies CopyLister) *HTTPHandler {
	return &HTTPHandler{service: service, copies: copies}
}

// List handles GET /books
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	f := Filter{
		Title:  query.Get("title"),
		Author: query.Get("author"),
		ISBN:   query.Get("isbn"),
		Genre:  query.Get("genre"),
	}
	if yearStr := query.Get("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			httpx.WriteError(w, r, apperr.Validation("invalid year filter"))
			return
		}
		f.Year = &year
	}

	page, _ := strconv.Atoi(query.Get("page"))
	pageSize, _ := strconv.Atoi(query.Get("page_size"))

	books, paging, err := h.service.List(r.Context(), f, Page{Page: page, PageSize: pageSize})
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, books, map[string]any{
		"page":        paging.Page,
		"page_size":   paging.PageSize,
		"total":       paging.Total,
		"total_pages": paging.TotalPages,
	})
}

// Get handles GET /books/{bookID}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "bookID")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	bc, err := h.copies.ListByBook(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, map[string]any{
		"book":   b,
		"copies": bc.Copies,
	}, nil)
}

// Create handles POST /books
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.WriteError(w, r, apperr.Validation("invalid JSON body"))
		return
	}

	b, err := h.service.Create(r.Context(), in)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	httpx.JSONSuccessCreated(w, b)
}

// Update handles PUT /books/{bookID}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "bookID")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	var in UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.WriteError(w, r, apperr.Validation("invalid JSON body"))
		return
	}

	b, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, b, nil)
}

// Delete handles DELETE /books/{bookID}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "bookID")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	httpx.JSONSuccessNoContent(w)
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		return 0, apperr.Validation("invalid " + name)
	}
	return id, nil
}

package copies

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"libraryapi/internal/apperr"
	"libraryapi/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type addRequest struct {
	Quantity int `json:"quantity"`
}

// Add handles POST /books/{bookID}/copies
func (h *HTTPHandler) Add(w http.ResponseWriter, r *http.Request) {
	bookID, err := strconv.ParseInt(chi.URLParam(r, "bookID"), 10, 64)
	if err != nil || bookID < 1 {
		httpx.WriteError(w, r, apperr.Validation("invalid book id"))
		return
	}

	req := addRequest{Quantity: 1}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.WriteError(w, r, apperr.Validation("invalid JSON body"))
			return
		}
	}

	created, err := h.service.Add(r.Context(), bookID, req.Quantity)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	httpx.JSONSuccessCreated(w, created)
}

// ListByBook handles GET /books/{bookID}/copies
func (h *HTTPHandler) ListByBook(w http.ResponseWriter, r *http.Request) {
	bookID, err := strconv.ParseInt(chi.URLParam(r, "bookID"), 10, 64)
	if err != nil || bookID < 1 {
		httpx.WriteError(w, r, apperr.Validation("invalid book id"))
		return
	}

	bc, err := h.service.ListByBook(r.Context(), bookID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, bc, nil)
}

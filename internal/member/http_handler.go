package member

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

// List handles GET /members
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	f := Filter{
		Search: r.URL.Query().Get("search"),
		Code:   r.URL.Query().Get("member_code"),
	}

	members, err := h.service.List(r.Context(), f)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, members, map[string]any{"count": len(members)})
}

// Create handles POST /members
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.WriteError(w, r, apperr.Validation("invalid JSON body"))
		return
	}

	m, err := h.service.Create(r.Context(), in)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	httpx.JSONSuccessCreated(w, m)
}

// Get handles GET /members/{memberID}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := memberID(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, p, nil)
}

// Delete handles DELETE /members/{memberID}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := memberID(r)
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

func memberID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "memberID"), 10, 64)
	if err != nil || id < 1 {
		return 0, apperr.Validation("invalid member id")
	}
	return id, nil
}

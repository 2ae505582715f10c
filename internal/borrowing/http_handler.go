package borrowing

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

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

// HistoryByCopy handles GET /copies/{copyID}/history
func (h *HTTPHandler) HistoryByCopy(w http.ResponseWriter, r *http.Request) {
	copyID, err := pathID(r, "copyID", "invalid copy id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	history, err := h.service.HistoryByCopy(r.Context(), copyID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, history, nil)
}

type borrowRequest struct {
	CopyID   int64      `json:"copy_id"`
	MemberID int64      `json:"member_id"`
	DueDate  *time.Time `json:"due_date"`
}

// Borrow handles POST /borrowings
func (h *HTTPHandler) Borrow(w http.ResponseWriter, r *http.Request) {
	var req borrowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, r, apperr.Validation("invalid JSON body"))
		return
	}
	if req.CopyID < 1 || req.MemberID < 1 {
		httpx.WriteError(w, r, apperr.Validation("copy_id and member_id must be provided"))
		return
	}

	var due time.Time
	if req.DueDate != nil {
		due = *req.DueDate
	}

	b, err := h.service.Borrow(r.Context(), req.CopyID, req.MemberID, due)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	httpx.JSONSuccessCreated(w, b)
}

// Return handles PUT /borrowings/{borrowingID}/return
func (h *HTTPHandler) Return(w http.ResponseWriter, r *http.Request) {
	borrowingID, err := pathID(r, "borrowingID", "invalid borrowing id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	b, err := h.service.Return(r.Context(), borrowingID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, b, nil)
}

func pathID(r *http.Request, name, message string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		return 0, apperr.Validation(message)
	}
	return id, nil
}

package borrowing

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(repo *memRepo) http.Handler {
	h := NewHTTPHandler(newFixedService(repo, time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)))

	r := chi.NewRouter()
	r.Post("/borrowings", h.Borrow)
	r.Put("/borrowings/{borrowingID}/return", h.Return)
	r.Get("/copies/{copyID}/history", h.HistoryByCopy)
	return r
}

func TestHandlerBorrowAndReturn(t *testing.T) {
	repo := newMemRepo()
	repo.addCopy(1, "BOOK-001-001", "Dune")
	repo.members[1] = "Ada"
	router := newTestRouter(repo)

	t.Run("borrow", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/borrowings",
			strings.NewReader(`{"copy_id": 1, "member_id": 1}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp struct {
			Data Borrowing `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.EqualValues(t, 1, resp.Data.CopyID)
		assert.Nil(t, resp.Data.ReturnedAt)
		assert.False(t, resp.Data.DueDate.IsZero())
	})

	t.Run("second borrow conflicts", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/borrowings",
			strings.NewReader(`{"copy_id": 1, "member_id": 1}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("return", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/borrowings/1/return", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Data Borrowing `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotNil(t, resp.Data.ReturnedAt)
	})

	t.Run("return again conflicts", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/borrowings/1/return", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("history reflects the loan", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/copies/1/history", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Data CopyHistory `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Data.TotalBorrows)
		assert.Equal(t, "Available", resp.Data.CurrentStatus)
	})
}

func TestHandlerBorrowValidation(t *testing.T) {
	router := newTestRouter(newMemRepo())

	t.Run("missing ids", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/borrowings", strings.NewReader(`{"copy_id": 1}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/borrowings", strings.NewReader(`{`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown borrowing id on return", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/borrowings/77/return", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad copy id on history", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/copies/zero/history", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

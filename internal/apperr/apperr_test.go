package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("book not found")))
	assert.Equal(t, KindConflict, KindOf(Conflict("already exists")))
	assert.Equal(t, KindValidation, KindOf(Validation("bad payload")))
	assert.Equal(t, KindInternal, KindOf(Internal(errors.New("boom"), "oops")))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain error")), "unknown errors default to internal")
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("loading book: %w", NotFound("book not found"))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.True(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(err, KindConflict))
}

func TestErrorsIsMatchesByKind(t *testing.T) {
	err := NotFound("book not found")
	assert.True(t, errors.Is(err, NotFound("anything")), "Is matches on kind, not message")
	assert.False(t, errors.Is(err, Conflict("book not found")))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "book not found", NotFound("book not found").Error())

	cause := errors.New("connection refused")
	wrapped := Internal(cause, "listing books")
	assert.Equal(t, "listing books: connection refused", wrapped.Error())
	assert.ErrorIs(t, wrapped, cause, "the cause stays reachable for logs")
}

func TestValidationFields(t *testing.T) {
	err := Validation("invalid payload",
		FieldError{Field: "book_title", Message: "must be provided"},
		FieldError{Field: "publication_year", Message: "must be between 1000 and the current year"},
	)

	var e *Error
	require.ErrorAs(t, err, &e)
	require.Len(t, e.Fields, 2)
	assert.Equal(t, "book_title", e.Fields[0].Field)
}

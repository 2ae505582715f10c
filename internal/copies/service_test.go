package copies

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraryapi/internal/apperr"
)

// memRepo is the in-memory Repository double. The code sequence counts
// every copy ever created for the book, deleted ones included, which is
// what keeps codes unique across the book's lifetime.
type memRepo struct {
	nextID     int64
	bookTitles map[int64]string
	copies     map[int64][]Copy
}

func newMemRepo() *memRepo {
	return &memRepo{
		bookTitles: make(map[int64]string),
		copies:     make(map[int64][]Copy),
	}
}

func (r *memRepo) AddBatch(_ context.Context, bookID int64, quantity int) ([]Copy, error) {
	if _, ok := r.bookTitles[bookID]; !ok {
		return nil, apperr.NotFound("book not found")
	}

	seq := len(r.copies[bookID])
	created := make([]Copy, 0, quantity)
	for i := 0; i < quantity; i++ {
		r.nextID++
		seq++
		c := Copy{
			ID:        r.nextID,
			Code:      Code(bookID, seq),
			BookID:    bookID,
			StatusID:  StatusAvailable,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		r.copies[bookID] = append(r.copies[bookID], c)
		created = append(created, c)
	}
	return created, nil
}

func (r *memRepo) ListByBook(_ context.Context, bookID int64) (BookCopies, error) {
	title, ok := r.bookTitles[bookID]
	if !ok {
		return BookCopies{}, apperr.NotFound("book not found")
	}

	bc := BookCopies{
		BookID:    bookID,
		BookTitle: title,
		Copies:    []CopyWithStatus{},
	}
	for _, c := range r.copies[bookID] {
		if c.DeletedAt != nil {
			continue
		}
		bc.Summary.Total++
		switch c.StatusID {
		case StatusAvailable:
			bc.Summary.Available++
		case StatusBorrowed:
			bc.Summary.Borrowed++
		}
		bc.Copies = append(bc.Copies, CopyWithStatus{
			Copy:       c,
			StatusName: StatusName(c.StatusID),
			BookTitle:  title,
		})
	}
	return bc, nil
}

func TestCode(t *testing.T) {
	assert.Equal(t, "BOOK-007-001", Code(7, 1))
	assert.Equal(t, "BOOK-007-012", Code(7, 12))
	assert.Equal(t, "BOOK-123-100", Code(123, 100))
	assert.Equal(t, "BOOK-1234-101", Code(1234, 101), "wide ids keep all digits")
}

func TestServiceAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("sequential codes", func(t *testing.T) {
		repo := newMemRepo()
		repo.bookTitles[7] = "Dune"
		svc := NewService(repo)

		created, err := svc.Add(ctx, 7, 3)
		require.NoError(t, err)
		require.Len(t, created, 3)
		assert.Equal(t, "BOOK-007-001", created[0].Code)
		assert.Equal(t, "BOOK-007-002", created[1].Code)
		assert.Equal(t, "BOOK-007-003", created[2].Code)
		for _, c := range created {
			assert.Equal(t, StatusAvailable, c.StatusID)
		}
	})

	t.Run("sequence continues across batches", func(t *testing.T) {
		repo := newMemRepo()
		repo.bookTitles[1] = "Dune"
		svc := NewService(repo)

		_, err := svc.Add(ctx, 1, 2)
		require.NoError(t, err)

		created, err := svc.Add(ctx, 1, 1)
		require.NoError(t, err)
		require.Len(t, created, 1)
		assert.Equal(t, "BOOK-001-003", created[0].Code)
	})

	t.Run("quantity bounds", func(t *testing.T) {
		repo := newMemRepo()
		repo.bookTitles[1] = "Dune"
		svc := NewService(repo)

		_, err := svc.Add(ctx, 1, 0)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))

		_, err = svc.Add(ctx, 1, MaxQuantity+1)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))

		_, err = svc.Add(ctx, 1, MaxQuantity)
		assert.NoError(t, err)
	})

	t.Run("unknown book", func(t *testing.T) {
		svc := NewService(newMemRepo())

		_, err := svc.Add(ctx, 42, 1)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})
}

func TestServiceListByBook(t *testing.T) {
	ctx := context.Background()

	t.Run("summary counts by status", func(t *testing.T) {
		repo := newMemRepo()
		repo.bookTitles[1] = "Dune"
		svc := NewService(repo)

		_, err := svc.Add(ctx, 1, 3)
		require.NoError(t, err)
		repo.copies[1][0].StatusID = StatusBorrowed

		bc, err := svc.ListByBook(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Dune", bc.BookTitle)
		assert.Equal(t, 3, bc.Summary.Total)
		assert.Equal(t, 2, bc.Summary.Available)
		assert.Equal(t, 1, bc.Summary.Borrowed)
		require.Len(t, bc.Copies, 3)
		assert.Equal(t, "Borrowed", bc.Copies[0].StatusName)
	})

	t.Run("book without copies", func(t *testing.T) {
		repo := newMemRepo()
		repo.bookTitles[1] = "Dune"
		svc := NewService(repo)

		bc, err := svc.ListByBook(ctx, 1)
		require.NoError(t, err)
		assert.Zero(t, bc.Summary.Total)
		assert.Empty(t, bc.Copies)
	})

	t.Run("unknown book", func(t *testing.T) {
		svc := NewService(newMemRepo())

		_, err := svc.ListByBook(ctx, 9)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})
}

func TestStatusName(t *testing.T) {
	assert.Equal(t, "Available", StatusName(StatusAvailable))
	assert.Equal(t, "Borrowed", StatusName(StatusBorrowed))
	assert.Equal(t, "Unknown", StatusName(9))
}

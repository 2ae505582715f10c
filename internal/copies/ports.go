package copies

import (
	"context"
)

// Repository defines the contract for copy storage. AddBatch must
// serialize per-book sequence generation so concurrent adds for the same
// book cannot produce colliding copy codes.
type Repository interface {
	AddBatch(ctx context.Context, bookID int64, quantity int) ([]Copy, error)
	ListByBook(ctx context.Context, bookID int64) (BookCopies, error)
}

package borrowing

import (
	"context"
	"time"
)

// Repository defines the contract for borrowing storage. Borrow and
// Return each pair a borrowing write with the copy status flip inside one
// transaction.
type Repository interface {
	HistoryByCopy(ctx context.Context, copyID int64) (CopyHistory, error)
	Borrow(ctx context.Context, copyID, memberID int64, dueDate time.Time) (Borrowing, error)
	Return(ctx context.Context, borrowingID int64) (Borrowing, error)
}

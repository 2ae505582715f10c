package book

import (
	"context"
)

// Repository defines the contract for catalog storage. Multi-statement
// mutations (insert/update with associations) must be atomic: either the
// whole set of statements commits or none of it does.
type Repository interface {
	List(ctx context.Context, f Filter, p Page) ([]BookWithDetails, int, error)
	GetByID(ctx context.Context, id int64) (BookWithDetails, error)
	Insert(ctx context.Context, b *Book, authorIDs, genreIDs []int64) error
	Update(ctx context.Context, b *Book, authorIDs, genreIDs []int64) error
	SoftDelete(ctx context.Context, id int64) error
	ISBNInUse(ctx context.Context, isbn string, excludeID int64) (bool, error)
	HasActiveBorrowings(ctx context.Context, id int64) (bool, error)
}

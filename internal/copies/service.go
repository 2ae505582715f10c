package copies

import (
	"context"
	"fmt"

	"libraryapi/internal/apperr"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Add creates quantity new copies for the book. Quantity must be within
// [1, 100]; the per-book code sequence continues from the existing count.
func (s *Service) Add(ctx context.Context, bookID int64, quantity int) ([]Copy, error) {
	if quantity < MinQuantity || quantity > MaxQuantity {
		return nil, apperr.Validation(
			fmt.Sprintf("quantity must be between %d and %d", MinQuantity, MaxQuantity))
	}
	return s.repo.AddBatch(ctx, bookID, quantity)
}

// ListByBook returns all non-deleted copies of the book with their status
// names and an availability summary.
func (s *Service) ListByBook(ctx context.Context, bookID int64) (BookCopies, error) {
	return s.repo.ListByBook(ctx, bookID)
}

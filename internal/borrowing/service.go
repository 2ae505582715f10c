package borrowing

import (
	"context"
	"time"

	"libraryapi/internal/apperr"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// HistoryByCopy returns the copy's borrowings, most recent first, each
// annotated with its overdue flag as of now.
func (s *Service) HistoryByCopy(ctx context.Context, copyID int64) (CopyHistory, error) {
	h, err := s.repo.HistoryByCopy(ctx, copyID)
	if err != nil {
		return CopyHistory{}, err
	}

	now := s.now()
	for i := range h.History {
		h.History[i].IsOverdue = h.History[i].Overdue(now)
	}
	return h, nil
}

// Borrow lends the copy to the member. A zero due date defaults to the
// standard loan period from now; a due date in the past is rejected.
func (s *Service) Borrow(ctx context.Context, copyID, memberID int64, dueDate time.Time) (Borrowing, error) {
	now := s.now()
	if dueDate.IsZero() {
		dueDate = now.Add(DefaultLoanPeriod)
	} else if dueDate.Before(now) {
		return Borrowing{}, apperr.Validation("due date must be in the future")
	}
	return s.repo.Borrow(ctx, copyID, memberID, dueDate)
}

// Return closes out the borrowing and frees the copy.
func (s *Service) Return(ctx context.Context, borrowingID int64) (Borrowing, error) {
	return s.repo.Return(ctx, borrowingID)
}

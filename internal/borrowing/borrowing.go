package borrowing

import (
	"time"
)

// DefaultLoanPeriod is the due-date offset applied when a borrow request
// does not name one.
const DefaultLoanPeriod = 14 * 24 * time.Hour

// Borrowing is an immutable historical record; only returned_at is ever
// written after creation.
type Borrowing struct {
	ID         int64      `json:"borrowing_id"`
	CopyID     int64      `json:"copy_id"`
	MemberID   int64      `json:"member_id"`
	BorrowedAt time.Time  `json:"borrowed_at"`
	DueDate    time.Time  `json:"due_date"`
	ReturnedAt *time.Time `json:"returned_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Overdue reports whether the borrowing is past due with no recorded
// return as of now.
func (b Borrowing) Overdue(now time.Time) bool {
	return b.ReturnedAt == nil && b.DueDate.Before(now)
}

// WithDetails enriches a Borrowing with display fields and the computed
// overdue flag.
type WithDetails struct {
	Borrowing
	BookTitle  string `json:"book_title"`
	CopyCode   string `json:"copy_code"`
	MemberName string `json:"member_name"`
	IsOverdue  bool   `json:"is_overdue"`
}

// CopyHistory is the complete borrowing record of one copy, most recent
// first.
type CopyHistory struct {
	CopyID        int64         `json:"copy_id"`
	CopyCode      string        `json:"copy_code"`
	BookID        int64         `json:"book_id"`
	BookTitle     string        `json:"book_title"`
	CurrentStatus string        `json:"current_status"`
	TotalBorrows  int           `json:"total_borrows"`
	History       []WithDetails `json:"history"`
}

package member

import (
	"time"
)

type Member struct {
	ID        int64      `json:"member_id"`
	Code      string     `json:"member_code"`
	Name      string     `json:"member_name"`
	Email     string     `json:"email"`
	Phone     *string    `json:"phone"`
	Address   *string    `json:"address"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at"`
}

// Profile is a Member annotated with borrowing statistics.
type Profile struct {
	Member
	ActiveBorrows int `json:"active_borrows"`
	TotalBorrows  int `json:"total_borrows"`
	OverdueCount  int `json:"overdue_count"`
}

// Filter holds the optional member list predicates: a case-insensitive
// name substring and an exact member code.
type Filter struct {
	Search string
	Code   string
}

// CreateInput is the payload for registering a member.
type CreateInput struct {
	Code    string  `json:"member_code"`
	Name    string  `json:"member_name"`
	Email   string  `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

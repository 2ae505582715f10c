package member

import (
	"context"
)

// Repository defines the contract for member storage.
type Repository interface {
	Insert(ctx context.Context, m *Member) error
	List(ctx context.Context, f Filter) ([]Member, error)
	GetProfile(ctx context.Context, id int64) (Profile, error)
	SoftDelete(ctx context.Context, id int64) error
}

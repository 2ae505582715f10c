package member

import (
	"context"
	"strings"

	"libraryapi/internal/validator"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new member. Code, name and email are required;
// uniqueness of code and email is enforced by the store and surfaces as
// a conflict.
func (s *Service) Create(ctx context.Context, in CreateInput) (Member, error) {
	code := strings.TrimSpace(in.Code)
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)

	v := validator.New()
	v.Check(code != "", "member_code", "must be provided")
	v.Check(name != "", "member_name", "must be provided")
	v.Check(email != "", "email", "must be provided")
	if email != "" {
		v.Check(validator.Matches(email, validator.EmailRX), "email", "must be a valid email address")
	}
	if err := v.Err("invalid member payload"); err != nil {
		return Member{}, err
	}

	m := Member{
		Code:    code,
		Name:    name,
		Email:   email,
		Phone:   in.Phone,
		Address: in.Address,
	}
	if err := s.repo.Insert(ctx, &m); err != nil {
		return Member{}, err
	}
	return m, nil
}

// List returns non-deleted members, optionally narrowed by a name
// substring and/or an exact member code.
func (s *Service) List(ctx context.Context, f Filter) ([]Member, error) {
	f.Search = strings.TrimSpace(f.Search)
	f.Code = strings.TrimSpace(f.Code)
	return s.repo.List(ctx, f)
}

// Get returns the member profile with its borrowing statistics.
func (s *Service) Get(ctx context.Context, id int64) (Profile, error) {
	return s.repo.GetProfile(ctx, id)
}

// Delete soft-deletes the member. A second call reports not found.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.SoftDelete(ctx, id)
}

package book

import (
	"context"
	"strings"
	"time"

	"libraryapi/internal/apperr"
	"libraryapi/internal/validator"
)

// Service provides the catalog business logic: listing with filters and
// the validated, transactional mutations.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns one page of non-deleted books matching the filter, plus
// paging metadata. An empty filter lists everything.
func (s *Service) List(ctx context.Context, f Filter, p Page) ([]BookWithDetails, Paging, error) {
	p = p.Normalize()
	books, total, err := s.repo.List(ctx, f, p)
	if err != nil {
		return nil, Paging{}, err
	}
	return books, NewPaging(p, total), nil
}

// Get returns the enriched book, or a not-found error when the id is
// absent or soft-deleted.
func (s *Service) Get(ctx context.Context, id int64) (BookWithDetails, error) {
	return s.repo.GetByID(ctx, id)
}

// Create validates the input, enforces ISBN uniqueness among non-deleted
// books, and persists the book together with its associations as one
// atomic unit.
func (s *Service) Create(ctx context.Context, in CreateInput) (BookWithDetails, error) {
	title := strings.TrimSpace(in.Title)

	v := validator.New()
	v.Check(title != "", "book_title", "must be provided")
	checkYear(v, in.PublicationYear)
	if err := v.Err("invalid book payload"); err != nil {
		return BookWithDetails{}, err
	}

	isbn := normalizeISBN(in.ISBN)
	if isbn != nil {
		inUse, err := s.repo.ISBNInUse(ctx, *isbn, 0)
		if err != nil {
			return BookWithDetails{}, err
		}
		if inUse {
			return BookWithDetails{}, apperr.Conflict("a book with this ISBN already exists")
		}
	}

	b := &Book{
		Title:           title,
		ISBN:            isbn,
		PublicationYear: in.PublicationYear,
		Description:     in.Description,
	}
	if err := s.repo.Insert(ctx, b, in.AuthorIDs, in.GenreIDs); err != nil {
		return BookWithDetails{}, err
	}

	return s.repo.GetByID(ctx, b.ID)
}

// Update applies a partial update. Only supplied fields change; supplied
// association lists replace the existing ones wholesale.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (BookWithDetails, error) {
	if in.Empty() {
		return BookWithDetails{}, apperr.Validation("at least one field must be provided")
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return BookWithDetails{}, err
	}

	v := validator.New()
	title := current.Title
	if in.Title != nil {
		title = strings.TrimSpace(*in.Title)
		v.Check(title != "", "book_title", "must not be empty")
	}
	checkYear(v, in.PublicationYear)
	if err := v.Err("invalid book payload"); err != nil {
		return BookWithDetails{}, err
	}

	isbn := current.ISBN
	if in.ISBN != nil {
		isbn = normalizeISBN(in.ISBN)
		if isbn != nil {
			inUse, err := s.repo.ISBNInUse(ctx, *isbn, id)
			if err != nil {
				return BookWithDetails{}, err
			}
			if inUse {
				return BookWithDetails{}, apperr.Conflict("a book with this ISBN already exists")
			}
		}
	}

	year := current.PublicationYear
	if in.PublicationYear != nil {
		year = in.PublicationYear
	}
	description := current.Description
	if in.Description != nil {
		description = in.Description
	}

	b := &Book{
		ID:              id,
		Title:           title,
		ISBN:            isbn,
		PublicationYear: year,
		Description:     description,
	}
	if err := s.repo.Update(ctx, b, in.AuthorIDs, in.GenreIDs); err != nil {
		return BookWithDetails{}, err
	}

	return s.repo.GetByID(ctx, id)
}

// Delete soft-deletes the book, refusing when any of its copies has an
// unreturned borrowing. Copies and borrowing history stay intact.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	active, err := s.repo.HasActiveBorrowings(ctx, id)
	if err != nil {
		return err
	}
	if active {
		return apperr.Conflict("cannot delete book with active borrows")
	}

	return s.repo.SoftDelete(ctx, id)
}

func checkYear(v *validator.Validator, year *int) {
	if year == nil {
		return
	}
	v.Check(*year >= 1000 && *year <= time.Now().Year(), "publication_year",
		"must be between 1000 and the current year")
}

// normalizeISBN maps an absent or blank ISBN to nil so the partial unique
// index never sees empty strings.
func normalizeISBN(isbn *string) *string {
	if isbn == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*isbn)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

package book

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"libraryapi/internal/apperr"
)

// memRepo is the in-memory test double for Repository. It mirrors the
// store semantics the service relies on: soft-delete visibility, ISBN
// uniqueness among live rows, wholesale association replacement and
// title-ordered pagination.
type memRepo struct {
	nextID        int64
	books         map[int64]*Book
	authorsByBook map[int64][]int64
	genresByBook  map[int64][]int64
	authorNames   map[int64]string
	genreNames    map[int64]string
	activeBorrows map[int64]bool
	copyCounts    map[int64]int
	availableBy   map[int64]int
}

func newMemRepo() *memRepo {
	return &memRepo{
		books:         make(map[int64]*Book),
		authorsByBook: make(map[int64][]int64),
		genresByBook:  make(map[int64][]int64),
		authorNames:   make(map[int64]string),
		genreNames:    make(map[int64]string),
		activeBorrows: make(map[int64]bool),
		copyCounts:    make(map[int64]int),
		availableBy:   make(map[int64]int),
	}
}

func (r *memRepo) enrich(b *Book) BookWithDetails {
	d := BookWithDetails{
		Book:            *b,
		Authors:         []Author{},
		Genres:          []Genre{},
		CopyCount:       r.copyCounts[b.ID],
		AvailableCopies: r.availableBy[b.ID],
	}
	for _, id := range r.authorsByBook[b.ID] {
		d.Authors = append(d.Authors, Author{ID: id, Name: r.authorName(id)})
	}
	for _, id := range r.genresByBook[b.ID] {
		d.Genres = append(d.Genres, Genre{ID: id, Name: r.genreName(id)})
	}
	return d
}

func (r *memRepo) authorName(id int64) string {
	if name, ok := r.authorNames[id]; ok {
		return name
	}
	return fmt.Sprintf("Author %d", id)
}

func (r *memRepo) genreName(id int64) string {
	if name, ok := r.genreNames[id]; ok {
		return name
	}
	return fmt.Sprintf("Genre %d", id)
}

func (r *memRepo) matches(b *Book, f Filter) bool {
	if b.DeletedAt != nil {
		return false
	}
	if f.Title != "" && !containsFold(b.Title, f.Title) {
		return false
	}
	if f.ISBN != "" {
		if b.ISBN == nil || !containsFold(*b.ISBN, f.ISBN) {
			return false
		}
	}
	if f.Year != nil {
		if b.PublicationYear == nil || *b.PublicationYear != *f.Year {
			return false
		}
	}
	if f.Author != "" {
		found := false
		for _, id := range r.authorsByBook[b.ID] {
			if containsFold(r.authorName(id), f.Author) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Genre != "" {
		found := false
		for _, id := range r.genresByBook[b.ID] {
			if containsFold(r.genreName(id), f.Genre) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func (r *memRepo) List(_ context.Context, f Filter, p Page) ([]BookWithDetails, int, error) {
	var matched []*Book
	for _, b := range r.books {
		if r.matches(b, f) {
			matched = append(matched, b)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Title != matched[j].Title {
			return matched[i].Title < matched[j].Title
		}
		return matched[i].ID < matched[j].ID
	})

	total := len(matched)
	start := p.Offset()
	if start > total {
		start = total
	}
	end := start + p.PageSize
	if end > total {
		end = total
	}

	out := []BookWithDetails{}
	for _, b := range matched[start:end] {
		out = append(out, r.enrich(b))
	}
	return out, total, nil
}

func (r *memRepo) GetByID(_ context.Context, id int64) (BookWithDetails, error) {
	b, ok := r.books[id]
	if !ok || b.DeletedAt != nil {
		return BookWithDetails{}, apperr.NotFound("book not found")
	}
	return r.enrich(b), nil
}

func (r *memRepo) Insert(_ context.Context, b *Book, authorIDs, genreIDs []int64) error {
	r.nextID++
	b.ID = r.nextID
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now

	stored := *b
	r.books[b.ID] = &stored
	if authorIDs != nil {
		r.authorsByBook[b.ID] = append([]int64{}, authorIDs...)
	}
	if genreIDs != nil {
		r.genresByBook[b.ID] = append([]int64{}, genreIDs...)
	}
	return nil
}

func (r *memRepo) Update(_ context.Context, b *Book, authorIDs, genreIDs []int64) error {
	stored, ok := r.books[b.ID]
	if !ok || stored.DeletedAt != nil {
		return apperr.NotFound("book not found")
	}

	stored.Title = b.Title
	stored.ISBN = b.ISBN
	stored.PublicationYear = b.PublicationYear
	stored.Description = b.Description
	stored.UpdatedAt = time.Now()

	if authorIDs != nil {
		r.authorsByBook[b.ID] = append([]int64{}, authorIDs...)
	}
	if genreIDs != nil {
		r.genresByBook[b.ID] = append([]int64{}, genreIDs...)
	}
	return nil
}

func (r *memRepo) SoftDelete(_ context.Context, id int64) error {
	b, ok := r.books[id]
	if !ok || b.DeletedAt != nil {
		return apperr.NotFound("book not found")
	}
	now := time.Now()
	b.DeletedAt = &now
	b.UpdatedAt = now
	return nil
}

func (r *memRepo) ISBNInUse(_ context.Context, isbn string, excludeID int64) (bool, error) {
	for _, b := range r.books {
		if b.DeletedAt != nil || b.ID == excludeID || b.ISBN == nil {
			continue
		}
		if *b.ISBN == isbn {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) HasActiveBorrowings(_ context.Context, id int64) (bool, error) {
	return r.activeBorrows[id], nil
}

package book

import (
	"time"
)

// Book is a catalog entry. A nil ISBN is legitimate: books published
// before 1970 may not have one.
type Book struct {
	ID              int64      `json:"book_id"`
	Title           string     `json:"book_title"`
	ISBN            *string    `json:"isbn"`
	PublicationYear *int       `json:"publication_year"`
	Description     *string    `json:"description"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	DeletedAt       *time.Time `json:"deleted_at"`
}

type Author struct {
	ID   int64  `json:"author_id"`
	Name string `json:"name"`
}

type Genre struct {
	ID   int64  `json:"genre_id"`
	Name string `json:"name"`
}

// BookWithDetails is a Book enriched with its associations and copy
// availability counts, the shape every read endpoint returns.
type BookWithDetails struct {
	Book
	Authors         []Author `json:"authors"`
	Genres          []Genre  `json:"genres"`
	CopyCount       int      `json:"copy_count"`
	AvailableCopies int      `json:"available_copies"`
}

// Filter holds the optional list predicates. String fields match as
// case-insensitive substrings; Year matches exactly.
type Filter struct {
	Title  string
	Author string
	ISBN   string
	Genre  string
	Year   *int
}

// Page is normalized pagination input.
type Page struct {
	Page     int
	PageSize int
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Normalize clamps page and page size into their valid ranges.
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset returns the row offset for the normalized page.
func (p Page) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Paging is the pagination metadata returned alongside list results.
type Paging struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPaging derives the metadata for a page over total matching rows.
func NewPaging(p Page, total int) Paging {
	return Paging{
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      total,
		TotalPages: (total + p.PageSize - 1) / p.PageSize,
	}
}

// CreateInput is the payload for creating a book.
type CreateInput struct {
	Title           string  `json:"book_title"`
	ISBN            *string `json:"isbn"`
	PublicationYear *int    `json:"publication_year"`
	Description     *string `json:"description"`
	AuthorIDs       []int64 `json:"author_ids"`
	GenreIDs        []int64 `json:"genre_ids"`
}

// UpdateInput is the payload for a partial update. nil means "leave the
// field untouched"; for AuthorIDs/GenreIDs an empty non-nil slice clears
// all associations.
type UpdateInput struct {
	Title           *string `json:"book_title"`
	ISBN            *string `json:"isbn"`
	PublicationYear *int    `json:"publication_year"`
	Description     *string `json:"description"`
	AuthorIDs       []int64 `json:"author_ids"`
	GenreIDs        []int64 `json:"genre_ids"`
}

// Empty reports whether the update carries no fields at all.
func (in UpdateInput) Empty() bool {
	return in.Title == nil && in.ISBN == nil && in.PublicationYear == nil &&
		in.Description == nil && in.AuthorIDs == nil && in.GenreIDs == nil
}

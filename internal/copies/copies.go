// Package copies tracks the physical circulating instances of cataloged
// books.
package copies

import (
	"fmt"
	"time"
)

// Copy status ids, matching the seeded status table.
const (
	StatusAvailable int16 = 1
	StatusBorrowed  int16 = 2
)

var statusNames = map[int16]string{
	StatusAvailable: "Available",
	StatusBorrowed:  "Borrowed",
}

// StatusName maps a status id to its human-readable name.
func StatusName(id int16) string {
	if name, ok := statusNames[id]; ok {
		return name
	}
	return "Unknown"
}

type Copy struct {
	ID        int64      `json:"copy_id"`
	Code      string     `json:"copy_code"`
	BookID    int64      `json:"book_id"`
	StatusID  int16      `json:"status_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at"`
}

// CopyWithStatus is a Copy enriched with its status name and the owning
// book's title.
type CopyWithStatus struct {
	Copy
	StatusName string `json:"status_name"`
	BookTitle  string `json:"book_title"`
}

// Summary holds per-book availability counts.
type Summary struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Borrowed  int `json:"borrowed"`
}

// BookCopies is the full copy listing for one book.
type BookCopies struct {
	BookID    int64            `json:"book_id"`
	BookTitle string           `json:"book_title"`
	Summary   Summary          `json:"summary"`
	Copies    []CopyWithStatus `json:"copies"`
}

// Code builds the human-readable copy identifier for the seq-th copy of a
// book, e.g. BOOK-007-003.
func Code(bookID int64, seq int) string {
	return fmt.Sprintf("BOOK-%03d-%03d", bookID, seq)
}

// Quantity bounds for a single batch add.
const (
	MinQuantity = 1
	MaxQuantity = 100
)

package copies

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"libraryapi/internal/apperr"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// AddBatch creates quantity new Available copies for the book, with codes
// continuing the per-book sequence. The book row is locked for the
// duration of the transaction, which serializes sequence generation; the
// unique constraint on copy_code is the backstop.
func (r *PostgresRepo) AddBatch(ctx context.Context, bookID int64, quantity int) ([]Copy, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return nil, fmt.Errorf("begin add copies: %w", err)
	}
	defer tx.Rollback(timeoutCtx)

	var title string
	err = tx.QueryRow(timeoutCtx,
		`SELECT book_title FROM books WHERE book_id = $1 AND deleted_at IS NULL FOR UPDATE`,
		bookID).Scan(&title)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("book not found")
		}
		return nil, fmt.Errorf("lock book: %w", err)
	}

	// Soft-deleted copies keep their place in the sequence so codes are
	// never reissued.
	var existing int
	err = tx.QueryRow(timeoutCtx,
		`SELECT COUNT(*) FROM copies WHERE book_id = $1`, bookID).Scan(&existing)
	if err != nil {
		return nil, fmt.Errorf("count copies: %w", err)
	}

	const insertSQL = `
		INSERT INTO copies (copy_code, book_id, status_id)
		VALUES ($1, $2, $3)
		RETURNING copy_id, created_at, updated_at`

	out := make([]Copy, 0, quantity)
	for i := 0; i < quantity; i++ {
		c := Copy{
			Code:     Code(bookID, existing+i+1),
			BookID:   bookID,
			StatusID: StatusAvailable,
		}
		if err := tx.QueryRow(timeoutCtx, insertSQL, c.Code, c.BookID, c.StatusID).
			Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("insert copy: %w", err)
		}
		out = append(out, c)
	}

	if err := tx.Commit(timeoutCtx); err != nil {
		return nil, fmt.Errorf("commit add copies: %w", err)
	}
	return out, nil
}

func (r *PostgresRepo) ListByBook(ctx context.Context, bookID int64) (BookCopies, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var title string
	err := r.db.QueryRow(timeoutCtx,
		`SELECT book_title FROM books WHERE book_id = $1 AND deleted_at IS NULL`,
		bookID).Scan(&title)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return BookCopies{}, apperr.NotFound("book not found")
		}
		return BookCopies{}, fmt.Errorf("get book: %w", err)
	}

	const query = `
		SELECT c.copy_id, c.copy_code, c.book_id, c.status_id,
		       c.created_at, c.updated_at, s.status_name
		FROM copies c
		JOIN status s ON s.status_id = c.status_id
		WHERE c.book_id = $1 AND c.deleted_at IS NULL
		ORDER BY c.copy_code`

	rows, err := r.db.Query(timeoutCtx, query, bookID)
	if err != nil {
		return BookCopies{}, fmt.Errorf("list copies: %w", err)
	}
	defer rows.Close()

	bc := BookCopies{
		BookID:    bookID,
		BookTitle: title,
		Copies:    []CopyWithStatus{},
	}
	for rows.Next() {
		var c CopyWithStatus
		if err := rows.Scan(
			&c.ID, &c.Code, &c.BookID, &c.StatusID,
			&c.CreatedAt, &c.UpdatedAt, &c.StatusName,
		); err != nil {
			return BookCopies{}, fmt.Errorf("scan copy: %w", err)
		}
		c.BookTitle = title

		bc.Summary.Total++
		switch c.StatusID {
		case StatusAvailable:
			bc.Summary.Available++
		case StatusBorrowed:
			bc.Summary.Borrowed++
		}
		bc.Copies = append(bc.Copies, c)
	}
	return bc, rows.Err()
}

package book

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"libraryapi/internal/apperr"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
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

func (r *PostgresRepo) List(ctx context.Context, f Filter, p Page) ([]BookWithDetails, int, error) {
	countSQL, countArgs, err := buildCountQuery(f)
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int
	if err := r.db.QueryRow(timeoutCtx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	dataSQL, dataArgs, err := buildListQuery(f, p)
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}

	timeoutCtx2, cancel2 := r.withTimeout(ctx)
	defer cancel2()

	rows, err := r.db.Query(timeoutCtx2, dataSQL, dataArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	out := []BookWithDetails{}
	for rows.Next() {
		var b BookWithDetails
		if err := rows.Scan(
			&b.ID, &b.Title, &b.ISBN, &b.PublicationYear, &b.Description,
			&b.CreatedAt, &b.UpdatedAt,
			&b.Authors, &b.Genres, &b.CopyCount, &b.AvailableCopies,
		); err != nil {
			return nil, 0, fmt.Errorf("scan book: %w", err)
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (BookWithDetails, error) {
	const query = `
		SELECT b.book_id, b.book_title, b.isbn, b.publication_year, b.description,
		       b.created_at, b.updated_at,
		       COALESCE(JSONB_AGG(DISTINCT jsonb_build_object('author_id', a.author_id, 'name', a.name)) FILTER (WHERE a.author_id IS NOT NULL), '[]') AS authors,
		       COALESCE(JSONB_AGG(DISTINCT jsonb_build_object('genre_id', g.genre_id, 'name', g.name)) FILTER (WHERE g.genre_id IS NOT NULL), '[]') AS genres,
		       COUNT(DISTINCT c.copy_id) FILTER (WHERE c.deleted_at IS NULL) AS copy_count,
		       COUNT(DISTINCT c.copy_id) FILTER (WHERE c.deleted_at IS NULL AND c.status_id = 1) AS available_copies
		FROM books b
		LEFT JOIN book_authors ba ON ba.book_id = b.book_id
		LEFT JOIN authors a ON a.author_id = ba.author_id
		LEFT JOIN book_genres bg ON bg.book_id = b.book_id
		LEFT JOIN genres g ON g.genre_id = bg.genre_id
		LEFT JOIN copies c ON c.book_id = b.book_id
		WHERE b.book_id = $1 AND b.deleted_at IS NULL
		GROUP BY b.book_id`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var b BookWithDetails
	err := r.db.QueryRow(timeoutCtx, query, id).Scan(
		&b.ID, &b.Title, &b.ISBN, &b.PublicationYear, &b.Description,
		&b.CreatedAt, &b.UpdatedAt,
		&b.Authors, &b.Genres, &b.CopyCount, &b.AvailableCopies,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return BookWithDetails{}, apperr.NotFound("book not found")
		}
		return BookWithDetails{}, fmt.Errorf("get book: %w", err)
	}
	return b, nil
}

func (r *PostgresRepo) Insert(ctx context.Context, b *Book, authorIDs, genreIDs []int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return fmt.Errorf("begin insert book: %w", err)
	}
	defer tx.Rollback(timeoutCtx)

	const bookSQL = `
		INSERT INTO books (book_title, isbn, publication_year, description)
		VALUES ($1, $2, $3, $4)
		RETURNING book_id, created_at, updated_at`

	err = tx.QueryRow(timeoutCtx, bookSQL, b.Title, b.ISBN, b.PublicationYear, b.Description).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return mapConstraintErr(err, "insert book")
	}

	if err := replaceAssociations(timeoutCtx, tx, b.ID, authorIDs, genreIDs); err != nil {
		return err
	}

	return tx.Commit(timeoutCtx)
}

func (r *PostgresRepo) Update(ctx context.Context, b *Book, authorIDs, genreIDs []int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return fmt.Errorf("begin update book: %w", err)
	}
	defer tx.Rollback(timeoutCtx)

	const bookSQL = `
		UPDATE books
		SET book_title = $1, isbn = $2, publication_year = $3, description = $4, updated_at = NOW()
		WHERE book_id = $5 AND deleted_at IS NULL`

	tag, err := tx.Exec(timeoutCtx, bookSQL, b.Title, b.ISBN, b.PublicationYear, b.Description, b.ID)
	if err != nil {
		return mapConstraintErr(err, "update book")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("book not found")
	}

	if err := replaceAssociations(timeoutCtx, tx, b.ID, authorIDs, genreIDs); err != nil {
		return err
	}

	return tx.Commit(timeoutCtx)
}

// replaceAssociations rewrites the author/genre join rows wholesale. A nil
// slice leaves the relation untouched; an empty one clears it.
func replaceAssociations(ctx context.Context, tx pgx.Tx, bookID int64, authorIDs, genreIDs []int64) error {
	if authorIDs != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM book_authors WHERE book_id = $1`, bookID); err != nil {
			return fmt.Errorf("clear book authors: %w", err)
		}
		for _, authorID := range authorIDs {
			if _, err := tx.Exec(ctx, `INSERT INTO book_authors (book_id, author_id) VALUES ($1, $2)`, bookID, authorID); err != nil {
				return mapConstraintErr(err, "insert book author")
			}
		}
	}

	if genreIDs != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM book_genres WHERE book_id = $1`, bookID); err != nil {
			return fmt.Errorf("clear book genres: %w", err)
		}
		for _, genreID := range genreIDs {
			if _, err := tx.Exec(ctx, `INSERT INTO book_genres (book_id, genre_id) VALUES ($1, $2)`, bookID, genreID); err != nil {
				return mapConstraintErr(err, "insert book genre")
			}
		}
	}

	return nil
}

func (r *PostgresRepo) SoftDelete(ctx context.Context, id int64) error {
	const query = `
		UPDATE books
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE book_id = $1 AND deleted_at IS NULL`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(timeoutCtx, query, id)
	if err != nil {
		return fmt.Errorf("soft delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("book not found")
	}
	return nil
}

// ISBNInUse reports whether a non-deleted book other than excludeID
// already carries the ISBN. Pass excludeID 0 for creates.
func (r *PostgresRepo) ISBNInUse(ctx context.Context, isbn string, excludeID int64) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM books
			WHERE isbn = $1 AND deleted_at IS NULL AND book_id <> $2
		)`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var inUse bool
	if err := r.db.QueryRow(timeoutCtx, query, isbn, excludeID).Scan(&inUse); err != nil {
		return false, fmt.Errorf("check isbn: %w", err)
	}
	return inUse, nil
}

// HasActiveBorrowings reports whether any copy of the book has an
// unreturned borrowing, which blocks deletion.
func (r *PostgresRepo) HasActiveBorrowings(ctx context.Context, id int64) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1
			FROM borrowings br
			JOIN copies c ON c.copy_id = br.copy_id
			WHERE c.book_id = $1 AND br.returned_at IS NULL
		)`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var active bool
	if err := r.db.QueryRow(timeoutCtx, query, id).Scan(&active); err != nil {
		return false, fmt.Errorf("check active borrowings: %w", err)
	}
	return active, nil
}

// mapConstraintErr converts constraint violations raised at write time
// into taxonomy errors: unique violations become conflicts, foreign key
// violations (unknown author/genre ids) become validation failures.
func mapConstraintErr(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperr.Conflict("a book with this ISBN already exists")
		case pgForeignKeyViolation:
			return apperr.Validation("unknown author or genre id")
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

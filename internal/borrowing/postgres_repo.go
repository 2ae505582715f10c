package borrowing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"libraryapi/internal/apperr"
	"libraryapi/internal/copies"
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

func (r *PostgresRepo) HistoryByCopy(ctx context.Context, copyID int64) (CopyHistory, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	const copySQL = `
		SELECT c.copy_id, c.copy_code, c.book_id, b.book_title, s.status_name
		FROM copies c
		JOIN books b ON b.book_id = c.book_id
		JOIN status s ON s.status_id = c.status_id
		WHERE c.copy_id = $1 AND c.deleted_at IS NULL`

	var h CopyHistory
	err := r.db.QueryRow(timeoutCtx, copySQL, copyID).Scan(
		&h.CopyID, &h.CopyCode, &h.BookID, &h.BookTitle, &h.CurrentStatus,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CopyHistory{}, apperr.NotFound("copy not found")
		}
		return CopyHistory{}, fmt.Errorf("get copy: %w", err)
	}

	const historySQL = `
		SELECT br.borrowing_id, br.copy_id, br.member_id, br.borrowed_at, br.due_date,
		       br.returned_at, br.created_at, br.updated_at, m.member_name
		FROM borrowings br
		JOIN members m ON m.member_id = br.member_id
		WHERE br.copy_id = $1
		ORDER BY br.borrowed_at DESC`

	rows, err := r.db.Query(timeoutCtx, historySQL, copyID)
	if err != nil {
		return CopyHistory{}, fmt.Errorf("list borrowings: %w", err)
	}
	defer rows.Close()

	h.History = []WithDetails{}
	for rows.Next() {
		var d WithDetails
		if err := rows.Scan(
			&d.ID, &d.CopyID, &d.MemberID, &d.BorrowedAt, &d.DueDate,
			&d.ReturnedAt, &d.CreatedAt, &d.UpdatedAt, &d.MemberName,
		); err != nil {
			return CopyHistory{}, fmt.Errorf("scan borrowing: %w", err)
		}
		d.BookTitle = h.BookTitle
		d.CopyCode = h.CopyCode
		h.History = append(h.History, d)
	}
	h.TotalBorrows = len(h.History)
	return h, rows.Err()
}

// Borrow records a new borrowing and flips the copy to Borrowed in one
// transaction. The copy row is locked first so two concurrent borrows of
// the same copy cannot both succeed.
func (r *PostgresRepo) Borrow(ctx context.Context, copyID, memberID int64, dueDate time.Time) (Borrowing, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return Borrowing{}, fmt.Errorf("begin borrow: %w", err)
	}
	defer tx.Rollback(timeoutCtx)

	var statusID int16
	err = tx.QueryRow(timeoutCtx,
		`SELECT status_id FROM copies WHERE copy_id = $1 AND deleted_at IS NULL FOR UPDATE`,
		copyID).Scan(&statusID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Borrowing{}, apperr.NotFound("copy not found")
		}
		return Borrowing{}, fmt.Errorf("lock copy: %w", err)
	}
	if statusID != copies.StatusAvailable {
		return Borrowing{}, apperr.Conflict("copy is not available")
	}

	var memberExists bool
	err = tx.QueryRow(timeoutCtx,
		`SELECT EXISTS (SELECT 1 FROM members WHERE member_id = $1 AND deleted_at IS NULL)`,
		memberID).Scan(&memberExists)
	if err != nil {
		return Borrowing{}, fmt.Errorf("check member: %w", err)
	}
	if !memberExists {
		return Borrowing{}, apperr.NotFound("member not found")
	}

	b := Borrowing{CopyID: copyID, MemberID: memberID}
	err = tx.QueryRow(timeoutCtx, `
		INSERT INTO borrowings (copy_id, member_id, borrowed_at, due_date)
		VALUES ($1, $2, NOW(), $3)
		RETURNING borrowing_id, borrowed_at, due_date, created_at, updated_at`,
		copyID, memberID, dueDate).
		Scan(&b.ID, &b.BorrowedAt, &b.DueDate, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return Borrowing{}, fmt.Errorf("insert borrowing: %w", err)
	}

	_, err = tx.Exec(timeoutCtx,
		`UPDATE copies SET status_id = $1, updated_at = NOW() WHERE copy_id = $2`,
		copies.StatusBorrowed, copyID)
	if err != nil {
		return Borrowing{}, fmt.Errorf("mark copy borrowed: %w", err)
	}

	if err := tx.Commit(timeoutCtx); err != nil {
		return Borrowing{}, fmt.Errorf("commit borrow: %w", err)
	}
	return b, nil
}

// Return stamps returned_at and flips the copy back to Available in one
// transaction.
func (r *PostgresRepo) Return(ctx context.Context, borrowingID int64) (Borrowing, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return Borrowing{}, fmt.Errorf("begin return: %w", err)
	}
	defer tx.Rollback(timeoutCtx)

	var b Borrowing
	err = tx.QueryRow(timeoutCtx, `
		SELECT borrowing_id, copy_id, member_id, borrowed_at, due_date, returned_at, created_at, updated_at
		FROM borrowings
		WHERE borrowing_id = $1
		FOR UPDATE`,
		borrowingID).
		Scan(&b.ID, &b.CopyID, &b.MemberID, &b.BorrowedAt, &b.DueDate, &b.ReturnedAt, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Borrowing{}, apperr.NotFound("borrowing not found")
		}
		return Borrowing{}, fmt.Errorf("lock borrowing: %w", err)
	}
	if b.ReturnedAt != nil {
		return Borrowing{}, apperr.Conflict("borrowing already returned")
	}

	err = tx.QueryRow(timeoutCtx, `
		UPDATE borrowings SET returned_at = NOW(), updated_at = NOW()
		WHERE borrowing_id = $1
		RETURNING returned_at, updated_at`,
		borrowingID).Scan(&b.ReturnedAt, &b.UpdatedAt)
	if err != nil {
		return Borrowing{}, fmt.Errorf("update borrowing: %w", err)
	}

	_, err = tx.Exec(timeoutCtx,
		`UPDATE copies SET status_id = $1, updated_at = NOW() WHERE copy_id = $2`,
		copies.StatusAvailable, b.CopyID)
	if err != nil {
		return Borrowing{}, fmt.Errorf("mark copy available: %w", err)
	}

	if err := tx.Commit(timeoutCtx); err != nil {
		return Borrowing{}, fmt.Errorf("commit return: %w", err)
	}
	return b, nil
}

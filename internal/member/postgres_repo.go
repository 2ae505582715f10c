package member

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

const pgUniqueViolation = "23505"

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

func (r *PostgresRepo) Insert(ctx context.Context, m *Member) error {
	const query = `
		INSERT INTO members (member_code, member_name, email, phone, address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING member_id, created_at, updated_at`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := r.db.QueryRow(timeoutCtx, query, m.Code, m.Name, m.Email, m.Phone, m.Address).
		Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperr.Conflict("member code or email already exists")
		}
		return fmt.Errorf("insert member: %w", err)
	}
	return nil
}

func (r *PostgresRepo) List(ctx context.Context, f Filter) ([]Member, error) {
	query := `
		SELECT member_id, member_code, member_name, email, phone, address, created_at, updated_at
		FROM members
		WHERE deleted_at IS NULL`
	args := []any{}

	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		query += fmt.Sprintf(" AND member_name ILIKE $%d", len(args))
	}
	if f.Code != "" {
		args = append(args, f.Code)
		query += fmt.Sprintf(" AND member_code = $%d", len(args))
	}
	query += " ORDER BY member_name ASC"

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	out := []Member{}
	for rows.Next() {
		var m Member
		if err := rows.Scan(
			&m.ID, &m.Code, &m.Name, &m.Email, &m.Phone, &m.Address,
			&m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) GetProfile(ctx context.Context, id int64) (Profile, error) {
	const query = `
		SELECT m.member_id, m.member_code, m.member_name, m.email, m.phone, m.address,
		       m.created_at, m.updated_at,
		       COUNT(b.borrowing_id) FILTER (WHERE b.returned_at IS NULL) AS active_borrows,
		       COUNT(b.borrowing_id) AS total_borrows,
		       COUNT(b.borrowing_id) FILTER (WHERE b.returned_at IS NULL AND b.due_date < NOW()) AS overdue_count
		FROM members m
		LEFT JOIN borrowings b ON b.member_id = m.member_id
		WHERE m.member_id = $1 AND m.deleted_at IS NULL
		GROUP BY m.member_id`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var p Profile
	err := r.db.QueryRow(timeoutCtx, query, id).Scan(
		&p.ID, &p.Code, &p.Name, &p.Email, &p.Phone, &p.Address,
		&p.CreatedAt, &p.UpdatedAt,
		&p.ActiveBorrows, &p.TotalBorrows, &p.OverdueCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, apperr.NotFound("member not found")
		}
		return Profile{}, fmt.Errorf("get member: %w", err)
	}
	return p, nil
}

func (r *PostgresRepo) SoftDelete(ctx context.Context, id int64) error {
	const query = `
		UPDATE members
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE member_id = $1 AND deleted_at IS NULL`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(timeoutCtx, query, id)
	if err != nil {
		return fmt.Errorf("soft delete member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("member not found")
	}
	return nil
}

package periods

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schedulo/schedulo/internal/shared"
)

// Repository provides PostgreSQL backed persistence for periods.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListByClass returns the periods of a class ordered by start time.
func (r *Repository) ListByClass(ctx context.Context, courseID int64, classNumber int) ([]Period, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, course_id, class_number, teacher_id, room_id, starts_at, ends_at, created_at
		 FROM periods WHERE course_id = $1 AND class_number = $2 ORDER BY starts_at`,
		courseID, classNumber,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Period
	for rows.Next() {
		var p Period
		if err := rows.Scan(&p.ID, &p.CourseID, &p.ClassNumber, &p.TeacherID, &p.RoomID, &p.StartsAt, &p.EndsAt, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches one period.
func (r *Repository) Get(ctx context.Context, id int64) (Period, error) {
	var p Period
	err := r.pool.QueryRow(ctx,
		`SELECT id, course_id, class_number, teacher_id, room_id, starts_at, ends_at, created_at
		 FROM periods WHERE id = $1`, id,
	).Scan(&p.ID, &p.CourseID, &p.ClassNumber, &p.TeacherID, &p.RoomID, &p.StartsAt, &p.EndsAt, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Period{}, shared.ErrNotFound
		}
		return Period{}, err
	}
	return p, nil
}

// Create inserts a period.
func (r *Repository) Create(ctx context.Context, p Period) (Period, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO periods (course_id, class_number, teacher_id, room_id, starts_at, ends_at)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`,
		p.CourseID, p.ClassNumber, p.TeacherID, p.RoomID, p.StartsAt, p.EndsAt,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return Period{}, shared.ErrNotFound
		}
		return Period{}, err
	}
	return p, nil
}

// Update reschedules a period.
func (r *Repository) Update(ctx context.Context, p Period) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE periods SET room_id = $2, starts_at = $3, ends_at = $4 WHERE id = $1`,
		p.ID, p.RoomID, p.StartsAt, p.EndsAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return shared.ErrNotFound
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a period.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM periods WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

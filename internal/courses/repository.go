package courses

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schedulo/schedulo/internal/shared"
)

// Repository provides PostgreSQL backed persistence for courses.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) List(ctx context.Context, page shared.Pagination) ([]Course, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM courses`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, abbreviation, created_at, updated_at FROM courses ORDER BY name LIMIT $1 OFFSET $2`,
		page.PerPage, page.Offset(),
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var out []Course
	for rows.Next() {
		var course Course
		if err := rows.Scan(&course.ID, &course.Name, &course.Abbreviation, &course.CreatedAt, &course.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, course)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *Repository) Get(ctx context.Context, id int64) (Course, error) {
	var course Course
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, abbreviation, created_at, updated_at FROM courses WHERE id = $1`, id,
	).Scan(&course.ID, &course.Name, &course.Abbreviation, &course.CreatedAt, &course.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Course{}, shared.ErrNotFound
		}
		return Course{}, err
	}
	return course, nil
}

func (r *Repository) Create(ctx context.Context, course Course) (Course, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO courses (name, abbreviation) VALUES ($1, $2) RETURNING id, created_at, updated_at`,
		course.Name, course.Abbreviation,
	).Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Course{}, fmt.Errorf("%w: course name already exists", shared.ErrConflict)
		}
		return Course{}, err
	}
	return course, nil
}

func (r *Repository) Update(ctx context.Context, id int64, course Course) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE courses SET name = $2, abbreviation = $3, updated_at = now() WHERE id = $1`,
		id, course.Name, course.Abbreviation,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Exists reports whether the course is present.
func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM courses WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

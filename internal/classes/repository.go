package classes

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schedulo/schedulo/internal/authz"
	"github.com/schedulo/schedulo/internal/shared"
)

// Repository provides PostgreSQL backed persistence for classes and class
// memberships. It also implements authz.MembershipSource.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListByCourse returns all classes of a course ordered by number.
func (r *Repository) ListByCourse(ctx context.Context, courseID int64) ([]Class, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT course_id, number, name, created_at, updated_at FROM classes WHERE course_id = $1 ORDER BY number`,
		courseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Class
	for rows.Next() {
		var class Class
		if err := rows.Scan(&class.CourseID, &class.Number, &class.Name, &class.CreatedAt, &class.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, class)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches one class.
func (r *Repository) Get(ctx context.Context, courseID int64, number int) (Class, error) {
	var class Class
	err := r.pool.QueryRow(ctx,
		`SELECT course_id, number, name, created_at, updated_at FROM classes WHERE course_id = $1 AND number = $2`,
		courseID, number,
	).Scan(&class.CourseID, &class.Number, &class.Name, &class.CreatedAt, &class.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Class{}, shared.ErrNotFound
		}
		return Class{}, err
	}
	return class, nil
}

// Create inserts a class.
func (r *Repository) Create(ctx context.Context, class Class) (Class, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO classes (course_id, number, name) VALUES ($1, $2, $3) RETURNING created_at, updated_at`,
		class.CourseID, class.Number, class.Name,
	).Scan(&class.CreatedAt, &class.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return Class{}, fmt.Errorf("%w: class number already used in course", shared.ErrConflict)
		}
		if isForeignKeyViolation(err) {
			return Class{}, fmt.Errorf("%w: course", shared.ErrNotFound)
		}
		return Class{}, err
	}
	return class, nil
}

// Update renames a class.
func (r *Repository) Update(ctx context.Context, courseID int64, number int, name string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE classes SET name = $3, updated_at = now() WHERE course_id = $1 AND number = $2`,
		courseID, number, name,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a class.
func (r *Repository) Delete(ctx context.Context, courseID int64, number int) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM classes WHERE course_id = $1 AND number = $2`, courseID, number)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Exists reports whether the class is present.
func (r *Repository) Exists(ctx context.Context, courseID int64, number int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM classes WHERE course_id = $1 AND number = $2)`,
		courseID, number,
	).Scan(&exists)
	return exists, err
}

// ListMembers returns the memberships of a class.
func (r *Repository) ListMembers(ctx context.Context, courseID int64, number int) ([]Membership, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id, course_id, class_number, membership_type, created_at
		 FROM class_users WHERE course_id = $1 AND class_number = $2 ORDER BY user_id`,
		courseID, number,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Membership
	for rows.Next() {
		membership, err := scanMembership(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, membership)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// AddMember enrolls a user into a class. A second enrollment of the same user
// surfaces as ErrConflict.
func (r *Repository) AddMember(ctx context.Context, membership Membership) (Membership, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO class_users (user_id, course_id, class_number, membership_type)
		 VALUES ($1, $2, $3, $4) RETURNING created_at`,
		membership.UserID, membership.CourseID, membership.ClassNumber, string(membership.Type),
	).Scan(&membership.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return Membership{}, fmt.Errorf("%w: user already enrolled in class", shared.ErrConflict)
		}
		if isForeignKeyViolation(err) {
			return Membership{}, fmt.Errorf("%w: user or class", shared.ErrNotFound)
		}
		return Membership{}, err
	}
	return membership, nil
}

// UpdateMember changes the membership type of an enrollment.
func (r *Repository) UpdateMember(ctx context.Context, membership Membership) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE class_users SET membership_type = $4
		 WHERE user_id = $1 AND course_id = $2 AND class_number = $3`,
		membership.UserID, membership.CourseID, membership.ClassNumber, string(membership.Type),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// RemoveMember drops an enrollment.
func (r *Repository) RemoveMember(ctx context.Context, userID, courseID int64, classNumber int) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM class_users WHERE user_id = $1 AND course_id = $2 AND class_number = $3`,
		userID, courseID, classNumber,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// MembershipType implements authz.MembershipSource.
func (r *Repository) MembershipType(ctx context.Context, userID, courseID int64, classNumber int) (authz.MembershipType, bool, error) {
	var raw string
	err := r.pool.QueryRow(ctx,
		`SELECT membership_type FROM class_users WHERE user_id = $1 AND course_id = $2 AND class_number = $3`,
		userID, courseID, classNumber,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return authz.MembershipNone, false, nil
		}
		return authz.MembershipNone, false, err
	}
	membership, err := authz.ParseMembershipType(raw)
	if err != nil {
		return authz.MembershipNone, false, err
	}
	return membership, true, nil
}

func scanMembership(row pgx.Row) (Membership, error) {
	var membership Membership
	var raw string
	if err := row.Scan(&membership.UserID, &membership.CourseID, &membership.ClassNumber, &raw, &membership.CreatedAt); err != nil {
		return Membership{}, err
	}
	parsed, err := authz.ParseMembershipType(raw)
	if err != nil {
		return Membership{}, err
	}
	membership.Type = parsed
	return membership, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

var _ authz.MembershipSource = (*Repository)(nil)

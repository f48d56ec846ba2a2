package rooms

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schedulo/schedulo/internal/shared"
)

// Repository provides PostgreSQL backed persistence for rooms and room
// verifications.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) List(ctx context.Context, page shared.Pagination) ([]Room, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM rooms`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, capacity, created_at, updated_at FROM rooms ORDER BY name LIMIT $1 OFFSET $2`,
		page.PerPage, page.Offset(),
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var out []Room
	for rows.Next() {
		var room Room
		if err := rows.Scan(&room.ID, &room.Name, &room.Capacity, &room.CreatedAt, &room.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, room)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *Repository) Get(ctx context.Context, id int64) (Room, error) {
	var room Room
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, capacity, created_at, updated_at FROM rooms WHERE id = $1`, id,
	).Scan(&room.ID, &room.Name, &room.Capacity, &room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Room{}, shared.ErrNotFound
		}
		return Room{}, err
	}
	return room, nil
}

func (r *Repository) Create(ctx context.Context, room Room) (Room, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO rooms (name, capacity) VALUES ($1, $2) RETURNING id, created_at, updated_at`,
		room.Name, room.Capacity,
	).Scan(&room.ID, &room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Room{}, fmt.Errorf("%w: room name already exists", shared.ErrConflict)
		}
		return Room{}, err
	}
	return room, nil
}

func (r *Repository) Update(ctx context.Context, id int64, room Room) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE rooms SET name = $2, capacity = $3, updated_at = now() WHERE id = $1`,
		id, room.Name, room.Capacity,
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
	tag, err := r.pool.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Exists reports whether the room is present.
func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM rooms WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// ListVerifications returns the verifications filed for a room, newest first.
func (r *Repository) ListVerifications(ctx context.Context, roomID int64) ([]Verification, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, code, room_id, course_id, class_number, verified_by, condition, note, created_at
		 FROM room_verifications WHERE room_id = $1 ORDER BY created_at DESC`,
		roomID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Verification
	for rows.Next() {
		var v Verification
		if err := rows.Scan(&v.ID, &v.Code, &v.RoomID, &v.CourseID, &v.ClassNumber, &v.VerifiedBy, &v.Condition, &v.Note, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateVerification inserts an inspection record.
func (r *Repository) CreateVerification(ctx context.Context, v Verification) (Verification, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO room_verifications (code, room_id, course_id, class_number, verified_by, condition, note)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at`,
		v.Code, v.RoomID, v.CourseID, v.ClassNumber, v.VerifiedBy, v.Condition, v.Note,
	).Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return Verification{}, fmt.Errorf("%w: room or class", shared.ErrNotFound)
		}
		return Verification{}, err
	}
	return v, nil
}

// GetVerification fetches one inspection record.
func (r *Repository) GetVerification(ctx context.Context, id int64) (Verification, error) {
	var v Verification
	err := r.pool.QueryRow(ctx,
		`SELECT id, code, room_id, course_id, class_number, verified_by, condition, note, created_at
		 FROM room_verifications WHERE id = $1`, id,
	).Scan(&v.ID, &v.Code, &v.RoomID, &v.CourseID, &v.ClassNumber, &v.VerifiedBy, &v.Condition, &v.Note, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Verification{}, shared.ErrNotFound
		}
		return Verification{}, err
	}
	return v, nil
}

// UpdateVerification rewrites condition and note of an inspection record.
func (r *Repository) UpdateVerification(ctx context.Context, id int64, condition, note string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE room_verifications SET condition = $2, note = $3 WHERE id = $1`,
		id, condition, note,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

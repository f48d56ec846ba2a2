package auth

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

// PGRepository implements Repository and PrincipalSource using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// FindByEmail fetches an account by email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	var account Account
	var role string
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email, password_hash, role FROM users WHERE email = $1`,
		email,
	).Scan(&account.ID, &account.Name, &account.Email, &account.PasswordHash, &role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	account.Role, err = authz.ParseRole(role)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// Create inserts a new account. A duplicate email surfaces as ErrConflict.
func (r *PGRepository) Create(ctx context.Context, name, email, passwordHash string, role authz.Role) (*Account, error) {
	account := Account{Name: name, Email: email, PasswordHash: passwordHash, Role: role}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (name, email, password_hash, role) VALUES ($1, $2, $3, $4) RETURNING id`,
		name, email, passwordHash, string(role),
	).Scan(&account.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: email already registered", shared.ErrConflict)
		}
		return nil, err
	}
	return &account, nil
}

// FindPrincipalByEmail resolves the principal a validated token names.
func (r *PGRepository) FindPrincipalByEmail(ctx context.Context, email string) (authz.Principal, error) {
	var principal authz.Principal
	var role string
	err := r.pool.QueryRow(ctx,
		`SELECT id, role FROM users WHERE email = $1`,
		email,
	).Scan(&principal.ID, &role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return authz.Principal{}, shared.ErrNotFound
		}
		return authz.Principal{}, err
	}
	principal.Role, err = authz.ParseRole(role)
	if err != nil {
		return authz.Principal{}, err
	}
	return principal, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var (
	_ Repository      = (*PGRepository)(nil)
	_ PrincipalSource = (*PGRepository)(nil)
)

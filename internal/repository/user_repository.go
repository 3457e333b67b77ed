package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openwaves/openwaves-backend/internal/model"
)

// ErrDuplicateCallsign is returned when an insert hits the unique callsign
// constraint, closing the check-then-insert race at signup.
var ErrDuplicateCallsign = errors.New("user with this callsign already exists")

// UserRepository handles candidate and examiner account data access.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, callsign, first_name, last_name, email, password_hash, role, active, created_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(&u.ID, &u.Callsign, &u.FirstName, &u.LastName, &u.Email,
		&u.PasswordHash, &u.Role, &u.Active, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetByID retrieves a user by primary key.
func (r *UserRepository) GetByID(ctx context.Context, id int) (*model.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// GetByCallsign retrieves a user by their unique callsign.
func (r *UserRepository) GetByCallsign(ctx context.Context, callsign string) (*model.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE callsign = $1`, callsign))
}

// Create inserts a new user account.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (callsign, first_name, last_name, email, password_hash, role, active)
		 VALUES ($1, $2, $3, $4, $5, $6, TRUE)
		 RETURNING id, created_at`,
		u.Callsign, u.FirstName, u.LastName, u.Email, u.PasswordHash, u.Role,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateCallsign
		}
		return err
	}
	return nil
}

// UpdateProfile edits the account's name and email, returning the updated row.
func (r *UserRepository) UpdateProfile(ctx context.Context, userID int, firstName, lastName, email string) (*model.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`UPDATE users SET first_name = $1, last_name = $2, email = $3
		 WHERE id = $4
		 RETURNING `+userColumns,
		firstName, lastName, email, userID))
}

// UpdatePassword replaces the stored password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, userID int, hash string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $1 WHERE id = $2`, hash, userID)
	return err
}

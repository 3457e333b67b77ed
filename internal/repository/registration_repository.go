package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openwaves/openwaves-backend/internal/model"
)

// RegistrationRepository handles candidate exam registrations.
type RegistrationRepository struct {
	pool *pgxpool.Pool
}

// NewRegistrationRepository creates a new RegistrationRepository.
func NewRegistrationRepository(pool *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{pool: pool}
}

// GetByUserAndSession retrieves the registration row for one candidate in
// one session. Returns pgx.ErrNoRows when the candidate never registered.
func (r *RegistrationRepository) GetByUserAndSession(ctx context.Context, userID, sessionID int) (*model.Registration, error) {
	reg := &model.Registration{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, session_id, tech, gen, extra, valid
		 FROM registrations WHERE user_id = $1 AND session_id = $2`,
		userID, sessionID,
	).Scan(&reg.ID, &reg.UserID, &reg.SessionID, &reg.Tech, &reg.Gen, &reg.Extra, &reg.Valid)
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// ListByUser retrieves all of a candidate's registrations.
func (r *RegistrationRepository) ListByUser(ctx context.Context, userID int) ([]model.Registration, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, session_id, tech, gen, extra, valid
		 FROM registrations WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regs []model.Registration
	for rows.Next() {
		var reg model.Registration
		if err := rows.Scan(&reg.ID, &reg.UserID, &reg.SessionID,
			&reg.Tech, &reg.Gen, &reg.Extra, &reg.Valid); err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

// Upsert inserts the registration or updates its element flags in place.
func (r *RegistrationRepository) Upsert(ctx context.Context, reg *model.Registration) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO registrations (user_id, session_id, tech, gen, extra, valid)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id, session_id) DO UPDATE
		 SET tech = EXCLUDED.tech, gen = EXCLUDED.gen, extra = EXCLUDED.extra, valid = EXCLUDED.valid
		 RETURNING id`,
		reg.UserID, reg.SessionID, reg.Tech, reg.Gen, reg.Extra, reg.Valid,
	).Scan(&reg.ID)
}

// Delete removes a registration row entirely.
func (r *RegistrationRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM registrations WHERE id = $1`, id)
	return err
}

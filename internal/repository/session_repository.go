package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openwaves/openwaves-backend/internal/model"
)

// SessionRepository handles exam session data access.
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

const sessionColumns = `id, session_date, start_time, end_time, tech_pool_id, gen_pool_id, extra_pool_id, created_at`

func scanSession(row interface{ Scan(...any) error }) (*model.ExamSession, error) {
	s := &model.ExamSession{}
	err := row.Scan(&s.ID, &s.SessionDate, &s.StartTime, &s.EndTime,
		&s.TechPoolID, &s.GenPoolID, &s.ExtraPoolID, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Create inserts a new exam session.
func (r *SessionRepository) Create(ctx context.Context, s *model.ExamSession) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO exam_sessions (session_date, tech_pool_id, gen_pool_id, extra_pool_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		s.SessionDate, s.TechPoolID, s.GenPoolID, s.ExtraPoolID,
	).Scan(&s.ID, &s.CreatedAt)
}

// GetByID retrieves a session by primary key.
func (r *SessionRepository) GetByID(ctx context.Context, id int) (*model.ExamSession, error) {
	return scanSession(r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM exam_sessions WHERE id = $1`, id))
}

// List retrieves one page of sessions, newest session date first, along with
// the total session count.
func (r *SessionRepository) List(ctx context.Context, limit, offset int) ([]model.ExamSession, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM exam_sessions`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+sessionColumns+` FROM exam_sessions
		 ORDER BY session_date DESC, id DESC
		 LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var sessions []model.ExamSession
	for rows.Next() {
		var s model.ExamSession
		if err := rows.Scan(&s.ID, &s.SessionDate, &s.StartTime, &s.EndTime,
			&s.TechPoolID, &s.GenPoolID, &s.ExtraPoolID, &s.CreatedAt); err != nil {
			return nil, 0, err
		}
		sessions = append(sessions, s)
	}
	return sessions, total, rows.Err()
}

// ListAll retrieves every session, newest first, for candidate views.
func (r *SessionRepository) ListAll(ctx context.Context) ([]model.ExamSession, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+sessionColumns+` FROM exam_sessions
		 ORDER BY session_date DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []model.ExamSession
	for rows.Next() {
		var s model.ExamSession
		if err := rows.Scan(&s.ID, &s.SessionDate, &s.StartTime, &s.EndTime,
			&s.TechPoolID, &s.GenPoolID, &s.ExtraPoolID, &s.CreatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// Open stamps the session's start time and clears any previous end time.
func (r *SessionRepository) Open(ctx context.Context, id int, at time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE exam_sessions SET start_time = $1, end_time = NULL WHERE id = $2`, at, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Close stamps the session's end time.
func (r *SessionRepository) Close(ctx context.Context, id int, at time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE exam_sessions SET end_time = $1 WHERE id = $2`, at, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes a session.
func (r *SessionRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM exam_sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// DeleteOlderThan removes sessions whose date precedes the cutoff,
// returning how many were purged. Registrations and exams cascade.
func (r *SessionRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM exam_sessions WHERE session_date < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

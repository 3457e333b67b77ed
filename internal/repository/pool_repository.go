package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openwaves/openwaves-backend/internal/model"
)

// PoolRepository handles question pool data access.
type PoolRepository struct {
	pool *pgxpool.Pool
}

// NewPoolRepository creates a new PoolRepository.
func NewPoolRepository(pool *pgxpool.Pool) *PoolRepository {
	return &PoolRepository{pool: pool}
}

// Create inserts a new question pool.
func (r *PoolRepository) Create(ctx context.Context, p *model.Pool) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO pools (name, element, start_date, end_date)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		p.Name, p.Element, p.StartDate, p.EndDate,
	).Scan(&p.ID, &p.CreatedAt)
}

// GetByID retrieves a pool by primary key.
func (r *PoolRepository) GetByID(ctx context.Context, id int) (*model.Pool, error) {
	p := &model.Pool{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, element, start_date, end_date, created_at
		 FROM pools WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Element, &p.StartDate, &p.EndDate, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List retrieves all pools with their question counts, newest first.
func (r *PoolRepository) List(ctx context.Context) ([]model.Pool, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT p.id, p.name, p.element, p.start_date, p.end_date, p.created_at,
		        COUNT(q.id) AS question_count
		 FROM pools p
		 LEFT JOIN questions q ON q.pool_id = p.id
		 GROUP BY p.id
		 ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pools []model.Pool
	for rows.Next() {
		var p model.Pool
		if err := rows.Scan(&p.ID, &p.Name, &p.Element, &p.StartDate, &p.EndDate,
			&p.CreatedAt, &p.QuestionCount); err != nil {
			return nil, err
		}
		pools = append(pools, p)
	}
	return pools, rows.Err()
}

// Delete removes a pool. Questions, sub-element counts, and diagram rows go
// with it via ON DELETE CASCADE; diagram files are the service's problem.
func (r *PoolRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM pools WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ImportQuestions bulk-inserts parsed questions and replaces the pool's
// sub-element tallies in one transaction.
func (r *PoolRepository) ImportQuestions(ctx context.Context, poolID int, questions []model.Question, counts map[string]int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for i := range questions {
		q := &questions[i]
		batch.Queue(
			`INSERT INTO questions (pool_id, number, text, option_a, option_b, option_c, option_d, correct_option, refs)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			poolID, q.Number, q.Text, q.OptionA, q.OptionB, q.OptionC, q.OptionD, q.CorrectOption, q.Refs)
	}
	for code, qty := range counts {
		batch.Queue(
			`INSERT INTO subelement_counts (pool_id, code, quantity)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (pool_id, code) DO UPDATE SET quantity = subelement_counts.quantity + EXCLUDED.quantity`,
			poolID, code, qty)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return tx.Commit(ctx)
}

// ListSubelementCounts retrieves the sub-element tallies for a pool.
func (r *PoolRepository) ListSubelementCounts(ctx context.Context, poolID int) ([]model.SubelementCount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, pool_id, code, quantity
		 FROM subelement_counts WHERE pool_id = $1
		 ORDER BY code`, poolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []model.SubelementCount
	for rows.Next() {
		var c model.SubelementCount
		if err := rows.Scan(&c.ID, &c.PoolID, &c.Code, &c.Quantity); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

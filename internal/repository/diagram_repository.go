package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openwaves/openwaves-backend/internal/model"
)

// DiagramRepository handles diagram metadata data access.
type DiagramRepository struct {
	pool *pgxpool.Pool
}

// NewDiagramRepository creates a new DiagramRepository.
func NewDiagramRepository(pool *pgxpool.Pool) *DiagramRepository {
	return &DiagramRepository{pool: pool}
}

// Create inserts a new diagram record.
func (r *DiagramRepository) Create(ctx context.Context, d *model.Diagram) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO diagrams (pool_id, name, path)
		 VALUES ($1, $2, $3) RETURNING id`,
		d.PoolID, d.Name, d.Path,
	).Scan(&d.ID)
}

// GetByID retrieves a diagram by primary key.
func (r *DiagramRepository) GetByID(ctx context.Context, id int) (*model.Diagram, error) {
	d := &model.Diagram{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, pool_id, name, path FROM diagrams WHERE id = $1`, id,
	).Scan(&d.ID, &d.PoolID, &d.Name, &d.Path)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// ListByPool retrieves all diagrams attached to a pool.
func (r *DiagramRepository) ListByPool(ctx context.Context, poolID int) ([]model.Diagram, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, pool_id, name, path FROM diagrams
		 WHERE pool_id = $1 ORDER BY name`, poolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var diagrams []model.Diagram
	for rows.Next() {
		var d model.Diagram
		if err := rows.Scan(&d.ID, &d.PoolID, &d.Name, &d.Path); err != nil {
			return nil, err
		}
		diagrams = append(diagrams, d)
	}
	return diagrams, rows.Err()
}

// Delete removes a diagram record.
func (r *DiagramRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM diagrams WHERE id = $1`, id)
	return err
}

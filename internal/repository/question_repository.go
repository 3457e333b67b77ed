package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openwaves/openwaves-backend/internal/model"
)

// QuestionRepository handles question data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// ListByPool retrieves all questions in a pool ordered by question number.
// Exam assembly is the only reader; single-question lookups go through the
// exam_answers join instead.
func (r *QuestionRepository) ListByPool(ctx context.Context, poolID int) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, pool_id, number, text, option_a, option_b, option_c, option_d, correct_option, refs
		 FROM questions
		 WHERE pool_id = $1 ORDER BY number`, poolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.PoolID, &q.Number, &q.Text,
			&q.OptionA, &q.OptionB, &q.OptionC, &q.OptionD, &q.CorrectOption, &q.Refs); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

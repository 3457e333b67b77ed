package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// QuestionMissStat aggregates how often a question was missed across all
// graded exams drawn from its pool, and which wrong option candidates picked
// most.
type QuestionMissStat struct {
	QuestionID     int    `json:"question_id"`
	Number         string `json:"number"`
	Text           string `json:"text"`
	TimesAsked     int    `json:"times_asked"`
	TimesMissed    int    `json:"times_missed"`
	TopWrongOption *int   `json:"top_wrong_option,omitempty"`
	TopWrongCount  int    `json:"top_wrong_count"`
}

// AnalyticsRepository aggregates answer statistics for examiner reporting.
type AnalyticsRepository struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository creates a new AnalyticsRepository.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepository {
	return &AnalyticsRepository{pool: pool}
}

// MissStatsByPool returns per-question miss counts for one pool, most-missed
// first. Unanswered slots count as misses on finished exams; open exams are
// excluded so in-progress answers don't skew the numbers. The most-selected
// wrong option is taken from answered-but-wrong slots only.
func (r *AnalyticsRepository) MissStatsByPool(ctx context.Context, poolID int) ([]QuestionMissStat, error) {
	rows, err := r.pool.Query(ctx,
		`WITH slots AS (
		    SELECT a.question_id, a.answer, a.correct_option
		    FROM exam_answers a
		    JOIN exams e ON e.id = a.exam_id
		    WHERE NOT e.open AND e.pool_id = $1
		), wrong AS (
		    SELECT question_id, answer, COUNT(*) AS picks,
		           ROW_NUMBER() OVER (PARTITION BY question_id ORDER BY COUNT(*) DESC, answer) AS rank
		    FROM slots
		    WHERE answer IS NOT NULL AND answer <> correct_option
		    GROUP BY question_id, answer
		)
		SELECT q.id, q.number, q.text,
		       COUNT(s.question_id) AS times_asked,
		       COUNT(s.question_id) FILTER (WHERE s.answer IS NULL OR s.answer <> s.correct_option) AS times_missed,
		       w.answer, COALESCE(w.picks, 0)
		FROM questions q
		JOIN slots s ON s.question_id = q.id
		LEFT JOIN wrong w ON w.question_id = q.id AND w.rank = 1
		WHERE q.pool_id = $1
		GROUP BY q.id, q.number, q.text, w.answer, w.picks
		HAVING COUNT(s.question_id) FILTER (WHERE s.answer IS NULL OR s.answer <> s.correct_option) > 0
		ORDER BY times_missed DESC, q.number`, poolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []QuestionMissStat
	for rows.Next() {
		var st QuestionMissStat
		if err := rows.Scan(&st.QuestionID, &st.Number, &st.Text,
			&st.TimesAsked, &st.TimesMissed, &st.TopWrongOption, &st.TopWrongCount); err != nil {
			return nil, err
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

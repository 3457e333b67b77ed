package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openwaves/openwaves-backend/internal/model"
)

// ExamRepository handles exam attempts and their answer slots.
type ExamRepository struct {
	pool *pgxpool.Pool
}

// NewExamRepository creates a new ExamRepository.
func NewExamRepository(pool *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{pool: pool}
}

// Create inserts the exam and its answer slots in one transaction so a
// half-assembled exam never becomes visible.
func (r *ExamRepository) Create(ctx context.Context, exam *model.Exam, answers []model.ExamAnswer) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO exams (user_id, session_id, pool_id, element, open, current_index)
		 VALUES ($1, $2, $3, $4, TRUE, 0)
		 RETURNING id, created_at`,
		exam.UserID, exam.SessionID, exam.PoolID, exam.Element,
	).Scan(&exam.ID, &exam.CreatedAt)
	if err != nil {
		return err
	}
	exam.Open = true

	batch := &pgx.Batch{}
	for i := range answers {
		answers[i].ExamID = exam.ID
		batch.Queue(
			`INSERT INTO exam_answers (exam_id, question_id, question_number, correct_option)
			 VALUES ($1, $2, $3, $4)`,
			exam.ID, answers[i].QuestionID, answers[i].QuestionNumber, answers[i].CorrectOption,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

const examColumns = `id, user_id, session_id, pool_id, element, open, current_index, score, passed, created_at`

func scanExam(row pgx.Row) (*model.Exam, error) {
	exam := &model.Exam{}
	err := row.Scan(&exam.ID, &exam.UserID, &exam.SessionID, &exam.PoolID,
		&exam.Element, &exam.Open, &exam.CurrentIndex, &exam.Score, &exam.Passed, &exam.CreatedAt)
	if err != nil {
		return nil, err
	}
	return exam, nil
}

// GetByID retrieves one exam by its id.
func (r *ExamRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	return scanExam(r.pool.QueryRow(ctx,
		`SELECT `+examColumns+` FROM exams WHERE id = $1`, id))
}

// GetByUserSessionElement retrieves a candidate's attempt for one element in
// one session. Returns pgx.ErrNoRows when no attempt exists yet.
func (r *ExamRepository) GetByUserSessionElement(ctx context.Context, userID, sessionID int, element model.Element) (*model.Exam, error) {
	return scanExam(r.pool.QueryRow(ctx,
		`SELECT `+examColumns+` FROM exams
		 WHERE user_id = $1 AND session_id = $2 AND element = $3`,
		userID, sessionID, element))
}

// ListByUser retrieves all of a candidate's exam attempts, newest first.
func (r *ExamRepository) ListByUser(ctx context.Context, userID int) ([]model.Exam, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+examColumns+` FROM exams WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectExams(rows)
}

// ExamWithCandidate pairs an exam with its candidate's identity for the
// examiner results listing.
type ExamWithCandidate struct {
	model.Exam
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Callsign  string `json:"callsign"`
}

// ListBySession retrieves every exam in a session joined with candidate
// identity, for the examiner results view.
func (r *ExamRepository) ListBySession(ctx context.Context, sessionID int) ([]ExamWithCandidate, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT e.id, e.user_id, e.session_id, e.pool_id, e.element, e.open,
		        e.current_index, e.score, e.passed, e.created_at,
		        u.first_name, u.last_name, u.callsign
		 FROM exams e
		 JOIN users u ON u.id = e.user_id
		 WHERE e.session_id = $1
		 ORDER BY u.callsign, e.element`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exams []ExamWithCandidate
	for rows.Next() {
		var e ExamWithCandidate
		if err := rows.Scan(&e.ID, &e.UserID, &e.SessionID, &e.PoolID, &e.Element,
			&e.Open, &e.CurrentIndex, &e.Score, &e.Passed, &e.CreatedAt,
			&e.FirstName, &e.LastName, &e.Callsign); err != nil {
			return nil, err
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}

// CountOpenBySession counts exams still accepting answers in a session.
func (r *ExamRepository) CountOpenBySession(ctx context.Context, sessionID int) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM exams WHERE session_id = $1 AND open`, sessionID).Scan(&n)
	return n, err
}

// ExistsBySession reports whether any exam was ever taken in the session.
func (r *ExamRepository) ExistsBySession(ctx context.Context, sessionID int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM exams WHERE session_id = $1)`, sessionID).Scan(&exists)
	return exists, err
}

// UpdateCurrentIndex persists the candidate's navigation position.
func (r *ExamRepository) UpdateCurrentIndex(ctx context.Context, id uuid.UUID, index int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE exams SET current_index = $2 WHERE id = $1`, id, index)
	return err
}

// SaveAnswer records the chosen option for one slot. A nil answer clears the
// slot. Guarded on open so a finished exam can never change.
func (r *ExamRepository) SaveAnswer(ctx context.Context, examID uuid.UUID, questionNumber int, answer *int) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE exam_answers a SET answer = $3
		 FROM exams e
		 WHERE a.exam_id = e.id AND a.exam_id = $1 AND a.question_number = $2 AND e.open`,
		examID, questionNumber, answer)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// CloseExam marks the exam finished. Returns pgx.ErrNoRows if it was already
// closed, which makes finishing idempotent for the caller.
func (r *ExamRepository) CloseExam(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE exams SET open = FALSE WHERE id = $1 AND open`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// CloseAllBySession force-closes every open exam in a session and returns the
// ids so the caller can queue them for grading.
func (r *ExamRepository) CloseAllBySession(ctx context.Context, sessionID int) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`UPDATE exams SET open = FALSE WHERE session_id = $1 AND open RETURNING id`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SetGrade stores the computed score and verdict on the exam.
func (r *ExamRepository) SetGrade(ctx context.Context, id uuid.UUID, score int, passed bool) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE exams SET score = $2, passed = $3 WHERE id = $1`, id, score, passed)
	return err
}

// ListAnswers retrieves an exam's answer slots in question order.
func (r *ExamRepository) ListAnswers(ctx context.Context, examID uuid.UUID) ([]model.ExamAnswer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, exam_id, question_id, question_number, answer, correct_option
		 FROM exam_answers WHERE exam_id = $1 ORDER BY question_number`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []model.ExamAnswer
	for rows.Next() {
		var a model.ExamAnswer
		if err := rows.Scan(&a.ID, &a.ExamID, &a.QuestionID, &a.QuestionNumber,
			&a.Answer, &a.CorrectOption); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

// AnswerWithQuestion joins an answer slot with the question it was drawn from.
type AnswerWithQuestion struct {
	model.ExamAnswer
	Question model.Question `json:"question"`
}

// ListAnswersWithQuestions retrieves slots joined with question content, for
// rendering the exam and the examiner's per-answer review.
func (r *ExamRepository) ListAnswersWithQuestions(ctx context.Context, examID uuid.UUID) ([]AnswerWithQuestion, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.id, a.exam_id, a.question_id, a.question_number, a.answer, a.correct_option,
		        q.id, q.pool_id, q.number, q.text, q.option_a, q.option_b, q.option_c, q.option_d,
		        q.correct_option, q.refs
		 FROM exam_answers a
		 JOIN questions q ON q.id = a.question_id
		 WHERE a.exam_id = $1
		 ORDER BY a.question_number`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []AnswerWithQuestion
	for rows.Next() {
		var it AnswerWithQuestion
		if err := rows.Scan(&it.ID, &it.ExamID, &it.QuestionID, &it.QuestionNumber,
			&it.Answer, &it.CorrectOption,
			&it.Question.ID, &it.Question.PoolID, &it.Question.Number, &it.Question.Text,
			&it.Question.OptionA, &it.Question.OptionB, &it.Question.OptionC, &it.Question.OptionD,
			&it.Question.CorrectOption, &it.Question.Refs); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func collectExams(rows pgx.Rows) ([]model.Exam, error) {
	var exams []model.Exam
	for rows.Next() {
		var e model.Exam
		if err := rows.Scan(&e.ID, &e.UserID, &e.SessionID, &e.PoolID, &e.Element,
			&e.Open, &e.CurrentIndex, &e.Score, &e.Passed, &e.CreatedAt); err != nil {
			return nil, err
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}

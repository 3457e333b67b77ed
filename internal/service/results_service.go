package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/openwaves/openwaves-backend/internal/model"
	"github.com/openwaves/openwaves-backend/internal/repository"
)

// SessionResultRow is one candidate exam in the examiner results listing.
type SessionResultRow struct {
	ExamID    uuid.UUID     `json:"exam_id"`
	Callsign  string        `json:"callsign"`
	FirstName string        `json:"first_name"`
	LastName  string        `json:"last_name"`
	Element   model.Element `json:"element"`
	Open      bool          `json:"open"`
	Score     *int          `json:"score,omitempty"`
	Passed    *bool         `json:"passed,omitempty"`
	ScoreText string        `json:"score_text,omitempty"`
}

// AnswerDetail is one question of an examiner's per-exam review, correct
// option included.
type AnswerDetail struct {
	QuestionNumber int      `json:"question_number"`
	PoolNumber     string   `json:"pool_number"`
	Text           string   `json:"text"`
	Options        []string `json:"options"`
	Answer         *int     `json:"answer"`
	CorrectOption  int      `json:"correct_option"`
	Correct        bool     `json:"correct"`
}

// ResultsService serves examiner-facing results and pool analytics. Scores
// are recomputed from the stored answers when the grading worker hasn't
// persisted them yet, so results never block on the queue.
type ResultsService struct {
	examRepo      *repository.ExamRepository
	poolRepo      *repository.PoolRepository
	analyticsRepo *repository.AnalyticsRepository
}

// NewResultsService creates a new ResultsService.
func NewResultsService(examRepo *repository.ExamRepository, poolRepo *repository.PoolRepository, analyticsRepo *repository.AnalyticsRepository) *ResultsService {
	return &ResultsService{examRepo: examRepo, poolRepo: poolRepo, analyticsRepo: analyticsRepo}
}

// SessionResults lists every exam in a session with candidate identity and
// graded outcome. Open exams appear without a score.
func (s *ResultsService) SessionResults(ctx context.Context, sessionID int) ([]SessionResultRow, error) {
	exams, err := s.examRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}

	rows := make([]SessionResultRow, 0, len(exams))
	for i := range exams {
		e := &exams[i]
		row := SessionResultRow{
			ExamID:    e.ID,
			Callsign:  e.Callsign,
			FirstName: e.FirstName,
			LastName:  e.LastName,
			Element:   e.Element,
			Open:      e.Open,
		}
		if !e.Open {
			score, passed := e.Score, e.Passed
			if score == nil {
				answers, err := s.examRepo.ListAnswers(ctx, e.ID)
				if err != nil {
					return nil, fmt.Errorf("list answers: %w", err)
				}
				sc, ps := model.GradeExam(answers, e.Element)
				if err := s.examRepo.SetGrade(ctx, e.ID, sc, ps); err != nil {
					return nil, fmt.Errorf("store grade: %w", err)
				}
				score, passed = &sc, &ps
			}
			row.Score = score
			row.Passed = passed
			row.ScoreText = model.ScoreString(*score, e.Element)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ExamAnswers returns an exam's full answer sheet for examiner review. The
// exam must be finished.
func (s *ResultsService) ExamAnswers(ctx context.Context, examID uuid.UUID) ([]AnswerDetail, error) {
	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		return nil, err
	}
	if exam.Open {
		return nil, ErrExamStillOpen
	}

	items, err := s.examRepo.ListAnswersWithQuestions(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	return answerDetails(items), nil
}

func answerDetails(items []repository.AnswerWithQuestion) []AnswerDetail {
	details := make([]AnswerDetail, len(items))
	for i, it := range items {
		opts := it.Question.Options()
		details[i] = AnswerDetail{
			QuestionNumber: it.QuestionNumber,
			PoolNumber:     it.Question.Number,
			Text:           it.Question.Text,
			Options:        opts[:],
			Answer:         it.Answer,
			CorrectOption:  it.CorrectOption,
			Correct:        it.Correct(),
		}
	}
	return details
}

// PoolAnalytics returns per-question miss statistics for a pool, most-missed
// first, with the wrong option candidates favored. A pool nobody missed a
// question in yields an empty list.
func (s *ResultsService) PoolAnalytics(ctx context.Context, poolID int) ([]repository.QuestionMissStat, error) {
	if _, err := s.poolRepo.GetByID(ctx, poolID); err != nil {
		return nil, err
	}
	return s.analyticsRepo.MissStatsByPool(ctx, poolID)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/openwaves/openwaves-backend/internal/config"
	"github.com/openwaves/openwaves-backend/internal/model"
	"github.com/openwaves/openwaves-backend/internal/repository"
	"github.com/openwaves/openwaves-backend/internal/websocket"
)

// Domain errors for exam delivery.
var (
	ErrSessionNotOpen = errors.New("session is not open for exams")
	ErrNotExamOwner   = errors.New("not the owner of this exam")
	ErrExamClosed     = errors.New("exam is already finished")
	ErrExamStillOpen  = errors.New("exam is not finished yet")
	ErrIncompletePool = errors.New("pool cannot assemble a complete exam")
	ErrOversizedPool  = errors.New("pool has more sub-element groups than the exam takes")
	ErrBadQuestion    = errors.New("question is not part of this exam")
)

// ExamResult is a candidate-facing graded outcome.
type ExamResult struct {
	ExamID    uuid.UUID     `json:"exam_id"`
	Element   model.Element `json:"element"`
	Score     int           `json:"score"`
	Total     int           `json:"total"`
	Passed    bool          `json:"passed"`
	ScoreText string        `json:"score_text"`
}

// ExamService handles exam assembly, delivery, and finishing. An exam is
// assembled once per (candidate, session, element) by drawing one random
// question from every sub-element group of the pinned pool, then frozen:
// relaunching returns the same attempt at its saved position.
type ExamService struct {
	examRepo     *repository.ExamRepository
	sessionRepo  *repository.SessionRepository
	regRepo      *repository.RegistrationRepository
	poolRepo     *repository.PoolRepository
	questionRepo *repository.QuestionRepository
	diagramRepo  *repository.DiagramRepository
	rdb          *redis.Client
	monitor      *MonitorService
	log          zerolog.Logger
}

// NewExamService creates a new ExamService.
func NewExamService(
	examRepo *repository.ExamRepository,
	sessionRepo *repository.SessionRepository,
	regRepo *repository.RegistrationRepository,
	poolRepo *repository.PoolRepository,
	questionRepo *repository.QuestionRepository,
	diagramRepo *repository.DiagramRepository,
	rdb *redis.Client,
	monitor *MonitorService,
	log zerolog.Logger,
) *ExamService {
	return &ExamService{
		examRepo:     examRepo,
		sessionRepo:  sessionRepo,
		regRepo:      regRepo,
		poolRepo:     poolRepo,
		questionRepo: questionRepo,
		diagramRepo:  diagramRepo,
		rdb:          rdb,
		monitor:      monitor,
		log:          log.With().Str("component", "exam_service").Logger(),
	}
}

// Launch starts (or resumes) a candidate's exam for one element. The session
// must be open and the candidate registered for the element.
func (s *ExamService) Launch(ctx context.Context, userID int, callsign string, req model.LaunchExamRequest) (*model.ExamStateView, error) {
	element := model.Element(req.Element)
	if !element.Valid() {
		return nil, ErrInvalidElement
	}

	session, err := s.sessionRepo.GetByID(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if session.Status(time.Now()) != model.SessionStatusOpen {
		return nil, ErrSessionNotOpen
	}

	reg, err := s.regRepo.GetByUserAndSession(ctx, userID, req.SessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotRegistered
		}
		return nil, fmt.Errorf("lookup registration: %w", err)
	}
	if !reg.HasElement(element) {
		return nil, ErrNotRegistered
	}

	// Resume an existing attempt; a finished one cannot be retaken in the
	// same session.
	exam, err := s.examRepo.GetByUserSessionElement(ctx, userID, req.SessionID, element)
	if err == nil {
		if !exam.Open {
			return nil, ErrExamClosed
		}
		return s.buildState(ctx, exam)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("lookup exam: %w", err)
	}

	poolID := session.PoolIDForElement(element)
	drawn, err := s.assemble(ctx, poolID, element)
	if err != nil {
		return nil, err
	}

	exam = &model.Exam{
		UserID:    userID,
		SessionID: req.SessionID,
		PoolID:    poolID,
		Element:   element,
	}
	answers := make([]model.ExamAnswer, len(drawn))
	for i, q := range drawn {
		answers[i] = model.ExamAnswer{
			QuestionID:     q.ID,
			QuestionNumber: i + 1,
			CorrectOption:  q.CorrectOption,
		}
	}
	if err := s.examRepo.Create(ctx, exam, answers); err != nil {
		return nil, fmt.Errorf("create exam: %w", err)
	}

	s.monitor.Publish(ctx, websocket.MonitorEvent{
		Event:     websocket.EventExamLaunched,
		SessionID: req.SessionID,
		ExamID:    exam.ID.String(),
		Callsign:  callsign,
		Element:   int(element),
	})
	s.log.Info().
		Str("exam_id", exam.ID.String()).
		Int("session_id", req.SessionID).
		Int("element", int(element)).
		Msg("exam launched")

	return s.buildState(ctx, exam)
}

// assemble draws one random question from every sub-element group of the
// pool. The tallies recorded at CSV import say which groups the pool has, so
// an incomplete or oversized pool is rejected before any question is loaded.
func (s *ExamService) assemble(ctx context.Context, poolID int, element model.Element) ([]model.Question, error) {
	counts, err := s.poolRepo.ListSubelementCounts(ctx, poolID)
	if err != nil {
		return nil, fmt.Errorf("list sub-element counts: %w", err)
	}
	if err := checkGroupTally(len(counts), element); err != nil {
		return nil, err
	}

	questions, err := s.questionRepo.ListByPool(ctx, poolID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return drawQuestions(counts, questions)
}

// checkGroupTally verifies the pool carries exactly one sub-element group per
// exam slot, distinguishing a short pool from one built for a longer exam.
func checkGroupTally(groups int, element model.Element) error {
	want := element.QuestionCount()
	switch {
	case groups < want:
		return fmt.Errorf("%w: %d sub-element groups, need %d", ErrIncompletePool, groups, want)
	case groups > want:
		return fmt.Errorf("%w: %d sub-element groups, exam takes %d", ErrOversizedPool, groups, want)
	}
	return nil
}

// drawQuestions picks one random question per sub-element tally. Counts come
// back ordered by code, so the exam runs T1A, T1B, ... regardless of the draw.
func drawQuestions(counts []model.SubelementCount, questions []model.Question) ([]model.Question, error) {
	groups := make(map[string][]model.Question)
	for _, q := range questions {
		code := model.SubelementCode(q.Number)
		groups[code] = append(groups[code], q)
	}

	drawn := make([]model.Question, 0, len(counts))
	for _, c := range counts {
		group := groups[c.Code]
		if len(group) == 0 {
			return nil, fmt.Errorf("%w: no questions in group %s", ErrIncompletePool, c.Code)
		}
		drawn = append(drawn, group[rand.IntN(len(group))])
	}
	return drawn, nil
}

// Get returns the candidate's current view of an open exam.
func (s *ExamService) Get(ctx context.Context, userID int, examID uuid.UUID) (*model.ExamStateView, error) {
	exam, err := s.ownedExam(ctx, userID, examID)
	if err != nil {
		return nil, err
	}
	if !exam.Open {
		return nil, ErrExamClosed
	}
	return s.buildState(ctx, exam)
}

// Answer persists the candidate's choice for one question, then applies the
// navigation action. Review returns the summary instead of a question view.
func (s *ExamService) Answer(ctx context.Context, userID int, callsign string, examID uuid.UUID, req model.AnswerRequest) (*model.ExamStateView, []model.ReviewItem, error) {
	exam, err := s.ownedExam(ctx, userID, examID)
	if err != nil {
		return nil, nil, err
	}
	if !exam.Open {
		return nil, nil, ErrExamClosed
	}

	if err := s.examRepo.SaveAnswer(ctx, examID, req.QuestionNumber, req.Answer); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrBadQuestion
		}
		return nil, nil, fmt.Errorf("save answer: %w", err)
	}
	s.monitor.Publish(ctx, websocket.MonitorEvent{
		Event:     websocket.EventAnswerSaved,
		SessionID: exam.SessionID,
		ExamID:    examID.String(),
		Callsign:  callsign,
		Element:   int(exam.Element),
	})

	if req.Action == model.NavReview {
		review, err := s.Review(ctx, userID, examID)
		return nil, review, err
	}

	next := model.NextIndex(exam.CurrentIndex, req.Action, exam.Element.QuestionCount())
	if next != exam.CurrentIndex {
		if err := s.examRepo.UpdateCurrentIndex(ctx, examID, next); err != nil {
			return nil, nil, fmt.Errorf("update position: %w", err)
		}
		exam.CurrentIndex = next
	}

	state, err := s.buildState(ctx, exam)
	return state, nil, err
}

// Goto jumps an open exam to a question index, used from the review screen.
func (s *ExamService) Goto(ctx context.Context, userID int, examID uuid.UUID, index int) (*model.ExamStateView, error) {
	exam, err := s.ownedExam(ctx, userID, examID)
	if err != nil {
		return nil, err
	}
	if !exam.Open {
		return nil, ErrExamClosed
	}
	total := exam.Element.QuestionCount()
	if index < 0 || index >= total {
		return nil, ErrBadQuestion
	}
	if index != exam.CurrentIndex {
		if err := s.examRepo.UpdateCurrentIndex(ctx, examID, index); err != nil {
			return nil, fmt.Errorf("update position: %w", err)
		}
		exam.CurrentIndex = index
	}
	return s.buildState(ctx, exam)
}

// Review returns the answered/unanswered summary shown before submission.
func (s *ExamService) Review(ctx context.Context, userID int, examID uuid.UUID) ([]model.ReviewItem, error) {
	exam, err := s.ownedExam(ctx, userID, examID)
	if err != nil {
		return nil, err
	}
	if !exam.Open {
		return nil, ErrExamClosed
	}

	answers, err := s.examRepo.ListAnswers(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	items := make([]model.ReviewItem, len(answers))
	for i, a := range answers {
		items[i] = model.ReviewItem{
			QuestionNumber: a.QuestionNumber,
			Answered:       a.Answer != nil,
			Answer:         a.Answer,
		}
	}
	return items, nil
}

// Finish locks the exam and queues it for grading. Unanswered questions count
// as wrong. Finishing twice reports the exam as already closed.
func (s *ExamService) Finish(ctx context.Context, userID int, callsign string, examID uuid.UUID) error {
	exam, err := s.ownedExam(ctx, userID, examID)
	if err != nil {
		return err
	}
	if err := s.examRepo.CloseExam(ctx, examID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrExamClosed
		}
		return fmt.Errorf("close exam: %w", err)
	}

	if err := s.rdb.RPush(ctx, config.WorkerKey.GradeExamsQueue, examID.String()).Err(); err != nil {
		// Grading will still happen on demand when results are requested.
		s.log.Error().Err(err).Str("exam_id", examID.String()).Msg("enqueue grading")
	}

	s.monitor.Publish(ctx, websocket.MonitorEvent{
		Event:     websocket.EventExamFinished,
		SessionID: exam.SessionID,
		ExamID:    examID.String(),
		Callsign:  callsign,
		Element:   int(exam.Element),
	})
	s.log.Info().Str("exam_id", examID.String()).Msg("exam finished")
	return nil
}

// Result returns a finished exam's graded outcome. The grading worker's Redis
// entry is checked first; if the worker hasn't gotten to the exam yet the
// score is computed here and persisted.
func (s *ExamService) Result(ctx context.Context, userID int, examID uuid.UUID) (*ExamResult, error) {
	exam, err := s.ownedExam(ctx, userID, examID)
	if err != nil {
		return nil, err
	}
	if exam.Open {
		return nil, ErrExamStillOpen
	}

	if exam.Score == nil {
		if cached, err := s.rdb.Get(ctx, config.CacheKey.ExamGradeKey(examID.String())).Result(); err == nil {
			if score, err := strconv.Atoi(cached); err == nil {
				passed := score >= exam.Element.PassingScore()
				exam.Score, exam.Passed = &score, &passed
			}
		}
	}
	if exam.Score == nil {
		answers, err := s.examRepo.ListAnswers(ctx, examID)
		if err != nil {
			return nil, fmt.Errorf("list answers: %w", err)
		}
		score, passed := model.GradeExam(answers, exam.Element)
		if err := s.examRepo.SetGrade(ctx, examID, score, passed); err != nil {
			return nil, fmt.Errorf("store grade: %w", err)
		}
		exam.Score, exam.Passed = &score, &passed
	}

	return &ExamResult{
		ExamID:    exam.ID,
		Element:   exam.Element,
		Score:     *exam.Score,
		Total:     exam.Element.QuestionCount(),
		Passed:    *exam.Passed,
		ScoreText: model.ScoreString(*exam.Score, exam.Element),
	}, nil
}

// AnswerSheet returns a finished exam's per-question detail with the correct
// options revealed. Open exams are rejected so candidates cannot peek.
func (s *ExamService) AnswerSheet(ctx context.Context, userID int, examID uuid.UUID) ([]AnswerDetail, error) {
	exam, err := s.ownedExam(ctx, userID, examID)
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

func (s *ExamService) ownedExam(ctx context.Context, userID int, examID uuid.UUID) (*model.Exam, error) {
	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		return nil, err
	}
	if exam.UserID != userID {
		return nil, ErrNotExamOwner
	}
	return exam, nil
}

// buildState renders the exam at its current position, resolving any figure
// the question text references against the pool's diagrams.
func (s *ExamService) buildState(ctx context.Context, exam *model.Exam) (*model.ExamStateView, error) {
	items, err := s.examRepo.ListAnswersWithQuestions(ctx, exam.ID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	if exam.CurrentIndex < 0 || exam.CurrentIndex >= len(items) {
		return nil, fmt.Errorf("exam %s has bad position %d", exam.ID, exam.CurrentIndex)
	}
	item := items[exam.CurrentIndex]

	opts := item.Question.Options()
	view := model.QuestionView{
		QuestionNumber: item.QuestionNumber,
		PoolNumber:     item.Question.Number,
		Text:           item.Question.Text,
		Options:        opts[:],
		Answer:         item.Answer,
	}

	if strings.Contains(strings.ToLower(item.Question.Text), "figure") {
		diagrams, err := s.diagramRepo.ListByPool(ctx, exam.PoolID)
		if err != nil {
			return nil, fmt.Errorf("list diagrams: %w", err)
		}
		for _, d := range diagrams {
			if strings.Contains(item.Question.Text, d.Name) {
				view.DiagramName = d.Name
				view.DiagramPath = d.Path
				break
			}
		}
	}

	return &model.ExamStateView{
		ExamID:       exam.ID,
		Element:      exam.Element,
		ExamName:     exam.Element.Name(),
		CurrentIndex: exam.CurrentIndex,
		Total:        len(items),
		Question:     view,
	}, nil
}

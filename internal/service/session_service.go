package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/openwaves/openwaves-backend/internal/config"
	"github.com/openwaves/openwaves-backend/internal/model"
	"github.com/openwaves/openwaves-backend/internal/repository"
	"github.com/openwaves/openwaves-backend/internal/websocket"
)

// Sentinel errors for session lifecycle operations.
var (
	ErrOpenExams       = errors.New("session still has open exams")
	ErrSessionHasExams = errors.New("session has exams on record")
	ErrSessionNotToday = errors.New("session can only be opened on its scheduled date")
	ErrPoolMismatch    = errors.New("pool does not match its element")
)

// SessionService manages the exam session lifecycle. Status is never stored;
// it derives from the session date and the open/close stamps, so a session
// left open overnight still reads Closed the next day.
type SessionService struct {
	cfg         *config.Config
	sessionRepo *repository.SessionRepository
	poolRepo    *repository.PoolRepository
	examRepo    *repository.ExamRepository
	regRepo     *repository.RegistrationRepository
	rdb         *redis.Client
	monitor     *MonitorService
	logger      zerolog.Logger
}

// NewSessionService creates a new SessionService.
func NewSessionService(
	cfg *config.Config,
	sessionRepo *repository.SessionRepository,
	poolRepo *repository.PoolRepository,
	examRepo *repository.ExamRepository,
	regRepo *repository.RegistrationRepository,
	rdb *redis.Client,
	monitor *MonitorService,
	logger zerolog.Logger,
) *SessionService {
	return &SessionService{
		cfg:         cfg,
		sessionRepo: sessionRepo,
		poolRepo:    poolRepo,
		examRepo:    examRepo,
		regRepo:     regRepo,
		rdb:         rdb,
		monitor:     monitor,
		logger:      logger.With().Str("component", "session_service").Logger(),
	}
}

// Create schedules an exam session, pinning one pool per element.
func (s *SessionService) Create(ctx context.Context, req model.CreateSessionRequest) (*model.ExamSession, error) {
	date, err := time.Parse("2006-01-02", req.SessionDate)
	if err != nil {
		return nil, fmt.Errorf("parse session date: %w", err)
	}

	for element, poolID := range map[model.Element]int{
		model.ElementTechnician: req.TechPoolID,
		model.ElementGeneral:    req.GenPoolID,
		model.ElementExtra:      req.ExtraPoolID,
	} {
		pool, err := s.poolRepo.GetByID(ctx, poolID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("%w: pool %d not found", ErrPoolMismatch, poolID)
			}
			return nil, fmt.Errorf("lookup pool: %w", err)
		}
		if pool.Element != element {
			return nil, fmt.Errorf("%w: pool %d holds element %d, expected %d",
				ErrPoolMismatch, poolID, pool.Element, element)
		}
	}

	session := &model.ExamSession{
		SessionDate: date,
		TechPoolID:  req.TechPoolID,
		GenPoolID:   req.GenPoolID,
		ExtraPoolID: req.ExtraPoolID,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

// Get returns one session with its derived status.
func (s *SessionService) Get(ctx context.Context, id int) (*model.SessionView, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.SessionView{ExamSession: *session, Status: session.Status(time.Now())}, nil
}

// List returns one page of sessions with derived status, newest first, plus
// the total count for pagination.
func (s *SessionService) List(ctx context.Context, limit, offset int) ([]model.SessionView, int, error) {
	sessions, total, err := s.sessionRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return sessionViews(sessions), total, nil
}

// ListAll returns every session with derived status, newest first.
func (s *SessionService) ListAll(ctx context.Context) ([]model.SessionView, error) {
	sessions, err := s.sessionRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return sessionViews(sessions), nil
}

func sessionViews(sessions []model.ExamSession) []model.SessionView {
	now := time.Now()
	views := make([]model.SessionView, 0, len(sessions))
	for i := range sessions {
		views = append(views, model.SessionView{
			ExamSession: sessions[i],
			Status:      sessions[i].Status(now),
		})
	}
	return views
}

// ListForCandidate returns every session decorated with the candidate's own
// registration and completion state per element.
func (s *SessionService) ListForCandidate(ctx context.Context, userID int) ([]model.CandidateSessionView, error) {
	views, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	regs, err := s.regRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	exams, err := s.examRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}

	regBySession := make(map[int]*model.Registration, len(regs))
	for i := range regs {
		regBySession[regs[i].SessionID] = &regs[i]
	}
	done := make(map[int]map[model.Element]bool)
	for i := range exams {
		if exams[i].Open {
			continue
		}
		if done[exams[i].SessionID] == nil {
			done[exams[i].SessionID] = make(map[model.Element]bool)
		}
		done[exams[i].SessionID][exams[i].Element] = true
	}

	out := make([]model.CandidateSessionView, 0, len(views))
	for _, v := range views {
		reg := regBySession[v.ID]
		completed := done[v.ID]
		out = append(out, model.CandidateSessionView{
			SessionView: v,
			Tech: model.ElementState{
				Registered:    reg.HasElement(model.ElementTechnician),
				ExamCompleted: completed[model.ElementTechnician],
			},
			Gen: model.ElementState{
				Registered:    reg.HasElement(model.ElementGeneral),
				ExamCompleted: completed[model.ElementGeneral],
			},
			Extra: model.ElementState{
				Registered:    reg.HasElement(model.ElementExtra),
				ExamCompleted: completed[model.ElementExtra],
			},
		})
	}
	return out, nil
}

// Open stamps the session's start time. Only permitted on the scheduled date
// and only while the session is accepting registrations.
func (s *SessionService) Open(ctx context.Context, id int) error {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	now := time.Now()
	if session.Status(now) != model.SessionStatusRegistration ||
		!sameDay(session.SessionDate, now) {
		return ErrSessionNotToday
	}
	if err := s.sessionRepo.Open(ctx, id, now); err != nil {
		return err
	}
	s.logger.Info().Int("session_id", id).Msg("session opened")
	return nil
}

// Close stamps the session's end time. With force false, open exams block the
// close so candidates mid-exam aren't cut off silently; the caller surfaces a
// distinguishable error and can retry with force true, which finishes every
// open exam and queues it for grading.
func (s *SessionService) Close(ctx context.Context, id int, force bool) error {
	if _, err := s.sessionRepo.GetByID(ctx, id); err != nil {
		return err
	}

	openCount, err := s.examRepo.CountOpenBySession(ctx, id)
	if err != nil {
		return fmt.Errorf("count open exams: %w", err)
	}
	if openCount > 0 {
		if !force {
			return ErrOpenExams
		}
		closed, err := s.examRepo.CloseAllBySession(ctx, id)
		if err != nil {
			return fmt.Errorf("force close exams: %w", err)
		}
		for _, examID := range closed {
			if err := s.rdb.RPush(ctx, config.WorkerKey.GradeExamsQueue, examID.String()).Err(); err != nil {
				s.logger.Error().Err(err).Str("exam_id", examID.String()).Msg("enqueue grading")
			}
		}
		s.logger.Warn().Int("session_id", id).Int("forced", len(closed)).Msg("force-closed open exams")
	}

	if err := s.sessionRepo.Close(ctx, id, time.Now()); err != nil {
		return err
	}
	s.monitor.Publish(ctx, websocket.MonitorEvent{
		Event:     websocket.EventSessionClosed,
		SessionID: id,
	})
	s.logger.Info().Int("session_id", id).Msg("session closed")
	return nil
}

// Delete removes a session and its registrations. Sessions with exams on
// record are never deleted; results must stay reachable until the purge.
func (s *SessionService) Delete(ctx context.Context, id int) error {
	exists, err := s.examRepo.ExistsBySession(ctx, id)
	if err != nil {
		return fmt.Errorf("check exams: %w", err)
	}
	if exists {
		return ErrSessionHasExams
	}
	return s.sessionRepo.Delete(ctx, id)
}

// Purge removes sessions older than the retention window, exams and
// registrations included. Returns how many sessions were removed.
func (s *SessionService) Purge(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-s.cfg.SessionRetention)
	n, err := s.sessionRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info().Int64("sessions", n).Time("cutoff", cutoff).Msg("purged expired sessions")
	}
	return n, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

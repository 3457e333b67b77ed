package worker

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/openwaves/openwaves-backend/internal/config"
	"github.com/openwaves/openwaves-backend/internal/model"
	"github.com/openwaves/openwaves-backend/internal/repository"
	"github.com/openwaves/openwaves-backend/internal/service"
	"github.com/openwaves/openwaves-backend/internal/websocket"
)

const (
	gradePollTimeout = 1 * time.Second
	gradeCacheTTL    = 24 * time.Hour
)

// GradingWorker drains the grading queue: for each finished exam it counts
// correct answers, applies the element threshold, persists the result, and
// caches the score in Redis so result polling skips PostgreSQL. Items that
// fail are requeued; anything left in the queue survives a restart.
type GradingWorker struct {
	examRepo *repository.ExamRepository
	userRepo *repository.UserRepository
	rdb      *redis.Client
	monitor  *service.MonitorService
	log      zerolog.Logger
}

// NewGradingWorker creates a new GradingWorker.
func NewGradingWorker(
	examRepo *repository.ExamRepository,
	userRepo *repository.UserRepository,
	rdb *redis.Client,
	monitor *service.MonitorService,
	log zerolog.Logger,
) *GradingWorker {
	return &GradingWorker{
		examRepo: examRepo,
		userRepo: userRepo,
		rdb:      rdb,
		monitor:  monitor,
		log:      log.With().Str("component", "grading_worker").Logger(),
	}
}

// Start runs the worker loop until the context is cancelled.
func (w *GradingWorker) Start(ctx context.Context) {
	w.log.Info().Msg("GradingWorker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("GradingWorker stopped")
			return
		default:
			item, err := w.rdb.BLPop(ctx, gradePollTimeout, config.WorkerKey.GradeExamsQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}
			if len(item) < 2 {
				continue
			}

			examID, err := uuid.Parse(item[1])
			if err != nil {
				w.log.Error().Str("payload", item[1]).Msg("invalid exam id in queue")
				continue
			}

			if err := w.grade(ctx, examID); err != nil {
				w.log.Error().Err(err).Str("exam_id", examID.String()).Msg("grading failed, requeueing")
				w.rdb.RPush(ctx, config.WorkerKey.GradeExamsQueue, examID.String())
				// Back off so a persistent failure doesn't spin the loop.
				time.Sleep(time.Second)
			}
		}
	}
}

func (w *GradingWorker) grade(ctx context.Context, examID uuid.UUID) error {
	exam, err := w.examRepo.GetByID(ctx, examID)
	if err != nil {
		return err
	}
	// Force-closed sessions may enqueue an exam twice; graded is graded.
	if exam.Score != nil {
		return nil
	}

	answers, err := w.examRepo.ListAnswers(ctx, examID)
	if err != nil {
		return err
	}
	score, passed := model.GradeExam(answers, exam.Element)

	if err := w.examRepo.SetGrade(ctx, examID, score, passed); err != nil {
		return err
	}
	if err := w.rdb.Set(ctx, config.CacheKey.ExamGradeKey(examID.String()),
		strconv.Itoa(score), gradeCacheTTL).Err(); err != nil {
		w.log.Warn().Err(err).Str("exam_id", examID.String()).Msg("cache grade")
	}

	callsign := ""
	if user, err := w.userRepo.GetByID(ctx, exam.UserID); err == nil {
		callsign = user.Callsign
	}
	w.monitor.Publish(ctx, websocket.MonitorEvent{
		Event:     websocket.EventExamGraded,
		SessionID: exam.SessionID,
		ExamID:    examID.String(),
		Callsign:  callsign,
		Element:   int(exam.Element),
		Score:     &score,
		Passed:    &passed,
	})

	w.log.Info().
		Str("exam_id", examID.String()).
		Int("score", score).
		Bool("passed", passed).
		Msg("exam graded")
	return nil
}

package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/openwaves/openwaves-backend/internal/config"
	"github.com/openwaves/openwaves-backend/internal/model"
	"github.com/openwaves/openwaves-backend/internal/repository"
)

// Sentinel errors for pool management.
var (
	ErrMalformedCSV   = errors.New("malformed question file")
	ErrInvalidElement = errors.New("invalid license element")
)

// csvHeader is the required column order of a question pool export.
var csvHeader = []string{"id", "correct", "question", "a", "b", "c", "d", "refs"}

// PoolService manages question pools: creation, CSV import, and removal.
type PoolService struct {
	cfg          *config.Config
	poolRepo     *repository.PoolRepository
	questionRepo *repository.QuestionRepository
	diagramRepo  *repository.DiagramRepository
	logger       zerolog.Logger
}

// NewPoolService creates a new PoolService.
func NewPoolService(
	cfg *config.Config,
	poolRepo *repository.PoolRepository,
	questionRepo *repository.QuestionRepository,
	diagramRepo *repository.DiagramRepository,
	logger zerolog.Logger,
) *PoolService {
	return &PoolService{
		cfg:          cfg,
		poolRepo:     poolRepo,
		questionRepo: questionRepo,
		diagramRepo:  diagramRepo,
		logger:       logger.With().Str("component", "pool_service").Logger(),
	}
}

// Create registers a new, empty question pool.
func (s *PoolService) Create(ctx context.Context, req model.CreatePoolRequest) (*model.Pool, error) {
	element := model.Element(req.Element)
	if !element.Valid() {
		return nil, ErrInvalidElement
	}
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("parse start date: %w", err)
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("parse end date: %w", err)
	}

	pool := &model.Pool{
		Name:      req.Name,
		Element:   element,
		StartDate: start,
		EndDate:   end,
	}
	if err := s.poolRepo.Create(ctx, pool); err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	return pool, nil
}

// List returns all pools with their question counts.
func (s *PoolService) List(ctx context.Context) ([]model.Pool, error) {
	return s.poolRepo.List(ctx)
}

// Get returns one pool.
func (s *PoolService) Get(ctx context.Context, id int) (*model.Pool, error) {
	return s.poolRepo.GetByID(ctx, id)
}

// ImportCSV parses an uploaded question file and loads it into the pool.
// Returns the number of questions imported.
func (s *PoolService) ImportCSV(ctx context.Context, poolID int, r io.Reader) (int, error) {
	if _, err := s.poolRepo.GetByID(ctx, poolID); err != nil {
		return 0, err
	}

	questions, counts, err := ParsePoolCSV(r)
	if err != nil {
		return 0, err
	}
	for i := range questions {
		questions[i].PoolID = poolID
	}

	if err := s.poolRepo.ImportQuestions(ctx, poolID, questions, counts); err != nil {
		return 0, fmt.Errorf("import questions: %w", err)
	}
	s.logger.Info().Int("pool_id", poolID).Int("questions", len(questions)).Msg("question pool imported")
	return len(questions), nil
}

// Delete removes a pool, its questions, its diagram rows, and the diagram
// files on disk. File removal is best-effort; a missing file is not an error.
func (s *PoolService) Delete(ctx context.Context, id int) error {
	diagrams, err := s.diagramRepo.ListByPool(ctx, id)
	if err != nil {
		return fmt.Errorf("list diagrams: %w", err)
	}

	if err := s.poolRepo.Delete(ctx, id); err != nil {
		return err
	}

	for _, d := range diagrams {
		path := filepath.Join(s.cfg.UploadDir, filepath.Base(d.Path))
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.logger.Warn().Err(err).Str("path", path).Msg("failed to remove diagram file")
		}
	}
	return nil
}

// ParsePoolCSV reads a question pool export with the header row
// id,correct,question,a,b,c,d,refs. The correct column holds a letter A-D,
// converted here to an option index. It also tallies questions per
// sub-element group so exam assembly knows the draw space.
func ParsePoolCSV(r io.Reader) ([]model.Question, map[string]int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(csvHeader)

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: missing header row", ErrMalformedCSV)
	}
	for i, want := range csvHeader {
		if strings.TrimSpace(strings.ToLower(header[i])) != want {
			return nil, nil, fmt.Errorf("%w: expected header %q, got %q",
				ErrMalformedCSV, strings.Join(csvHeader, ","), strings.Join(header, ","))
		}
	}

	var questions []model.Question
	counts := make(map[string]int)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: line %d: %v", ErrMalformedCSV, line, err)
		}

		number := strings.TrimSpace(record[0])
		code := model.SubelementCode(number)
		if code == "" {
			return nil, nil, fmt.Errorf("%w: line %d: bad question number %q", ErrMalformedCSV, line, number)
		}

		correct, err := parseCorrectOption(record[1])
		if err != nil {
			return nil, nil, fmt.Errorf("%w: line %d: %v", ErrMalformedCSV, line, err)
		}

		questions = append(questions, model.Question{
			Number:        number,
			Text:          strings.TrimSpace(record[2]),
			OptionA:       strings.TrimSpace(record[3]),
			OptionB:       strings.TrimSpace(record[4]),
			OptionC:       strings.TrimSpace(record[5]),
			OptionD:       strings.TrimSpace(record[6]),
			CorrectOption: correct,
			Refs:          strings.TrimSpace(record[7]),
		})
		counts[code]++
	}

	if len(questions) == 0 {
		return nil, nil, fmt.Errorf("%w: no question rows", ErrMalformedCSV)
	}
	return questions, counts, nil
}

func parseCorrectOption(field string) (int, error) {
	letter := strings.ToUpper(strings.TrimSpace(field))
	if len(letter) != 1 || letter[0] < 'A' || letter[0] > 'D' {
		return 0, fmt.Errorf("bad correct answer %q", field)
	}
	return int(letter[0] - 'A'), nil
}

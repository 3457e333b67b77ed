package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/openwaves/openwaves-backend/internal/model"
	"github.com/openwaves/openwaves-backend/internal/repository"
)

// Sentinel errors for registrations.
var (
	ErrRegistrationClosed = errors.New("session is not accepting registrations")
	ErrNotRegistered      = errors.New("not registered for this element")
)

// RegistrationService manages candidate sign-ups for exam sessions.
type RegistrationService struct {
	regRepo     *repository.RegistrationRepository
	sessionRepo *repository.SessionRepository
}

// NewRegistrationService creates a new RegistrationService.
func NewRegistrationService(regRepo *repository.RegistrationRepository, sessionRepo *repository.SessionRepository) *RegistrationService {
	return &RegistrationService{regRepo: regRepo, sessionRepo: sessionRepo}
}

// Register signs a candidate up for one element in a session. Registering for
// further elements folds into the same row. Walk-ins are allowed: sign-ups are
// accepted until the session closes.
func (s *RegistrationService) Register(ctx context.Context, userID, sessionID int, element model.Element) (*model.Registration, error) {
	if !element.Valid() {
		return nil, ErrInvalidElement
	}
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status(time.Now()) == model.SessionStatusClosed {
		return nil, ErrRegistrationClosed
	}

	reg, err := s.regRepo.GetByUserAndSession(ctx, userID, sessionID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("lookup registration: %w", err)
		}
		reg = &model.Registration{UserID: userID, SessionID: sessionID, Valid: true}
	}
	reg.SetElement(element, true)
	reg.Valid = true

	if err := s.regRepo.Upsert(ctx, reg); err != nil {
		return nil, fmt.Errorf("save registration: %w", err)
	}
	return reg, nil
}

// Cancel withdraws a candidate from one element. When no element remains the
// registration row is removed entirely. Cancellation follows the same window
// as registration.
func (s *RegistrationService) Cancel(ctx context.Context, userID, sessionID int, element model.Element) error {
	if !element.Valid() {
		return ErrInvalidElement
	}
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.Status(time.Now()) == model.SessionStatusClosed {
		return ErrRegistrationClosed
	}

	reg, err := s.regRepo.GetByUserAndSession(ctx, userID, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotRegistered
		}
		return fmt.Errorf("lookup registration: %w", err)
	}
	if !reg.HasElement(element) {
		return ErrNotRegistered
	}

	reg.SetElement(element, false)
	if reg.Empty() {
		return s.regRepo.Delete(ctx, reg.ID)
	}
	return s.regRepo.Upsert(ctx, reg)
}

// Get returns a candidate's registration in one session, or ErrNotRegistered.
func (s *RegistrationService) Get(ctx context.Context, userID, sessionID int) (*model.Registration, error) {
	reg, err := s.regRepo.GetByUserAndSession(ctx, userID, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotRegistered
		}
		return nil, err
	}
	return reg, nil
}

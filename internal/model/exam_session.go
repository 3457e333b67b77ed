package model

import "time"

// SessionStatus is the derived lifecycle state of an exam session.
// It is never stored; it is computed from the session date and the
// open/close timestamps relative to "today".
type SessionStatus string

const (
	// SessionStatusRegistration accepts candidate registrations.
	SessionStatusRegistration SessionStatus = "Registration"
	// SessionStatusOpen means the session is running and exams may be launched.
	SessionStatusOpen SessionStatus = "Open"
	// SessionStatusClosed means the session date has passed or it was closed today.
	SessionStatusClosed SessionStatus = "Closed"
)

// ExamSession is a scheduled exam-administration event. One pool per
// license element is pinned at creation time.
type ExamSession struct {
	ID          int        `json:"id"`
	SessionDate time.Time  `json:"session_date"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	TechPoolID  int        `json:"tech_pool_id"`
	GenPoolID   int        `json:"gen_pool_id"`
	ExtraPoolID int        `json:"extra_pool_id"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Status derives the session lifecycle state as of now.
//
//	future date                    → Registration
//	past date                      → Closed
//	today, end time recorded       → Closed
//	today, started but not ended   → Open
//	today, not yet started         → Registration
func (s *ExamSession) Status(now time.Time) SessionStatus {
	today := now.Truncate(24 * time.Hour)
	date := s.SessionDate.Truncate(24 * time.Hour)

	switch {
	case date.After(today):
		return SessionStatusRegistration
	case date.Before(today):
		return SessionStatusClosed
	case s.EndTime != nil:
		return SessionStatusClosed
	case s.StartTime != nil:
		return SessionStatusOpen
	default:
		return SessionStatusRegistration
	}
}

// PoolIDForElement returns the pool pinned to the given element, or 0.
func (s *ExamSession) PoolIDForElement(e Element) int {
	switch e {
	case ElementTechnician:
		return s.TechPoolID
	case ElementGeneral:
		return s.GenPoolID
	case ElementExtra:
		return s.ExtraPoolID
	default:
		return 0
	}
}

// SessionView is an exam session decorated with its derived status.
type SessionView struct {
	ExamSession
	Status SessionStatus `json:"status"`
}

// ElementState is a candidate's registration/completion state for one element.
type ElementState struct {
	Registered    bool `json:"registered"`
	ExamCompleted bool `json:"exam_completed"`
}

// CandidateSessionView is the candidate-facing session listing entry: the
// derived status plus the candidate's own per-element flags.
type CandidateSessionView struct {
	SessionView
	Tech  ElementState `json:"tech"`
	Gen   ElementState `json:"gen"`
	Extra ElementState `json:"extra"`
}

// CreateSessionRequest is the payload for scheduling an exam session.
type CreateSessionRequest struct {
	SessionDate string `json:"session_date" binding:"required,datetime=2006-01-02"`
	TechPoolID  int    `json:"tech_pool_id" binding:"required"`
	GenPoolID   int    `json:"gen_pool_id" binding:"required"`
	ExtraPoolID int    `json:"extra_pool_id" binding:"required"`
}

package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/openwaves/openwaves-backend/internal/middleware"
	"github.com/openwaves/openwaves-backend/internal/model"
	"github.com/openwaves/openwaves-backend/internal/response"
	"github.com/openwaves/openwaves-backend/internal/service"
	"github.com/openwaves/openwaves-backend/internal/validator"
)

// CandidateHandler handles the candidate portal: session browsing,
// registration, and exam taking.
type CandidateHandler struct {
	sessionService      *service.SessionService
	registrationService *service.RegistrationService
	examService         *service.ExamService
}

// NewCandidateHandler creates a new CandidateHandler.
func NewCandidateHandler(
	sessionService *service.SessionService,
	registrationService *service.RegistrationService,
	examService *service.ExamService,
) *CandidateHandler {
	return &CandidateHandler{
		sessionService:      sessionService,
		registrationService: registrationService,
		examService:         examService,
	}
}

// ListSessions godoc
// GET /api/v1/hc/sessions
// Lists sessions with the candidate's own registration and completion state.
func (h *CandidateHandler) ListSessions(c *gin.Context) {
	claims := middleware.GetClaims(c)
	sessions, err := h.sessionService.ListForCandidate(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"sessions": sessions})
}

// Register godoc
// POST /api/v1/hc/sessions/:id/register
func (h *CandidateHandler) Register(c *gin.Context) {
	claims := middleware.GetClaims(c)
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req model.RegisterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	reg, err := h.registrationService.Register(c.Request.Context(), claims.UserID, id, model.Element(req.Element))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrRegistrationClosed):
			response.Fail(c, http.StatusConflict, response.ErrSessionClosed)
		case errors.Is(err, service.ErrInvalidElement):
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidElement)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"registration": reg})
}

// Cancel godoc
// POST /api/v1/hc/sessions/:id/cancel
func (h *CandidateHandler) Cancel(c *gin.Context) {
	claims := middleware.GetClaims(c)
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req model.RegisterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	err := h.registrationService.Cancel(c.Request.Context(), claims.UserID, id, model.Element(req.Element))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrRegistrationClosed):
			response.Fail(c, http.StatusConflict, response.ErrSessionClosed)
		case errors.Is(err, service.ErrNotRegistered):
			response.Fail(c, http.StatusConflict, response.ErrNotRegistered)
		case errors.Is(err, service.ErrInvalidElement):
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidElement)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// LaunchExam godoc
// POST /api/v1/hc/exams
// Starts (or resumes) the candidate's exam for one element of an open session.
func (h *CandidateHandler) LaunchExam(c *gin.Context) {
	claims := middleware.GetClaims(c)
	var req model.LaunchExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	state, err := h.examService.Launch(c.Request.Context(), claims.UserID, claims.Callsign, req)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrSessionNotOpen):
			response.Fail(c, http.StatusConflict, response.ErrSessionNotOpen)
		case errors.Is(err, service.ErrNotRegistered):
			response.Fail(c, http.StatusForbidden, response.ErrNotRegistered)
		case errors.Is(err, service.ErrExamClosed):
			response.Fail(c, http.StatusConflict, response.ErrExamClosed)
		case errors.Is(err, service.ErrIncompletePool):
			response.Fail(c, http.StatusConflict, response.ErrIncompletePool)
		case errors.Is(err, service.ErrOversizedPool):
			response.Fail(c, http.StatusConflict, response.ErrOversizedPool)
		case errors.Is(err, service.ErrInvalidElement):
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidElement)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"exam": state})
}

// GetExam godoc
// GET /api/v1/hc/exams/:id
// Returns the exam at its current position.
func (h *CandidateHandler) GetExam(c *gin.Context) {
	claims := middleware.GetClaims(c)
	examID, ok := examPathID(c)
	if !ok {
		return
	}

	state, err := h.examService.Get(c.Request.Context(), claims.UserID, examID)
	if err != nil {
		h.failExam(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"exam": state})
}

// Answer godoc
// POST /api/v1/hc/exams/:id/answer
// Persists the answer for the shown question, then applies the navigation
// action. A review action returns the summary instead of the next question.
func (h *CandidateHandler) Answer(c *gin.Context) {
	claims := middleware.GetClaims(c)
	examID, ok := examPathID(c)
	if !ok {
		return
	}
	var req model.AnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	state, review, err := h.examService.Answer(c.Request.Context(), claims.UserID, claims.Callsign, examID, req)
	if err != nil {
		h.failExam(c, err)
		return
	}
	if review != nil {
		response.Success(c, http.StatusOK, gin.H{"review": review})
		return
	}
	response.Success(c, http.StatusOK, gin.H{"exam": state})
}

// Goto godoc
// POST /api/v1/hc/exams/:id/goto/:index
// Jumps to a question from the review screen.
func (h *CandidateHandler) Goto(c *gin.Context) {
	claims := middleware.GetClaims(c)
	examID, ok := examPathID(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	state, err := h.examService.Goto(c.Request.Context(), claims.UserID, examID, index)
	if err != nil {
		h.failExam(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"exam": state})
}

// Review godoc
// GET /api/v1/hc/exams/:id/review
func (h *CandidateHandler) Review(c *gin.Context) {
	claims := middleware.GetClaims(c)
	examID, ok := examPathID(c)
	if !ok {
		return
	}

	review, err := h.examService.Review(c.Request.Context(), claims.UserID, examID)
	if err != nil {
		h.failExam(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"review": review})
}

// Finish godoc
// POST /api/v1/hc/exams/:id/finish
// Locks the exam and queues it for grading.
func (h *CandidateHandler) Finish(c *gin.Context) {
	claims := middleware.GetClaims(c)
	examID, ok := examPathID(c)
	if !ok {
		return
	}

	if err := h.examService.Finish(c.Request.Context(), claims.UserID, claims.Callsign, examID); err != nil {
		h.failExam(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// Answers godoc
// GET /api/v1/hc/exams/:id/answers
// Returns the per-question detail of the candidate's own finished exam,
// correct options included.
func (h *CandidateHandler) Answers(c *gin.Context) {
	claims := middleware.GetClaims(c)
	examID, ok := examPathID(c)
	if !ok {
		return
	}

	answers, err := h.examService.AnswerSheet(c.Request.Context(), claims.UserID, examID)
	if err != nil {
		h.failExam(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"answers": answers})
}

// Result godoc
// GET /api/v1/hc/exams/:id/result
func (h *CandidateHandler) Result(c *gin.Context) {
	claims := middleware.GetClaims(c)
	examID, ok := examPathID(c)
	if !ok {
		return
	}

	result, err := h.examService.Result(c.Request.Context(), claims.UserID, examID)
	if err != nil {
		h.failExam(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"result": result})
}

func (h *CandidateHandler) failExam(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrNotExamOwner):
		response.Fail(c, http.StatusForbidden, response.ErrNotExamOwner)
	case errors.Is(err, service.ErrExamClosed):
		response.Fail(c, http.StatusConflict, response.ErrExamClosed)
	case errors.Is(err, service.ErrExamStillOpen):
		response.Fail(c, http.StatusConflict, response.ErrExamStillOpen)
	case errors.Is(err, service.ErrBadQuestion):
		response.Fail(c, http.StatusBadRequest, response.ErrValidation)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// examPathID parses the :id path parameter as an exam UUID.
func examPathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

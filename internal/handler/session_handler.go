package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/openwaves/openwaves-backend/internal/model"
	"github.com/openwaves/openwaves-backend/internal/response"
	"github.com/openwaves/openwaves-backend/internal/service"
	"github.com/openwaves/openwaves-backend/internal/validator"
)

// SessionHandler handles examiner session administration endpoints.
type SessionHandler struct {
	sessionService *service.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// Create godoc
// POST /api/v1/ve/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	var req model.CreateSessionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	session, err := h.sessionService.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrPoolMismatch) {
			response.Fail(c, http.StatusBadRequest, response.ErrValidation)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"session": session})
}

// List godoc
// GET /api/v1/ve/sessions?page=1&per_page=20
func (h *SessionHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	sessions, total, err := h.sessionService.List(c.Request.Context(), perPage, (page-1)*perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"sessions": sessions}, &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: (total + perPage - 1) / perPage,
	})
}

// Get godoc
// GET /api/v1/ve/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	session, err := h.sessionService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": session})
}

// Open godoc
// POST /api/v1/ve/sessions/:id/open
// Opens the session for exam taking. Only valid on the scheduled date.
func (h *SessionHandler) Open(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.sessionService.Open(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrSessionNotToday):
			response.Fail(c, http.StatusConflict, response.ErrSessionClosed)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// Close godoc
// POST /api/v1/ve/sessions/:id/close?force=true
// Closes the session. Open exams block the close unless force is set, in
// which case every open exam is finished and queued for grading. The
// OPEN_EXAMS error code lets the client offer the force option.
func (h *SessionHandler) Close(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	force, _ := strconv.ParseBool(c.Query("force"))

	if err := h.sessionService.Close(c.Request.Context(), id, force); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrOpenExams):
			response.Fail(c, http.StatusConflict, response.ErrOpenExams)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// Delete godoc
// DELETE /api/v1/ve/sessions/:id
// Removes a session and its registrations. Blocked while exams exist.
func (h *SessionHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.sessionService.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrSessionHasExams):
			response.Fail(c, http.StatusConflict, response.ErrSessionHasExams)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// Purge godoc
// POST /api/v1/ve/sessions/purge
// Removes sessions older than the retention window.
func (h *SessionHandler) Purge(c *gin.Context) {
	purged, err := h.sessionService.Purge(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"purged": purged})
}

// pathID parses the :id path parameter, failing the request on bad input.
func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}

package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/openwaves/openwaves-backend/internal/response"
	"github.com/openwaves/openwaves-backend/internal/service"
)

// ResultsHandler handles examiner results and analytics endpoints.
type ResultsHandler struct {
	resultsService *service.ResultsService
}

// NewResultsHandler creates a new ResultsHandler.
func NewResultsHandler(resultsService *service.ResultsService) *ResultsHandler {
	return &ResultsHandler{resultsService: resultsService}
}

// SessionResults godoc
// GET /api/v1/ve/sessions/:id/results
// Lists every exam in the session with candidate identity and score.
func (h *ResultsHandler) SessionResults(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	results, err := h.resultsService.SessionResults(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"results": results})
}

// ExamAnswers godoc
// GET /api/v1/ve/exams/:id/answers
// Returns one exam's full answer sheet, correct options included.
func (h *ResultsHandler) ExamAnswers(c *gin.Context) {
	examID, ok := examPathID(c)
	if !ok {
		return
	}

	answers, err := h.resultsService.ExamAnswers(c.Request.Context(), examID)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrExamStillOpen):
			response.Fail(c, http.StatusConflict, response.ErrExamStillOpen)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"answers": answers})
}

// PoolAnalytics godoc
// GET /api/v1/ve/pools/:id/analytics
// Per-question miss counts and the wrong option candidates favored.
func (h *ResultsHandler) PoolAnalytics(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	stats, err := h.resultsService.PoolAnalytics(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"questions": stats})
}

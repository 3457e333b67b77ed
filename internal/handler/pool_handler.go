package handler

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/openwaves/openwaves-backend/internal/model"
	"github.com/openwaves/openwaves-backend/internal/response"
	"github.com/openwaves/openwaves-backend/internal/service"
	"github.com/openwaves/openwaves-backend/internal/validator"
)

// PoolHandler handles examiner question pool and diagram endpoints.
type PoolHandler struct {
	poolService    *service.PoolService
	diagramService *service.DiagramService
}

// NewPoolHandler creates a new PoolHandler.
func NewPoolHandler(poolService *service.PoolService, diagramService *service.DiagramService) *PoolHandler {
	return &PoolHandler{poolService: poolService, diagramService: diagramService}
}

// Create godoc
// POST /api/v1/ve/pools
func (h *PoolHandler) Create(c *gin.Context) {
	var req model.CreatePoolRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	pool, err := h.poolService.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidElement) {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidElement)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"pool": pool})
}

// List godoc
// GET /api/v1/ve/pools
func (h *PoolHandler) List(c *gin.Context) {
	pools, err := h.poolService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"pools": pools})
}

// ImportCSV godoc
// POST /api/v1/ve/pools/:id/questions
// Loads a question CSV (id,correct,question,a,b,c,d,refs) into the pool.
func (h *PoolHandler) ImportCSV(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".csv") {
		response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer file.Close()

	imported, err := h.poolService.ImportCSV(c.Request.Context(), id, file)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrMalformedCSV):
			response.Fail(c, http.StatusBadRequest, response.ErrMalformedCSV)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"imported": imported})
}

// Delete godoc
// DELETE /api/v1/ve/pools/:id
// Removes a pool with its questions and diagram files.
func (h *PoolHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.poolService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		// Pools referenced by exams or sessions are protected by FK restrict.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			response.Fail(c, http.StatusConflict, response.ErrConflict)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// UploadDiagram godoc
// POST /api/v1/ve/pools/:id/diagrams
// Multipart upload: "file" is the image, "name" the figure label questions
// reference (e.g. "T-1").
func (h *PoolHandler) UploadDiagram(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	name := c.PostForm("name")
	if name == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrValidation)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer file.Close()

	diagram, err := h.diagramService.Upload(c.Request.Context(), id, name, file, fileHeader)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedFileType):
			response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
		case errors.Is(err, service.ErrFileTooLarge):
			response.Fail(c, http.StatusBadRequest, response.ErrFileTooLarge)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"diagram": diagram})
}

// ListDiagrams godoc
// GET /api/v1/ve/pools/:id/diagrams
func (h *PoolHandler) ListDiagrams(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	diagrams, err := h.diagramService.ListByPool(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"diagrams": diagrams})
}

// DeleteDiagram godoc
// DELETE /api/v1/ve/diagrams/:id
func (h *PoolHandler) DeleteDiagram(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.diagramService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

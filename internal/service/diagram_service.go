package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/openwaves/openwaves-backend/internal/config"
	"github.com/openwaves/openwaves-backend/internal/model"
	"github.com/openwaves/openwaves-backend/internal/repository"
)

// Sentinel errors for diagram uploads.
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
)

// Allowed diagram image MIME types.
var allowedMIMETypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
}

// Extension fallback for clients that send a generic content type.
var allowedExtensions = map[string]string{
	".png":  ".png",
	".jpg":  ".jpg",
	".jpeg": ".jpg",
	".gif":  ".gif",
}

// DiagramService handles figure uploads attached to question pools. Files are
// stored on disk under a UUID name; the original name stays in the database
// so questions can reference figures like "T-1".
type DiagramService struct {
	cfg         *config.Config
	diagramRepo *repository.DiagramRepository
}

// NewDiagramService creates a new DiagramService.
func NewDiagramService(cfg *config.Config, diagramRepo *repository.DiagramRepository) *DiagramService {
	return &DiagramService{cfg: cfg, diagramRepo: diagramRepo}
}

// Upload validates and saves a diagram image, recording it against the pool.
func (s *DiagramService) Upload(ctx context.Context, poolID int, name string, file multipart.File, header *multipart.FileHeader) (*model.Diagram, error) {
	ext, err := s.validate(header)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	filename := uuid.New().String() + ext
	destPath := filepath.Join(s.cfg.UploadDir, filename)

	dst, err := os.Create(destPath)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(destPath)
		return nil, fmt.Errorf("write file: %w", err)
	}

	diagram := &model.Diagram{
		PoolID: poolID,
		Name:   name,
		Path:   "/uploads/" + filename,
	}
	if err := s.diagramRepo.Create(ctx, diagram); err != nil {
		os.Remove(destPath)
		return nil, fmt.Errorf("record diagram: %w", err)
	}
	return diagram, nil
}

// ListByPool returns a pool's diagrams.
func (s *DiagramService) ListByPool(ctx context.Context, poolID int) ([]model.Diagram, error) {
	return s.diagramRepo.ListByPool(ctx, poolID)
}

// Delete removes the diagram record and its file.
func (s *DiagramService) Delete(ctx context.Context, id int) error {
	diagram, err := s.diagramRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.diagramRepo.Delete(ctx, id); err != nil {
		return err
	}
	path := filepath.Join(s.cfg.UploadDir, filepath.Base(diagram.Path))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

func (s *DiagramService) validate(header *multipart.FileHeader) (string, error) {
	if header.Size > s.cfg.MaxUploadBytes {
		return "", fmt.Errorf("%w: %d bytes (max: %d)", ErrFileTooLarge, header.Size, s.cfg.MaxUploadBytes)
	}

	contentType := header.Header.Get("Content-Type")
	if ext, ok := allowedMIMETypes[contentType]; ok {
		return ext, nil
	}
	if ext, ok := allowedExtensions[strings.ToLower(filepath.Ext(header.Filename))]; ok {
		return ext, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFileType, contentType)
}

package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"vectormag-cms/config"
	"vectormag-cms/models"
)

// MediaService stores images uploaded from the block editor.
type MediaService interface {
	Upload(ctx context.Context, filename string, size int64, src io.Reader) (*models.UploadResponse, error)
}

type mediaService struct {
	cfg     config.UploadConfig
	allowed map[string]bool
}

func NewMediaService(cfg config.UploadConfig) MediaService {
	allowed := make(map[string]bool, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		allowed[strings.ToLower(ext)] = true
	}
	return &mediaService{cfg: cfg, allowed: allowed}
}

func (s *mediaService) Upload(ctx context.Context, filename string, size int64, src io.Reader) (*models.UploadResponse, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !s.allowed[ext] {
		return nil, fmt.Errorf("%w: file type %q is not allowed", ErrInvalidInput, ext)
	}
	if size > s.cfg.MaxBytes() {
		return nil, fmt.Errorf("%w: file exceeds %d MB", ErrInvalidInput, s.cfg.MaxSizeMB)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base := Slugify(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	if base == "" {
		base = "image"
	}
	name := base + "-" + uuid.NewString() + ext

	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		return nil, err
	}
	dst, err := os.Create(filepath.Join(s.cfg.Dir, name))
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	// size is client-reported; cap the copy as well
	written, err := io.Copy(dst, io.LimitReader(src, s.cfg.MaxBytes()+1))
	if err != nil {
		return nil, err
	}
	if written > s.cfg.MaxBytes() {
		dst.Close()
		os.Remove(dst.Name())
		return nil, fmt.Errorf("%w: file exceeds %d MB", ErrInvalidInput, s.cfg.MaxSizeMB)
	}

	return &models.UploadResponse{
		Success: 1,
		File:    models.UploadFile{URL: strings.TrimSuffix(s.cfg.BaseURL, "/") + "/" + name},
	}, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"vectormag-cms/models"
	"vectormag-cms/repositories"
)

type TagService interface {
	CreateTag(ctx context.Context, req models.CreateTagRequest) (*models.Tag, error)
	GetTags(ctx context.Context) ([]models.Tag, error)
	GetTag(ctx context.Context, id uint) (*models.Tag, error)
}

type tagService struct {
	tagRepo repositories.TagRepository
}

func NewTagService(tagRepo repositories.TagRepository) TagService {
	return &tagService{tagRepo: tagRepo}
}

func (s *tagService) CreateTag(ctx context.Context, req models.CreateTagRequest) (*models.Tag, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: tag name is empty", ErrInvalidInput)
	}

	_, err := s.tagRepo.GetByName(ctx, name)
	if err == nil {
		return nil, fmt.Errorf("tag %w", ErrConflict)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tag := &models.Tag{Name: name}
	if err := s.tagRepo.Create(ctx, tag); err != nil {
		return nil, conflict(err, "tag")
	}

	return tag, nil
}

func (s *tagService) GetTags(ctx context.Context) ([]models.Tag, error) {
	return s.tagRepo.GetAll(ctx)
}

func (s *tagService) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	tag, err := s.tagRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "tag")
	}
	return tag, nil
}

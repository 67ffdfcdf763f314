package services

import (
	"context"
	"fmt"
	"strings"

	"vectormag-cms/models"
	"vectormag-cms/repositories"
)

type CategoryService interface {
	GetCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, req models.CreateCategoryRequest) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uint) error
}

type categoryService struct {
	categoryRepo repositories.CategoryRepository
	articleRepo  repositories.ArticleRepository
}

func NewCategoryService(categoryRepo repositories.CategoryRepository, articleRepo repositories.ArticleRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo, articleRepo: articleRepo}
}

// GetCategories lists categories with the number of articles in each.
func (s *categoryService) GetCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.articleRepo.CountArticlesByCategory(ctx)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		categories[i].ArticleCount = counts[categories[i].ID]
	}
	return categories, nil
}

func (s *categoryService) CreateCategory(ctx context.Context, req models.CreateCategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	base := Slugify(name)
	if base == "" {
		return nil, fmt.Errorf("%w: category name has no usable characters", ErrInvalidInput)
	}

	exists, err := s.categoryRepo.NameExists(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("category %w", ErrConflict)
	}

	slug, err := uniqueSlug(ctx, base, s.categoryRepo.SlugExists)
	if err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:        name,
		Slug:        slug,
		Description: req.Description,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, conflict(err, "category")
	}
	return category, nil
}

// DeleteCategory removes the category; its articles become uncategorised.
func (s *categoryService) DeleteCategory(ctx context.Context, id uint) error {
	return notFound(s.categoryRepo.Delete(ctx, id), "category")
}

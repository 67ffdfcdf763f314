package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"vectormag-cms/models"
)

type AnalyticsRepository interface {
	CreateHit(ctx context.Context, hit *models.PageHit) error
	CountViews(ctx context.Context, since time.Time) (int64, error)
	CountVisitors(ctx context.Context, since time.Time) (int64, error)
	DailyViews(ctx context.Context, since time.Time) ([]models.DailyViews, error)
	TopArticles(ctx context.Context, since time.Time, limit int) ([]models.TopArticle, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) CreateHit(ctx context.Context, hit *models.PageHit) error {
	return r.db.WithContext(ctx).Create(hit).Error
}

func (r *analyticsRepository) views(ctx context.Context, since time.Time) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.PageHit{}).
		Where("page_hits.created_at >= ? AND page_hits.event_type = ?", since, models.EventView)
}

func (r *analyticsRepository) CountViews(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.views(ctx, since).Count(&count).Error
	return count, err
}

func (r *analyticsRepository) CountVisitors(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PageHit{}).
		Where("created_at >= ?", since).
		Distinct("visitor_hash").
		Count(&count).Error
	return count, err
}

func (r *analyticsRepository) DailyViews(ctx context.Context, since time.Time) ([]models.DailyViews, error) {
	var rows []models.DailyViews
	err := r.views(ctx, since).
		Select("to_char(date_trunc('day', page_hits.created_at), 'YYYY-MM-DD') as date, COUNT(*) as views").
		Group("date").
		Order("date").
		Scan(&rows).Error
	return rows, err
}

func (r *analyticsRepository) TopArticles(ctx context.Context, since time.Time, limit int) ([]models.TopArticle, error) {
	var rows []models.TopArticle
	err := r.views(ctx, since).
		Select("articles.title, articles.slug, COUNT(page_hits.id) as views").
		Joins("JOIN articles ON articles.id = page_hits.article_id").
		Group("articles.id, articles.title, articles.slug").
		Order("views desc").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

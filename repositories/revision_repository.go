package repositories

import (
	"context"

	"gorm.io/gorm"

	"vectormag-cms/models"
)

type RevisionRepository interface {
	List(ctx context.Context, articleID uint) ([]models.ArticleRevision, error)
	Get(ctx context.Context, articleID uint, number int) (*models.ArticleRevision, error)
	DeleteByArticleID(ctx context.Context, articleID uint) error
}

type revisionRepository struct {
	db *gorm.DB
}

func NewRevisionRepository(db *gorm.DB) RevisionRepository {
	return &revisionRepository{db: db}
}

// List returns revisions newest first, without their documents.
func (r *revisionRepository) List(ctx context.Context, articleID uint) ([]models.ArticleRevision, error) {
	var revisions []models.ArticleRevision
	err := r.db.WithContext(ctx).
		Omit("content").
		Where("article_id = ?", articleID).
		Order("number desc").
		Find(&revisions).Error
	return revisions, err
}

func (r *revisionRepository) Get(ctx context.Context, articleID uint, number int) (*models.ArticleRevision, error) {
	var revision models.ArticleRevision
	err := r.db.WithContext(ctx).
		Where("article_id = ? AND number = ?", articleID, number).
		First(&revision).Error
	return &revision, err
}

func (r *revisionRepository) DeleteByArticleID(ctx context.Context, articleID uint) error {
	return r.db.WithContext(ctx).Where("article_id = ?", articleID).Delete(&models.ArticleRevision{}).Error
}

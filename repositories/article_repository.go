package repositories

import (
	"context"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vectormag-cms/models"
)

type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article, wordCount int) error
	GetByID(ctx context.Context, id uint) (*models.Article, error)
	GetBySlug(ctx context.Context, slug string) (*models.Article, error)
	GetList(ctx context.Context, params models.ArticleListParams, isPublic bool) ([]models.Article, int64, error)
	SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error)
	Update(ctx context.Context, article *models.Article) error
	ReplaceTags(ctx context.Context, article *models.Article, tags []models.Tag) error
	GetContent(ctx context.Context, id uint) (datatypes.JSON, error)
	SaveContent(ctx context.Context, id uint, content datatypes.JSON, readTime, wordCount int) (*models.ArticleRevision, error)
	Delete(ctx context.Context, id uint) error
	IncrementViews(ctx context.Context, id uint) error
	CountArticlesByTag(ctx context.Context) (map[uint]int, error)
	CountArticlesByCategory(ctx context.Context) (map[uint]int64, error)
}

type articleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

// sortColumns whitelists the list ordering columns.
var sortColumns = map[string]string{
	"created_at":   "articles.created_at",
	"updated_at":   "articles.updated_at",
	"published_at": "articles.published_at",
	"title":        "articles.title",
	"views_count":  "articles.views_count",
}

// Create inserts the article with its tags and stores its first revision.
func (r *articleRepository) Create(ctx context.Context, article *models.Article, wordCount int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(article).Error; err != nil {
			return err
		}
		_, err := createRevision(tx, article.ID, article.Title, article.Content, wordCount)
		return err
	})
}

func (r *articleRepository) GetByID(ctx context.Context, id uint) (*models.Article, error) {
	var article models.Article
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Category").
		Preload("Tags").
		First(&article, id).Error
	return &article, err
}

func (r *articleRepository) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	var article models.Article
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Category").
		Preload("Tags").
		Where("slug = ?", slug).
		First(&article).Error
	return &article, err
}

func (r *articleRepository) GetList(ctx context.Context, params models.ArticleListParams, isPublic bool) ([]models.Article, int64, error) {
	var articles []models.Article
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Article{})

	if isPublic {
		query = query.Where("articles.status = ?", models.StatusPublished)
	} else if params.Status != "" {
		query = query.Where("articles.status = ?", params.Status)
	}

	if params.AuthorID > 0 {
		query = query.Where("articles.author_id = ?", params.AuthorID)
	}

	if params.CategoryID > 0 {
		query = query.Where("articles.category_id = ?", params.CategoryID)
	}

	if params.Category != "" {
		query = query.Joins("JOIN categories ON categories.id = articles.category_id").
			Where("categories.slug = ?", params.Category)
	}

	if params.Tag != "" {
		query = query.Joins("JOIN article_tags ON article_tags.article_id = articles.id").
			Joins("JOIN tags ON tags.id = article_tags.tag_id").
			Where("tags.name = ?", params.Tag)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[params.SortBy]
	if !ok {
		column = sortColumns["created_at"]
	}
	order := "desc"
	if params.SortOrder == "asc" {
		order = "asc"
	}

	offset := (params.Page - 1) * params.Limit
	err := query.
		Preload("Author").
		Preload("Category").
		Preload("Tags").
		Omit("content").
		Order(fmt.Sprintf("%s %s", column, order)).
		Offset(offset).
		Limit(params.Limit).
		Find(&articles).Error

	return articles, total, err
}

func (r *articleRepository) SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Unscoped().Model(&models.Article{}).Where("slug = ?", slug)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

// Update writes the article's scalar fields. Content and tags have their own
// methods.
func (r *articleRepository) Update(ctx context.Context, article *models.Article) error {
	return r.db.WithContext(ctx).
		Omit("content", "Tags", "Author", "Category", "views_count").
		Save(article).Error
}

func (r *articleRepository) ReplaceTags(ctx context.Context, article *models.Article, tags []models.Tag) error {
	return r.db.WithContext(ctx).Model(article).Association("Tags").Replace(tags)
}

func (r *articleRepository) GetContent(ctx context.Context, id uint) (datatypes.JSON, error) {
	var article models.Article
	err := r.db.WithContext(ctx).Select("id", "content").First(&article, id).Error
	return article.Content, err
}

// SaveContent replaces the document and appends a revision in one
// transaction.
func (r *articleRepository) SaveContent(ctx context.Context, id uint, content datatypes.JSON, readTime, wordCount int) (*models.ArticleRevision, error) {
	var rev *models.ArticleRevision
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var article models.Article
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "title").First(&article, id).Error; err != nil {
			return err
		}
		err := tx.Model(&article).Updates(map[string]interface{}{
			"content":   content,
			"read_time": readTime,
		}).Error
		if err != nil {
			return err
		}
		rev, err = createRevision(tx, id, article.Title, content, wordCount)
		return err
	})
	return rev, err
}

func createRevision(tx *gorm.DB, articleID uint, title string, content datatypes.JSON, wordCount int) (*models.ArticleRevision, error) {
	var last int
	err := tx.Model(&models.ArticleRevision{}).
		Where("article_id = ?", articleID).
		Select("COALESCE(MAX(number), 0)").
		Scan(&last).Error
	if err != nil {
		return nil, err
	}
	rev := &models.ArticleRevision{
		ArticleID: articleID,
		Number:    last + 1,
		Title:     title,
		Content:   content,
		WordCount: wordCount,
	}
	return rev, tx.Create(rev).Error
}

// Delete removes the article together with its revisions and tag links.
func (r *articleRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Article{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := NewRevisionRepository(tx).DeleteByArticleID(ctx, id); err != nil {
			return err
		}
		return tx.Where("article_id = ?", id).Delete(&models.ArticleTag{}).Error
	})
}

func (r *articleRepository) IncrementViews(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Article{}).
		Where("id = ?", id).
		UpdateColumn("views_count", gorm.Expr("views_count + ?", 1)).Error
}

func (r *articleRepository) CountArticlesByTag(ctx context.Context) (map[uint]int, error) {
	var results []struct {
		TagID uint
		Count int
	}

	query := `
		SELECT 
			at.tag_id,
			COUNT(*) as count
		FROM article_tags at
		JOIN articles a ON at.article_id = a.id
		WHERE a.status = ? AND a.deleted_at IS NULL
		GROUP BY at.tag_id
	`

	err := r.db.WithContext(ctx).Raw(query, models.StatusPublished).Scan(&results).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int)
	for _, result := range results {
		counts[result.TagID] = result.Count
	}

	return counts, nil
}

func (r *articleRepository) CountArticlesByCategory(ctx context.Context) (map[uint]int64, error) {
	var results []struct {
		CategoryID uint
		Count      int64
	}

	err := r.db.WithContext(ctx).Model(&models.Article{}).
		Select("category_id, COUNT(*) as count").
		Where("category_id IS NOT NULL").
		Group("category_id").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int64)
	for _, result := range results {
		counts[result.CategoryID] = result.Count
	}

	return counts, nil
}

package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"gorm.io/datatypes"

	"vectormag-cms/models"
)

type mockArticleRepo struct{ mock.Mock }

func (m *mockArticleRepo) Create(ctx context.Context, article *models.Article, wordCount int) error {
	return m.Called(ctx, article, wordCount).Error(0)
}

func (m *mockArticleRepo) GetByID(ctx context.Context, id uint) (*models.Article, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*models.Article)
	return a, args.Error(1)
}

func (m *mockArticleRepo) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	args := m.Called(ctx, slug)
	a, _ := args.Get(0).(*models.Article)
	return a, args.Error(1)
}

func (m *mockArticleRepo) GetList(ctx context.Context, params models.ArticleListParams, isPublic bool) ([]models.Article, int64, error) {
	args := m.Called(ctx, params, isPublic)
	list, _ := args.Get(0).([]models.Article)
	return list, args.Get(1).(int64), args.Error(2)
}

func (m *mockArticleRepo) SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error) {
	args := m.Called(ctx, slug, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockArticleRepo) Update(ctx context.Context, article *models.Article) error {
	return m.Called(ctx, article).Error(0)
}

func (m *mockArticleRepo) ReplaceTags(ctx context.Context, article *models.Article, tags []models.Tag) error {
	return m.Called(ctx, article, tags).Error(0)
}

func (m *mockArticleRepo) GetContent(ctx context.Context, id uint) (datatypes.JSON, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(datatypes.JSON)
	return c, args.Error(1)
}

func (m *mockArticleRepo) SaveContent(ctx context.Context, id uint, content datatypes.JSON, readTime, wordCount int) (*models.ArticleRevision, error) {
	args := m.Called(ctx, id, content, readTime, wordCount)
	r, _ := args.Get(0).(*models.ArticleRevision)
	return r, args.Error(1)
}

func (m *mockArticleRepo) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockArticleRepo) IncrementViews(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockArticleRepo) CountArticlesByTag(ctx context.Context) (map[uint]int, error) {
	args := m.Called(ctx)
	counts, _ := args.Get(0).(map[uint]int)
	return counts, args.Error(1)
}

func (m *mockArticleRepo) CountArticlesByCategory(ctx context.Context) (map[uint]int64, error) {
	args := m.Called(ctx)
	counts, _ := args.Get(0).(map[uint]int64)
	return counts, args.Error(1)
}

type mockRevisionRepo struct{ mock.Mock }

func (m *mockRevisionRepo) List(ctx context.Context, articleID uint) ([]models.ArticleRevision, error) {
	args := m.Called(ctx, articleID)
	list, _ := args.Get(0).([]models.ArticleRevision)
	return list, args.Error(1)
}

func (m *mockRevisionRepo) Get(ctx context.Context, articleID uint, number int) (*models.ArticleRevision, error) {
	args := m.Called(ctx, articleID, number)
	r, _ := args.Get(0).(*models.ArticleRevision)
	return r, args.Error(1)
}

func (m *mockRevisionRepo) DeleteByArticleID(ctx context.Context, articleID uint) error {
	return m.Called(ctx, articleID).Error(0)
}

type mockTagRepo struct{ mock.Mock }

func (m *mockTagRepo) Create(ctx context.Context, tag *models.Tag) error {
	return m.Called(ctx, tag).Error(0)
}

func (m *mockTagRepo) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	args := m.Called(ctx, name)
	t, _ := args.Get(0).(*models.Tag)
	return t, args.Error(1)
}

func (m *mockTagRepo) GetOrCreate(ctx context.Context, names []string) ([]models.Tag, error) {
	args := m.Called(ctx, names)
	tags, _ := args.Get(0).([]models.Tag)
	return tags, args.Error(1)
}

func (m *mockTagRepo) GetByID(ctx context.Context, id uint) (*models.Tag, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*models.Tag)
	return t, args.Error(1)
}

func (m *mockTagRepo) GetAll(ctx context.Context) ([]models.Tag, error) {
	args := m.Called(ctx)
	tags, _ := args.Get(0).([]models.Tag)
	return tags, args.Error(1)
}

func (m *mockTagRepo) BulkUpdate(ctx context.Context, tags []models.Tag) error {
	return m.Called(ctx, tags).Error(0)
}

type mockCategoryRepo struct{ mock.Mock }

func (m *mockCategoryRepo) Create(ctx context.Context, category *models.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *mockCategoryRepo) GetAll(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]models.Category)
	return list, args.Error(1)
}

func (m *mockCategoryRepo) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*models.Category)
	return c, args.Error(1)
}

func (m *mockCategoryRepo) NameExists(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *mockCategoryRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *mockCategoryRepo) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	args := m.Called(ctx, email, username)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) TouchLastLogin(ctx context.Context, id uint, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

type mockSubscriberRepo struct{ mock.Mock }

func (m *mockSubscriberRepo) Create(ctx context.Context, subscriber *models.Subscriber) error {
	return m.Called(ctx, subscriber).Error(0)
}

func (m *mockSubscriberRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockSubscriberRepo) List(ctx context.Context, page, limit int) ([]models.Subscriber, int64, error) {
	args := m.Called(ctx, page, limit)
	list, _ := args.Get(0).([]models.Subscriber)
	return list, args.Get(1).(int64), args.Error(2)
}

func (m *mockSubscriberRepo) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

type mockAnalyticsRepo struct{ mock.Mock }

func (m *mockAnalyticsRepo) CreateHit(ctx context.Context, hit *models.PageHit) error {
	return m.Called(ctx, hit).Error(0)
}

func (m *mockAnalyticsRepo) CountViews(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAnalyticsRepo) CountVisitors(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAnalyticsRepo) DailyViews(ctx context.Context, since time.Time) ([]models.DailyViews, error) {
	args := m.Called(ctx, since)
	list, _ := args.Get(0).([]models.DailyViews)
	return list, args.Error(1)
}

func (m *mockAnalyticsRepo) TopArticles(ctx context.Context, since time.Time, limit int) ([]models.TopArticle, error) {
	args := m.Called(ctx, since, limit)
	list, _ := args.Get(0).([]models.TopArticle)
	return list, args.Error(1)
}

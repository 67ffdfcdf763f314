package handlers_test

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"vectormag-cms/editor"
	"vectormag-cms/models"
	"vectormag-cms/services"
)

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	args := m.Called(ctx, req)
	r, _ := args.Get(0).(*models.AuthResponse)
	return r, args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	args := m.Called(ctx, req)
	r, _ := args.Get(0).(*models.AuthResponse)
	return r, args.Error(1)
}

func (m *mockAuthService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockAuthService) ParseToken(token string) (*services.Claims, error) {
	args := m.Called(token)
	c, _ := args.Get(0).(*services.Claims)
	return c, args.Error(1)
}

type mockArticleService struct{ mock.Mock }

func (m *mockArticleService) SaveContent(ctx context.Context, id uint, content []byte) error {
	return m.Called(ctx, id, content).Error(0)
}

func (m *mockArticleService) LoadContent(ctx context.Context, id uint) ([]byte, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func (m *mockArticleService) detail(args mock.Arguments) (*models.ArticleDetail, error) {
	d, _ := args.Get(0).(*models.ArticleDetail)
	return d, args.Error(1)
}

func (m *mockArticleService) CreateArticle(ctx context.Context, req models.CreateArticleRequest, actor services.Actor) (*models.ArticleDetail, error) {
	return m.detail(m.Called(ctx, req, actor))
}

func (m *mockArticleService) GetArticle(ctx context.Context, id uint, actor services.Actor) (*models.ArticleDetail, error) {
	return m.detail(m.Called(ctx, id, actor))
}

func (m *mockArticleService) GetPublishedArticle(ctx context.Context, slug string) (*models.ArticleDetail, error) {
	return m.detail(m.Called(ctx, slug))
}

func (m *mockArticleService) GetArticles(ctx context.Context, params models.ArticleListParams, actor services.Actor, isPublic bool) ([]models.Article, int64, error) {
	args := m.Called(ctx, params, actor, isPublic)
	list, _ := args.Get(0).([]models.Article)
	return list, args.Get(1).(int64), args.Error(2)
}

func (m *mockArticleService) UpdateArticle(ctx context.Context, id uint, req models.UpdateArticleRequest, actor services.Actor) (*models.ArticleDetail, error) {
	return m.detail(m.Called(ctx, id, req, actor))
}

func (m *mockArticleService) DeleteArticle(ctx context.Context, id uint, actor services.Actor) error {
	return m.Called(ctx, id, actor).Error(0)
}

func (m *mockArticleService) ApplyBlockOps(ctx context.Context, id uint, ops []editor.Op, actor services.Actor) (*models.ArticleDetail, error) {
	return m.detail(m.Called(ctx, id, ops, actor))
}

func (m *mockArticleService) ExportArticle(ctx context.Context, id uint, actor services.Actor) ([]byte, string, error) {
	args := m.Called(ctx, id, actor)
	b, _ := args.Get(0).([]byte)
	return b, args.String(1), args.Error(2)
}

func (m *mockArticleService) GetRevisions(ctx context.Context, id uint, actor services.Actor) ([]models.ArticleRevision, error) {
	args := m.Called(ctx, id, actor)
	list, _ := args.Get(0).([]models.ArticleRevision)
	return list, args.Error(1)
}

func (m *mockArticleService) RestoreRevision(ctx context.Context, id uint, number int, actor services.Actor) (*models.ArticleDetail, error) {
	return m.detail(m.Called(ctx, id, number, actor))
}

func (m *mockArticleService) Preview(content []byte) (*models.PreviewResponse, error) {
	args := m.Called(content)
	r, _ := args.Get(0).(*models.PreviewResponse)
	return r, args.Error(1)
}

type mockCategoryService struct{ mock.Mock }

func (m *mockCategoryService) GetCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]models.Category)
	return list, args.Error(1)
}

func (m *mockCategoryService) CreateCategory(ctx context.Context, req models.CreateCategoryRequest) (*models.Category, error) {
	args := m.Called(ctx, req)
	c, _ := args.Get(0).(*models.Category)
	return c, args.Error(1)
}

func (m *mockCategoryService) DeleteCategory(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

type mockMediaService struct{ mock.Mock }

func (m *mockMediaService) Upload(ctx context.Context, filename string, size int64, src io.Reader) (*models.UploadResponse, error) {
	body, _ := io.ReadAll(src)
	args := m.Called(ctx, filename, string(body))
	r, _ := args.Get(0).(*models.UploadResponse)
	return r, args.Error(1)
}

type mockAnalyticsService struct{ mock.Mock }

func (m *mockAnalyticsService) Track(visit services.Visit) bool {
	return m.Called(visit).Bool(0)
}

func (m *mockAnalyticsService) Dashboard(ctx context.Context, days int) (*models.DashboardStats, error) {
	args := m.Called(ctx, days)
	s, _ := args.Get(0).(*models.DashboardStats)
	return s, args.Error(1)
}

func (m *mockAnalyticsService) Start() {}
func (m *mockAnalyticsService) Stop()  {}

package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"vectormag-cms/blocks"
	"vectormag-cms/editor"
	"vectormag-cms/models"
	"vectormag-cms/render"
	"vectormag-cms/repositories"
)

var emptyDocument = []byte(`{"blocks":[]}`)

// Actor is the authenticated user a request acts for.
type Actor struct {
	UserID uint
	Role   models.UserRole
}

func (a Actor) canEdit(article *models.Article) bool {
	return a.Role.CanManage() || article.AuthorID == a.UserID
}

// ContentOptions configures how article documents are decoded and measured.
type ContentOptions struct {
	MaxDepth       int
	WordsPerMinute int
	Logger         zerolog.Logger
}

// ArticleService manages articles and their block documents. It is also the
// persistence adapter behind editor sessions.
type ArticleService interface {
	editor.PersistenceAdapter
	CreateArticle(ctx context.Context, req models.CreateArticleRequest, actor Actor) (*models.ArticleDetail, error)
	GetArticle(ctx context.Context, id uint, actor Actor) (*models.ArticleDetail, error)
	GetPublishedArticle(ctx context.Context, slug string) (*models.ArticleDetail, error)
	GetArticles(ctx context.Context, params models.ArticleListParams, actor Actor, isPublic bool) ([]models.Article, int64, error)
	UpdateArticle(ctx context.Context, id uint, req models.UpdateArticleRequest, actor Actor) (*models.ArticleDetail, error)
	DeleteArticle(ctx context.Context, id uint, actor Actor) error
	ApplyBlockOps(ctx context.Context, id uint, ops []editor.Op, actor Actor) (*models.ArticleDetail, error)
	ExportArticle(ctx context.Context, id uint, actor Actor) ([]byte, string, error)
	GetRevisions(ctx context.Context, id uint, actor Actor) ([]models.ArticleRevision, error)
	RestoreRevision(ctx context.Context, id uint, number int, actor Actor) (*models.ArticleDetail, error)
	Preview(content []byte) (*models.PreviewResponse, error)
}

type articleService struct {
	articleRepo  repositories.ArticleRepository
	revisionRepo repositories.RevisionRepository
	tagRepo      repositories.TagRepository
	categoryRepo repositories.CategoryRepository

	decoder  blocks.Decoder
	renderer render.Renderer
	wpm      int
	log      zerolog.Logger
}

func NewArticleService(
	articleRepo repositories.ArticleRepository,
	revisionRepo repositories.RevisionRepository,
	tagRepo repositories.TagRepository,
	categoryRepo repositories.CategoryRepository,
	opts ContentOptions,
) ArticleService {
	return &articleService{
		articleRepo:  articleRepo,
		revisionRepo: revisionRepo,
		tagRepo:      tagRepo,
		categoryRepo: categoryRepo,
		decoder:      blocks.Decoder{MaxDepth: opts.MaxDepth, Logger: opts.Logger},
		renderer:     render.Renderer{MaxDepth: opts.MaxDepth, Logger: opts.Logger},
		wpm:          opts.WordsPerMinute,
		log:          opts.Logger,
	}
}

func (s *articleService) CreateArticle(ctx context.Context, req models.CreateArticleRequest, actor Actor) (*models.ArticleDetail, error) {
	content, words, err := s.canonical(req.Content)
	if err != nil {
		return nil, err
	}

	base := Slugify(req.Slug)
	if base == "" {
		base = Slugify(req.Title)
	}
	if base == "" {
		base = "article"
	}
	slug, err := uniqueSlug(ctx, base, func(ctx context.Context, candidate string) (bool, error) {
		return s.articleRepo.SlugExists(ctx, candidate, 0)
	})
	if err != nil {
		return nil, err
	}

	categoryID, err := s.resolveCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}

	tags, err := s.resolveTags(ctx, req.Tags)
	if err != nil {
		return nil, err
	}

	article := &models.Article{
		AuthorID:        actor.UserID,
		Title:           req.Title,
		Subtitle:        req.Subtitle,
		Description:     req.Description,
		Slug:            slug,
		Content:         datatypes.JSON(content),
		CoverImage:      req.CoverImage,
		Status:          models.StatusDraft,
		ReadTime:        s.readTime(words),
		CategoryID:      categoryID,
		Tags:            tags,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		OGImage:         req.OGImage,
	}

	if err := s.articleRepo.Create(ctx, article, words); err != nil {
		return nil, conflict(err, "slug")
	}

	return s.GetArticle(ctx, article.ID, actor)
}

func (s *articleService) GetArticle(ctx context.Context, id uint, actor Actor) (*models.ArticleDetail, error) {
	article, err := s.editable(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	return s.detail(article), nil
}

func (s *articleService) GetPublishedArticle(ctx context.Context, slug string) (*models.ArticleDetail, error) {
	article, err := s.articleRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err, "article")
	}
	if article.Status != models.StatusPublished {
		return nil, fmt.Errorf("article %w", ErrNotFound)
	}
	article.Author = article.Author.Public()
	return s.detail(article), nil
}

func (s *articleService) GetArticles(ctx context.Context, params models.ArticleListParams, actor Actor, isPublic bool) ([]models.Article, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = 10
	}
	if params.Limit > 100 {
		params.Limit = 100
	}
	if !isPublic && !actor.Role.CanManage() {
		params.AuthorID = actor.UserID
	}
	articles, total, err := s.articleRepo.GetList(ctx, params, isPublic)
	if err != nil {
		return nil, 0, err
	}
	if isPublic {
		for i := range articles {
			articles[i].Author = articles[i].Author.Public()
		}
	}
	return articles, total, nil
}

// UpdateArticle applies a partial update. Concurrent updates are not merged:
// the last write wins.
func (s *articleService) UpdateArticle(ctx context.Context, id uint, req models.UpdateArticleRequest, actor Actor) (*models.ArticleDetail, error) {
	article, err := s.editable(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	var content []byte
	var words int
	if req.Content != nil {
		if content, words, err = s.canonical(req.Content); err != nil {
			return nil, err
		}
	}

	if req.Title != nil {
		article.Title = *req.Title
	}
	if req.Subtitle != nil {
		article.Subtitle = *req.Subtitle
	}
	if req.Description != nil {
		article.Description = *req.Description
	}
	if req.CoverImage != nil {
		article.CoverImage = *req.CoverImage
	}
	if req.MetaTitle != nil {
		article.MetaTitle = *req.MetaTitle
	}
	if req.MetaDescription != nil {
		article.MetaDescription = *req.MetaDescription
	}
	if req.OGImage != nil {
		article.OGImage = *req.OGImage
	}

	if req.Slug != nil {
		base := Slugify(*req.Slug)
		if base == "" {
			return nil, fmt.Errorf("%w: slug has no usable characters", ErrInvalidInput)
		}
		if base != article.Slug {
			article.Slug, err = uniqueSlug(ctx, base, func(ctx context.Context, candidate string) (bool, error) {
				return s.articleRepo.SlugExists(ctx, candidate, id)
			})
			if err != nil {
				return nil, err
			}
		}
	}

	if req.CategoryID != nil {
		if article.CategoryID, err = s.resolveCategory(ctx, req.CategoryID); err != nil {
			return nil, err
		}
		article.Category = nil
	}

	statusChanged := false
	if req.Status != nil && *req.Status != article.Status {
		statusChanged = true
		article.Status = *req.Status
		if article.Status == models.StatusPublished && article.PublishedAt == nil {
			now := time.Now()
			article.PublishedAt = &now
		}
	}

	if err := s.articleRepo.Update(ctx, article); err != nil {
		return nil, conflict(err, "slug")
	}

	if req.Tags != nil {
		tags, err := s.resolveTags(ctx, req.Tags)
		if err != nil {
			return nil, err
		}
		if err := s.articleRepo.ReplaceTags(ctx, article, tags); err != nil {
			return nil, err
		}
	}

	if content != nil {
		if _, err := s.articleRepo.SaveContent(ctx, id, datatypes.JSON(content), s.readTime(words), words); err != nil {
			return nil, notFound(err, "article")
		}
	}

	if statusChanged || (req.Tags != nil && article.Status == models.StatusPublished) {
		s.updateTagUsageCounts(ctx)
	}

	return s.GetArticle(ctx, id, actor)
}

func (s *articleService) DeleteArticle(ctx context.Context, id uint, actor Actor) error {
	article, err := s.editable(ctx, id, actor)
	if err != nil {
		return err
	}

	if err := s.articleRepo.Delete(ctx, id); err != nil {
		return notFound(err, "article")
	}

	if article.Status == models.StatusPublished {
		s.updateTagUsageCounts(ctx)
	}
	return nil
}

// ApplyBlockOps opens an editing session over the stored document, applies
// the batch and saves once. A failing operation rejects the whole batch and
// nothing is stored.
func (s *articleService) ApplyBlockOps(ctx context.Context, id uint, ops []editor.Op, actor Actor) (*models.ArticleDetail, error) {
	article, err := s.editable(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	session, issues, err := editor.Open(ctx, s, id, editor.WithDecoder(s.decoder))
	if err != nil {
		if errors.Is(err, blocks.ErrMalformedDocument) {
			return nil, fmt.Errorf("article %d: %w", id, ErrContentUnavailable)
		}
		return nil, err
	}
	if len(issues) > 0 {
		s.log.Debug().Uint("article_id", id).Int("issues", len(issues)).Msg("editing document with invalid blocks")
	}

	if err := session.Apply(ops); err != nil {
		return nil, err
	}
	if !session.Dirty() {
		return s.detail(article), nil
	}
	if err := session.Save(ctx, s, id); err != nil {
		return nil, err
	}

	return s.GetArticle(ctx, id, actor)
}

func (s *articleService) ExportArticle(ctx context.Context, id uint, actor Actor) ([]byte, string, error) {
	article, err := s.editable(ctx, id, actor)
	if err != nil {
		return nil, "", err
	}

	doc, err := s.document(article)
	if err != nil {
		return nil, "", err
	}

	meta := render.FrontMatter{
		Title:       article.Title,
		Slug:        article.Slug,
		Description: article.Subtitle,
		Date:        article.PublishedAt,
		Draft:       article.Status != models.StatusPublished,
		Tags:        article.TagNames(),
		Cover:       article.CoverImage,
		ReadTime:    article.ReadTime,
	}
	if meta.Description == "" {
		meta.Description = article.Description
	}
	if article.Author != nil {
		meta.Author = article.Author.DisplayName
		if meta.Author == "" {
			meta.Author = article.Author.Username
		}
	}
	if article.Category != nil {
		meta.Categories = []string{article.Category.Name}
	}

	page, err := render.MarkdownExport(meta, s.renderer.Render(doc))
	if err != nil {
		return nil, "", err
	}
	return page, article.Slug + ".md", nil
}

func (s *articleService) GetRevisions(ctx context.Context, id uint, actor Actor) ([]models.ArticleRevision, error) {
	if _, err := s.editable(ctx, id, actor); err != nil {
		return nil, err
	}
	return s.revisionRepo.List(ctx, id)
}

// RestoreRevision saves an old revision's document as the current one. The
// restore is itself recorded as a new revision.
func (s *articleService) RestoreRevision(ctx context.Context, id uint, number int, actor Actor) (*models.ArticleDetail, error) {
	if _, err := s.editable(ctx, id, actor); err != nil {
		return nil, err
	}

	revision, err := s.revisionRepo.Get(ctx, id, number)
	if err != nil {
		return nil, notFound(err, "revision")
	}

	if err := s.SaveContent(ctx, id, revision.Content); err != nil {
		return nil, err
	}
	return s.GetArticle(ctx, id, actor)
}

// Preview renders a document that is not stored anywhere.
func (s *articleService) Preview(content []byte) (*models.PreviewResponse, error) {
	doc, issues, err := s.decoder.Deserialize(content)
	if err != nil {
		return nil, err
	}

	words := blocks.WordCount(doc.Blocks)
	resp := &models.PreviewResponse{
		HTML:      render.HTML(s.renderer.Render(doc)),
		WordCount: words,
		ReadTime:  s.readTime(words),
		Issues:    make([]string, 0, len(issues)),
	}
	for _, issue := range issues {
		resp.Issues = append(resp.Issues, issue.Error())
	}
	return resp, nil
}

// SaveContent stores a serialized document and records a revision.
func (s *articleService) SaveContent(ctx context.Context, articleID uint, content []byte) error {
	data, words, err := s.canonical(content)
	if err != nil {
		return err
	}
	_, err = s.articleRepo.SaveContent(ctx, articleID, datatypes.JSON(data), s.readTime(words), words)
	return notFound(err, "article")
}

// LoadContent returns the stored document, or an empty one for articles that
// never had content.
func (s *articleService) LoadContent(ctx context.Context, articleID uint) ([]byte, error) {
	content, err := s.articleRepo.GetContent(ctx, articleID)
	if err != nil {
		return nil, notFound(err, "article")
	}
	if len(content) == 0 {
		return emptyDocument, nil
	}
	return content, nil
}

func (s *articleService) editable(ctx context.Context, id uint, actor Actor) (*models.Article, error) {
	article, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "article")
	}
	if !actor.canEdit(article) {
		return nil, ErrForbidden
	}
	return article, nil
}

// canonical decodes raw as a document and re-encodes it. Invalid blocks are
// kept as they came; only a malformed top level is rejected.
func (s *articleService) canonical(raw []byte) ([]byte, int, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		trimmed = emptyDocument
	}

	doc, issues, err := s.decoder.Deserialize(trimmed)
	if err != nil {
		return nil, 0, err
	}
	if len(issues) > 0 {
		s.log.Debug().Int("issues", len(issues)).Str("first", issues[0].Error()).Msg("document saved with invalid blocks")
	}

	data, err := blocks.Serialize(doc)
	if err != nil {
		return nil, 0, err
	}
	return data, blocks.WordCount(doc.Blocks), nil
}

func (s *articleService) document(article *models.Article) (blocks.Document, error) {
	if len(article.Content) == 0 {
		return blocks.Document{}, nil
	}
	doc, _, err := s.decoder.Deserialize(article.Content)
	if err != nil {
		s.log.Warn().Err(err).Uint("article_id", article.ID).Msg("stored document unreadable")
		return blocks.Document{}, fmt.Errorf("article %d: %w", article.ID, ErrContentUnavailable)
	}
	return doc, nil
}

func (s *articleService) detail(article *models.Article) *models.ArticleDetail {
	d := &models.ArticleDetail{Article: *article}
	doc, err := s.document(article)
	if err != nil {
		d.Content = nil
		d.ContentError = ErrContentUnavailable.Error()
		return d
	}
	if len(d.Content) == 0 {
		d.Content = datatypes.JSON(emptyDocument)
	}
	d.HTML = render.HTML(s.renderer.Render(doc))
	d.WordCount = blocks.WordCount(doc.Blocks)
	return d
}

// readTime is never below one minute.
func (s *articleService) readTime(words int) int {
	return max(1, blocks.ReadTime(words, s.wpm))
}

func (s *articleService) resolveCategory(ctx context.Context, id *uint) (*uint, error) {
	if id == nil || *id == 0 {
		return nil, nil
	}
	if _, err := s.categoryRepo.GetByID(ctx, *id); err != nil {
		return nil, notFound(err, "category")
	}
	return id, nil
}

// resolveTags trims and de-duplicates names, then gets or creates each tag.
func (s *articleService) resolveTags(ctx context.Context, names []string) ([]models.Tag, error) {
	seen := make(map[string]bool, len(names))
	clean := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		clean = append(clean, name)
	}
	if len(clean) == 0 {
		return []models.Tag{}, nil
	}
	return s.tagRepo.GetOrCreate(ctx, clean)
}

// updateTagUsageCounts recounts published articles per tag and refreshes the
// trending score. Failures only cost freshness and are logged.
func (s *articleService) updateTagUsageCounts(ctx context.Context) {
	tagCounts, err := s.articleRepo.CountArticlesByTag(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("count articles by tag")
		return
	}

	allTags, err := s.tagRepo.GetAll(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("load tags")
		return
	}

	now := time.Now()
	for i := range allTags {
		allTags[i].UsageCount = tagCounts[allTags[i].ID]
		allTags[i].TrendingScore = trendingScore(allTags[i].UsageCount, now.Sub(allTags[i].CreatedAt))
	}

	if err := s.tagRepo.BulkUpdate(ctx, allTags); err != nil {
		s.log.Error().Err(err).Msg("update tag counts")
	}
}

// trendingScore favours tags used often relative to their age in days.
func trendingScore(usage int, age time.Duration) float64 {
	days := age.Hours() / 24
	if days < 1 {
		return float64(usage)
	}
	return float64(usage) / math.Log(days+1)
}

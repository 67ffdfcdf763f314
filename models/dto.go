package models

import (
	"github.com/goccy/go-json"

	"vectormag-cms/editor"
)

type RegisterRequest struct {
	Username    string   `json:"username" validate:"required,min=3,max=50"`
	Email       string   `json:"email" validate:"required,email"`
	Password    string   `json:"password" validate:"required,min=6"`
	DisplayName string   `json:"display_name" validate:"max=100"`
	Role        UserRole `json:"role,omitempty" validate:"omitempty,oneof=writer editor admin"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// CreateArticleRequest starts a draft. An absent content starts an empty
// document.
type CreateArticleRequest struct {
	Title           string          `json:"title" validate:"required,min=1,max=500"`
	Subtitle        string          `json:"subtitle" validate:"max=500"`
	Description     string          `json:"description" validate:"max=1000"`
	Slug            string          `json:"slug" validate:"omitempty,max=500"`
	Content         json.RawMessage `json:"content"`
	CoverImage      string          `json:"cover_image" validate:"max=500"`
	CategoryID      *uint           `json:"category_id"`
	Tags            []string        `json:"tags" validate:"max=20,dive,min=1,max=100"`
	MetaTitle       string          `json:"meta_title" validate:"max=500"`
	MetaDescription string          `json:"meta_description" validate:"max=1000"`
	OGImage         string          `json:"og_image" validate:"max=500"`
}

// UpdateArticleRequest is a partial update: nil fields are left alone. A
// non-nil empty Tags clears the tags.
type UpdateArticleRequest struct {
	Title           *string         `json:"title" validate:"omitempty,min=1,max=500"`
	Subtitle        *string         `json:"subtitle" validate:"omitempty,max=500"`
	Description     *string         `json:"description" validate:"omitempty,max=1000"`
	Slug            *string         `json:"slug" validate:"omitempty,min=1,max=500"`
	Content         json.RawMessage `json:"content"`
	CoverImage      *string         `json:"cover_image" validate:"omitempty,max=500"`
	Status          *ArticleStatus  `json:"status" validate:"omitempty,oneof=draft published archived"`
	CategoryID      *uint           `json:"category_id"`
	Tags            []string        `json:"tags" validate:"omitempty,max=20,dive,min=1,max=100"`
	MetaTitle       *string         `json:"meta_title" validate:"omitempty,max=500"`
	MetaDescription *string         `json:"meta_description" validate:"omitempty,max=1000"`
	OGImage         *string         `json:"og_image" validate:"omitempty,max=500"`
}

// BlockOpsRequest is a batch of block mutations applied all-or-nothing.
type BlockOpsRequest struct {
	Ops []editor.Op `json:"ops" validate:"required,min=1,max=500,dive"`
}

type PreviewRequest struct {
	Content json.RawMessage `json:"content" validate:"required"`
}

type CreateTagRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=500"`
}

type SubscribeRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

type TrackRequest struct {
	ArticleID *uint          `json:"article_id"`
	Path      string         `json:"path" validate:"required,max=500"`
	EventType EventType      `json:"event_type" validate:"omitempty,oneof=view heartbeat scroll"`
	Referrer  string         `json:"referrer" validate:"max=500"`
	Metadata  map[string]any `json:"metadata"`
}

type ArticleListParams struct {
	Status     string `form:"status"`
	CategoryID uint   `form:"category_id"`
	Category   string `form:"category"`
	Tag        string `form:"tag"`
	AuthorID   uint   `form:"author_id"`
	Page       int    `form:"page,default=1"`
	Limit      int    `form:"limit,default=10"`
	SortBy     string `form:"sort_by,default=created_at"`
	SortOrder  string `form:"sort_order,default=desc"`
}

type PageParams struct {
	Page  int `form:"page,default=1"`
	Limit int `form:"limit,default=20"`
}

// ArticleDetail is an article with its document rendered. ContentError is
// set instead of HTML when the stored document cannot be read.
type ArticleDetail struct {
	Article
	HTML         string `json:"html"`
	WordCount    int    `json:"word_count"`
	ContentError string `json:"content_error,omitempty"`
}

// PreviewResponse is a rendered ad-hoc document plus any block problems.
type PreviewResponse struct {
	HTML      string   `json:"html"`
	WordCount int      `json:"word_count"`
	ReadTime  int      `json:"read_time"`
	Issues    []string `json:"issues"`
}

// UploadResponse follows the block editor's image uploader contract.
type UploadResponse struct {
	Success int        `json:"success"`
	File    UploadFile `json:"file"`
}

type UploadFile struct {
	URL string `json:"url"`
}

type DashboardStats struct {
	Period     string       `json:"period"`
	Summary    StatsSummary `json:"summary"`
	ChartData  []DailyViews `json:"chart_data"`
	TopContent []TopArticle `json:"top_content"`
}

type StatsSummary struct {
	TotalViews     int64 `json:"total_views"`
	UniqueVisitors int64 `json:"unique_visitors"`
}

type DailyViews struct {
	Date  string `json:"date"`
	Views int64  `json:"views"`
}

type TopArticle struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
	Views int64  `json:"views"`
}

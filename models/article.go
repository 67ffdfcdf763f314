package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusPublished ArticleStatus = "published"
	StatusArchived  ArticleStatus = "archived"
)

func (s ArticleStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// Article is a magazine piece. Content holds the canonical block document.
type Article struct {
	ID              uint              `json:"id" gorm:"primarykey"`
	AuthorID        uint              `json:"author_id" gorm:"not null;index"`
	Author          *User             `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Title           string            `json:"title" gorm:"size:500;not null"`
	Subtitle        string            `json:"subtitle" gorm:"size:500"`
	Description     string            `json:"description" gorm:"size:1000"`
	Slug            string            `json:"slug" gorm:"size:500;uniqueIndex;not null"`
	Content         datatypes.JSON    `json:"content" gorm:"type:jsonb"`
	CoverImage      string            `json:"cover_image" gorm:"size:500"`
	Status          ArticleStatus     `json:"status" gorm:"size:20;default:'draft';index"`
	ReadTime        int               `json:"read_time"`
	PublishedAt     *time.Time        `json:"published_at" gorm:"index"`
	CategoryID      *uint             `json:"category_id" gorm:"index"`
	Category        *Category         `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Tags            []Tag             `json:"tags" gorm:"many2many:article_tags;"`
	MetaTitle       string            `json:"meta_title" gorm:"size:500"`
	MetaDescription string            `json:"meta_description" gorm:"size:1000"`
	OGImage         string            `json:"og_image" gorm:"size:500"`
	ViewsCount      int64             `json:"views_count" gorm:"default:0"`
	Revisions       []ArticleRevision `json:"-" gorm:"foreignKey:ArticleID"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	DeletedAt       gorm.DeletedAt    `json:"-" gorm:"index"`
}

// TagNames lists the article's tag names in stored order.
func (a *Article) TagNames() []string {
	names := make([]string, 0, len(a.Tags))
	for _, t := range a.Tags {
		names = append(names, t.Name)
	}
	return names
}

// ArticleTag is the join row between articles and tags.
type ArticleTag struct {
	ArticleID uint `gorm:"primaryKey"`
	TagID     uint `gorm:"primaryKey"`
}

func (ArticleTag) TableName() string {
	return "article_tags"
}

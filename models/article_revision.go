package models

import (
	"time"

	"gorm.io/datatypes"
)

// ArticleRevision is a snapshot of an article's document taken on every save.
type ArticleRevision struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	ArticleID uint           `json:"article_id" gorm:"not null;uniqueIndex:idx_article_revision"`
	Number    int            `json:"number" gorm:"not null;uniqueIndex:idx_article_revision"`
	Title     string         `json:"title" gorm:"size:500;not null"`
	Content   datatypes.JSON `json:"content,omitempty" gorm:"type:jsonb"`
	WordCount int            `json:"word_count"`
	CreatedAt time.Time      `json:"created_at"`
}

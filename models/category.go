package models

import "time"

type Category struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	Name         string    `json:"name" gorm:"size:100;uniqueIndex;not null"`
	Slug         string    `json:"slug" gorm:"size:100;uniqueIndex;not null"`
	Description  string    `json:"description" gorm:"size:500"`
	ArticleCount int64     `json:"article_count" gorm:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

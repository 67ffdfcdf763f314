package models

import (
	"time"

	"gorm.io/gorm"
)

// Tag is shared across articles. UsageCount and TrendingScore only count
// published articles and are refreshed whenever publication changes.
type Tag struct {
	ID            uint           `json:"id" gorm:"primarykey"`
	Name          string         `json:"name" gorm:"size:100;uniqueIndex;not null"`
	UsageCount    int            `json:"usage_count" gorm:"default:0"`
	TrendingScore float64        `json:"trending_score" gorm:"default:0"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

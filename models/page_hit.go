package models

import (
	"time"

	"gorm.io/datatypes"
)

type EventType string

const (
	EventView      EventType = "view"
	EventHeartbeat EventType = "heartbeat"
	EventScroll    EventType = "scroll"
)

// PageHit is one tracked reader event. ArticleID is nil for non-article pages.
type PageHit struct {
	ID          uint              `json:"id" gorm:"primarykey"`
	ArticleID   *uint             `json:"article_id" gorm:"index"`
	Path        string            `json:"path" gorm:"size:500;not null;index"`
	VisitorHash string            `json:"-" gorm:"size:64;index"`
	UserAgent   string            `json:"user_agent" gorm:"size:500"`
	Referrer    string            `json:"referrer" gorm:"size:500"`
	EventType   EventType         `json:"event_type" gorm:"size:50;default:'view'"`
	Metadata    datatypes.JSONMap `json:"metadata" gorm:"type:jsonb"`
	CreatedAt   time.Time         `json:"created_at" gorm:"index"`
}

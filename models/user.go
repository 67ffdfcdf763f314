package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleWriter UserRole = "writer"
	RoleEditor UserRole = "editor"
	RoleAdmin  UserRole = "admin"
)

// CanManage reports whether the role may edit other authors' articles and
// the shared taxonomy.
func (r UserRole) CanManage() bool {
	return r == RoleEditor || r == RoleAdmin
}

type User struct {
	ID          uint           `json:"id" gorm:"primarykey"`
	Username    string         `json:"username" gorm:"size:50;uniqueIndex;not null"`
	Email       string         `json:"email" gorm:"size:255;uniqueIndex;not null"`
	Password    string         `json:"-" gorm:"not null"`
	DisplayName string         `json:"display_name" gorm:"size:100"`
	Role        UserRole       `json:"role" gorm:"size:20;default:'writer'"`
	Active      bool           `json:"active" gorm:"default:true"`
	LastLogin   *time.Time     `json:"last_login"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// Public strips everything but the byline fields.
func (u *User) Public() *User {
	if u == nil {
		return nil
	}
	return &User{ID: u.ID, Username: u.Username, DisplayName: u.DisplayName}
}

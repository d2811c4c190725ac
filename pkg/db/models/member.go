package models

import (
	"time"

	"github.com/angelmondragon/articles-api/pkg/enums"
)

// Member is an account that can sign in and author articles.
type Member struct {
	ID           int64            `gorm:"primaryKey;autoIncrement"`
	Username     string           `gorm:"column:username;type:varchar(50);not null;uniqueIndex"`
	PasswordHash string           `gorm:"column:password_hash;not null"`
	Email        *string          `gorm:"column:email"`
	Role         enums.MemberRole `gorm:"column:role;type:varchar(20);not null;default:user"`
	LastLoginAt  *time.Time       `gorm:"column:last_login_at"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (Member) TableName() string {
	return "members"
}

package models

import "time"

// Article is a post written by a member.
type Article struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	AuthorID  int64     `gorm:"column:author_id;not null;index"`
	Subject   string    `gorm:"column:subject;type:varchar(200);not null"`
	Content   string    `gorm:"column:content;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Article) TableName() string {
	return "articles"
}

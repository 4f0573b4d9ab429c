package model

import (
	"time"

	"github.com/Guyuepp/recipe-engagement/domain"
)

type Comment struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	ItemID     int64     `gorm:"column:item_id;not null;index"`
	UserID     int64     `gorm:"column:user_id;not null"`
	Text       string    `gorm:"type:varchar(500);not null"`
	LikesCount int64     `gorm:"column:likes_count;not null;default:0"`
	CreatedAt  time.Time `gorm:"type:datetime"`
}

func (Comment) TableName() string {
	return "comments"
}

func NewCommentFromDomain(c *domain.Comment) *Comment {
	return &Comment{
		ID:        c.ID,
		ItemID:    c.ItemID,
		UserID:    c.UserID,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
}

func (m *Comment) ToDomain() domain.Comment {
	return domain.Comment{
		ID:         m.ID,
		ItemID:     m.ItemID,
		UserID:     m.UserID,
		Text:       m.Text,
		LikesCount: m.LikesCount,
		CreatedAt:  m.CreatedAt,
	}
}

package model

import (
	"time"

	"github.com/Guyuepp/recipe-engagement/domain"
)

type Item struct {
	ID            int64     `gorm:"primaryKey;autoIncrement"`
	OwnerID       int64     `gorm:"column:owner_id;not null;index"`
	Title         string    `gorm:"type:varchar(120);not null"`
	LikesCount    int64     `gorm:"column:likes_count;not null;default:0"`
	CommentsCount int64     `gorm:"column:comments_count;not null;default:0"`
	UpdatedAt     time.Time `gorm:"type:datetime"`
	CreatedAt     time.Time `gorm:"type:datetime"`
}

func (Item) TableName() string {
	return "items"
}

func (m *Item) ToDomain() domain.Item {
	return domain.Item{
		ID:            m.ID,
		OwnerID:       m.OwnerID,
		Title:         m.Title,
		LikesCount:    m.LikesCount,
		CommentsCount: m.CommentsCount,
		UpdatedAt:     m.UpdatedAt,
		CreatedAt:     m.CreatedAt,
	}
}

// NewItemFromDomain copies everything except the counters, which only the
// engagement store may write.
func NewItemFromDomain(it *domain.Item) *Item {
	return &Item{
		ID:        it.ID,
		OwnerID:   it.OwnerID,
		Title:     it.Title,
		UpdatedAt: it.UpdatedAt,
		CreatedAt: it.CreatedAt,
	}
}

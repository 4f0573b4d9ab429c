package model

import (
	"time"

	"github.com/Guyuepp/recipe-engagement/domain"
)

type Like struct {
	ItemID    int64     `gorm:"column:item_id;not null;uniqueIndex:ux_like_item_user,priority:1"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:ux_like_item_user,priority:2;index"`
	CreatedAt time.Time `gorm:"type:datetime"`
}

func (Like) TableName() string {
	return "likes"
}

func NewLikeFromDomain(l domain.Like) Like {
	return Like{
		ItemID:    l.ItemID,
		UserID:    l.UserID,
		CreatedAt: l.CreatedAt,
	}
}

func (m *Like) ToDomain() domain.Like {
	return domain.Like{
		ItemID:    m.ItemID,
		UserID:    m.UserID,
		CreatedAt: m.CreatedAt,
	}
}

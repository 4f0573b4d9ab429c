package response

import "github.com/Guyuepp/recipe-engagement/domain"

type Item struct {
	ID            int64  `json:"id"`
	OwnerID       int64  `json:"owner_id"`
	Title         string `json:"title"`
	LikesCount    int64  `json:"likes_count"`
	CommentsCount int64  `json:"comments_count"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// NewItemFromDomain: Domain -> Response
func NewItemFromDomain(it *domain.Item) Item {
	return Item{
		ID:            it.ID,
		OwnerID:       it.OwnerID,
		Title:         it.Title,
		LikesCount:    it.LikesCount,
		CommentsCount: it.CommentsCount,
		CreatedAt:     it.CreatedAt.Format(DateTimeFormat),
		UpdatedAt:     it.UpdatedAt.Format(DateTimeFormat),
	}
}

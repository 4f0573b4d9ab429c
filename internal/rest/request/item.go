package request

import "github.com/Guyuepp/recipe-engagement/domain"

type Item struct {
	OwnerID int64  `json:"owner_id" binding:"required,gt=0"`
	Title   string `json:"title" binding:"required,max=120"`
}

func (r *Item) ToDomain() domain.Item {
	return domain.Item{
		OwnerID: r.OwnerID,
		Title:   r.Title,
	}
}

package request

import "github.com/Guyuepp/recipe-engagement/domain"

type Comment struct {
	UserID int64  `json:"user_id" binding:"required,gt=0"`
	Text   string `json:"text" binding:"required,max=500"`
}

// ToDomain: Request -> Domain
func (r *Comment) ToDomain(itemID int64) domain.Comment {
	return domain.Comment{
		ItemID: itemID,
		UserID: r.UserID,
		Text:   r.Text,
	}
}

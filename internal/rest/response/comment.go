package response

import "github.com/Guyuepp/recipe-engagement/domain"

const DateTimeFormat = "2006-01-02 15:04:05"

type Comment struct {
	ID         int64  `json:"id"`
	ItemID     int64  `json:"item_id"`
	UserID     int64  `json:"user_id"`
	Text       string `json:"text"`
	LikesCount int64  `json:"likes_count"`
	CreatedAt  string `json:"created_at"`
}

// NewCommentFromDomain: Domain -> Response
func NewCommentFromDomain(c *domain.Comment) Comment {
	return Comment{
		ID:         c.ID,
		ItemID:     c.ItemID,
		UserID:     c.UserID,
		Text:       c.Text,
		LikesCount: c.LikesCount,
		CreatedAt:  c.CreatedAt.Format(DateTimeFormat),
	}
}

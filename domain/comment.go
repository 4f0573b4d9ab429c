package domain

import (
	"context"
	"time"
)

// MaxCommentLength is the maximum number of characters in a comment
const MaxCommentLength = 500

// Comment domain model
type Comment struct {
	ID         int64     `json:"id"`
	ItemID     int64     `json:"item_id" validate:"gt=0"`
	UserID     int64     `json:"user_id" validate:"gt=0"`
	Text       string    `json:"text" validate:"required,max=500"`
	LikesCount int64     `json:"likes_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// CommentUsecase business logic
type CommentUsecase interface {
	Create(ctx context.Context, c *Comment) error
	Delete(ctx context.Context, commentID int64, userID int64) error
	FetchByItem(ctx context.Context, itemID int64, cursor string, limit int64) ([]Comment, string, error)
}

// CommentRepository persistence. Store and Delete keep items.comments_count in step.
type CommentRepository interface {
	Store(ctx context.Context, c *Comment) error
	// Delete returns ErrNotFound if the comment is absent, ErrForbidden if userID is not the author.
	Delete(ctx context.Context, commentID int64, userID int64) error
	GetByID(ctx context.Context, id int64) (Comment, error)
	FetchByItem(ctx context.Context, itemID int64, cursor string, limit int64) ([]Comment, error)
}

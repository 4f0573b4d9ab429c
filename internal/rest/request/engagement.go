package request

// User carries the acting user for bodies that need nothing else.
type User struct {
	UserID int64 `json:"user_id" binding:"required,gt=0"`
}

type Toggle struct {
	UserID         int64 `json:"user_id" binding:"required,gt=0"`
	CurrentlyLiked bool  `json:"currently_liked"`
}

package model

import "time"

// CommentLike is one user's like. (comment_id, user_id) is the primary key,
// which is what makes liking idempotent.
type CommentLike struct {
	CommentID string    `gorm:"column:comment_id;primaryKey;type:char(36)"`
	UserID    string    `gorm:"column:user_id;primaryKey;type:varchar(64)"`
	CreatedAt time.Time `gorm:"type:datetime(3)"`
}

func (CommentLike) TableName() string {
	return "comment_likes"
}

package model

import (
	"time"

	"github.com/Guyuepp/shop-comments/domain"
)

type Comment struct {
	ID        string    `gorm:"primaryKey;type:char(36)"`
	ProductID string    `gorm:"column:product_id;type:varchar(64);not null;index"`
	UserID    string    `gorm:"column:user_id;type:varchar(64);not null;index"`
	Username  string    `gorm:"type:varchar(64)"`
	Content   string    `gorm:"type:text;not null"`
	Rating    *int      `gorm:"column:rating"`
	ParentID  *string   `gorm:"column:parent_id;type:char(36);index"` // NULL for top-level comments
	LikeCount int64     `gorm:"column:like_count;default:0"`
	CreatedAt time.Time `gorm:"type:datetime(3)"`
	UpdatedAt time.Time `gorm:"type:datetime(3)"`
}

func (Comment) TableName() string {
	return "comments"
}

func NewCommentFromDomain(c *domain.Comment) *Comment {
	s := c.Snapshot()
	m := &Comment{
		ID:        s.ID,
		ProductID: s.ProductID,
		UserID:    s.UserID,
		Username:  s.Username,
		Content:   s.Content,
		Rating:    s.Rating,
		LikeCount: s.LikeCount,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	if s.ParentID != "" {
		parentID := s.ParentID
		m.ParentID = &parentID
	}
	return m
}

func (m *Comment) ToDomain() (*domain.Comment, error) {
	s := domain.CommentSnapshot{
		ID:        m.ID,
		ProductID: m.ProductID,
		UserID:    m.UserID,
		Username:  m.Username,
		Content:   m.Content,
		Rating:    m.Rating,
		LikeCount: m.LikeCount,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.ParentID != nil {
		s.ParentID = *m.ParentID
	}
	return domain.RestoreComment(s)
}

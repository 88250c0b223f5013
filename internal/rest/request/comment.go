package request

import "github.com/Guyuepp/shop-comments/domain"

type Comment struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Content  string `json:"content" binding:"required"`
	Rating   *int   `json:"rating"`
	ParentID string `json:"parentId"`
}

// ToDomain: Request -> Domain
func (r *Comment) ToDomain(productID string) domain.NewCommentParams {
	return domain.NewCommentParams{
		ProductID: productID,
		UserID:    r.UserID,
		Username:  r.Username,
		Content:   r.Content,
		Rating:    r.Rating,
		ParentID:  r.ParentID,
	}
}

// CommentUpdate carries a partial edit; nil fields stay unchanged.
type CommentUpdate struct {
	UserID  string  `json:"userId"`
	Content *string `json:"content"`
	Rating  *int    `json:"rating"`
}

type Like struct {
	UserID string `json:"userId"`
}

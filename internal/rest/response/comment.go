package response

import (
	"time"

	"github.com/Guyuepp/shop-comments/domain"
)

const DateTimeFormat = time.RFC3339

type Comment struct {
	ID        string  `json:"id"`
	ProductID string  `json:"productId"`
	UserID    string  `json:"userId"`
	Username  string  `json:"username"`
	Content   string  `json:"content"`
	Rating    *int    `json:"rating"`
	ParentID  *string `json:"parentId"`
	LikeCount int64   `json:"likeCount"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

// NewCommentFromDomain: Domain -> Response
func NewCommentFromDomain(c *domain.Comment) Comment {
	res := Comment{
		ID:        c.ID(),
		ProductID: c.ProductID(),
		UserID:    c.UserID(),
		Username:  c.Username(),
		Content:   c.Content().Value(),
		LikeCount: c.LikeCount(),
		CreatedAt: c.CreatedAt().Format(DateTimeFormat),
		UpdatedAt: c.UpdatedAt().Format(DateTimeFormat),
	}
	if r, ok := c.Rating(); ok {
		v := r.Value()
		res.Rating = &v
	}
	if c.IsReply() {
		parentID := c.ParentID()
		res.ParentID = &parentID
	}
	return res
}

type CommentPage struct {
	Items       []Comment `json:"items"`
	Total       int64     `json:"total"`
	Page        int       `json:"page"`
	PageSize    int       `json:"pageSize"`
	TotalPages  int       `json:"totalPages"`
	HasNext     bool      `json:"hasNext"`
	HasPrevious bool      `json:"hasPrevious"`
}

func NewCommentPageFromDomain(p domain.PagedResult[*domain.Comment]) CommentPage {
	items := make([]Comment, len(p.Items))
	for i, c := range p.Items {
		items[i] = NewCommentFromDomain(c)
	}
	return CommentPage{
		Items:       items,
		Total:       p.Total,
		Page:        p.Page,
		PageSize:    p.PageSize,
		TotalPages:  p.TotalPages,
		HasNext:     p.HasNext,
		HasPrevious: p.HasPrevious,
	}
}

type CommentThread struct {
	Comment    Comment     `json:"comment"`
	Replies    CommentPage `json:"replies"`
	ReplyCount int64       `json:"replyCount"`
	Likes      []string    `json:"likes"`
}

func NewCommentThreadFromDomain(t domain.CommentThread) CommentThread {
	return CommentThread{
		Comment:    NewCommentFromDomain(t.Comment),
		Replies:    NewCommentPageFromDomain(t.Replies),
		ReplyCount: t.ReplyCount,
		Likes:      t.Likes,
	}
}

type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

func NewRatingSummaryFromDomain(s domain.RatingSummary) RatingSummary {
	return RatingSummary{Average: s.Average, Count: s.Count}
}

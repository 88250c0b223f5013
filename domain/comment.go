package domain

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Comment is a product review or a reply to one. State changes only through
// its methods so content and rating are always valid.
type Comment struct {
	id        string
	productID string
	userID    string
	username  string
	content   CommentContent
	rating    *CommentRating
	parentID  string
	likeCount int64
	createdAt time.Time
	updatedAt time.Time
}

// NewCommentParams holds the raw input of NewComment.
type NewCommentParams struct {
	ProductID string
	UserID    string
	Username  string
	Content   string
	Rating    *int   // optional, nil for unrated comments and replies
	ParentID  string // empty for top-level comments
}

// NewComment validates the raw input and builds a fresh comment with a new id.
func NewComment(p NewCommentParams) (*Comment, error) {
	productID := strings.TrimSpace(p.ProductID)
	if productID == "" {
		return nil, NewValidationError("productId", "is required")
	}
	userID := strings.TrimSpace(p.UserID)
	if userID == "" {
		return nil, NewValidationError("userId", "is required")
	}
	content, err := NewCommentContent(p.Content)
	if err != nil {
		return nil, err
	}

	parentID := strings.TrimSpace(p.ParentID)
	var rating *CommentRating
	if p.Rating != nil {
		if parentID != "" {
			return nil, NewValidationError("rating", "replies cannot carry a rating")
		}
		r, err := NewCommentRating(*p.Rating)
		if err != nil {
			return nil, err
		}
		rating = &r
	}

	now := time.Now().UTC()
	return &Comment{
		id:        uuid.NewString(),
		productID: productID,
		userID:    userID,
		username:  strings.TrimSpace(p.Username),
		content:   content,
		rating:    rating,
		parentID:  parentID,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func (c *Comment) ID() string              { return c.id }
func (c *Comment) ProductID() string       { return c.productID }
func (c *Comment) UserID() string          { return c.userID }
func (c *Comment) Username() string        { return c.username }
func (c *Comment) Content() CommentContent { return c.content }
func (c *Comment) ParentID() string        { return c.parentID }
func (c *Comment) LikeCount() int64        { return c.likeCount }
func (c *Comment) CreatedAt() time.Time    { return c.createdAt }
func (c *Comment) UpdatedAt() time.Time    { return c.updatedAt }

// Rating returns the rating and whether the comment has one.
func (c *Comment) Rating() (CommentRating, bool) {
	if c.rating == nil {
		return CommentRating{}, false
	}
	return *c.rating, true
}

// IsReply reports whether the comment answers another comment.
func (c *Comment) IsReply() bool {
	return c.parentID != ""
}

func (c *Comment) EditContent(raw string) error {
	content, err := NewCommentContent(raw)
	if err != nil {
		return err
	}
	c.content = content
	c.touch()
	return nil
}

// EditRating sets a new rating. Replies have no rating slot.
func (c *Comment) EditRating(raw int) error {
	if c.IsReply() {
		return NewValidationError("rating", "replies cannot carry a rating")
	}
	r, err := NewCommentRating(raw)
	if err != nil {
		return err
	}
	c.rating = &r
	c.touch()
	return nil
}

func (c *Comment) IncrementLikes() {
	c.likeCount++
}

// DecrementLikes never takes the counter below zero.
func (c *Comment) DecrementLikes() {
	if c.likeCount > 0 {
		c.likeCount--
	}
}

func (c *Comment) touch() {
	now := time.Now().UTC()
	if !now.After(c.updatedAt) {
		now = c.updatedAt.Add(time.Nanosecond)
	}
	c.updatedAt = now
}

// CommentSnapshot is the flat form of a Comment used by storage adapters and caches.
type CommentSnapshot struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	Rating    *int      `json:"rating,omitempty"`
	ParentID  string    `json:"parent_id,omitempty"`
	LikeCount int64     `json:"like_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Comment) Snapshot() CommentSnapshot {
	s := CommentSnapshot{
		ID:        c.id,
		ProductID: c.productID,
		UserID:    c.userID,
		Username:  c.username,
		Content:   c.content.Value(),
		ParentID:  c.parentID,
		LikeCount: c.likeCount,
		CreatedAt: c.createdAt,
		UpdatedAt: c.updatedAt,
	}
	if c.rating != nil {
		v := c.rating.Value()
		s.Rating = &v
	}
	return s
}

// RestoreComment rebuilds a stored comment, re-validating its content and rating.
func RestoreComment(s CommentSnapshot) (*Comment, error) {
	if s.ID == "" {
		return nil, NewValidationError("id", "is required")
	}
	if s.ProductID == "" {
		return nil, NewValidationError("productId", "is required")
	}
	if s.UserID == "" {
		return nil, NewValidationError("userId", "is required")
	}
	content, err := NewCommentContent(s.Content)
	if err != nil {
		return nil, err
	}
	var rating *CommentRating
	if s.Rating != nil {
		r, err := NewCommentRating(*s.Rating)
		if err != nil {
			return nil, err
		}
		rating = &r
	}
	likeCount := s.LikeCount
	if likeCount < 0 {
		likeCount = 0
	}
	return &Comment{
		id:        s.ID,
		productID: s.ProductID,
		userID:    s.UserID,
		username:  s.Username,
		content:   content,
		rating:    rating,
		parentID:  s.ParentID,
		likeCount: likeCount,
		createdAt: s.CreatedAt,
		updatedAt: s.UpdatedAt,
	}, nil
}

func (c *Comment) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Snapshot())
}

func (c *Comment) UnmarshalJSON(data []byte) error {
	var s CommentSnapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	restored, err := RestoreComment(s)
	if err != nil {
		return err
	}
	*c = *restored
	return nil
}

// CommentRepository is the persistence contract consumed by the use-cases.
type CommentRepository interface {
	// FindByID returns ErrNotFound if the comment doesn't exist.
	FindByID(ctx context.Context, id string) (*Comment, error)

	// FindByProductID returns the top-level comments of a product, never replies.
	FindByProductID(ctx context.Context, productID string, p Pagination) (PagedResult[*Comment], error)

	FindRepliesByParentID(ctx context.Context, parentID string, p Pagination) (PagedResult[*Comment], error)

	FindByUserID(ctx context.Context, userID string, p Pagination) (PagedResult[*Comment], error)

	// Save upserts by id. The like counter is owned by the like operations.
	Save(ctx context.Context, c *Comment) error

	// Delete removes the comment together with its replies and likes.
	// Returns ErrNotFound if not exists
	Delete(ctx context.Context, id string) error

	// LikeComment records a like once per (commentID, userID).
	// Returns ErrNotFound if the comment doesn't exist.
	LikeComment(ctx context.Context, commentID, userID string) error

	// UnlikeComment removes a like; a missing like is a no-op.
	UnlikeComment(ctx context.Context, commentID, userID string) error

	GetCommentLikes(ctx context.Context, commentID string) ([]string, error)

	GetReplyCount(ctx context.Context, commentID string) (int64, error)

	// GetProductRatings returns the ratings of rated top-level comments.
	GetProductRatings(ctx context.Context, productID string) ([]CommentRating, error)
}

// CommentDBRepository is the database side behind the coordination layer.
type CommentDBRepository interface {
	CommentRepository

	LikeCountRefresher

	// FetchTreeIDs returns the comment id followed by all of its reply ids.
	FetchTreeIDs(ctx context.Context, id string) ([]string, error)

	// FetchIDs pages through every comment id greater than cursor.
	FetchIDs(ctx context.Context, cursor string, limit int) ([]string, error)
}

type CommentCache interface {
	GetComment(ctx context.Context, id string) (*Comment, error)
	SetComment(ctx context.Context, c *Comment, ttl time.Duration) error
	DeleteComment(ctx context.Context, id string) error

	// GetProductFirstPage returns the cached default first page of a product
	// and whether it is logically expired.
	GetProductFirstPage(ctx context.Context, productID string) (PagedResult[*Comment], bool, error)
	SetProductFirstPage(ctx context.Context, productID string, page PagedResult[*Comment], ttl time.Duration) error
	DeleteProductFirstPage(ctx context.Context, productID string) error
}

// CommentThread is a comment with one page of its replies and its likes.
type CommentThread struct {
	Comment    *Comment
	Replies    PagedResult[*Comment]
	ReplyCount int64
	Likes      []string
}

// CommentUsecase is what the HTTP layer needs from the application services.
type CommentUsecase interface {
	GetProductComments(ctx context.Context, productID string) ([]*Comment, error)
	ListProductComments(ctx context.Context, productID string, p Pagination) (PagedResult[*Comment], error)
	GetReplies(ctx context.Context, commentID string, p Pagination) (PagedResult[*Comment], error)
	GetComment(ctx context.Context, id string) (*Comment, error)
	GetCommentThread(ctx context.Context, id string, p Pagination) (CommentThread, error)
	ListUserComments(ctx context.Context, userID string, p Pagination) (PagedResult[*Comment], error)
	Create(ctx context.Context, p NewCommentParams) (*Comment, error)
	Update(ctx context.Context, id, userID string, content *string, rating *int) (*Comment, error)
	Delete(ctx context.Context, id, userID string) error
	Like(ctx context.Context, commentID, userID string) error
	Unlike(ctx context.Context, commentID, userID string) error
	GetLikes(ctx context.Context, commentID string) ([]string, error)
	GetReplyCount(ctx context.Context, commentID string) (int64, error)
	GetRatingSummary(ctx context.Context, productID string) (RatingSummary, error)
}

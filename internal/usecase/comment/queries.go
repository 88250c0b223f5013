package comment

import (
	"context"
	"strings"

	"github.com/Guyuepp/shop-comments/domain"
)

// GetProductComments returns the first page of a product's top-level comments.
type GetProductComments struct {
	repo domain.CommentRepository
}

func NewGetProductComments(repo domain.CommentRepository) *GetProductComments {
	return &GetProductComments{repo: repo}
}

func (uc *GetProductComments) Execute(ctx context.Context, productID string) ([]*domain.Comment, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, domain.NewValidationError("productId", "is required")
	}
	res, err := uc.repo.FindByProductID(ctx, productID, domain.DefaultPagination())
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

type ListProductCommentsInput struct {
	ProductID  string
	Pagination domain.Pagination
}

// ListProductComments is the paginated form of GetProductComments.
type ListProductComments struct {
	repo domain.CommentRepository
}

func NewListProductComments(repo domain.CommentRepository) *ListProductComments {
	return &ListProductComments{repo: repo}
}

func (uc *ListProductComments) Execute(ctx context.Context, in ListProductCommentsInput) (domain.PagedResult[*domain.Comment], error) {
	if strings.TrimSpace(in.ProductID) == "" {
		return domain.PagedResult[*domain.Comment]{}, domain.NewValidationError("productId", "is required")
	}
	p, err := in.Pagination.Normalize()
	if err != nil {
		return domain.PagedResult[*domain.Comment]{}, err
	}
	return uc.repo.FindByProductID(ctx, in.ProductID, p)
}

type GetRepliesInput struct {
	CommentID  string
	Pagination domain.Pagination
}

type GetReplies struct {
	repo domain.CommentRepository
}

func NewGetReplies(repo domain.CommentRepository) *GetReplies {
	return &GetReplies{repo: repo}
}

// Execute lists the direct replies of a comment. Unset pagination fields
// fall back to page 1 of 10, newest first.
func (uc *GetReplies) Execute(ctx context.Context, in GetRepliesInput) (domain.PagedResult[*domain.Comment], error) {
	if strings.TrimSpace(in.CommentID) == "" {
		return domain.PagedResult[*domain.Comment]{}, domain.NewValidationError("commentId", "is required")
	}
	p, err := in.Pagination.Normalize()
	if err != nil {
		return domain.PagedResult[*domain.Comment]{}, err
	}
	return uc.repo.FindRepliesByParentID(ctx, in.CommentID, p)
}

type GetComment struct {
	repo domain.CommentRepository
}

func NewGetComment(repo domain.CommentRepository) *GetComment {
	return &GetComment{repo: repo}
}

func (uc *GetComment) Execute(ctx context.Context, id string) (*domain.Comment, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.NewValidationError("commentId", "is required")
	}
	return uc.repo.FindByID(ctx, id)
}

// GetCommentThread loads a comment together with a page of its replies,
// the total reply count and who liked it.
type GetCommentThread struct {
	repo domain.CommentRepository
}

func NewGetCommentThread(repo domain.CommentRepository) *GetCommentThread {
	return &GetCommentThread{repo: repo}
}

func (uc *GetCommentThread) Execute(ctx context.Context, in GetRepliesInput) (domain.CommentThread, error) {
	if strings.TrimSpace(in.CommentID) == "" {
		return domain.CommentThread{}, domain.NewValidationError("commentId", "is required")
	}
	p, err := in.Pagination.Normalize()
	if err != nil {
		return domain.CommentThread{}, err
	}

	c, err := uc.repo.FindByID(ctx, in.CommentID)
	if err != nil {
		return domain.CommentThread{}, err
	}
	replies, err := uc.repo.FindRepliesByParentID(ctx, in.CommentID, p)
	if err != nil {
		return domain.CommentThread{}, err
	}
	count, err := uc.repo.GetReplyCount(ctx, in.CommentID)
	if err != nil {
		return domain.CommentThread{}, err
	}
	likes, err := uc.repo.GetCommentLikes(ctx, in.CommentID)
	if err != nil {
		return domain.CommentThread{}, err
	}
	if likes == nil {
		likes = []string{}
	}
	return domain.CommentThread{Comment: c, Replies: replies, ReplyCount: count, Likes: likes}, nil
}

type ListUserCommentsInput struct {
	UserID     string
	Pagination domain.Pagination
}

type ListUserComments struct {
	repo domain.CommentRepository
}

func NewListUserComments(repo domain.CommentRepository) *ListUserComments {
	return &ListUserComments{repo: repo}
}

func (uc *ListUserComments) Execute(ctx context.Context, in ListUserCommentsInput) (domain.PagedResult[*domain.Comment], error) {
	if strings.TrimSpace(in.UserID) == "" {
		return domain.PagedResult[*domain.Comment]{}, domain.NewValidationError("userId", "is required")
	}
	p, err := in.Pagination.Normalize()
	if err != nil {
		return domain.PagedResult[*domain.Comment]{}, err
	}
	return uc.repo.FindByUserID(ctx, in.UserID, p)
}

type GetReplyCount struct {
	repo domain.CommentRepository
}

func NewGetReplyCount(repo domain.CommentRepository) *GetReplyCount {
	return &GetReplyCount{repo: repo}
}

func (uc *GetReplyCount) Execute(ctx context.Context, commentID string) (int64, error) {
	if strings.TrimSpace(commentID) == "" {
		return 0, domain.NewValidationError("commentId", "is required")
	}
	return uc.repo.GetReplyCount(ctx, commentID)
}

type GetRatingSummary struct {
	repo domain.CommentRepository
}

func NewGetRatingSummary(repo domain.CommentRepository) *GetRatingSummary {
	return &GetRatingSummary{repo: repo}
}

func (uc *GetRatingSummary) Execute(ctx context.Context, productID string) (domain.RatingSummary, error) {
	if strings.TrimSpace(productID) == "" {
		return domain.RatingSummary{}, domain.NewValidationError("productId", "is required")
	}
	ratings, err := uc.repo.GetProductRatings(ctx, productID)
	if err != nil {
		return domain.RatingSummary{}, err
	}
	return domain.NewRatingSummary(ratings), nil
}

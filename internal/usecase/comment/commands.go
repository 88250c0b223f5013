package comment

import (
	"context"
	"strings"

	"github.com/Guyuepp/shop-comments/domain"
)

type CreateComment struct {
	repo domain.CommentRepository
}

func NewCreateComment(repo domain.CommentRepository) *CreateComment {
	return &CreateComment{repo: repo}
}

// Execute creates a comment. A reply must target an existing comment of the
// same product.
func (uc *CreateComment) Execute(ctx context.Context, in domain.NewCommentParams) (*domain.Comment, error) {
	c, err := domain.NewComment(in)
	if err != nil {
		return nil, err
	}
	if c.IsReply() {
		parent, err := uc.repo.FindByID(ctx, c.ParentID())
		if err != nil {
			return nil, err
		}
		if parent.ProductID() != c.ProductID() {
			return nil, domain.NewValidationError("parentId", "belongs to another product")
		}
	}
	if err := uc.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

type UpdateCommentInput struct {
	CommentID string
	UserID    string
	Content   *string
	Rating    *int
}

type UpdateComment struct {
	repo domain.CommentRepository
}

func NewUpdateComment(repo domain.CommentRepository) *UpdateComment {
	return &UpdateComment{repo: repo}
}

// Execute edits content and/or rating. Only the author may edit.
func (uc *UpdateComment) Execute(ctx context.Context, in UpdateCommentInput) (*domain.Comment, error) {
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return nil, domain.NewValidationError("userId", "is required")
	}
	if in.Content == nil && in.Rating == nil {
		return nil, domain.NewValidationError("", "nothing to update")
	}
	c, err := uc.repo.FindByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	if c.UserID() != userID {
		return nil, domain.ErrForbidden
	}
	if in.Content != nil {
		if err := c.EditContent(*in.Content); err != nil {
			return nil, err
		}
	}
	if in.Rating != nil {
		if err := c.EditRating(*in.Rating); err != nil {
			return nil, err
		}
	}
	if err := uc.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

type DeleteCommentInput struct {
	CommentID string
	UserID    string
}

type DeleteComment struct {
	repo domain.CommentRepository
}

func NewDeleteComment(repo domain.CommentRepository) *DeleteComment {
	return &DeleteComment{repo: repo}
}

func (uc *DeleteComment) Execute(ctx context.Context, in DeleteCommentInput) error {
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return domain.NewValidationError("userId", "is required")
	}
	c, err := uc.repo.FindByID(ctx, in.CommentID)
	if err != nil {
		return err
	}
	if c.UserID() != userID {
		return domain.ErrForbidden
	}
	return uc.repo.Delete(ctx, in.CommentID)
}

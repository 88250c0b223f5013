package comment

import (
	"context"
	"strings"

	"github.com/Guyuepp/shop-comments/domain"
)

type LikeInput struct {
	CommentID string
	UserID    string
}

func (in LikeInput) validate() error {
	if strings.TrimSpace(in.CommentID) == "" {
		return domain.NewValidationError("commentId", "is required")
	}
	if strings.TrimSpace(in.UserID) == "" {
		return domain.NewValidationError("userId", "is required")
	}
	return nil
}

// LikeComment records a like. Repeating it for the same user changes nothing.
type LikeComment struct {
	repo domain.CommentRepository
}

func NewLikeComment(repo domain.CommentRepository) *LikeComment {
	return &LikeComment{repo: repo}
}

func (uc *LikeComment) Execute(ctx context.Context, in LikeInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	return uc.repo.LikeComment(ctx, in.CommentID, in.UserID)
}

// UnlikeComment removes a like; unliking without a prior like succeeds.
type UnlikeComment struct {
	repo domain.CommentRepository
}

func NewUnlikeComment(repo domain.CommentRepository) *UnlikeComment {
	return &UnlikeComment{repo: repo}
}

func (uc *UnlikeComment) Execute(ctx context.Context, in LikeInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	return uc.repo.UnlikeComment(ctx, in.CommentID, in.UserID)
}

type GetCommentLikes struct {
	repo domain.CommentRepository
}

func NewGetCommentLikes(repo domain.CommentRepository) *GetCommentLikes {
	return &GetCommentLikes{repo: repo}
}

func (uc *GetCommentLikes) Execute(ctx context.Context, commentID string) ([]string, error) {
	if strings.TrimSpace(commentID) == "" {
		return nil, domain.NewValidationError("commentId", "is required")
	}
	likes, err := uc.repo.GetCommentLikes(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if likes == nil {
		likes = []string{}
	}
	return likes, nil
}

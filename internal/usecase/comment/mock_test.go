package comment

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Guyuepp/shop-comments/domain"
)

type mockCommentRepository struct {
	mock.Mock
}

func (m *mockCommentRepository) FindByID(ctx context.Context, id string) (*domain.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}

func (m *mockCommentRepository) FindByProductID(ctx context.Context, productID string, p domain.Pagination) (domain.PagedResult[*domain.Comment], error) {
	args := m.Called(ctx, productID, p)
	return args.Get(0).(domain.PagedResult[*domain.Comment]), args.Error(1)
}

func (m *mockCommentRepository) FindRepliesByParentID(ctx context.Context, parentID string, p domain.Pagination) (domain.PagedResult[*domain.Comment], error) {
	args := m.Called(ctx, parentID, p)
	return args.Get(0).(domain.PagedResult[*domain.Comment]), args.Error(1)
}

func (m *mockCommentRepository) FindByUserID(ctx context.Context, userID string, p domain.Pagination) (domain.PagedResult[*domain.Comment], error) {
	args := m.Called(ctx, userID, p)
	return args.Get(0).(domain.PagedResult[*domain.Comment]), args.Error(1)
}

func (m *mockCommentRepository) Save(ctx context.Context, c *domain.Comment) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *mockCommentRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockCommentRepository) LikeComment(ctx context.Context, commentID, userID string) error {
	args := m.Called(ctx, commentID, userID)
	return args.Error(0)
}

func (m *mockCommentRepository) UnlikeComment(ctx context.Context, commentID, userID string) error {
	args := m.Called(ctx, commentID, userID)
	return args.Error(0)
}

func (m *mockCommentRepository) GetCommentLikes(ctx context.Context, commentID string) ([]string, error) {
	args := m.Called(ctx, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockCommentRepository) GetReplyCount(ctx context.Context, commentID string) (int64, error) {
	args := m.Called(ctx, commentID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCommentRepository) GetProductRatings(ctx context.Context, productID string) ([]domain.CommentRating, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CommentRating), args.Error(1)
}

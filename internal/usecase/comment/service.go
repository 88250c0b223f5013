package comment

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/shop-comments/domain"
)

// Service exposes the comment use-cases to the HTTP layer.
type Service struct {
	log logrus.FieldLogger

	getProductComments  *GetProductComments
	listProductComments *ListProductComments
	getReplies          *GetReplies
	getComment          *GetComment
	getThread           *GetCommentThread
	listUserComments    *ListUserComments
	getReplyCount       *GetReplyCount
	getRatingSummary    *GetRatingSummary
	getLikes            *GetCommentLikes
	like                *LikeComment
	unlike              *UnlikeComment
	create              *CreateComment
	update              *UpdateComment
	delete              *DeleteComment
}

var _ domain.CommentUsecase = (*Service)(nil)

// NewService will create a new comment service object
func NewService(repo domain.CommentRepository, log logrus.FieldLogger) *Service {
	return &Service{
		log:                 log,
		getProductComments:  NewGetProductComments(repo),
		listProductComments: NewListProductComments(repo),
		getReplies:          NewGetReplies(repo),
		getComment:          NewGetComment(repo),
		getThread:           NewGetCommentThread(repo),
		listUserComments:    NewListUserComments(repo),
		getReplyCount:       NewGetReplyCount(repo),
		getRatingSummary:    NewGetRatingSummary(repo),
		getLikes:            NewGetCommentLikes(repo),
		like:                NewLikeComment(repo),
		unlike:              NewUnlikeComment(repo),
		create:              NewCreateComment(repo),
		update:              NewUpdateComment(repo),
		delete:              NewDeleteComment(repo),
	}
}

func (s *Service) GetProductComments(ctx context.Context, productID string) ([]*domain.Comment, error) {
	return s.getProductComments.Execute(ctx, productID)
}

func (s *Service) ListProductComments(ctx context.Context, productID string, p domain.Pagination) (domain.PagedResult[*domain.Comment], error) {
	return s.listProductComments.Execute(ctx, ListProductCommentsInput{ProductID: productID, Pagination: p})
}

func (s *Service) GetReplies(ctx context.Context, commentID string, p domain.Pagination) (domain.PagedResult[*domain.Comment], error) {
	return s.getReplies.Execute(ctx, GetRepliesInput{CommentID: commentID, Pagination: p})
}

func (s *Service) GetComment(ctx context.Context, id string) (*domain.Comment, error) {
	return s.getComment.Execute(ctx, id)
}

func (s *Service) GetCommentThread(ctx context.Context, id string, p domain.Pagination) (domain.CommentThread, error) {
	return s.getThread.Execute(ctx, GetRepliesInput{CommentID: id, Pagination: p})
}

func (s *Service) ListUserComments(ctx context.Context, userID string, p domain.Pagination) (domain.PagedResult[*domain.Comment], error) {
	return s.listUserComments.Execute(ctx, ListUserCommentsInput{UserID: userID, Pagination: p})
}

func (s *Service) GetReplyCount(ctx context.Context, commentID string) (int64, error) {
	return s.getReplyCount.Execute(ctx, commentID)
}

func (s *Service) GetRatingSummary(ctx context.Context, productID string) (domain.RatingSummary, error) {
	return s.getRatingSummary.Execute(ctx, productID)
}

func (s *Service) GetLikes(ctx context.Context, commentID string) ([]string, error) {
	return s.getLikes.Execute(ctx, commentID)
}

func (s *Service) Create(ctx context.Context, p domain.NewCommentParams) (*domain.Comment, error) {
	c, err := s.create.Execute(ctx, p)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"comment_id": c.ID(),
		"product_id": c.ProductID(),
		"user_id":    c.UserID(),
		"parent_id":  c.ParentID(),
	}).Info("comment created")
	return c, nil
}

func (s *Service) Update(ctx context.Context, id, userID string, content *string, rating *int) (*domain.Comment, error) {
	c, err := s.update.Execute(ctx, UpdateCommentInput{
		CommentID: id,
		UserID:    userID,
		Content:   content,
		Rating:    rating,
	})
	if err != nil {
		return nil, err
	}
	s.log.WithField("comment_id", id).Info("comment updated")
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	if err := s.delete.Execute(ctx, DeleteCommentInput{CommentID: id, UserID: userID}); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"comment_id": id, "user_id": userID}).Info("comment deleted")
	return nil
}

func (s *Service) Like(ctx context.Context, commentID, userID string) error {
	if err := s.like.Execute(ctx, LikeInput{CommentID: commentID, UserID: userID}); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"comment_id": commentID, "user_id": userID}).Debug("comment liked")
	return nil
}

func (s *Service) Unlike(ctx context.Context, commentID, userID string) error {
	if err := s.unlike.Execute(ctx, LikeInput{CommentID: commentID, UserID: userID}); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"comment_id": commentID, "user_id": userID}).Debug("comment unliked")
	return nil
}

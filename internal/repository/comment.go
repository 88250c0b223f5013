package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/Guyuepp/shop-comments/domain"
)

const (
	commentCacheTTL   = 10 * time.Minute
	firstPageCacheTTL = 30 * time.Second
)

// commentRepository 协调层，协调缓存、布隆过滤器和数据库
type commentRepository struct {
	db           domain.CommentDBRepository
	cache        domain.CommentCache
	bloom        domain.BloomRepository
	likesWorker  domain.SyncLikesWorker
	log          logrus.FieldLogger
	loadGroup    singleflight.Group
	rebuildGroup singleflight.Group
}

var _ domain.CommentRepository = (*commentRepository)(nil)

// NewCommentRepository 创建协调层repository
func NewCommentRepository(
	db domain.CommentDBRepository,
	cache domain.CommentCache,
	bloom domain.BloomRepository,
	likesWorker domain.SyncLikesWorker,
	log logrus.FieldLogger,
) *commentRepository {
	return &commentRepository{
		db:          db,
		cache:       cache,
		bloom:       bloom,
		likesWorker: likesWorker,
		log:         log,
	}
}

// FindByID 先查缓存，未命中时合并并发请求回源数据库
func (r *commentRepository) FindByID(ctx context.Context, id string) (*domain.Comment, error) {
	c, err := r.cache.GetComment(ctx, id)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, domain.ErrCacheMiss) {
		r.log.WithError(err).WithField("comment_id", id).Warn("comment cache read failed")
	}

	if err := r.mustExist(ctx, id); err != nil {
		return nil, err
	}

	v, err, _ := r.loadGroup.Do(id, func() (any, error) {
		c, err := r.db.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := r.cache.SetComment(ctx, c, commentCacheTTL); err != nil {
			r.log.WithError(err).WithField("comment_id", id).Warn("failed to cache comment")
		}
		return c.Snapshot(), nil
	})
	if err != nil {
		return nil, err
	}
	// 每个调用方拿到独立的聚合，避免共享可变状态
	return domain.RestoreComment(v.(domain.CommentSnapshot))
}

// FindByProductID 默认首页走逻辑过期缓存，其余分页直接查库
func (r *commentRepository) FindByProductID(ctx context.Context, productID string, p domain.Pagination) (domain.PagedResult[*domain.Comment], error) {
	if p != domain.DefaultPagination() {
		return r.db.FindByProductID(ctx, productID, p)
	}

	page, expired, err := r.cache.GetProductFirstPage(ctx, productID)
	if err == nil {
		if expired {
			go r.rebuildFirstPage(context.Background(), productID)
		}
		return page, nil
	}
	if !errors.Is(err, domain.ErrCacheMiss) {
		r.log.WithError(err).WithField("product_id", productID).Warn("first page cache read failed")
	}

	page, err = r.db.FindByProductID(ctx, productID, p)
	if err != nil {
		return domain.PagedResult[*domain.Comment]{}, err
	}
	if err := r.cache.SetProductFirstPage(ctx, productID, page, firstPageCacheTTL); err != nil {
		r.log.WithError(err).WithField("product_id", productID).Warn("failed to cache first page")
	}
	return page, nil
}

func (r *commentRepository) FindRepliesByParentID(ctx context.Context, parentID string, p domain.Pagination) (domain.PagedResult[*domain.Comment], error) {
	return r.db.FindRepliesByParentID(ctx, parentID, p)
}

func (r *commentRepository) FindByUserID(ctx context.Context, userID string, p domain.Pagination) (domain.PagedResult[*domain.Comment], error) {
	return r.db.FindByUserID(ctx, userID, p)
}

// Save 写库后加入布隆过滤器并删除相关缓存
func (r *commentRepository) Save(ctx context.Context, c *domain.Comment) error {
	if err := r.db.Save(ctx, c); err != nil {
		return err
	}
	if err := r.bloom.Add(ctx, c.ID()); err != nil {
		r.log.WithError(err).WithField("comment_id", c.ID()).Error("failed to add comment to bloom filter")
	}
	r.invalidate(ctx, c.ID(), c.ProductID())
	return nil
}

// Delete 级联删除，回复的缓存也要一并清掉
func (r *commentRepository) Delete(ctx context.Context, id string) error {
	c, err := r.db.FindByID(ctx, id)
	if err != nil {
		return err
	}
	ids, err := r.db.FetchTreeIDs(ctx, id)
	if err != nil {
		return err
	}
	if err := r.db.Delete(ctx, id); err != nil {
		return err
	}
	for _, replyID := range ids {
		if replyID == id {
			continue
		}
		if err := r.cache.DeleteComment(ctx, replyID); err != nil {
			r.log.WithError(err).WithField("comment_id", replyID).Warn("failed to drop cached reply")
		}
	}
	r.invalidate(ctx, id, c.ProductID())
	return nil
}

// LikeComment 布隆过滤器判定不存在时直接返回 ErrNotFound
func (r *commentRepository) LikeComment(ctx context.Context, commentID, userID string) error {
	if err := r.mustExist(ctx, commentID); err != nil {
		return err
	}
	if err := r.db.LikeComment(ctx, commentID, userID); err != nil {
		return err
	}
	r.likesWorker.Send(commentID)
	return nil
}

func (r *commentRepository) UnlikeComment(ctx context.Context, commentID, userID string) error {
	if err := r.db.UnlikeComment(ctx, commentID, userID); err != nil {
		return err
	}
	r.likesWorker.Send(commentID)
	return nil
}

func (r *commentRepository) GetCommentLikes(ctx context.Context, commentID string) ([]string, error) {
	return r.db.GetCommentLikes(ctx, commentID)
}

func (r *commentRepository) GetReplyCount(ctx context.Context, commentID string) (int64, error) {
	return r.db.GetReplyCount(ctx, commentID)
}

func (r *commentRepository) GetProductRatings(ctx context.Context, productID string) ([]domain.CommentRating, error) {
	return r.db.GetProductRatings(ctx, productID)
}

// InitBloomFilter 启动时把已有评论ID全部写入布隆过滤器
func (r *commentRepository) InitBloomFilter(ctx context.Context, batchSize int) error {
	cursor := ""
	total := 0
	for {
		ids, err := r.db.FetchIDs(ctx, cursor, batchSize)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			break
		}
		if err := r.bloom.BulkAdd(ctx, ids); err != nil {
			return err
		}
		total += len(ids)
		cursor = ids[len(ids)-1]
	}
	r.log.WithField("count", total).Info("bloom filter initialised")
	return nil
}

// mustExist 布隆过滤器出错时放行，交给数据库判断
func (r *commentRepository) mustExist(ctx context.Context, id string) error {
	exists, err := r.bloom.Exists(ctx, id)
	if err != nil {
		r.log.WithError(err).Warn("bloom filter check failed")
		return nil
	}
	if !exists {
		r.log.WithField("comment_id", id).Debug("bloom filter says comment does not exist")
		return domain.ErrNotFound
	}
	return nil
}

func (r *commentRepository) invalidate(ctx context.Context, commentID, productID string) {
	if err := r.cache.DeleteComment(ctx, commentID); err != nil {
		r.log.WithError(err).WithField("comment_id", commentID).Warn("failed to drop cached comment")
	}
	if err := r.cache.DeleteProductFirstPage(ctx, productID); err != nil {
		r.log.WithError(err).WithField("product_id", productID).Warn("failed to drop cached first page")
	}
}

// rebuildFirstPage 异步重建首页缓存
func (r *commentRepository) rebuildFirstPage(ctx context.Context, productID string) {
	_, err, _ := r.rebuildGroup.Do(productID, func() (any, error) {
		page, err := r.db.FindByProductID(ctx, productID, domain.DefaultPagination())
		if err != nil {
			return nil, err
		}
		return nil, r.cache.SetProductFirstPage(ctx, productID, page, firstPageCacheTTL)
	})
	if err != nil {
		r.log.WithError(err).WithField("product_id", productID).Error("rebuild first page cache failed")
	}
}

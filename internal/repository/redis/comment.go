package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Guyuepp/shop-comments/domain"
	"github.com/Guyuepp/shop-comments/internal/repository/cache"
)

const (
	KeyComment             = "comment:%s"
	KeyProductFirstPage    = "comment:product:%s:first_page"
	logicalExpireHardSlack = 10 * time.Minute
)

type commentCache struct {
	client *redis.Client
}

var _ domain.CommentCache = (*commentCache)(nil)

func NewCommentCache(client *redis.Client) *commentCache {
	return &commentCache{client}
}

func (c *commentCache) GetComment(ctx context.Context, id string) (*domain.Comment, error) {
	data, err := c.client.Get(ctx, fmt.Sprintf(KeyComment, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrCacheMiss
	} else if err != nil {
		return nil, err
	}

	var res domain.Comment
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *commentCache) SetComment(ctx context.Context, cm *domain.Comment, ttl time.Duration) error {
	data, err := json.Marshal(cm)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, fmt.Sprintf(KeyComment, cm.ID()), data, ttl).Err()
}

func (c *commentCache) DeleteComment(ctx context.Context, id string) error {
	return c.client.Del(ctx, fmt.Sprintf(KeyComment, id)).Err()
}

// GetProductFirstPage 读取带逻辑过期的首页评论
func (c *commentCache) GetProductFirstPage(ctx context.Context, productID string) (domain.PagedResult[*domain.Comment], bool, error) {
	data, err := c.client.Get(ctx, fmt.Sprintf(KeyProductFirstPage, productID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.PagedResult[*domain.Comment]{}, false, domain.ErrCacheMiss
	} else if err != nil {
		return domain.PagedResult[*domain.Comment]{}, false, err
	}

	var wrapped cache.Envelope[domain.PagedResult[*domain.Comment]]
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return domain.PagedResult[*domain.Comment]{}, false, err
	}
	return wrapped.Data, wrapped.Expired(time.Now()), nil
}

// SetProductFirstPage 物理过期时间比逻辑过期时间长，过期后仍可返回旧数据并异步重建
func (c *commentCache) SetProductFirstPage(ctx context.Context, productID string, page domain.PagedResult[*domain.Comment], ttl time.Duration) error {
	data, err := json.Marshal(cache.Wrap(page, ttl))
	if err != nil {
		return err
	}
	return c.client.Set(ctx, fmt.Sprintf(KeyProductFirstPage, productID), data, ttl+logicalExpireHardSlack).Err()
}

func (c *commentCache) DeleteProductFirstPage(ctx context.Context, productID string) error {
	return c.client.Del(ctx, fmt.Sprintf(KeyProductFirstPage, productID)).Err()
}

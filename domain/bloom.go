package domain

import "context"

// BloomRepository 记录所有评论ID，用来在查缓存和数据库之前挡掉不存在的ID
type BloomRepository interface {
	Add(ctx context.Context, commentID string) error

	// Exists 为 false 时评论一定不存在；为 true 时仍需回源确认
	Exists(ctx context.Context, commentID string) (bool, error)

	// BulkAdd 启动预热时批量写入
	BulkAdd(ctx context.Context, commentIDs []string) error
}

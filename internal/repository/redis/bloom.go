package redis

import (
	"context"
	"hash/crc32"
	"hash/fnv"

	"github.com/redis/go-redis/v9"

	"github.com/Guyuepp/shop-comments/domain"
)

const (
	KeyCommentBloom = "bloom:comment:ids"
	bloomHashCount  = 3
)

// commentBloom 基于 Redis bitmap 的评论ID布隆过滤器
type commentBloom struct {
	client  *redis.Client
	key     string
	bitSize uint64
}

var _ domain.BloomRepository = (*commentBloom)(nil)

func NewRedisBloomRepo(client *redis.Client, bitSize uint64) *commentBloom {
	return &commentBloom{
		client:  client,
		key:     KeyCommentBloom,
		bitSize: bitSize,
	}
}

func (b *commentBloom) Add(ctx context.Context, id string) error {
	return b.BulkAdd(ctx, []string{id})
}

// BulkAdd 一次 pipeline 写入所有位
func (b *commentBloom) BulkAdd(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	pipe := b.client.Pipeline()
	for _, id := range ids {
		for _, offset := range b.offsets(id) {
			pipe.SetBit(ctx, b.key, offset, 1)
		}
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Exists 返回 false 时一定不存在，返回 true 时可能存在
func (b *commentBloom) Exists(ctx context.Context, id string) (bool, error) {
	pipe := b.client.Pipeline()
	bits := make([]*redis.IntCmd, 0, bloomHashCount)
	for _, offset := range b.offsets(id) {
		bits = append(bits, pipe.GetBit(ctx, b.key, offset))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	for _, bit := range bits {
		if bit.Val() == 0 {
			return false, nil
		}
	}
	return true, nil
}

// offsets 双重哈希: h1 + i*h2
func (b *commentBloom) offsets(id string) []int64 {
	data := []byte(id)
	h1 := uint64(crc32.ChecksumIEEE(data))
	h := fnv.New64a()
	_, _ = h.Write(data)
	h2 := h.Sum64() | 1

	res := make([]int64, bloomHashCount)
	for i := range res {
		res[i] = int64((h1 + uint64(i)*h2) % b.bitSize)
	}
	return res
}

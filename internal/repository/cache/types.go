package cache

import "time"

// Envelope 逻辑过期包装: 物理 TTL 更长，读到过期数据时先返回旧值再异步重建
type Envelope[T any] struct {
	Data     T         `json:"data"`
	ExpireAt time.Time `json:"expire_at"`
}

func Wrap[T any](data T, ttl time.Duration) Envelope[T] {
	return Envelope[T]{Data: data, ExpireAt: time.Now().Add(ttl)}
}

// Expired reports whether the entry is logically stale at now.
func (e Envelope[T]) Expired(now time.Time) bool {
	return now.After(e.ExpireAt)
}

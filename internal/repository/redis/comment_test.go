package redis

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-faker/faker/v4"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/shop-comments/domain"
)

func setupCache(t *testing.T) (*commentCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCommentCache(client), mr
}

func newComment(t *testing.T) *domain.Comment {
	t.Helper()
	rating := 4
	c, err := domain.NewComment(domain.NewCommentParams{
		ProductID: "p1",
		UserID:    faker.UUIDHyphenated(),
		Username:  faker.Username(),
		Content:   faker.Sentence(),
		Rating:    &rating,
	})
	require.NoError(t, err)
	return c
}

func TestCommentCache_Miss(t *testing.T) {
	cache, _ := setupCache(t)

	_, err := cache.GetComment(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestCommentCache_SetGetDelete(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()
	c := newComment(t)
	c.IncrementLikes()

	require.NoError(t, cache.SetComment(ctx, c, time.Minute))
	assert.True(t, mr.Exists(fmt.Sprintf(KeyComment, c.ID())))
	assert.Equal(t, time.Minute, mr.TTL(fmt.Sprintf(KeyComment, c.ID())))

	got, err := cache.GetComment(ctx, c.ID())
	require.NoError(t, err)
	assert.Equal(t, c.Snapshot(), got.Snapshot())

	require.NoError(t, cache.DeleteComment(ctx, c.ID()))
	_, err = cache.GetComment(ctx, c.ID())
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestCommentCache_Expires(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()
	c := newComment(t)

	require.NoError(t, cache.SetComment(ctx, c, time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := cache.GetComment(ctx, c.ID())
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestCommentCache_CorruptEntry(t *testing.T) {
	cache, mr := setupCache(t)
	require.NoError(t, mr.Set(fmt.Sprintf(KeyComment, "c1"), "{not json"))

	_, err := cache.GetComment(context.Background(), "c1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrCacheMiss)
}

func TestProductFirstPage(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()
	page := domain.NewPagedResult([]*domain.Comment{newComment(t), newComment(t)}, 2, domain.DefaultPagination())

	_, _, err := cache.GetProductFirstPage(ctx, "p1")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	require.NoError(t, cache.SetProductFirstPage(ctx, "p1", page, 30*time.Second))
	key := fmt.Sprintf(KeyProductFirstPage, "p1")
	assert.Equal(t, 30*time.Second+logicalExpireHardSlack, mr.TTL(key))

	got, expired, err := cache.GetProductFirstPage(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, expired)
	require.Len(t, got.Items, 2)
	assert.Equal(t, page.Items[0].Snapshot(), got.Items[0].Snapshot())
	assert.Equal(t, page.Total, got.Total)

	require.NoError(t, cache.DeleteProductFirstPage(ctx, "p1"))
	assert.False(t, mr.Exists(key))
}

func TestProductFirstPage_LogicallyExpired(t *testing.T) {
	cache, _ := setupCache(t)
	ctx := context.Background()
	page := domain.NewPagedResult([]*domain.Comment{newComment(t)}, 1, domain.DefaultPagination())

	require.NoError(t, cache.SetProductFirstPage(ctx, "p1", page, -time.Second))

	got, expired, err := cache.GetProductFirstPage(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, expired)
	assert.Len(t, got.Items, 1)
}

func TestCommentCache_TransportError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewCommentCache(client)
	boom := errors.New("connection reset")

	mock.ExpectGet(fmt.Sprintf(KeyComment, "c1")).SetErr(boom)
	_, err := cache.GetComment(context.Background(), "c1")
	assert.ErrorIs(t, err, boom)

	mock.ExpectDel(fmt.Sprintf(KeyProductFirstPage, "p1")).SetErr(boom)
	assert.ErrorIs(t, cache.DeleteProductFirstPage(context.Background(), "p1"), boom)

	assert.NoError(t, mock.ExpectationsWereMet())
}

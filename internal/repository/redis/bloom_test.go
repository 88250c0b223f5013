package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBitSize = 1 << 16

func TestBloom_AddExists(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	bloom := NewRedisBloomRepo(client, testBitSize)
	ctx := context.Background()

	ok, err := bloom.Exists(ctx, "c1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, bloom.Add(ctx, "c1"))
	ok, err = bloom.Exists(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, bloom.BulkAdd(ctx, []string{"c2", "c3"}))
	for _, id := range []string{"c1", "c2", "c3"} {
		ok, err := bloom.Exists(ctx, id)
		require.NoError(t, err)
		assert.True(t, ok, id)
	}

	require.NoError(t, bloom.BulkAdd(ctx, nil))
}

func TestBloom_Offsets(t *testing.T) {
	bloom := NewRedisBloomRepo(nil, 1000)

	a := bloom.offsets("some-comment-id")
	assert.Len(t, a, bloomHashCount)
	assert.Equal(t, a, bloom.offsets("some-comment-id"))
	for _, off := range a {
		assert.GreaterOrEqual(t, off, int64(0))
		assert.Less(t, off, int64(1000))
	}
}

func TestBloom_ExistsPipelineError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	bloom := NewRedisBloomRepo(client, testBitSize)
	boom := errors.New("connection refused")

	offsets := bloom.offsets("c1")
	mock.ExpectGetBit(KeyCommentBloom, offsets[0]).SetErr(boom)
	mock.ExpectGetBit(KeyCommentBloom, offsets[1]).SetVal(1)
	mock.ExpectGetBit(KeyCommentBloom, offsets[2]).SetVal(1)

	_, err := bloom.Exists(context.Background(), "c1")
	assert.Error(t, err)
}

func TestBloom_ExistsMissingBit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	bloom := NewRedisBloomRepo(client, testBitSize)

	offsets := bloom.offsets("c1")
	mock.ExpectGetBit(KeyCommentBloom, offsets[0]).SetVal(1)
	mock.ExpectGetBit(KeyCommentBloom, offsets[1]).SetVal(0)
	mock.ExpectGetBit(KeyCommentBloom, offsets[2]).SetVal(1)

	ok, err := bloom.Exists(context.Background(), "c1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

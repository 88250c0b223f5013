package cache

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope_Expired(t *testing.T) {
	e := Wrap([]string{"a"}, time.Minute)

	assert.False(t, e.Expired(time.Now()))
	assert.True(t, e.Expired(time.Now().Add(2*time.Minute)))
}

func TestEnvelope_JSON(t *testing.T) {
	e := Wrap(map[string]int{"total": 3}, time.Minute)

	data, err := json.Marshal(e)
	require.NoError(t, err)

	var got Envelope[map[string]int]
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 3, got.Data["total"])
	assert.True(t, e.ExpireAt.Equal(got.ExpireAt))
}

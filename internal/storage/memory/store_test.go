package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryKVStore_GetMissing(t *testing.T) {
	s := NewMemoryKVStore()

	v, found, err := s.Get(context.Background(), "nothing")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, v)
}

func TestMemoryKVStore_PutReplacesWholeValue(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryKVStore()

	require.NoError(t, s.Put(ctx, "k", []byte("first value")))
	require.NoError(t, s.Put(ctx, "k", []byte("2nd")))

	v, found, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "2nd", string(v))
}

func TestMemoryKVStore_NoAliasing(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryKVStore()

	in := []byte("abc")
	require.NoError(t, s.Put(ctx, "k", in))
	in[0] = 'X'

	out, _, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(out))

	out[0] = 'Y'
	again, _, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

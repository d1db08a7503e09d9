package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	lru := NewLRU[int](2)
	lru.Put("a", 1)
	lru.Put("b", 2)

	// Touch "a" so that "b" becomes the eviction candidate.
	v, ok := lru.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	lru.Put("c", 3)
	assert.Equal(t, 2, lru.Len())

	_, ok = lru.Get("b")
	assert.False(t, ok)

	v, ok = lru.Get("c")
	require.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestLRUUpdateAndRemove(t *testing.T) {
	lru := NewLRU[string](0)
	lru.Put("k", "old")
	lru.Put("k", "new")
	assert.Equal(t, 1, lru.Len())

	v, ok := lru.Get("k")
	require.True(t, ok)
	assert.Equal(t, "new", v)

	lru.Remove("k")
	lru.Remove("missing")
	assert.Equal(t, 0, lru.Len())

	lru.Put("x", "y")
	lru.Clear()
	assert.Equal(t, 0, lru.Len())
}

func TestLRUConcurrentAccess(t *testing.T) {
	lru := NewLRU[int](50)
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 100 {
				key := fmt.Sprintf("%d-%d", i, j%60)
				lru.Put(key, j)
				lru.Get(key)
			}
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, lru.Len(), 50)
}

type cachedUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(10)

	var got cachedUser
	ok, err := m.Get(ctx, "user:1", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "user:1", cachedUser{ID: "1", Username: "gopher"}))
	ok, err = m.Get(ctx, "user:1", &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "gopher", got.Username)

	require.NoError(t, m.Delete(ctx, "user:1"))
	ok, err = m.Get(ctx, "user:1", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryRejectsUnencodable(t *testing.T) {
	m := NewMemory(1)
	err := m.Set(context.Background(), "bad", make(chan int))
	require.Error(t, err)
	assert.Equal(t, 0, m.Len())
}

func TestNop(t *testing.T) {
	ctx := context.Background()
	var c Cache = Nop{}
	require.NoError(t, c.Set(ctx, "k", 1))

	var v int
	ok, err := c.Get(ctx, "k", &v)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, c.Delete(ctx, "k"))
}

func TestNewRedisRequiresAddr(t *testing.T) {
	_, err := NewRedis(context.Background(), RedisOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address is required")
}

package mem

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorePutGetDelete(t *testing.T) {
	s := NewStore[int](10, time.Minute)
	s.Put("a", 1)

	v, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	s.Delete("a")
	_, ok = s.Get("a")
	assert.False(t, ok)
}

func TestStoreEvictsOldestPastCapacity(t *testing.T) {
	s := NewStore[int](2, time.Minute)
	s.Put("a", 1)
	s.Put("b", 2)
	s.Put("c", 3)

	_, ok := s.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 2, s.Len())
}

func TestStoreExpires(t *testing.T) {
	s := NewStore[string](0, 20*time.Millisecond)
	s.Put("k", "v")
	time.Sleep(60 * time.Millisecond)

	_, ok := s.Get("k")
	assert.False(t, ok)
}

func TestTouchExtendsLifetime(t *testing.T) {
	s := NewStore[string](0, 80*time.Millisecond)
	s.Put("k", "v")

	for range 4 {
		time.Sleep(40 * time.Millisecond)
		require.True(t, s.Touch("k"))
	}
	v, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)

	time.Sleep(200 * time.Millisecond)
	assert.False(t, s.Touch("k"))
}

func TestTakeIsSingleUse(t *testing.T) {
	s := NewStore[string](0, time.Minute)
	s.Put("k", "v")

	var wins atomic.Int32
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := s.Take("k"); ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}

func TestResetTokens(t *testing.T) {
	tokens := NewResetTokens(100, time.Hour)
	tokens.Set("tok", "ana@example.com")

	email, ok := tokens.Peek("tok")
	require.True(t, ok)
	assert.Equal(t, "ana@example.com", email)

	email, ok = tokens.Consume("tok")
	require.True(t, ok)
	assert.Equal(t, "ana@example.com", email)

	_, ok = tokens.Consume("tok")
	assert.False(t, ok)
	assert.Equal(t, time.Hour, tokens.TTL())
}

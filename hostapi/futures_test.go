package hostapi

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiveml/hivehost/domain/entities"
)

func TestFuturesRegister(t *testing.T) {
	f := NewFutures[string]()

	h1 := f.Register("one")
	h2 := f.Register("two")
	assert.False(t, h1.IsZero())
	assert.NotEqual(t, h1, h2)
	assert.Equal(t, 2, f.Len())

	v, ok := f.Get(h1)
	require.True(t, ok)
	assert.Equal(t, "one", v)
}

func TestFuturesRetire(t *testing.T) {
	f := NewFutures[string]()
	h := f.Register("one")

	v, ok := f.Retire(h)
	require.True(t, ok)
	assert.Equal(t, "one", v)
	assert.Equal(t, 0, f.Len())

	_, ok = f.Get(h)
	assert.False(t, ok)

	// Retiring twice is a miss, not a panic.
	_, ok = f.Retire(h)
	assert.False(t, ok)
}

func TestFuturesNeverReusesHandles(t *testing.T) {
	f := NewFutures[int]()

	seen := make(map[entities.FutureHandle]bool)
	for i := 0; i < 100; i++ {
		h := f.Register(i)
		require.False(t, seen[h], "handle %d reused", h)
		seen[h] = true
		f.Retire(h)
	}
}

func TestFuturesConcurrentRegister(t *testing.T) {
	f := NewFutures[int]()

	const workers = 16
	const perWorker = 50

	var wg sync.WaitGroup
	handles := make(chan entities.FutureHandle, workers*perWorker)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				handles <- f.Register(w)
			}
		}(w)
	}
	wg.Wait()
	close(handles)

	seen := make(map[entities.FutureHandle]bool)
	for h := range handles {
		require.False(t, seen[h], "handle %d allocated twice", h)
		seen[h] = true
	}
	assert.Equal(t, workers*perWorker, f.Len())
	assert.Len(t, f.Handles(), workers*perWorker)
}

package redis

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"yt-podcast-bot/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueBrokerFIFO(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)
	b := NewQueueBroker(c)

	for _, k := range []string{"yt_processing:1", "yt_processing:2", "yt_processing:3"} {
		require.NoError(t, b.Signal(ctx, k))
	}
	for _, want := range []string{"yt_processing:1", "yt_processing:2", "yt_processing:3"} {
		got, err := b.Wait(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestQueueBrokerDeliversEachSignalOnce(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)
	b := NewQueueBroker(c)

	const n = 20
	var (
		mu   sync.Mutex
		seen = map[string]int{}
		wg   sync.WaitGroup
	)
	// waiters park before any signal exists
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key, err := b.Wait(ctx)
			if err != nil {
				t.Errorf("wait: %v", err)
				return
			}
			mu.Lock()
			seen[key]++
			mu.Unlock()
		}()
	}
	for i := 1; i <= n; i++ {
		require.NoError(t, b.Signal(ctx, fmt.Sprintf("yt_processing:%d", i)))
	}
	wg.Wait()

	assert.Len(t, seen, n)
	for key, count := range seen {
		assert.Equal(t, 1, count, "key %s delivered %d times", key, count)
	}
	left, err := b.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, left)
}

func TestQueueBrokerStoreFailure(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestClient(t)
	b := NewQueueBroker(c)
	mr.SetError("LOADING")

	assert.ErrorIs(t, b.Signal(ctx, "yt_processing:1"), domain.ErrStoreFailure)
	_, err := b.Wait(ctx)
	assert.ErrorIs(t, err, domain.ErrStoreFailure)
}

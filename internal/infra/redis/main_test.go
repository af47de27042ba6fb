package redis

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

// newTestClient starts an in-process redis server for one test.
func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := &Client{cli: redis.NewClient(&redis.Options{Addr: mr.Addr(), PoolSize: 64})}
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

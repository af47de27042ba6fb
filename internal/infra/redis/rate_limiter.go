package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

const linkRatePrefix = "link_rate:"

// LinkLimiter caps how many links one user may submit per window.
type LinkLimiter struct {
	client *Client
}

func NewLinkLimiter(client *Client) *LinkLimiter {
	return &LinkLimiter{client: client}
}

func LinkRateKey(userID int64) string {
	return linkRatePrefix + strconv.FormatInt(userID, 10)
}

// Allow counts one submission for userID in a fixed window starting at the
// first hit and reports whether it is within limit. The window is created with
// SET NX EX in the same MULTI/EXEC as the INCR, so a counter never exists
// without a TTL.
func (l *LinkLimiter) Allow(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	key := LinkRateKey(userID)
	var incr *redis.IntCmd
	_, err := l.client.cli.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, key, 0, window)
		incr = pipe.Incr(ctx, key)
		return nil
	})
	if err != nil {
		return false, storeErr("rate limit", err)
	}
	return incr.Val() <= int64(limit), nil
}

package redis

import (
	"context"
	"errors"

	"yt-podcast-bot/internal/domain/model"
	"yt-podcast-bot/internal/domain/ports/repository"

	"github.com/go-redis/redis/v8"
)

var _ repository.QueueBroker = (*QueueBroker)(nil)

// QueueBroker is a redis list: producers LPUSH job keys, workers BRPOP them,
// which serves signals in push order.
type QueueBroker struct {
	client *Client
	key    string
}

func NewQueueBroker(client *Client) *QueueBroker {
	return &QueueBroker{client: client, key: model.JobKeyPrefix}
}

func (b *QueueBroker) Signal(ctx context.Context, jobKey string) error {
	if err := b.client.cli.LPush(ctx, b.key, jobKey).Err(); err != nil {
		return storeErr("signal", err)
	}
	return nil
}

// signal queues the push on a pipeline so it commits together with the job record.
func (b *QueueBroker) signal(ctx context.Context, pipe redis.Pipeliner, jobKey string) {
	pipe.LPush(ctx, b.key, jobKey)
}

func (b *QueueBroker) Wait(ctx context.Context) (string, error) {
	// timeout 0: block until a signal arrives
	res, err := b.client.cli.BRPop(ctx, 0, b.key).Result()
	if err != nil {
		return "", storeErr("wait", err)
	}
	if len(res) != 2 {
		return "", storeErr("wait", errors.New("unexpected BRPOP reply"))
	}
	return res[1], nil
}

// Len reports how many signals are waiting to be consumed.
func (b *QueueBroker) Len(ctx context.Context) (int64, error) {
	n, err := b.client.cli.LLen(ctx, b.key).Result()
	if err != nil {
		return 0, storeErr("queue length", err)
	}
	return n, nil
}

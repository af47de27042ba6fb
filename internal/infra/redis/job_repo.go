package redis

import (
	"context"
	"strconv"

	"yt-podcast-bot/internal/domain"
	"yt-podcast-bot/internal/domain/model"
	"yt-podcast-bot/internal/domain/ports/repository"

	"github.com/go-redis/redis/v8"
)

var _ repository.JobRepository = (*JobRepo)(nil)

const nextJobIDKey = "next_processing_id"

// JobRepo keeps job records as hashes under yt_processing:<id>.
type JobRepo struct {
	client *Client
	broker *QueueBroker
}

func NewJobRepo(client *Client, broker *QueueBroker) *JobRepo {
	return &JobRepo{client: client, broker: broker}
}

// Create allocates an id with INCR, then writes the hash and pushes its signal
// in one MULTI/EXEC so a worker never sees a signal without a record or the reverse.
func (r *JobRepo) Create(ctx context.Context, job *model.Job) (int64, error) {
	id, err := r.client.Incr(ctx, nextJobIDKey)
	if err != nil {
		return 0, storeErr("allocate job id", err)
	}
	key := model.JobKey(id)

	_, err = r.client.cli.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			"user_id", strconv.FormatInt(job.UserID, 10),
			"chat_id", strconv.FormatInt(job.ChatID, 10),
			"url", job.URL,
		)
		r.broker.signal(ctx, pipe, key)
		return nil
	})
	if err != nil {
		return 0, storeErr("write job", err)
	}
	job.ID = id
	return id, nil
}

func (r *JobRepo) Fetch(ctx context.Context, id int64) (*model.Job, error) {
	vals, err := r.client.cli.HMGet(ctx, model.JobKey(id), "user_id", "chat_id", "url").Result()
	if err != nil {
		return nil, storeErr("fetch job", err)
	}
	if len(vals) != 3 {
		return nil, domain.ErrJobNotFound
	}
	fields := make([]string, 3)
	for i, v := range vals {
		s, ok := v.(string)
		if !ok || s == "" {
			return nil, domain.ErrJobNotFound
		}
		fields[i] = s
	}
	userID, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return nil, domain.ErrJobNotFound
	}
	chatID, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return nil, domain.ErrJobNotFound
	}
	return &model.Job{ID: id, UserID: userID, ChatID: chatID, URL: fields[2]}, nil
}

func (r *JobRepo) Remove(ctx context.Context, id int64) error {
	if _, err := r.client.Del(ctx, model.JobKey(id)); err != nil {
		return storeErr("remove job", err)
	}
	return nil
}

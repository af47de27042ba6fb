package repository

import (
	"context"

	"yt-podcast-bot/internal/domain/model"
)

type JobRepository interface {
	// Create allocates the next job id, writes the record and signals the queue.
	// The record and its signal are written together or not at all.
	Create(ctx context.Context, job *model.Job) (int64, error)
	// Fetch returns domain.ErrJobNotFound for missing or malformed records.
	Fetch(ctx context.Context, id int64) (*model.Job, error)
	Remove(ctx context.Context, id int64) error
}

package worker

import (
	"context"
	"fmt"
	"time"

	"yt-podcast-bot/internal/domain/model"
	"yt-podcast-bot/internal/domain/ports/adapter"
	"yt-podcast-bot/internal/domain/ports/repository"
	"yt-podcast-bot/internal/infra/logging"
	"yt-podcast-bot/internal/infra/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Translator renders the progress messages sent to the chat.
type Translator interface {
	T(key string, args ...interface{}) string
}

// JobProcessor runs download and upload for one admitted job and reports
// progress to the job's chat.
type JobProcessor struct {
	jobs           repository.JobRepository
	tokens         repository.TokenRepository
	downloader     adapter.Downloader
	uploader       adapter.Uploader
	bot            adapter.TelegramBotAdapter
	t              Translator
	notifyFailures bool
	log            *zerolog.Logger
}

func NewJobProcessor(
	jobs repository.JobRepository,
	tokens repository.TokenRepository,
	downloader adapter.Downloader,
	uploader adapter.Uploader,
	bot adapter.TelegramBotAdapter,
	t Translator,
	notifyFailures bool,
	logger *zerolog.Logger,
) *JobProcessor {
	l := logger.With().Str("component", "job_processor").Logger()
	return &JobProcessor{
		jobs:           jobs,
		tokens:         tokens,
		downloader:     downloader,
		uploader:       uploader,
		bot:            bot,
		t:              t,
		notifyFailures: notifyFailures,
		log:            &l,
	}
}

// Process never retries. A failed job keeps its record in the store.
// TODO: sweep yt_processing:<id> records left behind by failed jobs.
func (p *JobProcessor) Process(ctx context.Context, jobKey string) error {
	id, err := model.ParseJobKey(jobKey)
	if err != nil {
		p.log.Error().Err(err).Str("job_key", jobKey).Msg("malformed job key")
		metrics.IncJobProcessed("failed")
		return err
	}

	ctx = logging.WithJobID(logging.WithTraceID(ctx, uuid.NewString()), id)
	log := logging.With(ctx, p.log)
	log.Info().Msg("processing job")
	start := time.Now()

	job, err := p.handleJob(ctx, id)
	if err != nil {
		metrics.IncJobProcessed("failed")
		log.Error().Err(err).Dur("duration", time.Since(start)).Msg("job failed")
		if p.notifyFailures && job != nil {
			if nerr := p.bot.SendMessage(ctx, job.ChatID, p.t.T("job_failed")); nerr != nil {
				log.Warn().Err(nerr).Msg("failure notice not sent")
			}
		}
		return err
	}

	metrics.IncJobProcessed("completed")
	log.Info().Dur("duration", time.Since(start)).Msg("job finished")
	return nil
}

// handleJob returns the fetched job alongside any error so the caller can
// still reach the chat.
func (p *JobProcessor) handleJob(ctx context.Context, id int64) (*model.Job, error) {
	job, err := p.jobs.Fetch(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch job: %w", err)
	}
	ctx = logging.WithChatID(logging.WithUserID(ctx, job.UserID), job.ChatID)

	token, err := p.tokens.Get(ctx, job.UserID)
	if err != nil {
		return job, fmt.Errorf("token lookup: %w", err)
	}

	if err := p.bot.SendMessage(ctx, job.ChatID, p.t.T("job_downloading")); err != nil {
		return job, err
	}

	start := time.Now()
	media, err := p.downloader.Download(ctx, job.URL)
	metrics.ObserveJobStage("download", time.Since(start), err == nil)
	if err != nil {
		return job, err
	}
	logging.With(ctx, p.log).Debug().Str("title", media.Title).Str("path", media.Path).Msg("downloaded")

	if err := p.bot.SendMessage(ctx, job.ChatID, p.t.T("job_uploading")); err != nil {
		return job, err
	}

	start = time.Now()
	err = p.uploader.Upload(ctx, token, media.Title, media.Path)
	metrics.ObserveJobStage("upload", time.Since(start), err == nil)
	if err != nil {
		return job, err
	}
	if err := p.downloader.Release(media); err != nil {
		logging.With(ctx, p.log).Warn().Err(err).Str("dir", media.Dir).Msg("download dir not removed")
	}

	if err := p.bot.SendMessage(ctx, job.ChatID, p.t.T("job_done")); err != nil {
		return job, err
	}

	// the user already got "Done!", a leftover record is only logged
	if err := p.jobs.Remove(ctx, id); err != nil {
		logging.With(ctx, p.log).Warn().Err(err).Msg("job record not removed")
	}
	return job, nil
}

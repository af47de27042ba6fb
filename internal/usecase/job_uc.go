package usecase

import (
	"context"
	"errors"

	"yt-podcast-bot/internal/domain"
	"yt-podcast-bot/internal/domain/model"
	"yt-podcast-bot/internal/domain/ports/repository"
	"yt-podcast-bot/internal/infra/logging"
	"yt-podcast-bot/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ JobUseCase = (*jobUC)(nil)

// JobUseCase admits links into the work queue and hands records to workers.
type JobUseCase interface {
	Admit(ctx context.Context, userID, chatID int64, url string) (int64, error)
	Fetch(ctx context.Context, id int64) (*model.Job, error)
	Remove(ctx context.Context, id int64) error
}

type jobUC struct {
	jobs   repository.JobRepository
	tokens repository.TokenRepository
	log    *zerolog.Logger
}

func NewJobUseCase(jobs repository.JobRepository, tokens repository.TokenRepository, logger *zerolog.Logger) *jobUC {
	return &jobUC{jobs: jobs, tokens: tokens, log: logger}
}

// Admit checks the link and the user's token, then persists and signals a new job.
// Nothing is written when any check fails.
func (u *jobUC) Admit(ctx context.Context, userID, chatID int64, url string) (int64, error) {
	defer logging.TraceDuration(u.log, "JobUC.Admit")()

	id, err := u.admit(ctx, userID, chatID, url)
	metrics.IncJobAdmitted(admitResult(err))
	if err != nil {
		if isAdmissionError(err) {
			u.log.Debug().Err(err).Int64("user_id", userID).Msg("link rejected")
		} else {
			u.log.Error().Err(err).Int64("user_id", userID).Msg("admit job")
		}
		return 0, err
	}
	u.log.Info().Int64("job_id", id).Int64("user_id", userID).Int64("chat_id", chatID).Msg("job admitted")
	return id, nil
}

func (u *jobUC) admit(ctx context.Context, userID, chatID int64, url string) (int64, error) {
	if !model.IsYouTubeURL(url) {
		return 0, domain.ErrInvalidURL
	}

	token, err := u.tokens.Get(ctx, userID)
	switch {
	case errors.Is(err, domain.ErrTokenNotFound):
		return 0, domain.ErrEmptyToken
	case err != nil:
		return 0, err
	case token == "":
		return 0, domain.ErrEmptyToken
	case !model.IsValidTokenFormat(token):
		return 0, domain.ErrInvalidTokenFormat
	}

	job, err := model.NewJob(userID, chatID, url)
	if err != nil {
		return 0, err
	}
	return u.jobs.Create(ctx, job)
}

func (u *jobUC) Fetch(ctx context.Context, id int64) (*model.Job, error) {
	return u.jobs.Fetch(ctx, id)
}

func (u *jobUC) Remove(ctx context.Context, id int64) error {
	return u.jobs.Remove(ctx, id)
}

func admitResult(err error) string {
	switch {
	case err == nil:
		return "accepted"
	case errors.Is(err, domain.ErrEmptyToken):
		return "empty_token"
	case errors.Is(err, domain.ErrInvalidTokenFormat):
		return "invalid_token"
	case errors.Is(err, domain.ErrInvalidURL):
		return "invalid_url"
	case errors.Is(err, domain.ErrStoreFailure):
		return "store_failure"
	default:
		return "error"
	}
}

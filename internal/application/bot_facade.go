package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"yt-podcast-bot/internal/domain"
	"yt-podcast-bot/internal/domain/model"
	"yt-podcast-bot/internal/infra/logging"
	"yt-podcast-bot/internal/infra/metrics"
	"yt-podcast-bot/internal/usecase"

	"github.com/rs/zerolog"
)

// BotFacade composes usecases into high-level bot commands.
// Keep the facade methods returning strings so the Telegram adapter just forwards them to the chat.
type BotFacade struct {
	Tokens   TokenUseCaseIface
	Dialogue DialogueUseCaseIface
	Cache    CachePurger
	T        Translator

	log *zerolog.Logger
	now func() time.Time
}

// NewBotFacade constructs a facade. cache may be nil, /deletecache then reports a failure.
func NewBotFacade(tokens TokenUseCaseIface, dialogue DialogueUseCaseIface, cache CachePurger, t Translator, logger *zerolog.Logger) *BotFacade {
	return &BotFacade{
		Tokens:   tokens,
		Dialogue: dialogue,
		Cache:    cache,
		T:        t,
		log:      logger,
		now:      time.Now,
	}
}

// IsLink reports whether free text should be handled as a link submission.
func IsLink(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "http")
}

// HandleStart is open to everyone and ends any pending token capture.
func (b *BotFacade) HandleStart(ctx context.Context, chatID int64) string {
	b.reset(ctx, chatID)
	return b.T.T("welcome_message")
}

func (b *BotFacade) HandleID(ctx context.Context, chatID, userID int64) string {
	b.reset(ctx, chatID)
	return b.T.T("user_id", userID)
}

// HandleAuth starts token capture. Issuing it again while waiting just re-prompts.
func (b *BotFacade) HandleAuth(ctx context.Context, chatID int64) string {
	if err := b.Dialogue.BeginTokenCapture(ctx, chatID); err != nil {
		b.logger(ctx).Error().Err(err).Msg("begin token capture")
		return b.T.T("error_generic")
	}
	return b.T.T("auth_prompt")
}

func (b *BotFacade) HandleCancel(ctx context.Context, chatID int64) string {
	pending, err := b.Dialogue.Cancel(ctx, chatID)
	if err != nil {
		b.logger(ctx).Error().Err(err).Msg("cancel dialogue")
		return b.T.T("error_generic")
	}
	if !pending {
		return b.T.T("auth_nothing_to_cancel")
	}
	return b.T.T("auth_cancelled")
}

// HandleClear removes the caller's token.
func (b *BotFacade) HandleClear(ctx context.Context, chatID, userID int64) string {
	b.reset(ctx, chatID)
	removed, err := b.Tokens.Delete(ctx, userID)
	switch {
	case err != nil:
		b.logger(ctx).Error().Err(err).Msg("clear token")
		return b.T.T("token_remove_failed")
	case !removed:
		return b.T.T("token_nothing_to_remove")
	default:
		return b.T.T("token_removed")
	}
}

// HandleText routes free text: a pending token capture takes precedence,
// then links, everything else is unknown.
func (b *BotFacade) HandleText(ctx context.Context, chatID, userID int64, text string) string {
	state, err := b.Dialogue.State(ctx, chatID)
	if err != nil {
		b.logger(ctx).Error().Err(err).Msg("dialogue state")
		return b.T.T("error_generic")
	}
	if state == model.DialogueAwaitingToken {
		return b.handleToken(ctx, chatID, userID, text)
	}
	if IsLink(text) {
		return b.handleLink(ctx, chatID, userID, text)
	}
	return b.T.T("command_not_found")
}

func (b *BotFacade) handleToken(ctx context.Context, chatID, userID int64, text string) string {
	token := strings.TrimSpace(text)
	err := b.Dialogue.ReceiveToken(ctx, chatID, userID, token)
	switch {
	case errors.Is(err, domain.ErrEmptyToken):
		return b.T.T("token_empty")
	case errors.Is(err, domain.ErrInvalidTokenFormat):
		return b.T.T("token_invalid")
	case err != nil:
		b.logger(ctx).Error().Err(err).Msg("store token")
		return b.T.T("token_store_failed")
	}

	info := usecase.InspectToken(token, b.now())
	switch {
	case info.HasExpiry && info.Expired:
		b.logger(ctx).Warn().Time("expires_at", info.ExpiresAt).Msg("stored token is already expired")
		return b.T.T("token_saved_expired", info.ExpiresAt.UTC().Format(time.DateOnly))
	case info.HasExpiry:
		return b.T.T("token_saved_expires", info.ExpiresAt.UTC().Format(time.DateOnly))
	default:
		return b.T.T("token_saved")
	}
}

func (b *BotFacade) handleLink(ctx context.Context, chatID, userID int64, text string) string {
	_, err := b.Dialogue.SubmitLink(ctx, chatID, userID, strings.TrimSpace(text))
	switch {
	case err == nil:
		return b.T.T("link_queued")
	case errors.Is(err, domain.ErrInvalidURL):
		return b.T.T("link_invalid_url")
	case errors.Is(err, domain.ErrEmptyToken):
		return b.T.T("link_needs_token")
	case errors.Is(err, domain.ErrInvalidTokenFormat):
		return b.T.T("link_invalid_token")
	default:
		b.logger(ctx).Error().Err(err).Msg("submit link")
		return b.T.T("link_failed")
	}
}

// HandleDeleteCache wipes the downloader cache. Admin only, enforced by the router.
func (b *BotFacade) HandleDeleteCache(ctx context.Context) string {
	if b.Cache == nil {
		return b.T.T("admin_cache_failed")
	}
	n, err := b.Cache.PurgeCache()
	if err != nil {
		b.logger(ctx).Error().Err(err).Msg("purge cache")
		return b.T.T("admin_cache_failed")
	}
	metrics.AddCachePruned(n)
	b.logger(ctx).Info().Int("entries", n).Msg("cache purged")
	return b.T.T("admin_cache_cleared")
}

func (b *BotFacade) reset(ctx context.Context, chatID int64) {
	if err := b.Dialogue.Reset(ctx, chatID); err != nil {
		b.logger(ctx).Warn().Err(err).Msg("reset dialogue")
	}
}

func (b *BotFacade) logger(ctx context.Context) *zerolog.Logger {
	return logging.With(ctx, b.log)
}

package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"yt-podcast-bot/internal/application"
	"yt-podcast-bot/internal/config"
	"yt-podcast-bot/internal/domain"
	"yt-podcast-bot/internal/domain/ports/adapter"
	"yt-podcast-bot/internal/infra/logging"
	"yt-podcast-bot/internal/infra/metrics"
	red "yt-podcast-bot/internal/infra/redis"
)

var _ adapter.TelegramBotAdapter = (*RealTelegramBotAdapter)(nil)

// sender is the part of tgbotapi.BotAPI used to talk back to Telegram.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Translator interface {
	T(key string, args ...interface{}) string
}

// RealTelegramBotAdapter uses tgbotapi to poll updates and delegates to BotFacade.
type RealTelegramBotAdapter struct {
	api         *tgbotapi.BotAPI
	client      sender
	cfg         *config.BotConfig
	facade      *application.BotFacade
	rateLimiter *red.LinkLimiter
	translator  Translator
	log         *zerolog.Logger

	adminIDsMap   map[int64]struct{}
	trustedIDsMap map[int64]struct{}
	updateWorkers int
	cancelPolling context.CancelFunc
}

func NewRealTelegramBotAdapter(cfg *config.BotConfig, facade *application.BotFacade, rateLimiter *red.LinkLimiter, translator Translator, logger *zerolog.Logger) (*RealTelegramBotAdapter, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	if facade == nil {
		return nil, errors.New("bot facade is nil")
	}

	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}

	r := newAdapter(api, cfg, facade, rateLimiter, translator, logger)
	r.api = api
	r.log.Info().Str("username", api.Self.UserName).Msg("telegram bot authorized")
	return r, nil
}

func newAdapter(client sender, cfg *config.BotConfig, facade *application.BotFacade, rateLimiter *red.LinkLimiter, translator Translator, logger *zerolog.Logger) *RealTelegramBotAdapter {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}
	l := logger.With().Str("component", "telegram").Logger()
	return &RealTelegramBotAdapter{
		client:        client,
		cfg:           cfg,
		facade:        facade,
		rateLimiter:   rateLimiter,
		translator:    translator,
		log:           &l,
		adminIDsMap:   idSet(cfg.AdminIDs),
		trustedIDsMap: idSet(cfg.TrustedIDs),
		updateWorkers: workers,
	}
}

func idSet(ids []int64) map[int64]struct{} {
	m := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}

// StartPolling blocks until ctx is cancelled or StopPolling is called.
func (r *RealTelegramBotAdapter) StartPolling(ctx context.Context) error {
	if r.api == nil {
		return errors.New("telegram api not initialised")
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.api.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	r.cancelPolling = cancel

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < r.updateWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for up := range updateChan {
				if err := r.handleUpdate(ctx, up); err != nil {
					r.log.Error().Err(err).Int("update_worker", id).Int("update_id", up.UpdateID).Msg("update failed")
				}
			}
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			r.api.StopReceivingUpdates()
			close(updateChan)
			wg.Wait()
			return ctx.Err()
		case up, ok := <-updates:
			if !ok {
				close(updateChan)
				wg.Wait()
				return nil
			}
			updateChan <- up
		}
	}
}

func (r *RealTelegramBotAdapter) StopPolling() {
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

// SendMessage is the messaging gateway used by the job workers.
func (r *RealTelegramBotAdapter) SendMessage(ctx context.Context, chatID int64, text string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := r.client.Send(msg); err != nil {
		metrics.IncSendFailure()
		return fmt.Errorf("%w: send to %d: %w", domain.ErrGatewayFailure, chatID, err)
	}
	return nil
}

// SetMenuCommands publishes the user command list shown by Telegram clients.
func (r *RealTelegramBotAdapter) SetMenuCommands(ctx context.Context) error {
	cmds := []tgbotapi.BotCommand{
		{Command: "start", Description: r.translator.T("cmd_start")},
		{Command: "id", Description: r.translator.T("cmd_id")},
		{Command: "auth", Description: r.translator.T("cmd_auth")},
		{Command: "clear", Description: r.translator.T("cmd_clear")},
		{Command: "cancel", Description: r.translator.T("cmd_cancel")},
	}
	if _, err := r.client.Request(tgbotapi.NewSetMyCommands(cmds...)); err != nil {
		return fmt.Errorf("%w: set commands: %w", domain.ErrGatewayFailure, err)
	}
	return nil
}

// PublishCommands registers the command menu once at boot. A failure is only
// logged; the bot works without a menu.
func (r *RealTelegramBotAdapter) PublishCommands(ctx context.Context) bool {
	if err := r.SetMenuCommands(ctx); err != nil {
		r.log.Warn().Err(err).Msg("could not register bot commands")
		return false
	}
	r.log.Info().Msg("bot commands registered")
	return true
}

func (r *RealTelegramBotAdapter) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return nil
	}

	ctx = logging.WithTraceID(ctx, uuid.NewString())
	ctx = logging.WithChatID(logging.WithUserID(ctx, msg.From.ID), msg.Chat.ID)
	log := logging.With(ctx, r.log)

	start := time.Now()
	defer func() {
		log.Debug().Dur("duration", time.Since(start)).Msg("update handled")
	}()

	if msg.IsCommand() {
		cmd := strings.ToLower(msg.Command())
		metrics.IncTelegramCommand("/" + cmd)
		if h, ok := r.commandRoutes()[cmd]; ok {
			return h(ctx, msg)
		}
		return r.SendMessage(ctx, msg.Chat.ID, r.translator.T("command_not_found"))
	}

	if msg.Text == "" {
		return nil
	}
	if !r.isTrusted(msg.From.ID) {
		metrics.IncUnauthorized()
		log.Info().Msg("message from untrusted user")
		return r.SendMessage(ctx, msg.Chat.ID, r.translator.T("error_unauthorized"))
	}
	if application.IsLink(msg.Text) && !r.allowLink(ctx, msg.From.ID) {
		return r.SendMessage(ctx, msg.Chat.ID, r.translator.T("rate_limited"))
	}
	return r.SendMessage(ctx, msg.Chat.ID, r.facade.HandleText(ctx, msg.Chat.ID, msg.From.ID, msg.Text))
}

// allowLink applies the per-user link budget. Limiter errors let the link through.
func (r *RealTelegramBotAdapter) allowLink(ctx context.Context, userID int64) bool {
	if r.rateLimiter == nil || r.cfg.RateLimitPerMinute <= 0 {
		return true
	}
	allowed, err := r.rateLimiter.Allow(ctx, userID, r.cfg.RateLimitPerMinute, time.Minute)
	if err != nil {
		logging.With(ctx, r.log).Warn().Err(err).Msg("rate limiter unavailable")
		return true
	}
	if !allowed {
		metrics.IncRateLimitTriggered()
	}
	return allowed
}

// isTrusted is true for trusted users and admins.
func (r *RealTelegramBotAdapter) isTrusted(userID int64) bool {
	if _, ok := r.trustedIDsMap[userID]; ok {
		return true
	}
	return r.isAdmin(userID)
}

func (r *RealTelegramBotAdapter) isAdmin(userID int64) bool {
	_, ok := r.adminIDsMap[userID]
	return ok
}

package telegram

import (
	"context"

	"yt-podcast-bot/internal/infra/logging"
	"yt-podcast-bot/internal/infra/metrics"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type commandHandler func(ctx context.Context, message *tgbotapi.Message) error

// commandRoutes defines all available bot commands and their handlers.
func (r *RealTelegramBotAdapter) commandRoutes() map[string]commandHandler {
	return map[string]commandHandler{
		"start": r.handleStartCommand,
		"id":    r.handleIDCommand,

		"auth":   r.trustedOnly(r.handleAuthCommand),
		"clear":  r.trustedOnly(r.handleClearCommand),
		"cancel": r.trustedOnly(r.handleCancelCommand),

		// These handlers are wrapped in our adminOnly middleware.
		"setcommands": r.adminOnly(r.handleSetCommandsCommand),
		"deletecache": r.adminOnly(r.handleDeleteCacheCommand),
	}
}

func (r *RealTelegramBotAdapter) trustedOnly(next commandHandler) commandHandler {
	return func(ctx context.Context, message *tgbotapi.Message) error {
		if !r.isTrusted(message.From.ID) {
			metrics.IncUnauthorized()
			return r.SendMessage(ctx, message.Chat.ID, r.translator.T("error_unauthorized"))
		}
		return next(ctx, message)
	}
}

func (r *RealTelegramBotAdapter) adminOnly(next commandHandler) commandHandler {
	return func(ctx context.Context, message *tgbotapi.Message) error {
		if !r.isAdmin(message.From.ID) {
			metrics.IncAdminCommand("/"+message.Command(), "unauthorized")
			return r.SendMessage(ctx, message.Chat.ID, r.translator.T("error_unauthorized"))
		}
		metrics.IncAdminCommand("/"+message.Command(), "authorized")
		return next(ctx, message)
	}
}

func (r *RealTelegramBotAdapter) handleStartCommand(ctx context.Context, message *tgbotapi.Message) error {
	return r.SendMessage(ctx, message.Chat.ID, r.facade.HandleStart(ctx, message.Chat.ID))
}

func (r *RealTelegramBotAdapter) handleIDCommand(ctx context.Context, message *tgbotapi.Message) error {
	return r.SendMessage(ctx, message.Chat.ID, r.facade.HandleID(ctx, message.Chat.ID, message.From.ID))
}

func (r *RealTelegramBotAdapter) handleAuthCommand(ctx context.Context, message *tgbotapi.Message) error {
	return r.SendMessage(ctx, message.Chat.ID, r.facade.HandleAuth(ctx, message.Chat.ID))
}

func (r *RealTelegramBotAdapter) handleClearCommand(ctx context.Context, message *tgbotapi.Message) error {
	return r.SendMessage(ctx, message.Chat.ID, r.facade.HandleClear(ctx, message.Chat.ID, message.From.ID))
}

func (r *RealTelegramBotAdapter) handleCancelCommand(ctx context.Context, message *tgbotapi.Message) error {
	return r.SendMessage(ctx, message.Chat.ID, r.facade.HandleCancel(ctx, message.Chat.ID))
}

func (r *RealTelegramBotAdapter) handleSetCommandsCommand(ctx context.Context, message *tgbotapi.Message) error {
	if err := r.SetMenuCommands(ctx); err != nil {
		logging.With(ctx, r.log).Error().Err(err).Msg("set menu commands")
		return r.SendMessage(ctx, message.Chat.ID, r.translator.T("error_generic"))
	}
	return r.SendMessage(ctx, message.Chat.ID, r.translator.T("admin_commands_updated"))
}

func (r *RealTelegramBotAdapter) handleDeleteCacheCommand(ctx context.Context, message *tgbotapi.Message) error {
	return r.SendMessage(ctx, message.Chat.ID, r.facade.HandleDeleteCache(ctx))
}

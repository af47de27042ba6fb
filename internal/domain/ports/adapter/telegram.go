// File: internal/domain/ports/adapter/telegram.go
package adapter

import "context"

// TelegramBotAdapter is the messaging gateway used to report job progress back to a chat.
type TelegramBotAdapter interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

package repository

import (
	"context"

	"yt-podcast-bot/internal/domain/model"
)

// DialogueStateRepository holds the conversation mode of each chat.
// Chats without a stored state are in model.DialogueIdle.
type DialogueStateRepository interface {
	GetState(ctx context.Context, chatID int64) (model.DialogueState, error)
	SetState(ctx context.Context, chatID int64, state model.DialogueState) error
	ClearState(ctx context.Context, chatID int64) error
}

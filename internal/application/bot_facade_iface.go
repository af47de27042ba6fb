package application

import (
	"context"

	"yt-podcast-bot/internal/domain/model"
)

// ---- small interfaces to decouple the facade from concrete usecase structs ----
// These describe the minimal surface that the facade needs.

type TokenUseCaseIface interface {
	Delete(ctx context.Context, userID int64) (bool, error)
}

type DialogueUseCaseIface interface {
	State(ctx context.Context, chatID int64) (model.DialogueState, error)
	BeginTokenCapture(ctx context.Context, chatID int64) error
	ReceiveToken(ctx context.Context, chatID, userID int64, text string) error
	Cancel(ctx context.Context, chatID int64) (bool, error)
	Reset(ctx context.Context, chatID int64) error
	SubmitLink(ctx context.Context, chatID, userID int64, url string) (int64, error)
}

// CachePurger empties the download cache. Implemented by the downloader adapter.
type CachePurger interface {
	PurgeCache() (int, error)
}

// Translator renders user-facing messages.
type Translator interface {
	T(key string, args ...interface{}) string
}

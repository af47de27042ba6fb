package repository

import "context"

// TokenRepository persists one credential token per user.
type TokenRepository interface {
	// Get returns domain.ErrTokenNotFound when the user never stored a token.
	Get(ctx context.Context, userID int64) (string, error)
	Set(ctx context.Context, userID int64, token string) error
	// Delete reports whether a token was actually removed.
	Delete(ctx context.Context, userID int64) (bool, error)
}

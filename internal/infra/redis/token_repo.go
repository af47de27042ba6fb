package redis

import (
	"context"
	"errors"
	"fmt"

	"yt-podcast-bot/internal/domain"
	"yt-podcast-bot/internal/domain/ports/repository"

	"github.com/go-redis/redis/v8"
)

var _ repository.TokenRepository = (*TokenRepo)(nil)

// TokenRepo stores credential tokens under user-token:<user_id>.
type TokenRepo struct {
	client *Client
}

func NewTokenRepo(client *Client) *TokenRepo {
	return &TokenRepo{client: client}
}

func tokenKey(userID int64) string {
	return fmt.Sprintf("user-token:%d", userID)
}

func (r *TokenRepo) Get(ctx context.Context, userID int64) (string, error) {
	tok, err := r.client.Get(ctx, tokenKey(userID))
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrTokenNotFound
	}
	if err != nil {
		return "", storeErr("get token", err)
	}
	return tok, nil
}

func (r *TokenRepo) Set(ctx context.Context, userID int64, token string) error {
	if err := r.client.Set(ctx, tokenKey(userID), token, 0); err != nil {
		return storeErr("set token", err)
	}
	return nil
}

func (r *TokenRepo) Delete(ctx context.Context, userID int64) (bool, error) {
	n, err := r.client.Del(ctx, tokenKey(userID))
	if err != nil {
		return false, storeErr("delete token", err)
	}
	return n > 0, nil
}

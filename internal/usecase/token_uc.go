package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"yt-podcast-bot/internal/domain"
	"yt-podcast-bot/internal/domain/model"
	"yt-podcast-bot/internal/domain/ports/repository"
	"yt-podcast-bot/internal/infra/logging"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// Compile-time check
var _ TokenUseCase = (*tokenUC)(nil)

// TokenUseCase manages the storage-service credential of each user.
type TokenUseCase interface {
	Set(ctx context.Context, userID int64, token string) error
	Get(ctx context.Context, userID int64) (string, error)
	Delete(ctx context.Context, userID int64) (bool, error)
}

type tokenUC struct {
	tokens repository.TokenRepository
	log    *zerolog.Logger
	dev    bool
}

// NewTokenUseCase builds the token store. dev disables redaction of tokens in logs.
func NewTokenUseCase(tokens repository.TokenRepository, logger *zerolog.Logger, dev bool) *tokenUC {
	return &tokenUC{tokens: tokens, log: logger, dev: dev}
}

func (u *tokenUC) Set(ctx context.Context, userID int64, token string) error {
	defer logging.TraceDuration(u.log, "TokenUC.Set")()

	if token == "" {
		return domain.ErrEmptyToken
	}
	if !model.IsValidTokenFormat(token) {
		u.log.Debug().Int64("user_id", userID).Str("token", logging.Redact(token, u.dev)).Msg("rejected token format")
		return domain.ErrInvalidTokenFormat
	}
	if err := u.tokens.Set(ctx, userID, token); err != nil {
		u.log.Error().Err(err).Int64("user_id", userID).Msg("store token")
		return err
	}
	u.log.Info().Int64("user_id", userID).Str("token", logging.Redact(token, u.dev)).Msg("token stored")
	return nil
}

// Get returns domain.ErrTokenNotFound when nothing is stored for the user.
func (u *tokenUC) Get(ctx context.Context, userID int64) (string, error) {
	return u.tokens.Get(ctx, userID)
}

// Delete is idempotent; removed is false when the user had no token.
func (u *tokenUC) Delete(ctx context.Context, userID int64) (bool, error) {
	removed, err := u.tokens.Delete(ctx, userID)
	if err != nil {
		u.log.Error().Err(err).Int64("user_id", userID).Msg("delete token")
		return false, err
	}
	if removed {
		u.log.Info().Int64("user_id", userID).Msg("token removed")
	}
	return removed, nil
}

// TokenInfo is what can be read from a token without verifying it.
type TokenInfo struct {
	ExpiresAt time.Time
	HasExpiry bool
	Expired   bool
}

// InspectToken reads the exp claim of a JWT-shaped token. The signature is not
// checked; tokens that cannot be decoded yield an empty TokenInfo.
func InspectToken(token string, now time.Time) TokenInfo {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(strings.TrimSpace(token), claims); err != nil {
		return TokenInfo{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return TokenInfo{}
	}
	return TokenInfo{
		ExpiresAt: exp.Time,
		HasExpiry: true,
		Expired:   !exp.Time.After(now),
	}
}

// isAdmissionError reports errors that describe the request rather than a fault.
func isAdmissionError(err error) bool {
	return errors.Is(err, domain.ErrEmptyToken) ||
		errors.Is(err, domain.ErrInvalidTokenFormat) ||
		errors.Is(err, domain.ErrInvalidURL)
}

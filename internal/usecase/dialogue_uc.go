package usecase

import (
	"context"

	"yt-podcast-bot/internal/domain/model"
	"yt-podcast-bot/internal/domain/ports/repository"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ DialogueUseCase = (*dialogueUC)(nil)

// DialogueUseCase drives the per-chat conversation: Idle, or waiting for the
// next message to be a token.
type DialogueUseCase interface {
	State(ctx context.Context, chatID int64) (model.DialogueState, error)
	BeginTokenCapture(ctx context.Context, chatID int64) error
	// ReceiveToken stores text as the user's token. The chat returns to Idle
	// only when the token was stored.
	ReceiveToken(ctx context.Context, chatID, userID int64, text string) error
	// Cancel reports whether a token capture was actually pending.
	Cancel(ctx context.Context, chatID int64) (bool, error)
	Reset(ctx context.Context, chatID int64) error
	SubmitLink(ctx context.Context, chatID, userID int64, url string) (int64, error)
}

type dialogueUC struct {
	states repository.DialogueStateRepository
	tokens TokenUseCase
	jobs   JobUseCase
	log    *zerolog.Logger
}

func NewDialogueUseCase(states repository.DialogueStateRepository, tokens TokenUseCase, jobs JobUseCase, logger *zerolog.Logger) *dialogueUC {
	return &dialogueUC{states: states, tokens: tokens, jobs: jobs, log: logger}
}

func (u *dialogueUC) State(ctx context.Context, chatID int64) (model.DialogueState, error) {
	return u.states.GetState(ctx, chatID)
}

func (u *dialogueUC) BeginTokenCapture(ctx context.Context, chatID int64) error {
	u.log.Debug().Int64("chat_id", chatID).Msg("awaiting token")
	return u.states.SetState(ctx, chatID, model.DialogueAwaitingToken)
}

func (u *dialogueUC) ReceiveToken(ctx context.Context, chatID, userID int64, text string) error {
	if err := u.tokens.Set(ctx, userID, text); err != nil {
		return err
	}
	return u.states.ClearState(ctx, chatID)
}

func (u *dialogueUC) Cancel(ctx context.Context, chatID int64) (bool, error) {
	st, err := u.states.GetState(ctx, chatID)
	if err != nil {
		return false, err
	}
	if err := u.states.ClearState(ctx, chatID); err != nil {
		return false, err
	}
	return st == model.DialogueAwaitingToken, nil
}

func (u *dialogueUC) Reset(ctx context.Context, chatID int64) error {
	return u.states.ClearState(ctx, chatID)
}

func (u *dialogueUC) SubmitLink(ctx context.Context, chatID, userID int64, url string) (int64, error) {
	return u.jobs.Admit(ctx, userID, chatID, url)
}

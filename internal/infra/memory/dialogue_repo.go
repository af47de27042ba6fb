// Package memory keeps per-process state that does not need to survive a restart.
package memory

import (
	"context"
	"sync"

	"yt-podcast-bot/internal/domain/model"
	"yt-podcast-bot/internal/domain/ports/repository"
)

var _ repository.DialogueStateRepository = (*DialogueRepo)(nil)

// DialogueRepo stores the dialogue mode per chat. Idle chats are not stored.
type DialogueRepo struct {
	mu     sync.RWMutex
	states map[int64]model.DialogueState
}

func NewDialogueRepo() *DialogueRepo {
	return &DialogueRepo{states: make(map[int64]model.DialogueState)}
}

func (r *DialogueRepo) GetState(_ context.Context, chatID int64) (model.DialogueState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.states[chatID]; ok {
		return s, nil
	}
	return model.DialogueIdle, nil
}

func (r *DialogueRepo) SetState(_ context.Context, chatID int64, state model.DialogueState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if state == model.DialogueIdle || state == "" {
		delete(r.states, chatID)
		return nil
	}
	r.states[chatID] = state
	return nil
}

func (r *DialogueRepo) ClearState(_ context.Context, chatID int64) error {
	r.mu.Lock()
	delete(r.states, chatID)
	r.mu.Unlock()
	return nil
}

// Len is the number of chats currently outside the idle state.
func (r *DialogueRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.states)
}

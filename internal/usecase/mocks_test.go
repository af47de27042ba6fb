package usecase_test

import (
	"context"
	"sync"

	"yt-podcast-bot/internal/domain"
	"yt-podcast-bot/internal/domain/model"
	"yt-podcast-bot/internal/infra/logging"

	"github.com/rs/zerolog"
)

func newTestLogger() *zerolog.Logger { return logging.Nop() }

// memTokenRepo is a small in-memory token store used by unit tests.
type memTokenRepo struct {
	mu     sync.Mutex
	store  map[int64]string
	setErr error
	getErr error
}

func newMemTokenRepo() *memTokenRepo {
	return &memTokenRepo{store: make(map[int64]string)}
}

func (m *memTokenRepo) Get(_ context.Context, userID int64) (string, error) {
	if m.getErr != nil {
		return "", m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.store[userID]
	if !ok {
		return "", domain.ErrTokenNotFound
	}
	return t, nil
}

func (m *memTokenRepo) Set(_ context.Context, userID int64, token string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.mu.Lock()
	m.store[userID] = token
	m.mu.Unlock()
	return nil
}

func (m *memTokenRepo) Delete(_ context.Context, userID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.store[userID]
	delete(m.store, userID)
	return ok, nil
}

// memJobRepo records created jobs and the order their signals were sent.
type memJobRepo struct {
	mu        sync.Mutex
	nextID    int64
	jobs      map[int64]model.Job
	signals   []string
	createErr error
}

func newMemJobRepo() *memJobRepo {
	return &memJobRepo{jobs: make(map[int64]model.Job)}
}

func (m *memJobRepo) Create(_ context.Context, job *model.Job) (int64, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	job.ID = m.nextID
	m.jobs[job.ID] = *job
	m.signals = append(m.signals, job.Key())
	return job.ID, nil
}

func (m *memJobRepo) Fetch(_ context.Context, id int64) (*model.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	return &j, nil
}

func (m *memJobRepo) Remove(_ context.Context, id int64) error {
	m.mu.Lock()
	delete(m.jobs, id)
	m.mu.Unlock()
	return nil
}

func (m *memJobRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.jobs)
}

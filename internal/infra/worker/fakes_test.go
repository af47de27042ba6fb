package worker

import (
	"context"
	"errors"
	"sync"

	"yt-podcast-bot/internal/domain"
	"yt-podcast-bot/internal/domain/model"
	"yt-podcast-bot/internal/domain/ports/adapter"
)

var errBrokerClosed = errors.New("broker closed")

// chanBroker hands out keys from a channel. failFirst makes the first Wait
// calls fail as if the store were down.
type chanBroker struct {
	ch        chan string
	closed    chan struct{}
	closeOnce sync.Once
	mu        sync.Mutex
	failFirst int
	waits     int
}

func newChanBroker(buf int) *chanBroker {
	return &chanBroker{ch: make(chan string, buf), closed: make(chan struct{})}
}

func (b *chanBroker) Signal(_ context.Context, key string) error {
	b.ch <- key
	return nil
}

func (b *chanBroker) Wait(_ context.Context) (string, error) {
	b.mu.Lock()
	b.waits++
	if b.failFirst > 0 {
		b.failFirst--
		b.mu.Unlock()
		return "", domain.ErrStoreFailure
	}
	b.mu.Unlock()
	select {
	case k := <-b.ch:
		return k, nil
	case <-b.closed:
		return "", errBrokerClosed
	}
}

func (b *chanBroker) Close() { b.closeOnce.Do(func() { close(b.closed) }) }

// recordingProcessor remembers every key it was given.
type recordingProcessor struct {
	mu    sync.Mutex
	seen  map[string]int
	fail  map[string]bool
	panic map[string]bool
	done  chan string
}

func newRecordingProcessor() *recordingProcessor {
	return &recordingProcessor{
		seen:  map[string]int{},
		fail:  map[string]bool{},
		panic: map[string]bool{},
		done:  make(chan string, 100),
	}
}

func (p *recordingProcessor) Process(_ context.Context, key string) error {
	p.mu.Lock()
	p.seen[key]++
	fail, boom := p.fail[key], p.panic[key]
	p.mu.Unlock()
	defer func() { p.done <- key }()
	if boom {
		panic("boom")
	}
	if fail {
		return domain.ErrDownloadFailure
	}
	return nil
}

type memJobs struct {
	mu      sync.Mutex
	jobs    map[int64]model.Job
	removed []int64
}

func (m *memJobs) Create(_ context.Context, job *model.Job) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job.ID = int64(len(m.jobs) + 1)
	m.jobs[job.ID] = *job
	return job.ID, nil
}

func (m *memJobs) Fetch(_ context.Context, id int64) (*model.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	return &j, nil
}

func (m *memJobs) Remove(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.jobs, id)
	m.removed = append(m.removed, id)
	return nil
}

type memTokens map[int64]string

func (m memTokens) Get(_ context.Context, userID int64) (string, error) {
	t, ok := m[userID]
	if !ok {
		return "", domain.ErrTokenNotFound
	}
	return t, nil
}
func (m memTokens) Set(_ context.Context, userID int64, token string) error {
	m[userID] = token
	return nil
}
func (m memTokens) Delete(_ context.Context, userID int64) (bool, error) {
	_, ok := m[userID]
	delete(m, userID)
	return ok, nil
}

type fakeDownloader struct {
	result   *adapter.DownloadResult
	err      error
	urls     []string
	released []*adapter.DownloadResult
}

func (d *fakeDownloader) Download(_ context.Context, url string) (*adapter.DownloadResult, error) {
	d.urls = append(d.urls, url)
	if d.err != nil {
		return nil, d.err
	}
	return d.result, nil
}

func (d *fakeDownloader) Release(res *adapter.DownloadResult) error {
	d.released = append(d.released, res)
	return nil
}

type uploadCall struct{ token, title, path string }

type fakeUploader struct {
	calls []uploadCall
	err   error
}

func (u *fakeUploader) Upload(_ context.Context, token, title, path string) error {
	u.calls = append(u.calls, uploadCall{token, title, path})
	return u.err
}

type sentMessage struct {
	chatID int64
	text   string
}

type fakeBot struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (b *fakeBot) SendMessage(_ context.Context, chatID int64, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.sent = append(b.sent, sentMessage{chatID, text})
	return nil
}

func (b *fakeBot) texts() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.sent))
	for _, m := range b.sent {
		out = append(out, m.text)
	}
	return out
}

package telegram

import (
	"context"
	"errors"
	"sync"
	"testing"

	"yt-podcast-bot/internal/application"
	"yt-podcast-bot/internal/config"
	"yt-podcast-bot/internal/domain"
	"yt-podcast-bot/internal/domain/model"
	"yt-podcast-bot/internal/infra/i18n"
	"yt-podcast-bot/internal/infra/logging"
	"yt-podcast-bot/internal/infra/memory"
	red "yt-podcast-bot/internal/infra/redis"
	"yt-podcast-bot/internal/usecase"

	"github.com/alicebob/miniredis/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminID    = 1
	trustedID  = 2
	strangerID = 3
)

type fakeSender struct {
	mu         sync.Mutex
	texts      []string
	requests   []tgbotapi.Chattable
	sendErr    error
	requestErr error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.sendErr != nil {
		return tgbotapi.Message{}, f.sendErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.texts = append(f.texts, m.Text)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	if f.requestErr != nil {
		return nil, f.requestErr
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.texts) == 0 {
		return ""
	}
	return f.texts[len(f.texts)-1]
}

type memTokens struct {
	mu sync.Mutex
	m  map[int64]string
}

func (t *memTokens) Get(_ context.Context, id int64) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.m[id]
	if !ok {
		return "", domain.ErrTokenNotFound
	}
	return v, nil
}

func (t *memTokens) Set(_ context.Context, id int64, v string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.m[id] = v
	return nil
}

func (t *memTokens) Delete(_ context.Context, id int64) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.m[id]
	delete(t.m, id)
	return ok, nil
}

type countingJobs struct{ n int64 }

func (j *countingJobs) Create(_ context.Context, job *model.Job) (int64, error) {
	j.n++
	job.ID = j.n
	return j.n, nil
}
func (j *countingJobs) Fetch(context.Context, int64) (*model.Job, error) {
	return nil, domain.ErrJobNotFound
}
func (j *countingJobs) Remove(context.Context, int64) error { return nil }

type purger struct{ called bool }

func (p *purger) PurgeCache() (int, error) {
	p.called = true
	return 0, nil
}

type botFixture struct {
	sender *fakeSender
	tokens *memTokens
	jobs   *countingJobs
	purger *purger
	tr     *i18n.Translator
	bot    *RealTelegramBotAdapter
}

func newBotFixture(t *testing.T, limiter *red.LinkLimiter, perMinute int) *botFixture {
	t.Helper()
	tr, err := i18n.NewTranslator(i18n.LocalesFS, "en")
	require.NoError(t, err)
	log := logging.Nop()

	tokens := &memTokens{m: map[int64]string{}}
	jobs := &countingJobs{}
	p := &purger{}
	tokenUC := usecase.NewTokenUseCase(tokens, log, false)
	dialogue := usecase.NewDialogueUseCase(memory.NewDialogueRepo(), tokenUC, usecase.NewJobUseCase(jobs, tokens, log), log)
	facade := application.NewBotFacade(tokenUC, dialogue, p, tr, log)

	sender := &fakeSender{}
	cfg := &config.BotConfig{AdminIDs: []int64{adminID}, TrustedIDs: []int64{trustedID}, RateLimitPerMinute: perMinute}
	return &botFixture{
		sender: sender,
		tokens: tokens,
		jobs:   jobs,
		purger: p,
		tr:     tr,
		bot:    newAdapter(sender, cfg, facade, limiter, tr, log),
	}
}

func message(userID int64, text string) tgbotapi.Update {
	msg := &tgbotapi.Message{
		From: &tgbotapi.User{ID: userID},
		Chat: &tgbotapi.Chat{ID: userID},
		Text: text,
	}
	if len(text) > 0 && text[0] == '/' {
		n := len(text)
		for i, c := range text {
			if c == ' ' {
				n = i
				break
			}
		}
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: n}}
	}
	return tgbotapi.Update{Message: msg}
}

func (f *botFixture) send(t *testing.T, userID int64, text string) string {
	t.Helper()
	require.NoError(t, f.bot.handleUpdate(context.Background(), message(userID, text)))
	return f.sender.last()
}

func TestTrustAndAdminSets(t *testing.T) {
	f := newBotFixture(t, nil, 0)
	assert.True(t, f.bot.isTrusted(adminID), "admins are trusted")
	assert.True(t, f.bot.isTrusted(trustedID))
	assert.False(t, f.bot.isTrusted(strangerID))
	assert.True(t, f.bot.isAdmin(adminID))
	assert.False(t, f.bot.isAdmin(trustedID))
}

func TestOpenCommands(t *testing.T) {
	f := newBotFixture(t, nil, 0)
	assert.Equal(t, f.tr.T("welcome_message"), f.send(t, strangerID, "/start"))
	assert.Equal(t, "User Id: 3", f.send(t, strangerID, "/id"))
	assert.Equal(t, f.tr.T("command_not_found"), f.send(t, strangerID, "/nope"))
}

func TestUntrustedUserIsRejected(t *testing.T) {
	f := newBotFixture(t, nil, 0)
	unauthorized := f.tr.T("error_unauthorized")
	assert.Equal(t, unauthorized, f.send(t, strangerID, "/auth"))
	assert.Equal(t, unauthorized, f.send(t, strangerID, "https://youtu.be/abc"))
	assert.Equal(t, unauthorized, f.send(t, trustedID, "/deletecache"))
	assert.False(t, f.purger.called)
	assert.Zero(t, f.jobs.n)
}

func TestAuthThenLink(t *testing.T) {
	f := newBotFixture(t, nil, 0)

	assert.Equal(t, f.tr.T("auth_prompt"), f.send(t, trustedID, "/auth"))
	assert.Equal(t, f.tr.T("token_invalid"), f.send(t, trustedID, "notavalidtoken"))
	assert.Equal(t, f.tr.T("token_saved"), f.send(t, trustedID, "aaa.bbb.ccc"))
	assert.Equal(t, "Waiting to be processed...", f.send(t, trustedID, "https://youtu.be/abc"))
	assert.Equal(t, int64(1), f.jobs.n)

	assert.Equal(t, f.tr.T("token_removed"), f.send(t, trustedID, "/clear"))
	assert.Equal(t, f.tr.T("link_needs_token"), f.send(t, trustedID, "https://youtu.be/abc"))
	assert.Equal(t, f.tr.T("command_not_found"), f.send(t, trustedID, "hello"))
}

func TestAdminCommands(t *testing.T) {
	f := newBotFixture(t, nil, 0)

	assert.Equal(t, f.tr.T("admin_commands_updated"), f.send(t, adminID, "/setcommands"))
	require.Len(t, f.sender.requests, 1)
	cfg, ok := f.sender.requests[0].(tgbotapi.SetMyCommandsConfig)
	require.True(t, ok)
	assert.Len(t, cfg.Commands, 5)

	assert.Equal(t, f.tr.T("admin_cache_cleared"), f.send(t, adminID, "/deletecache"))
	assert.True(t, f.purger.called)
}

func TestLinkRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := red.NewClient(context.Background(), &config.RedisConfig{URL: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	f := newBotFixture(t, red.NewLinkLimiter(client), 2)
	f.tokens.m[trustedID] = "aaa.bbb.ccc"

	assert.Equal(t, "Waiting to be processed...", f.send(t, trustedID, "https://youtu.be/a"))
	assert.Equal(t, "Waiting to be processed...", f.send(t, trustedID, "https://youtu.be/b"))
	assert.Equal(t, f.tr.T("rate_limited"), f.send(t, trustedID, "https://youtu.be/c"))
	assert.Equal(t, int64(2), f.jobs.n)
}

func TestSendMessageWrapsGatewayFailure(t *testing.T) {
	f := newBotFixture(t, nil, 0)
	f.sender.sendErr = errors.New("Forbidden: bot was blocked by the user")
	err := f.bot.SendMessage(context.Background(), 10, "hi")
	assert.ErrorIs(t, err, domain.ErrGatewayFailure)
}

func TestIgnoresUpdatesWithoutMessage(t *testing.T) {
	f := newBotFixture(t, nil, 0)
	require.NoError(t, f.bot.handleUpdate(context.Background(), tgbotapi.Update{}))
	assert.Empty(t, f.sender.texts)
}

func TestPublishCommandsAtBoot(t *testing.T) {
	f := newBotFixture(t, nil, 0)
	assert.True(t, f.bot.PublishCommands(context.Background()))
	require.Len(t, f.sender.requests, 1)
	cfg, ok := f.sender.requests[0].(tgbotapi.SetMyCommandsConfig)
	require.True(t, ok)
	assert.Len(t, cfg.Commands, 5)

	f.sender.requestErr = errors.New("Unauthorized")
	assert.False(t, f.bot.PublishCommands(context.Background()))
	assert.ErrorIs(t, f.bot.SetMenuCommands(context.Background()), domain.ErrGatewayFailure)
}

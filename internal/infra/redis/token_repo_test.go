package redis

import (
	"context"
	"testing"

	"yt-podcast-bot/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRepo(t *testing.T) {
	ctx := context.Background()

	t.Run("get without set is not found", func(t *testing.T) {
		c, _ := newTestClient(t)
		repo := NewTokenRepo(c)

		tok, err := repo.Get(ctx, 1001)
		assert.ErrorIs(t, err, domain.ErrTokenNotFound)
		assert.Empty(t, tok)
	})

	t.Run("set overwrites and uses the user-token key", func(t *testing.T) {
		c, mr := newTestClient(t)
		repo := NewTokenRepo(c)

		require.NoError(t, repo.Set(ctx, 7, "aaa.bbb.ccc"))
		require.NoError(t, repo.Set(ctx, 7, "ddd.eee.fff"))

		got, err := repo.Get(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, "ddd.eee.fff", got)

		raw, err := mr.Get("user-token:7")
		require.NoError(t, err)
		assert.Equal(t, "ddd.eee.fff", raw)
	})

	t.Run("delete is idempotent and reports removal", func(t *testing.T) {
		c, _ := newTestClient(t)
		repo := NewTokenRepo(c)

		removed, err := repo.Delete(ctx, 9)
		require.NoError(t, err)
		assert.False(t, removed)
		removed, err = repo.Delete(ctx, 9)
		require.NoError(t, err)
		assert.False(t, removed)

		require.NoError(t, repo.Set(ctx, 9, "aaa.bbb.ccc"))
		removed, err = repo.Delete(ctx, 9)
		require.NoError(t, err)
		assert.True(t, removed)

		_, err = repo.Get(ctx, 9)
		assert.ErrorIs(t, err, domain.ErrTokenNotFound)
	})

	t.Run("users are isolated", func(t *testing.T) {
		c, _ := newTestClient(t)
		repo := NewTokenRepo(c)

		require.NoError(t, repo.Set(ctx, 1, "aaa.bbb.ccc"))
		_, err := repo.Get(ctx, 2)
		assert.ErrorIs(t, err, domain.ErrTokenNotFound)
	})

	t.Run("backend errors are store failures", func(t *testing.T) {
		c, mr := newTestClient(t)
		repo := NewTokenRepo(c)
		mr.SetError("LOADING")

		_, err := repo.Get(ctx, 1)
		assert.ErrorIs(t, err, domain.ErrStoreFailure)
		assert.ErrorIs(t, repo.Set(ctx, 1, "aaa.bbb.ccc"), domain.ErrStoreFailure)
		_, err = repo.Delete(ctx, 1)
		assert.ErrorIs(t, err, domain.ErrStoreFailure)
	})
}

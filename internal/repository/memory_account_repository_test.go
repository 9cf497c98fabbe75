package repository

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accounts/internal/models"
)

func TestMemoryCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAccountRepository()

	a := &models.Account{ID: "1", Email: "a@x.com", VerifyTokenHash: "v"}
	require.NoError(t, repo.Create(ctx, a))

	got, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "1", got.ID)

	got, err = repo.GetByVerifyToken(ctx, "v")
	require.NoError(t, err)
	assert.Equal(t, "1", got.ID)

	_, err = repo.GetByEmail(ctx, "A@x.com")
	assert.ErrorIs(t, err, ErrNotFound, "emails match exactly")

	_, err = repo.GetByVerifyToken(ctx, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAccountRepository()
	require.NoError(t, repo.Create(ctx, &models.Account{ID: "1", Email: "a@x.com"}))

	got, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	got.EmailVerified = true

	again, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.False(t, again.EmailVerified, "mutating a read must not change stored state")
}

func TestMemoryUpdateReindexesVerifyToken(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAccountRepository()
	require.NoError(t, repo.Create(ctx, &models.Account{ID: "1", Email: "a@x.com", VerifyTokenHash: "v"}))

	a, err := repo.GetByVerifyToken(ctx, "v")
	require.NoError(t, err)
	a.ClearVerifyToken()
	a.EmailVerified = true
	require.NoError(t, repo.Update(ctx, a))

	_, err = repo.GetByVerifyToken(ctx, "v")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.Update(ctx, &models.Account{ID: "ghost"}), ErrNotFound)
}

func TestMemoryConcurrentCreateSameEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAccountRepository()

	var (
		wg      sync.WaitGroup
		created atomic.Int32
		dupes   atomic.Int32
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := repo.Create(ctx, &models.Account{ID: fmt.Sprint(i), Email: "race@x.com"})
			switch err {
			case nil:
				created.Add(1)
			case ErrDuplicate:
				dupes.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, created.Load())
	assert.EqualValues(t, 49, dupes.Load())
	assert.Equal(t, 1, repo.Len())
}

func TestMemoryUpdateRejectsStaleSnapshot(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAccountRepository()
	require.NoError(t, repo.Create(ctx, &models.Account{ID: "1", Email: "a@x.com", VerifyTokenHash: "v"}))

	first, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	second, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)

	first.EmailVerified = true
	first.ClearVerifyToken()
	require.NoError(t, repo.Update(ctx, first))
	assert.EqualValues(t, 1, first.Version)

	second.ResetTokenHash = "r"
	assert.ErrorIs(t, repo.Update(ctx, second), ErrStale)

	stored, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.True(t, stored.EmailVerified, "stale write must not undo the verification")
	assert.Empty(t, stored.ResetTokenHash)
}

func TestMemoryDuplicateVerifyToken(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAccountRepository()
	require.NoError(t, repo.Create(ctx, &models.Account{ID: "1", Email: "a@x.com", VerifyTokenHash: "v"}))

	err := repo.Create(ctx, &models.Account{ID: "2", Email: "b@x.com", VerifyTokenHash: "v"})
	assert.ErrorIs(t, err, ErrDuplicateToken)
	assert.Equal(t, 1, repo.Len())
}

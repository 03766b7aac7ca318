package auth

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHash_RoundTrip(t *testing.T) {
	h, err := NewPasswordHasher(bcrypt.MinCost, 2)
	require.NoError(t, err)
	ctx := context.Background()

	hash, err := h.Hash(ctx, "Passw0rd!")
	require.NoError(t, err)
	assert.NotEqual(t, "Passw0rd!", hash)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)

	assert.NoError(t, h.Verify(ctx, hash, "Passw0rd!"))
	assert.ErrorIs(t, h.Verify(ctx, hash, "wrong-password"), bcrypt.ErrMismatchedHashAndPassword)
}

func TestHash_LongPasswords(t *testing.T) {
	h, err := NewPasswordHasher(bcrypt.MinCost, 1)
	require.NoError(t, err)
	ctx := context.Background()

	long := strings.Repeat("a", 100)
	hash, err := h.Hash(ctx, long)
	require.NoError(t, err)

	assert.NoError(t, h.Verify(ctx, hash, long))
	// bytes past 72 still matter
	assert.ErrorIs(t, h.Verify(ctx, hash, strings.Repeat("a", 99)+"b"), bcrypt.ErrMismatchedHashAndPassword)
	assert.ErrorIs(t, h.Verify(ctx, hash, strings.Repeat("a", 72)), bcrypt.ErrMismatchedHashAndPassword)

	exact := strings.Repeat("é", 36) // 72 bytes
	hash, err = h.Hash(ctx, exact)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte(exact)))
}

func TestHash_SaltedPerCall(t *testing.T) {
	h, err := NewPasswordHasher(bcrypt.MinCost, 1)
	require.NoError(t, err)

	a, err := h.Hash(context.Background(), "Passw0rd!")
	require.NoError(t, err)
	b, err := h.Hash(context.Background(), "Passw0rd!")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHash_HonoursContextWhileWaiting(t *testing.T) {
	h, err := NewPasswordHasher(bcrypt.MinCost, 1)
	require.NoError(t, err)

	// occupy the only slot
	require.NoError(t, h.slots.Acquire(context.Background(), 1))
	defer h.slots.Release(1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = h.Hash(ctx, "Passw0rd!")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestHash_ConcurrentCallers(t *testing.T) {
	h, err := NewPasswordHasher(bcrypt.MinCost, 2)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.Hash(context.Background(), "Passw0rd!")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestVerifyDummy_DoesNotPanic(t *testing.T) {
	h, err := NewPasswordHasher(bcrypt.MinCost, 1)
	require.NoError(t, err)
	h.VerifyDummy(context.Background(), "anything")
}

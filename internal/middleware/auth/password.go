package auth

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// bcryptMaxInput is the longest input bcrypt accepts.
const bcryptMaxInput = 72

// PasswordHasher hashes and verifies passwords with bcrypt. At most
// `concurrency` bcrypt operations run at once; further callers wait for a slot
// or for their context to end.
type PasswordHasher struct {
	cost  int
	slots *semaphore.Weighted
	// dummyHash is compared against when no stored hash exists, so a lookup
	// miss costs the same as a wrong password.
	dummyHash []byte
}

// NewPasswordHasher builds a hasher for the given bcrypt cost.
func NewPasswordHasher(cost, concurrency int) (*PasswordHasher, error) {
	if concurrency < 1 {
		concurrency = 1
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("timing-equaliser"), cost)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &PasswordHasher{
		cost:      cost,
		slots:     semaphore.NewWeighted(int64(concurrency)),
		dummyHash: dummy,
	}, nil
}

// Hash creates a salted bcrypt hash from the given plaintext password.
func (h *PasswordHasher) Hash(ctx context.Context, password string) (string, error) {
	if err := h.slots.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.slots.Release(1)

	hashedBytes, err := bcrypt.GenerateFromPassword(bcryptInput(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// Verify checks the plaintext password against the stored hash. The
// comparison is constant time; a mismatch returns bcrypt.ErrMismatchedHashAndPassword.
func (h *PasswordHasher) Verify(ctx context.Context, hashedPassword, providedPassword string) error {
	if err := h.slots.Acquire(ctx, 1); err != nil {
		return err
	}
	defer h.slots.Release(1)

	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), bcryptInput(providedPassword))
}

// VerifyDummy burns the same work as Verify without a real hash. Its result
// is always a mismatch.
func (h *PasswordHasher) VerifyDummy(ctx context.Context, providedPassword string) {
	_ = h.Verify(ctx, string(h.dummyHash), providedPassword)
}

// bcryptInput returns password unchanged when bcrypt can take it whole.
// Longer passwords are reduced to a base64 SHA-256 digest so every byte
// still counts.
func bcryptInput(password string) []byte {
	if len(password) <= bcryptMaxInput {
		return []byte(password)
	}
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

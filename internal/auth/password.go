package auth

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the work factor the shelter platform has always used.
const bcryptCost = 10

// PasswordHasher wraps bcrypt hashing and verification. It keeps a dummy
// digest around so that verification against a missing account costs the
// same as a real mismatch and login timing cannot leak account existence.
type PasswordHasher struct {
	cost  int
	dummy []byte
}

// NewPasswordHasher builds a hasher with the standard cost. The dummy
// digest is derived from a random value so it can never match a submitted
// password.
func NewPasswordHasher() (*PasswordHasher, error) {
	dummy, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcryptCost)
	if err != nil {
		return nil, err
	}
	return &PasswordHasher{cost: bcryptCost, dummy: dummy}, nil
}

// Hash returns a salted one-way digest of the plaintext. The per-call salt
// is embedded in the digest by bcrypt.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. An empty digest stands
// for "no such account": the comparison still runs, against the dummy, and
// the result is always false.
func (h *PasswordHasher) Verify(plaintext, digest string) bool {
	if digest == "" {
		_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(plaintext))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

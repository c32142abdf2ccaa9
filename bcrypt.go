package frameflow

import (
	"github.com/goliatone/go-errors"
	"golang.org/x/crypto/bcrypt"
)

// DefaultHashCost is the bcrypt cost used when no cost is configured.
const DefaultHashCost = 12

// PasswordHasher hashes and verifies passwords. Implementations must salt so
// that two hashes of the same plaintext differ, and verification must be
// constant-time with respect to the secret.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// BcryptHasher is the bcrypt-backed PasswordHasher.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher with the given cost. Costs outside
// bcrypt's supported range fall back to DefaultHashCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultHashCost
	}
	return &BcryptHasher{cost: cost}
}

// HashPassword generates a salted password hash. Failure here means the
// entropy source is exhausted and is fatal for the request, never retried.
func (b *BcryptHasher) HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "password hashing failed")
	}
	return string(h), nil
}

// ComparePasswordAndHash validates the given cleartext password against the
// hashed password. A mismatch returns ErrMismatchedHashAndPassword; it is a
// normal outcome, not a fault.
func (b *BcryptHasher) ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return errors.Wrap(err, errors.CategoryAuth, "unable to compare password and hash")
	}
	return nil
}

// HashPassword hashes with the default cost.
func HashPassword(password string) (string, error) {
	return NewBcryptHasher(DefaultHashCost).HashPassword(password)
}

// ComparePasswordAndHash validates password against hash using the default
// hasher.
func ComparePasswordAndHash(password, hash string) error {
	return NewBcryptHasher(DefaultHashCost).ComparePasswordAndHash(password, hash)
}

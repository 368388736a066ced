package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLen = 8

	// DefaultCost is the bcrypt cost used when callers have no opinion.
	DefaultCost = bcrypt.DefaultCost
)

var ErrPasswordTooShort = errors.New("password too short")

// Hasher hashes and verifies account credentials.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type hasher struct {
	cost int
}

// NewHasher returns a bcrypt-backed Hasher. Out-of-range costs fall
// back to bcrypt.DefaultCost.
func NewHasher(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &hasher{cost: cost}
}

func (h *hasher) Hash(password string) (string, error) {
	if len(password) < minPasswordLen {
		return "", ErrPasswordTooShort
	}
	out, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (h *hasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

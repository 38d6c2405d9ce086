package auth

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// KeyChecker compares login attempts against the admin key. Only the bcrypt
// hash is held in memory.
type KeyChecker struct {
	hash []byte
}

// NewKeyChecker accepts either a plain key or an existing bcrypt hash.
func NewKeyChecker(key string) (*KeyChecker, error) {
	if key == "" {
		return nil, fmt.Errorf("admin key is empty")
	}
	if isBcryptHash(key) {
		if _, err := bcrypt.Cost([]byte(key)); err != nil {
			return nil, fmt.Errorf("admin key hash: %w", err)
		}
		return &KeyChecker{hash: []byte(key)}, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin key: %w", err)
	}
	return &KeyChecker{hash: hash}, nil
}

func (k *KeyChecker) Check(candidate string) bool {
	return bcrypt.CompareHashAndPassword(k.hash, []byte(candidate)) == nil
}

func isBcryptHash(s string) bool {
	return len(s) == 60 && (strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$"))
}

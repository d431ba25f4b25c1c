package util

import (
	"fmt"
	"sync/atomic"

	"golang.org/x/crypto/bcrypt"
)

// DefaultPasswordCost is the bcrypt cost for account passwords unless
// PASSWORD_HASH_COST overrides it.
const DefaultPasswordCost = 12

var passwordCost atomic.Int64

func init() {
	passwordCost.Store(DefaultPasswordCost)
}

// SetPasswordCost changes the bcrypt cost used by HashPassword. Existing
// hashes keep verifying since bcrypt stores the cost in the hash.
func SetPasswordCost(cost int) error {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return fmt.Errorf("password hash cost must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, cost)
	}
	passwordCost.Store(int64(cost))
	return nil
}

// HashPassword hashes a customer or vendor account password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), int(passwordCost.Load()))
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored account hash.
func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

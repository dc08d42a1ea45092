package account

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the reference deployment policy.
const bcryptCost = 10

// Hasher is the credential hashing collaborator. The default implementation
// uses bcrypt; tests substitute a cheap fake.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) error
}

// BcryptHasher hashes passwords with bcrypt and verifies them in constant
// time.
type BcryptHasher struct{}

func (BcryptHasher) Hash(password string) (string, error) {
	if len(password) == 0 {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (BcryptHasher) Verify(hash, password string) error {
	if hash == "" {
		return errors.New("password hash is empty")
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

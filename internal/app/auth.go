package app

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// PasswordAuth checks the shared admin password against a bcrypt hash made at startup.
type PasswordAuth struct {
	hash []byte
}

func NewPasswordAuth(password string, cost int) (*PasswordAuth, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword(prehash(password), cost)
	if err != nil {
		return nil, err
	}
	return &PasswordAuth{hash: h}, nil
}

func (a *PasswordAuth) Check(password string) bool {
	return bcrypt.CompareHashAndPassword(a.hash, prehash(password)) == nil
}

// prehash keeps bcrypt input at 64 bytes, under its 72-byte limit.
func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(hex.EncodeToString(sum[:]))
}

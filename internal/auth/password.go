package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/scrypt"
)

const (
	saltBytes = 16
	keyBytes  = 64

	// scrypt cost parameters.
	scryptN = 16384
	scryptR = 8
	scryptP = 1
)

// HashPassword derives a scrypt hash and encodes it as "salt:hash" in hex.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, keyBytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(key), nil
}

// VerifyPassword re-derives the stored "salt:hash" pair and compares in
// constant time.
func VerifyPassword(password, stored string) bool {
	salt, want, err := splitStored(stored)
	if err != nil {
		return false
	}
	key, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, len(want))
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(key, want) == 1
}

func splitStored(stored string) (salt, hash []byte, err error) {
	parts := strings.SplitN(stored, ":", 2)
	if len(parts) != 2 {
		return nil, nil, errors.New("malformed password hash")
	}
	salt, err = hex.DecodeString(parts[0])
	if err != nil {
		return nil, nil, err
	}
	hash, err = hex.DecodeString(parts[1])
	if err != nil {
		return nil, nil, err
	}
	if len(salt) == 0 || len(hash) == 0 {
		return nil, nil, errors.New("malformed password hash")
	}
	return salt, hash, nil
}

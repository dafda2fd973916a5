package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateCode returns a random hex token of 2*n characters.
func GenerateCode(n int) (string, error) {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// passwordCharset is the 70-character alphabet for generated passwords.
const passwordCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*"

// passwordLength is the generated one-time password length.
const passwordLength = 12

// GeneratePassword returns a random one-time password drawn uniformly from
// passwordCharset using crypto/rand. The password is shown to the buyer
// exactly once and they are prompted to change it on first login.
func GeneratePassword() (string, error) {
	max := big.NewInt(int64(len(passwordCharset)))
	out := make([]byte, passwordLength)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate password: %w", err)
		}
		out[i] = passwordCharset[n.Int64()]
	}
	return string(out), nil
}

package utils

import (
	"crypto/rand"
	"math/big"
)

const (
	inviteAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	inviteLength   = 6
)

// GenerateInviteCode returns a 6-character uppercase base-36 invite code
// drawn from crypto/rand. Uniqueness is the caller's responsibility: the
// channel table carries a unique index on invite_code and callers retry a
// bounded number of times on collision.
func GenerateInviteCode() (string, error) {
	max := big.NewInt(int64(len(inviteAlphabet)))
	code := make([]byte, inviteLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = inviteAlphabet[n.Int64()]
	}
	return string(code), nil
}

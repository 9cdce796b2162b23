package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateInviteCodeFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z0-9]{6}$`)
	for i := 0; i < 50; i++ {
		code, err := GenerateInviteCode()
		assert.NoError(t, err)
		assert.Regexp(t, pattern, code)
	}
}

func TestGenerateInviteCodeVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		code, err := GenerateInviteCode()
		assert.NoError(t, err)
		seen[code] = true
	}
	// 36^6 values; twenty draws colliding down to one would mean a broken source
	assert.Greater(t, len(seen), 1)
}

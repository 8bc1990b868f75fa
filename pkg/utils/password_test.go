package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	h := BcryptHasher{Cost: bcrypt.MinCost}

	hashed, err := h.Hash("StrongPassword123")
	require.NoError(t, err)
	assert.NotEqual(t, "StrongPassword123", hashed)
	assert.True(t, h.Verify("StrongPassword123", hashed))
	assert.False(t, h.Verify("strongpassword123", hashed))

	again, err := h.Hash("StrongPassword123")
	require.NoError(t, err)
	assert.NotEqual(t, hashed, again, "hashes must be salted")
}

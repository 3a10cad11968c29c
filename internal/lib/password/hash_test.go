package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHashAndCompare(t *testing.T) {
	hash, err := GetHash("correcthorsebatterystaple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "correcthorsebatterystaple", hash)

	assert.NoError(t, CompareHash(hash, "correcthorsebatterystaple"))
	assert.Error(t, CompareHash(hash, "wrongpassword"))
}

func TestCompareHashInvalidHash(t *testing.T) {
	assert.Error(t, CompareHash("not-a-bcrypt-hash", "password"))
}

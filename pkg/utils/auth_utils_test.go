package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("rental-secret")
	require.NoError(t, err)
	assert.NotEqual(t, "rental-secret", hash)

	assert.NoError(t, ComparePasswords(hash, "rental-secret"))
	assert.Error(t, ComparePasswords(hash, "wrong"))
}

package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcrypt_HashAndCompare(t *testing.T) {
	h := NewBcrypt(bcrypt.MinCost)

	hash, err := h.Hash("Passw0rd!")
	require.NoError(t, err)
	assert.NotEqual(t, "Passw0rd!", hash)

	ok, err := h.Compare(hash, "Passw0rd!")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Compare(hash, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBcrypt_MalformedHash(t *testing.T) {
	h := NewBcrypt(bcrypt.MinCost)

	_, err := h.Compare("not-a-bcrypt-hash", "anything")
	assert.Error(t, err)
}

func TestNewBcrypt_CostFallback(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcrypt(100).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcrypt(0).cost)
	assert.Equal(t, bcrypt.MinCost, NewBcrypt(bcrypt.MinCost).cost)
}

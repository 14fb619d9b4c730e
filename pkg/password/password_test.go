package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", hash)

	assert.True(t, Verify("secret", hash))
	assert.False(t, Verify("Secret", hash))
	assert.False(t, Verify("secret", "not-a-bcrypt-hash"))
}

func TestVerifyDummy(t *testing.T) {
	assert.False(t, VerifyDummy("lobby-server/dummy"))
	assert.False(t, VerifyDummy(""))
}

package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	tests := []struct {
		name      string
		secret    string
		candidate string
		want      bool
	}{
		{name: "matching secret", secret: "longenough1", candidate: "longenough1", want: true},
		{name: "different secret", secret: "longenough1", candidate: "longenough2", want: false},
		{name: "case sensitive", secret: "Password123", candidate: "password123", want: false},
		{name: "empty candidate", secret: "longenough1", candidate: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := hasher.Hash(tt.secret)
			require.NoError(t, err)
			assert.NotEqual(t, tt.secret, hash)
			assert.Equal(t, tt.want, hasher.Verify(tt.candidate, hash))
		})
	}
}

func TestPasswordHasher_SaltsEachHash(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	first, err := hasher.Hash("samepassword")
	require.NoError(t, err)
	second, err := hasher.Hash("samepassword")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Verify("samepassword", first))
	assert.True(t, hasher.Verify("samepassword", second))
}

func TestPasswordHasher_RejectsEmpty(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	_, err := hasher.Hash("")
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestPasswordHasher_MalformedHash(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)
	assert.False(t, hasher.Verify("anything", "not-a-bcrypt-hash"))
}

func TestNewPasswordHasher_ClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.MinCost, NewPasswordHasher(1).cost)
	assert.Equal(t, bcrypt.MaxCost, NewPasswordHasher(99).cost)
	assert.Equal(t, 10, NewPasswordHasher(10).cost)
}

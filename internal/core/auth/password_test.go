package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"welbex/internal/core/errs"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("p1")
	require.NoError(t, err)
	assert.NotEqual(t, "p1", hash)
	assert.True(t, h.Verify("p1", hash))
	assert.False(t, h.Verify("p2", hash))
	assert.False(t, h.Verify("", hash))
}

func TestPasswordHasher_SaltsEveryHash(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	first, err := h.Hash("secret")
	require.NoError(t, err)
	second, err := h.Hash("secret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, h.Verify("secret", first))
	assert.True(t, h.Verify("secret", second))
}

func TestPasswordHasher_UsesConfiguredCost(t *testing.T) {
	hash, err := NewPasswordHasher(bcrypt.MinCost).Hash("x")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)

	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(bcrypt.MaxCost+1).cost)
}

func TestPasswordHasher_RejectsOverlongPassword(t *testing.T) {
	_, err := NewPasswordHasher(bcrypt.MinCost).Hash(strings.Repeat("a", 73))
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestPasswordHasher_MalformedHashDoesNotMatch(t *testing.T) {
	assert.False(t, NewPasswordHasher(bcrypt.MinCost).Verify("p1", "not-a-hash"))
}

func TestPasswordHasher_VerifyMissingDoesBcryptWork(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost + 1)

	assert.False(t, h.VerifyMissing("anything"))
	assert.False(t, h.VerifyMissing("no account has this password"))

	cost, err := bcrypt.Cost(h.dummy)
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost+1, cost)

	first := h.dummy
	h.VerifyMissing("again")
	assert.Equal(t, first, h.dummy, "the dummy hash is built once")
}

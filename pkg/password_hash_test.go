package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	passwordHash, err := HashPassword("leg-day")
	require.NoError(t, err)
	assert.NotEmpty(t, passwordHash)
	assert.True(t, CheckPasswordHash("leg-day", passwordHash))
	assert.False(t, CheckPasswordHash("arm-day", passwordHash))

	cost, err := bcrypt.Cost([]byte(passwordHash))
	require.NoError(t, err)
	assert.Equal(t, passwordHashCost, cost)
}

func TestCheckPasswordHash_OtherCost(t *testing.T) {
	oldHash, err := bcrypt.GenerateFromPassword([]byte("leg-day"), bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("leg-day", string(oldHash)))
	assert.False(t, CheckPasswordHash("leg-day", "not-a-hash"))
}

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestDummyHash(t *testing.T) {
	require.NotEmpty(t, dummyHash)

	cost, err := bcrypt.Cost(dummyHash)
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost, "unknown users pay the same cost as real ones")

	svc := NewUserService(nil, nil, nil).(*userService)
	assert.Equal(t, dummyHash, svc.dummyHash)
}

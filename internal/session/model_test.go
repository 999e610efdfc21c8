package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIdentificationMode(t *testing.T) {
	m, err := ParseIdentificationMode("Loyalty")
	assert.NoError(t, err)
	assert.Equal(t, ModeLoyalty, m)

	m, err = ParseIdentificationMode("")
	assert.NoError(t, err)
	assert.Equal(t, ModeGuest, m)

	_, err = ParseIdentificationMode("email")
	assert.ErrorIs(t, err, ErrInvalidIdentificationMode)
}

func TestCustomer_AddRewardPoints(t *testing.T) {
	guest := Guest()
	guest.AddRewardPoints(5)
	assert.Equal(t, int64(0), guest.RewardPoints)

	member := Customer{IsLoggedIn: true, Mode: ModeLoyalty, LoyaltyID: "L-1"}
	member.AddRewardPoints(2)
	member.AddRewardPoints(0)
	member.AddRewardPoints(-3)
	assert.Equal(t, int64(2), member.RewardPoints)
}

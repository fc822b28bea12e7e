package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerdictString(t *testing.T) {
	tests := []struct {
		verdict  Verdict
		expected string
	}{
		{VerdictAccepted, "accepted"},
		{VerdictWrongNumber, "wrong_number"},
		{VerdictNotANumber, "not_a_number"},
		{VerdictConsecutiveTurn, "consecutive_turn"},
		{VerdictIgnored, "ignored"},
		{VerdictPermissionDenied, "permission_denied"},
		{VerdictChannelConfigured, "channel_configured"},
		{Verdict(99), "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.verdict.String())
	}
}

func TestVerdictRejected(t *testing.T) {
	assert.True(t, VerdictWrongNumber.Rejected())
	assert.True(t, VerdictNotANumber.Rejected())
	assert.True(t, VerdictConsecutiveTurn.Rejected())

	assert.False(t, VerdictAccepted.Rejected())
	assert.False(t, VerdictIgnored.Rejected())
	assert.False(t, VerdictPermissionDenied.Rejected())
	assert.False(t, VerdictChannelConfigured.Rejected())
}

func TestStatisticsTotal(t *testing.T) {
	assert.Equal(t, uint64(0), Statistics{}.Total())
	assert.Equal(t, uint64(7), Statistics{Correct: 5, Incorrect: 2}.Total())
}

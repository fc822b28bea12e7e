package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		name     string
		d        time.Duration
		expected string
	}{
		{"zero", 0, "00:00:00"},
		{"seconds only", 59 * time.Second, "00:00:59"},
		{"minutes roll over", 61 * time.Second, "00:01:01"},
		{"mixed", time.Hour + 2*time.Minute + 3*time.Second, "01:02:03"},
		{"just under a day", 24*time.Hour - time.Second, "23:59:59"},
		{"exactly one day", 24 * time.Hour, "01days 00:00:00"},
		{"day plus change", 25*time.Hour + 30*time.Minute + 15*time.Second, "01days 01:30:15"},
		{"many days", 73*time.Hour + 5*time.Second, "03days 01:00:05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatUptime(tt.d))
		})
	}
}

func TestSessionClock(t *testing.T) {
	clock := NewSessionClock()

	assert.False(t, clock.Start().IsZero())
	assert.False(t, clock.Start().After(time.Now()))
	assert.GreaterOrEqual(t, clock.Uptime(), time.Duration(0))
}

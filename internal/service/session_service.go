package service

import (
	"fmt"
	"time"
)

// SessionClock records the process start time. Read-only after
// initialization; all state the engine holds lives and dies with this
// session.
type SessionClock struct {
	start time.Time
}

// NewSessionClock creates a session clock anchored at now
func NewSessionClock() *SessionClock {
	return &SessionClock{start: time.Now()}
}

// Start returns the session start time
func (c *SessionClock) Start() time.Time {
	return c.start
}

// Uptime returns the elapsed session duration
func (c *SessionClock) Uptime() time.Duration {
	return time.Since(c.start)
}

// FormatUptime renders a duration as HH:MM:SS, prefixed with a day
// count once the session passes 24 hours.
func FormatUptime(d time.Duration) string {
	seconds := int64(d.Seconds())
	days := seconds / (60 * 60 * 24)
	hours := seconds % (60 * 60 * 24) / (60 * 60)
	minutes := seconds % (60 * 60) / 60
	seconds = seconds % 60

	if days == 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02ddays %02d:%02d:%02d", days, hours, minutes, seconds)
}

package model

// Verdict is the engine's pure outcome for a processed event. The engine
// never performs I/O; the notifier maps each verdict to a user-facing
// reaction or message.
type Verdict int

const (
	// VerdictAccepted means the submission extended the counting chain.
	VerdictAccepted Verdict = iota
	// VerdictWrongNumber means the parsed value did not match the next
	// expected count; the chain was reset.
	VerdictWrongNumber
	// VerdictNotANumber means the raw text did not parse as a
	// non-negative integer; the chain was reset.
	VerdictNotANumber
	// VerdictConsecutiveTurn means the value was numerically correct but
	// came from the same participant as the previous accepted
	// submission; the chain was reset.
	VerdictConsecutiveTurn
	// VerdictIgnored means the event targeted an unconfigured tenant or
	// an unmonitored channel, or came from an automated sender. No state
	// was touched.
	VerdictIgnored
	// VerdictPermissionDenied means a reconfiguration request came from
	// a non-administrator. No state was touched.
	VerdictPermissionDenied
	// VerdictChannelConfigured means an administrator designated the
	// tenant's counting channel.
	VerdictChannelConfigured
)

// String returns the verdict name for logging and metrics labels.
func (v Verdict) String() string {
	switch v {
	case VerdictAccepted:
		return "accepted"
	case VerdictWrongNumber:
		return "wrong_number"
	case VerdictNotANumber:
		return "not_a_number"
	case VerdictConsecutiveTurn:
		return "consecutive_turn"
	case VerdictIgnored:
		return "ignored"
	case VerdictPermissionDenied:
		return "permission_denied"
	case VerdictChannelConfigured:
		return "channel_configured"
	default:
		return "unknown"
	}
}

// Rejected reports whether the verdict reset the tenant's counting chain.
func (v Verdict) Rejected() bool {
	return v == VerdictWrongNumber || v == VerdictNotANumber || v == VerdictConsecutiveTurn
}

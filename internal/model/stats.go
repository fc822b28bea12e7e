package model

// TenantID identifies an independent counting context (one community).
type TenantID string

// ParticipantID identifies an individual submitter across all tenants.
type ParticipantID string

// ChannelID identifies the channel an event originated from.
type ChannelID string

// Statistics is a correct/incorrect tally. Counters only ever increase;
// there is no decrement operation for the lifetime of the process.
type Statistics struct {
	Correct   uint64
	Incorrect uint64
}

// Total returns the number of judged submissions behind this tally.
func (s Statistics) Total() uint64 {
	return s.Correct + s.Incorrect
}

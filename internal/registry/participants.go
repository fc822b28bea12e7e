// Package registry holds the process-wide directories of tenant and
// participant records. Each directory is sharded; a shard's RWMutex
// guards the existence of entries, while every record carries its own
// mutex guarding its contents. Shard locks are released before any
// record lock is taken, so the only lock ordering callers must respect
// is tenant record before participant record.
package registry

import (
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/countchain/engine/internal/model"
)

// Participant is one submitter's record: a global tally plus one tally
// per tenant they have submitted to. Callers must hold the embedded
// mutex while reading or writing any field.
type Participant struct {
	sync.Mutex

	Global    model.Statistics
	PerTenant map[model.TenantID]model.Statistics
}

// Participants is the directory of participant records. Records are
// created lazily on first submission and never destroyed.
type Participants struct {
	shards []participantShard
	logger *zap.Logger
}

type participantShard struct {
	mu      sync.RWMutex
	records map[model.ParticipantID]*Participant
}

// NewParticipants creates a participant directory with the given number
// of shards. Shard count must be positive; zero falls back to a single
// shard.
func NewParticipants(shardCount int, logger *zap.Logger) *Participants {
	if shardCount <= 0 {
		shardCount = 1
	}
	r := &Participants{
		shards: make([]participantShard, shardCount),
		logger: logger,
	}
	for i := range r.shards {
		r.shards[i].records = make(map[model.ParticipantID]*Participant)
	}
	return r
}

func (r *Participants) shardFor(id model.ParticipantID) *participantShard {
	return &r.shards[xxhash.Sum64String(string(id))%uint64(len(r.shards))]
}

// Get returns the record for id without creating one.
func (r *Participants) Get(id model.ParticipantID) (*Participant, bool) {
	s := r.shardFor(id)
	s.mu.RLock()
	rec, ok := s.records[id]
	s.mu.RUnlock()
	return rec, ok
}

// GetOrCreate returns the existing record for id, inserting a freshly
// zeroed one if the participant has never been seen. Concurrent calls
// for the same unseen id yield the same record: the insert is
// double-checked under the shard's write lock.
func (r *Participants) GetOrCreate(id model.ParticipantID) *Participant {
	s := r.shardFor(id)

	s.mu.RLock()
	rec, ok := s.records[id]
	s.mu.RUnlock()
	if ok {
		return rec
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.records[id]; ok {
		return rec
	}
	rec = &Participant{PerTenant: make(map[model.TenantID]model.Statistics)}
	s.records[id] = rec
	r.logger.Debug("Participant record created", zap.String("participant_id", string(id)))
	return rec
}

// Len returns the number of known participants.
func (r *Participants) Len() int {
	n := 0
	for i := range r.shards {
		s := &r.shards[i]
		s.mu.RLock()
		n += len(s.records)
		s.mu.RUnlock()
	}
	return n
}

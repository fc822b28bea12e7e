package registry

import (
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/countchain/engine/internal/model"
)

// Tenant is one counting context's record. Callers must hold the
// embedded mutex while reading or writing any field. RunningCount is
// the last accepted value; LastContributor is nil whenever the chain
// has never been advanced or was just reset.
type Tenant struct {
	sync.Mutex

	Tally           model.Statistics
	ActiveChannel   model.ChannelID
	RunningCount    uint64
	LastContributor *model.ParticipantID
}

// Tenants is the directory of tenant records. Entries are created by
// admin reconfiguration and never destroyed.
type Tenants struct {
	shards []tenantShard
	logger *zap.Logger
}

type tenantShard struct {
	mu      sync.RWMutex
	records map[model.TenantID]*Tenant
}

// NewTenants creates a tenant directory with the given number of
// shards.
func NewTenants(shardCount int, logger *zap.Logger) *Tenants {
	if shardCount <= 0 {
		shardCount = 1
	}
	r := &Tenants{
		shards: make([]tenantShard, shardCount),
		logger: logger,
	}
	for i := range r.shards {
		r.shards[i].records = make(map[model.TenantID]*Tenant)
	}
	return r
}

func (r *Tenants) shardFor(id model.TenantID) *tenantShard {
	return &r.shards[xxhash.Sum64String(string(id))%uint64(len(r.shards))]
}

// Get returns the record for id without creating one.
func (r *Tenants) Get(id model.TenantID) (*Tenant, bool) {
	s := r.shardFor(id)
	s.mu.RLock()
	rec, ok := s.records[id]
	s.mu.RUnlock()
	return rec, ok
}

// SetActiveChannel designates the counting channel for a tenant. An
// existing tenant keeps its counter and tallies and only the channel
// changes; an unknown tenant gets a freshly zeroed record holding the
// channel, inserted atomically so concurrent calls for the same new
// tenant cannot double-insert. Returns true when a record was created.
func (r *Tenants) SetActiveChannel(id model.TenantID, channel model.ChannelID) bool {
	s := r.shardFor(id)

	s.mu.RLock()
	rec, ok := s.records[id]
	s.mu.RUnlock()
	if ok {
		rec.Lock()
		rec.ActiveChannel = channel
		rec.Unlock()
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.records[id]; ok {
		rec.Lock()
		rec.ActiveChannel = channel
		rec.Unlock()
		return false
	}
	s.records[id] = &Tenant{ActiveChannel: channel}
	r.logger.Info("Tenant record created",
		zap.String("tenant_id", string(id)),
		zap.String("channel_id", string(channel)))
	return true
}

// Len returns the number of configured tenants.
func (r *Tenants) Len() int {
	n := 0
	for i := range r.shards {
		s := &r.shards[i]
		s.mu.RLock()
		n += len(s.records)
		s.mu.RUnlock()
	}
	return n
}

package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/countchain/engine/internal/model"
	"github.com/countchain/engine/internal/registry"
)

// StatsService answers read-only statistics queries. It takes only the
// participant record's lock and never mutates.
type StatsService struct {
	participants *registry.Participants
	logger       *zap.Logger
}

// NewStatsService creates a new stats service
func NewStatsService(participants *registry.Participants, logger *zap.Logger) *StatsService {
	return &StatsService{
		participants: participants,
		logger:       logger,
	}
}

// QueryParticipant returns a participant's tally. With a nil tenant
// scope it returns the global tally; otherwise the tally for that
// tenant, which is zero when the participant has submitted elsewhere
// but never there. The second return value is false for a participant
// the engine has never seen, which is distinct from a zeroed tally.
func (s *StatsService) QueryParticipant(ctx context.Context, id model.ParticipantID, scope *model.TenantID) (model.Statistics, bool) {
	participant, ok := s.participants.Get(id)
	if !ok {
		return model.Statistics{}, false
	}

	participant.Lock()
	defer participant.Unlock()

	if scope == nil {
		return participant.Global, true
	}
	return participant.PerTenant[*scope], true
}

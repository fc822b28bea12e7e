package service

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/countchain/engine/internal/model"
	"github.com/countchain/engine/internal/registry"
	"github.com/countchain/engine/internal/validation"
)

// CountingService is the sole mutator of tenant counting state and the
// sole decision point for accept/reject. It never performs I/O; every
// call returns a pure Outcome for the notifier to render after all
// locks are released.
type CountingService struct {
	tenants      *registry.Tenants
	participants *registry.Participants
	validator    *validation.Validator
	logger       *zap.Logger
}

// NewCountingService creates a new counting service
func NewCountingService(
	tenants *registry.Tenants,
	participants *registry.Participants,
	validator *validation.Validator,
	logger *zap.Logger,
) *CountingService {
	return &CountingService{
		tenants:      tenants,
		participants: participants,
		validator:    validator,
		logger:       logger,
	}
}

// ProcessSubmission judges one inbound submission against the tenant's
// chain and commits the result. The tenant record lock is held from
// before rule evaluation until after mutation; two submissions to the
// same tenant can never both read the same running count. Submissions
// to unrelated tenants proceed fully in parallel.
//
// Errors are reserved for contract misuse (malformed identities,
// oversized text); every game outcome, including a non-numeric
// submission, is a Verdict.
func (s *CountingService) ProcessSubmission(ctx context.Context, ev model.SubmissionEvent) (model.Outcome, error) {
	startTime := time.Now()

	if err := s.validator.ValidateSubmission(ev); err != nil {
		s.logger.Warn("Submission validation failed",
			zap.String("tenant_id", string(ev.TenantID)),
			zap.String("participant_id", string(ev.ParticipantID)),
			zap.Error(err))
		return model.Outcome{}, err
	}

	ignored := model.Outcome{
		Verdict:       model.VerdictIgnored,
		TenantID:      ev.TenantID,
		ParticipantID: ev.ParticipantID,
		ChannelID:     ev.OriginChannelID,
	}

	// Events from automated senders never reach the game state.
	if ev.AutomatedSender {
		return ignored, nil
	}

	tenant, ok := s.tenants.Get(ev.TenantID)
	if !ok {
		return ignored, nil
	}

	tenant.Lock()
	if tenant.ActiveChannel != ev.OriginChannelID {
		tenant.Unlock()
		return ignored, nil
	}

	// Every first-time submitter gets a zeroed record, correct or not.
	participant := s.participants.GetOrCreate(ev.ParticipantID)
	participant.Lock()

	verdict := s.judge(tenant, ev)
	s.commit(tenant, participant, ev, verdict)

	out := model.Outcome{
		Verdict:       verdict,
		TenantID:      ev.TenantID,
		ParticipantID: ev.ParticipantID,
		ChannelID:     ev.OriginChannelID,
		RunningCount:  tenant.RunningCount,
		TenantTally:   tenant.Tally,
	}

	participant.Unlock()
	tenant.Unlock()

	s.logger.Debug("Submission processed",
		zap.String("tenant_id", string(ev.TenantID)),
		zap.String("participant_id", string(ev.ParticipantID)),
		zap.String("verdict", verdict.String()),
		zap.Uint64("running_count", out.RunningCount),
		zap.Duration("latency", time.Since(startTime)))

	return out, nil
}

// judge evaluates the counting rule. Caller holds the tenant lock.
func (s *CountingService) judge(tenant *registry.Tenant, ev model.SubmissionEvent) model.Verdict {
	value, err := strconv.ParseUint(ev.RawText, 10, 64)
	if err != nil {
		return model.VerdictNotANumber
	}
	if value != tenant.RunningCount+1 {
		return model.VerdictWrongNumber
	}
	// A numerically correct value from the previous contributor is a
	// full rejection: it resets the chain like any other miss.
	if tenant.LastContributor != nil && *tenant.LastContributor == ev.ParticipantID {
		return model.VerdictConsecutiveTurn
	}
	return model.VerdictAccepted
}

// commit applies the verdict to tenant and participant state as a
// single unit. Caller holds the tenant lock, then the participant
// lock, in that order.
func (s *CountingService) commit(tenant *registry.Tenant, participant *registry.Participant, ev model.SubmissionEvent, verdict model.Verdict) {
	perTenant := participant.PerTenant[ev.TenantID]

	if verdict == model.VerdictAccepted {
		tenant.RunningCount++
		tenant.Tally.Correct++
		participant.Global.Correct++
		perTenant.Correct++
		contributor := ev.ParticipantID
		tenant.LastContributor = &contributor
	} else {
		tenant.RunningCount = 0
		tenant.Tally.Incorrect++
		participant.Global.Incorrect++
		perTenant.Incorrect++
		tenant.LastContributor = nil
	}

	participant.PerTenant[ev.TenantID] = perTenant
}

// ConfigureChannel designates a tenant's counting channel. Only
// administrators may reconfigure; a denied request changes nothing.
func (s *CountingService) ConfigureChannel(ctx context.Context, req model.ChannelConfigRequest) (model.Outcome, error) {
	if err := s.validator.ValidateConfigRequest(req); err != nil {
		s.logger.Warn("Channel configuration validation failed",
			zap.String("tenant_id", string(req.TenantID)),
			zap.Error(err))
		return model.Outcome{}, err
	}

	out := model.Outcome{
		TenantID:      req.TenantID,
		ParticipantID: req.RequestingParticipantID,
		ChannelID:     req.TargetChannelID,
	}

	if !req.RequesterIsAdministrator {
		out.Verdict = model.VerdictPermissionDenied
		return out, nil
	}

	created := s.tenants.SetActiveChannel(req.TenantID, req.TargetChannelID)
	out.Verdict = model.VerdictChannelConfigured

	s.logger.Info("Counting channel configured",
		zap.String("tenant_id", string(req.TenantID)),
		zap.String("channel_id", string(req.TargetChannelID)),
		zap.Bool("tenant_created", created))

	return out, nil
}

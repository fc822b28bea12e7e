package handler

import (
	"context"
	stderrors "errors"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/durationpb"

	"github.com/countchain/engine/internal/errors"
	"github.com/countchain/engine/internal/metrics"
	"github.com/countchain/engine/internal/model"
	"github.com/countchain/engine/internal/notify"
	"github.com/countchain/engine/internal/service"
	pb "github.com/countchain/engine/pkg/proto"
)

// CountingHandler implements the gRPC counting service. It translates
// between wire messages and engine types, records request metrics, and
// hands verdicts to the notification dispatcher only after the engine
// has released every lock.
type CountingHandler struct {
	countingService *service.CountingService
	statsService    *service.StatsService
	clock           *service.SessionClock
	dispatcher      *notify.Dispatcher
	metrics         *metrics.Metrics
	logger          *zap.Logger
	pb.UnimplementedCountingServiceServer
}

// NewCountingHandler creates a new counting handler
func NewCountingHandler(
	countingSvc *service.CountingService,
	statsSvc *service.StatsService,
	clock *service.SessionClock,
	dispatcher *notify.Dispatcher,
	m *metrics.Metrics,
	logger *zap.Logger,
) *CountingHandler {
	return &CountingHandler{
		countingService: countingSvc,
		statsService:    statsSvc,
		clock:           clock,
		dispatcher:      dispatcher,
		metrics:         m,
		logger:          logger,
	}
}

// Submit handles inbound submission events
func (h *CountingHandler) Submit(ctx context.Context, req *pb.SubmitRequest) (*pb.SubmitResponse, error) {
	startTime := time.Now()

	ev := model.SubmissionEvent{
		TenantID:        model.TenantID(req.GetTenantId()),
		ParticipantID:   model.ParticipantID(req.GetParticipantId()),
		OriginChannelID: model.ChannelID(req.GetOriginChannelId()),
		RawText:         req.GetRawText(),
		AutomatedSender: req.GetAutomatedSender(),
	}

	out, err := h.countingService.ProcessSubmission(ctx, ev)
	if err != nil {
		h.logger.Warn("Submit rejected",
			zap.String("tenant_id", req.GetTenantId()),
			zap.String("participant_id", req.GetParticipantId()),
			zap.Error(err))
		return nil, toStatusErr(err)
	}

	h.metrics.RecordSubmission(out.Verdict.String(), time.Since(startTime).Seconds())
	if out.Verdict == model.VerdictAccepted {
		h.metrics.RecordChainAdvance(out.RunningCount)
	} else if out.Verdict.Rejected() {
		h.metrics.RecordChainReset()
	}

	if h.dispatcher.Dispatch(out) {
		h.metrics.RecordNotification("queued")
	} else {
		h.metrics.RecordNotification("dropped")
	}

	return &pb.SubmitResponse{
		Verdict:      toProtoVerdict(out.Verdict),
		RunningCount: out.RunningCount,
		TenantTally: &pb.Tally{
			Correct:   out.TenantTally.Correct,
			Incorrect: out.TenantTally.Incorrect,
		},
	}, nil
}

// ConfigureChannel handles admin reconfiguration requests
func (h *CountingHandler) ConfigureChannel(ctx context.Context, req *pb.ConfigureChannelRequest) (*pb.ConfigureChannelResponse, error) {
	out, err := h.countingService.ConfigureChannel(ctx, model.ChannelConfigRequest{
		TenantID:                 model.TenantID(req.GetTenantId()),
		RequestingParticipantID:  model.ParticipantID(req.GetRequestingParticipantId()),
		TargetChannelID:          model.ChannelID(req.GetTargetChannelId()),
		RequesterIsAdministrator: req.GetRequesterIsAdministrator(),
	})
	if err != nil {
		h.logger.Warn("ConfigureChannel rejected",
			zap.String("tenant_id", req.GetTenantId()),
			zap.Error(err))
		return nil, toStatusErr(err)
	}

	h.metrics.RecordConfigRequest(out.Verdict.String())

	if h.dispatcher.Dispatch(out) {
		h.metrics.RecordNotification("queued")
	} else {
		h.metrics.RecordNotification("dropped")
	}

	return &pb.ConfigureChannelResponse{
		Verdict: toProtoVerdict(out.Verdict),
	}, nil
}

// QueryStats handles statistics queries
func (h *CountingHandler) QueryStats(ctx context.Context, req *pb.QueryStatsRequest) (*pb.QueryStatsResponse, error) {
	startTime := time.Now()

	if req.GetParticipantId() == "" {
		return nil, status.Error(codes.InvalidArgument, "participant_id is required")
	}

	var scope *model.TenantID
	if req.TenantId != nil {
		t := model.TenantID(req.GetTenantId())
		scope = &t
	}

	stats, found := h.statsService.QueryParticipant(ctx, model.ParticipantID(req.GetParticipantId()), scope)

	h.metrics.RecordStatsQuery(time.Since(startTime).Seconds())

	resp := &pb.QueryStatsResponse{Found: found}
	if found {
		resp.Stats = &pb.Tally{
			Correct:   stats.Correct,
			Incorrect: stats.Incorrect,
		}
	}
	return resp, nil
}

// GetUptime reports the session clock
func (h *CountingHandler) GetUptime(ctx context.Context, req *pb.UptimeRequest) (*pb.UptimeResponse, error) {
	uptime := h.clock.Uptime()
	return &pb.UptimeResponse{
		Uptime:        durationpb.New(uptime),
		Formatted:     service.FormatUptime(uptime),
		StartedAtUnix: h.clock.Start().Unix(),
	}, nil
}

// toProtoVerdict maps engine verdicts to wire verdicts
func toProtoVerdict(v model.Verdict) pb.Verdict {
	switch v {
	case model.VerdictAccepted:
		return pb.Verdict_VERDICT_ACCEPTED
	case model.VerdictWrongNumber:
		return pb.Verdict_VERDICT_WRONG_NUMBER
	case model.VerdictNotANumber:
		return pb.Verdict_VERDICT_NOT_A_NUMBER
	case model.VerdictConsecutiveTurn:
		return pb.Verdict_VERDICT_CONSECUTIVE_TURN
	case model.VerdictIgnored:
		return pb.Verdict_VERDICT_IGNORED
	case model.VerdictPermissionDenied:
		return pb.Verdict_VERDICT_PERMISSION_DENIED
	case model.VerdictChannelConfigured:
		return pb.Verdict_VERDICT_CHANNEL_CONFIGURED
	default:
		return pb.Verdict_VERDICT_UNSPECIFIED
	}
}

// toStatusErr maps engine errors to gRPC status errors
func toStatusErr(err error) error {
	var ee *errors.EngineError
	if stderrors.As(err, &ee) {
		return ee.ToGRPCStatus().Err()
	}
	return status.Error(codes.Internal, "internal error")
}

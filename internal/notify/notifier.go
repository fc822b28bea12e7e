// Package notify decouples verdict delivery from game-state mutation.
// The engine commits and returns a pure Outcome; dispatch happens here,
// strictly after every lock has been released, so a slow or failing
// notification channel can never block or roll back game state.
package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/countchain/engine/internal/model"
)

// Notifier renders a verdict to the outside world (a reaction, a reply
// message). Implementations live with the chat gateway, outside the
// engine; delivery failure must never be retried against engine state.
type Notifier interface {
	Notify(ctx context.Context, out model.Outcome) error
}

// LogNotifier is the fallback notifier used when no gateway is
// attached. It records verdicts to the log and nothing else.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a log-only notifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify implements Notifier
func (n *LogNotifier) Notify(ctx context.Context, out model.Outcome) error {
	n.logger.Info("Verdict",
		zap.String("tenant_id", string(out.TenantID)),
		zap.String("participant_id", string(out.ParticipantID)),
		zap.String("verdict", out.Verdict.String()),
		zap.Uint64("running_count", out.RunningCount))
	return nil
}

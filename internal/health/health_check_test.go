package health

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/countchain/engine/internal/model"
	"github.com/countchain/engine/internal/registry"
)

func newTestChecker(t *testing.T) *HealthChecker {
	t.Helper()
	logger := zap.NewNop()
	return NewHealthChecker(
		&HealthCheckConfig{NodeID: "engine-test"},
		registry.NewTenants(4, logger),
		registry.NewParticipants(4, logger),
		logger,
	)
}

func TestHealthChecker_HealthyByDefault(t *testing.T) {
	checker := newTestChecker(t)

	checker.runHealthChecks()

	assert.True(t, checker.IsLive())
	assert.True(t, checker.IsReady())

	checks := checker.GetChecks()
	require.Contains(t, checks, "goroutines")
	require.Contains(t, checks, "heap_usage")
	require.Contains(t, checks, "registries")
	require.Contains(t, checks, "notify_queue")
	assert.Equal(t, "healthy", checks["registries"].Status)
}

func TestHealthChecker_QueueWarningDegrades(t *testing.T) {
	checker := newTestChecker(t)
	checker.SetQueueStatsSource(func() float64 { return 95 })

	checker.runHealthChecks()

	// A warning degrades status without flipping readiness.
	assert.True(t, checker.IsReady())
	status := checker.GetStatus()
	assert.Equal(t, model.NodeStatusDegraded, status.Status)
	assert.Equal(t, "warning", checker.GetChecks()["notify_queue"].Status)
}

func TestHealthChecker_GetStatus(t *testing.T) {
	checker := newTestChecker(t)
	checker.runHealthChecks()

	status := checker.GetStatus()
	assert.Equal(t, "engine-test", status.NodeID)
	assert.Equal(t, model.NodeStatusHealthy, status.Status)
	assert.Greater(t, status.Metrics.Goroutines, 0)
	assert.GreaterOrEqual(t, status.Metrics.UptimeSeconds, int64(0))
}

func TestHealthChecker_SetReadiness(t *testing.T) {
	checker := newTestChecker(t)

	checker.SetReadiness(false)
	assert.False(t, checker.IsReady())
	assert.True(t, checker.IsLive())

	checker.SetReadiness(true)
	assert.True(t, checker.IsReady())
}

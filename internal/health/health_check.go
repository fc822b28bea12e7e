package health

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/countchain/engine/internal/model"
	"github.com/countchain/engine/internal/registry"
)

// HealthChecker periodically inspects the engine's in-memory state and
// runtime. All engine state is process-local, so the checks cover the
// runtime (goroutines, heap) and the responsiveness of the two
// registries rather than any external resource.
type HealthChecker struct {
	nodeID       string
	tenants      *registry.Tenants
	participants *registry.Participants
	queueStats   func() float64 // notify queue utilization percent, nil if no dispatcher
	started      time.Time
	logger       *zap.Logger
	mu           sync.RWMutex
	lastCheck    time.Time
	status       model.NodeStatus
	checks       map[string]CheckResult
	livenessOK   bool
	readinessOK  bool
}

// CheckResult represents the result of a health check
type CheckResult struct {
	Name      string
	Status    string
	Message   string
	Timestamp time.Time
}

// HealthCheckConfig holds configuration for health checks
type HealthCheckConfig struct {
	NodeID string
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(
	cfg *HealthCheckConfig,
	tenants *registry.Tenants,
	participants *registry.Participants,
	logger *zap.Logger,
) *HealthChecker {
	return &HealthChecker{
		nodeID:       cfg.NodeID,
		tenants:      tenants,
		participants: participants,
		started:      time.Now(),
		logger:       logger,
		checks:       make(map[string]CheckResult),
		livenessOK:   true,
		readinessOK:  true,
		status:       model.NodeStatusHealthy,
	}
}

// SetQueueStatsSource attaches a notification queue utilization sampler
func (h *HealthChecker) SetQueueStatsSource(fn func() float64) {
	h.queueStats = fn
}

// Start starts the health checker
func (h *HealthChecker) Start(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	h.runHealthChecks()

	for {
		select {
		case <-ticker.C:
			h.runHealthChecks()
		case <-ctx.Done():
			h.logger.Info("Health checker stopped")
			return
		}
	}
}

// runHealthChecks runs all health checks
func (h *HealthChecker) runHealthChecks() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastCheck = time.Now()

	checks := []func() CheckResult{
		h.checkGoroutines,
		h.checkHeapUsage,
		h.checkRegistries,
		h.checkNotifyQueue,
	}

	allHealthy := true
	allReady := true

	for _, check := range checks {
		result := check()
		h.checks[result.Name] = result

		if result.Status != "healthy" {
			allHealthy = false
			if result.Status == "critical" {
				allReady = false
			}
		}
	}

	if !allHealthy {
		if !allReady {
			h.status = model.NodeStatusUnhealthy
		} else {
			h.status = model.NodeStatusDegraded
		}
	} else {
		h.status = model.NodeStatusHealthy
	}

	h.livenessOK = true
	h.readinessOK = allReady

	h.logger.Debug("Health check completed",
		zap.String("status", string(h.status)),
		zap.Bool("liveness", h.livenessOK),
		zap.Bool("readiness", h.readinessOK))
}

// checkGoroutines flags runaway goroutine growth
func (h *HealthChecker) checkGoroutines() CheckResult {
	count := runtime.NumGoroutine()

	if count > 50000 {
		return CheckResult{
			Name:      "goroutines",
			Status:    "critical",
			Message:   fmt.Sprintf("Goroutine count critical: %d", count),
			Timestamp: time.Now(),
		}
	} else if count > 10000 {
		return CheckResult{
			Name:      "goroutines",
			Status:    "warning",
			Message:   fmt.Sprintf("Goroutine count high: %d", count),
			Timestamp: time.Now(),
		}
	}

	return CheckResult{
		Name:      "goroutines",
		Status:    "healthy",
		Message:   fmt.Sprintf("Goroutines: %d", count),
		Timestamp: time.Now(),
	}
}

// checkHeapUsage flags heap pressure
func (h *HealthChecker) checkHeapUsage() CheckResult {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	heapMB := float64(memStats.HeapAlloc) / 1024 / 1024

	if memStats.Sys > 0 {
		usagePercent := float64(memStats.HeapAlloc) / float64(memStats.Sys) * 100
		if usagePercent > 95 {
			return CheckResult{
				Name:      "heap_usage",
				Status:    "warning",
				Message:   fmt.Sprintf("Heap usage high: %.2f MB (%.2f%% of sys)", heapMB, usagePercent),
				Timestamp: time.Now(),
			}
		}
	}

	return CheckResult{
		Name:      "heap_usage",
		Status:    "healthy",
		Message:   fmt.Sprintf("Heap usage: %.2f MB", heapMB),
		Timestamp: time.Now(),
	}
}

// checkRegistries verifies both directories answer promptly
func (h *HealthChecker) checkRegistries() CheckResult {
	start := time.Now()
	tenants := h.tenants.Len()
	participants := h.participants.Len()
	elapsed := time.Since(start)

	// A slow Len means a shard lock is being held far too long.
	if elapsed > time.Second {
		return CheckResult{
			Name:      "registries",
			Status:    "critical",
			Message:   fmt.Sprintf("Registry scan took %v", elapsed),
			Timestamp: time.Now(),
		}
	}

	return CheckResult{
		Name:      "registries",
		Status:    "healthy",
		Message:   fmt.Sprintf("Tenants: %d, participants: %d, scan: %v", tenants, participants, elapsed),
		Timestamp: time.Now(),
	}
}

// checkNotifyQueue flags sustained notification backlog
func (h *HealthChecker) checkNotifyQueue() CheckResult {
	if h.queueStats == nil {
		return CheckResult{
			Name:      "notify_queue",
			Status:    "healthy",
			Message:   "No dispatcher attached",
			Timestamp: time.Now(),
		}
	}

	utilization := h.queueStats()
	if utilization > 90 {
		return CheckResult{
			Name:      "notify_queue",
			Status:    "warning",
			Message:   fmt.Sprintf("Notification queue utilization high: %.2f%%", utilization),
			Timestamp: time.Now(),
		}
	}

	return CheckResult{
		Name:      "notify_queue",
		Status:    "healthy",
		Message:   fmt.Sprintf("Notification queue utilization: %.2f%%", utilization),
		Timestamp: time.Now(),
	}
}

// IsLive returns whether the engine is live (liveness probe)
func (h *HealthChecker) IsLive() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.livenessOK
}

// IsReady returns whether the engine is ready (readiness probe)
func (h *HealthChecker) IsReady() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.readinessOK
}

// GetStatus returns the current health status for gossip advertisement
func (h *HealthChecker) GetStatus() model.HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	var memoryPercent float64
	if memStats.Sys > 0 {
		memoryPercent = float64(memStats.HeapAlloc) / float64(memStats.Sys) * 100
	}

	return model.HealthStatus{
		NodeID:    h.nodeID,
		Status:    h.status,
		Timestamp: h.lastCheck.Unix(),
		Metrics: model.HealthMetrics{
			MemoryUsage:   memoryPercent,
			Goroutines:    runtime.NumGoroutine(),
			UptimeSeconds: int64(time.Since(h.started).Seconds()),
		},
	}
}

// GetChecks returns all check results
func (h *HealthChecker) GetChecks() map[string]CheckResult {
	h.mu.RLock()
	defer h.mu.RUnlock()

	checks := make(map[string]CheckResult, len(h.checks))
	for k, v := range h.checks {
		checks[k] = v
	}

	return checks
}

// SetReadiness manually sets readiness status (for graceful shutdown)
func (h *HealthChecker) SetReadiness(ready bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.readinessOK = ready
}

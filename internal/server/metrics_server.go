package server

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/countchain/engine/internal/metrics"
	"github.com/countchain/engine/internal/registry"
)

// MetricsServer serves Prometheus metrics via HTTP and periodically
// samples engine-level gauges.
type MetricsServer struct {
	httpServer   *http.Server
	metrics      *metrics.Metrics
	tenants      *registry.Tenants
	participants *registry.Participants
	queueDepth   func() int // nil when no dispatcher is attached
	members      func() int // nil when gossip is disabled
	interval     time.Duration
	logger       *zap.Logger
	stopChan     chan struct{}
}

// MetricsServerConfig holds configuration for the metrics server
type MetricsServerConfig struct {
	Port           int
	SampleInterval time.Duration
}

// NewMetricsServer creates a new metrics server
func NewMetricsServer(
	cfg *MetricsServerConfig,
	m *metrics.Metrics,
	tenants *registry.Tenants,
	participants *registry.Participants,
	logger *zap.Logger,
) *MetricsServer {
	mux := http.NewServeMux()

	interval := cfg.SampleInterval
	if interval <= 0 {
		interval = 15 * time.Second
	}

	ms := &MetricsServer{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		metrics:      m,
		tenants:      tenants,
		participants: participants,
		interval:     interval,
		logger:       logger,
		stopChan:     make(chan struct{}),
	}

	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", ms.healthHandler)
	mux.HandleFunc("/ready", ms.readyHandler)

	return ms
}

// SetQueueDepthSource attaches a notification queue depth sampler
func (s *MetricsServer) SetQueueDepthSource(fn func() int) {
	s.queueDepth = fn
}

// SetMembershipSource attaches a gossip membership sampler
func (s *MetricsServer) SetMembershipSource(fn func() int) {
	s.members = fn
}

// Start starts the metrics server
func (s *MetricsServer) Start() error {
	s.logger.Info("Starting metrics server", zap.String("addr", s.httpServer.Addr))

	go s.collectEngineMetrics()

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("Metrics server failed", zap.Error(err))
		}
	}()

	return nil
}

// Stop gracefully stops the metrics server
func (s *MetricsServer) Stop() error {
	s.logger.Info("Stopping metrics server")

	close(s.stopChan)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("metrics server shutdown failed: %w", err)
	}

	return nil
}

// healthHandler handles health check requests
func (s *MetricsServer) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"healthy","timestamp":"%s"}`, time.Now().Format(time.RFC3339))
}

// readyHandler handles readiness check requests. The engine holds all
// state in memory, so readiness is a liveness signal plus registry
// reachability.
func (s *MetricsServer) readyHandler(w http.ResponseWriter, r *http.Request) {
	tenants := s.tenants.Len()
	participants := s.participants.Len()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ready","timestamp":"%s","tenants":%d,"participants":%d}`,
		time.Now().Format(time.RFC3339), tenants, participants)
}

// collectEngineMetrics periodically samples gauges
func (s *MetricsServer) collectEngineMetrics() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.updateEngineMetrics()
		case <-s.stopChan:
			return
		}
	}
}

// updateEngineMetrics updates registry, notification and system gauges
func (s *MetricsServer) updateEngineMetrics() {
	s.metrics.UpdateRegistrySizes(s.tenants.Len(), s.participants.Len())

	if s.queueDepth != nil {
		s.metrics.UpdateNotifyQueueDepth(s.queueDepth())
	}
	if s.members != nil {
		s.metrics.UpdateGossipMembers(s.members())
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	s.metrics.UpdateSystemStats(int64(memStats.Alloc), runtime.NumGoroutine())
}

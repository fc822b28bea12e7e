package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/countchain/engine/internal/config"
	"github.com/countchain/engine/internal/handler"
	"github.com/countchain/engine/internal/health"
	"github.com/countchain/engine/internal/logger"
	"github.com/countchain/engine/internal/metrics"
	"github.com/countchain/engine/internal/notify"
	"github.com/countchain/engine/internal/registry"
	"github.com/countchain/engine/internal/server"
	"github.com/countchain/engine/internal/service"
	"github.com/countchain/engine/internal/telemetry"
	"github.com/countchain/engine/internal/validation"
	pb "github.com/countchain/engine/pkg/proto"
)

func main() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config.yaml"
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Configuration loaded",
		zap.String("node_id", cfg.Server.NodeID),
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Tracing (opt-in via environment)
	shutdownTracing, err := telemetry.Setup(ctx, "countchain-engine")
	if err != nil {
		log.Warn("Failed to initialize tracing", zap.Error(err))
	} else {
		defer shutdownTracing(context.Background())
	}

	// Shared state: the two process-wide directories
	tenants := registry.NewTenants(cfg.Engine.TenantShards, log)
	participants := registry.NewParticipants(cfg.Engine.ParticipantShards, log)

	// Initialize services
	validator := validation.NewValidatorWithLimits(cfg.Engine.MaxIDLength, cfg.Engine.MaxTextLength)
	countingSvc := service.NewCountingService(tenants, participants, validator, log)
	statsSvc := service.NewStatsService(participants, log)
	clock := service.NewSessionClock()

	dispatcher := notify.NewDispatcher(
		&notify.DispatcherConfig{
			Workers:   cfg.Notify.Workers,
			QueueSize: cfg.Notify.QueueSize,
			Timeout:   cfg.Notify.DispatchTimeout,
		},
		notify.NewLogNotifier(log),
		log,
	)
	defer dispatcher.Stop(cfg.Server.ShutdownTimeout)

	// Health checker
	healthChecker := health.NewHealthChecker(
		&health.HealthCheckConfig{NodeID: cfg.Server.NodeID},
		tenants,
		participants,
		log,
	)
	healthChecker.SetQueueStatsSource(func() float64 {
		return dispatcher.Stats().QueueUtilization()
	})
	go healthChecker.Start(ctx)

	// Initialize gossip service if enabled
	var gossipSvc *service.GossipService
	if cfg.Gossip.Enabled {
		gossipSvc, err = service.NewGossipService(
			&service.GossipConfig{
				Enabled:        cfg.Gossip.Enabled,
				BindPort:       cfg.Gossip.BindPort,
				SeedNodes:      cfg.Gossip.SeedNodes,
				GossipInterval: cfg.Gossip.GossipInterval,
				ProbeTimeout:   cfg.Gossip.ProbeTimeout,
				ProbeInterval:  cfg.Gossip.ProbeInterval,
			},
			cfg.Server.NodeID,
			log,
		)
		if err != nil {
			log.Error("Failed to initialize gossip service", zap.Error(err))
		} else {
			defer gossipSvc.Shutdown()
			go advertiseHealth(ctx, gossipSvc, healthChecker)
			log.Info("Gossip service initialized")
		}
	}

	// Metrics
	m := metrics.NewMetrics(cfg.Server.NodeID)
	if cfg.Metrics.Enabled {
		metricsSrv := server.NewMetricsServer(
			&server.MetricsServerConfig{
				Port:           cfg.Metrics.Port,
				SampleInterval: cfg.Metrics.SampleInterval,
			},
			m,
			tenants,
			participants,
			log,
		)
		metricsSrv.SetQueueDepthSource(func() int {
			return dispatcher.Stats().QueuedTasks
		})
		if gossipSvc != nil {
			metricsSrv.SetMembershipSource(gossipSvc.NumMembers)
		}
		if err := metricsSrv.Start(); err != nil {
			log.Error("Failed to start metrics server", zap.Error(err))
		} else {
			defer metricsSrv.Stop()
		}
	}

	// Initialize handlers
	countingHandler := handler.NewCountingHandler(countingSvc, statsSvc, clock, dispatcher, m, log)

	// Create gRPC server
	grpcServer := grpc.NewServer(
		grpc.MaxConcurrentStreams(uint32(cfg.Server.MaxConnections)),
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
	)

	pb.RegisterCountingServiceServer(grpcServer, countingHandler)

	// Start listening
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal("Failed to listen", zap.Error(err))
	}

	log.Info("Counting engine starting",
		zap.String("node_id", cfg.Server.NodeID),
		zap.String("address", addr))

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		log.Info("Shutting down gracefully...")

		healthChecker.SetReadiness(false)
		grpcServer.GracefulStop()
	}()

	// Start server
	if err := grpcServer.Serve(listener); err != nil {
		log.Fatal("Failed to serve", zap.Error(err))
	}
}

// advertiseHealth periodically pushes local health into gossip metadata
func advertiseHealth(ctx context.Context, gossipSvc *service.GossipService, checker *health.HealthChecker) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			gossipSvc.UpdateHealthStatus(checker.GetStatus().Metrics)
		case <-ctx.Done():
			return
		}
	}
}

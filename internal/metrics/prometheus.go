package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the counting engine
type Metrics struct {
	// Submission metrics
	SubmissionsTotal   prometheus.CounterVec
	SubmissionDuration prometheus.Histogram
	ChainLength        prometheus.Histogram
	ChainResetsTotal   prometheus.Counter

	// Admin and query metrics
	ConfigRequestsTotal prometheus.CounterVec
	StatsQueriesTotal   prometheus.Counter
	StatsQueryDuration  prometheus.Histogram

	// Registry metrics
	TenantsTotal      prometheus.Gauge
	ParticipantsTotal prometheus.Gauge

	// Notification metrics
	NotificationsTotal prometheus.CounterVec
	NotifyQueueDepth   prometheus.Gauge

	// Gossip metrics
	GossipMembersTotal prometheus.Gauge

	// System metrics
	MemoryUsageBytes prometheus.Gauge
	GoroutinesTotal  prometheus.Gauge
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(nodeID string) *Metrics {
	labels := prometheus.Labels{"node_id": nodeID}

	return &Metrics{
		SubmissionsTotal: *promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "countchain",
			Subsystem:   "engine",
			Name:        "submissions_total",
			Help:        "Total number of processed submissions by verdict",
			ConstLabels: labels,
		}, []string{"verdict"}),
		SubmissionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace:   "countchain",
			Subsystem:   "engine",
			Name:        "submission_duration_seconds",
			Help:        "Histogram of submission processing durations",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}),
		ChainLength: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace:   "countchain",
			Subsystem:   "engine",
			Name:        "chain_length",
			Help:        "Histogram of running counts reached on accepted submissions",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(1, 2, 12), // 1 to 2048
		}),
		ChainResetsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace:   "countchain",
			Subsystem:   "engine",
			Name:        "chain_resets_total",
			Help:        "Total number of counting chain resets",
			ConstLabels: labels,
		}),

		ConfigRequestsTotal: *promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "countchain",
			Subsystem:   "admin",
			Name:        "config_requests_total",
			Help:        "Total number of channel configuration requests by verdict",
			ConstLabels: labels,
		}, []string{"verdict"}),
		StatsQueriesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace:   "countchain",
			Subsystem:   "stats",
			Name:        "queries_total",
			Help:        "Total number of statistics queries",
			ConstLabels: labels,
		}),
		StatsQueryDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace:   "countchain",
			Subsystem:   "stats",
			Name:        "query_duration_seconds",
			Help:        "Histogram of statistics query durations",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}),

		TenantsTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace:   "countchain",
			Subsystem:   "registry",
			Name:        "tenants_total",
			Help:        "Current number of configured tenants",
			ConstLabels: labels,
		}),
		ParticipantsTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace:   "countchain",
			Subsystem:   "registry",
			Name:        "participants_total",
			Help:        "Current number of known participants",
			ConstLabels: labels,
		}),

		NotificationsTotal: *promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "countchain",
			Subsystem:   "notify",
			Name:        "notifications_total",
			Help:        "Total number of notifications by dispatch status",
			ConstLabels: labels,
		}, []string{"status"}),
		NotifyQueueDepth: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace:   "countchain",
			Subsystem:   "notify",
			Name:        "queue_depth",
			Help:        "Current number of queued notifications",
			ConstLabels: labels,
		}),

		GossipMembersTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace:   "countchain",
			Subsystem:   "gossip",
			Name:        "members_total",
			Help:        "Total number of gossip members",
			ConstLabels: labels,
		}),

		MemoryUsageBytes: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace:   "countchain",
			Subsystem:   "system",
			Name:        "memory_usage_bytes",
			Help:        "Current memory usage in bytes",
			ConstLabels: labels,
		}),
		GoroutinesTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace:   "countchain",
			Subsystem:   "system",
			Name:        "goroutines_total",
			Help:        "Current number of goroutines",
			ConstLabels: labels,
		}),
	}
}

// RecordSubmission records metrics for a processed submission
func (m *Metrics) RecordSubmission(verdict string, duration float64) {
	m.SubmissionsTotal.WithLabelValues(verdict).Inc()
	m.SubmissionDuration.Observe(duration)
}

// RecordChainAdvance records the running count reached by an accepted submission
func (m *Metrics) RecordChainAdvance(runningCount uint64) {
	m.ChainLength.Observe(float64(runningCount))
}

// RecordChainReset records a counting chain reset
func (m *Metrics) RecordChainReset() {
	m.ChainResetsTotal.Inc()
}

// RecordConfigRequest records a channel configuration request
func (m *Metrics) RecordConfigRequest(verdict string) {
	m.ConfigRequestsTotal.WithLabelValues(verdict).Inc()
}

// RecordStatsQuery records a statistics query
func (m *Metrics) RecordStatsQuery(duration float64) {
	m.StatsQueriesTotal.Inc()
	m.StatsQueryDuration.Observe(duration)
}

// UpdateRegistrySizes updates the registry size gauges
func (m *Metrics) UpdateRegistrySizes(tenants, participants int) {
	m.TenantsTotal.Set(float64(tenants))
	m.ParticipantsTotal.Set(float64(participants))
}

// RecordNotification records a notification dispatch outcome
func (m *Metrics) RecordNotification(status string) {
	m.NotificationsTotal.WithLabelValues(status).Inc()
}

// UpdateNotifyQueueDepth updates the notification queue gauge
func (m *Metrics) UpdateNotifyQueueDepth(depth int) {
	m.NotifyQueueDepth.Set(float64(depth))
}

// UpdateGossipMembers updates gossip membership gauge
func (m *Metrics) UpdateGossipMembers(totalMembers int) {
	m.GossipMembersTotal.Set(float64(totalMembers))
}

// UpdateSystemStats updates system-level statistics
func (m *Metrics) UpdateSystemStats(memoryUsage int64, goroutines int) {
	m.MemoryUsageBytes.Set(float64(memoryUsage))
	m.GoroutinesTotal.Set(float64(goroutines))
}

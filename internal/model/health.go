package model

// HealthStatus represents the health state of one engine instance.
type HealthStatus struct {
	NodeID    string
	Status    NodeStatus
	Timestamp int64
	Metrics   HealthMetrics
}

// NodeStatus defines the operational status of an engine instance
type NodeStatus string

const (
	NodeStatusHealthy   NodeStatus = "healthy"
	NodeStatusDegraded  NodeStatus = "degraded"
	NodeStatusUnhealthy NodeStatus = "unhealthy"
)

// HealthMetrics contains the health metrics gossiped between instances.
// Game state is never gossiped; only operational signals travel.
type HealthMetrics struct {
	MemoryUsage    float64
	Goroutines     int
	SubmissionRate float64
	ErrorRate      float64
	UptimeSeconds  int64
}

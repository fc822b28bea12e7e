package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/countchain/engine/internal/model"
	"github.com/countchain/engine/internal/registry"
	"github.com/countchain/engine/internal/validation"
)

func TestQueryParticipant_NeverSeen(t *testing.T) {
	participants := registry.NewParticipants(16, zap.NewNop())
	svc := NewStatsService(participants, zap.NewNop())

	stats, found := svc.QueryParticipant(context.Background(), "ghost", nil)
	assert.False(t, found)
	assert.Equal(t, model.Statistics{}, stats)
}

func TestQueryParticipant_GlobalAndScoped(t *testing.T) {
	logger := zap.NewNop()
	tenants := registry.NewTenants(16, logger)
	participants := registry.NewParticipants(16, logger)
	counting := NewCountingService(tenants, participants, validation.NewValidator(), logger)
	svc := NewStatsService(participants, logger)
	ctx := context.Background()

	tenants.SetActiveChannel("guild-a", "count")
	tenants.SetActiveChannel("guild-b", "count")

	// Alice: 2 correct in guild-a, 1 correct 1 incorrect in guild-b.
	steps := []struct {
		tenant string
		who    string
		text   string
	}{
		{"guild-a", "alice", "1"},
		{"guild-a", "bob", "2"},
		{"guild-a", "alice", "3"},
		{"guild-b", "alice", "1"},
		{"guild-b", "alice", "2"}, // consecutive turn, counts against her
	}
	for _, s := range steps {
		_, err := counting.ProcessSubmission(ctx, submission(s.tenant, s.who, "count", s.text))
		require.NoError(t, err)
	}

	global, found := svc.QueryParticipant(ctx, "alice", nil)
	require.True(t, found)
	assert.Equal(t, model.Statistics{Correct: 3, Incorrect: 1}, global)
	assert.Equal(t, uint64(4), global.Total())

	scopeA := model.TenantID("guild-a")
	statsA, found := svc.QueryParticipant(ctx, "alice", &scopeA)
	require.True(t, found)
	assert.Equal(t, model.Statistics{Correct: 2, Incorrect: 0}, statsA)

	scopeB := model.TenantID("guild-b")
	statsB, found := svc.QueryParticipant(ctx, "alice", &scopeB)
	require.True(t, found)
	assert.Equal(t, model.Statistics{Correct: 1, Incorrect: 1}, statsB)

	// Known participant, tenant they never submitted to: found with a
	// zeroed tally, not absent.
	scopeC := model.TenantID("guild-c")
	statsC, found := svc.QueryParticipant(ctx, "alice", &scopeC)
	require.True(t, found)
	assert.Equal(t, model.Statistics{}, statsC)
}

package registry

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/countchain/engine/internal/model"
)

func TestTenants_GetUnknown(t *testing.T) {
	tenants := NewTenants(16, zap.NewNop())

	rec, ok := tenants.Get("tenant-1")
	assert.False(t, ok)
	assert.Nil(t, rec)
	assert.Equal(t, 0, tenants.Len())
}

func TestTenants_SetActiveChannel_CreatesZeroedRecord(t *testing.T) {
	tenants := NewTenants(16, zap.NewNop())

	created := tenants.SetActiveChannel("tenant-1", "channel-a")
	assert.True(t, created)

	rec, ok := tenants.Get("tenant-1")
	require.True(t, ok)

	rec.Lock()
	defer rec.Unlock()
	assert.Equal(t, model.ChannelID("channel-a"), rec.ActiveChannel)
	assert.Equal(t, uint64(0), rec.RunningCount)
	assert.Equal(t, model.Statistics{}, rec.Tally)
	assert.Nil(t, rec.LastContributor)
}

func TestTenants_SetActiveChannel_UpdatePreservesCounter(t *testing.T) {
	tenants := NewTenants(16, zap.NewNop())

	tenants.SetActiveChannel("tenant-1", "channel-a")

	rec, ok := tenants.Get("tenant-1")
	require.True(t, ok)

	contributor := model.ParticipantID("alice")
	rec.Lock()
	rec.RunningCount = 41
	rec.Tally = model.Statistics{Correct: 41, Incorrect: 3}
	rec.LastContributor = &contributor
	rec.Unlock()

	created := tenants.SetActiveChannel("tenant-1", "channel-b")
	assert.False(t, created)

	rec.Lock()
	defer rec.Unlock()
	assert.Equal(t, model.ChannelID("channel-b"), rec.ActiveChannel)
	assert.Equal(t, uint64(41), rec.RunningCount)
	assert.Equal(t, model.Statistics{Correct: 41, Incorrect: 3}, rec.Tally)
	require.NotNil(t, rec.LastContributor)
	assert.Equal(t, contributor, *rec.LastContributor)
	assert.Equal(t, 1, tenants.Len())
}

func TestTenants_SetActiveChannel_ConcurrentCreateIsSingle(t *testing.T) {
	tenants := NewTenants(4, zap.NewNop())

	const goroutines = 32
	var createdCount int64
	var wg sync.WaitGroup

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if tenants.SetActiveChannel("tenant-1", model.ChannelID(fmt.Sprintf("channel-%d", n))) {
				atomic.AddInt64(&createdCount, 1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(1), createdCount)
	assert.Equal(t, 1, tenants.Len())
}

func TestTenants_Len(t *testing.T) {
	tenants := NewTenants(8, zap.NewNop())

	for i := 0; i < 50; i++ {
		tenants.SetActiveChannel(model.TenantID(fmt.Sprintf("tenant-%d", i)), "channel-a")
	}

	assert.Equal(t, 50, tenants.Len())
}

func TestTenants_ZeroShardsFallsBack(t *testing.T) {
	tenants := NewTenants(0, zap.NewNop())

	created := tenants.SetActiveChannel("tenant-1", "channel-a")
	assert.True(t, created)
	assert.Equal(t, 1, tenants.Len())
}

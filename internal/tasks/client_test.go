package tasks

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, string) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "records.db")

	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(dbPath, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client, tmpDir
}

func TestNewClient_DedicatedDatabase(t *testing.T) {
	_, tmpDir := newTestClient(t)

	// The queue lives in its own file, suffixed off the record store path.
	_, err := os.Stat(filepath.Join(tmpDir, "records-tasks.db"))
	assert.NoError(t, err)
}

func TestClientStartStop(t *testing.T) {
	client, _ := newTestClient(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	time.Sleep(50 * time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	assert.True(t, client.Stop(stopCtx))
}

// probeTask exercises the enqueue-execute round trip.
type probeTask struct {
	Trigger string `json:"trigger"`
}

func (probeTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "probe",
		MaxAttempts: 1,
		Backoff:     time.Second,
		Timeout:     5 * time.Second,
	}
}

func TestTaskRoundTrip(t *testing.T) {
	client, _ := newTestClient(t)

	executed := make(chan string, 1)
	client.Register(backlite.NewQueue(func(ctx context.Context, task probeTask) error {
		executed <- task.Trigger
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	ids, err := client.Add(probeTask{Trigger: "app_start"}).Save()
	require.NoError(t, err)
	assert.Len(t, ids, 1)

	select {
	case trigger := <-executed:
		assert.Equal(t, "app_start", trigger)
	case <-time.After(5 * time.Second):
		t.Fatal("task was not executed within timeout")
	}
}

func TestSyncPassTaskConfig(t *testing.T) {
	cfg := SyncPassTask{Trigger: "app_start"}.Config()

	assert.Equal(t, "sync_pass", cfg.Name)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, time.Minute, cfg.Backoff)
	assert.Equal(t, 5*time.Minute, cfg.Timeout)
	assert.NotNil(t, cfg.Retention)
}

func TestCleanupSyncedTaskConfig(t *testing.T) {
	cfg := CleanupSyncedTask{RetentionHours: 168}.Config()

	assert.Equal(t, "cleanup_synced", cfg.Name)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 2*time.Minute, cfg.Timeout)
	assert.NotNil(t, cfg.Retention)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, time.Minute, cfg.RetryDelay)
	assert.Equal(t, 5*time.Minute, cfg.TaskTimeout)
	assert.Equal(t, 15*time.Minute, cfg.ReleaseAfter)
	assert.Equal(t, time.Hour, cfg.CleanupInterval)
	assert.Equal(t, 24*time.Hour, cfg.RetentionDuration)
}

package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delcain/drawsync/internal/testutil"
	"github.com/delcain/drawsync/pkg/engine"
)

type recordingSyncer struct {
	mu   sync.Mutex
	runs int
	done chan struct{}
}

func newRecordingSyncer() *recordingSyncer {
	return &recordingSyncer{done: make(chan struct{}, 16)}
}

func (r *recordingSyncer) Sync(_ context.Context) (*engine.Summary, error) {
	r.mu.Lock()
	r.runs++
	r.mu.Unlock()

	r.done <- struct{}{}

	return &engine.Summary{Mode: engine.ModeUpToDate}, nil
}

func (r *recordingSyncer) Runs() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.runs
}

func waitForRun(t *testing.T, syncer *recordingSyncer) {
	t.Helper()

	select {
	case <-syncer.done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for sync run")
	}
}

func TestService_SyncOnStart(t *testing.T) {
	syncer := newRecordingSyncer()

	svc, err := NewService(testutil.NewLogger(), &Config{
		Schedule:    "@every 6h",
		SyncOnStart: true,
		LockTTL:     time.Minute,
	}, syncer)
	require.NoError(t, err)

	require.NoError(t, svc.Start(context.Background()))

	waitForRun(t, syncer)

	require.NoError(t, svc.Stop())
	assert.Equal(t, 1, syncer.Runs())
}

func TestService_NoSyncOnStart(t *testing.T) {
	syncer := newRecordingSyncer()

	svc, err := NewService(testutil.NewLogger(), &Config{
		Schedule:    "@every 6h",
		SyncOnStart: false,
		LockTTL:     time.Minute,
	}, syncer)
	require.NoError(t, err)

	require.NoError(t, svc.Start(context.Background()))
	require.NoError(t, svc.Stop())

	assert.Equal(t, 0, syncer.Runs())
}

func TestService_StartRejectsBadSchedule(t *testing.T) {
	svc, err := NewService(testutil.NewLogger(), &Config{
		Schedule: "not a schedule",
		LockTTL:  time.Minute,
	}, newRecordingSyncer())
	require.NoError(t, err)

	assert.Error(t, svc.Start(context.Background()))
}

func TestService_SkipsWhenLockHeld(t *testing.T) {
	_, url := testutil.NewMiniredisURL(t)

	// Another instance already holds the lease.
	holder := newRedisLock(t, url, time.Minute)
	acquired, err := holder.Acquire(context.Background())
	require.NoError(t, err)
	require.True(t, acquired)

	syncer := newRecordingSyncer()

	svc, err := NewService(testutil.NewLogger(), &Config{
		Schedule:    "@every 6h",
		SyncOnStart: true,
		Redis:       RedisConfig{URL: url},
		LockTTL:     time.Minute,
	}, syncer)
	require.NoError(t, err)

	require.NoError(t, svc.Start(context.Background()))
	require.NoError(t, svc.Stop())

	assert.Equal(t, 0, syncer.Runs())
}

func TestService_ReleasesLockAfterRun(t *testing.T) {
	_, url := testutil.NewMiniredisURL(t)

	syncer := newRecordingSyncer()

	svc, err := NewService(testutil.NewLogger(), &Config{
		Schedule:    "@every 6h",
		SyncOnStart: true,
		Redis:       RedisConfig{URL: url},
		LockTTL:     time.Minute,
	}, syncer)
	require.NoError(t, err)

	require.NoError(t, svc.Start(context.Background()))
	waitForRun(t, syncer)
	require.NoError(t, svc.Stop())

	other := newRedisLock(t, url, time.Minute)

	acquired, err := other.Acquire(context.Background())
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestService_StopCancelledContext(t *testing.T) {
	syncer := newRecordingSyncer()

	svc, err := NewService(testutil.NewLogger(), &Config{
		Schedule:    "@every 6h",
		SyncOnStart: true,
		LockTTL:     time.Minute,
	}, syncer)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, svc.Start(ctx))
	require.NoError(t, svc.Stop())

	// The on-start run observed the cancelled context and never synced.
	assert.Equal(t, 0, syncer.Runs())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			name: "valid",
			cfg:  Config{Schedule: "@every 6h", LockTTL: time.Minute},
		},
		{
			name:    "missing schedule",
			cfg:     Config{LockTTL: time.Minute},
			wantErr: ErrScheduleRequired,
		},
		{
			name:    "zero lock ttl",
			cfg:     Config{Schedule: "@every 6h"},
			wantErr: ErrInvalidLockTTL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

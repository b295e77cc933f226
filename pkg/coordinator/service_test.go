package coordinator

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delcain/drawsync/internal/testutil"
	"github.com/delcain/drawsync/pkg/caixa"
	"github.com/delcain/drawsync/pkg/store"
)

func testConfig() *Config {
	return &Config{
		Concurrency:        5,
		BatchSize:          10,
		RetryAttempts:      3,
		RetryBackoff:       time.Millisecond,
		CheckpointInterval: 0,
	}
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	st, err := store.New(testutil.NewLogger(), &store.Config{Dir: t.TempDir()})
	require.NoError(t, err)
	require.NoError(t, st.Load())

	return st
}

func newTestService(t *testing.T, cfg *Config, source caixa.Client, st *store.Store) Service {
	t.Helper()

	svc, err := NewService(testutil.NewLogger(), cfg, source, st)
	require.NoError(t, err)

	return svc
}

func TestService_Run_FullRange(t *testing.T) {
	source := testutil.NewFakeSource(120)
	st := newTestStore(t)
	svc := newTestService(t, testConfig(), source, st)

	summary, err := svc.Run(context.Background(), 1, 120)

	require.NoError(t, err)
	assert.Equal(t, 120, summary.Acquired)
	assert.Empty(t, summary.Missing)

	assert.Equal(t, 120, st.Len())
	assert.Equal(t, 120, st.Latest())
	assert.Empty(t, st.Gaps())

	// Records land in ascending order regardless of fetch completion order.
	all := st.All()
	for i := range all {
		assert.Equal(t, i+1, all[i].Number)
	}
}

func TestService_Run_EmptyRange(t *testing.T) {
	source := testutil.NewFakeSource(10)
	st := newTestStore(t)
	svc := newTestService(t, testConfig(), source, st)

	summary, err := svc.Run(context.Background(), 11, 10)

	require.NoError(t, err)
	assert.Equal(t, 0, summary.Acquired)
	assert.Empty(t, summary.Missing)
	assert.Equal(t, 0, st.Len())
}

func TestService_Run_IsolatesFailedDraw(t *testing.T) {
	source := testutil.NewFakeSource(30)
	source.FailWith(17, fmt.Errorf("%w: broken payload", caixa.ErrMalformed))

	st := newTestStore(t)
	svc := newTestService(t, testConfig(), source, st)

	summary, err := svc.Run(context.Background(), 1, 30)

	require.NoError(t, err)
	assert.Equal(t, 29, summary.Acquired)
	assert.Equal(t, []int{17}, summary.Missing)

	assert.False(t, st.Has(17))
	assert.Equal(t, []int{17}, st.Gaps())
}

func TestService_Run_MissingAtFrontier(t *testing.T) {
	// The source reports fewer draws than requested: everything past its
	// latest comes back not found.
	source := testutil.NewFakeSource(25)
	st := newTestStore(t)
	svc := newTestService(t, testConfig(), source, st)

	summary, err := svc.Run(context.Background(), 1, 28)

	require.NoError(t, err)
	assert.Equal(t, 25, summary.Acquired)
	assert.Equal(t, []int{26, 27, 28}, summary.Missing)
	assert.Equal(t, 25, st.Latest())
}

func TestService_Run_RetriesTransientFailures(t *testing.T) {
	source := testutil.NewFakeSource(20)
	source.FailTransiently(7, 2)

	st := newTestStore(t)
	svc := newTestService(t, testConfig(), source, st)

	summary, err := svc.Run(context.Background(), 1, 20)

	require.NoError(t, err)
	assert.Equal(t, 20, summary.Acquired)
	assert.Empty(t, summary.Missing)
	assert.Equal(t, 3, source.Fetches(7))
}

func TestService_Run_ExhaustsRetries(t *testing.T) {
	source := testutil.NewFakeSource(20)
	source.FailTransiently(7, 100)

	cfg := testConfig()
	cfg.RetryAttempts = 2

	st := newTestStore(t)
	svc := newTestService(t, cfg, source, st)

	summary, err := svc.Run(context.Background(), 1, 20)

	require.NoError(t, err)
	assert.Equal(t, 19, summary.Acquired)
	assert.Equal(t, []int{7}, summary.Missing)
	assert.Equal(t, 3, source.Fetches(7))
}

func TestService_Run_WritesCheckpoints(t *testing.T) {
	source := testutil.NewFakeSource(100)

	cfg := testConfig()
	cfg.CheckpointInterval = 40

	st := newTestStore(t)
	svc := newTestService(t, cfg, source, st)

	summary, err := svc.Run(context.Background(), 1, 100)

	require.NoError(t, err)
	assert.Equal(t, 100, summary.Acquired)

	cp, err := st.LoadCheckpoint()
	require.NoError(t, err)
	assert.Equal(t, 100, cp.Latest)
	assert.Equal(t, 100, cp.Draws)
}

func TestService_Run_CancellationAndResume(t *testing.T) {
	dir := t.TempDir()

	source := testutil.NewFakeSource(40)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Cancel while the second batch is in flight; the batch still runs to
	// completion and its results are made durable.
	source.OnFetch(func(number int) {
		if number == 15 {
			cancel()
		}
	})

	cfg := testConfig()
	cfg.CheckpointInterval = 10

	st, err := store.New(testutil.NewLogger(), &store.Config{Dir: dir})
	require.NoError(t, err)
	require.NoError(t, st.Load())

	svc := newTestService(t, cfg, source, st)

	summary, err := svc.Run(ctx, 1, 40)

	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, summary.Missing)
	assert.Equal(t, summary.Acquired, st.Len())
	assert.Less(t, st.Len(), 40)
	assert.GreaterOrEqual(t, st.Len(), 10)
	assert.Empty(t, st.Gaps())

	// A fresh store picks up where the interrupted run stopped.
	resumed, err := store.New(testutil.NewLogger(), &store.Config{Dir: dir})
	require.NoError(t, err)
	require.NoError(t, resumed.Load())

	cp, err := resumed.LoadCheckpoint()
	require.NoError(t, err)
	assert.Equal(t, resumed.Latest(), cp.Latest)

	resumeSvc := newTestService(t, cfg, testutil.NewFakeSource(40), resumed)

	resumeSummary, err := resumeSvc.Run(context.Background(), resumed.Latest()+1, 40)
	require.NoError(t, err)
	require.NoError(t, resumed.Flush())

	assert.Equal(t, 40, summary.Acquired+resumeSummary.Acquired)
	assert.Equal(t, 40, resumed.Latest())
	assert.Empty(t, resumed.Gaps())

	// The resumed store is identical to one acquired without interruption.
	uninterrupted := newTestStore(t)
	baseline := newTestService(t, testConfig(), testutil.NewFakeSource(40), uninterrupted)

	_, err = baseline.Run(context.Background(), 1, 40)
	require.NoError(t, err)

	assert.Equal(t, uninterrupted.All(), resumed.All())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{
			name:   "valid",
			mutate: func(_ *Config) {},
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.Concurrency = 0 },
			wantErr: ErrInvalidConcurrency,
		},
		{
			name:    "zero batch size",
			mutate:  func(c *Config) { c.BatchSize = 0 },
			wantErr: ErrInvalidBatchSize,
		},
		{
			name:    "negative retry attempts",
			mutate:  func(c *Config) { c.RetryAttempts = -1 },
			wantErr: ErrInvalidRetryAttempts,
		},
		{
			name:    "zero retry backoff",
			mutate:  func(c *Config) { c.RetryBackoff = 0 },
			wantErr: ErrInvalidRetryBackoff,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

package engine

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/delcain/drawsync/pkg/caixa"
	"github.com/delcain/drawsync/pkg/coordinator"
	"github.com/delcain/drawsync/pkg/draw"
	"github.com/delcain/drawsync/pkg/index"
	"github.com/delcain/drawsync/pkg/observability"
	"github.com/delcain/drawsync/pkg/store"
)

// Summary reports the outcome of one sync run. A run always completes with
// a summary unless the existing store failed to load, so callers can
// distinguish "fully up to date", "partially synced with missing draws",
// and total failure.
type Summary struct {
	Mode      Mode          `json:"mode"`
	LocalMax  int           `json:"localMax"`
	RemoteMax int           `json:"remoteMax"`
	Acquired  int           `json:"acquired"`
	Missing   []int         `json:"missing,omitempty"`
	Duration  time.Duration `json:"duration"`
}

// UpToDate reports whether the run found nothing to acquire.
func (s *Summary) UpToDate() bool {
	return s.Mode == ModeUpToDate
}

// Stats is the descriptive summary of the stored history.
type Stats struct {
	TotalDraws      int       `json:"totalDraws"`
	FirstDraw       int       `json:"firstDraw"`
	LatestDraw      int       `json:"latestDraw"`
	FirstDate       time.Time `json:"firstDate"`
	LatestDate      time.Time `json:"latestDate"`
	NumbersDrawn    int       `json:"numbersDrawn"`
	DistinctNumbers int       `json:"distinctNumbers"`
}

// Service is the engine API surface consumed by the analysis facade and
// the HTTP query layer.
type Service interface {
	// Sync brings the local store up to date with the remote source
	Sync(ctx context.Context) (*Summary, error)

	// AllDraws returns the full ordered record collection
	AllDraws() []draw.Record

	// Draw returns one stored record by draw number
	Draw(number int) (*draw.Record, bool)

	// IsKnownCombination reports whether the combination was ever drawn
	IsKnownCombination(numbers []int) bool

	// OccurrenceCount returns how many times a number has been drawn
	OccurrenceCount(number int) int

	// DrawsSinceLastSeen returns the gap for a number, index.NeverDrawn if never drawn
	DrawsSinceLastSeen(number int) int

	// Stats returns the descriptive summary of the stored history
	Stats() Stats

	// ExportCSV writes the store as CSV, returning the written path
	ExportCSV(path string) (string, error)
}

type service struct {
	log    logrus.FieldLogger
	cfg    *Config
	client caixa.Client
	store  *store.Store

	// mu guards the snapshot swap after a sync. Queries only ever read
	// the immutable snapshot and index, never the live store, so the API
	// can be served while a scheduled sync run appends.
	mu    sync.RWMutex
	index *index.Index
	draws []draw.Record
}

// NewService creates the sync engine. The existing store is loaded
// eagerly, so a corrupt store surfaces here rather than on first query.
func NewService(log logrus.FieldLogger, cfg *Config, client caixa.Client, st *store.Store) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := st.Load(); err != nil {
		return nil, err
	}

	s := &service{
		log:    log.WithField("service", "engine"),
		cfg:    cfg,
		client: client,
		store:  st,
	}
	s.refreshSnapshot()

	return s, nil
}

// New creates the engine along with its remote client and store.
func New(log logrus.FieldLogger, cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := caixa.NewClient(log, &cfg.Source)
	if err != nil {
		return nil, err
	}

	st, err := store.New(log, &cfg.Store)
	if err != nil {
		return nil, err
	}

	return NewService(log, cfg, client, st)
}

func (s *service) Sync(ctx context.Context) (*Summary, error) {
	start := time.Now()

	if cp, err := s.store.LoadCheckpoint(); err == nil {
		s.log.WithFields(logrus.Fields{
			"latest": cp.Latest,
			"draws":  cp.Draws,
			"age":    time.Since(cp.UpdatedAt).Round(time.Second).String(),
		}).Info("Resuming from interrupted bootstrap")
	}

	remoteMax, err := s.client.LatestDrawNumber(ctx)
	if err != nil {
		observability.RecordSyncRun("unknown", "error", time.Since(start).Seconds())

		return nil, err
	}

	localMax := s.store.Latest()
	mode := SelectMode(localMax, remoteMax, s.cfg.BootstrapThreshold)

	summary := &Summary{
		Mode:      mode,
		LocalMax:  localMax,
		RemoteMax: remoteMax,
	}

	s.log.WithFields(logrus.Fields{
		"local_max":  localMax,
		"remote_max": remoteMax,
		"mode":       mode,
	}).Info("Selected sync mode")

	if mode == ModeUpToDate {
		summary.Duration = time.Since(start)
		observability.RecordSyncRun(string(mode), "success", summary.Duration.Seconds())

		return summary, nil
	}

	coord, err := coordinator.NewService(s.log, s.runConfig(mode), s.client, s.store)
	if err != nil {
		return nil, err
	}

	runSummary, runErr := coord.Run(ctx, localMax+1, remoteMax)
	summary.Acquired = runSummary.Acquired
	summary.Missing = runSummary.Missing

	if err := s.store.Flush(); err != nil {
		observability.RecordSyncRun(string(mode), "error", time.Since(start).Seconds())

		return summary, err
	}

	// The checkpoint marker only survives an interrupted bootstrap; a run
	// that covered its whole range no longer needs it.
	if runErr == nil {
		if err := s.store.ClearCheckpoint(); err != nil {
			s.log.WithError(err).Warn("Failed to clear checkpoint marker")
		}
	}

	s.refreshSnapshot()

	summary.Duration = time.Since(start)
	observability.RecordSyncRun(string(mode), runStatus(summary, runErr), summary.Duration.Seconds())

	return summary, runErr
}

// runConfig derives the coordinator configuration for the selected mode.
// Incremental catch-up drops concurrency and disables checkpointing: the
// range is small enough that restarting a failed run is cheap.
func (s *service) runConfig(mode Mode) *coordinator.Config {
	cfg := s.cfg.Acquisition

	if mode == ModeIncremental {
		cfg.Concurrency = s.cfg.IncrementalConcurrency
		cfg.CheckpointInterval = 0
	}

	return &cfg
}

// refreshSnapshot recomputes the record snapshot and query index from the
// full store. Rebuilding instead of patching keeps both trivially
// consistent with the store.
func (s *service) refreshSnapshot() {
	snapshot := s.store.All()
	ix := index.Build(snapshot)

	s.mu.Lock()
	s.draws = snapshot
	s.index = ix
	s.mu.Unlock()
}

func (s *service) queryIndex() *index.Index {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.index
}

func (s *service) AllDraws() []draw.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]draw.Record, len(s.draws))
	copy(out, s.draws)

	return out
}

func (s *service) Draw(number int) (*draw.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := sort.Search(len(s.draws), func(i int) bool { return s.draws[i].Number >= number })
	if i == len(s.draws) || s.draws[i].Number != number {
		return nil, false
	}

	rec := s.draws[i]

	return &rec, true
}

func (s *service) IsKnownCombination(numbers []int) bool {
	return s.queryIndex().IsKnownCombination(numbers)
}

func (s *service) OccurrenceCount(number int) int {
	return s.queryIndex().OccurrenceCount(number)
}

func (s *service) DrawsSinceLastSeen(number int) int {
	return s.queryIndex().DrawsSinceLastSeen(number)
}

func (s *service) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{
		TotalDraws:      len(s.draws),
		NumbersDrawn:    len(s.draws) * draw.Size,
		DistinctNumbers: s.index.DistinctNumbers(),
	}

	if len(s.draws) > 0 {
		stats.FirstDraw = s.draws[0].Number
		stats.FirstDate = s.draws[0].Date
		stats.LatestDraw = s.draws[len(s.draws)-1].Number
		stats.LatestDate = s.draws[len(s.draws)-1].Date
	}

	return stats
}

func (s *service) ExportCSV(path string) (string, error) {
	return s.store.ExportCSV(path)
}

func runStatus(summary *Summary, runErr error) string {
	switch {
	case runErr != nil:
		return "error"
	case len(summary.Missing) > 0:
		return "partial"
	default:
		return "success"
	}
}

var _ Service = (*service)(nil)

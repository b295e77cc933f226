package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/delcain/drawsync/pkg/draw"
	"github.com/delcain/drawsync/pkg/observability"
)

// Store is the local draw store. Records are kept ascending by draw number
// and persisted as an indented JSON array so the file stays human-diffable.
//
// The store is single-writer: during a sync run only the acquisition
// coordinator appends, and queries run in a separate phase. Append stages
// records in memory; Flush and WriteCheckpoint make them durable.
type Store struct {
	log logrus.FieldLogger
	cfg *Config

	dataPath       string
	checkpointPath string

	draws    []draw.Record
	byNumber map[int]struct{}
	dirty    bool
}

// New creates a draw store rooted at the configured directory
func New(log logrus.FieldLogger, cfg *Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory %s: %w", cfg.Dir, err)
	}

	return &Store{
		log:            log.WithField("service", "store"),
		cfg:            cfg,
		dataPath:       filepath.Join(cfg.Dir, dataFileName),
		checkpointPath: filepath.Join(cfg.Dir, checkpointFileName),
		byNumber:       make(map[int]struct{}),
	}, nil
}

// Load reads the persisted store into memory. A missing file is an empty
// store, not an error. Parse failures, duplicate draw numbers and
// out-of-order content fail with ErrCorrupt; contiguity gaps are flagged
// in the log but tolerated, since a partially bootstrapped store legally
// carries them until the missing draws are acquired.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.dataPath)
	if err != nil {
		if os.IsNotExist(err) {
			s.draws = nil
			s.byNumber = make(map[int]struct{})

			return nil
		}

		return fmt.Errorf("failed to read store file: %w", err)
	}

	var records []draw.Record
	if err := json.Unmarshal(normalizeUTF8(data), &records); err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	byNumber := make(map[int]struct{}, len(records))

	for i := range records {
		rec := &records[i]

		if err := rec.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrCorrupt, err)
		}

		if _, ok := byNumber[rec.Number]; ok {
			return fmt.Errorf("%w: duplicate draw number %d", ErrCorrupt, rec.Number)
		}

		if i > 0 && rec.Number < records[i-1].Number {
			return fmt.Errorf("%w: draw %d out of order after %d", ErrCorrupt, rec.Number, records[i-1].Number)
		}

		byNumber[rec.Number] = struct{}{}
	}

	s.draws = records
	s.byNumber = byNumber
	s.dirty = false

	observability.StoreDraws.Set(float64(len(s.draws)))

	if gaps := s.Gaps(); len(gaps) > 0 {
		s.log.WithFields(logrus.Fields{
			"gaps":   len(gaps),
			"latest": s.Latest(),
		}).Warn("Loaded store is not contiguous")
	}

	return nil
}

// Append stages validated records. Draw-number collisions, whether with
// existing content or within the batch itself, are rejected with
// ErrInvariantViolation before anything is staged, so a failed append
// never leaves the store half-modified.
func (s *Store) Append(records []draw.Record) error {
	incoming := make(map[int]struct{}, len(records))

	for i := range records {
		rec := &records[i]

		if err := rec.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvariantViolation, err)
		}

		if _, ok := s.byNumber[rec.Number]; ok {
			return fmt.Errorf("%w: draw %d already stored", ErrInvariantViolation, rec.Number)
		}

		if _, ok := incoming[rec.Number]; ok {
			return fmt.Errorf("%w: draw %d appears twice in one append", ErrInvariantViolation, rec.Number)
		}

		incoming[rec.Number] = struct{}{}
	}

	s.draws = append(s.draws, records...)
	sort.Slice(s.draws, func(i, j int) bool { return s.draws[i].Number < s.draws[j].Number })

	for i := range records {
		s.byNumber[records[i].Number] = struct{}{}
	}

	if len(records) > 0 {
		s.dirty = true
	}

	observability.StoreDraws.Set(float64(len(s.draws)))

	return nil
}

// Flush durably writes staged records. The file is written to a temporary
// path and renamed so an interruption never leaves a truncated store.
func (s *Store) Flush() error {
	if !s.dirty {
		return nil
	}

	data, err := json.MarshalIndent(s.draws, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}

	tmp := s.dataPath + ".tmp"

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}

	if err := os.Rename(tmp, s.dataPath); err != nil {
		return fmt.Errorf("failed to replace store file: %w", err)
	}

	s.dirty = false

	s.log.WithFields(logrus.Fields{
		"draws": len(s.draws),
		"path":  s.dataPath,
	}).Debug("Flushed draw store")

	return nil
}

// All returns the full ordered collection.
func (s *Store) All() []draw.Record {
	out := make([]draw.Record, len(s.draws))
	copy(out, s.draws)

	return out
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	return len(s.draws)
}

// Latest returns the highest stored draw number, or 0 for an empty store.
func (s *Store) Latest() int {
	if len(s.draws) == 0 {
		return 0
	}

	return s.draws[len(s.draws)-1].Number
}

// Get returns the stored record for a draw number.
func (s *Store) Get(number int) (*draw.Record, bool) {
	if _, ok := s.byNumber[number]; !ok {
		return nil, false
	}

	i := sort.Search(len(s.draws), func(i int) bool { return s.draws[i].Number >= number })
	rec := s.draws[i]

	return &rec, true
}

// Has reports whether a draw number is stored.
func (s *Store) Has(number int) bool {
	_, ok := s.byNumber[number]

	return ok
}

// Gaps returns the draw numbers missing from the contiguous range
// [1, Latest]. Empty when the store is fully synchronized.
func (s *Store) Gaps() []int {
	var gaps []int

	for n := 1; n <= s.Latest(); n++ {
		if !s.Has(n) {
			gaps = append(gaps, n)
		}
	}

	return gaps
}

package store

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/delcain/drawsync/pkg/observability"
)

// Checkpoint is the transient bootstrap progress marker: the highest draw
// number durably written so far. It exists only while a bootstrap run is in
// flight and is removed on successful completion.
type Checkpoint struct {
	Latest    int       `json:"latest"`
	Draws     int       `json:"draws"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// WriteCheckpoint flushes everything appended so far and records the
// progress marker, so an interruption loses at most the records acquired
// since the last call.
func (s *Store) WriteCheckpoint() error {
	if err := s.Flush(); err != nil {
		return err
	}

	cp := Checkpoint{
		Latest:    s.Latest(),
		Draws:     s.Len(),
		UpdatedAt: time.Now().UTC(),
	}

	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}

	if err := os.WriteFile(s.checkpointPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}

	observability.RecordCheckpoint()

	s.log.WithField("latest", cp.Latest).Debug("Wrote acquisition checkpoint")

	return nil
}

// LoadCheckpoint returns the progress marker from an interrupted bootstrap,
// or ErrNoCheckpoint when none exists. An unreadable marker is reported as
// ErrNoCheckpoint too: resume safety comes from the data file itself, the
// marker only informs logging.
func (s *Store) LoadCheckpoint() (*Checkpoint, error) {
	data, err := os.ReadFile(s.checkpointPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoCheckpoint
		}

		return nil, fmt.Errorf("failed to read checkpoint: %w", err)
	}

	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		s.log.WithError(err).Warn("Discarding unreadable checkpoint marker")

		return nil, ErrNoCheckpoint
	}

	return &cp, nil
}

// ClearCheckpoint removes the progress marker after a completed bootstrap.
func (s *Store) ClearCheckpoint() error {
	if err := os.Remove(s.checkpointPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove checkpoint: %w", err)
	}

	return nil
}

// Package draw defines the domain types for Mega-Sena draw records.
package draw

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

const (
	// Size is the number of balls drawn per contest.
	Size = 6
	// MaxNumber is the highest drawable ball number.
	MaxNumber = 60
)

var (
	// ErrInvalidDrawNumber is returned when a record carries a non-positive draw number
	ErrInvalidDrawNumber = errors.New("draw number must be positive")
	// ErrWrongBallCount is returned when a record does not carry exactly Size balls
	ErrWrongBallCount = errors.New("wrong number of drawn balls")
	// ErrBallOutOfRange is returned when a drawn ball is outside [1, MaxNumber]
	ErrBallOutOfRange = errors.New("drawn ball out of range")
	// ErrDuplicateBall is returned when the same ball appears twice in one record
	ErrDuplicateBall = errors.New("duplicate ball within draw")
)

// Record is a single historical draw. Records are immutable once stored:
// they are created by acquisition, validated, and never mutated afterwards.
type Record struct {
	Number      int       `json:"number"`
	Date        time.Time `json:"date"`
	Numbers     []int     `json:"numbers"`
	Accumulated bool      `json:"accumulated"`
	CarryOver   float64   `json:"carryOver,omitempty"`
	Winners     int       `json:"winners,omitempty"`
	Prize       float64   `json:"prize,omitempty"`
	Location    string    `json:"location,omitempty"`
}

// Normalize sorts the drawn numbers ascending. The draw order reported by
// the remote source is irrelevant to identity, so records are always stored
// in canonical sorted form.
func (r *Record) Normalize() {
	sort.Ints(r.Numbers)
}

// Validate checks the record against the domain invariants.
func (r *Record) Validate() error {
	if r.Number <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidDrawNumber, r.Number)
	}

	if len(r.Numbers) != Size {
		return fmt.Errorf("%w: draw %d has %d balls, want %d", ErrWrongBallCount, r.Number, len(r.Numbers), Size)
	}

	seen := make(map[int]struct{}, Size)

	for _, n := range r.Numbers {
		if n < 1 || n > MaxNumber {
			return fmt.Errorf("%w: draw %d contains %d", ErrBallOutOfRange, r.Number, n)
		}

		if _, ok := seen[n]; ok {
			return fmt.Errorf("%w: draw %d contains %d twice", ErrDuplicateBall, r.Number, n)
		}

		seen[n] = struct{}{}
	}

	return nil
}

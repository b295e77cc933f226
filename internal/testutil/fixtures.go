// Package testutil provides shared helpers for unit tests.
package testutil

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/delcain/drawsync/pkg/draw"
)

// firstContestDate is the date of Mega-Sena contest number 1.
var firstContestDate = time.Date(1996, 3, 11, 0, 0, 0, 0, time.UTC)

// NewRecord builds a deterministic valid record for a draw number. The
// drawn numbers are derived from the draw number so two calls with the
// same argument always produce the same record.
func NewRecord(number int) draw.Record {
	numbers := make([]int, 0, draw.Size)
	for i := 0; i < draw.Size; i++ {
		numbers = append(numbers, (number+i*9)%draw.MaxNumber+1)
	}

	rec := draw.Record{
		Number:      number,
		Date:        firstContestDate.AddDate(0, 0, (number-1)*3),
		Numbers:     numbers,
		Accumulated: number%2 == 0,
		Location:    "SAO PAULO, SP",
	}

	if rec.Accumulated {
		rec.CarryOver = float64(number) * 1000
	} else {
		rec.Winners = 1
		rec.Prize = float64(number) * 500
	}

	rec.Normalize()

	return rec
}

// NewRecords builds records for the inclusive draw number range [lo, hi].
func NewRecords(lo, hi int) []draw.Record {
	records := make([]draw.Record, 0, hi-lo+1)
	for n := lo; n <= hi; n++ {
		records = append(records, NewRecord(n))
	}

	return records
}

// NewLogger returns a logger that discards all output.
func NewLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)

	return log
}

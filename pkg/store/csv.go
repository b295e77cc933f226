package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// csvDateLayout keeps exported dates sortable as plain text.
const csvDateLayout = "2006-01-02"

// WriteCSV writes the store as CSV, one row per draw ordered by draw
// number, with each sorted ball in its own column.
func (s *Store) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	header := []string{"number", "date", "n1", "n2", "n3", "n4", "n5", "n6", "accumulated", "carry_over", "winners", "prize"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i := range s.draws {
		rec := &s.draws[i]

		row := make([]string, 0, len(header))
		row = append(row, strconv.Itoa(rec.Number), rec.Date.Format(csvDateLayout))

		for _, n := range rec.Numbers {
			row = append(row, strconv.Itoa(n))
		}

		row = append(row,
			strconv.FormatBool(rec.Accumulated),
			strconv.FormatFloat(rec.CarryOver, 'f', 2, 64),
			strconv.Itoa(rec.Winners),
			strconv.FormatFloat(rec.Prize, 'f', 2, 64),
		)

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// ExportCSV writes the CSV next to the JSON store, or to path when given.
func (s *Store) ExportCSV(path string) (string, error) {
	if path == "" {
		path = filepath.Join(s.cfg.Dir, csvFileName)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer f.Close()

	if err := s.WriteCSV(f); err != nil {
		return "", err
	}

	return path, nil
}

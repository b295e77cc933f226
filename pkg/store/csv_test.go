package store

import (
	"bytes"
	"encoding/csv"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delcain/drawsync/internal/testutil"
	"github.com/delcain/drawsync/pkg/draw"
)

func TestStore_WriteCSV(t *testing.T) {
	st := newTestStore(t)

	rec := draw.Record{
		Number:      2500,
		Date:        testutil.NewRecord(1).Date,
		Numbers:     []int{4, 8, 15, 16, 23, 42},
		Accumulated: false,
		Winners:     2,
		Prize:       58909605.79,
	}
	require.NoError(t, st.Append([]draw.Record{rec}))

	var buf bytes.Buffer
	require.NoError(t, st.WriteCSV(&buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []string{
		"number", "date", "n1", "n2", "n3", "n4", "n5", "n6",
		"accumulated", "carry_over", "winners", "prize",
	}, rows[0])
	assert.Equal(t, []string{
		"2500", "1996-03-11", "4", "8", "15", "16", "23", "42",
		"false", "0.00", "2", "58909605.79",
	}, rows[1])
}

func TestStore_WriteCSV_Ordered(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.Append(testutil.NewRecords(1, 10)))

	var buf bytes.Buffer
	require.NoError(t, st.WriteCSV(&buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 11)

	for i, row := range rows[1:] {
		assert.Equal(t, []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}[i], row[0])
	}
}

func TestStore_ExportCSV_DefaultPath(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.Append(testutil.NewRecords(1, 3)))

	path, err := st.ExportCSV("")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "number,date,n1")
}

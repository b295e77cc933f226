package index

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/delcain/drawsync/pkg/draw"
)

func record(number int, numbers ...int) draw.Record {
	return draw.Record{
		Number:  number,
		Date:    time.Date(1996, 3, 11, 0, 0, 0, 0, time.UTC).AddDate(0, 0, number*3),
		Numbers: numbers,
	}
}

func historyFixture() []draw.Record {
	return []draw.Record{
		record(1, 4, 8, 15, 16, 23, 42),
		record(2, 1, 8, 20, 30, 40, 50),
		record(3, 4, 10, 20, 33, 44, 55),
	}
}

func TestIndex_IsKnownCombination(t *testing.T) {
	ix := Build(historyFixture())

	tests := []struct {
		name    string
		numbers []int
		want    bool
	}{
		{
			name:    "known combination in order",
			numbers: []int{4, 8, 15, 16, 23, 42},
			want:    true,
		},
		{
			name:    "known combination reordered",
			numbers: []int{42, 23, 16, 15, 8, 4},
			want:    true,
		},
		{
			name:    "unknown combination",
			numbers: []int{1, 2, 3, 4, 5, 6},
			want:    false,
		},
		{
			name:    "subset of a known combination",
			numbers: []int{4, 8, 15, 16, 23},
			want:    false,
		},
		{
			name:    "too many numbers",
			numbers: []int{4, 8, 15, 16, 23, 42, 50},
			want:    false,
		},
		{
			name:    "empty query",
			numbers: nil,
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ix.IsKnownCombination(tt.numbers))
		})
	}
}

func TestIndex_OccurrenceCount(t *testing.T) {
	ix := Build(historyFixture())

	assert.Equal(t, 2, ix.OccurrenceCount(4))
	assert.Equal(t, 2, ix.OccurrenceCount(8))
	assert.Equal(t, 2, ix.OccurrenceCount(20))
	assert.Equal(t, 1, ix.OccurrenceCount(42))
	assert.Equal(t, 0, ix.OccurrenceCount(60))
	assert.Equal(t, 0, ix.OccurrenceCount(0))
	assert.Equal(t, 0, ix.OccurrenceCount(draw.MaxNumber+1))
}

func TestIndex_OccurrenceCountsSumToTotalBalls(t *testing.T) {
	records := historyFixture()
	ix := Build(records)

	sum := 0
	for n := 1; n <= draw.MaxNumber; n++ {
		sum += ix.OccurrenceCount(n)
	}

	assert.Equal(t, len(records)*draw.Size, sum)
}

func TestIndex_DrawsSinceLastSeen(t *testing.T) {
	ix := Build(historyFixture())

	// In the latest draw.
	assert.Equal(t, 0, ix.DrawsSinceLastSeen(4))
	assert.Equal(t, 0, ix.DrawsSinceLastSeen(55))

	// Last seen one draw back.
	assert.Equal(t, 1, ix.DrawsSinceLastSeen(8))
	assert.Equal(t, 1, ix.DrawsSinceLastSeen(50))

	// Only in the first draw.
	assert.Equal(t, 2, ix.DrawsSinceLastSeen(42))
	assert.Equal(t, 2, ix.DrawsSinceLastSeen(15))

	// Never drawn or out of range.
	assert.Equal(t, NeverDrawn, ix.DrawsSinceLastSeen(60))
	assert.Equal(t, NeverDrawn, ix.DrawsSinceLastSeen(0))
	assert.Equal(t, NeverDrawn, ix.DrawsSinceLastSeen(draw.MaxNumber+1))
}

func TestIndex_DistinctNumbers(t *testing.T) {
	ix := Build(historyFixture())

	// 18 balls drawn, 4, 8 and 20 repeated once each.
	assert.Equal(t, 15, ix.DistinctNumbers())
}

func TestIndex_Draws(t *testing.T) {
	assert.Equal(t, 3, Build(historyFixture()).Draws())
}

func TestBuild_Empty(t *testing.T) {
	ix := Build(nil)

	assert.Equal(t, 0, ix.Draws())
	assert.Equal(t, 0, ix.DistinctNumbers())
	assert.False(t, ix.IsKnownCombination([]int{1, 2, 3, 4, 5, 6}))
	assert.Equal(t, 0, ix.OccurrenceCount(1))
	assert.Equal(t, NeverDrawn, ix.DrawsSinceLastSeen(1))
}

package get_table_availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	"github.com/m04kA/RST-ReservationService/pkg/ptr"
	"github.com/m04kA/RST-ReservationService/pkg/types"
)

func TestBuildOccupiedSet(t *testing.T) {
	group := ptr.Ptr("2f1c9a4e-0000-0000-0000-000000000001")

	reservations := []*domain.Reservation{
		{ID: 1, TableID: 10, Status: domain.StatusBooked},
		{ID: 2, TableID: 11, Status: domain.StatusBooked, GroupID: group},
		{ID: 3, TableID: 12, Status: domain.StatusBooked, GroupID: group},
		{ID: 4, TableID: 13, Status: domain.StatusCancelled},
	}

	occupied := buildOccupiedSet(reservations)

	// Каждый стол группы занят отдельно, отменённая бронь стол не держит
	require.Len(t, occupied, 3)
	assert.Contains(t, occupied, int64(10))
	assert.Contains(t, occupied, int64(11))
	assert.Contains(t, occupied, int64(12))
	assert.NotContains(t, occupied, int64(13))
}

func TestBuildOccupiedSetEmpty(t *testing.T) {
	assert.Empty(t, buildOccupiedSet(nil))
}

func TestBuildTableStates(t *testing.T) {
	tables := []*domain.Table{
		{ID: 10, TableNumber: "T1", Capacity: 2},
		{ID: 11, TableNumber: "T2", Capacity: 4},
		{ID: 12, TableNumber: "T3", Capacity: 6},
	}
	res := &domain.Reservation{ID: 1, TableID: 11, Status: domain.StatusBooked}
	occupied := map[int64]*domain.Reservation{11: res}

	states := buildTableStates(tables, occupied)

	require.Len(t, states, 3)
	assert.False(t, states[0].IsOccupied)
	assert.Nil(t, states[0].Reservation)

	assert.True(t, states[1].IsOccupied)
	assert.Equal(t, res, states[1].Reservation)
	assert.Equal(t, "T2", states[1].Table.TableNumber)

	assert.False(t, states[2].IsOccupied)
}

func TestResolveCustomWindow(t *testing.T) {
	slot := &domain.Slot{
		StartTime: types.TimeString("18:00"),
		EndTime:   types.TimeString("23:00"),
	}

	t.Run("window inside slot", func(t *testing.T) {
		start, end, err := resolveCustomWindow("19:15", slot)
		require.NoError(t, err)
		assert.Equal(t, "19:15", start.String())
		assert.Equal(t, "20:45", end.String())
	})

	t.Run("window ends exactly at slot end", func(t *testing.T) {
		_, end, err := resolveCustomWindow("21:30", slot)
		require.NoError(t, err)
		assert.Equal(t, "23:00", end.String())
	})

	tests := []struct {
		name string
		raw  string
	}{
		{"bad format", "19.15"},
		{"misaligned", "19:20"},
		{"before slot start", "17:45"},
		{"overflows slot end", "21:45"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := resolveCustomWindow(tt.raw, slot)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

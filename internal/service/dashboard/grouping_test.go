package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	"github.com/m04kA/RST-ReservationService/pkg/ptr"
)

func detail(id int64, groupID *string, tableNumber string, adults, kids int) *domain.ReservationDetail {
	return &domain.ReservationDetail{
		Reservation: domain.Reservation{
			ID:         id,
			SlotID:     7,
			GroupID:    groupID,
			AdultCount: adults,
			KidsCount:  kids,
			Status:     domain.StatusBooked,
		},
		TableNumber: tableNumber,
	}
}

func TestBuildSummaryCollapsesGroups(t *testing.T) {
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	group := ptr.Ptr("2f1c9a4e-0000-0000-0000-000000000001")

	// Одиночная бронь на 2 гостей + группа из двух столов на 6 гостей
	details := []*domain.ReservationDetail{
		detail(101, nil, "T1", 2, 0),
		detail(102, group, "T4", 4, 2),
		detail(103, group, "T5", 4, 2),
	}

	summary := BuildSummary(42, date, 10, details)

	assert.Equal(t, int64(42), summary.RestaurantID)
	assert.Equal(t, 10, summary.TotalTables)
	assert.Equal(t, 2, summary.BookingsCount)
	assert.Equal(t, 8, summary.GuestsCount)

	require.Len(t, summary.Reservations, 2)
	assert.Equal(t, []string{"T1"}, summary.Reservations[0].TableNumbers)
	assert.Equal(t, []string{"T4", "T5"}, summary.Reservations[1].TableNumbers)
	assert.Equal(t, int64(102), summary.Reservations[1].ReservationID)
}

func TestBuildSummaryKeepsFirstAppearanceOrder(t *testing.T) {
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	groupA := ptr.Ptr("2f1c9a4e-0000-0000-0000-00000000000a")
	groupB := ptr.Ptr("2f1c9a4e-0000-0000-0000-00000000000b")

	// Столы групп чередуются - порядок строк сводки по первому вхождению
	details := []*domain.ReservationDetail{
		detail(201, groupA, "T1", 3, 0),
		detail(202, groupB, "T2", 2, 2),
		detail(203, groupA, "T3", 3, 0),
		detail(204, groupB, "T4", 2, 2),
	}

	summary := BuildSummary(42, date, 6, details)

	assert.Equal(t, 2, summary.BookingsCount)
	assert.Equal(t, 7, summary.GuestsCount)

	require.Len(t, summary.Reservations, 2)
	assert.Equal(t, []string{"T1", "T3"}, summary.Reservations[0].TableNumbers)
	assert.Equal(t, []string{"T2", "T4"}, summary.Reservations[1].TableNumbers)
}

func TestBuildSummaryEmptyDay(t *testing.T) {
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	summary := BuildSummary(42, date, 10, nil)

	assert.Equal(t, 0, summary.BookingsCount)
	assert.Equal(t, 0, summary.GuestsCount)
	assert.Empty(t, summary.Reservations)
	assert.Equal(t, 10, summary.TotalTables)
}

func TestBuildSummaryNormalizesDate(t *testing.T) {
	// Время суток в дате обнуляется
	date := time.Date(2026, 9, 1, 18, 30, 0, 0, time.UTC)

	summary := BuildSummary(42, date, 3, nil)

	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), summary.Date)
}

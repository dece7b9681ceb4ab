package dashboard

import (
	"time"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	"github.com/m04kA/RST-ReservationService/pkg/types"
)

// cachedSummary сериализуемое представление дневной сводки
// Отдельная модель с json-тегами, чтобы формат кеша не зависел от domain-структур
type cachedSummary struct {
	RestaurantID  int64        `json:"restaurantId"`
	Date          string       `json:"date"` // YYYY-MM-DD
	TotalTables   int          `json:"totalTables"`
	BookingsCount int          `json:"bookingsCount"`
	GuestsCount   int          `json:"guestsCount"`
	Reservations  []cachedRow  `json:"reservations"`
}

type cachedRow struct {
	ReservationID   int64    `json:"reservationId"`
	GroupID         *string  `json:"groupId,omitempty"`
	TableNumbers    []string `json:"tableNumbers"`
	SlotID          int64    `json:"slotId"`
	SlotStartTime   string   `json:"slotStartTime,omitempty"`
	SlotEndTime     string   `json:"slotEndTime,omitempty"`
	CustomerName    string   `json:"customerName"`
	CustomerPhone   string   `json:"customerPhone"`
	AdultCount      int      `json:"adultCount"`
	KidsCount       int      `json:"kidsCount"`
	FoodPreference  *string  `json:"foodPreference,omitempty"`
	SpecialRequest  *string  `json:"specialRequest,omitempty"`
	CustomStartTime *string  `json:"customStartTime,omitempty"`
	CreatedAt       string   `json:"createdAt"`
}

func toCached(summary *domain.DashboardSummary) *cachedSummary {
	c := &cachedSummary{
		RestaurantID:  summary.RestaurantID,
		Date:          summary.Date.Format(domain.DateFormat),
		TotalTables:   summary.TotalTables,
		BookingsCount: summary.BookingsCount,
		GuestsCount:   summary.GuestsCount,
		Reservations:  make([]cachedRow, len(summary.Reservations)),
	}

	for i, row := range summary.Reservations {
		cached := cachedRow{
			ReservationID:  row.ReservationID,
			GroupID:        row.GroupID,
			TableNumbers:   row.TableNumbers,
			SlotID:         row.SlotID,
			SlotStartTime:  row.SlotStartTime.String(),
			SlotEndTime:    row.SlotEndTime.String(),
			CustomerName:   row.CustomerName,
			CustomerPhone:  row.CustomerPhone,
			AdultCount:     row.AdultCount,
			KidsCount:      row.KidsCount,
			FoodPreference: row.FoodPreference,
			SpecialRequest: row.SpecialRequest,
			CreatedAt:      row.CreatedAt.Format(time.RFC3339),
		}
		if row.CustomStartTime != nil {
			s := row.CustomStartTime.String()
			cached.CustomStartTime = &s
		}
		c.Reservations[i] = cached
	}

	return c
}

func fromCached(c *cachedSummary) (*domain.DashboardSummary, error) {
	date, err := time.Parse(domain.DateFormat, c.Date)
	if err != nil {
		return nil, err
	}

	summary := &domain.DashboardSummary{
		RestaurantID:  c.RestaurantID,
		Date:          date,
		TotalTables:   c.TotalTables,
		BookingsCount: c.BookingsCount,
		GuestsCount:   c.GuestsCount,
		Reservations:  make([]domain.ReservationRow, len(c.Reservations)),
	}

	for i, cached := range c.Reservations {
		row := domain.ReservationRow{
			ReservationID:  cached.ReservationID,
			GroupID:        cached.GroupID,
			TableNumbers:   cached.TableNumbers,
			SlotID:         cached.SlotID,
			SlotStartTime:  types.TimeString(cached.SlotStartTime),
			SlotEndTime:    types.TimeString(cached.SlotEndTime),
			CustomerName:   cached.CustomerName,
			CustomerPhone:  cached.CustomerPhone,
			AdultCount:     cached.AdultCount,
			KidsCount:      cached.KidsCount,
			FoodPreference: cached.FoodPreference,
			SpecialRequest: cached.SpecialRequest,
		}
		if cached.CustomStartTime != nil {
			ts := types.TimeString(*cached.CustomStartTime)
			row.CustomStartTime = &ts
		}
		if createdAt, err := time.Parse(time.RFC3339, cached.CreatedAt); err == nil {
			row.CreatedAt = createdAt
		}
		summary.Reservations[i] = row
	}

	return summary, nil
}

package get_dashboard_summary

import (
	"time"

	"github.com/m04kA/RST-ReservationService/internal/domain"
)

// ReservationRowResponse HTTP response model одной строки сводки
type ReservationRowResponse struct {
	ReservationID   int64    `json:"reservationId"`
	GroupID         *string  `json:"groupId,omitempty"`
	TableNumbers    []string `json:"tableNumbers"`
	SlotID          int64    `json:"slotId"`
	SlotStartTime   string   `json:"slotStartTime"`
	SlotEndTime     string   `json:"slotEndTime"`
	CustomerName    string   `json:"customerName"`
	CustomerPhone   string   `json:"customerPhone"`
	AdultCount      int      `json:"adultCount"`
	KidsCount       int      `json:"kidsCount"`
	FoodPreference  *string  `json:"foodPreference,omitempty"`
	SpecialRequest  *string  `json:"specialRequest,omitempty"`
	CustomStartTime *string  `json:"customStartTime,omitempty"`
	CreatedAt       string   `json:"createdAt"`
}

// DashboardSummaryResponse HTTP response model
type DashboardSummaryResponse struct {
	RestaurantID  int64                    `json:"restaurantId"`
	Date          string                   `json:"date"`
	TotalTables   int                      `json:"totalTables"`
	BookingsCount int                      `json:"bookingsCount"`
	GuestsCount   int                      `json:"guestsCount"`
	Reservations  []ReservationRowResponse `json:"reservations"`
}

// FromDomain конвертирует доменную сводку в HTTP response
func FromDomain(s *domain.DashboardSummary) *DashboardSummaryResponse {
	resp := &DashboardSummaryResponse{
		RestaurantID:  s.RestaurantID,
		Date:          s.Date.Format(domain.DateFormat),
		TotalTables:   s.TotalTables,
		BookingsCount: s.BookingsCount,
		GuestsCount:   s.GuestsCount,
		Reservations:  make([]ReservationRowResponse, 0, len(s.Reservations)),
	}
	for _, row := range s.Reservations {
		item := ReservationRowResponse{
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
			item.CustomStartTime = &s
		}
		resp.Reservations = append(resp.Reservations, item)
	}
	return resp
}

package get_table_availability

import (
	"time"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	getTableAvailability "github.com/m04kA/RST-ReservationService/internal/usecase/get_table_availability"
)

// TableStateResponse HTTP response model состояния одного стола
type TableStateResponse struct {
	TableID       int64   `json:"tableId"`
	TableNumber   string  `json:"tableNumber"`
	Capacity      int     `json:"capacity"`
	IsOccupied    bool    `json:"isOccupied"`
	ReservationID *int64  `json:"reservationId,omitempty"`
	GroupID       *string `json:"groupId,omitempty"`
}

// SlotAvailabilityResponse HTTP response model занятости одного слота
type SlotAvailabilityResponse struct {
	SlotID            int64                `json:"slotId"`
	StartTime         string               `json:"startTime"`
	EndTime           string               `json:"endTime"`
	TotalTables       int                  `json:"totalTables"`
	OccupiedTables    int                  `json:"occupiedTables"`
	FreeTables        int                  `json:"freeTables"`
	IsSlotDisabled    bool                 `json:"isSlotDisabled"`
	IsIndoorDisabled  bool                 `json:"isIndoorDisabled"`
	IsOutdoorDisabled bool                 `json:"isOutdoorDisabled"`
	IsAutoDisabled    bool                 `json:"isAutoDisabled"`
	IsBookable        bool                 `json:"isBookable"`
	CustomStartTime   *string              `json:"customStartTime,omitempty"`
	CustomEndTime     *string              `json:"customEndTime,omitempty"`
	Tables            []TableStateResponse `json:"tables,omitempty"`
}

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	RestaurantID int64                      `json:"restaurantId"`
	Date         string                     `json:"date"`
	Slots        []SlotAvailabilityResponse `json:"slots"`
}

// ToUseCaseRequest собирает модель use case из параметров запроса
func ToUseCaseRequest(restaurantID int64, dateStr string, slotID *int64, customStartTime *string) (*getTableAvailability.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}
	return &getTableAvailability.Request{
		RestaurantID:    restaurantID,
		Date:            date,
		SlotID:          slotID,
		CustomStartTime: customStartTime,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getTableAvailability.Response) *AvailabilityResponse {
	out := &AvailabilityResponse{
		RestaurantID: resp.RestaurantID,
		Date:         resp.Date.Format(domain.DateFormat),
		Slots:        make([]SlotAvailabilityResponse, 0, len(resp.Slots)),
	}
	for _, s := range resp.Slots {
		item := SlotAvailabilityResponse{
			SlotID:            s.Slot.ID,
			StartTime:         s.Slot.StartTime.String(),
			EndTime:           s.Slot.EndTime.String(),
			TotalTables:       s.TotalTables,
			OccupiedTables:    s.OccupiedTables,
			FreeTables:        s.FreeTables(),
			IsSlotDisabled:    s.IsSlotDisabled,
			IsIndoorDisabled:  s.IsIndoorDisabled,
			IsOutdoorDisabled: s.IsOutdoorDisabled,
			IsAutoDisabled:    s.IsAutoDisabled,
			IsBookable:        s.IsBookable(),
		}
		if s.CustomStart != nil {
			start := s.CustomStart.String()
			item.CustomStartTime = &start
		}
		if s.CustomEnd != nil {
			end := s.CustomEnd.String()
			item.CustomEndTime = &end
		}
		for _, ts := range s.Tables {
			state := TableStateResponse{
				TableID:     ts.Table.ID,
				TableNumber: ts.Table.TableNumber,
				Capacity:    ts.Table.Capacity,
				IsOccupied:  ts.IsOccupied,
			}
			if ts.Reservation != nil {
				state.ReservationID = &ts.Reservation.ID
				state.GroupID = ts.Reservation.GroupID
			}
			item.Tables = append(item.Tables, state)
		}
		out.Slots = append(out.Slots, item)
	}
	return out
}

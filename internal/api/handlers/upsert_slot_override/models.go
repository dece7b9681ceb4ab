package upsert_slot_override

import (
	"time"

	"github.com/m04kA/RST-ReservationService/internal/domain"
)

// UpsertOverrideRequest HTTP request model
type UpsertOverrideRequest struct {
	Date              string `json:"date"` // "2026-09-01"
	IsSlotDisabled    bool   `json:"isSlotDisabled"`
	IsIndoorDisabled  bool   `json:"isIndoorDisabled"`
	IsOutdoorDisabled bool   `json:"isOutdoorDisabled"`
}

// OverrideResponse HTTP response model
type OverrideResponse struct {
	SlotID            int64  `json:"slotId"`
	Date              string `json:"date"`
	IsSlotDisabled    bool   `json:"isSlotDisabled"`
	IsIndoorDisabled  bool   `json:"isIndoorDisabled"`
	IsOutdoorDisabled bool   `json:"isOutdoorDisabled"`
}

// ToDomain конвертирует HTTP запрос в доменную модель
func (r *UpsertOverrideRequest) ToDomain(slotID int64) (*domain.SlotOverride, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}
	return &domain.SlotOverride{
		SlotID:            slotID,
		Date:              date,
		IsSlotDisabled:    r.IsSlotDisabled,
		IsIndoorDisabled:  r.IsIndoorDisabled,
		IsOutdoorDisabled: r.IsOutdoorDisabled,
	}, nil
}

// FromDomain конвертирует доменную модель в HTTP response
func FromDomain(o *domain.SlotOverride) *OverrideResponse {
	return &OverrideResponse{
		SlotID:            o.SlotID,
		Date:              o.Date.Format(domain.DateFormat),
		IsSlotDisabled:    o.IsSlotDisabled,
		IsIndoorDisabled:  o.IsIndoorDisabled,
		IsOutdoorDisabled: o.IsOutdoorDisabled,
	}
}

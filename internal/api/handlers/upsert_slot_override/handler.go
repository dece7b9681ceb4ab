package upsert_slot_override

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/RST-ReservationService/internal/api/handlers"
	"github.com/m04kA/RST-ReservationService/internal/api/middleware"
	"github.com/m04kA/RST-ReservationService/internal/domain"
	slotsService "github.com/m04kA/RST-ReservationService/internal/service/slots"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidRestaurantID = "некорректный ID ресторана"
	msgInvalidSlotID       = "некорректный ID слота"
	msgInvalidDate         = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgForeignRestaurant   = "нет доступа к этому ресторану"
	msgSlotNotFound        = "слот не найден"
)

type Handler struct {
	service SlotsService
	logger  Logger
}

func NewHandler(service SlotsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/restaurants/{restaurantId}/slots/{slotId}/override
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	restaurantID, err := strconv.ParseInt(vars["restaurantId"], 10, 64)
	if err != nil || restaurantID <= 0 {
		h.logger.Warn("PUT /restaurants/{id}/slots/{slotId}/override - Invalid restaurant id: %v", vars["restaurantId"])
		handlers.RespondBadRequest(w, msgInvalidRestaurantID)
		return
	}

	slotID, err := strconv.ParseInt(vars["slotId"], 10, 64)
	if err != nil || slotID <= 0 {
		h.logger.Warn("PUT /restaurants/{id}/slots/{slotId}/override - Invalid slot id: %v", vars["slotId"])
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	authID, ok := middleware.GetRestaurantID(r.Context())
	if !ok || authID != restaurantID {
		h.logger.Warn("PUT /restaurants/{id}/slots/{slotId}/override - Restaurant mismatch: path=%d, auth=%d", restaurantID, authID)
		handlers.RespondForbidden(w, msgForeignRestaurant)
		return
	}

	var req UpsertOverrideRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /restaurants/{id}/slots/{slotId}/override - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	override, err := req.ToDomain(slotID)
	if err != nil {
		h.logger.Warn("PUT /restaurants/{id}/slots/{slotId}/override - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.UpsertOverride(r.Context(), restaurantID, override)
	if err != nil {
		switch {
		case errors.Is(err, slotsService.ErrSlotNotFound):
			h.logger.Warn("PUT /restaurants/{id}/slots/{slotId}/override - Slot not found: restaurant_id=%d, slot_id=%d", restaurantID, slotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, slotsService.ErrInvalidInput):
			h.logger.Warn("PUT /restaurants/{id}/slots/{slotId}/override - Invalid input: restaurant_id=%d, slot_id=%d, error=%v",
				restaurantID, slotID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PUT /restaurants/{id}/slots/{slotId}/override - Failed to upsert override: restaurant_id=%d, slot_id=%d, error=%v",
				restaurantID, slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /restaurants/{id}/slots/{slotId}/override - Override saved: restaurant_id=%d, slot_id=%d, date=%s",
		restaurantID, slotID, result.Date.Format(domain.DateFormat))
	handlers.RespondJSON(w, http.StatusOK, FromDomain(result))
}

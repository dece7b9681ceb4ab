package delete_slot

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/RST-ReservationService/internal/api/handlers"
	"github.com/m04kA/RST-ReservationService/internal/api/middleware"
	slotsService "github.com/m04kA/RST-ReservationService/internal/service/slots"
)

const (
	msgInvalidRestaurantID = "некорректный ID ресторана"
	msgInvalidSlotID       = "некорректный ID слота"
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

// Handle DELETE /api/v1/restaurants/{restaurantId}/slots/{slotId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	restaurantID, err := strconv.ParseInt(vars["restaurantId"], 10, 64)
	if err != nil || restaurantID <= 0 {
		h.logger.Warn("DELETE /restaurants/{id}/slots/{slotId} - Invalid restaurant id: %v", vars["restaurantId"])
		handlers.RespondBadRequest(w, msgInvalidRestaurantID)
		return
	}

	slotID, err := strconv.ParseInt(vars["slotId"], 10, 64)
	if err != nil || slotID <= 0 {
		h.logger.Warn("DELETE /restaurants/{id}/slots/{slotId} - Invalid slot id: %v", vars["slotId"])
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	authID, ok := middleware.GetRestaurantID(r.Context())
	if !ok || authID != restaurantID {
		h.logger.Warn("DELETE /restaurants/{id}/slots/{slotId} - Restaurant mismatch: path=%d, auth=%d", restaurantID, authID)
		handlers.RespondForbidden(w, msgForeignRestaurant)
		return
	}

	if err := h.service.Delete(r.Context(), restaurantID, slotID); err != nil {
		switch {
		case errors.Is(err, slotsService.ErrSlotNotFound):
			h.logger.Warn("DELETE /restaurants/{id}/slots/{slotId} - Slot not found: restaurant_id=%d, slot_id=%d", restaurantID, slotID)
			handlers.RespondNotFound(w, msgSlotNotFound)
		default:
			h.logger.Error("DELETE /restaurants/{id}/slots/{slotId} - Failed to delete slot: restaurant_id=%d, slot_id=%d, error=%v",
				restaurantID, slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /restaurants/{id}/slots/{slotId} - Slot deleted: restaurant_id=%d, slot_id=%d", restaurantID, slotID)
	w.WriteHeader(http.StatusNoContent)
}

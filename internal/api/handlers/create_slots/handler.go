package create_slots

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
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidRestaurantID = "некорректный ID ресторана"
	msgForeignRestaurant   = "нет доступа к этому ресторану"
	msgInvalidSlotParams   = "некорректные параметры слота"
	msgPartialCreate       = "создана только часть слотов"
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

// Handle POST /api/v1/restaurants/{restaurantId}/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	restaurantID, err := strconv.ParseInt(vars["restaurantId"], 10, 64)
	if err != nil || restaurantID <= 0 {
		h.logger.Warn("POST /restaurants/{id}/slots - Invalid restaurant id: %v", vars["restaurantId"])
		handlers.RespondBadRequest(w, msgInvalidRestaurantID)
		return
	}

	authID, ok := middleware.GetRestaurantID(r.Context())
	if !ok || authID != restaurantID {
		h.logger.Warn("POST /restaurants/{id}/slots - Restaurant mismatch: path=%d, auth=%d", restaurantID, authID)
		handlers.RespondForbidden(w, msgForeignRestaurant)
		return
	}

	var req CreateSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /restaurants/{id}/slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.CreateBatch(r.Context(), restaurantID, req.StartTime, req.EndTime, req.Days)
	if err != nil {
		switch {
		case errors.Is(err, slotsService.ErrInvalidInput):
			h.logger.Warn("POST /restaurants/{id}/slots - Invalid params: restaurant_id=%d, error=%v", restaurantID, err)
			handlers.RespondBadRequest(w, msgInvalidSlotParams)

		case errors.Is(err, slotsService.ErrPartialCreate):
			// Часть слотов уже создана: отдаем их вместе с ошибкой
			h.logger.Error("POST /restaurants/{id}/slots - Partial create: restaurant_id=%d, created=%d, error=%v",
				restaurantID, len(result), err)
			handlers.RespondJSON(w, http.StatusMultiStatus, struct {
				Error string         `json:"error"`
				Slots []SlotResponse `json:"slots"`
			}{Error: msgPartialCreate, Slots: FromDomain(result).Slots})

		default:
			h.logger.Error("POST /restaurants/{id}/slots - Failed to create slots: restaurant_id=%d, error=%v", restaurantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /restaurants/{id}/slots - Created %d slots: restaurant_id=%d", len(result), restaurantID)
	handlers.RespondJSON(w, http.StatusCreated, FromDomain(result))
}

package get_table_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/RST-ReservationService/internal/api/handlers"
	getTableAvailability "github.com/m04kA/RST-ReservationService/internal/usecase/get_table_availability"
)

const (
	msgInvalidRestaurantID = "некорректный ID ресторана"
	msgInvalidDate         = "некорректный параметр date, ожидается YYYY-MM-DD"
	msgInvalidSlotID       = "некорректный параметр slotId"
	msgInvalidParams       = "некорректные параметры запроса"
	msgSlotNotFound        = "слот не найден"
)

type Handler struct {
	useCase GetTableAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetTableAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/restaurants/{restaurantId}/availability?date=YYYY-MM-DD&slotId=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	restaurantID, err := strconv.ParseInt(vars["restaurantId"], 10, 64)
	if err != nil || restaurantID <= 0 {
		h.logger.Warn("GET /restaurants/{id}/availability - Invalid restaurant id: %v", vars["restaurantId"])
		handlers.RespondBadRequest(w, msgInvalidRestaurantID)
		return
	}

	var slotID *int64
	if raw := r.URL.Query().Get("slotId"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			h.logger.Warn("GET /restaurants/{id}/availability - Invalid slot id: %v", raw)
			handlers.RespondBadRequest(w, msgInvalidSlotID)
			return
		}
		slotID = &parsed
	}

	var customStartTime *string
	if raw := r.URL.Query().Get("customStartTime"); raw != "" {
		customStartTime = &raw
	}

	req, err := ToUseCaseRequest(restaurantID, r.URL.Query().Get("date"), slotID, customStartTime)
	if err != nil {
		h.logger.Warn("GET /restaurants/{id}/availability - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getTableAvailability.ErrSlotNotFound):
			h.logger.Warn("GET /restaurants/{id}/availability - Slot not found: restaurant_id=%d, slot_id=%v", restaurantID, slotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, getTableAvailability.ErrInvalidInput):
			h.logger.Warn("GET /restaurants/{id}/availability - Invalid input: restaurant_id=%d, error=%v", restaurantID, err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /restaurants/{id}/availability - Failed to compute availability: restaurant_id=%d, error=%v",
				restaurantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

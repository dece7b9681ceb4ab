package list_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/RST-ReservationService/internal/api/handlers"
	slotsService "github.com/m04kA/RST-ReservationService/internal/service/slots"
)

const (
	msgInvalidRestaurantID = "некорректный ID ресторана"
	msgInvalidDate         = "некорректный параметр date, ожидается YYYY-MM-DD или all"
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

// Handle GET /api/v1/restaurants/{restaurantId}/slots?date=YYYY-MM-DD|all
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	restaurantID, err := strconv.ParseInt(vars["restaurantId"], 10, 64)
	if err != nil || restaurantID <= 0 {
		h.logger.Warn("GET /restaurants/{id}/slots - Invalid restaurant id: %v", vars["restaurantId"])
		handlers.RespondBadRequest(w, msgInvalidRestaurantID)
		return
	}

	dateStr := r.URL.Query().Get("date")

	result, err := h.service.List(r.Context(), restaurantID, dateStr)
	if err != nil {
		switch {
		case errors.Is(err, slotsService.ErrInvalidInput):
			h.logger.Warn("GET /restaurants/{id}/slots - Invalid date: restaurant_id=%d, date=%s", restaurantID, dateStr)
			handlers.RespondBadRequest(w, msgInvalidDate)
		default:
			h.logger.Error("GET /restaurants/{id}/slots - Failed to list slots: restaurant_id=%d, error=%v", restaurantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomain(result))
}

package get_dashboard_summary

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/RST-ReservationService/internal/api/handlers"
	"github.com/m04kA/RST-ReservationService/internal/api/middleware"
	"github.com/m04kA/RST-ReservationService/internal/domain"
)

const (
	msgInvalidRestaurantID = "некорректный ID ресторана"
	msgInvalidDate         = "некорректный параметр date, ожидается YYYY-MM-DD"
	msgForeignRestaurant   = "нет доступа к этому ресторану"
)

type Handler struct {
	service DashboardService
	logger  Logger
}

func NewHandler(service DashboardService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/restaurants/{restaurantId}/dashboard?date=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	restaurantID, err := strconv.ParseInt(vars["restaurantId"], 10, 64)
	if err != nil || restaurantID <= 0 {
		h.logger.Warn("GET /restaurants/{id}/dashboard - Invalid restaurant id: %v", vars["restaurantId"])
		handlers.RespondBadRequest(w, msgInvalidRestaurantID)
		return
	}

	authID, ok := middleware.GetRestaurantID(r.Context())
	if !ok || authID != restaurantID {
		h.logger.Warn("GET /restaurants/{id}/dashboard - Restaurant mismatch: path=%d, auth=%d", restaurantID, authID)
		handlers.RespondForbidden(w, msgForeignRestaurant)
		return
	}

	date, err := time.Parse(domain.DateFormat, r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Warn("GET /restaurants/{id}/dashboard - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.GetOrCompute(r.Context(), restaurantID, date)
	if err != nil {
		h.logger.Error("GET /restaurants/{id}/dashboard - Failed to build summary: restaurant_id=%d, error=%v",
			restaurantID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomain(result))
}

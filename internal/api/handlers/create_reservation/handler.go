package create_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/RST-ReservationService/internal/api/handlers"
	"github.com/m04kA/RST-ReservationService/internal/api/middleware"
	createReservation "github.com/m04kA/RST-ReservationService/internal/usecase/create_reservation"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgUnauthorized       = "требуется аутентификация"
	msgInvalidParams      = "некорректные параметры бронирования"
	msgSlotNotFound       = "слот не найден"
	msgSlotNotAvailable   = "слот недоступен на выбранную дату"
	msgTableNotFound      = "стол не найден"
	msgTableConflict      = "стол уже забронирован на этот слот"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := middleware.GetRestaurantID(r.Context())
	if !ok {
		h.logger.Warn("POST /reservations - Missing restaurant id in context")
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(restaurantID)
	if err != nil {
		h.logger.Warn("POST /reservations - Failed to parse date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createReservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations - Invalid params: restaurant_id=%d, error=%v", restaurantID, err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		case errors.Is(err, createReservation.ErrSlotNotFound):
			h.logger.Warn("POST /reservations - Slot not found: restaurant_id=%d, slot_id=%d", restaurantID, req.SlotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, createReservation.ErrSlotNotAvailable):
			h.logger.Warn("POST /reservations - Slot not available: restaurant_id=%d, slot_id=%d, date=%s",
				restaurantID, req.SlotID, req.Date)
			handlers.RespondError(w, http.StatusConflict, msgSlotNotAvailable)

		case errors.Is(err, createReservation.ErrTableNotFound):
			h.logger.Warn("POST /reservations - Table not found: restaurant_id=%d, table_id=%d", restaurantID, req.TableID)
			handlers.RespondNotFound(w, msgTableNotFound)

		case errors.Is(err, createReservation.ErrTableConflict):
			h.logger.Warn("POST /reservations - Table conflict: restaurant_id=%d, slot_id=%d, date=%s",
				restaurantID, req.SlotID, req.Date)
			handlers.RespondError(w, http.StatusConflict, msgTableConflict)

		default:
			h.logger.Error("POST /reservations - Failed to create reservation: restaurant_id=%d, error=%v", restaurantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations - Reservation created: restaurant_id=%d, rows=%d", restaurantID, len(result.Reservations))
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

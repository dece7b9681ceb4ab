package update_reservation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/RST-ReservationService/internal/api/handlers"
	"github.com/m04kA/RST-ReservationService/internal/api/middleware"
	updateReservation "github.com/m04kA/RST-ReservationService/internal/usecase/update_reservation"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidReservationID = "некорректный ID бронирования"
	msgUnauthorized         = "требуется аутентификация"
	msgInvalidParams        = "некорректные параметры обновления"
	msgReservationNotFound  = "бронирование не найдено"
	msgReservationCancelled = "бронирование отменено и не может быть изменено"
	msgNoFieldsToUpdate     = "нет полей для обновления"
	msgTableNotFound        = "стол не найден"
	msgTableConflict        = "стол уже забронирован на этот слот"
)

type Handler struct {
	useCase UpdateReservationUseCase
	logger  Logger
}

func NewHandler(useCase UpdateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/reservations/{reservationId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := middleware.GetRestaurantID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /reservations/{id} - Missing restaurant id in context")
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)
	reservationID, err := strconv.ParseInt(vars["reservationId"], 10, 64)
	if err != nil || reservationID <= 0 {
		h.logger.Warn("PATCH /reservations/{id} - Invalid reservation id: %v", vars["reservationId"])
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	var req UpdateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /reservations/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(restaurantID, reservationID))
	if err != nil {
		switch {
		case errors.Is(err, updateReservation.ErrInvalidInput):
			h.logger.Warn("PATCH /reservations/{id} - Invalid params: reservation_id=%d, error=%v", reservationID, err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		case errors.Is(err, updateReservation.ErrNoFieldsToUpdate):
			h.logger.Warn("PATCH /reservations/{id} - No fields to update: reservation_id=%d", reservationID)
			handlers.RespondBadRequest(w, msgNoFieldsToUpdate)

		case errors.Is(err, updateReservation.ErrReservationNotFound):
			h.logger.Warn("PATCH /reservations/{id} - Reservation not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgReservationNotFound)

		case errors.Is(err, updateReservation.ErrReservationCancelled):
			h.logger.Warn("PATCH /reservations/{id} - Reservation cancelled: reservation_id=%d", reservationID)
			handlers.RespondError(w, http.StatusConflict, msgReservationCancelled)

		case errors.Is(err, updateReservation.ErrTableNotFound):
			h.logger.Warn("PATCH /reservations/{id} - Table not found: reservation_id=%d, error=%v", reservationID, err)
			handlers.RespondNotFound(w, msgTableNotFound)

		case errors.Is(err, updateReservation.ErrTableConflict):
			h.logger.Warn("PATCH /reservations/{id} - Table conflict: reservation_id=%d, error=%v", reservationID, err)
			handlers.RespondError(w, http.StatusConflict, msgTableConflict)

		default:
			h.logger.Error("PATCH /reservations/{id} - Failed to update reservation: reservation_id=%d, error=%v",
				reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /reservations/{id} - Reservation updated: reservation_id=%d, rows=%d",
		reservationID, len(result.Reservations))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

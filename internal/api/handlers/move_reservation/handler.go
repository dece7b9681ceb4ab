package move_reservation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/RST-ReservationService/internal/api/handlers"
	"github.com/m04kA/RST-ReservationService/internal/api/middleware"
	moveReservation "github.com/m04kA/RST-ReservationService/internal/usecase/move_reservation"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidReservationID = "некорректный ID бронирования"
	msgInvalidDate          = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgUnauthorized         = "требуется аутентификация"
	msgInvalidParams        = "некорректные параметры переноса"
	msgReservationNotFound  = "бронирование не найдено"
	msgReservationCancelled = "бронирование отменено и не может быть перенесено"
	msgSlotNotFound         = "слот не найден"
	msgSlotNotAvailable     = "слот недоступен на выбранную дату"
	msgTableNotFound        = "стол не найден"
	msgTableConflict        = "стол уже забронирован на этот слот"
	msgTableCountMismatch   = "число столов не совпадает с размером группы"
)

type Handler struct {
	useCase MoveReservationUseCase
	logger  Logger
}

func NewHandler(useCase MoveReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations/{reservationId}/move
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := middleware.GetRestaurantID(r.Context())
	if !ok {
		h.logger.Warn("POST /reservations/{id}/move - Missing restaurant id in context")
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)
	reservationID, err := strconv.ParseInt(vars["reservationId"], 10, 64)
	if err != nil || reservationID <= 0 {
		h.logger.Warn("POST /reservations/{id}/move - Invalid reservation id: %v", vars["reservationId"])
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	var req MoveReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations/{id}/move - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(restaurantID, reservationID)
	if err != nil {
		h.logger.Warn("POST /reservations/{id}/move - Failed to parse date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, moveReservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations/{id}/move - Invalid params: reservation_id=%d, error=%v", reservationID, err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		case errors.Is(err, moveReservation.ErrReservationNotFound):
			h.logger.Warn("POST /reservations/{id}/move - Reservation not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgReservationNotFound)

		case errors.Is(err, moveReservation.ErrReservationCancelled):
			h.logger.Warn("POST /reservations/{id}/move - Reservation cancelled: reservation_id=%d", reservationID)
			handlers.RespondError(w, http.StatusConflict, msgReservationCancelled)

		case errors.Is(err, moveReservation.ErrSlotNotFound):
			h.logger.Warn("POST /reservations/{id}/move - Slot not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, moveReservation.ErrSlotNotAvailable):
			h.logger.Warn("POST /reservations/{id}/move - Slot not available: reservation_id=%d", reservationID)
			handlers.RespondError(w, http.StatusConflict, msgSlotNotAvailable)

		case errors.Is(err, moveReservation.ErrTableNotFound):
			h.logger.Warn("POST /reservations/{id}/move - Table not found: reservation_id=%d, error=%v", reservationID, err)
			handlers.RespondNotFound(w, msgTableNotFound)

		case errors.Is(err, moveReservation.ErrTableCountMismatch):
			h.logger.Warn("POST /reservations/{id}/move - Table count mismatch: reservation_id=%d", reservationID)
			handlers.RespondBadRequest(w, msgTableCountMismatch)

		case errors.Is(err, moveReservation.ErrTableConflict):
			h.logger.Warn("POST /reservations/{id}/move - Table conflict: reservation_id=%d, error=%v", reservationID, err)
			handlers.RespondError(w, http.StatusConflict, msgTableConflict)

		default:
			h.logger.Error("POST /reservations/{id}/move - Failed to move reservation: reservation_id=%d, error=%v",
				reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations/{id}/move - Reservation moved: reservation_id=%d, rows=%d",
		reservationID, len(result.Reservations))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

package confirm_hold

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/TRP-ReservationService/internal/api/handlers"
	confirmHold "github.com/m04kA/TRP-ReservationService/internal/usecase/confirm_hold"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные гостя или токен идемпотентности"
	msgHoldNotFound       = "холд не найден"
	msgHoldExpired        = "время удержания истекло, выберите слот заново"
)

type Handler struct {
	useCase ConfirmHoldUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmHoldUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/holds/{id}/confirm
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	holdID := mux.Vars(r)["id"]

	var req ConfirmHoldRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /holds/{id}/confirm - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(holdID))
	if err != nil {
		switch {
		case errors.Is(err, confirmHold.ErrHoldNotFound):
			h.logger.Warn("POST /holds/{id}/confirm - Hold not found: hold_id=%s", holdID)
			handlers.RespondNotFound(w, msgHoldNotFound)

		case errors.Is(err, confirmHold.ErrHoldExpired):
			h.logger.Warn("POST /holds/{id}/confirm - Hold expired: hold_id=%s", holdID)
			handlers.RespondError(w, http.StatusConflict, msgHoldExpired)

		case errors.Is(err, confirmHold.ErrInvalidInput):
			h.logger.Warn("POST /holds/{id}/confirm - Invalid input: hold_id=%s, error=%v", holdID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /holds/{id}/confirm - Failed to confirm hold: hold_id=%s, error=%v", holdID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /holds/{id}/confirm - Booking created: booking_id=%d, hold_id=%s, source=%s",
		result.BookingID, holdID, result.Source)
	handlers.RespondJSON(w, http.StatusCreated, response)
}

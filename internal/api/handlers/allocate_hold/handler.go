package allocate_hold

import (
	"errors"
	"net/http"

	"github.com/m04kA/TRP-ReservationService/internal/api/handlers"
	allocateHold "github.com/m04kA/TRP-ReservationService/internal/usecase/allocate_hold"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidBookingTime = "некорректный формат времени бронирования, ожидается RFC 3339"
	msgSlotConflict       = "выбранное время удерживается другим гостем, попробуйте другое"
	msgTenantNotFound     = "ресторан не найден"
	msgInvalidSlotRequest = "некорректные параметры бронирования"
)

type Handler struct {
	useCase AllocateHoldUseCase
	logger  Logger
}

func NewHandler(useCase AllocateHoldUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/holds
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req AllocateHoldRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /holds - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /holds - Failed to parse booking time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, allocateHold.ErrSlotConflict):
			h.logger.Warn("POST /holds - Slot conflict: tenant_id=%d, session=%s", req.TenantID, req.SessionID)
			handlers.RespondError(w, http.StatusConflict, msgSlotConflict)

		case errors.Is(err, allocateHold.ErrTenantNotFound):
			h.logger.Warn("POST /holds - Tenant not found: tenant_id=%d", req.TenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		case errors.Is(err, allocateHold.ErrInvalidSlotRequest):
			h.logger.Warn("POST /holds - Invalid slot request: tenant_id=%d, error=%v", req.TenantID, err)
			handlers.RespondBadRequest(w, msgInvalidSlotRequest)

		default:
			h.logger.Error("POST /holds - Failed to allocate hold: tenant_id=%d, error=%v", req.TenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /holds - Hold allocated: hold_id=%s, tenant_id=%d, slot=%s",
		result.HoldID, result.TenantID, result.SlotKey)
	handlers.RespondJSON(w, http.StatusCreated, response)
}

package transition_booking

import (
	"strconv"

	"github.com/m04kA/TRP-ReservationService/internal/service/bookings/models"
)

// TransitionBookingRequest HTTP request model
type TransitionBookingRequest struct {
	Status string `json:"status"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
// Актором перехода становится staff-пользователь из контекста запроса
func (r *TransitionBookingRequest) ToServiceRequest(userID int64) *models.TransitionRequest {
	return &models.TransitionRequest{
		Status: r.Status,
		Actor:  "staff:" + strconv.FormatInt(userID, 10),
	}
}

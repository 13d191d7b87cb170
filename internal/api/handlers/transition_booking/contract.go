package transition_booking

import (
	"context"

	"github.com/m04kA/TRP-ReservationService/internal/service/bookings/models"
)

type BookingsService interface {
	Transition(ctx context.Context, bookingID int64, req *models.TransitionRequest) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

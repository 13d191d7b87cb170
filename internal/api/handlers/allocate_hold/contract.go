package allocate_hold

import (
	"context"

	allocateHold "github.com/m04kA/TRP-ReservationService/internal/usecase/allocate_hold"
)

type AllocateHoldUseCase interface {
	Execute(ctx context.Context, req *allocateHold.Request) (*allocateHold.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

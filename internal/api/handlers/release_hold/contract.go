package release_hold

import (
	"context"

	"github.com/m04kA/TRP-ReservationService/internal/service/holds/models"
)

type HoldsService interface {
	Release(ctx context.Context, holdID string) (*models.ReleaseResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

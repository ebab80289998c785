package create_reservation

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

type ReservationManager interface {
	Reserve(ctx context.Context, rsvp *domain.Reservation) (*domain.Reservation, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

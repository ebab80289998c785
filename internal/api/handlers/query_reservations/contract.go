package query_reservations

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

type ReservationManager interface {
	Query(ctx context.Context, q domain.ReservationQuery) ([]*domain.Reservation, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

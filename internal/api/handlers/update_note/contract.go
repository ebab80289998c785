package update_note

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

type ReservationManager interface {
	UpdateNote(ctx context.Context, id, note string) (*domain.Reservation, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package reservations

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// ReservationRepository интерфейс репозитория резерваций
type ReservationRepository interface {
	Create(ctx context.Context, rsvp *domain.Reservation) (*domain.Reservation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error)
	ConfirmPending(ctx context.Context, id uuid.UUID) (*domain.Reservation, error)
	UpdateNote(ctx context.Context, id uuid.UUID, note string) (*domain.Reservation, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Query(ctx context.Context, q domain.ReservationQuery) ([]*domain.Reservation, error)
}

// ConflictRecorder учитывает отклонённые из-за пересечения резервации
type ConflictRecorder interface {
	RecordConflict(parsed bool)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

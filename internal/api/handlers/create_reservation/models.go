package create_reservation

import (
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	UserID     string  `json:"userId"`
	ResourceID string  `json:"resourceId"`
	StartTime  string  `json:"startTime"` // RFC3339, "2022-12-26T22:00:00Z"
	EndTime    string  `json:"endTime"`   // RFC3339, конец не входит в окно
	Note       *string `json:"note,omitempty"`
	Status     *string `json:"status,omitempty"` // по умолчанию pending
}

// ToDomain конвертирует HTTP запрос в доменную резервацию.
// Проверку полей выполняет менеджер, здесь только разбор форматов.
func (r *CreateReservationRequest) ToDomain() (*domain.Reservation, error) {
	start, err := handlers.ParseTime(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("startTime: %w", err)
	}

	end, err := handlers.ParseTime(r.EndTime)
	if err != nil {
		return nil, fmt.Errorf("endTime: %w", err)
	}

	status, ok := domain.ParseReservationStatus(ptr.Deref(r.Status, ""))
	if !ok {
		return nil, fmt.Errorf("status: unknown value %q", *r.Status)
	}

	return &domain.Reservation{
		UserID:     r.UserID,
		ResourceID: r.ResourceID,
		StartTime:  start,
		EndTime:    end,
		Note:       ptr.Deref(r.Note, ""),
		Status:     status,
	}, nil
}

package reservations

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
)

// Manager сервис управления резервациями.
// Не хранит состояния: каждая операция - валидация и один запрос к хранилищу.
// Все ошибки возвращаются в виде *domain.Error.
type Manager struct {
	reservationRepo ReservationRepository
	conflicts       ConflictRecorder
	logger          Logger
}

// NewManager создает новый экземпляр менеджера резерваций.
// conflicts может быть nil.
func NewManager(
	reservationRepo ReservationRepository,
	conflicts ConflictRecorder,
	logger Logger,
) *Manager {
	return &Manager{
		reservationRepo: reservationRepo,
		conflicts:       conflicts,
		logger:          logger,
	}
}

// Reserve создает резервацию
// Резервация проверяется до обращения к БД. Без явного статуса создается в статусе pending,
// статус вне unknown/pending/confirmed/blocked - ошибка InvalidStatus.
// Пересечение с существующей резервацией того же ресурса - ошибка ConflictReservation.
func (s *Manager) Reserve(ctx context.Context, rsvp *domain.Reservation) (*domain.Reservation, error) {
	if rsvp == nil {
		rsvp = &domain.Reservation{}
	}

	s.logger.Info("Reserve: user=%s resource=%s", rsvp.UserID, rsvp.ResourceID)

	if err := rsvp.Validate(); err != nil {
		s.logger.Warn("Reserve: validation failed for user=%s resource=%s: %v", rsvp.UserID, rsvp.ResourceID, err)
		return nil, err
	}

	status, ok := domain.ParseReservationStatus(string(rsvp.Status))
	if !ok {
		s.logger.Warn("Reserve: unsupported status=%q for user=%s resource=%s", rsvp.Status, rsvp.UserID, rsvp.ResourceID)
		return nil, domain.NewInvalidStatusError(string(rsvp.Status))
	}

	toCreate := *rsvp
	toCreate.Status = status
	if toCreate.Status == domain.StatusUnknown {
		toCreate.Status = domain.StatusPending
	}

	created, err := s.reservationRepo.Create(ctx, &toCreate)
	if err != nil {
		return nil, s.translate("Reserve", err)
	}

	s.logger.Info("Reserve: created reservation id=%s resource=%s [%s, %s)",
		created.ID, created.ResourceID,
		created.StartTime.Format(domain.TimeFormat), created.EndTime.Format(domain.TimeFormat))
	return created, nil
}

// ChangeStatus подтверждает резервацию (pending -> confirmed)
// Если резервация не найдена, уже подтверждена или заблокирована - NotFound.
func (s *Manager) ChangeStatus(ctx context.Context, id string) (*domain.Reservation, error) {
	s.logger.Info("ChangeStatus: confirming reservation id=%s", id)

	rsvpID, err := parseReservationID(id)
	if err != nil {
		s.logger.Warn("ChangeStatus: %v", err)
		return nil, err
	}

	confirmed, err := s.reservationRepo.ConfirmPending(ctx, rsvpID)
	if err != nil {
		return nil, s.translate("ChangeStatus", err)
	}

	s.logger.Info("ChangeStatus: reservation id=%s confirmed", id)
	return confirmed, nil
}

// UpdateNote заменяет заметку резервации независимо от статуса
func (s *Manager) UpdateNote(ctx context.Context, id, note string) (*domain.Reservation, error) {
	s.logger.Info("UpdateNote: updating note of reservation id=%s", id)

	rsvpID, err := parseReservationID(id)
	if err != nil {
		s.logger.Warn("UpdateNote: %v", err)
		return nil, err
	}

	updated, err := s.reservationRepo.UpdateNote(ctx, rsvpID, note)
	if err != nil {
		return nil, s.translate("UpdateNote", err)
	}

	s.logger.Info("UpdateNote: reservation id=%s updated", id)
	return updated, nil
}

// Delete удаляет резервацию
// Повторное удаление (или удаление несуществующей) не является ошибкой.
func (s *Manager) Delete(ctx context.Context, id string) error {
	s.logger.Info("Delete: deleting reservation id=%s", id)

	rsvpID, err := parseReservationID(id)
	if err != nil {
		s.logger.Warn("Delete: %v", err)
		return err
	}

	if err := s.reservationRepo.Delete(ctx, rsvpID); err != nil {
		return s.translate("Delete", err)
	}

	s.logger.Info("Delete: reservation id=%s deleted", id)
	return nil
}

// Get получает резервацию по ID
func (s *Manager) Get(ctx context.Context, id string) (*domain.Reservation, error) {
	rsvpID, err := parseReservationID(id)
	if err != nil {
		s.logger.Warn("Get: %v", err)
		return nil, err
	}

	rsvp, err := s.reservationRepo.GetByID(ctx, rsvpID)
	if err != nil {
		return nil, s.translate("Get", err)
	}

	return rsvp, nil
}

// Query ищет резервации по фильтру
// Незаданные поля фильтра не ограничивают выборку. Результат - одна страница,
// для следующей нужен новый вызов с q.Next().
func (s *Manager) Query(ctx context.Context, q domain.ReservationQuery) ([]*domain.Reservation, error) {
	q = q.Normalize()

	if _, ok := domain.ParseReservationStatus(string(q.Status)); !ok {
		s.logger.Warn("Query: unsupported status=%q", q.Status)
		return nil, domain.NewInvalidStatusError(string(q.Status))
	}
	// сортировка выбирает границу окна, поэтому неизвестное поле - InvalidTime
	if _, ok := domain.ParseSortField(string(q.OrderBy)); !ok {
		s.logger.Warn("Query: unsupported order by=%q", q.OrderBy)
		return nil, domain.ErrInvalidTime
	}

	if q.Window != nil {
		if _, ok := domain.ParseRangeMode(string(q.Window.Mode)); !ok {
			s.logger.Warn("Query: unsupported range mode=%s", q.Window.Mode)
			return nil, domain.ErrInvalidTime
		}
		if q.Window.Start != nil && q.Window.End != nil && !q.Window.Start.Before(*q.Window.End) {
			s.logger.Warn("Query: empty window [%s, %s)",
				q.Window.Start.Format(domain.TimeFormat), q.Window.End.Format(domain.TimeFormat))
			return nil, domain.ErrInvalidTime
		}
	}

	s.logger.Info("Query: resource=%q user=%q status=%s page=%d size=%d",
		q.ResourceID, q.UserID, q.Status, q.Page, q.PageSize)

	found, err := s.reservationRepo.Query(ctx, q)
	if err != nil {
		return nil, s.translate("Query", err)
	}

	s.logger.Info("Query: found %d reservations", len(found))
	return found, nil
}

// translate переводит ошибку репозитория в *domain.Error и логирует её
func (s *Manager) translate(op string, err error) error {
	translated := reservationRepo.TranslateError(err)

	switch domain.KindOf(translated) {
	case domain.KindNotFound:
		s.logger.Warn("%s: reservation not found", op)
	case domain.KindConflictReservation:
		info, _ := domain.ConflictOf(translated)
		s.logger.Warn("%s: %v", op, translated)
		if s.conflicts != nil {
			s.conflicts.RecordConflict(info.IsParsed())
		}
	default:
		s.logger.Error("%s: repository error: %v", op, err)
	}

	return translated
}

func parseReservationID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, domain.NewInvalidReservationIDError(id)
	}
	return parsed, nil
}

package reservation

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Идентичность exclusion constraint'а резерваций (см. migrations/0001_init.up.sql)
const (
	ExclusionViolationCode = "23P01"
	ReservationsSchema     = "rsvp"
	ReservationsTable      = "reservations"
	ReservationsConstraint = "reservations_conflict"

	// DeadlockDetectedCode встречный INSERT в тот же ресурс; повтор даёт 23P01
	DeadlockDetectedCode = "40P01"
)

// TranslateError переводит ошибку хранилища в таксономию domain.Error:
//   - строка не найдена -> NotFound
//   - нарушение exclusion constraint'а резерваций -> ConflictReservation с разобранной деталью
//   - всё остальное -> DbError
//
// Ошибки, уже принадлежащие таксономии, возвращаются без изменений.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		return domainErr
	}

	if errors.Is(err, ErrReservationNotFound) || errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}

	if detail, ok := exclusionViolationDetail(err); ok {
		return domain.NewConflictError(domain.ParseConflictInfo(detail))
	}

	return domain.NewDbError(err)
}

// exclusionViolationDetail достаёт текст детали, если err - нарушение
// exclusion constraint'а таблицы резерваций. Понимает ошибки lib/pq и pgx.
func exclusionViolationDetail(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		ok := isReservationExclusion(string(pqErr.Code), pqErr.Schema, pqErr.Table, pqErr.Constraint)
		return pqErr.Detail, ok
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		ok := isReservationExclusion(pgErr.Code, pgErr.SchemaName, pgErr.TableName, pgErr.ConstraintName)
		return pgErr.Detail, ok
	}

	return "", false
}

// Имя constraint'а проверяется, только если сервер его сообщил
func isReservationExclusion(code, schema, table, constraint string) bool {
	if code != ExclusionViolationCode || schema != ReservationsSchema || table != ReservationsTable {
		return false
	}
	return constraint == "" || constraint == ReservationsConstraint
}

// isDeadlock сообщает, что сервер прервал запрос из-за взаимной блокировки
func isDeadlock(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == DeadlockDetectedCode
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == DeadlockDetectedCode
	}

	return false
}

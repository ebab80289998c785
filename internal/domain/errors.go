package domain

import (
	"errors"
	"fmt"
)

// Kind identifies a class of reservation error
type Kind int

const (
	KindUnknown Kind = iota
	KindDbError
	KindConflictReservation
	KindNotFound
	KindInvalidReservationID
	KindInvalidTime
	KindInvalidUserID
	KindInvalidResourceID
	KindInvalidStatus
)

func (k Kind) String() string {
	switch k {
	case KindDbError:
		return "db_error"
	case KindConflictReservation:
		return "conflict_reservation"
	case KindNotFound:
		return "not_found"
	case KindInvalidReservationID:
		return "invalid_reservation_id"
	case KindInvalidTime:
		return "invalid_time"
	case KindInvalidUserID:
		return "invalid_user_id"
	case KindInvalidResourceID:
		return "invalid_resource_id"
	case KindInvalidStatus:
		return "invalid_status"
	default:
		return "unknown"
	}
}

// Error is the closed error taxonomy returned by the reservation manager.
//
// Equality under errors.Is:
//   - ConflictReservation compares the conflict description by value
//   - InvalidReservationID, InvalidUserID, InvalidResourceID, InvalidStatus compare the payload
//   - every DbError equals every other DbError, the wrapped store error is ignored
type Error struct {
	Kind     Kind
	Value    string       // offending value for the Invalid*ID and InvalidStatus kinds
	Conflict ConflictInfo // set for KindConflictReservation
	Err      error        // underlying store error for KindDbError
}

var (
	// ErrNotFound возвращается, когда резервация не найдена по заданному условию
	ErrNotFound = &Error{Kind: KindNotFound}

	// ErrInvalidTime возвращается при отсутствующих или перепутанных границах окна
	ErrInvalidTime = &Error{Kind: KindInvalidTime}

	// ErrDbError сравнивается с любой ошибкой хранилища
	ErrDbError = &Error{Kind: KindDbError}

	// ErrUnknown неклассифицированная ошибка
	ErrUnknown = &Error{Kind: KindUnknown}
)

func (e *Error) Error() string {
	switch e.Kind {
	case KindDbError:
		if e.Err != nil {
			return fmt.Sprintf("database error: %v", e.Err)
		}
		return "database error"
	case KindConflictReservation:
		return "conflict reservation: " + e.Conflict.String()
	case KindNotFound:
		return "no reservation found by the given condition"
	case KindInvalidReservationID:
		return fmt.Sprintf("invalid reservation id: %q", e.Value)
	case KindInvalidTime:
		return "invalid start or end time for the reservation"
	case KindInvalidUserID:
		return fmt.Sprintf("invalid user id: %q", e.Value)
	case KindInvalidResourceID:
		return fmt.Sprintf("invalid resource id: %q", e.Value)
	case KindInvalidStatus:
		return fmt.Sprintf("invalid reservation status: %q", e.Value)
	default:
		return "unknown error"
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is implements the equality rules documented on Error
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.Kind != t.Kind {
		return false
	}

	switch e.Kind {
	case KindConflictReservation:
		return e.Conflict.Equal(t.Conflict)
	case KindInvalidReservationID, KindInvalidUserID, KindInvalidResourceID, KindInvalidStatus:
		return e.Value == t.Value
	default:
		return true
	}
}

// NewDbError wraps an opaque store failure
func NewDbError(err error) *Error {
	return &Error{Kind: KindDbError, Err: err}
}

// NewConflictError builds a ConflictReservation error
func NewConflictError(info ConflictInfo) *Error {
	return &Error{Kind: KindConflictReservation, Conflict: info}
}

func NewInvalidReservationIDError(id string) *Error {
	return &Error{Kind: KindInvalidReservationID, Value: id}
}

func NewInvalidUserIDError(id string) *Error {
	return &Error{Kind: KindInvalidUserID, Value: id}
}

func NewInvalidResourceIDError(id string) *Error {
	return &Error{Kind: KindInvalidResourceID, Value: id}
}

// NewInvalidStatusError reports a status outside unknown/pending/confirmed/blocked
func NewInvalidStatusError(status string) *Error {
	return &Error{Kind: KindInvalidStatus, Value: status}
}

// KindOf extracts the error kind from any error chain.
// Errors outside the taxonomy report KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// ConflictOf returns the conflict description carried by err, if any
func ConflictOf(err error) (ConflictInfo, bool) {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindConflictReservation {
		return e.Conflict, true
	}
	return ConflictInfo{}, false
}

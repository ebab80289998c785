package domain

import "time"

// ReservationStatus represents the status of a reservation
type ReservationStatus string

const (
	StatusUnknown   ReservationStatus = "unknown"
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusBlocked   ReservationStatus = "blocked"
)

// ParseReservationStatus converts a text status into ReservationStatus.
// Empty input maps to StatusUnknown.
func ParseReservationStatus(s string) (ReservationStatus, bool) {
	switch ReservationStatus(s) {
	case "", StatusUnknown:
		return StatusUnknown, true
	case StatusPending, StatusConfirmed, StatusBlocked:
		return ReservationStatus(s), true
	default:
		return StatusUnknown, false
	}
}

// IsPersistable reports whether the status may be written to the store
func (s ReservationStatus) IsPersistable() bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusBlocked
}

// CanTransitionTo returns true if callers may move a reservation from s to next.
// Pending -> Confirmed is the only caller-driven transition; Blocked is set out of band.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	return s == StatusPending && next == StatusConfirmed
}

func (s ReservationStatus) String() string {
	if s == "" {
		return string(StatusUnknown)
	}
	return string(s)
}

// Reservation represents an exclusive booking of a resource for a time window
type Reservation struct {
	ID         string // assigned by the store, immutable afterwards
	ResourceID string
	UserID     string
	StartTime  *time.Time
	EndTime    *time.Time
	Note       string
	Status     ReservationStatus
}

// NewPendingReservation builds a reservation in the initial Pending state
func NewPendingReservation(userID, resourceID string, start, end time.Time, note string) *Reservation {
	start = start.UTC()
	end = end.UTC()
	return &Reservation{
		ResourceID: resourceID,
		UserID:     userID,
		StartTime:  &start,
		EndTime:    &end,
		Note:       note,
		Status:     StatusPending,
	}
}

// Validate checks identifiers and time bounds. It performs no I/O.
func (r *Reservation) Validate() error {
	if r.UserID == "" {
		return NewInvalidUserIDError(r.UserID)
	}

	if r.ResourceID == "" {
		return NewInvalidResourceIDError(r.ResourceID)
	}

	return ValidateRange(r.StartTime, r.EndTime)
}

// Window returns the resource-scoped time window occupied by the reservation.
// Callers must validate the reservation first.
func (r *Reservation) Window() ReservationWindow {
	return ReservationWindow{
		ResourceID: r.ResourceID,
		Start:      r.StartTime.UTC(),
		End:        r.EndTime.UTC(),
	}
}

// IsPending returns true if the reservation still awaits confirmation
func (r *Reservation) IsPending() bool {
	return r.Status == StatusPending
}

// IsConfirmed returns true if the reservation has been confirmed
func (r *Reservation) IsConfirmed() bool {
	return r.Status == StatusConfirmed
}

// ValidateRange checks that both bounds are present and start < end
func ValidateRange(start, end *time.Time) error {
	if start == nil || end == nil || start.IsZero() || end.IsZero() {
		return ErrInvalidTime
	}

	if !start.Before(*end) {
		return ErrInvalidTime
	}

	return nil
}

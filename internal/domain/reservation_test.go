package domain

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReservation_Validate(t *testing.T) {
	start := time.Date(2022, 12, 25, 22, 0, 0, 0, time.UTC)
	end := start.Add(72 * time.Hour)
	zero := time.Time{}

	tests := []struct {
		name    string
		rsvp    Reservation
		wantErr error
	}{
		{
			name: "valid",
			rsvp: Reservation{UserID: "alice", ResourceID: "room-1", StartTime: &start, EndTime: &end},
		},
		{
			name:    "empty user id",
			rsvp:    Reservation{ResourceID: "room-1", StartTime: &start, EndTime: &end},
			wantErr: NewInvalidUserIDError(""),
		},
		{
			name:    "user id checked before resource id",
			rsvp:    Reservation{StartTime: &start, EndTime: &end},
			wantErr: NewInvalidUserIDError(""),
		},
		{
			name:    "empty resource id",
			rsvp:    Reservation{UserID: "alice", StartTime: &start, EndTime: &end},
			wantErr: NewInvalidResourceIDError(""),
		},
		{
			name:    "resource id checked before time",
			rsvp:    Reservation{UserID: "alice"},
			wantErr: NewInvalidResourceIDError(""),
		},
		{
			name:    "missing start",
			rsvp:    Reservation{UserID: "alice", ResourceID: "room-1", EndTime: &end},
			wantErr: ErrInvalidTime,
		},
		{
			name:    "missing end",
			rsvp:    Reservation{UserID: "alice", ResourceID: "room-1", StartTime: &start},
			wantErr: ErrInvalidTime,
		},
		{
			name:    "zero start",
			rsvp:    Reservation{UserID: "alice", ResourceID: "room-1", StartTime: &zero, EndTime: &end},
			wantErr: ErrInvalidTime,
		},
		{
			name:    "start equals end",
			rsvp:    Reservation{UserID: "alice", ResourceID: "room-1", StartTime: &start, EndTime: &start},
			wantErr: ErrInvalidTime,
		},
		{
			name:    "start after end",
			rsvp:    Reservation{UserID: "alice", ResourceID: "room-1", StartTime: &end, EndTime: &start},
			wantErr: ErrInvalidTime,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rsvp.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewPendingReservation(t *testing.T) {
	loc := time.FixedZone("MST", -7*3600)
	start := time.Date(2022, 12, 25, 15, 0, 0, 0, loc)
	end := time.Date(2022, 12, 28, 12, 0, 0, 0, loc)

	r := NewPendingReservation("tyr", "1121", start, end, "hello")

	assert.Equal(t, StatusPending, r.Status)
	assert.Empty(t, r.ID)
	assert.Equal(t, time.UTC, r.StartTime.Location())
	assert.True(t, r.StartTime.Equal(start))
	assert.NoError(t, r.Validate())

	w := r.Window()
	assert.Equal(t, "1121", w.ResourceID)
	assert.True(t, w.End.Equal(end))
}

func TestReservationStatus(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusConfirmed))
	assert.False(t, StatusConfirmed.CanTransitionTo(StatusConfirmed))
	assert.False(t, StatusBlocked.CanTransitionTo(StatusConfirmed))
	assert.False(t, StatusPending.CanTransitionTo(StatusBlocked))

	assert.False(t, StatusUnknown.IsPersistable())
	assert.True(t, StatusBlocked.IsPersistable())
	assert.Equal(t, "unknown", ReservationStatus("").String())

	s, ok := ParseReservationStatus("confirmed")
	assert.True(t, ok)
	assert.Equal(t, StatusConfirmed, s)

	s, ok = ParseReservationStatus("")
	assert.True(t, ok)
	assert.Equal(t, StatusUnknown, s)

	_, ok = ParseReservationStatus("cancelled")
	assert.False(t, ok)
}

func TestError_Is(t *testing.T) {
	assert.ErrorIs(t, NewDbError(errors.New("a")), NewDbError(errors.New("b")))
	assert.ErrorIs(t, NewDbError(nil), ErrDbError)

	assert.ErrorIs(t, NewInvalidReservationIDError("x"), NewInvalidReservationIDError("x"))
	assert.NotErrorIs(t, NewInvalidReservationIDError("x"), NewInvalidReservationIDError("y"))
	assert.NotErrorIs(t, NewInvalidUserIDError("x"), NewInvalidResourceIDError("x"))
	assert.ErrorIs(t, NewInvalidStatusError("bogus"), NewInvalidStatusError("bogus"))
	assert.NotErrorIs(t, NewInvalidStatusError("bogus"), NewInvalidStatusError("cancelled"))
	assert.Equal(t, "invalid_status", KindInvalidStatus.String())

	parsed := ParseConflictInfo(conflictDetail)
	assert.ErrorIs(t, NewConflictError(parsed), NewConflictError(ParseConflictInfo(conflictDetail)))
	assert.NotErrorIs(t, NewConflictError(parsed), NewConflictError(Unparsed(conflictDetail)))

	assert.NotErrorIs(t, ErrNotFound, ErrInvalidTime)
	assert.ErrorIs(t, ErrNotFound, &Error{Kind: KindNotFound})
}

func TestKindOf(t *testing.T) {
	wrapped := errors.Join(errors.New("ctx"), ErrNotFound)
	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))

	info, ok := ConflictOf(NewConflictError(Unparsed("raw")))
	assert.True(t, ok)
	assert.Equal(t, "raw", info.Raw)

	_, ok = ConflictOf(ErrNotFound)
	assert.False(t, ok)
}

func TestReservationQuery_Defaults(t *testing.T) {
	q := NewReservationQuery()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 10, q.PageSize)
	assert.Equal(t, SortByStart, q.OrderBy)
	assert.Equal(t, StatusUnknown, q.Status)
	assert.False(t, q.Desc)
	assert.Equal(t, 0, q.Offset())

	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	q = NewReservationQuery(
		WithResource("room-1"),
		WithUser("alice"),
		WithStatus(StatusPending),
		WithWindow(&TimeRange{Start: &start}),
		WithOrder(SortByEnd, true),
		WithPage(3, 500),
	)
	assert.Equal(t, "room-1", q.ResourceID)
	assert.Equal(t, "alice", q.UserID)
	assert.Equal(t, MaxPageSize, q.PageSize)
	assert.Equal(t, RangeOverlaps, q.Window.Mode)
	assert.Nil(t, q.Window.End)
	assert.Equal(t, 200, q.Offset())
	assert.Equal(t, 4, q.Next().Page)
}

func TestReservationQuery_HugePageDoesNotWrap(t *testing.T) {
	// (4611686018427387905-1)*4 == 2^64, which wraps to offset 0 without the cap
	q := NewReservationQuery(WithPage(4611686018427387905, 4))
	assert.Equal(t, MaxPage, q.Page)
	assert.Equal(t, (MaxPage-1)*4, q.Offset())
	assert.Positive(t, q.Offset())

	q = NewReservationQuery(WithPage(math.MaxInt, MaxPageSize))
	assert.Equal(t, (MaxPage-1)*MaxPageSize, q.Offset())
	assert.Positive(t, q.Next().Offset())

	raw := ReservationQuery{Page: math.MaxInt, PageSize: 4}
	assert.Equal(t, math.MaxInt, raw.Offset())
	assert.Equal(t, 0, ReservationQuery{Page: 5}.Offset())
}

func TestParseQueryEnums(t *testing.T) {
	m, ok := ParseRangeMode("")
	assert.True(t, ok)
	assert.Equal(t, RangeOverlaps, m)

	m, ok = ParseRangeMode("during")
	assert.True(t, ok)
	assert.Equal(t, RangeDuring, m)

	_, ok = ParseRangeMode("adjacent")
	assert.False(t, ok)

	f, ok := ParseSortField("end")
	assert.True(t, ok)
	assert.Equal(t, SortByEnd, f)

	_, ok = ParseSortField("created")
	assert.False(t, ok)
}

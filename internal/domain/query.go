package domain

import (
	"math"
	"time"
)

// RangeMode selects how a reservation's window is compared with the query window
type RangeMode string

const (
	// RangeOverlaps matches reservations sharing any instant with the window
	RangeOverlaps RangeMode = "overlaps"
	// RangeContains matches reservations whose window contains the query window
	RangeContains RangeMode = "contains"
	// RangeDuring matches reservations lying entirely inside the query window
	RangeDuring RangeMode = "during"
)

// ParseRangeMode converts text into RangeMode; empty input means RangeOverlaps
func ParseRangeMode(s string) (RangeMode, bool) {
	switch RangeMode(s) {
	case "", RangeOverlaps:
		return RangeOverlaps, true
	case RangeContains, RangeDuring:
		return RangeMode(s), true
	default:
		return "", false
	}
}

// SortField is the time field query results are ordered by
type SortField string

const (
	SortByStart SortField = "start"
	SortByEnd   SortField = "end"
)

// ParseSortField converts text into SortField; empty input means SortByStart
func ParseSortField(s string) (SortField, bool) {
	switch SortField(s) {
	case "", SortByStart:
		return SortByStart, true
	case SortByEnd:
		return SortByEnd, true
	default:
		return "", false
	}
}

// TimeRange is the time-window predicate of a query.
// A nil bound is unbounded on that side.
type TimeRange struct {
	Start *time.Time
	End   *time.Time
	Mode  RangeMode
}

// NewTimeRange builds a bounded window predicate
func NewTimeRange(start, end time.Time, mode RangeMode) *TimeRange {
	start = start.UTC()
	end = end.UTC()
	return &TimeRange{Start: &start, End: &end, Mode: mode}
}

// Overlapping matches reservations overlapping [start, end)
func Overlapping(start, end time.Time) *TimeRange {
	return NewTimeRange(start, end, RangeOverlaps)
}

// Containing matches reservations that cover [start, end) completely
func Containing(start, end time.Time) *TimeRange {
	return NewTimeRange(start, end, RangeContains)
}

// During matches reservations lying inside [start, end)
func During(start, end time.Time) *TimeRange {
	return NewTimeRange(start, end, RangeDuring)
}

// ReservationQuery фильтр для поиска резерваций
// Пустые поля не ограничивают выборку по своему измерению
type ReservationQuery struct {
	ResourceID string            // Фильтр по ресурсу (опционально)
	UserID     string            // Фильтр по пользователю (опционально)
	Status     ReservationStatus // StatusUnknown = любой статус
	Window     *TimeRange        // Временное окно (опционально)
	OrderBy    SortField         // Поле сортировки, по умолчанию start
	Desc       bool              // Сортировка по убыванию
	Page       int               // Номер страницы, начиная с 1
	PageSize   int               // Размер страницы
}

// QueryOption configures a ReservationQuery
type QueryOption func(*ReservationQuery)

func WithResource(resourceID string) QueryOption {
	return func(q *ReservationQuery) { q.ResourceID = resourceID }
}

func WithUser(userID string) QueryOption {
	return func(q *ReservationQuery) { q.UserID = userID }
}

func WithStatus(status ReservationStatus) QueryOption {
	return func(q *ReservationQuery) { q.Status = status }
}

func WithWindow(window *TimeRange) QueryOption {
	return func(q *ReservationQuery) { q.Window = window }
}

func WithOrder(field SortField, desc bool) QueryOption {
	return func(q *ReservationQuery) {
		q.OrderBy = field
		q.Desc = desc
	}
}

func WithPage(page, pageSize int) QueryOption {
	return func(q *ReservationQuery) {
		q.Page = page
		q.PageSize = pageSize
	}
}

// NewReservationQuery builds a query with defaults applied
func NewReservationQuery(opts ...QueryOption) ReservationQuery {
	q := ReservationQuery{}
	for _, opt := range opts {
		opt(&q)
	}
	return q.Normalize()
}

// Normalize fills zero values with defaults and clamps the page size
func (q ReservationQuery) Normalize() ReservationQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	if q.Page > MaxPage {
		q.Page = MaxPage
	}
	if q.OrderBy == "" {
		q.OrderBy = SortByStart
	}
	if q.Status == "" {
		q.Status = StatusUnknown
	}
	if q.Window != nil && q.Window.Mode == "" {
		w := *q.Window
		w.Mode = RangeOverlaps
		q.Window = &w
	}
	return q
}

// Offset returns the number of rows to skip for the current page.
// It saturates at math.MaxInt instead of wrapping on huge pages.
func (q ReservationQuery) Offset() int {
	if q.Page < 1 || q.PageSize < 1 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.PageSize {
		return math.MaxInt
	}
	return (q.Page - 1) * q.PageSize
}

// Next returns the same query moved one page forward
func (q ReservationQuery) Next() ReservationQuery {
	q.Page++
	return q
}

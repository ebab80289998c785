package query_reservations

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// QueryReservationsResponse HTTP response model
type QueryReservationsResponse struct {
	Reservations []*handlers.ReservationResponse `json:"reservations"`
	Page         int                             `json:"page"`
	PageSize     int                             `json:"pageSize"`
}

// ToDomainQuery формирует фильтр из query параметров
// resourceId, userId, status, start, end, mode, orderBy, desc, page, pageSize - все опциональны
func ToDomainQuery(values url.Values) (domain.ReservationQuery, error) {
	opts := []domain.QueryOption{
		domain.WithResource(values.Get("resourceId")),
		domain.WithUser(values.Get("userId")),
	}

	// Парсим status если указан
	status, ok := domain.ParseReservationStatus(values.Get("status"))
	if !ok {
		return domain.ReservationQuery{}, fmt.Errorf("invalid status value: %q", values.Get("status"))
	}
	opts = append(opts, domain.WithStatus(status))

	// Временное окно задается, если указана хотя бы одна граница
	start, err := handlers.ParseTime(values.Get("start"))
	if err != nil {
		return domain.ReservationQuery{}, fmt.Errorf("invalid start value: %w", err)
	}
	end, err := handlers.ParseTime(values.Get("end"))
	if err != nil {
		return domain.ReservationQuery{}, fmt.Errorf("invalid end value: %w", err)
	}
	mode, ok := domain.ParseRangeMode(values.Get("mode"))
	if !ok {
		return domain.ReservationQuery{}, fmt.Errorf("invalid mode value: %q", values.Get("mode"))
	}
	if start != nil || end != nil {
		opts = append(opts, domain.WithWindow(&domain.TimeRange{Start: start, End: end, Mode: mode}))
	}

	orderBy, ok := domain.ParseSortField(values.Get("orderBy"))
	if !ok {
		return domain.ReservationQuery{}, fmt.Errorf("invalid orderBy value: %q", values.Get("orderBy"))
	}
	desc := false
	if s := values.Get("desc"); s != "" {
		desc, err = strconv.ParseBool(s)
		if err != nil {
			return domain.ReservationQuery{}, fmt.Errorf("invalid desc value: %w", err)
		}
	}
	opts = append(opts, domain.WithOrder(orderBy, desc))

	page, err := optionalInt(values.Get("page"))
	if err != nil {
		return domain.ReservationQuery{}, fmt.Errorf("invalid page value: %w", err)
	}
	pageSize, err := optionalInt(values.Get("pageSize"))
	if err != nil {
		return domain.ReservationQuery{}, fmt.Errorf("invalid pageSize value: %w", err)
	}
	opts = append(opts, domain.WithPage(page, pageSize))

	return domain.NewReservationQuery(opts...), nil
}

func optionalInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/psqlbuilder"
)

const (
	reservationsTable = ReservationsSchema + "." + ReservationsTable
	statusCast        = "?::" + ReservationsSchema + ".reservation_status"
	rangeExpr         = "tstzrange(?::timestamptz, ?::timestamptz, '[)')"

	maxInsertAttempts = 5
)

// Колонки резервации; границы tstzrange разворачиваются в start_time / end_time
var reservationColumns = []string{
	"id",
	"user_id",
	"resource_id",
	"lower(timespan) AS start_time",
	"upper(timespan) AS end_time",
	"note",
	"status",
}

// Операторы диапазонов PostgreSQL для режимов временного фильтра
var rangeOperators = map[domain.RangeMode]string{
	domain.RangeOverlaps: "&&",
	domain.RangeContains: "@>",
	domain.RangeDuring:   "<@",
}

// Repository репозиторий для работы с резервациями.
// Каждый метод выполняет ровно один SQL запрос.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория резерваций
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// reservationRow строка таблицы rsvp.reservations
type reservationRow struct {
	ID         uuid.UUID `db:"id"`
	UserID     string    `db:"user_id"`
	ResourceID string    `db:"resource_id"`
	StartTime  time.Time `db:"start_time"`
	EndTime    time.Time `db:"end_time"`
	Note       string    `db:"note"`
	Status     string    `db:"status"`
}

func (r *reservationRow) toDomain() (*domain.Reservation, error) {
	status, ok := domain.ParseReservationStatus(r.Status)
	if !ok || !status.IsPersistable() {
		return nil, fmt.Errorf("%w: unexpected status %q for reservation %s", ErrScanRow, r.Status, r.ID)
	}

	start := r.StartTime.UTC()
	end := r.EndTime.UTC()

	return &domain.Reservation{
		ID:         r.ID.String(),
		ResourceID: r.ResourceID,
		UserID:     r.UserID,
		StartTime:  &start,
		EndTime:    &end,
		Note:       r.Note,
		Status:     status,
	}, nil
}

// Create сохраняет резервацию и возвращает её с присвоенным ID.
// Пересечение с существующей резервацией того же ресурса отклоняется
// exclusion constraint'ом; ошибка драйвера возвращается обёрнутой.
func (r *Repository) Create(ctx context.Context, rsvp *domain.Reservation) (*domain.Reservation, error) {
	status := rsvp.Status
	if !status.IsPersistable() {
		return nil, fmt.Errorf("%w: Create - status %q", ErrInvalidStatus, status)
	}

	window := rsvp.Window()

	query, args, err := psqlbuilder.Insert(reservationsTable).
		Columns(
			"user_id",
			"resource_id",
			"timespan",
			"note",
			"status",
		).
		Values(
			rsvp.UserID,
			rsvp.ResourceID,
			squirrel.Expr(rangeExpr, window.Start, window.End),
			rsvp.Note,
			squirrel.Expr(statusCast, string(status)),
		).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	// Параллельные вставки в один ресурс могут взаимно заблокироваться на exclusion constraint'е,
	// повторная вставка после отката соседа получает обычный 23P01
	var id uuid.UUID
	for attempt := 1; ; attempt++ {
		err = sqlx.GetContext(ctx, r.db, &id, query, args...)
		if err == nil {
			break
		}
		if attempt < maxInsertAttempts && isDeadlock(err) {
			continue
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	created := *rsvp
	created.ID = id.String()
	created.Status = status
	created.StartTime = &window.Start
	created.EndTime = &window.End

	return &created, nil
}

// GetByID получает резервацию по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	query, args, err := psqlbuilder.Select(reservationColumns...).
		From(reservationsTable).
		Where(squirrel.Eq{"id": id.String()}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	return r.getOne(ctx, "GetByID", query, args)
}

// ConfirmPending переводит резервацию из pending в confirmed одним условным UPDATE.
// Если строка не найдена (нет такого ID, уже подтверждена или заблокирована) - ErrReservationNotFound.
func (r *Repository) ConfirmPending(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	query, args, err := psqlbuilder.Update(reservationsTable).
		Set("status", squirrel.Expr(statusCast, string(domain.StatusConfirmed))).
		Where(squirrel.Eq{"id": id.String()}).
		Where(squirrel.Eq{"status": string(domain.StatusPending)}).
		Suffix(returningColumns()).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ConfirmPending - build update query: %v", ErrBuildQuery, err)
	}

	return r.getOne(ctx, "ConfirmPending", query, args)
}

// UpdateNote безусловно заменяет заметку резервации
func (r *Repository) UpdateNote(ctx context.Context, id uuid.UUID, note string) (*domain.Reservation, error) {
	query, args, err := psqlbuilder.Update(reservationsTable).
		Set("note", note).
		Where(squirrel.Eq{"id": id.String()}).
		Suffix(returningColumns()).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpdateNote - build update query: %v", ErrBuildQuery, err)
	}

	return r.getOne(ctx, "UpdateNote", query, args)
}

// Delete удаляет резервацию. Отсутствие строки ошибкой не считается.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := psqlbuilder.Delete(reservationsTable).
		Where(squirrel.Eq{"id": id.String()}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	return nil
}

// Query ищет резервации по фильтру
// Поддерживает фильтрацию по:
// - ресурсу и пользователю (пустая строка - без ограничения)
// - статусу (StatusUnknown - любой)
// - временному окну в режимах overlaps / contains / during
//
// Сортировка по началу или концу окна, пагинация через LIMIT/OFFSET.
// Ожидается нормализованный запрос (см. domain.ReservationQuery.Normalize).
func (r *Repository) Query(ctx context.Context, q domain.ReservationQuery) ([]*domain.Reservation, error) {
	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From(reservationsTable)

	if q.ResourceID != "" {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"resource_id": q.ResourceID})
	}
	if q.UserID != "" {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"user_id": q.UserID})
	}
	if q.Status != "" && q.Status != domain.StatusUnknown {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(q.Status)})
	}
	if q.Window != nil {
		predicate, err := windowPredicate(q.Window)
		if err != nil {
			return nil, fmt.Errorf("%w: Query - %v", ErrBuildQuery, err)
		}
		selectBuilder = selectBuilder.Where(predicate)
	}

	direction := "ASC"
	if q.Desc {
		direction = "DESC"
	}
	orderColumn := "lower(timespan)"
	if q.OrderBy == domain.SortByEnd {
		orderColumn = "upper(timespan)"
	}

	selectBuilder = selectBuilder.
		OrderBy(orderColumn+" "+direction, "id "+direction).
		Limit(uint64(q.PageSize)).
		Offset(uint64(q.Offset()))

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Query - build select query: %v", ErrBuildQuery, err)
	}

	var rows []reservationRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%w: Query - execute select: %w", ErrExecQuery, err)
	}

	reservations := make([]*domain.Reservation, 0, len(rows))
	for i := range rows {
		rsvp, err := rows[i].toDomain()
		if err != nil {
			return nil, fmt.Errorf("Query - %w", err)
		}
		reservations = append(reservations, rsvp)
	}

	return reservations, nil
}

// getOne выполняет запрос, возвращающий одну строку резервации
func (r *Repository) getOne(ctx context.Context, op, query string, args []interface{}) (*domain.Reservation, error) {
	var row reservationRow
	err := sqlx.GetContext(ctx, r.db, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}

	rsvp, err := row.toDomain()
	if err != nil {
		return nil, fmt.Errorf("%s - %w", op, err)
	}
	return rsvp, nil
}

func returningColumns() string {
	return "RETURNING " + strings.Join(reservationColumns, ", ")
}

func windowPredicate(w *domain.TimeRange) (squirrel.Sqlizer, error) {
	mode := w.Mode
	if mode == "" {
		mode = domain.RangeOverlaps
	}
	op, ok := rangeOperators[mode]
	if !ok {
		return nil, fmt.Errorf("unsupported range mode %q", w.Mode)
	}
	return squirrel.Expr("timespan "+op+" "+rangeExpr, boundArg(w.Start), boundArg(w.End)), nil
}

// boundArg превращает отсутствующую границу в NULL (бесконечность для tstzrange)
func boundArg(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC()
}

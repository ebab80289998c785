// Package dbmetrics обёртка над пулом соединений, собирающая метрики SQL запросов
package dbmetrics

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// DefaultPoolStatsInterval период опроса состояния пула соединений
const DefaultPoolStatsInterval = 15 * time.Second

// DBExecutor интерфейс выполнения запросов.
// Реализуется *sqlx.DB, *sqlx.Tx и *DB.
type DBExecutor interface {
	sqlx.QueryerContext
	sqlx.ExecerContext
}

// Recorder приемник метрик (реализуется *metrics.Metrics)
type Recorder interface {
	ObserveDBQuery(operation string, err error, elapsed time.Duration)
	SetDBConnections(open, inUse, idle int)
}

// DB пул соединений с метриками
type DB struct {
	db       *sqlx.DB
	recorder Recorder
}

var _ DBExecutor = (*DB)(nil)

// Wrap оборачивает пул и запускает сбор статистики пула до закрытия stopCh
func Wrap(db *sqlx.DB, recorder Recorder, stopCh <-chan struct{}, interval time.Duration) *DB {
	wrapped := &DB{db: db, recorder: recorder}
	if stopCh != nil && interval > 0 {
		go wrapped.collectPoolStats(stopCh, interval)
	}
	return wrapped
}

// WrapWithDefault оборачивает пул с интервалом опроса по умолчанию
func WrapWithDefault(db *sqlx.DB, recorder Recorder, stopCh <-chan struct{}) *DB {
	return Wrap(db, recorder, stopCh, DefaultPoolStatsInterval)
}

// Unwrap возвращает исходный пул
func (d *DB) Unwrap() *sqlx.DB {
	return d.db
}

func (d *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := d.db.QueryContext(ctx, query, args...)
	d.observe(query, err, start)
	return rows, err
}

func (d *DB) QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error) {
	start := time.Now()
	rows, err := d.db.QueryxContext(ctx, query, args...)
	d.observe(query, err, start)
	return rows, err
}

func (d *DB) QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row {
	start := time.Now()
	row := d.db.QueryRowxContext(ctx, query, args...)
	d.observe(query, row.Err(), start)
	return row
}

func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := d.db.ExecContext(ctx, query, args...)
	d.observe(query, err, start)
	return res, err
}

func (d *DB) observe(query string, err error, start time.Time) {
	if d.recorder == nil {
		return
	}
	// sql.ErrNoRows - штатный результат, не ошибка выполнения
	if err == sql.ErrNoRows {
		err = nil
	}
	d.recorder.ObserveDBQuery(Operation(query), err, time.Since(start))
}

func (d *DB) collectPoolStats(stopCh <-chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			d.reportPoolStats()
		}
	}
}

func (d *DB) reportPoolStats() {
	if d.recorder == nil {
		return
	}
	stats := d.db.Stats()
	d.recorder.SetDBConnections(stats.OpenConnections, stats.InUse, stats.Idle)
}

// Operation возвращает тип SQL запроса в нижнем регистре (select, insert, ...)
func Operation(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "unknown"
	}
	return strings.ToLower(fields[0])
}

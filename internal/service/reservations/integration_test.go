package reservations

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/metrics"
)

// EnvTestDSN строка подключения к тестовой БД; без неё интеграционные тесты пропускаются
const EnvTestDSN = "RSVP_TEST_DSN"

type integrationEnv struct {
	manager *Manager
	metrics *metrics.Metrics
}

func setupIntegration(t *testing.T) *integrationEnv {
	t.Helper()

	dsn := os.Getenv(EnvTestDSN)
	if dsn == "" {
		t.Skipf("%s is not set", EnvTestDSN)
	}

	db, err := sqlx.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	migration, err := os.ReadFile(filepath.Join("..", "..", "..", "migrations", "0001_init.up.sql"))
	require.NoError(t, err)

	ctx := context.Background()
	_, err = db.ExecContext(ctx, "DROP SCHEMA IF EXISTS rsvp CASCADE")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, string(migration))
	require.NoError(t, err)

	m := metrics.NewWithRegistry(nil, "reservation-service-test")
	wrapped := dbmetrics.Wrap(db, m, nil, 0)
	log := logger.NewWithWriter(io.Discard, logger.LevelError)

	return &integrationEnv{
		manager: NewManager(reservationRepo.NewRepository(wrapped), m, log),
		metrics: m,
	}
}

func at(day, hour int) time.Time {
	return time.Date(2022, 12, day, hour, 0, 0, 0, time.UTC)
}

func TestIntegration_RoundTrip(t *testing.T) {
	env := setupIntegration(t)
	ctx := context.Background()

	created, err := env.manager.Reserve(ctx, domain.NewPendingReservation("alice", "ocean-view-room-713", at(26, 22), at(30, 19), "hello"))
	require.NoError(t, err)
	_, err = uuid.Parse(created.ID)
	require.NoError(t, err)

	got, err := env.manager.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "alice", got.UserID)
	assert.Equal(t, "ocean-view-room-713", got.ResourceID)
	assert.True(t, got.StartTime.Equal(at(26, 22)))
	assert.True(t, got.EndTime.Equal(at(30, 19)))
	assert.Equal(t, "hello", got.Note)
	assert.Equal(t, domain.StatusPending, got.Status)
}

func TestIntegration_Conflict(t *testing.T) {
	env := setupIntegration(t)
	ctx := context.Background()

	_, err := env.manager.Reserve(ctx, domain.NewPendingReservation("bob", "ocean-view-room-713", at(25, 22), at(28, 19), ""))
	require.NoError(t, err)

	_, err = env.manager.Reserve(ctx, domain.NewPendingReservation("alice", "ocean-view-room-713", at(26, 22), at(30, 19), ""))

	expected := domain.NewConflictError(domain.Parsed(domain.ReservationConflict{
		New: domain.ReservationWindow{ResourceID: "ocean-view-room-713", Start: at(26, 22), End: at(30, 19)},
		Old: domain.ReservationWindow{ResourceID: "ocean-view-room-713", Start: at(25, 22), End: at(28, 19)},
	}))
	assert.ErrorIs(t, err, expected)

	// другой ресурс и смежное окно не конфликтуют
	_, err = env.manager.Reserve(ctx, domain.NewPendingReservation("alice", "garden-room-1", at(26, 22), at(30, 19), ""))
	assert.NoError(t, err)
	_, err = env.manager.Reserve(ctx, domain.NewPendingReservation("alice", "ocean-view-room-713", at(28, 19), at(30, 19), ""))
	assert.NoError(t, err)
}

func TestIntegration_ConcurrentReserve(t *testing.T) {
	env := setupIntegration(t)
	ctx := context.Background()

	const workers = 8
	const resource = "room-race"

	var (
		wg    sync.WaitGroup
		ready = make(chan struct{})
		errs  = make([]error, workers)
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-ready
			// все окна содержат [11:00, 14:00) пятого числа
			rsvp := domain.NewPendingReservation(fmt.Sprintf("user-%d", i), resource, at(5, 10+i%2), at(5, 14+i%3), "")
			_, errs[i] = env.manager.Reserve(ctx, rsvp)
		}(i)
	}
	close(ready)
	wg.Wait()

	succeeded := 0
	for i, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		require.Equal(t, domain.KindConflictReservation, domain.KindOf(err), "worker %d: %v", i, err)
		info, ok := domain.ConflictOf(err)
		require.True(t, ok)
		require.True(t, info.IsParsed(), "worker %d: %s", i, info.Raw)
		assert.Equal(t, resource, info.Conflict.New.ResourceID)
		assert.Equal(t, resource, info.Conflict.Old.ResourceID)
		assert.True(t, info.Conflict.New.Start.Equal(at(5, 10+i%2)))
	}
	assert.Equal(t, 1, succeeded)

	stored, err := env.manager.Query(ctx, domain.NewReservationQuery(domain.WithResource(resource)))
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestIntegration_ChangeStatusTwice(t *testing.T) {
	env := setupIntegration(t)
	ctx := context.Background()

	created, err := env.manager.Reserve(ctx, domain.NewPendingReservation("alice", "room-1", at(1, 10), at(1, 12), ""))
	require.NoError(t, err)

	confirmed, err := env.manager.ChangeStatus(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, confirmed.Status)

	_, err = env.manager.ChangeStatus(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = env.manager.ChangeStatus(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIntegration_UpdateNoteAndDelete(t *testing.T) {
	env := setupIntegration(t)
	ctx := context.Background()

	created, err := env.manager.Reserve(ctx, domain.NewPendingReservation("alice", "room-1", at(2, 10), at(2, 12), "hello"))
	require.NoError(t, err)

	updated, err := env.manager.UpdateNote(ctx, created.ID, "world.")
	require.NoError(t, err)
	assert.Equal(t, "world.", updated.Note)

	_, err = env.manager.UpdateNote(ctx, uuid.NewString(), "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, env.manager.Delete(ctx, created.ID))
	require.NoError(t, env.manager.Delete(ctx, created.ID))

	_, err = env.manager.Get(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIntegration_Query(t *testing.T) {
	env := setupIntegration(t)
	ctx := context.Background()

	windows := [][2]time.Time{
		{at(10, 8), at(10, 10)},
		{at(10, 12), at(10, 14)},
		{at(10, 16), at(10, 18)},
	}
	for i, w := range windows {
		rsvp := domain.NewPendingReservation("alice", "room-q", w[0], w[1], "")
		if i == 2 {
			rsvp.UserID = "bob"
		}
		_, err := env.manager.Reserve(ctx, rsvp)
		require.NoError(t, err)
	}

	all, err := env.manager.Query(ctx, domain.NewReservationQuery(domain.WithResource("room-q")))
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].StartTime.Equal(at(10, 8)))

	before, err := env.manager.Query(ctx, domain.NewReservationQuery(
		domain.WithResource("room-q"),
		domain.WithWindow(domain.Overlapping(at(9, 0), at(9, 23))),
	))
	require.NoError(t, err)
	assert.Empty(t, before)

	// окно ровно по второй резервации; соседние касаются его только границами
	exact, err := env.manager.Query(ctx, domain.NewReservationQuery(
		domain.WithResource("room-q"),
		domain.WithWindow(domain.Overlapping(at(10, 10), at(10, 16))),
	))
	require.NoError(t, err)
	require.Len(t, exact, 1)
	assert.True(t, exact[0].StartTime.Equal(at(10, 12)))
	assert.True(t, exact[0].EndTime.Equal(at(10, 14)))

	overlapping, err := env.manager.Query(ctx, domain.NewReservationQuery(
		domain.WithResource("room-q"),
		domain.WithWindow(domain.Overlapping(at(10, 9), at(10, 13))),
	))
	require.NoError(t, err)
	assert.Len(t, overlapping, 2)

	during, err := env.manager.Query(ctx, domain.NewReservationQuery(
		domain.WithWindow(domain.During(at(10, 11), at(10, 19))),
	))
	require.NoError(t, err)
	assert.Len(t, during, 2)

	containing, err := env.manager.Query(ctx, domain.NewReservationQuery(
		domain.WithWindow(domain.Containing(at(10, 12), at(10, 13))),
	))
	require.NoError(t, err)
	require.Len(t, containing, 1)
	assert.True(t, containing[0].StartTime.Equal(at(10, 12)))

	byUser, err := env.manager.Query(ctx, domain.NewReservationQuery(domain.WithUser("bob")))
	require.NoError(t, err)
	assert.Len(t, byUser, 1)

	q := domain.NewReservationQuery(
		domain.WithResource("room-q"),
		domain.WithOrder(domain.SortByEnd, true),
		domain.WithPage(1, 2),
	)
	first, err := env.manager.Query(ctx, q)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.True(t, first[0].EndTime.Equal(at(10, 18)))

	second, err := env.manager.Query(ctx, q.Next())
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.True(t, second[0].EndTime.Equal(at(10, 10)))

	none, err := env.manager.Query(ctx, domain.NewReservationQuery(domain.WithStatus(domain.StatusConfirmed)))
	require.NoError(t, err)
	assert.Empty(t, none)
}

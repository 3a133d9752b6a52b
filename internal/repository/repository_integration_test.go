//go:build integration

package repository

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/sysu-ecnc-dev/worklog/backend/internal/config"
	"github.com/sysu-ecnc-dev/worklog/backend/internal/domain"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	ctx := context.Background()

	pg, err := postgrescontainer.Run(ctx, "postgres:16-alpine",
		postgrescontainer.WithDatabase("worklog"),
		postgrescontainer.WithUsername("worklog"),
		postgrescontainer.WithPassword("worklog"),
		postgrescontainer.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("pgx", connStr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	migration, err := os.ReadFile(filepath.Join(filepath.Dir(file), "..", "..", "migrations", "0001_init.up.sql"))
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, string(migration))
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Database.QueryTimeout = 10

	return NewRepository(cfg, db)
}

func mustWorker(t *testing.T, repo *Repository, telegramID int64, name string) *domain.Worker {
	t.Helper()
	w := &domain.Worker{TelegramID: telegramID, FullName: name, IsActive: true}
	require.NoError(t, repo.CreateWorker(w))
	return w
}

func mustWorkType(t *testing.T, repo *Repository, code, name, unit string) *domain.WorkType {
	t.Helper()
	wt := &domain.WorkType{Code: code, Name: name, Unit: unit, IsActive: true}
	require.NoError(t, repo.CreateWorkType(wt))
	return wt
}

func mustEntry(t *testing.T, repo *Repository, w *domain.Worker, wt *domain.WorkType, day domain.Date, qty string) *domain.WorkEntry {
	t.Helper()
	q, err := domain.ParseQuantity(qty)
	require.NoError(t, err)
	e := &domain.WorkEntry{WorkerID: w.ID, WorkTypeID: wt.ID, WorkDate: day, Quantity: q}
	require.NoError(t, repo.CreateWorkEntry(e))
	return e
}

func TestRepositoryIntegration(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	ivan := mustWorker(t, repo, 11111111, "Иван Петров")
	anna := mustWorker(t, repo, 22222222, "Анна Смирнова")
	bricks := mustWorkType(t, repo, "bricks", "Кладка", "шт")
	paint := mustWorkType(t, repo, "paint", "Покраска", "м2")

	jan1 := domain.NewDate(2024, 1, 1)
	jan3 := domain.NewDate(2024, 1, 3)
	first := mustEntry(t, repo, ivan, bricks, jan1, "5")
	mustEntry(t, repo, anna, paint, jan3, "4.5")
	mustEntry(t, repo, ivan, paint, jan3, "2.5")

	t.Run("duplicate triple rejected", func(t *testing.T) {
		dup := &domain.WorkEntry{WorkerID: ivan.ID, WorkTypeID: bricks.ID, WorkDate: jan1, Quantity: 1000}
		err := repo.CreateWorkEntry(dup)
		assert.ErrorIs(t, err, ErrDuplicateEntry)
	})

	t.Run("duplicate telegram id and code", func(t *testing.T) {
		assert.ErrorIs(t, repo.CreateWorker(&domain.Worker{TelegramID: ivan.TelegramID, FullName: "x"}), ErrDuplicateTelegramID)
		assert.ErrorIs(t, repo.CreateWorkType(&domain.WorkType{Code: "paint", Name: "x", Unit: "шт"}), ErrDuplicateCode)
	})

	t.Run("referenced rows cannot be deleted", func(t *testing.T) {
		assert.ErrorIs(t, repo.DeleteWorker(ivan.ID), ErrReferenced)
		assert.ErrorIs(t, repo.DeleteWorkType(bricks.ID), ErrReferenced)
	})

	t.Run("entry round trip", func(t *testing.T) {
		got, err := repo.GetWorkEntryByID(first.ID)
		require.NoError(t, err)
		assert.Equal(t, jan1, got.WorkDate)
		assert.Equal(t, domain.Quantity(5000), got.Quantity)
		assert.Equal(t, "Иван Петров", got.WorkerName)
		assert.Equal(t, "Кладка", got.WorkTypeName)
	})

	t.Run("list entries filters", func(t *testing.T) {
		entries, err := repo.ListWorkEntries(domain.WorkEntryFilter{WorkDate: &jan3})
		require.NoError(t, err)
		assert.Len(t, entries, 2)

		entries, err = repo.ListWorkEntries(domain.WorkEntryFilter{Search: "Анна"})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, anna.ID, entries[0].WorkerID)
	})

	t.Run("optimistic update", func(t *testing.T) {
		e, err := repo.GetWorkEntryByID(first.ID)
		require.NoError(t, err)
		stale := *e

		e.Quantity = 6000
		require.NoError(t, repo.UpdateWorkEntry(e))

		stale.Quantity = 7000
		assert.ErrorIs(t, repo.UpdateWorkEntry(&stale), sql.ErrNoRows)

		e.Quantity = 5000
		require.NoError(t, repo.UpdateWorkEntry(e))
	})

	t.Run("touch worker", func(t *testing.T) {
		w, created, err := repo.TouchWorker(33333333, "Новый", nil)
		require.NoError(t, err)
		assert.True(t, created)
		require.NotNil(t, w.LastSeen)

		w, created, err = repo.TouchWorker(33333333, "Новый Иванов", nil)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, "Новый Иванов", w.FullName)
	})

	t.Run("analytics queries", func(t *testing.T) {
		total, err := repo.TotalQuantity(ctx, jan1, jan3)
		require.NoError(t, err)
		assert.InDelta(t, 12.0, total, 1e-9)

		daily, err := repo.DailyTotals(ctx, jan1, jan3)
		require.NoError(t, err)
		require.Len(t, daily, 2)
		assert.Equal(t, jan1, daily[0].Day)
		assert.InDelta(t, 5.0, daily[0].Total, 1e-9)
		assert.InDelta(t, 7.0, daily[1].Total, 1e-9)

		top, err := repo.TopWorkers(ctx, jan1, jan3, 10)
		require.NoError(t, err)
		require.Len(t, top, 2)
		assert.Equal(t, ivan.ID, top[0].ID)
		assert.InDelta(t, 7.5, top[0].Total, 1e-9)

		byType, err := repo.TypeTotals(ctx, jan1, jan3)
		require.NoError(t, err)
		require.Len(t, byType, 2)
		assert.Equal(t, "Покраска (м2)", byType[0].Label)
		assert.InDelta(t, 7.0, byType[0].Total, 1e-9)

		snap, err := repo.DaySnapshot(ctx, jan3)
		require.NoError(t, err)
		assert.InDelta(t, 7.0, snap.Total, 1e-9)
		assert.Equal(t, int64(2), snap.Workers)
		assert.Equal(t, int64(1), snap.WorkTypes)

		empty, err := repo.TotalQuantity(ctx, jan3, jan1)
		require.NoError(t, err)
		assert.Zero(t, empty)
	})

	t.Run("delete after entries are gone", func(t *testing.T) {
		require.NoError(t, repo.DeleteWorkEntry(first.ID))
		require.NoError(t, repo.DeleteWorkType(bricks.ID))

		_, err := repo.GetWorkTypeByID(bricks.ID)
		assert.True(t, errors.Is(err, sql.ErrNoRows))
	})
}

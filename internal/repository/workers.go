package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sysu-ecnc-dev/worklog/backend/internal/domain"
)

const workerColumns = `id, telegram_id, full_name, username, is_active, joined_at, last_seen, created_at, updated_at, version`

func scanWorker(row rowScanner) (*domain.Worker, error) {
	w := &domain.Worker{}
	dst := []any{&w.ID, &w.TelegramID, &w.FullName, &w.Username, &w.IsActive, &w.JoinedAt, &w.LastSeen, &w.CreatedAt, &w.UpdatedAt, &w.Version}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}
	return w, nil
}

func (r *Repository) GetWorkerByID(id int64) (*domain.Worker, error) {
	query := `SELECT ` + workerColumns + ` FROM workers WHERE id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), r.queryTimeout())
	defer cancel()

	return scanWorker(r.dbpool.QueryRowContext(ctx, query, id))
}

func (r *Repository) GetWorkerByTelegramID(telegramID int64) (*domain.Worker, error) {
	query := `SELECT ` + workerColumns + ` FROM workers WHERE telegram_id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), r.queryTimeout())
	defer cancel()

	return scanWorker(r.dbpool.QueryRowContext(ctx, query, telegramID))
}

func (r *Repository) ListWorkers(filter domain.ListFilter) ([]*domain.Worker, error) {
	where := &whereBuilder{}
	if filter.Active != nil {
		where.add("is_active = ?", *filter.Active)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		where.add("(full_name ILIKE ? OR username ILIKE ? OR telegram_id::text LIKE ?)", pattern, pattern, pattern)
	}

	query := `SELECT ` + workerColumns + ` FROM workers ` + where.String() + ` ORDER BY is_active DESC, full_name, id`

	ctx, cancel := context.WithTimeout(context.Background(), r.queryTimeout())
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, where.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workers := make([]*domain.Worker, 0)
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, err
		}
		workers = append(workers, w)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return workers, nil
}

func (r *Repository) CreateWorker(w *domain.Worker) error {
	query := `
		INSERT INTO workers (telegram_id, full_name, username, is_active, joined_at)
		VALUES ($1, $2, $3, $4, COALESCE($5, NOW()))
		RETURNING id, joined_at, created_at, updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), r.queryTimeout())
	defer cancel()

	var joinedAt *time.Time
	if !w.JoinedAt.IsZero() {
		joinedAt = &w.JoinedAt
	}

	args := []any{w.TelegramID, w.FullName, w.Username, w.IsActive, joinedAt}
	dst := []any{&w.ID, &w.JoinedAt, &w.CreatedAt, &w.UpdatedAt, &w.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return translateWriteError(err)
	}

	return nil
}

// GetOrCreateWorker 按 telegram ID 查找工人，不存在时用 defaults 创建
func (r *Repository) GetOrCreateWorker(defaults *domain.Worker) (*domain.Worker, bool, error) {
	w, err := r.GetWorkerByTelegramID(defaults.TelegramID)
	switch {
	case err == nil:
		return w, false, nil
	case !errors.Is(err, sql.ErrNoRows):
		return nil, false, err
	}

	if err := r.CreateWorker(defaults); err != nil {
		return nil, false, err
	}

	return defaults, true, nil
}

// TouchWorker 在收到工人的消息时调用：第一次联系时创建工人，之后刷新姓名、用户名和最后活跃时间。
// 第二个返回值表示是否为新建。
func (r *Repository) TouchWorker(telegramID int64, fullName string, username *string) (*domain.Worker, bool, error) {
	query := `
		INSERT INTO workers (telegram_id, full_name, username, last_seen)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (telegram_id) DO UPDATE
		SET
			full_name = EXCLUDED.full_name,
			username = COALESCE(EXCLUDED.username, workers.username),
			last_seen = NOW(),
			updated_at = NOW()
		RETURNING ` + workerColumns + `, (xmax = 0) AS inserted
	`

	ctx, cancel := context.WithTimeout(context.Background(), r.queryTimeout())
	defer cancel()

	w := &domain.Worker{}
	var inserted bool
	dst := []any{&w.ID, &w.TelegramID, &w.FullName, &w.Username, &w.IsActive, &w.JoinedAt, &w.LastSeen, &w.CreatedAt, &w.UpdatedAt, &w.Version, &inserted}
	if err := r.dbpool.QueryRowContext(ctx, query, telegramID, fullName, username).Scan(dst...); err != nil {
		return nil, false, translateWriteError(err)
	}

	return w, inserted, nil
}

func (r *Repository) UpdateWorker(w *domain.Worker) error {
	query := `
		UPDATE workers
		SET
			full_name = $1,
			username = $2,
			is_active = $3,
			updated_at = NOW(),
			version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), r.queryTimeout())
	defer cancel()

	args := []any{w.FullName, w.Username, w.IsActive, w.ID, w.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&w.UpdatedAt, &w.Version); err != nil {
		return translateWriteError(err)
	}

	return nil
}

func (r *Repository) DeleteWorker(id int64) error {
	query := `DELETE FROM workers WHERE id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), r.queryTimeout())
	defer cancel()

	result, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return translateDeleteError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

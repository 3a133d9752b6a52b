package repository

import (
	"context"
	"database/sql"

	"github.com/sysu-ecnc-dev/worklog/backend/internal/domain"
)

const workEntrySelect = `
	SELECT
		we.id,
		we.worker_id,
		we.work_type_id,
		we.work_date,
		we.quantity,
		we.comment,
		we.source_chat_id,
		we.source_message_id,
		we.created_at,
		we.updated_at,
		we.version,
		w.full_name,
		wt.name,
		wt.unit
	FROM work_entries we
	JOIN workers w ON w.id = we.worker_id
	JOIN work_types wt ON wt.id = we.work_type_id
`

func scanWorkEntry(row rowScanner) (*domain.WorkEntry, error) {
	e := &domain.WorkEntry{}
	dst := []any{
		&e.ID,
		&e.WorkerID,
		&e.WorkTypeID,
		&e.WorkDate,
		&e.Quantity,
		&e.Comment,
		&e.SourceChatID,
		&e.SourceMessageID,
		&e.CreatedAt,
		&e.UpdatedAt,
		&e.Version,
		&e.WorkerName,
		&e.WorkTypeName,
		&e.Unit,
	}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *Repository) GetWorkEntryByID(id int64) (*domain.WorkEntry, error) {
	query := workEntrySelect + ` WHERE we.id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), r.queryTimeout())
	defer cancel()

	return scanWorkEntry(r.dbpool.QueryRowContext(ctx, query, id))
}

func (r *Repository) ListWorkEntries(filter domain.WorkEntryFilter) ([]*domain.WorkEntry, error) {
	where := &whereBuilder{}
	if filter.Start != nil {
		where.add("we.work_date >= ?", filter.Start.Time)
	}
	if filter.End != nil {
		where.add("we.work_date <= ?", filter.End.Time)
	}
	if filter.WorkDate != nil {
		where.add("we.work_date = ?", filter.WorkDate.Time)
	}
	if filter.WorkerID != 0 {
		where.add("we.worker_id = ?", filter.WorkerID)
	}
	if filter.WorkTypeID != 0 {
		where.add("we.work_type_id = ?", filter.WorkTypeID)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		where.add("(w.full_name ILIKE ? OR w.username ILIKE ? OR we.comment ILIKE ?)", pattern, pattern, pattern)
	}

	query := workEntrySelect + where.String() + ` ORDER BY we.work_date DESC, we.created_at DESC, we.id DESC`

	ctx, cancel := context.WithTimeout(context.Background(), r.queryTimeout())
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, where.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*domain.WorkEntry, 0)
	for rows.Next() {
		e, err := scanWorkEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// CreateWorkEntry 在 (工人, 工作类型, 日期) 已存在记录时返回 ErrDuplicateEntry
func (r *Repository) CreateWorkEntry(e *domain.WorkEntry) error {
	query := `
		INSERT INTO work_entries (worker_id, work_type_id, work_date, quantity, comment, source_chat_id, source_message_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), r.queryTimeout())
	defer cancel()

	args := []any{e.WorkerID, e.WorkTypeID, e.WorkDate.Time, e.Quantity.String(), e.Comment, e.SourceChatID, e.SourceMessageID}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt, &e.Version); err != nil {
		return translateWriteError(err)
	}

	return nil
}

// UpdateWorkEntry 用于更正记录，来源信息不允许修改
func (r *Repository) UpdateWorkEntry(e *domain.WorkEntry) error {
	query := `
		UPDATE work_entries
		SET
			worker_id = $1,
			work_type_id = $2,
			work_date = $3,
			quantity = $4,
			comment = $5,
			updated_at = NOW(),
			version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), r.queryTimeout())
	defer cancel()

	args := []any{e.WorkerID, e.WorkTypeID, e.WorkDate.Time, e.Quantity.String(), e.Comment, e.ID, e.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&e.UpdatedAt, &e.Version); err != nil {
		return translateWriteError(err)
	}

	return nil
}

func (r *Repository) DeleteWorkEntry(id int64) error {
	query := `DELETE FROM work_entries WHERE id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), r.queryTimeout())
	defer cancel()

	result, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
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

package repository

import (
	"context"
	"database/sql"

	"github.com/sysu-ecnc-dev/worklog/backend/internal/domain"
)

const workTypeColumns = `id, code, name, unit, is_active, default_rate, created_at, updated_at, version`

func scanWorkType(row rowScanner) (*domain.WorkType, error) {
	t := &domain.WorkType{}
	dst := []any{&t.ID, &t.Code, &t.Name, &t.Unit, &t.IsActive, &t.DefaultRate, &t.CreatedAt, &t.UpdatedAt, &t.Version}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *Repository) GetWorkTypeByID(id int64) (*domain.WorkType, error) {
	query := `SELECT ` + workTypeColumns + ` FROM work_types WHERE id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), r.queryTimeout())
	defer cancel()

	return scanWorkType(r.dbpool.QueryRowContext(ctx, query, id))
}

func (r *Repository) GetWorkTypeByCode(code string) (*domain.WorkType, error) {
	query := `SELECT ` + workTypeColumns + ` FROM work_types WHERE code = $1`

	ctx, cancel := context.WithTimeout(context.Background(), r.queryTimeout())
	defer cancel()

	return scanWorkType(r.dbpool.QueryRowContext(ctx, query, code))
}

func (r *Repository) ListWorkTypes(filter domain.ListFilter) ([]*domain.WorkType, error) {
	where := &whereBuilder{}
	if filter.Active != nil {
		where.add("is_active = ?", *filter.Active)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		where.add("(name ILIKE ? OR code ILIKE ?)", pattern, pattern)
	}

	query := `SELECT ` + workTypeColumns + ` FROM work_types ` + where.String() + ` ORDER BY name, id`

	ctx, cancel := context.WithTimeout(context.Background(), r.queryTimeout())
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, where.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	types := make([]*domain.WorkType, 0)
	for rows.Next() {
		t, err := scanWorkType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return types, nil
}

func (r *Repository) ListActiveWorkTypes() ([]*domain.WorkType, error) {
	active := true
	return r.ListWorkTypes(domain.ListFilter{Active: &active})
}

func (r *Repository) CreateWorkType(t *domain.WorkType) error {
	query := `
		INSERT INTO work_types (code, name, unit, is_active, default_rate)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), r.queryTimeout())
	defer cancel()

	if t.Unit == "" {
		t.Unit = domain.DefaultUnit
	}

	args := []any{t.Code, t.Name, t.Unit, t.IsActive, t.DefaultRate.String()}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt, &t.Version); err != nil {
		return translateWriteError(err)
	}

	return nil
}

func (r *Repository) UpdateWorkType(t *domain.WorkType) error {
	query := `
		UPDATE work_types
		SET
			code = $1,
			name = $2,
			unit = $3,
			is_active = $4,
			default_rate = $5,
			updated_at = NOW(),
			version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), r.queryTimeout())
	defer cancel()

	args := []any{t.Code, t.Name, t.Unit, t.IsActive, t.DefaultRate.String(), t.ID, t.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&t.UpdatedAt, &t.Version); err != nil {
		return translateWriteError(err)
	}

	return nil
}

func (r *Repository) DeleteWorkType(id int64) error {
	query := `DELETE FROM work_types WHERE id = $1`

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

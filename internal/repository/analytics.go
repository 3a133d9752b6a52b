package repository

import (
	"context"

	"github.com/sysu-ecnc-dev/worklog/backend/internal/domain"
)

// 以下查询实现 analytics.Store，日期范围均为闭区间

func (r *Repository) TotalQuantity(ctx context.Context, start, end domain.Date) (float64, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)::float8
		FROM work_entries
		WHERE work_date BETWEEN $1 AND $2
	`

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout())
	defer cancel()

	var total float64
	if err := r.dbpool.QueryRowContext(ctx, query, start.Time, end.Time).Scan(&total); err != nil {
		return 0, err
	}

	return total, nil
}

func (r *Repository) DailyTotals(ctx context.Context, start, end domain.Date) ([]domain.DayTotal, error) {
	query := `
		SELECT work_date, SUM(quantity)::float8
		FROM work_entries
		WHERE work_date BETWEEN $1 AND $2
		GROUP BY work_date
		ORDER BY work_date
	`

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout())
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, start.Time, end.Time)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make([]domain.DayTotal, 0)
	for rows.Next() {
		var t domain.DayTotal
		if err := rows.Scan(&t.Day, &t.Total); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return totals, nil
}

func (r *Repository) TopWorkers(ctx context.Context, start, end domain.Date, limit int) ([]domain.LabeledValue, error) {
	query := `
		SELECT w.id, w.full_name, SUM(we.quantity)::float8 AS total
		FROM work_entries we
		JOIN workers w ON w.id = we.worker_id
		WHERE we.work_date BETWEEN $1 AND $2
		GROUP BY w.id, w.full_name
		ORDER BY total DESC, w.id
		LIMIT $3
	`

	return r.queryLabeledValues(ctx, query, start.Time, end.Time, limit)
}

func (r *Repository) TypeTotals(ctx context.Context, start, end domain.Date) ([]domain.LabeledValue, error) {
	query := `
		SELECT wt.id, wt.name, wt.unit, SUM(we.quantity)::float8 AS total
		FROM work_entries we
		JOIN work_types wt ON wt.id = we.work_type_id
		WHERE we.work_date BETWEEN $1 AND $2
		GROUP BY wt.id, wt.name, wt.unit
		ORDER BY total DESC, wt.id
	`

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout())
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, start.Time, end.Time)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := make([]domain.LabeledValue, 0)
	for rows.Next() {
		var v domain.LabeledValue
		var name, unit string
		if err := rows.Scan(&v.ID, &name, &unit, &v.Total); err != nil {
			return nil, err
		}
		v.Label = domain.TypeLabel(name, unit)
		values = append(values, v)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return values, nil
}

func (r *Repository) DaySnapshot(ctx context.Context, day domain.Date) (domain.DaySnapshot, error) {
	query := `
		SELECT
			COALESCE(SUM(quantity), 0)::float8,
			COUNT(DISTINCT worker_id),
			COUNT(DISTINCT work_type_id)
		FROM work_entries
		WHERE work_date = $1
	`

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout())
	defer cancel()

	var s domain.DaySnapshot
	if err := r.dbpool.QueryRowContext(ctx, query, day.Time).Scan(&s.Total, &s.Workers, &s.WorkTypes); err != nil {
		return domain.DaySnapshot{}, err
	}

	return s, nil
}

func (r *Repository) queryLabeledValues(ctx context.Context, query string, args ...any) ([]domain.LabeledValue, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout())
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := make([]domain.LabeledValue, 0)
	for rows.Next() {
		var v domain.LabeledValue
		if err := rows.Scan(&v.ID, &v.Label, &v.Total); err != nil {
			return nil, err
		}
		values = append(values, v)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return values, nil
}

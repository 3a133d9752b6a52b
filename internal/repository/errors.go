package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrDuplicateEntry      = errors.New("该工人当天已有同类型的工作记录")
	ErrDuplicateTelegramID = errors.New("telegram ID 已存在")
	ErrDuplicateCode       = errors.New("工作类型代码已存在")
	ErrReferenced          = errors.New("存在引用该记录的工作记录，无法删除")
	ErrInvalidReference    = errors.New("引用的工人或工作类型不存在")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

var uniqueConstraintErrors = map[string]error{
	"uniq_worker_worktype_day": ErrDuplicateEntry,
	"workers_telegram_id_key":  ErrDuplicateTelegramID,
	"work_types_code_key":      ErrDuplicateCode,
}

// translateWriteError 把插入/更新时违反约束的 pg 错误转换为包内定义的错误，其余错误原样返回
func translateWriteError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		if target, ok := uniqueConstraintErrors[pgErr.ConstraintName]; ok {
			return fmt.Errorf("%w: %w", target, err)
		}
	case pgForeignKeyViolation:
		return fmt.Errorf("%w: %w", ErrInvalidReference, err)
	}

	return err
}

// translateDeleteError 在删除被引用的记录时返回 ErrReferenced
func translateDeleteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return fmt.Errorf("%w: %w", ErrReferenced, err)
	}

	return err
}

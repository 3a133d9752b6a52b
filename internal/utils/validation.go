package utils

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sysu-ecnc-dev/worklog/backend/internal/domain"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// ValidateSlug 注册为 validator 的 slug 规则，用于工作类型代码
func ValidateSlug(fl validator.FieldLevel) bool {
	return slugPattern.MatchString(fl.Field().String())
}

func ValidateWorkType(t *domain.WorkType) error {
	if strings.TrimSpace(t.Name) == "" {
		return errors.New("工作类型名称不能为空")
	}
	if t.DefaultRate < 0 {
		return errors.New("默认单价不能为负数")
	}
	return nil
}

func ValidateWorkEntry(e *domain.WorkEntry) error {
	if e.Quantity < 0 {
		return errors.New("数量不能为负数")
	}
	if e.WorkDate.IsZero() {
		return errors.New("工作日期不能为空")
	}
	return nil
}

package repository

import (
	"fmt"
	"strings"
)

// whereBuilder 拼接带位置参数（$1, $2, ...）的 WHERE 子句
type whereBuilder struct {
	conditions []string
	args       []any
}

// add 中的 condition 用 ? 表示参数的位置
func (b *whereBuilder) add(condition string, args ...any) {
	for _, arg := range args {
		b.args = append(b.args, arg)
		condition = strings.Replace(condition, "?", fmt.Sprintf("$%d", len(b.args)), 1)
	}
	b.conditions = append(b.conditions, condition)
}

func (b *whereBuilder) String() string {
	if len(b.conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(b.conditions, " AND ")
}

func likePattern(search string) string {
	replacer := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
	return "%" + replacer.Replace(strings.TrimSpace(search)) + "%"
}

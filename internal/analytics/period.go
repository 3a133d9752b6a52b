package analytics

import (
	"github.com/sysu-ecnc-dev/worklog/backend/internal/domain"
)

// DefaultWindowDays 是没有指定时间范围时默认统计的天数（包含今天）
const DefaultWindowDays = 7

// MaxWindowDays 限制一次统计的最大天数，超出时保留结束日期、把开始日期往后收
const MaxWindowDays = 366

type Period struct {
	Start domain.Date
	End   domain.Date
}

// ResolvePeriod 解析查询参数中的 start/end。
// 缺省的一端各自取默认值；只要有一端格式错误，就整体回退到默认的最近 7 天，不返回错误。
func ResolvePeriod(startParam, endParam string, today domain.Date) Period {
	fallback := Period{
		Start: today.AddDays(-(DefaultWindowDays - 1)),
		End:   today,
	}

	p := fallback
	if startParam != "" {
		start, err := domain.ParseDate(startParam)
		if err != nil {
			return fallback
		}
		p.Start = start
	}
	if endParam != "" {
		end, err := domain.ParseDate(endParam)
		if err != nil {
			return fallback
		}
		p.End = end
	}

	if earliest := p.End.AddDays(-(MaxWindowDays - 1)); p.Start.Before(earliest.Time) {
		p.Start = earliest
	}

	return p
}

// Days 返回 [Start, End] 内的每一天，Start 晚于 End 时返回空切片
func (p Period) Days() []domain.Date {
	days := make([]domain.Date, 0)
	for d := p.Start; !d.After(p.End.Time); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

package analytics

import (
	"cmp"
	"slices"

	"github.com/sysu-ecnc-dev/worklog/backend/internal/domain"
)

// DailySeries 把按天聚合的结果补齐成连续的序列，没有记录的日期补 0
func DailySeries(p Period, totals []domain.DayTotal) ([]string, []float64) {
	totalsMap := make(map[domain.Date]float64, len(totals))
	for _, t := range totals {
		totalsMap[t.Day] += t.Total
	}

	days := p.Days()
	labels := make([]string, 0, len(days))
	values := make([]float64, 0, len(days))
	for _, d := range days {
		labels = append(labels, d.String())
		values = append(values, totalsMap[d])
	}

	return labels, values
}

// RankedSeries 按数量降序排列（数量相同时按 ID 升序），limit 大于 0 时截断
func RankedSeries(rows []domain.LabeledValue, limit int) ([]string, []float64) {
	ranked := slices.Clone(rows)
	slices.SortStableFunc(ranked, func(a, b domain.LabeledValue) int {
		if c := cmp.Compare(b.Total, a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	labels := make([]string, 0, len(ranked))
	values := make([]float64, 0, len(ranked))
	for _, row := range ranked {
		labels = append(labels, row.Label)
		values = append(values, row.Total)
	}

	return labels, values
}

package analytics

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/worklog/backend/internal/domain"
)

type memEntry struct {
	workerID   int64
	workerName string
	typeID     int64
	typeName   string
	unit       string
	day        domain.Date
	qty        float64
}

// memStore 在内存中模拟数据库的聚合查询
type memStore struct {
	entries []memEntry
	err     error
}

func (m *memStore) inRange(start, end domain.Date) []memEntry {
	var out []memEntry
	for _, e := range m.entries {
		if !e.day.Before(start.Time) && !e.day.After(end.Time) {
			out = append(out, e)
		}
	}
	return out
}

func (m *memStore) TotalQuantity(_ context.Context, start, end domain.Date) (float64, error) {
	if m.err != nil {
		return 0, m.err
	}
	var total float64
	for _, e := range m.inRange(start, end) {
		total += e.qty
	}
	return total, nil
}

func (m *memStore) DailyTotals(_ context.Context, start, end domain.Date) ([]domain.DayTotal, error) {
	if m.err != nil {
		return nil, m.err
	}
	sums := map[domain.Date]float64{}
	for _, e := range m.inRange(start, end) {
		sums[e.day] += e.qty
	}
	out := make([]domain.DayTotal, 0, len(sums))
	for day, total := range sums {
		out = append(out, domain.DayTotal{Day: day, Total: total})
	}
	slices.SortFunc(out, func(a, b domain.DayTotal) int { return a.Day.Compare(b.Day.Time) })
	return out, nil
}

func (m *memStore) group(start, end domain.Date, key func(memEntry) (int64, string)) []domain.LabeledValue {
	idx := map[int64]int{}
	var out []domain.LabeledValue
	for _, e := range m.inRange(start, end) {
		id, label := key(e)
		i, ok := idx[id]
		if !ok {
			i = len(out)
			idx[id] = i
			out = append(out, domain.LabeledValue{ID: id, Label: label})
		}
		out[i].Total += e.qty
	}
	slices.SortFunc(out, func(a, b domain.LabeledValue) int {
		if c := cmp.Compare(b.Total, a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

func (m *memStore) TopWorkers(_ context.Context, start, end domain.Date, limit int) ([]domain.LabeledValue, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := m.group(start, end, func(e memEntry) (int64, string) { return e.workerID, e.workerName })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) TypeTotals(_ context.Context, start, end domain.Date) ([]domain.LabeledValue, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.group(start, end, func(e memEntry) (int64, string) {
		return e.typeID, domain.TypeLabel(e.typeName, e.unit)
	}), nil
}

func (m *memStore) DaySnapshot(_ context.Context, day domain.Date) (domain.DaySnapshot, error) {
	if m.err != nil {
		return domain.DaySnapshot{}, m.err
	}
	var snap domain.DaySnapshot
	workers := map[int64]struct{}{}
	types := map[int64]struct{}{}
	for _, e := range m.inRange(day, day) {
		snap.Total += e.qty
		workers[e.workerID] = struct{}{}
		types[e.typeID] = struct{}{}
	}
	snap.Workers = int64(len(workers))
	snap.WorkTypes = int64(len(types))
	return snap, nil
}

func newTestService(store Store, now time.Time) *Service {
	s := NewService(store, time.UTC)
	s.now = func() time.Time { return now }
	return s
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

func TestBuildReportFillsGapDay(t *testing.T) {
	store := &memStore{entries: []memEntry{
		{workerID: 1, workerName: "张三", typeID: 1, typeName: "搬运", unit: "шт", day: domain.NewDate(2024, 1, 1), qty: 5},
		{workerID: 2, workerName: "李四", typeID: 1, typeName: "搬运", unit: "шт", day: domain.NewDate(2024, 1, 3), qty: 7},
	}}
	s := newTestService(store, time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC))

	report, err := s.BuildReport(context.Background(), s.Resolve("2024-01-01", "2024-01-03"))
	require.NoError(t, err)

	assert.Equal(t, "2024-01-01", report.Start)
	assert.Equal(t, "2024-01-03", report.End)
	assert.InDelta(t, 12.0, report.TotalQuantity, 1e-9)
	assert.Equal(t, []string{"2024-01-01", "2024-01-02", "2024-01-03"}, report.DaysLabels)
	assert.Equal(t, []float64{5, 0, 7}, report.DaysValues)
	assert.Equal(t, []string{"李四", "张三"}, report.WorkersLabels)
	assert.Equal(t, []float64{7, 5}, report.WorkersValues)
	assert.Equal(t, []string{"搬运 (шт)"}, report.TypesLabels)
	assert.Equal(t, []float64{12}, report.TypesValues)

	assert.InDelta(t, 7.0, report.TodayTotal, 1e-9)
	assert.Equal(t, int64(1), report.TodayWorkers)
	assert.Equal(t, int64(1), report.TodayTypes)
}

func TestBuildReportMalformedStartUsesDefaultWindow(t *testing.T) {
	s := newTestService(&memStore{}, time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC))

	report, err := s.BuildReport(context.Background(), s.Resolve("not-a-date", "2024-03-20"))
	require.NoError(t, err)

	assert.Equal(t, "2024-03-04", report.Start)
	assert.Equal(t, "2024-03-10", report.End)
	assert.Len(t, report.DaysLabels, 7)
	assert.Equal(t, make([]float64, 7), report.DaysValues)
}

func TestBuildReportEmptyStore(t *testing.T) {
	s := newTestService(&memStore{}, time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC))

	report, err := s.BuildReport(context.Background(), s.Resolve("", ""))
	require.NoError(t, err)

	assert.Zero(t, report.TotalQuantity)
	assert.Zero(t, report.TodayTotal)
	assert.Zero(t, report.TodayWorkers)
	assert.NotNil(t, report.WorkersLabels)
	assert.NotNil(t, report.TypesValues)
	assert.Empty(t, report.WorkersLabels)
	assert.Empty(t, report.TypesValues)
}

func TestBuildReportStartAfterEnd(t *testing.T) {
	store := &memStore{entries: []memEntry{
		{workerID: 1, workerName: "张三", typeID: 1, typeName: "搬运", unit: "шт", day: domain.NewDate(2024, 1, 2), qty: 3},
	}}
	s := newTestService(store, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))

	report, err := s.BuildReport(context.Background(), s.Resolve("2024-01-05", "2024-01-01"))
	require.NoError(t, err)

	assert.Empty(t, report.DaysLabels)
	assert.Zero(t, report.TotalQuantity)
	assert.Empty(t, report.WorkersLabels)
}

func TestBuildReportSeriesAddUpToTotal(t *testing.T) {
	var entries []memEntry
	for w := int64(1); w <= 15; w++ {
		for d := 1; d <= 5; d++ {
			entries = append(entries, memEntry{
				workerID:   w,
				workerName: "worker",
				typeID:     int64(d%3) + 1,
				typeName:   "type",
				unit:       "kg",
				day:        domain.NewDate(2024, 5, d),
				qty:        float64(w) * 1.25,
			})
		}
	}
	s := newTestService(&memStore{entries: entries}, time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC))

	report, err := s.BuildReport(context.Background(), s.Resolve("2024-04-30", "2024-05-06"))
	require.NoError(t, err)

	assert.Len(t, report.DaysLabels, 7)
	assert.Len(t, report.DaysValues, len(report.DaysLabels))
	assert.InDelta(t, report.TotalQuantity, sum(report.DaysValues), 1e-6)
	assert.InDelta(t, report.TotalQuantity, sum(report.TypesValues), 1e-6)

	assert.Len(t, report.WorkersValues, TopWorkersLimit)
	assert.True(t, slices.IsSortedFunc(report.WorkersValues, func(a, b float64) int { return cmp.Compare(b, a) }))
	assert.InDelta(t, 15*1.25*5, report.WorkersValues[0], 1e-9)

	assert.Equal(t, int64(15), report.TodayWorkers)
	assert.Equal(t, int64(1), report.TodayTypes)
}

func TestBuildReportStoreError(t *testing.T) {
	boom := errors.New("boom")
	s := newTestService(&memStore{err: boom}, time.Now())

	_, err := s.BuildReport(context.Background(), s.Resolve("", ""))
	assert.ErrorIs(t, err, boom)
}

func TestTodayUsesConfiguredLocation(t *testing.T) {
	msk := time.FixedZone("MSK", 3*60*60)
	s := NewService(&memStore{}, msk)
	s.now = func() time.Time { return time.Date(2024, 1, 3, 22, 30, 0, 0, time.UTC) }

	assert.Equal(t, "2024-01-04", s.Today().String())
	assert.Equal(t, "2023-12-29", s.Resolve("", "").Start.String())
}

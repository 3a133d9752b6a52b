package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/worklog/backend/internal/domain"
	"github.com/sysu-ecnc-dev/worklog/backend/internal/observability"
)

// TopWorkersLimit 是排行榜中最多展示的工人数
const TopWorkersLimit = 10

// Store 是分析报表依赖的只读查询，日期范围均为闭区间
type Store interface {
	TotalQuantity(ctx context.Context, start, end domain.Date) (float64, error)
	DailyTotals(ctx context.Context, start, end domain.Date) ([]domain.DayTotal, error)
	TopWorkers(ctx context.Context, start, end domain.Date, limit int) ([]domain.LabeledValue, error)
	TypeTotals(ctx context.Context, start, end domain.Date) ([]domain.LabeledValue, error)
	DaySnapshot(ctx context.Context, day domain.Date) (domain.DaySnapshot, error)
}

type Service struct {
	store    Store
	location *time.Location
	now      func() time.Time
}

func NewService(store Store, location *time.Location) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		store:    store,
		location: location,
		now:      time.Now,
	}
}

func (s *Service) Today() domain.Date {
	return domain.DateOf(s.now().In(s.location))
}

// Resolve 把原始查询参数解析为统计区间
func (s *Service) Resolve(startParam, endParam string) Period {
	return ResolvePeriod(startParam, endParam, s.Today())
}

func (s *Service) BuildReport(ctx context.Context, p Period) (*domain.AnalyticsReport, error) {
	start := time.Now()
	defer func() {
		observability.ObserveReportBuild(time.Since(start))
	}()

	total, err := s.store.TotalQuantity(ctx, p.Start, p.End)
	if err != nil {
		return nil, fmt.Errorf("total quantity: %w", err)
	}

	byDay, err := s.store.DailyTotals(ctx, p.Start, p.End)
	if err != nil {
		return nil, fmt.Errorf("daily totals: %w", err)
	}

	topWorkers, err := s.store.TopWorkers(ctx, p.Start, p.End, TopWorkersLimit)
	if err != nil {
		return nil, fmt.Errorf("top workers: %w", err)
	}

	byType, err := s.store.TypeTotals(ctx, p.Start, p.End)
	if err != nil {
		return nil, fmt.Errorf("type totals: %w", err)
	}

	// 「今天」的概况与请求的区间无关
	snapshot, err := s.store.DaySnapshot(ctx, s.Today())
	if err != nil {
		return nil, fmt.Errorf("today snapshot: %w", err)
	}

	report := &domain.AnalyticsReport{
		Start:         p.Start.String(),
		End:           p.End.String(),
		TotalQuantity: total,
		TodayTotal:    snapshot.Total,
		TodayWorkers:  snapshot.Workers,
		TodayTypes:    snapshot.WorkTypes,
	}
	report.DaysLabels, report.DaysValues = DailySeries(p, byDay)
	report.WorkersLabels, report.WorkersValues = RankedSeries(topWorkers, TopWorkersLimit)
	report.TypesLabels, report.TypesValues = RankedSeries(byType, 0)

	return report, nil
}

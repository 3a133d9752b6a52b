package seed

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/sysu-ecnc-dev/worklog/backend/internal/domain"
	"github.com/sysu-ecnc-dev/worklog/backend/internal/repository"
	"github.com/sysu-ecnc-dev/worklog/backend/internal/utils"
)

var ErrNoWorkTypes = errors.New("没有启用的工作类型，请先导入工作类型")

// DefaultWorkTypes 是 -work-types 选项插入的默认工作类型
var DefaultWorkTypes = []domain.WorkType{
	{Code: "bricks", Name: "Кладка кирпича", Unit: "шт", IsActive: true},
	{Code: "paint", Name: "Покраска", Unit: "м2", IsActive: true},
	{Code: "wiring", Name: "Прокладка проводки", Unit: "м.п.", IsActive: true},
	{Code: "plaster", Name: "Штукатурка", Unit: "м2", IsActive: true},
	{Code: "cleanup", Name: "Уборка", Unit: "ч", IsActive: true},
}

type Store interface {
	ListActiveWorkTypes() ([]*domain.WorkType, error)
	CreateWorkType(t *domain.WorkType) error
	GetOrCreateWorker(defaults *domain.Worker) (*domain.Worker, bool, error)
	CreateWorkEntry(e *domain.WorkEntry) error
}

type Options struct {
	Workers       int
	Days          int
	EntriesPerDay int
	Today         domain.Date
}

type Result struct {
	Workers int
	Entries int
	Skipped int // 因为 (工人, 工作类型, 日期) 重复而跳过的记录数
}

// SeedWorkTypes 插入默认工作类型，代码已存在的跳过
func SeedWorkTypes(s Store) (int, error) {
	cnt := 0
	for _, t := range DefaultWorkTypes {
		wt := t
		if err := s.CreateWorkType(&wt); err != nil {
			if errors.Is(err, repository.ErrDuplicateCode) {
				continue
			}
			return cnt, err
		}
		cnt++
	}

	return cnt, nil
}

// SeedDemoData 生成演示数据：随机工人，以及最近 Days 天里每个工人每天至多 EntriesPerDay 条不同类型的记录
func SeedDemoData(s Store, opts Options) (Result, error) {
	res := Result{}

	types, err := s.ListActiveWorkTypes()
	if err != nil {
		return res, fmt.Errorf("list work types: %w", err)
	}
	if len(types) == 0 {
		return res, ErrNoWorkTypes
	}

	// 工人
	workers := make([]*domain.Worker, 0, opts.Workers)
	for i := 0; i < opts.Workers; i++ {
		w, _, err := s.GetOrCreateWorker(utils.GenerateRandomWorker())
		if err != nil {
			slog.Error("无法插入工人", "error", err)
			continue
		}
		workers = append(workers, w)
	}
	res.Workers = len(workers)

	// 记录
	start := opts.Today.AddDays(-(opts.Days - 1))
	for n := 0; n < opts.Days; n++ {
		d := start.AddDays(n)
		for _, w := range workers {
			for _, t := range utils.SampleWorkTypes(types, opts.EntriesPerDay) {
				qty := utils.GenerateRandomQuantity(1, 200)
				comment := fmt.Sprintf("auto gen %s %s", qty, t.Unit)
				entry := &domain.WorkEntry{
					WorkerID:   w.ID,
					WorkTypeID: t.ID,
					WorkDate:   d,
					Quantity:   qty,
					Comment:    &comment,
				}

				if err := s.CreateWorkEntry(entry); err != nil {
					if errors.Is(err, repository.ErrDuplicateEntry) {
						// 重复执行时会撞上唯一约束，跳过即可
						res.Skipped++
						continue
					}
					slog.Error("无法插入工作记录", "error", err)
					continue
				}
				res.Entries++
			}
		}
	}

	return res, nil
}

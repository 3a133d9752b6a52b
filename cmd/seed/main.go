package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"

	"github.com/sysu-ecnc-dev/worklog/backend/internal/config"
	"github.com/sysu-ecnc-dev/worklog/backend/internal/domain"
	"github.com/sysu-ecnc-dev/worklog/backend/internal/repository"
	"github.com/sysu-ecnc-dev/worklog/backend/internal/seed"
)

func main() {
	var workers int
	var days int
	var entriesPerDay int
	var withWorkTypes bool

	flag.IntVar(&workers, "workers", 10, "要生成的工人数量")
	flag.IntVar(&days, "days", 7, "生成最近多少天的工作记录")
	flag.IntVar(&entriesPerDay, "entries-per-day", 2, "每个工人每天最多的记录数（每条记录的工作类型不同）")
	flag.BoolVar(&withWorkTypes, "work-types", false, "先插入默认的工作类型")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if workers < 0 || days <= 0 || entriesPerDay <= 0 {
		logger.Error("参数不合法", "workers", workers, "days", days, "entries_per_day", entriesPerDay)
		os.Exit(1)
	}

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	location, err := cfg.Location()
	if err != nil {
		logger.Error("无法加载时区", "time_zone", cfg.App.TimeZone, "error", err)
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := repository.OpenDB(cfg)
	if err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}
	defer dbpool.Close()

	repo := repository.NewRepository(cfg, dbpool)

	if withWorkTypes {
		n, err := seed.SeedWorkTypes(repo)
		if err != nil {
			logger.Error("无法插入工作类型", "error", err)
			return
		}
		logger.Info("插入工作类型成功", slog.Int("count", n))
	}

	res, err := seed.SeedDemoData(repo, seed.Options{
		Workers:       workers,
		Days:          days,
		EntriesPerDay: entriesPerDay,
		Today:         domain.Today(location),
	})
	if err != nil {
		if errors.Is(err, seed.ErrNoWorkTypes) {
			logger.Warn("没有工作类型，请先导入工作类型（或加上 -work-types）后重试")
			return
		}
		logger.Error("无法生成演示数据", "error", err)
		return
	}

	logger.Info("插入演示数据完成", slog.Int("workers", res.Workers), slog.Int("entries", res.Entries), slog.Int("skipped", res.Skipped))
}

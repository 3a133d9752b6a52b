package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/worklog/backend/internal/config"
	"github.com/sysu-ecnc-dev/worklog/backend/internal/ingest"
	"github.com/sysu-ecnc-dev/worklog/backend/internal/repository"
)

func main() {
	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * 读取配置文件
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		return
	}

	location, err := cfg.Location()
	if err != nil {
		logger.Error("无法加载时区", "time_zone", cfg.App.TimeZone, "error", err)
		return
	}

	/**********************************************
	 * 连接数据库
	 **********************************************/
	dbpool, err := repository.OpenDB(cfg)
	if err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}
	defer dbpool.Close()

	processor := ingest.NewProcessor(repository.NewRepository(cfg, dbpool), location)

	/**********************************************
	 * 连接 RabbitMQ
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("无法连接到 RabbitMQ", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	// 创建通道
	ch, err := conn.Channel()
	if err != nil {
		logger.Error("无法创建通道", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	// 声明队列
	q, err := ch.QueueDeclare(
		cfg.RabbitMQ.WorkEntryQueue, // 队列名称
		true,                        // 是否持久化
		false,                       // 是否自动删除
		false,                       // 是否独占
		false,                       // 是否不等待
		nil,                         // 额外参数
	)
	if err != nil {
		logger.Error("无法声明队列", slog.String("error", err.Error()))
		return
	}

	// 一次只取一条，避免处理失败时大量消息重新入队
	if err := ch.Qos(1, 0, false); err != nil {
		logger.Error("无法设置 QoS", slog.String("error", err.Error()))
		return
	}

	// 监听 CTRL+C
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	msgs, err := ch.Consume(
		q.Name, // 队列
		"",     // 消费者标识，由 RabbitMQ 自动分配
		false,  // 手动确认
		false,  // 是否独占队列
		false,  // RabbitMQ 不支持 noLocal，必须为 false
		false,  // 是否不等待
		nil,    // 额外参数
	)
	if err != nil {
		logger.Error("无法消费消息", slog.String("error", err.Error()))
		os.Exit(1)
	}

	c := &consumer{
		processor:  processor,
		retryDelay: time.Duration(cfg.RabbitMQ.RetryDelay) * time.Second,
		logger:     logger,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- c.run(ctx, msgs)
	}()

	logger.Info("等待工作上报...（按 CTRL+C 退出）", "queue", q.Name)

	select {
	case <-sigChan:
	case err := <-done:
		// 与 RabbitMQ 的连接断开后不再有消息，直接退出交给外部重启
		cancel()
		logger.Error("ingest worker 异常退出", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 优雅退出
	logger.Info("正在关闭 ingest worker...")
	cancel()
	<-done
	logger.Info("ingest worker 已成功关闭")
}

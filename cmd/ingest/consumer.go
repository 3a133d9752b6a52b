package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/worklog/backend/internal/ingest"
)

var errDeliveriesClosed = errors.New("消息通道已关闭")

type reportProcessor interface {
	Process(body []byte) (ingest.Outcome, error)
}

type consumer struct {
	processor  reportProcessor
	retryDelay time.Duration
	logger     *slog.Logger
}

// run 一直消费到 ctx 被取消（返回 nil）或消息通道被关闭（返回 errDeliveriesClosed）
func (c *consumer) run(ctx context.Context, msgs <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return errDeliveriesClosed
			}
			c.handle(ctx, msg)
		}
	}
}

func (c *consumer) handle(ctx context.Context, msg amqp.Delivery) {
	outcome, err := c.processor.Process(msg.Body)
	switch outcome {
	case ingest.OutcomeCreated, ingest.OutcomeDuplicate:
		_ = msg.Ack(false)
	case ingest.OutcomeRejected:
		c.logger.Error("丢弃无效的工作上报", slog.Any("error", err), slog.String("message", string(msg.Body)))
		_ = msg.Nack(false, false)
	default:
		c.logger.Error("处理工作上报失败，稍后重新入队", slog.Any("error", err), slog.Duration("delay", c.retryDelay))

		// Qos 为 1，立即重新入队会让同一条消息被反复投递
		timer := time.NewTimer(c.retryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
		case <-timer.C:
		}
		_ = msg.Nack(false, true)
	}
}

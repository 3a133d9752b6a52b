package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/worklog/backend/internal/analytics"
	"github.com/sysu-ecnc-dev/worklog/backend/internal/domain"
	"github.com/sysu-ecnc-dev/worklog/backend/internal/observability"
)

// GetAnalytics 返回 ?start=YYYY-MM-DD&end=YYYY-MM-DD 区间内的统计，参数缺失或格式错误时统计最近 7 天
func (h *Handler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	p := h.analytics.Resolve(r.URL.Query().Get("start"), r.URL.Query().Get("end"))

	report, err := h.cachedReport(r.Context(), p)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取统计数据成功", report)
}

func (h *Handler) EmailAnalytics(w http.ResponseWriter, r *http.Request) {
	var req struct {
		To    string `json:"to" validate:"required,email"`
		Start string `json:"start"`
		End   string `json:"end"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	p := h.analytics.Resolve(req.Start, req.End)
	report, err := h.cachedReport(r.Context(), p)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 准备邮件
	mailMessage := domain.MailMessage{
		Type: domain.MailTypeAnalyticsReport,
		To:   req.To,
		Data: domain.AnalyticsReportMailData{
			Title:  fmt.Sprintf("工作统计 %s ~ %s", report.Start, report.End),
			Report: *report,
		},
	}

	// 对邮件进行序列化
	mailData, err := json.Marshal(mailMessage)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 将邮件发送到消息队列
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.mailChannel.PublishWithContext(
		ctx,
		"",
		h.config.RabbitMQ.MailQueue,
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        mailData,
		},
	); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "统计邮件已加入发送队列", nil)
}

// cachedReport 优先从 redis 读取报表。缓存的 key 中带上「今天」，跨天后自动失效；
// redis 出错只记录日志，不影响报表本身。
func (h *Handler) cachedReport(ctx context.Context, p analytics.Period) (*domain.AnalyticsReport, error) {
	ttl := time.Duration(h.config.Analytics.CacheTTL) * time.Second
	if h.redisClient == nil || ttl <= 0 {
		return h.analytics.BuildReport(ctx, p)
	}

	key := fmt.Sprintf("analytics_%s_%s_%s", p.Start, p.End, h.analytics.Today())

	redisCtx, cancel := context.WithTimeout(ctx, time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	cached, err := h.redisClient.Get(redisCtx, key).Bytes()
	switch {
	case err == nil:
		report := &domain.AnalyticsReport{}
		if err := json.Unmarshal(cached, report); err == nil {
			observability.RecordReportCacheHit()
			return report, nil
		}
		slog.Warn("统计缓存已损坏", "key", key)
	case !errors.Is(err, redis.Nil):
		slog.Warn("无法读取统计缓存", "key", key, "error", err)
	}

	report, err := h.analytics.BuildReport(ctx, p)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(report)
	if err != nil {
		return nil, err
	}
	if err := h.redisClient.Set(redisCtx, key, data, ttl).Err(); err != nil {
		slog.Warn("无法写入统计缓存", "key", key, "error", err)
	}

	return report, nil
}

package ingest

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sysu-ecnc-dev/worklog/backend/internal/domain"
	"github.com/sysu-ecnc-dev/worklog/backend/internal/observability"
	"github.com/sysu-ecnc-dev/worklog/backend/internal/repository"
)

// Outcome 决定消息最终是确认、丢弃还是重新入队
type Outcome string

const (
	OutcomeCreated   Outcome = "created"
	OutcomeDuplicate Outcome = "duplicate" // 同一天重复上报，属于正常情况
	OutcomeRejected  Outcome = "rejected"  // 消息本身有问题，重试也没有意义
	OutcomeFailed    Outcome = "failed"    // 暂时性错误，需要重新入队
)

var (
	ErrUnknownWorkType  = errors.New("工作类型不存在")
	ErrInactiveWorkType = errors.New("工作类型已停用")
)

type Store interface {
	TouchWorker(telegramID int64, fullName string, username *string) (*domain.Worker, bool, error)
	GetWorkTypeByCode(code string) (*domain.WorkType, error)
	CreateWorkEntry(e *domain.WorkEntry) error
}

type Processor struct {
	store    Store
	validate *validator.Validate
	location *time.Location
	now      func() time.Time
}

func NewProcessor(store Store, location *time.Location) *Processor {
	if location == nil {
		location = time.UTC
	}
	return &Processor{
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		location: location,
		now:      time.Now,
	}
}

// Process 处理一条上报消息，返回的 error 只用于记录日志
func (p *Processor) Process(body []byte) (Outcome, error) {
	outcome, entry, err := p.process(body)
	observability.RecordIngest(string(outcome))

	switch outcome {
	case OutcomeCreated:
		slog.Info("已记录工作", "entry_id", entry.ID, "worker_id", entry.WorkerID, "work_type_id", entry.WorkTypeID, "work_date", entry.WorkDate.String())
	case OutcomeDuplicate:
		slog.Info("重复的工作上报，已忽略", "worker_id", entry.WorkerID, "work_type_id", entry.WorkTypeID, "work_date", entry.WorkDate.String())
	}

	return outcome, err
}

func (p *Processor) process(body []byte) (Outcome, *domain.WorkEntry, error) {
	msg := domain.WorkReportMessage{}
	if err := json.Unmarshal(body, &msg); err != nil {
		return OutcomeRejected, nil, fmt.Errorf("decode work report: %w", err)
	}
	if err := p.validate.Struct(msg); err != nil {
		return OutcomeRejected, nil, fmt.Errorf("validate work report: %w", err)
	}

	workType, err := p.store.GetWorkTypeByCode(msg.WorkTypeCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return OutcomeRejected, nil, fmt.Errorf("%w: %s", ErrUnknownWorkType, msg.WorkTypeCode)
		}
		return OutcomeFailed, nil, err
	}
	if !workType.IsActive {
		return OutcomeRejected, nil, fmt.Errorf("%w: %s", ErrInactiveWorkType, msg.WorkTypeCode)
	}

	var username *string
	if u := strings.TrimPrefix(strings.TrimSpace(msg.Username), "@"); u != "" {
		username = &u
	}

	worker, created, err := p.store.TouchWorker(msg.TelegramID, msg.FullName, username)
	if err != nil {
		return OutcomeFailed, nil, fmt.Errorf("touch worker: %w", err)
	}
	if created {
		slog.Info("新工人首次上报", "worker_id", worker.ID, "worker", worker.String())
	}

	entry := &domain.WorkEntry{
		WorkerID:   worker.ID,
		WorkTypeID: workType.ID,
		WorkDate:   domain.DateOf(p.now().In(p.location)),
		Quantity:   *msg.Quantity,
	}
	if msg.WorkDate != nil {
		entry.WorkDate = *msg.WorkDate
	}
	if msg.Comment != "" {
		entry.Comment = &msg.Comment
	}
	if msg.ChatID != 0 {
		entry.SourceChatID = &msg.ChatID
	}
	if msg.MessageID != 0 {
		entry.SourceMessageID = &msg.MessageID
	}

	if err := p.store.CreateWorkEntry(entry); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEntry):
			return OutcomeDuplicate, entry, nil
		case errors.Is(err, repository.ErrInvalidReference):
			return OutcomeRejected, entry, err
		default:
			return OutcomeFailed, entry, fmt.Errorf("create work entry: %w", err)
		}
	}

	return OutcomeCreated, entry, nil
}

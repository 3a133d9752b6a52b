package handler

import (
	"errors"
	"net/http"

	"github.com/sysu-ecnc-dev/worklog/backend/internal/domain"
	"github.com/sysu-ecnc-dev/worklog/backend/internal/utils"
)

func (h *Handler) GetAllWorkEntries(w http.ResponseWriter, r *http.Request) {
	filter := domain.WorkEntryFilter{
		Search: r.URL.Query().Get("q"),
	}

	var err error
	if filter.Start, err = queryDate(r, "start"); err != nil {
		h.errorResponse(w, r, "开始日期格式错误")
		return
	}
	if filter.End, err = queryDate(r, "end"); err != nil {
		h.errorResponse(w, r, "结束日期格式错误")
		return
	}
	if filter.WorkDate, err = queryDate(r, "date"); err != nil {
		h.errorResponse(w, r, "日期格式错误")
		return
	}
	if filter.WorkerID, err = queryInt64(r, "workerId"); err != nil {
		h.errorResponse(w, r, "工人ID无效")
		return
	}
	if filter.WorkTypeID, err = queryInt64(r, "workTypeId"); err != nil {
		h.errorResponse(w, r, "工作类型ID无效")
		return
	}

	entries, err := h.repository.ListWorkEntries(filter)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取工作记录列表成功", entries)
}

func (h *Handler) CreateWorkEntry(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WorkerID        int64            `json:"workerId" validate:"required"`
		WorkTypeID      int64            `json:"workTypeId" validate:"required"`
		WorkDate        *domain.Date     `json:"workDate"`
		Quantity        *domain.Quantity `json:"quantity" validate:"required,gte=0"`
		Comment         *string          `json:"comment"`
		SourceChatID    *int64           `json:"sourceChatId"`
		SourceMessageID *int64           `json:"sourceMessageId"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	entry := &domain.WorkEntry{
		WorkerID:        req.WorkerID,
		WorkTypeID:      req.WorkTypeID,
		WorkDate:        h.analytics.Today(),
		Quantity:        *req.Quantity,
		Comment:         req.Comment,
		SourceChatID:    req.SourceChatID,
		SourceMessageID: req.SourceMessageID,
	}
	if req.WorkDate != nil {
		entry.WorkDate = *req.WorkDate
	}

	if err := utils.ValidateWorkEntry(entry); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreateWorkEntry(entry); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建工作记录成功", entry)
}

func (h *Handler) GetWorkEntry(w http.ResponseWriter, r *http.Request) {
	entry := r.Context().Value(WorkEntryCtx).(*domain.WorkEntry)

	h.successResponse(w, r, "获取工作记录成功", entry)
}

func (h *Handler) UpdateWorkEntry(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WorkerID   *int64           `json:"workerId" validate:"omitempty,gt=0"`
		WorkTypeID *int64           `json:"workTypeId" validate:"omitempty,gt=0"`
		WorkDate   *domain.Date     `json:"workDate"`
		Quantity   *domain.Quantity `json:"quantity" validate:"omitempty,gte=0"`
		Comment    *string          `json:"comment"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	entry := r.Context().Value(WorkEntryCtx).(*domain.WorkEntry)

	if req.WorkerID != nil {
		entry.WorkerID = *req.WorkerID
	}
	if req.WorkTypeID != nil {
		entry.WorkTypeID = *req.WorkTypeID
	}
	if req.WorkDate != nil {
		entry.WorkDate = *req.WorkDate
	}
	if req.Quantity != nil {
		entry.Quantity = *req.Quantity
	}
	if req.Comment != nil {
		entry.Comment = req.Comment
	}

	if err := utils.ValidateWorkEntry(entry); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpdateWorkEntry(entry); err != nil {
		h.writeError(w, r, err)
		return
	}

	// 关联的工人或类型可能已经变化，重新读取一次以刷新展示字段
	updated, err := h.repository.GetWorkEntryByID(entry.ID)
	if err != nil {
		h.internalServerError(w, r, errors.Join(errors.New("reload work entry"), err))
		return
	}

	h.successResponse(w, r, "更新工作记录成功", updated)
}

func (h *Handler) DeleteWorkEntry(w http.ResponseWriter, r *http.Request) {
	entry := r.Context().Value(WorkEntryCtx).(*domain.WorkEntry)

	if err := h.repository.DeleteWorkEntry(entry.ID); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除工作记录成功", nil)
}

package handler

import (
	"net/http"
	"strings"

	"github.com/sysu-ecnc-dev/worklog/backend/internal/domain"
)

func (h *Handler) GetAllWorkers(w http.ResponseWriter, r *http.Request) {
	workers, err := h.repository.ListWorkers(listFilter(r))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取工人列表成功", workers)
}

func (h *Handler) CreateWorker(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TelegramID int64   `json:"telegramId" validate:"required,gt=0"`
		FullName   string  `json:"fullName" validate:"required,max=255"`
		Username   *string `json:"username" validate:"omitempty,max=64"`
		IsActive   *bool   `json:"isActive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	worker := &domain.Worker{
		TelegramID: req.TelegramID,
		FullName:   strings.TrimSpace(req.FullName),
		Username:   normalizeUsername(req.Username),
		IsActive:   true,
	}
	if req.IsActive != nil {
		worker.IsActive = *req.IsActive
	}

	if err := h.repository.CreateWorker(worker); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建工人成功", worker)
}

func (h *Handler) GetWorker(w http.ResponseWriter, r *http.Request) {
	worker := r.Context().Value(WorkerCtx).(*domain.Worker)

	h.successResponse(w, r, "获取工人信息成功", worker)
}

func (h *Handler) UpdateWorker(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName *string `json:"fullName" validate:"omitempty,min=1,max=255"`
		Username *string `json:"username" validate:"omitempty,max=64"`
		IsActive *bool   `json:"isActive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	worker := r.Context().Value(WorkerCtx).(*domain.Worker)

	if req.FullName != nil {
		worker.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Username != nil {
		worker.Username = normalizeUsername(req.Username)
	}
	if req.IsActive != nil {
		worker.IsActive = *req.IsActive
	}

	if err := h.repository.UpdateWorker(worker); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新工人信息成功", worker)
}

// DeleteWorker 只能删除没有任何工作记录的工人，否则应当改为停用
func (h *Handler) DeleteWorker(w http.ResponseWriter, r *http.Request) {
	worker := r.Context().Value(WorkerCtx).(*domain.Worker)

	if err := h.repository.DeleteWorker(worker.ID); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除工人成功", nil)
}

// normalizeUsername 去掉开头的 @，空字符串视为没有用户名
func normalizeUsername(username *string) *string {
	if username == nil {
		return nil
	}
	u := strings.TrimPrefix(strings.TrimSpace(*username), "@")
	if u == "" {
		return nil
	}
	return &u
}

package handler

import (
	"net/http"
	"strings"

	"github.com/sysu-ecnc-dev/worklog/backend/internal/domain"
	"github.com/sysu-ecnc-dev/worklog/backend/internal/utils"
)

func (h *Handler) GetAllWorkTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.repository.ListWorkTypes(listFilter(r))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取工作类型列表成功", types)
}

func (h *Handler) CreateWorkType(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code        string       `json:"code" validate:"required,max=64,slug"`
		Name        string       `json:"name" validate:"required,max=128"`
		Unit        string       `json:"unit" validate:"max=32"`
		IsActive    *bool        `json:"isActive"`
		DefaultRate *domain.Rate `json:"defaultRate" validate:"omitempty,gte=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	wt := &domain.WorkType{
		Code:     req.Code,
		Name:     strings.TrimSpace(req.Name),
		Unit:     strings.TrimSpace(req.Unit),
		IsActive: true,
	}
	if req.IsActive != nil {
		wt.IsActive = *req.IsActive
	}
	if req.DefaultRate != nil {
		wt.DefaultRate = *req.DefaultRate
	}

	if err := utils.ValidateWorkType(wt); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreateWorkType(wt); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建工作类型成功", wt)
}

func (h *Handler) GetWorkType(w http.ResponseWriter, r *http.Request) {
	wt := r.Context().Value(WorkTypeCtx).(*domain.WorkType)

	h.successResponse(w, r, "获取工作类型成功", wt)
}

func (h *Handler) UpdateWorkType(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code        *string      `json:"code" validate:"omitempty,max=64,slug"`
		Name        *string      `json:"name" validate:"omitempty,max=128"`
		Unit        *string      `json:"unit" validate:"omitempty,max=32"`
		IsActive    *bool        `json:"isActive"`
		DefaultRate *domain.Rate `json:"defaultRate" validate:"omitempty,gte=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	wt := r.Context().Value(WorkTypeCtx).(*domain.WorkType)

	if req.Code != nil {
		wt.Code = *req.Code
	}
	if req.Name != nil {
		wt.Name = strings.TrimSpace(*req.Name)
	}
	if req.Unit != nil && strings.TrimSpace(*req.Unit) != "" {
		wt.Unit = strings.TrimSpace(*req.Unit)
	}
	if req.IsActive != nil {
		wt.IsActive = *req.IsActive
	}
	if req.DefaultRate != nil {
		wt.DefaultRate = *req.DefaultRate
	}

	if err := utils.ValidateWorkType(wt); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpdateWorkType(wt); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新工作类型成功", wt)
}

func (h *Handler) DeleteWorkType(w http.ResponseWriter, r *http.Request) {
	wt := r.Context().Value(WorkTypeCtx).(*domain.WorkType)

	if err := h.repository.DeleteWorkType(wt.ID); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除工作类型成功", nil)
}

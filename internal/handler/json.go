package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sysu-ecnc-dev/worklog/backend/internal/repository"
)

func (h *Handler) logInternalServerError(r *http.Request, err error) {
	slog.Error("服务器内部错误", "method", r.Method, "path", r.URL.Path, "error", err)
}

func (h *Handler) readJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logInternalServerError(r, err)
	}
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func (h *Handler) errorResponse(w http.ResponseWriter, r *http.Request, msg string) {
	h.writeJSON(w, r, http.StatusOK, Response{
		Success: false,
		Message: msg,
		Data:    nil,
	})
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.errorResponse(w, r, validationErrors[0].Translate(h.translator))
}

func (h *Handler) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	h.logInternalServerError(r, err)
	h.writeJSON(w, r, http.StatusInternalServerError, Response{
		Success: false,
		Message: "服务器内部错误",
		Data:    nil,
	})
}

func (h *Handler) successResponse(w http.ResponseWriter, r *http.Request, msg string, data any) {
	h.writeJSON(w, r, http.StatusOK, Response{
		Success: true,
		Message: msg,
		Data:    data,
	})
}

// writeError 把写操作被拒绝的原因返回给客户端，无法识别的错误按服务器内部错误处理
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repository.ErrDuplicateEntry),
		errors.Is(err, repository.ErrDuplicateTelegramID),
		errors.Is(err, repository.ErrDuplicateCode),
		errors.Is(err, repository.ErrReferenced),
		errors.Is(err, repository.ErrInvalidReference):
		h.errorResponse(w, r, rejectionMessage(err))
	case errors.Is(err, sql.ErrNoRows):
		// 乐观锁版本号不匹配
		h.errorResponse(w, r, "记录已被修改，请重试")
	default:
		h.internalServerError(w, r, err)
	}
}

func rejectionMessage(err error) string {
	for _, target := range []error{
		repository.ErrDuplicateEntry,
		repository.ErrDuplicateTelegramID,
		repository.ErrDuplicateCode,
		repository.ErrReferenced,
		repository.ErrInvalidReference,
	} {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return err.Error()
}

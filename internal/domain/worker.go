package domain

import (
	"fmt"
	"time"
)

type Worker struct {
	ID         int64      `json:"id"`
	TelegramID int64      `json:"telegramId"`
	FullName   string     `json:"fullName"`
	Username   *string    `json:"username"`
	IsActive   bool       `json:"isActive"`
	JoinedAt   time.Time  `json:"joinedAt"`
	LastSeen   *time.Time `json:"lastSeen"`
	Version    int32      `json:"-"`
	Timestamps
}

func (w *Worker) String() string {
	base := w.FullName
	if base == "" {
		base = fmt.Sprintf("#%d", w.ID)
	}
	return fmt.Sprintf("%s [%d]", base, w.TelegramID)
}

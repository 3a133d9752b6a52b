package domain

// WorkReportMessage 是机器人投递到 work_entry_queue 的一条工作上报
type WorkReportMessage struct {
	TelegramID   int64     `json:"telegramId" validate:"required"`
	FullName     string    `json:"fullName" validate:"required,max=255"`
	Username     string    `json:"username" validate:"max=64"`
	WorkTypeCode string    `json:"workTypeCode" validate:"required,max=64"`
	WorkDate     *Date     `json:"workDate"`
	Quantity     *Quantity `json:"quantity" validate:"required,gte=0"` // 缺省不能当作 0，否则会占用当天的唯一约束
	Comment      string    `json:"comment"`
	ChatID       int64     `json:"chatId"`
	MessageID    int64     `json:"messageId"`
}

package domain

type WorkEntry struct {
	ID              int64    `json:"id"`
	WorkerID        int64    `json:"workerId"`
	WorkTypeID      int64    `json:"workTypeId"`
	WorkDate        Date     `json:"workDate"`
	Quantity        Quantity `json:"quantity"`
	Comment         *string  `json:"comment"`
	SourceChatID    *int64   `json:"sourceChatId"`
	SourceMessageID *int64   `json:"sourceMessageId"`
	Version         int32    `json:"-"`
	Timestamps

	// 以下字段只在列表查询时填充
	WorkerName   string `json:"workerName,omitempty"`
	WorkTypeName string `json:"workTypeName,omitempty"`
	Unit         string `json:"unit,omitempty"`
}

// WorkEntryFilter 中的零值表示不过滤
type WorkEntryFilter struct {
	Start      *Date
	End        *Date
	WorkDate   *Date
	WorkerID   int64
	WorkTypeID int64
	Search     string
}

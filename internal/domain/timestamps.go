package domain

import "time"

// Timestamps 由所有持久化的记录嵌入，两个字段都由数据库负责写入
type Timestamps struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

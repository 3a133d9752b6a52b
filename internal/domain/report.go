package domain

// LabeledValue 是聚合查询返回的一行：展示用的标签和对应的数量之和
type LabeledValue struct {
	ID    int64   `json:"id"`
	Label string  `json:"label"`
	Total float64 `json:"total"`
}

type DayTotal struct {
	Day   Date
	Total float64
}

type DaySnapshot struct {
	Total     float64 `json:"total"`
	Workers   int64   `json:"workers"`
	WorkTypes int64   `json:"workTypes"`
}

// AnalyticsReport 是分析页需要的全部数据，各个序列都以 labels/values 两个等长数组给出，方便直接喂给图表
type AnalyticsReport struct {
	Start         string    `json:"start"`
	End           string    `json:"end"`
	TotalQuantity float64   `json:"totalQty"`
	DaysLabels    []string  `json:"daysLabels"`
	DaysValues    []float64 `json:"daysValues"`
	WorkersLabels []string  `json:"workersLabels"`
	WorkersValues []float64 `json:"workersValues"`
	TypesLabels   []string  `json:"typesLabels"`
	TypesValues   []float64 `json:"typesValues"`
	TodayTotal    float64   `json:"todayTotal"`
	TodayWorkers  int64     `json:"todayWorkers"`
	TodayTypes    int64     `json:"todayTypes"`
}

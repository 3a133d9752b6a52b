package domain

import "fmt"

const DefaultUnit = "шт"

type WorkType struct {
	ID          int64  `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Unit        string `json:"unit"`
	IsActive    bool   `json:"isActive"`
	DefaultRate Rate   `json:"defaultRate"`
	Version     int32  `json:"-"`
	Timestamps
}

// Label 用于列表和图表中的展示，例如 "Кладка (шт)"
func (t *WorkType) Label() string {
	return TypeLabel(t.Name, t.Unit)
}

func (t *WorkType) String() string {
	return t.Label()
}

func TypeLabel(name, unit string) string {
	return fmt.Sprintf("%s (%s)", name, unit)
}

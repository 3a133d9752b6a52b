package main

import (
	"github.com/sysu-ecnc-dev/worklog/backend/internal/domain"
)

type row struct {
	Label string
	Value float64
}

type reportView struct {
	Title  string
	Report domain.AnalyticsReport
	Days   []row
	Top    []row
	Types  []row
}

// newReportView 把 labels/values 两个数组合并成模板方便遍历的行
func newReportView(data domain.AnalyticsReportMailData) reportView {
	return reportView{
		Title:  data.Title,
		Report: data.Report,
		Days:   zipRows(data.Report.DaysLabels, data.Report.DaysValues),
		Top:    zipRows(data.Report.WorkersLabels, data.Report.WorkersValues),
		Types:  zipRows(data.Report.TypesLabels, data.Report.TypesValues),
	}
}

func zipRows(labels []string, values []float64) []row {
	n := min(len(labels), len(values))
	rows := make([]row, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, row{Label: labels[i], Value: values[i]})
	}
	return rows
}

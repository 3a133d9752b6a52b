package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

const MailTypeAnalyticsReport = "analytics_report"

type AnalyticsReportMailData struct {
	Title  string          `json:"title"`
	Report AnalyticsReport `json:"report"`
}

package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "worklog",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Number of handled admin API requests.",
	}, []string{"method", "status"})
	reportBuildSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "worklog",
		Subsystem: "analytics",
		Name:      "report_build_seconds",
		Help:      "Time spent aggregating an analytics report.",
		Buckets:   prometheus.DefBuckets,
	})
	reportCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "worklog",
		Subsystem: "analytics",
		Name:      "report_cache_hits_total",
		Help:      "Analytics reports served from the redis cache.",
	})
	entriesIngested = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "worklog",
		Subsystem: "ingest",
		Name:      "work_reports_total",
		Help:      "Work reports consumed from the queue, partitioned by outcome.",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(httpRequests, reportBuildSeconds, reportCacheHits, entriesIngested)
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func RecordRequest(method string, status int) {
	httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

func ObserveReportBuild(d time.Duration) {
	reportBuildSeconds.Observe(d.Seconds())
}

func RecordReportCacheHit() {
	reportCacheHits.Inc()
}

// RecordIngest 记录一条上报的处理结果，outcome 取值见 ingest 包中的常量
func RecordIngest(outcome string) {
	entriesIngested.WithLabelValues(outcome).Inc()
}

package services

import (
	"strconv"
	"sync/atomic"

	"echo-server/internal/middleware"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "echo_request_total",
			Help: "Total requests received by echo services",
		},
		[]string{"service", "route", "method", "code"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "echo_request_duration_seconds",
			Help:    "Duration of echo service requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "route"},
	)

	persistedBodies = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "echo_persisted_bodies_total",
			Help: "Request bodies written to disk",
		},
	)

	stagedUploads = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "echo_staged_uploads_total",
			Help: "Uploaded files staged to the temp directory",
		},
	)
)

// Prometheus 客户端不便读回计数，本地维护一份总数供健康检查使用
var (
	totalRequests  atomic.Int64
	totalErrors    atomic.Int64
	totalPersisted atomic.Int64
	totalUploads   atomic.Int64
)

func init() {
	prometheus.MustRegister(requestCount)
	prometheus.MustRegister(requestDuration)
	prometheus.MustRegister(persistedBodies)
	prometheus.MustRegister(stagedUploads)
}

type metricsRecorder struct{}

// Recorder 是写入全局 Prometheus 指标的统计器
var Recorder = metricsRecorder{}

var (
	_ middleware.RequestRecorder = metricsRecorder{}
	_ middleware.UploadRecorder  = metricsRecorder{}
)

func (metricsRecorder) RecordRequest(service, route, method string, status int, seconds float64) {
	requestCount.WithLabelValues(service, route, method, strconv.Itoa(status)).Inc()
	requestDuration.WithLabelValues(service, route).Observe(seconds)
	totalRequests.Add(1)
	if status >= 400 {
		totalErrors.Add(1)
	}
}

func (metricsRecorder) RecordUpload(*middleware.UploadedFile) {
	stagedUploads.Inc()
	totalUploads.Add(1)
}

func recordPersisted() {
	persistedBodies.Inc()
	totalPersisted.Add(1)
}

func GetTotalRequestCount() int64 {
	return totalRequests.Load()
}

func GetTotalErrorCount() int64 {
	return totalErrors.Load()
}

func GetPersistedCount() int64 {
	return totalPersisted.Load()
}

func GetStagedUploadCount() int64 {
	return totalUploads.Load()
}

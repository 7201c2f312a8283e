// Package metrics holds the Prometheus collectors shared by the server and
// the worker. Collectors register on the default registry at init and are
// served by promhttp at /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cerebrin"

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "Total HTTP requests"},
		[]string{"method", "path", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	hitlDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "hitl_decisions_total", Help: "Agent action outcomes by decision (allowed, pending, denied, approved, rejected, failed)"},
		[]string{"outcome", "action"},
	)
	llmCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "llm_calls_total", Help: "LLM calls by operation and outcome"},
		[]string{"operation", "outcome"},
	)
	queueTasksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "queue_tasks_total", Help: "Processed queue tasks by type and outcome"},
		[]string{"task_type", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal, httpRequestDuration, hitlDecisionsTotal, llmCallsTotal, queueTasksTotal)
}

// ObserveHTTP records one finished request. path is the route template, not the raw URL.
func ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	code := strconv.Itoa(status)
	httpRequestDuration.WithLabelValues(method, path, code).Observe(elapsed.Seconds())
	httpRequestsTotal.WithLabelValues(method, path, code).Inc()
}

func RecordHITLDecision(outcome, action string) {
	hitlDecisionsTotal.WithLabelValues(outcome, action).Inc()
}

func RecordLLMCall(operation string, err error) {
	llmCallsTotal.WithLabelValues(operation, outcome(err)).Inc()
}

func RecordQueueTask(taskType, result string) {
	queueTasksTotal.WithLabelValues(taskType, result).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var countJobsInQueue = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "count_jobs_in_queue",
	Help: "Number of ingestion jobs in queue",
})

var dispatcherSignalCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "dispatcher_signal_count",
	Help: "How often the dispatcher has signaled to start worker",
})

var activeWorkerCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "active_worker_count",
	Help: "Number of active workers",
})

var documentsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "documents_ingested_total",
	Help: "Documents that finished ingestion labelled by outcome",
}, []string{"outcome"})

var chatRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "chat_requests_total",
	Help: "Chat requests labelled by mode",
}, []string{"mode"})

var citationsReturned = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "citations_per_answer",
	Help:    "Reconciled citations per chat answer",
	Buckets: []float64{0, 1, 2, 4, 8, 16},
})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func IncrementJobsInQueue() {
	countJobsInQueue.Inc()
}

func DecrementJobsInQueue() {
	countJobsInQueue.Dec()
}

func StartDispatcherSignalCount() {
	dispatcherSignalCount.Inc()
}

func IncrementActiveWorkerCount() {
	activeWorkerCount.Inc()
}
func DecrementActiveWorkerCount() {
	activeWorkerCount.Dec()
}

func CountDocumentIngested(outcome string) {
	documentsIngested.WithLabelValues(outcome).Inc()
}

func CountChatRequest(mode string) {
	chatRequestsTotal.WithLabelValues(mode).Inc()
}

func ObserveCitations(count int) {
	citationsReturned.Observe(float64(count))
}

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "chat_pipeline_duration_seconds",
	Help:    "Total time spent answering a chat request.",
	Buckets: []float64{.1, .5, 1, 2, 5, 10, 30},
}, []string{"mode"})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
}, []string{"service"})

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CaptureChatMetrics(mode string, timeElapsed time.Duration) {
	requestDuration.WithLabelValues(mode).Observe(timeElapsed.Seconds())
}

package telemetry

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	workflowsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sdlcflow_workflows_started_total",
		Help: "Total number of workflow runs started",
	})
	workflowsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sdlcflow_workflows_finished_total",
		Help: "Total number of workflow runs finished, by outcome",
	}, []string{"status"})
	nodeExecutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sdlcflow_node_executions_total",
		Help: "Total number of workflow node executions",
	}, []string{"node"})
	llmLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sdlcflow_llm_request_duration_seconds",
		Help:    "Latency of LLM requests per project and node",
		Buckets: prometheus.DefBuckets,
	}, []string{"project", "node"})
	tokenUsage = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sdlcflow_tokens_total",
		Help: "Estimated tokens consumed per project",
	}, []string{"project"})
	storiesGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sdlcflow_user_stories_generated_total",
		Help: "Total number of user stories generated per project",
	}, []string{"project"})
)

// TrackWorkflowStarted records a new workflow run.
func TrackWorkflowStarted() {
	workflowsStarted.Inc()
}

// TrackWorkflowFinished records a finished run with its terminal status.
func TrackWorkflowFinished(status string) {
	workflowsCompleted.WithLabelValues(status).Inc()
}

// TrackNodeExecution records a single node execution.
func TrackNodeExecution(node string) {
	nodeExecutions.WithLabelValues(node).Inc()
}

// ObserveLLMLatency records the duration of one LLM round trip.
func ObserveLLMLatency(project, node string, seconds float64) {
	llmLatency.WithLabelValues(project, node).Observe(seconds)
}

// TrackTokenUsage adds estimated token consumption for a project.
func TrackTokenUsage(project string, tokens int) {
	tokenUsage.WithLabelValues(project).Add(float64(tokens))
}

// TrackStoriesGenerated records how many stories a run produced.
func TrackStoriesGenerated(project string, count int) {
	storiesGenerated.WithLabelValues(project).Add(float64(count))
}

// StartMetricsServer exposes /metrics on the given port. Blocks.
func StartMetricsServer(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
}

package observers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the agent's Prometheus metrics.
type Metrics struct {
	ModelCalls   *prometheus.CounterVec
	ModelLatency *prometheus.HistogramVec
	ModelTokens  *prometheus.CounterVec
	ToolCalls    *prometheus.CounterVec
	ToolLatency  *prometheus.HistogramVec
	Turns        *prometheus.CounterVec
	TurnLatency  prometheus.Histogram
}

// NewMetrics registers the metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ModelCalls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hr_agent_model_calls_total",
			Help: "Completion provider calls by provider and outcome",
		}, []string{"provider", "outcome"}),
		ModelLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hr_agent_model_call_duration_seconds",
			Help:    "Completion provider latency in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60, 90},
		}, []string{"provider"}),
		ModelTokens: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hr_agent_model_tokens_total",
			Help: "Tokens consumed by kind",
		}, []string{"provider", "kind"}),
		ToolCalls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hr_agent_tool_calls_total",
			Help: "Tool invocations by tool and outcome",
		}, []string{"tool", "outcome"}),
		ToolLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hr_agent_tool_call_duration_seconds",
			Help:    "Tool latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"tool"}),
		Turns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hr_agent_turns_total",
			Help: "Conversation turns by outcome",
		}, []string{"outcome"}),
		TurnLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "hr_agent_turn_duration_seconds",
			Help:    "End-to-end turn latency in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		}),
	}
}

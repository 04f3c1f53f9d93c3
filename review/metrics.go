package review

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides Prometheus collectors for pipeline monitoring.
//
// Metrics exposed (all namespaced "examreview"):
//
//   - reviews_total (counter): completed reviews, labeled by status.
//   - agent_latency_seconds (histogram): per-agent call duration
//     including the fallback hop, labeled by agent and outcome.
//   - agent_fallbacks_total (counter): fallback hops taken, by agent.
//   - agent_degraded_total (counter): degraded defaults substituted, by
//     agent. A non-zero rate here means a provider is down or a prompt
//     is producing unparseable output.
//   - escalations_total (counter): reviews flagged for human attention.
//   - inflight_agents (gauge): agent calls currently executing.
//
// A nil *Metrics is valid and records nothing, so the pipeline can run
// without a registry.
//
// Usage:
//
//	registry := prometheus.NewRegistry()
//	metrics := review.NewMetrics(registry)
//	pipe := review.New(client, review.WithMetrics(metrics))
//	http.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
type Metrics struct {
	reviews      *prometheus.CounterVec
	agentLatency *prometheus.HistogramVec
	fallbacks    *prometheus.CounterVec
	degraded     *prometheus.CounterVec
	escalations  prometheus.Counter
	inflight     prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the given
// registry. A nil registry uses the default global registerer.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Metrics{
		reviews: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "examreview",
			Name:      "reviews_total",
			Help:      "Completed question reviews by status.",
		}, []string{"status"}),
		agentLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "examreview",
			Name:      "agent_latency_seconds",
			Help:      "Agent call duration including the fallback hop.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"agent", "outcome"}),
		fallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "examreview",
			Name:      "agent_fallbacks_total",
			Help:      "Fallback hops taken after a primary model call failed.",
		}, []string{"agent"}),
		degraded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "examreview",
			Name:      "agent_degraded_total",
			Help:      "Degraded default results substituted after fallback exhaustion.",
		}, []string{"agent"}),
		escalations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "examreview",
			Name:      "escalations_total",
			Help:      "Reviews flagged for human attention.",
		}),
		inflight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "examreview",
			Name:      "inflight_agents",
			Help:      "Agent calls currently executing.",
		}),
	}
}

// agentTimer tracks one agent call's duration and inflight state.
type agentTimer struct {
	m     *Metrics
	agent string
	start time.Time
}

func (m *Metrics) startAgent(agent string) agentTimer {
	if m != nil {
		m.inflight.Inc()
	}
	return agentTimer{m: m, agent: agent, start: time.Now()}
}

func (t agentTimer) done(success bool) {
	if t.m == nil {
		return
	}
	t.m.inflight.Dec()

	outcome := "success"
	if !success {
		outcome = "degraded"
	}
	t.m.agentLatency.WithLabelValues(t.agent, outcome).Observe(time.Since(t.start).Seconds())
}

func (m *Metrics) recordFallback(agent string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(agent).Inc()
}

func (m *Metrics) recordDegraded(agent string) {
	if m == nil {
		return
	}
	m.degraded.WithLabelValues(agent).Inc()
}

func (m *Metrics) recordReview(status string, needsHuman bool) {
	if m == nil {
		return
	}
	m.reviews.WithLabelValues(status).Inc()
	if needsHuman {
		m.escalations.Inc()
	}
}

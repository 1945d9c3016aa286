package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration      *prom.HistogramVec
	stageResults       *prom.CounterVec
	transitionDuration *prom.HistogramVec
	transitionOutcome  *prom.CounterVec
	loadedPlugins      prom.Gauge
	routes             prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics on reg
// (a fresh registry when reg is nil).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "sitebuilder",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual orchestration stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "sitebuilder",
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		transitionDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "sitebuilder",
			Name:      "transition_duration_seconds",
			Help:      "Duration of site lifecycle transitions (load, reload, reload_plugin)",
			Buckets:   prom.DefBuckets,
		}, []string{"transition"}),
		transitionOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "sitebuilder",
			Name:      "transition_outcomes_total",
			Help:      "Site lifecycle transitions by final status",
		}, []string{"transition", "result"}),
		loadedPlugins: prom.NewGauge(prom.GaugeOpts{
			Namespace: "sitebuilder",
			Name:      "loaded_plugins",
			Help:      "Number of plugins in the most recently loaded site",
		}),
		routes: prom.NewGauge(prom.GaugeOpts{
			Namespace: "sitebuilder",
			Name:      "routes",
			Help:      "Number of final routes in the most recently loaded site",
		}),
	}
	reg.MustRegister(pr.stageDuration, pr.stageResults, pr.transitionDuration, pr.transitionOutcome, pr.loadedPlugins, pr.routes)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveTransitionDuration(transition string, d time.Duration) {
	if p == nil {
		return
	}
	p.transitionDuration.WithLabelValues(transition).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncTransitionOutcome(transition string, result ResultLabel) {
	if p == nil {
		return
	}
	p.transitionOutcome.WithLabelValues(transition, string(result)).Inc()
}

func (p *PrometheusRecorder) SetLoadedPlugins(n int) {
	if p == nil {
		return
	}
	p.loadedPlugins.Set(float64(n))
}

func (p *PrometheusRecorder) SetRoutes(n int) {
	if p == nil {
		return
	}
	p.routes.Set(float64(n))
}

package metrics

import "time"

// ResultLabel enumerates stage and transition result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFailed   ResultLabel = "failed"
	ResultCanceled ResultLabel = "canceled"
)

// Transition names used as the lifecycle label.
const (
	TransitionLoad         = "load"
	TransitionReload       = "reload"
	TransitionReloadPlugin = "reload_plugin"
)

// Recorder defines observability hooks for site lifecycle and stage metrics.
// Implementations may forward to Prometheus, OpenTelemetry, etc.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	ObserveTransitionDuration(transition string, d time.Duration)
	IncTransitionOutcome(transition string, result ResultLabel)
	SetLoadedPlugins(n int)
	SetRoutes(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration)      {}
func (NoopRecorder) IncStageResult(string, ResultLabel)              {}
func (NoopRecorder) ObserveTransitionDuration(string, time.Duration) {}
func (NoopRecorder) IncTransitionOutcome(string, ResultLabel)        {}
func (NoopRecorder) SetLoadedPlugins(int)                            {}
func (NoopRecorder) SetRoutes(int)                                   {}

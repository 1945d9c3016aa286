package site

import (
	"context"
	"fmt"
	"time"

	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
	"git.home.luguber.info/inful/sitebuilder/internal/observability"
	"git.home.luguber.info/inful/sitebuilder/internal/plugin"
	"git.home.luguber.info/inful/sitebuilder/internal/props"
	"git.home.luguber.info/inful/sitebuilder/internal/sitecontext"
)

// Stage is a discrete unit of work in a lifecycle transition.
type Stage func(ctx context.Context, bs *buildState) error

// StageName is a strongly-typed identifier for a stage.
type StageName string

// Canonical stage names.
const (
	StageLoadContext   StageName = "load_context"
	StageLoadPlugins   StageName = "load_plugins"
	StageReloadPlugin  StageName = "reload_plugin"
	StageCreateProps   StageName = "create_props"
	StageGenerateFiles StageName = "generate_files"
)

// StageError reports a transition abandoned before a stage started.
type StageError struct {
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("canceled before stage %s: %v", e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

// StageDef pairs a stage name with its executing function.
type StageDef struct {
	Name StageName
	Fn   Stage
}

// Pipeline is a fluent builder for ordered stage definitions.
type Pipeline struct{ Defs []StageDef }

// NewPipeline creates an empty pipeline.
func NewPipeline() *Pipeline { return &Pipeline{Defs: make([]StageDef, 0, 4)} }

// Add appends a stage unconditionally.
func (p *Pipeline) Add(name StageName, fn Stage) *Pipeline {
	p.Defs = append(p.Defs, StageDef{Name: name, Fn: fn})
	return p
}

// Build returns a copy of the stage definitions.
func (p *Pipeline) Build() []StageDef {
	out := make([]StageDef, len(p.Defs))
	copy(out, p.Defs)
	return out
}

// buildState carries the intermediate values of one transition.
type buildState struct {
	buildID string
	params  sitecontext.Params

	// Set by the single-plugin reload path.
	prior    *Site
	pluginID plugin.Identifier

	context sitecontext.Context
	plugins *plugin.Result
	props   *props.Props
}

// runStages executes stages in order, recording timing and stopping on the first error.
// Stage errors are returned as they are; cancellation is only checked between stages.
func (c *Controller) runStages(ctx context.Context, bs *buildState, stages []StageDef) error {
	for _, st := range stages {
		select {
		case <-ctx.Done():
			c.recorder.IncStageResult(string(st.Name), metrics.ResultCanceled)
			return &StageError{Stage: st.Name, Err: ctx.Err()}
		default:
		}

		sctx := observability.WithStage(ctx, string(st.Name))
		sctx, span := observability.StartStageSpan(sctx, c.tracer, string(st.Name), bs.buildID)
		logger := observability.Logger(sctx, c.logger)
		logger.Debug("Stage started")

		t0 := time.Now()
		err := st.Fn(sctx, bs)
		dur := time.Since(t0)

		observability.EndSpan(span, err)
		c.recorder.ObserveStageDuration(string(st.Name), dur)
		if err != nil {
			c.recorder.IncStageResult(string(st.Name), metrics.ResultFailed)
			logger.Debug("Stage failed", logfields.Duration(dur), logfields.Error(err))
			return err
		}
		c.recorder.IncStageResult(string(st.Name), metrics.ResultSuccess)
		logger.Debug("Stage completed", logfields.Duration(dur))
	}
	return nil
}

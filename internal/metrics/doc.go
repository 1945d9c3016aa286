// Package metrics provides the observability hooks for site lifecycle transitions.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics never require nil checks at call sites:
//
//	ctrl := site.NewController(site.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//
// PrometheusRecorder is the production implementation; HTTPHandler exposes its
// registry for scraping (the dev server mounts it when --metrics-addr is set).
package metrics

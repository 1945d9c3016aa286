// Package errors provides the classified error primitives used across the site builder.
//
// Every stage of the orchestration pipeline reports failures as a ClassifiedError so that
// callers (the CLI, the dev server) can branch on the kind of failure without string matching.
//
// Key features:
//   - ErrorCategory: failure kind (config, i18n, duplicate_route, plugin, codegen, ...)
//   - ErrorSeverity: log level the failure is reported at
//   - UserFixable: whether editing site files can resolve the failure
//   - ClassifiedError: structured error with category, severity and context
//   - ErrorBuilder: fluent API for creating classified errors
//   - CLIErrorAdapter: exit codes and user-facing formatting
//
// Example usage:
//
//	err := errors.PluginLifecycleError("content loading failed").
//		WithContext("plugin", id.String()).
//		WithCause(originalErr).
//		Build()
package errors

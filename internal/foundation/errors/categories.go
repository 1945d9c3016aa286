package errors

// ErrorCategory is the failure kind callers branch on.
type ErrorCategory string

const (
	// CategoryConfig covers a missing, unparsable or invalid site configuration.
	CategoryConfig ErrorCategory = "config"
	// CategoryValidation covers invalid caller input such as CLI flags.
	CategoryValidation ErrorCategory = "validation"
	// CategoryI18n covers locales that cannot be resolved against the configured set.
	CategoryI18n ErrorCategory = "i18n"
	// CategoryDuplicateRoute is raised when route collisions are found under the error policy.
	CategoryDuplicateRoute ErrorCategory = "duplicate_route"
	// CategoryPlugin covers failures inside a plugin lifecycle step.
	CategoryPlugin ErrorCategory = "plugin"
	// CategoryCodegen covers failures writing the generated files.
	CategoryCodegen    ErrorCategory = "codegen"
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryRuntime    ErrorCategory = "runtime"
	CategoryInternal   ErrorCategory = "internal"
)

// ErrorSeverity selects the log level an error is reported at.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"
	SeverityError   ErrorSeverity = "error"
	SeverityWarning ErrorSeverity = "warning"
)

// ErrorContext carries structured fields for logging.
type ErrorContext map[string]any

func (c ErrorContext) with(key string, value any) ErrorContext {
	next := make(ErrorContext, len(c)+1)
	for k, v := range c {
		next[k] = v
	}
	next[key] = value
	return next
}
